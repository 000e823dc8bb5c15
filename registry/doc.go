// Package registry provides the process-wide wand identity table.
//
// Every live wand proxy, whatever its type, is registered here under a unique
// Identity. The table lets bulk operations find and release wands without
// holding references to the proxies themselves:
//
//	reg := registry.New()
//
//	// Register a handle together with the owner's release function
//	id, err := reg.Register(native.PixelWand, handle, release)
//
//	// Destroy one, a batch, a whole type, or everything
//	reg.DestroyByID(id)
//	reg.DestroyByIDs([]registry.Identity{a, b})
//	reg.DestroyByType(native.PixelWand)
//	reg.DestroyAll()
//
// # Identities
//
// Identities are issued from a single monotonic counter starting at 1, so they
// are unique across wand types. Once the counter runs out Register fails with
// errors.KindExhausted instead of reusing a value.
//
// # Ownership
//
// The registry never frees native memory itself. Destroying an entry removes it
// from the table and calls the ReleaseFunc supplied at registration, outside the
// table lock. An identity is released at most once; destroying an unknown or
// already destroyed identity is a no-op.
//
// # Observers
//
// Register observers to track lifecycle events:
//
//	cancel := reg.Subscribe(obs) // obs.OnWandEvent(registry.Event{Type: registry.EventRegistered, ...})
//	defer cancel()
//
// Events are delivered one at a time and an identity's EventRegistered always
// precedes its EventDestroyed. Events of different identities are not ordered
// against each other, so a consumer that buffers or drops events should
// resynchronize from Each.
package registry
