package wand

import (
	"github.com/wippyai/magick-wand/fault"
	"github.com/wippyai/magick-wand/native"
	"github.com/wippyai/magick-wand/registry"
)

// Lifecycle and exception accessors. Every proxy forwards them through inner,
// so they are safe on nil and zero-value proxies: Destroy and ClearException
// are no-ops, IsLive and IsWand report false, Exception fails as null.

// ID returns the wand's process-wide identity, or 0 if it was never created.
func (p *PixelWand) ID() registry.Identity { return p.inner().ID() }

func (p *PixelWand) Type() native.WandType { return native.PixelWand }

// IsLive reports whether the wand still owns a native handle.
func (p *PixelWand) IsLive() bool { return p.inner().IsLive() }

func (p *PixelWand) IsWand() bool { return p.inner().IsWand() }

// Destroy releases the native handle. Repeated calls are no-ops.
func (p *PixelWand) Destroy() error { return p.inner().Destroy() }

// Close implements io.Closer.
func (p *PixelWand) Close() error { return p.inner().Destroy() }

func (p *PixelWand) Exception() (fault.NativeFault, error) { return p.inner().Exception() }

func (p *PixelWand) ExceptionType() (fault.ExceptionType, error) { return p.inner().ExceptionType() }

func (p *PixelWand) ClearException() error { return p.inner().ClearException() }

// ID returns the wand's process-wide identity, or 0 if it was never created.
func (d *DrawingWand) ID() registry.Identity { return d.inner().ID() }

func (d *DrawingWand) Type() native.WandType { return native.DrawingWand }

// IsLive reports whether the wand still owns a native handle.
func (d *DrawingWand) IsLive() bool { return d.inner().IsLive() }

func (d *DrawingWand) IsWand() bool { return d.inner().IsWand() }

// Destroy releases the native handle. Repeated calls are no-ops.
func (d *DrawingWand) Destroy() error { return d.inner().Destroy() }

// Close implements io.Closer.
func (d *DrawingWand) Close() error { return d.inner().Destroy() }

func (d *DrawingWand) Exception() (fault.NativeFault, error) { return d.inner().Exception() }

func (d *DrawingWand) ExceptionType() (fault.ExceptionType, error) { return d.inner().ExceptionType() }

func (d *DrawingWand) ClearException() error { return d.inner().ClearException() }

// ID returns the wand's process-wide identity, or 0 if it was never created.
func (m *MagickWand) ID() registry.Identity { return m.inner().ID() }

func (m *MagickWand) Type() native.WandType { return native.MagickWand }

// IsLive reports whether the wand still owns a native handle.
func (m *MagickWand) IsLive() bool { return m.inner().IsLive() }

func (m *MagickWand) IsWand() bool { return m.inner().IsWand() }

// Destroy releases the native handle. Repeated calls are no-ops.
func (m *MagickWand) Destroy() error { return m.inner().Destroy() }

// Close implements io.Closer.
func (m *MagickWand) Close() error { return m.inner().Destroy() }

func (m *MagickWand) Exception() (fault.NativeFault, error) { return m.inner().Exception() }

func (m *MagickWand) ExceptionType() (fault.ExceptionType, error) { return m.inner().ExceptionType() }

func (m *MagickWand) ClearException() error { return m.inner().ClearException() }
