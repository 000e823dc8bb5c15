package wand

import (
	"strings"

	"github.com/wippyai/magick-wand/errors"
)

// FilterType selects the resampling filter used by ResizeImage.
type FilterType int

const (
	UndefinedFilter FilterType = iota
	PointFilter
	BoxFilter
	TriangleFilter
	HermiteFilter
	HannFilter
	HammingFilter
	BlackmanFilter
	GaussianFilter
	QuadraticFilter
	CubicFilter
	CatromFilter
	MitchellFilter
	JincFilter
	SincFilter
	SincFastFilter
	KaiserFilter
	WelchFilter
	ParzenFilter
	BohmanFilter
	BartlettFilter
	LagrangeFilter
	LanczosFilter
	LanczosSharpFilter
	Lanczos2Filter
	Lanczos2SharpFilter
	RobidouxFilter
	RobidouxSharpFilter
	CosineFilter
	SplineFilter
	LanczosRadiusFilter
	CubicSplineFilter
	sentinelFilter
)

var filterNames = [...]string{
	"Undefined", "Point", "Box", "Triangle", "Hermite", "Hann", "Hamming",
	"Blackman", "Gaussian", "Quadratic", "Cubic", "Catrom", "Mitchell", "Jinc",
	"Sinc", "SincFast", "Kaiser", "Welch", "Parzen", "Bohman", "Bartlett",
	"Lagrange", "Lanczos", "LanczosSharp", "Lanczos2", "Lanczos2Sharp",
	"Robidoux", "RobidouxSharp", "Cosine", "Spline", "LanczosRadius", "CubicSpline",
}

func (f FilterType) Valid() bool { return f >= 0 && f < sentinelFilter }

func (f FilterType) String() string {
	if !f.Valid() {
		return "UnknownFilter"
	}
	return filterNames[f] + "Filter"
}

// ParseFilterType resolves a filter by name, with or without the "Filter"
// suffix, ignoring case.
func ParseFilterType(name string) (FilterType, error) {
	n := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(name)), "filter")
	for i, fn := range filterNames {
		if strings.ToLower(fn) == n {
			return FilterType(i), nil
		}
	}
	return UndefinedFilter, errors.InvalidEnum(errors.PhaseConfig, name, "FilterType")
}

// GravityType positions text relative to the image edges.
type GravityType int

const (
	UndefinedGravity GravityType = iota
	NorthWestGravity
	NorthGravity
	NorthEastGravity
	WestGravity
	CenterGravity
	EastGravity
	SouthWestGravity
	SouthGravity
	SouthEastGravity

	ForgetGravity = UndefinedGravity
)

func (g GravityType) Valid() bool { return g >= UndefinedGravity && g <= SouthEastGravity }

// AlignType aligns text horizontally around its anchor.
type AlignType int

const (
	UndefinedAlign AlignType = iota
	LeftAlign
	CenterAlign
	RightAlign
)

func (a AlignType) Valid() bool { return a >= UndefinedAlign && a <= RightAlign }

// StyleType is a font style.
type StyleType int

const (
	UndefinedStyle StyleType = iota
	NormalStyle
	ItalicStyle
	ObliqueStyle
	AnyStyle
	BoldStyle
)

func (s StyleType) Valid() bool { return s >= UndefinedStyle && s <= BoldStyle }

// ResourceType names a global resource limit of the native library.
type ResourceType int

const (
	UndefinedResource ResourceType = iota
	AreaResource
	DiskResource
	FileResource
	HeightResource
	MapResource
	MemoryResource
	ThreadResource
	ThrottleResource
	TimeResource
	WidthResource
	ListLengthResource
)

var resourceNames = [...]string{
	"Undefined", "Area", "Disk", "File", "Height", "Map", "Memory",
	"Thread", "Throttle", "Time", "Width", "ListLength",
}

func (r ResourceType) Valid() bool { return r > UndefinedResource && r <= ListLengthResource }

func (r ResourceType) String() string {
	if r < UndefinedResource || r > ListLengthResource {
		return "UnknownResource"
	}
	return resourceNames[r] + "Resource"
}
