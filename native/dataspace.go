package native

// SpaceType is the type of a dataspace.
type SpaceType uint8

const (
	SpaceScalar SpaceType = 0 // Single element
	SpaceSimple SpaceType = 1 // Regular N-dimensional array
	SpaceNull   SpaceType = 2 // No data
)

func (t SpaceType) String() string {
	switch t {
	case SpaceScalar:
		return "scalar"
	case SpaceSimple:
		return "simple"
	case SpaceNull:
		return "null"
	default:
		return "unknown"
	}
}

// Extent describes the shape of a dataspace.
type Extent struct {
	Type       SpaceType
	Dimensions []uint64
}

// IsSimple reports whether the extent is a simple rectangular one. A scalar
// dataspace is a simple dataspace of rank zero.
func (e Extent) IsSimple() bool {
	return e.Type == SpaceScalar || e.Type == SpaceSimple
}

// Rank returns the number of dimensions.
func (e Extent) Rank() int {
	if e.Type != SpaceSimple {
		return 0
	}
	return len(e.Dimensions)
}

// NumElements returns the total number of elements in the extent.
func (e Extent) NumElements() uint64 {
	switch e.Type {
	case SpaceScalar:
		return 1
	case SpaceSimple:
		if len(e.Dimensions) == 0 {
			return 0
		}
		n := uint64(1)
		for _, d := range e.Dimensions {
			n *= d
		}
		return n
	default:
		return 0
	}
}
