package native

import "fmt"

// Class is the class of a native datatype.
type Class int

const (
	ClassNone      Class = -1 // No class / unknown
	ClassInteger   Class = 0  // Integers
	ClassFloat     Class = 1  // Floating-point
	ClassTime      Class = 2  // Time
	ClassString    Class = 3  // Strings
	ClassBitfield  Class = 4  // Bitfields
	ClassOpaque    Class = 5  // Opaque data
	ClassCompound  Class = 6  // Compound types (records)
	ClassReference Class = 7  // References to objects/regions
	ClassEnum      Class = 8  // Enumerated types
	ClassVarLen    Class = 9  // Variable-length data
	ClassArray     Class = 10 // Fixed-size arrays
)

var classNames = map[Class]string{
	ClassNone:      "none",
	ClassInteger:   "integer",
	ClassFloat:     "float",
	ClassTime:      "time",
	ClassString:    "string",
	ClassBitfield:  "bitfield",
	ClassOpaque:    "opaque",
	ClassCompound:  "compound",
	ClassReference: "reference",
	ClassEnum:      "enum",
	ClassVarLen:    "vlen",
	ClassArray:     "array",
}

func (c Class) String() string {
	if name, ok := classNames[c]; ok {
		return name
	}
	return fmt.Sprintf("class(%d)", int(c))
}

// ParseClass returns the class with the given name as printed by String.
func ParseClass(name string) (Class, error) {
	for c, n := range classNames {
		if n == name {
			return c, nil
		}
	}
	return ClassNone, fmt.Errorf("unknown datatype class %q", name)
}

// Sign is the sign convention of an integer datatype.
type Sign int

const (
	SignNone  Sign = 0 // Unsigned
	SignTwos  Sign = 1 // Two's complement
	SignError Sign = -1
)

// FloatKind is the platform-neutral representation a floating-point
// datatype resolves to.
type FloatKind int

const (
	FloatOther  FloatKind = iota // Anything that is not exactly IEEE single or double
	FloatSingle                  // IEEE 754 binary32
	FloatDouble                  // IEEE 754 binary64
)

func (k FloatKind) String() string {
	switch k {
	case FloatSingle:
		return "single"
	case FloatDouble:
		return "double"
	default:
		return "other"
	}
}
