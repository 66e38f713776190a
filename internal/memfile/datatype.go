package memfile

import "github.com/robert-malhotra/go-hdf5-schema/native"

// Datatype describes a datatype stored in a File.
type Datatype struct {
	Class native.Class
	Size  int

	// Integer specific
	Signed bool

	// Float specific; 0 means the full width of Size
	BitPrecision int

	// String specific
	IsVarLenString bool

	// Enum, array and vlen base type
	Base      *Datatype
	ArrayDims []uint64

	// Compound specific
	Members []Member
}

// Member is a member of a compound datatype.
type Member struct {
	Name       string
	ByteOffset int
	Type       *Datatype
}

// Int returns an integer type of size bytes.
func Int(size int, signed bool) *Datatype {
	return &Datatype{Class: native.ClassInteger, Size: size, Signed: signed}
}

// Float32 returns an IEEE single precision type.
func Float32() *Datatype {
	return &Datatype{Class: native.ClassFloat, Size: 4}
}

// Float64 returns an IEEE double precision type.
func Float64() *Datatype {
	return &Datatype{Class: native.ClassFloat, Size: 8}
}

// Float returns a floating-point type with an explicit size and precision.
func Float(size, precision int) *Datatype {
	return &Datatype{Class: native.ClassFloat, Size: size, BitPrecision: precision}
}

// FixedString returns a fixed-length string type of n bytes.
func FixedString(n int) *Datatype {
	return &Datatype{Class: native.ClassString, Size: n}
}

// VarString returns a variable-length string type.
func VarString() *Datatype {
	return &Datatype{Class: native.ClassString, Size: 16, IsVarLenString: true}
}

// Enum returns an enumeration over base.
func Enum(base *Datatype) *Datatype {
	return &Datatype{Class: native.ClassEnum, Size: base.Size, Signed: base.Signed, Base: base}
}

// Field returns a compound member; its offset is assigned by Compound.
func Field(name string, dt *Datatype) Member {
	return Member{Name: name, Type: dt}
}

// Compound returns a compound type with the members packed in order.
func Compound(members ...Member) *Datatype {
	dt := &Datatype{Class: native.ClassCompound}
	offset := 0
	for _, m := range members {
		m.ByteOffset = offset
		offset += m.Type.Size
		dt.Members = append(dt.Members, m)
	}
	dt.Size = offset
	return dt
}

// Array returns a fixed-size array type of base.
func Array(base *Datatype, dims ...uint64) *Datatype {
	n := 1
	for _, d := range dims {
		n *= int(d)
	}
	return &Datatype{Class: native.ClassArray, Size: n * base.Size, Base: base, ArrayDims: dims}
}

// VarLen returns a variable-length sequence of base.
func VarLen(base *Datatype) *Datatype {
	return &Datatype{Class: native.ClassVarLen, Size: 16, Base: base}
}

// Time returns a time type of size bytes.
func Time(size int) *Datatype {
	return &Datatype{Class: native.ClassTime, Size: size}
}

// Bitfield returns a bitfield type of size bytes.
func Bitfield(size int) *Datatype {
	return &Datatype{Class: native.ClassBitfield, Size: size}
}

// Opaque returns an opaque type of size bytes.
func Opaque(size int) *Datatype {
	return &Datatype{Class: native.ClassOpaque, Size: size}
}

// Reference returns an object reference type.
func Reference() *Datatype {
	return &Datatype{Class: native.ClassReference, Size: 8}
}

// NoClass returns a datatype without a class.
func NoClass() *Datatype {
	return &Datatype{Class: native.ClassNone}
}

func (dt *Datatype) floatKind() native.FloatKind {
	switch {
	case dt.Size == 4 && (dt.BitPrecision == 0 || dt.BitPrecision == 32):
		return native.FloatSingle
	case dt.Size == 8 && (dt.BitPrecision == 0 || dt.BitPrecision == 64):
		return native.FloatDouble
	default:
		return native.FloatOther
	}
}
