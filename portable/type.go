package portable

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// MaxNumDims is the maximum number of dimensions of an array type.
const MaxNumDims = 8

// Common errors
var (
	ErrWrongClass  = errors.New("operation not valid for type class")
	ErrTooManyDims = errors.New("maximum number of dimensions exceeded")
	ErrAlreadySet  = errors.New("property already set")
	ErrNilType     = errors.New("nil type")
)

// Class is the class of a portable type.
type Class int

const (
	ClassRecord Class = iota
	ClassArray
	ClassInteger
	ClassReal
	ClassText
)

func (c Class) String() string {
	switch c {
	case ClassRecord:
		return "record"
	case ClassArray:
		return "array"
	case ClassInteger:
		return "integer"
	case ClassReal:
		return "real"
	case ClassText:
		return "text"
	default:
		return fmt.Sprintf("class(%d)", int(c))
	}
}

// ReadType is the Go-level representation used when reading a value.
type ReadType int

const (
	ReadNotAvailable ReadType = iota
	ReadInt8
	ReadUint8
	ReadInt16
	ReadUint16
	ReadInt32
	ReadUint32
	ReadInt64
	ReadUint64
	ReadFloat
	ReadDouble
	ReadString
)

var readTypeNames = [...]string{
	ReadNotAvailable: "",
	ReadInt8:         "int8",
	ReadUint8:        "uint8",
	ReadInt16:        "int16",
	ReadUint16:       "uint16",
	ReadInt32:        "int32",
	ReadUint32:       "uint32",
	ReadInt64:        "int64",
	ReadUint64:       "uint64",
	ReadFloat:        "float",
	ReadDouble:       "double",
	ReadString:       "string",
}

func (r ReadType) String() string {
	if r >= 0 && int(r) < len(readTypeNames) && r != ReadNotAvailable {
		return readTypeNames[r]
	}
	return "not available"
}

// IsInteger reports whether r reads an integer.
func (r ReadType) IsInteger() bool {
	return r >= ReadInt8 && r <= ReadUint64
}

// IsReal reports whether r reads a floating-point number.
func (r ReadType) IsReal() bool {
	return r == ReadFloat || r == ReadDouble
}

// Field is a named member of a record type.
type Field struct {
	// Name is a unique identifier derived from RealName.
	Name string
	// RealName is the name as found in the native container.
	RealName string
	Type     *Type
}

// Type is a portable type definition.
type Type struct {
	class    Class
	readType ReadType
	refs     atomic.Int32

	// Array specific
	dims []int64
	base *Type

	// Record specific
	fields []Field
	index  map[string]int

	attributes *Type
}

func newType(class Class, readType ReadType) *Type {
	t := &Type{class: class, readType: readType}
	t.refs.Store(1)
	return t
}

// NewNumber creates an integer or real type without a read type.
func NewNumber(class Class) (*Type, error) {
	if class != ClassInteger && class != ClassReal {
		return nil, fmt.Errorf("%w: number type of class %s", ErrWrongClass, class)
	}
	return newType(class, ReadNotAvailable), nil
}

// NewText creates a text type.
func NewText() *Type {
	return newType(ClassText, ReadString)
}

// NewArray creates an array type without dimensions or base type.
func NewArray() *Type {
	return newType(ClassArray, ReadNotAvailable)
}

// NewRecord creates an empty record type.
func NewRecord() *Type {
	t := newType(ClassRecord, ReadNotAvailable)
	t.index = make(map[string]int)
	return t
}

// Class returns the type class.
func (t *Type) Class() Class { return t.class }

// ReadType returns the read type of a number or text type.
func (t *Type) ReadType() ReadType { return t.readType }

// SetReadType sets the read type of a number type.
func (t *Type) SetReadType(rt ReadType) error {
	switch t.class {
	case ClassInteger:
		if !rt.IsInteger() {
			return fmt.Errorf("%w: read type %s for integer type", ErrWrongClass, rt)
		}
	case ClassReal:
		if !rt.IsReal() {
			return fmt.Errorf("%w: read type %s for real type", ErrWrongClass, rt)
		}
	default:
		return fmt.Errorf("%w: cannot set read type of %s type", ErrWrongClass, t.class)
	}
	t.readType = rt
	return nil
}

// AddFixedDimension appends a dimension to an array type.
func (t *Type) AddFixedDimension(n int64) error {
	if t.class != ClassArray {
		return fmt.Errorf("%w: cannot add dimension to %s type", ErrWrongClass, t.class)
	}
	if n < 0 {
		return fmt.Errorf("invalid dimension size %d", n)
	}
	if len(t.dims) >= MaxNumDims {
		return fmt.Errorf("%w (%d)", ErrTooManyDims, MaxNumDims)
	}
	t.dims = append(t.dims, n)
	return nil
}

// Dims returns a copy of the array dimensions.
func (t *Type) Dims() []int64 {
	dims := make([]int64, len(t.dims))
	copy(dims, t.dims)
	return dims
}

// NumElements returns the number of elements of an array type.
func (t *Type) NumElements() int64 {
	n := int64(1)
	for _, d := range t.dims {
		n *= d
	}
	return n
}

// SetBaseType sets the element type of an array. The array takes a
// reference on base.
func (t *Type) SetBaseType(base *Type) error {
	if t.class != ClassArray {
		return fmt.Errorf("%w: cannot set base type of %s type", ErrWrongClass, t.class)
	}
	if base == nil {
		return ErrNilType
	}
	if t.base != nil {
		return fmt.Errorf("%w: array base type", ErrAlreadySet)
	}
	t.base = base.Retain()
	return nil
}

// BaseType returns the element type of an array, or nil.
func (t *Type) BaseType() *Type { return t.base }

// CreateField appends a field to a record type. The record takes a reference
// on ft.
func (t *Type) CreateField(realName string, ft *Type) error {
	if t.class != ClassRecord {
		return fmt.Errorf("%w: cannot add field to %s type", ErrWrongClass, t.class)
	}
	if ft == nil {
		return ErrNilType
	}
	name := uniqueName(Identifier(realName), t.index)
	t.index[name] = len(t.fields)
	t.fields = append(t.fields, Field{Name: name, RealName: realName, Type: ft.Retain()})
	return nil
}

// NumFields returns the number of fields of a record type.
func (t *Type) NumFields() int { return len(t.fields) }

// Field returns the i-th field of a record type.
func (t *Type) Field(i int) Field { return t.fields[i] }

// Fields returns a copy of the fields of a record type.
func (t *Type) Fields() []Field {
	fields := make([]Field, len(t.fields))
	copy(fields, t.fields)
	return fields
}

// FieldIndex returns the index of the field with the given real name or,
// failing that, identifier, or -1. Real names win because a derived
// identifier may equal another field's real name.
func (t *Type) FieldIndex(name string) int {
	for i, f := range t.fields {
		if f.RealName == name {
			return i
		}
	}
	if i, ok := t.index[name]; ok {
		return i
	}
	return -1
}

// SetAttributes attaches an attribute record to t, replacing any previous
// one. t takes a reference on attrs.
func (t *Type) SetAttributes(attrs *Type) error {
	if attrs == nil {
		return ErrNilType
	}
	if attrs.class != ClassRecord {
		return fmt.Errorf("%w: attributes must be a record, not %s", ErrWrongClass, attrs.class)
	}
	attrs.Retain()
	if t.attributes != nil {
		t.attributes.Release()
	}
	t.attributes = attrs
	return nil
}

// Attributes returns the attribute record, or nil.
func (t *Type) Attributes() *Type { return t.attributes }

// Retain adds a reference and returns t.
func (t *Type) Retain() *Type {
	t.refs.Add(1)
	return t
}

// Release drops a reference. Dropping the last reference releases the
// references t holds on other types.
func (t *Type) Release() {
	n := t.refs.Add(-1)
	if n > 0 {
		return
	}
	if n < 0 {
		panic("portable: release of unreferenced type")
	}
	if t.base != nil {
		t.base.Release()
		t.base = nil
	}
	for _, f := range t.fields {
		f.Type.Release()
	}
	t.fields = nil
	t.index = nil
	if t.attributes != nil {
		t.attributes.Release()
		t.attributes = nil
	}
}

// Refs returns the current reference count.
func (t *Type) Refs() int {
	return int(t.refs.Load())
}
