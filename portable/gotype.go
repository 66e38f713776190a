package portable

import (
	"fmt"
	"reflect"
)

// GoType returns the Go type a value of read type rt is read into.
func (rt ReadType) GoType() (reflect.Type, error) {
	switch rt {
	case ReadInt8:
		return reflect.TypeOf(int8(0)), nil
	case ReadUint8:
		return reflect.TypeOf(uint8(0)), nil
	case ReadInt16:
		return reflect.TypeOf(int16(0)), nil
	case ReadUint16:
		return reflect.TypeOf(uint16(0)), nil
	case ReadInt32:
		return reflect.TypeOf(int32(0)), nil
	case ReadUint32:
		return reflect.TypeOf(uint32(0)), nil
	case ReadInt64:
		return reflect.TypeOf(int64(0)), nil
	case ReadUint64:
		return reflect.TypeOf(uint64(0)), nil
	case ReadFloat:
		return reflect.TypeOf(float32(0)), nil
	case ReadDouble:
		return reflect.TypeOf(float64(0)), nil
	case ReadString:
		return reflect.TypeOf(""), nil
	default:
		return nil, fmt.Errorf("no Go type for read type %s", rt)
	}
}

// GoType returns the Go type a value of t is read into. Arrays become
// slices of their base type and records become structs with one exported
// field per record field.
func (t *Type) GoType() (reflect.Type, error) {
	switch t.class {
	case ClassInteger, ClassReal, ClassText:
		return t.readType.GoType()
	case ClassArray:
		if t.base == nil {
			return nil, fmt.Errorf("array type has no base type")
		}
		elem, err := t.base.GoType()
		if err != nil {
			return nil, err
		}
		if len(t.dims) == 0 {
			return elem, nil
		}
		return reflect.SliceOf(elem), nil
	case ClassRecord:
		return goTypeRecord(t)
	default:
		return nil, fmt.Errorf("unsupported type class: %s", t.class)
	}
}

func goTypeRecord(t *Type) (reflect.Type, error) {
	fields := make([]reflect.StructField, 0, len(t.fields))
	seen := make(map[string]int, len(t.fields))
	for _, f := range t.fields {
		ft, err := f.Type.GoType()
		if err != nil {
			return nil, fmt.Errorf("record field %q: %w", f.RealName, err)
		}
		name := uniqueName(exportName(f.Name), seen)
		seen[name] = len(fields)
		fields = append(fields, reflect.StructField{
			Name: name,
			Type: ft,
			Tag:  reflect.StructTag(fmt.Sprintf("hdf5:%q", f.RealName)),
		})
	}
	return reflect.StructOf(fields), nil
}
