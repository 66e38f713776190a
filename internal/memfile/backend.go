package memfile

import (
	"fmt"

	"github.com/robert-malhotra/go-hdf5-schema/native"
)

var _ native.Backend = (*File)(nil)

type entryKind int

const (
	entryFile entryKind = iota
	entryGroup
	entryDataset
	entryAttribute
	entrySpace
	entryType
)

type entry struct {
	kind   entryKind
	obj    *object
	attr   *attribute
	dtype  *Datatype
	space  native.Extent
	desc   string
	closed bool
}

func (f *File) open(e *entry) native.Handle {
	f.nextHandle++
	f.handles[f.nextHandle] = e
	f.stats.Opened++
	return f.nextHandle
}

func (f *File) get(h native.Handle, kinds ...entryKind) (*entry, error) {
	e, ok := f.handles[h]
	if !ok || e.closed {
		return nil, fmt.Errorf("handle %d: %w", h, ErrInvalidHandle)
	}
	for _, k := range kinds {
		if e.kind == k {
			return e, nil
		}
	}
	return nil, fmt.Errorf("handle %d (%s): %w", h, e.desc, ErrWrongType)
}

// location returns the group behind a file or group handle.
func (f *File) location(h native.Handle) (*object, error) {
	e, err := f.get(h, entryFile, entryGroup)
	if err != nil {
		return nil, err
	}
	return e.obj, nil
}

// holder returns the object behind a handle that can carry attributes.
func (f *File) holder(h native.Handle) (*object, error) {
	e, err := f.get(h, entryFile, entryGroup, entryDataset)
	if err != nil {
		return nil, err
	}
	return e.obj, nil
}

func (f *File) datatype(h native.Handle, classes ...native.Class) (*Datatype, error) {
	e, err := f.get(h, entryType)
	if err != nil {
		return nil, err
	}
	if len(classes) == 0 {
		return e.dtype, nil
	}
	for _, c := range classes {
		if e.dtype.Class == c {
			return e.dtype, nil
		}
	}
	return nil, fmt.Errorf("handle %d is a %s datatype: %w", h, e.dtype.Class, ErrWrongType)
}

func (f *File) openType(dt *Datatype, desc string) native.Handle {
	return f.open(&entry{kind: entryType, dtype: dt, desc: desc})
}

// Open returns a file handle that can be used as the location of the root
// group. The caller closes it.
func (f *File) Open() native.Handle {
	return f.open(&entry{kind: entryFile, obj: f.root, desc: "file"})
}

// ObjectInfo implements native.Backend.
func (f *File) ObjectInfo(loc native.Handle, name string) (native.ObjectInfo, error) {
	if err := f.call("ObjectInfo"); err != nil {
		return native.ObjectInfo{}, err
	}
	base, err := f.location(loc)
	if err != nil {
		return native.ObjectInfo{}, err
	}
	obj, soft, err := f.resolve(base, name, false, 0)
	if err != nil {
		return native.ObjectInfo{}, err
	}
	if soft != nil {
		return native.ObjectInfo{Kind: native.KindLink}, nil
	}
	return native.ObjectInfo{Key: f.key(obj), Kind: obj.kind}, nil
}

func (f *File) openObject(op string, loc native.Handle, name string, kind native.ObjectKind, ek entryKind) (native.Handle, error) {
	if err := f.call(op); err != nil {
		return native.InvalidHandle, err
	}
	base, err := f.location(loc)
	if err != nil {
		return native.InvalidHandle, err
	}
	obj, _, err := f.resolve(base, name, true, 0)
	if err != nil {
		return native.InvalidHandle, err
	}
	if obj.kind != kind {
		return native.InvalidHandle, fmt.Errorf("%s is a %s, not a %s: %w", obj.path, obj.kind, kind, ErrWrongType)
	}
	return f.open(&entry{kind: ek, obj: obj, desc: kind.String() + " " + obj.path}), nil
}

// OpenGroup implements native.Backend.
func (f *File) OpenGroup(loc native.Handle, name string) (native.Handle, error) {
	return f.openObject("OpenGroup", loc, name, native.KindGroup, entryGroup)
}

// OpenDataset implements native.Backend.
func (f *File) OpenDataset(loc native.Handle, name string) (native.Handle, error) {
	return f.openObject("OpenDataset", loc, name, native.KindDataset, entryDataset)
}

// NumChildren implements native.Backend.
func (f *File) NumChildren(group native.Handle) (int, error) {
	if err := f.call("NumChildren"); err != nil {
		return 0, err
	}
	obj, err := f.location(group)
	if err != nil {
		return 0, err
	}
	return len(obj.links), nil
}

// ChildName implements native.Backend.
func (f *File) ChildName(group native.Handle, index int) (string, error) {
	if err := f.call("ChildName"); err != nil {
		return "", err
	}
	obj, err := f.location(group)
	if err != nil {
		return "", err
	}
	if index < 0 || index >= len(obj.links) {
		return "", fmt.Errorf("child index %d out of range in %s", index, obj.path)
	}
	return obj.links[index].name, nil
}

// NumAttributes implements native.Backend.
func (f *File) NumAttributes(h native.Handle) (int, error) {
	if err := f.call("NumAttributes"); err != nil {
		return 0, err
	}
	obj, err := f.holder(h)
	if err != nil {
		return 0, err
	}
	return len(obj.attrs), nil
}

// OpenAttribute implements native.Backend.
func (f *File) OpenAttribute(h native.Handle, index int) (native.Handle, error) {
	if err := f.call("OpenAttribute"); err != nil {
		return native.InvalidHandle, err
	}
	obj, err := f.holder(h)
	if err != nil {
		return native.InvalidHandle, err
	}
	if index < 0 || index >= len(obj.attrs) {
		return native.InvalidHandle, fmt.Errorf("attribute index %d out of range on %s", index, obj.path)
	}
	attr := obj.attrs[index]
	return f.open(&entry{
		kind: entryAttribute,
		obj:  obj,
		attr: attr,
		desc: fmt.Sprintf("attribute %q of %s", attr.name, obj.path),
	}), nil
}

// AttributeName implements native.Backend.
func (f *File) AttributeName(h native.Handle) (string, error) {
	if err := f.call("AttributeName"); err != nil {
		return "", err
	}
	e, err := f.get(h, entryAttribute)
	if err != nil {
		return "", err
	}
	return e.attr.name, nil
}

// DatasetSpace implements native.Backend.
func (f *File) DatasetSpace(h native.Handle) (native.Handle, error) {
	if err := f.call("DatasetSpace"); err != nil {
		return native.InvalidHandle, err
	}
	e, err := f.get(h, entryDataset)
	if err != nil {
		return native.InvalidHandle, err
	}
	return f.open(&entry{kind: entrySpace, space: e.obj.space, desc: "dataspace of " + e.obj.path}), nil
}

// DatasetType implements native.Backend.
func (f *File) DatasetType(h native.Handle) (native.Handle, error) {
	if err := f.call("DatasetType"); err != nil {
		return native.InvalidHandle, err
	}
	e, err := f.get(h, entryDataset)
	if err != nil {
		return native.InvalidHandle, err
	}
	return f.openType(e.obj.dtype, "datatype of "+e.obj.path), nil
}

// AttributeSpace implements native.Backend.
func (f *File) AttributeSpace(h native.Handle) (native.Handle, error) {
	if err := f.call("AttributeSpace"); err != nil {
		return native.InvalidHandle, err
	}
	e, err := f.get(h, entryAttribute)
	if err != nil {
		return native.InvalidHandle, err
	}
	return f.open(&entry{kind: entrySpace, space: e.attr.space, desc: "dataspace of " + e.desc}), nil
}

// AttributeType implements native.Backend.
func (f *File) AttributeType(h native.Handle) (native.Handle, error) {
	if err := f.call("AttributeType"); err != nil {
		return native.InvalidHandle, err
	}
	e, err := f.get(h, entryAttribute)
	if err != nil {
		return native.InvalidHandle, err
	}
	return f.openType(e.attr.dtype, "datatype of "+e.desc), nil
}

// Extent implements native.Backend.
func (f *File) Extent(h native.Handle) (native.Extent, error) {
	if err := f.call("Extent"); err != nil {
		return native.Extent{}, err
	}
	e, err := f.get(h, entrySpace)
	if err != nil {
		return native.Extent{}, err
	}
	ext := native.Extent{Type: e.space.Type}
	if e.space.Dimensions != nil {
		ext.Dimensions = append([]uint64(nil), e.space.Dimensions...)
	}
	return ext, nil
}

// TypeClass implements native.Backend.
func (f *File) TypeClass(h native.Handle) (native.Class, error) {
	if err := f.call("TypeClass"); err != nil {
		return native.ClassNone, err
	}
	dt, err := f.datatype(h)
	if err != nil {
		return native.ClassNone, err
	}
	return dt.Class, nil
}

// TypeSuper implements native.Backend.
func (f *File) TypeSuper(h native.Handle) (native.Handle, error) {
	if err := f.call("TypeSuper"); err != nil {
		return native.InvalidHandle, err
	}
	dt, err := f.datatype(h, native.ClassEnum, native.ClassArray, native.ClassVarLen)
	if err != nil {
		return native.InvalidHandle, err
	}
	if dt.Base == nil {
		return native.InvalidHandle, fmt.Errorf("%s datatype has no base type", dt.Class)
	}
	return f.openType(dt.Base, "super of "+f.handles[h].desc), nil
}

// TypeSign implements native.Backend.
func (f *File) TypeSign(h native.Handle) (native.Sign, error) {
	if err := f.call("TypeSign"); err != nil {
		return native.SignError, err
	}
	dt, err := f.datatype(h, native.ClassInteger)
	if err != nil {
		return native.SignError, err
	}
	if dt.Signed {
		return native.SignTwos, nil
	}
	return native.SignNone, nil
}

// TypeSize implements native.Backend.
func (f *File) TypeSize(h native.Handle) (int, error) {
	if err := f.call("TypeSize"); err != nil {
		return 0, err
	}
	dt, err := f.datatype(h)
	if err != nil {
		return 0, err
	}
	return dt.Size, nil
}

// FloatKind implements native.Backend.
func (f *File) FloatKind(h native.Handle) (native.FloatKind, error) {
	if err := f.call("FloatKind"); err != nil {
		return native.FloatOther, err
	}
	dt, err := f.datatype(h, native.ClassFloat)
	if err != nil {
		return native.FloatOther, err
	}
	return dt.floatKind(), nil
}

// IsVariableString implements native.Backend.
func (f *File) IsVariableString(h native.Handle) (bool, error) {
	if err := f.call("IsVariableString"); err != nil {
		return false, err
	}
	dt, err := f.datatype(h, native.ClassString)
	if err != nil {
		return false, err
	}
	return dt.IsVarLenString, nil
}

// NumMembers implements native.Backend.
func (f *File) NumMembers(h native.Handle) (int, error) {
	if err := f.call("NumMembers"); err != nil {
		return 0, err
	}
	dt, err := f.datatype(h, native.ClassCompound)
	if err != nil {
		return 0, err
	}
	return len(dt.Members), nil
}

func (f *File) member(h native.Handle, index int) (*Member, error) {
	dt, err := f.datatype(h, native.ClassCompound)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(dt.Members) {
		return nil, fmt.Errorf("member index %d out of range", index)
	}
	return &dt.Members[index], nil
}

// MemberType implements native.Backend.
func (f *File) MemberType(h native.Handle, index int) (native.Handle, error) {
	if err := f.call("MemberType"); err != nil {
		return native.InvalidHandle, err
	}
	m, err := f.member(h, index)
	if err != nil {
		return native.InvalidHandle, err
	}
	return f.openType(m.Type, fmt.Sprintf("member %q of %s", m.Name, f.handles[h].desc)), nil
}

// MemberName implements native.Backend.
func (f *File) MemberName(h native.Handle, index int) (string, error) {
	if err := f.call("MemberName"); err != nil {
		return "", err
	}
	m, err := f.member(h, index)
	if err != nil {
		return "", err
	}
	return m.Name, nil
}

// CreateCompound implements native.Backend.
func (f *File) CreateCompound(size int) (native.Handle, error) {
	if err := f.call("CreateCompound"); err != nil {
		return native.InvalidHandle, err
	}
	if size <= 0 {
		return native.InvalidHandle, fmt.Errorf("invalid compound size %d", size)
	}
	dt := &Datatype{Class: native.ClassCompound, Size: size}
	return f.openType(dt, fmt.Sprintf("compound(%d)", size)), nil
}

// InsertMember implements native.Backend.
func (f *File) InsertMember(compound native.Handle, name string, offset int, member native.Handle) error {
	if err := f.call("InsertMember"); err != nil {
		return err
	}
	dt, err := f.datatype(compound, native.ClassCompound)
	if err != nil {
		return err
	}
	mt, err := f.datatype(member)
	if err != nil {
		return err
	}
	if offset < 0 || offset+mt.Size > dt.Size {
		return fmt.Errorf("member %q (%d bytes at %d) does not fit in compound of %d bytes", name, mt.Size, offset, dt.Size)
	}
	for _, m := range dt.Members {
		if m.Name == name {
			return fmt.Errorf("duplicate member %q", name)
		}
	}
	dt.Members = append(dt.Members, Member{Name: name, ByteOffset: offset, Type: mt})
	return nil
}

// Close implements native.Backend.
func (f *File) Close(h native.Handle) error {
	e, ok := f.handles[h]
	if !ok {
		return fmt.Errorf("close %d: %w", h, ErrInvalidHandle)
	}
	if e.closed {
		f.stats.DoubleCloses++
		return fmt.Errorf("close %d (%s): %w", h, e.desc, ErrDoubleClose)
	}
	e.closed = true
	f.stats.Closed++
	return nil
}

// TypeOf returns the datatype behind an open datatype handle.
func (f *File) TypeOf(h native.Handle) (*Datatype, error) {
	e, ok := f.handles[h]
	if !ok || e.kind != entryType {
		return nil, fmt.Errorf("handle %d: %w", h, ErrInvalidHandle)
	}
	return e.dtype, nil
}
