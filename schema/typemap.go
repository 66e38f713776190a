package schema

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/robert-malhotra/go-hdf5-schema/native"
	"github.com/robert-malhotra/go-hdf5-schema/portable"
)

// mapType maps the native datatype h to a DataType. The builder owns h from
// the moment mapType is called and closes it on every failure or skip.
// Variable-length strings are only accepted when allowVariableString is set.
func (b *builder) mapType(h native.Handle, allowVariableString bool) (DataType, error) {
	return b.mapNative(h, allowVariableString, true)
}

func (b *builder) mapNative(h native.Handle, allowVariableString, allowCompound bool) (DataType, error) {
	owned := own(b.backend, h)
	class, err := b.backend.TypeClass(h)
	if err != nil {
		return nil, closeOnError(backendErr("TypeClass", err), &owned)
	}
	switch class {
	case native.ClassInteger, native.ClassEnum, native.ClassFloat, native.ClassString:
		t, err := b.mapBasic(owned, class, allowVariableString)
		if err != nil {
			return nil, err
		}
		return t, nil
	case native.ClassCompound:
		if !allowCompound {
			return nil, closeOnError(skipf("nested compound"), &owned)
		}
		t, err := b.mapCompound(owned)
		if err != nil {
			return nil, err
		}
		return t, nil
	default:
		return nil, closeOnError(skipf("unsupported datatype class %s", class), &owned)
	}
}

func (b *builder) mapBasic(owned OwnedHandle, class native.Class, allowVariableString bool) (*BasicType, error) {
	if err := b.reserve(basicTypeSize); err != nil {
		return nil, closeOnError(err, &owned)
	}
	t := &BasicType{handle: owned}
	h := owned.ID()

	var err error
	switch class {
	case native.ClassInteger, native.ClassEnum:
		err = b.mapInteger(t, h, class)
	case native.ClassFloat:
		err = b.mapReal(t, h)
	case native.ClassString:
		err = b.mapText(t, h, allowVariableString)
	}
	if err != nil {
		return nil, releaseOnError(err, t)
	}
	return t, nil
}

func (b *builder) mapInteger(t *BasicType, h native.Handle, class native.Class) error {
	var rt portable.ReadType
	var err error
	if class == native.ClassEnum {
		rt, err = b.enumReadType(h)
	} else {
		rt, err = b.integerReadType(h)
	}
	if err != nil {
		return err
	}
	if t.definition, err = b.newDefinition(portable.ClassInteger); err != nil {
		return err
	}
	return t.definition.SetReadType(rt)
}

// enumReadType maps an enumeration to the read type of its base type.
func (b *builder) enumReadType(h native.Handle) (portable.ReadType, error) {
	sh, err := b.backend.TypeSuper(h)
	if err != nil {
		return portable.ReadNotAvailable, backendErr("TypeSuper", err)
	}
	super := own(b.backend, sh)
	rt, err := b.integerReadType(sh)
	return rt, closeOnError(err, &super)
}

// integerReadType picks the narrowest read type that holds an integer of the
// native size: 1, 2, 3-4 and 5-8 bytes. Wider integers are skipped.
func (b *builder) integerReadType(h native.Handle) (portable.ReadType, error) {
	sign, err := b.backend.TypeSign(h)
	if err == nil && sign == native.SignError {
		err = errors.New("invalid sign")
	}
	if err != nil {
		return portable.ReadNotAvailable, backendErr("TypeSign", err)
	}
	size, err := b.backend.TypeSize(h)
	if err != nil {
		return portable.ReadNotAvailable, backendErr("TypeSize", err)
	}

	unsigned := sign == native.SignNone
	pick := func(s, u portable.ReadType) portable.ReadType {
		if unsigned {
			return u
		}
		return s
	}
	switch {
	case size == 1:
		return pick(portable.ReadInt8, portable.ReadUint8), nil
	case size == 2:
		return pick(portable.ReadInt16, portable.ReadUint16), nil
	case size == 3 || size == 4:
		return pick(portable.ReadInt32, portable.ReadUint32), nil
	case size >= 5 && size <= 8:
		return pick(portable.ReadInt64, portable.ReadUint64), nil
	default:
		return portable.ReadNotAvailable, skipf("integer of %d bytes", size)
	}
}

func (b *builder) mapReal(t *BasicType, h native.Handle) error {
	kind, err := b.backend.FloatKind(h)
	if err != nil {
		return backendErr("FloatKind", err)
	}
	var rt portable.ReadType
	switch kind {
	case native.FloatSingle:
		rt = portable.ReadFloat
	case native.FloatDouble:
		rt = portable.ReadDouble
	default:
		return skipf("floating-point type is neither single nor double precision")
	}
	if t.definition, err = b.newDefinition(portable.ClassReal); err != nil {
		return err
	}
	return t.definition.SetReadType(rt)
}

func (b *builder) mapText(t *BasicType, h native.Handle, allowVariableString bool) error {
	variable, err := b.backend.IsVariableString(h)
	if err != nil {
		return backendErr("IsVariableString", err)
	}
	if variable && !allowVariableString {
		return skipf("variable-length string")
	}
	t.variableString = variable
	t.definition, err = b.newDefinition(portable.ClassText)
	return err
}

// mapCompound maps a compound datatype to a record of its basic members.
// Members that cannot be represented are dropped; the order of the others
// is kept.
func (b *builder) mapCompound(owned OwnedHandle) (*CompoundType, error) {
	if err := b.reserve(compoundTypeSize); err != nil {
		return nil, closeOnError(err, &owned)
	}
	t := &CompoundType{handle: owned}
	var err error
	if t.definition, err = b.newDefinition(portable.ClassRecord); err != nil {
		return nil, releaseOnError(err, t)
	}

	n, err := b.backend.NumMembers(owned.ID())
	if err != nil {
		return nil, releaseOnError(backendErr("NumMembers", err), t)
	}
	for i := 0; i < n; i++ {
		if err := b.addMember(t, i); err != nil {
			if isSkip(err) {
				b.skipped(err, logrus.Fields{"path": b.path, "member": i})
				continue
			}
			return nil, releaseOnError(err, t)
		}
	}
	return t, nil
}

// addMember maps the i-th member of t and appends it together with a native
// compound that holds only that member.
func (b *builder) addMember(t *CompoundType, i int) error {
	mh, err := b.backend.MemberType(t.handle.ID(), i)
	if err != nil {
		return backendErr("MemberType", err)
	}
	name, err := b.backend.MemberName(t.handle.ID(), i)
	if err != nil {
		mt := own(b.backend, mh)
		return closeOnError(backendErr("MemberName", err), &mt)
	}
	member, err := b.mapNative(mh, false, false)
	if err != nil {
		if isSkip(err) {
			return skipf("member %q: %v", name, err)
		}
		return err
	}

	sub, err := b.singleMember(name, member.NativeType())
	if err != nil {
		return releaseOnError(err, member)
	}
	if err := b.reserve(memberSlotSize); err != nil {
		return releaseOnError(closeOnError(err, &sub), member)
	}
	if err := t.definition.CreateField(name, member.Definition()); err != nil {
		return releaseOnError(closeOnError(err, &sub), member)
	}
	t.members = append(t.members, member.(*BasicType))
	t.memberTypes = append(t.memberTypes, sub)
	return nil
}

// singleMember creates a native compound of the member's size holding only
// the member, at offset 0.
func (b *builder) singleMember(name string, member native.Handle) (OwnedHandle, error) {
	size, err := b.backend.TypeSize(member)
	if err != nil {
		return OwnedHandle{}, backendErr("TypeSize", err)
	}
	ch, err := b.backend.CreateCompound(size)
	if err != nil {
		return OwnedHandle{}, backendErr("CreateCompound", err)
	}
	sub := own(b.backend, ch)
	if err := b.backend.InsertMember(ch, name, 0, member); err != nil {
		return OwnedHandle{}, closeOnError(backendErr("InsertMember", err), &sub)
	}
	return sub, nil
}
