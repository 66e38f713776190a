package native

// Handle identifies an open native object. The zero value is not a valid
// handle.
type Handle int64

// InvalidHandle is never returned by a successful open.
const InvalidHandle Handle = 0

// Valid reports whether h may refer to an open object.
func (h Handle) Valid() bool {
	return h > 0
}

// ObjectAPI opens and enumerates groups, datasets and attributes.
type ObjectAPI interface {
	// ObjectInfo resolves name relative to loc without following a final
	// soft link.
	ObjectInfo(loc Handle, name string) (ObjectInfo, error)

	OpenGroup(loc Handle, name string) (Handle, error)
	OpenDataset(loc Handle, name string) (Handle, error)

	// NumChildren and ChildName enumerate the links of a group by index.
	NumChildren(group Handle) (int, error)
	ChildName(group Handle, index int) (string, error)

	// NumAttributes and OpenAttribute enumerate the attributes of a group or
	// dataset by index.
	NumAttributes(obj Handle) (int, error)
	OpenAttribute(obj Handle, index int) (Handle, error)
	AttributeName(attr Handle) (string, error)

	DatasetSpace(dataset Handle) (Handle, error)
	DatasetType(dataset Handle) (Handle, error)
	AttributeSpace(attr Handle) (Handle, error)
	AttributeType(attr Handle) (Handle, error)
}

// SpaceAPI queries dataspaces.
type SpaceAPI interface {
	Extent(space Handle) (Extent, error)
}

// TypeAPI queries and builds datatypes.
type TypeAPI interface {
	TypeClass(dtype Handle) (Class, error)
	// TypeSuper returns a new handle for the base type of an enumeration.
	TypeSuper(dtype Handle) (Handle, error)
	TypeSign(dtype Handle) (Sign, error)
	TypeSize(dtype Handle) (int, error)
	FloatKind(dtype Handle) (FloatKind, error)
	IsVariableString(dtype Handle) (bool, error)

	NumMembers(compound Handle) (int, error)
	// MemberType returns a new handle for the type of a compound member.
	MemberType(compound Handle, index int) (Handle, error)
	MemberName(compound Handle, index int) (string, error)

	// CreateCompound creates an empty compound datatype of the given size.
	CreateCompound(size int) (Handle, error)
	InsertMember(compound Handle, name string, offset int, member Handle) error
}

// Backend is the full native container interface.
type Backend interface {
	ObjectAPI
	SpaceAPI
	TypeAPI

	// Close releases any handle returned by the backend.
	Close(h Handle) error
}
