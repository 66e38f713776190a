package native

import "fmt"

// ObjectKind is the kind of object a name in a group refers to.
type ObjectKind int

const (
	KindUnknown ObjectKind = iota
	KindGroup
	KindDataset
	KindType // Named (committed) datatype
	KindLink // Soft link, reported when links are not followed
)

func (k ObjectKind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindDataset:
		return "dataset"
	case KindType:
		return "datatype"
	case KindLink:
		return "softlink"
	default:
		return "unknown"
	}
}

// IdentityKey names a physical object regardless of the path that reached it.
type IdentityKey struct {
	FileNo [2]uint64
	ObjNo  [2]uint64
}

func (k IdentityKey) String() string {
	return fmt.Sprintf("%x:%x/%x:%x", k.FileNo[0], k.FileNo[1], k.ObjNo[0], k.ObjNo[1])
}

// ObjectInfo is what a backend reports about a name without opening it.
type ObjectInfo struct {
	Key  IdentityKey
	Kind ObjectKind
}
