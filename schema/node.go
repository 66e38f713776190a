package schema

import (
	"github.com/robert-malhotra/go-hdf5-schema/native"
	"github.com/robert-malhotra/go-hdf5-schema/portable"
)

// Kind identifies the variant of a Node.
type Kind int

const (
	KindBasicType Kind = iota
	KindCompoundType
	KindAttribute
	KindAttributeRecord
	KindGroup
	KindDataset
)

func (k Kind) String() string {
	switch k {
	case KindBasicType:
		return "basic type"
	case KindCompoundType:
		return "compound type"
	case KindAttribute:
		return "attribute"
	case KindAttributeRecord:
		return "attribute record"
	case KindGroup:
		return "group"
	case KindDataset:
		return "dataset"
	default:
		return "unknown"
	}
}

// Node is a runtime node of a schema tree. The set of implementations is
// closed: *BasicType, *CompoundType, *Attribute, *AttributeRecord, *Group and
// *Dataset.
type Node interface {
	Kind() Kind
	// Definition returns the portable definition of the node, or nil once
	// the node has been released.
	Definition() *portable.Type
	node()
}

// DataType is a *BasicType or a *CompoundType.
type DataType interface {
	Node
	// NativeType returns the native datatype handle.
	NativeType() native.Handle
	dataType()
}

// Object is a *Group or a *Dataset.
type Object interface {
	Node
	// Key returns the identity key of the physical object.
	Key() native.IdentityKey
	// Name returns the link name the object was reached by.
	Name() string
	// Path returns the path the object was reached by.
	Path() string
	// Handle returns the open native object handle.
	Handle() native.Handle
	// Attributes returns the attributes of the object.
	Attributes() *AttributeRecord
	object()
}

// def holds the one portable reference a node owns.
type def struct {
	definition *portable.Type
}

func (d *def) Definition() *portable.Type { return d.definition }

func (d *def) node() {}

func (d *def) releaseDefinition() {
	if d.definition != nil {
		d.definition.Release()
		d.definition = nil
	}
}

// BasicType is an integer, real or text type.
type BasicType struct {
	def
	handle         OwnedHandle
	variableString bool
}

func (*BasicType) Kind() Kind { return KindBasicType }
func (*BasicType) dataType()  {}

// NativeType returns the native datatype handle.
func (t *BasicType) NativeType() native.Handle { return t.handle.ID() }

// VariableString reports whether a text type is stored as variable-length
// strings.
func (t *BasicType) VariableString() bool { return t.variableString }

// CompoundType is a record of basic types.
type CompoundType struct {
	def
	handle OwnedHandle

	// members and memberTypes are parallel; memberTypes[i] is a native
	// compound holding only members[i] at offset 0.
	members     []*BasicType
	memberTypes []OwnedHandle
}

func (*CompoundType) Kind() Kind { return KindCompoundType }
func (*CompoundType) dataType()  {}

// NativeType returns the native datatype handle of the whole record.
func (t *CompoundType) NativeType() native.Handle { return t.handle.ID() }

// NumMembers returns the number of kept members.
func (t *CompoundType) NumMembers() int { return len(t.members) }

// Members returns the kept members in declaration order.
func (t *CompoundType) Members() []*BasicType {
	members := make([]*BasicType, len(t.members))
	copy(members, t.members)
	return members
}

// MemberType returns the single-member native descriptor of the i-th kept
// member, for reading that field on its own.
func (t *CompoundType) MemberType(i int) native.Handle {
	if i < 0 || i >= len(t.memberTypes) {
		return native.InvalidHandle
	}
	return t.memberTypes[i].ID()
}

// MemberTypeByName is MemberType for a member given by name.
func (t *CompoundType) MemberTypeByName(name string) (native.Handle, bool) {
	if t.definition == nil {
		return native.InvalidHandle, false
	}
	i := t.definition.FieldIndex(name)
	if i < 0 {
		return native.InvalidHandle, false
	}
	return t.MemberType(i), true
}

// Attribute is an attribute of a group or dataset. Its definition is an
// array of its element type; a scalar attribute has rank 0.
type Attribute struct {
	def
	handle OwnedHandle
	space  OwnedHandle
	base   DataType
}

func (*Attribute) Kind() Kind { return KindAttribute }

// Handle returns the native attribute handle.
func (a *Attribute) Handle() native.Handle { return a.handle.ID() }

// Space returns the native dataspace handle.
func (a *Attribute) Space() native.Handle { return a.space.ID() }

// Base returns the element type.
func (a *Attribute) Base() DataType { return a.base }

// Dims returns the attribute shape.
func (a *Attribute) Dims() []int64 { return dims(a.definition) }

// AttributeRecord is the ordered set of attributes of an object.
type AttributeRecord struct {
	def
	attrs []*Attribute
}

func (*AttributeRecord) Kind() Kind { return KindAttributeRecord }

// Len returns the number of attributes.
func (r *AttributeRecord) Len() int {
	if r == nil {
		return 0
	}
	return len(r.attrs)
}

// At returns the i-th attribute.
func (r *AttributeRecord) At(i int) *Attribute { return r.attrs[i] }

// Name returns the native name of the i-th attribute.
func (r *AttributeRecord) Name(i int) string {
	return r.definition.Field(i).RealName
}

// Names returns the native attribute names in order.
func (r *AttributeRecord) Names() []string {
	if r == nil || r.definition == nil {
		return nil
	}
	names := make([]string, 0, len(r.attrs))
	for _, f := range r.definition.Fields() {
		names = append(names, f.RealName)
	}
	return names
}

// Lookup returns the attribute with the given native name, or nil.
func (r *AttributeRecord) Lookup(name string) *Attribute {
	if r == nil || r.definition == nil {
		return nil
	}
	for i, f := range r.definition.Fields() {
		if f.RealName == name {
			return r.attrs[i]
		}
	}
	return nil
}

// objectBase is shared by groups and datasets.
type objectBase struct {
	def
	key    native.IdentityKey
	name   string
	path   string
	handle OwnedHandle
	attrs  *AttributeRecord
}

func (o *objectBase) Key() native.IdentityKey      { return o.key }
func (o *objectBase) Name() string                 { return o.name }
func (o *objectBase) Path() string                 { return o.path }
func (o *objectBase) Handle() native.Handle        { return o.handle.ID() }
func (o *objectBase) Attributes() *AttributeRecord { return o.attrs }
func (o *objectBase) object()                      {}

// Group is a group and the objects below it that could be represented.
type Group struct {
	objectBase
	children []*childLink
}

type childLink struct {
	name string
	obj  Object
}

func (*Group) Kind() Kind { return KindGroup }

// NumChildren returns the number of materialized children.
func (g *Group) NumChildren() int { return len(g.children) }

// Children returns the materialized children in link order.
func (g *Group) Children() []Object {
	children := make([]Object, len(g.children))
	for i, c := range g.children {
		children[i] = c.obj
	}
	return children
}

// Child returns the child with the given link name, or nil.
func (g *Group) Child(name string) Object {
	for _, c := range g.children {
		if c.name == name {
			return c.obj
		}
	}
	return nil
}

// Dataset is a dataset. Its definition is an array of its element type.
type Dataset struct {
	objectBase
	space OwnedHandle
	base  DataType
}

func (*Dataset) Kind() Kind { return KindDataset }

// Space returns the native dataspace handle.
func (d *Dataset) Space() native.Handle { return d.space.ID() }

// Base returns the element type.
func (d *Dataset) Base() DataType { return d.base }

// Dims returns the dataset shape.
func (d *Dataset) Dims() []int64 { return dims(d.definition) }

func dims(t *portable.Type) []int64 {
	if t == nil {
		return nil
	}
	return t.Dims()
}
