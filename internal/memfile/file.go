package memfile

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/robert-malhotra/go-hdf5-schema/native"
)

// Common errors
var (
	ErrNotFound      = errors.New("object not found")
	ErrExists        = errors.New("name already exists in group")
	ErrInvalidHandle = errors.New("invalid handle")
	ErrDoubleClose   = errors.New("handle closed twice")
	ErrWrongType     = errors.New("handle has the wrong type")
	ErrInjected      = errors.New("injected backend failure")
	ErrLinkDepth     = errors.New("maximum link depth exceeded")
)

// MaxLinkDepth is the maximum number of soft links followed while resolving
// one name.
const MaxLinkDepth = 100

var fileCounter atomic.Uint64

type object struct {
	kind  native.ObjectKind
	objNo uint64
	path  string

	links []*link
	attrs []*attribute

	dtype *Datatype
	space native.Extent
}

type link struct {
	name   string
	target *object
	soft   string
}

type attribute struct {
	name  string
	dtype *Datatype
	space native.Extent
}

func (o *object) find(name string) *link {
	for _, l := range o.links {
		if l.name == name {
			return l
		}
	}
	return nil
}

// File is an in-memory container.
type File struct {
	fileNo  uint64
	nextObj uint64
	root    *object

	handles    map[native.Handle]*entry
	nextHandle native.Handle

	failAfter int
	failOps   map[string]bool
	stats     Stats
}

// Stats counts backend activity.
type Stats struct {
	Calls        int // Backend calls other than Close
	Opened       int // Handles handed out
	Closed       int // Handles closed
	DoubleCloses int // Close calls on an already closed handle
}

// New creates an empty file with a root group.
func New() *File {
	f := &File{
		fileNo:  fileCounter.Add(1),
		handles: make(map[native.Handle]*entry),
		failOps: make(map[string]bool),
	}
	f.root = f.newObject(native.KindGroup, "/")
	return f
}

func (f *File) newObject(kind native.ObjectKind, p string) *object {
	f.nextObj++
	return &object{kind: kind, objNo: f.nextObj, path: p}
}

func (f *File) key(o *object) native.IdentityKey {
	return native.IdentityKey{
		FileNo: [2]uint64{f.fileNo, 0},
		ObjNo:  [2]uint64{o.objNo, 0},
	}
}

// Object is a group or dataset of a File.
type Object interface {
	Path() string
	object() *object
}

// Group is a group of a File.
type Group struct {
	file *File
	obj  *object
}

// Dataset is a dataset of a File.
type Dataset struct {
	file *File
	obj  *object
}

func (g *Group) object() *object   { return g.obj }
func (d *Dataset) object() *object { return d.obj }

// Path returns the path the group was created at.
func (g *Group) Path() string { return g.obj.path }

// Path returns the path the dataset was created at.
func (d *Dataset) Path() string { return d.obj.path }

// Key returns the identity key of the group.
func (g *Group) Key() native.IdentityKey { return g.file.key(g.obj) }

// Key returns the identity key of the dataset.
func (d *Dataset) Key() native.IdentityKey { return d.file.key(d.obj) }

// Root returns the root group.
func (f *File) Root() *Group {
	return &Group{file: f, obj: f.root}
}

// Lookup returns the group or dataset at an absolute path, following links.
func (f *File) Lookup(p string) (Object, error) {
	o, _, err := f.resolve(f.root, p, true, 0)
	if err != nil {
		return nil, err
	}
	switch o.kind {
	case native.KindGroup:
		return &Group{file: f, obj: o}, nil
	case native.KindDataset:
		return &Dataset{file: f, obj: o}, nil
	default:
		return nil, fmt.Errorf("%s is a %s: %w", p, o.kind, ErrNotFound)
	}
}

// Option configures objects and attributes on creation.
type Option func(*objectOptions)

type objectOptions struct {
	space *native.Extent
	attrs []*attribute
}

// WithSpace overrides the dataspace of a dataset.
func WithSpace(space native.Extent) Option {
	return func(o *objectOptions) {
		o.space = &space
	}
}

// WithAttribute adds an attribute. Without dims the attribute is scalar.
func WithAttribute(name string, dt *Datatype, dims ...uint64) Option {
	return WithAttributeSpace(name, dt, extent(dims))
}

// WithAttributeSpace adds an attribute with an explicit dataspace.
func WithAttributeSpace(name string, dt *Datatype, space native.Extent) Option {
	return func(o *objectOptions) {
		o.attrs = append(o.attrs, &attribute{name: name, dtype: dt, space: space})
	}
}

func extent(dims []uint64) native.Extent {
	if dims == nil {
		return native.Extent{Type: native.SpaceScalar}
	}
	return native.Extent{Type: native.SpaceSimple, Dimensions: dims}
}

func applyOptions(opts []Option) *objectOptions {
	o := &objectOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (g *Group) childPath(name string) string {
	return path.Join(g.obj.path, name)
}

func (g *Group) addLink(l *link) error {
	if g.obj.find(l.name) != nil {
		return fmt.Errorf("%q in %s: %w", l.name, g.obj.path, ErrExists)
	}
	g.obj.links = append(g.obj.links, l)
	return nil
}

// CreateGroup creates a subgroup.
func (g *Group) CreateGroup(name string, opts ...Option) (*Group, error) {
	o := applyOptions(opts)
	obj := g.file.newObject(native.KindGroup, g.childPath(name))
	obj.attrs = o.attrs
	if err := g.addLink(&link{name: name, target: obj}); err != nil {
		return nil, err
	}
	return &Group{file: g.file, obj: obj}, nil
}

// CreateDataset creates a dataset. A nil dims creates a scalar dataset.
func (g *Group) CreateDataset(name string, dt *Datatype, dims []uint64, opts ...Option) (*Dataset, error) {
	if dt == nil {
		return nil, fmt.Errorf("dataset %q has no datatype", name)
	}
	o := applyOptions(opts)
	obj := g.file.newObject(native.KindDataset, g.childPath(name))
	obj.dtype = dt
	obj.space = extent(dims)
	if o.space != nil {
		obj.space = *o.space
	}
	obj.attrs = o.attrs
	if err := g.addLink(&link{name: name, target: obj}); err != nil {
		return nil, err
	}
	return &Dataset{file: g.file, obj: obj}, nil
}

// SetAttribute adds an attribute to the group.
func (g *Group) SetAttribute(name string, dt *Datatype, dims ...uint64) {
	g.obj.attrs = append(g.obj.attrs, &attribute{name: name, dtype: dt, space: extent(dims)})
}

// SetAttributeSpace adds an attribute with an explicit dataspace to the
// group.
func (g *Group) SetAttributeSpace(name string, dt *Datatype, space native.Extent) {
	g.obj.attrs = append(g.obj.attrs, &attribute{name: name, dtype: dt, space: space})
}

// SetAttribute adds an attribute to the dataset.
func (d *Dataset) SetAttribute(name string, dt *Datatype, dims ...uint64) {
	d.obj.attrs = append(d.obj.attrs, &attribute{name: name, dtype: dt, space: extent(dims)})
}

// Link adds a hard link to an existing object.
func (g *Group) Link(name string, target Object) error {
	return g.addLink(&link{name: name, target: target.object()})
}

// SoftLink adds a soft link to an absolute path.
func (g *Group) SoftLink(name, target string) error {
	return g.addLink(&link{name: name, soft: target})
}

// CommitType stores a named datatype in the group.
func (g *Group) CommitType(name string, dt *Datatype) error {
	obj := g.file.newObject(native.KindType, g.childPath(name))
	obj.dtype = dt
	return g.addLink(&link{name: name, target: obj})
}

// resolve walks name from loc. A final soft link is returned unresolved when
// follow is false.
func (f *File) resolve(loc *object, name string, follow bool, depth int) (*object, *link, error) {
	if strings.HasPrefix(name, "/") {
		loc = f.root
	}
	parts := splitPath(name)
	cur := loc
	for i, part := range parts {
		if cur.kind != native.KindGroup {
			return nil, nil, fmt.Errorf("%s is not a group: %w", cur.path, ErrNotFound)
		}
		l := cur.find(part)
		if l == nil {
			return nil, nil, fmt.Errorf("%q in %s: %w", part, cur.path, ErrNotFound)
		}
		if l.soft == "" {
			cur = l.target
			continue
		}
		if i == len(parts)-1 && !follow {
			return nil, l, nil
		}
		if depth >= MaxLinkDepth {
			return nil, nil, ErrLinkDepth
		}
		target, _, err := f.resolve(f.root, l.soft, true, depth+1)
		if err != nil {
			return nil, nil, fmt.Errorf("resolving soft link %q: %w", l.soft, err)
		}
		cur = target
	}
	return cur, nil, nil
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" || p == "." {
		return nil
	}
	return strings.Split(p, "/")
}

// FailAfter makes the n-th backend call from now fail. 0 disables it.
func (f *File) FailAfter(n int) {
	if n == 0 {
		f.failAfter = 0
		return
	}
	f.failAfter = f.stats.Calls + n
}

// FailOn makes every call of the named operation fail, e.g. "TypeSign".
func (f *File) FailOn(op string) {
	f.failOps[op] = true
}

// ResetFaults disables all fault injection.
func (f *File) ResetFaults() {
	f.failAfter = 0
	f.failOps = make(map[string]bool)
}

// Stats returns the backend activity counters.
func (f *File) Stats() Stats {
	return f.stats
}

// OpenHandles describes every handle that is still open, in handle order.
func (f *File) OpenHandles() []string {
	var ids []native.Handle
	for h, e := range f.handles {
		if !e.closed {
			ids = append(ids, h)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	descs := make([]string, len(ids))
	for i, h := range ids {
		descs[i] = fmt.Sprintf("%d: %s", h, f.handles[h].desc)
	}
	return descs
}

func (f *File) call(op string) error {
	f.stats.Calls++
	if f.failOps[op] || (f.failAfter != 0 && f.stats.Calls == f.failAfter) {
		return fmt.Errorf("%s: %w", op, ErrInjected)
	}
	return nil
}
