package fixture

import (
	"os"

	"github.com/goccy/go-yaml"
	"github.com/pkg/errors"

	"github.com/robert-malhotra/go-hdf5-schema/internal/memfile"
	"github.com/robert-malhotra/go-hdf5-schema/native"
)

// Group is a group written in a layout. The layout document itself is the
// root group.
type Group struct {
	Attributes []Attribute `yaml:"attributes"`
	Children   []Node      `yaml:"children"`
}

// Node is one named link of a group. Exactly one of Group, Dataset, Link,
// SoftLink and Datatype is set.
type Node struct {
	Name     string   `yaml:"name"`
	Group    *Group   `yaml:"group"`
	Dataset  *Dataset `yaml:"dataset"`
	Link     string   `yaml:"link"`
	SoftLink string   `yaml:"softlink"`
	Datatype *Type    `yaml:"datatype"`
}

// Dataset is a dataset written in a layout.
type Dataset struct {
	Type       Type        `yaml:"type"`
	Shape      []uint64    `yaml:"shape"`
	Null       bool        `yaml:"nullspace"`
	Attributes []Attribute `yaml:"attributes"`
}

// Attribute is an attribute written in a layout.
type Attribute struct {
	Name  string   `yaml:"name"`
	Type  Type     `yaml:"type"`
	Shape []uint64 `yaml:"shape"`
	Null  bool     `yaml:"nullspace"`
}

func (a Attribute) option() memfile.Option {
	if a.Null {
		return memfile.WithAttributeSpace(a.Name, a.Type.dt, native.Extent{Type: native.SpaceNull})
	}
	return memfile.WithAttribute(a.Name, a.Type.dt, a.Shape...)
}

// Parse decodes a layout document.
func Parse(data []byte) (*Group, error) {
	var root Group
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, errors.Wrap(err, "parsing layout")
	}
	return &root, nil
}

// Load decodes a layout document and builds it.
func Load(data []byte) (*memfile.File, error) {
	root, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return Build(root)
}

// LoadFile reads, decodes and builds a layout file.
func LoadFile(path string) (*memfile.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading layout %s", path)
	}
	f, err := Load(data)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return f, nil
}

type pendingLink struct {
	group  *memfile.Group
	name   string
	target string
}

// Build creates an in-memory file from a layout.
func Build(root *Group) (*memfile.File, error) {
	f := memfile.New()
	var links []pendingLink
	if err := buildGroup(f.Root(), root, &links); err != nil {
		return nil, err
	}

	for _, l := range links {
		target, err := f.Lookup(l.target)
		if err != nil {
			return nil, errors.Wrapf(err, "hard link %s/%s", l.group.Path(), l.name)
		}
		if err := l.group.Link(l.name, target); err != nil {
			return nil, errors.Wrapf(err, "hard link %s/%s", l.group.Path(), l.name)
		}
	}
	return f, nil
}

func buildGroup(g *memfile.Group, spec *Group, links *[]pendingLink) error {
	for _, a := range spec.Attributes {
		if a.Type.dt == nil {
			return errors.Errorf("attribute %q of %s has no type", a.Name, g.Path())
		}
		if a.Null {
			g.SetAttributeSpace(a.Name, a.Type.dt, native.Extent{Type: native.SpaceNull})
			continue
		}
		g.SetAttribute(a.Name, a.Type.dt, a.Shape...)
	}

	for _, n := range spec.Children {
		if err := buildNode(g, n, links); err != nil {
			return errors.Wrapf(err, "%s", g.Path())
		}
	}
	return nil
}

func buildNode(g *memfile.Group, n Node, links *[]pendingLink) error {
	switch {
	case n.Group != nil:
		child, err := g.CreateGroup(n.Name)
		if err != nil {
			return err
		}
		return buildGroup(child, n.Group, links)

	case n.Dataset != nil:
		if n.Dataset.Type.dt == nil {
			return errors.Errorf("dataset %q has no type", n.Name)
		}
		var opts []memfile.Option
		if n.Dataset.Null {
			opts = append(opts, memfile.WithSpace(native.Extent{Type: native.SpaceNull}))
		}
		for _, a := range n.Dataset.Attributes {
			if a.Type.dt == nil {
				return errors.Errorf("attribute %q of dataset %q has no type", a.Name, n.Name)
			}
			opts = append(opts, a.option())
		}
		_, err := g.CreateDataset(n.Name, n.Dataset.Type.dt, n.Dataset.Shape, opts...)
		return err

	case n.Link != "":
		*links = append(*links, pendingLink{group: g, name: n.Name, target: n.Link})
		return nil

	case n.SoftLink != "":
		return g.SoftLink(n.Name, n.SoftLink)

	case n.Datatype != nil:
		return g.CommitType(n.Name, n.Datatype.dt)

	default:
		return errors.Errorf("child %q is neither a group, a dataset, a link nor a datatype", n.Name)
	}
}
