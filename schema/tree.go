package schema

import (
	"github.com/sirupsen/logrus"

	"github.com/robert-malhotra/go-hdf5-schema/native"
	"github.com/robert-malhotra/go-hdf5-schema/portable"
)

// build materializes the object named name under loc. It returns a skip when
// the object was already materialized through another link or is neither a
// group nor a dataset.
func (b *builder) build(loc native.Handle, name, path string) (Object, error) {
	info, err := b.backend.ObjectInfo(loc, name)
	if err != nil {
		return nil, backendErr("ObjectInfo", err)
	}
	if b.registry.Contains(info.Key) {
		return nil, skipf("already materialized as %s", b.registry.Get(info.Key).Path())
	}
	switch info.Kind {
	case native.KindGroup:
		g, err := b.buildGroup(loc, name, path, info.Key)
		if err != nil {
			return nil, err
		}
		return g, nil
	case native.KindDataset:
		d, err := b.buildDataset(loc, name, path, info.Key)
		if err != nil {
			return nil, err
		}
		return d, nil
	default:
		return nil, skipf("%s objects are not materialized", info.Kind)
	}
}

func (b *builder) buildGroup(loc native.Handle, name, path string, key native.IdentityKey) (*Group, error) {
	gh, err := b.backend.OpenGroup(loc, name)
	if err != nil {
		return nil, backendErr("OpenGroup", err)
	}
	owned := own(b.backend, gh)
	if err := b.reserve(groupSize); err != nil {
		return nil, closeOnError(err, &owned)
	}
	g := &Group{objectBase: objectBase{key: key, name: baseName(path), path: path, handle: owned}}
	b.path = path

	if g.definition, err = b.newDefinition(portable.ClassRecord); err != nil {
		return nil, releaseOnError(err, g)
	}
	n, err := b.backend.NumChildren(gh)
	if err != nil {
		return nil, releaseOnError(backendErr("NumChildren", err), g)
	}
	if g.attrs, err = b.newAttributeRecord(gh); err != nil {
		return nil, releaseOnError(err, g)
	}
	if err := g.definition.SetAttributes(g.attrs.definition); err != nil {
		return nil, releaseOnError(err, g)
	}

	// Registered before the children so that a link back to this group is
	// seen as a duplicate.
	mark := b.registry.Len()
	if err := b.registry.Add(g); err != nil {
		return nil, releaseOnError(err, g)
	}
	fail := func(err error) (*Group, error) {
		b.registry.Truncate(mark)
		return nil, releaseOnError(err, g)
	}

	for i := 0; i < n; i++ {
		childName, err := b.backend.ChildName(gh, i)
		if err != nil {
			return fail(backendErr("ChildName", err))
		}
		if childName == "" {
			continue
		}
		childPath := JoinPath(path, childName)
		child, err := b.build(gh, childName, childPath)
		if err != nil {
			if isSkip(err) {
				b.skipped(err, logrus.Fields{"path": childPath})
				continue
			}
			return fail(err)
		}
		if err := b.addChild(g, childName, child); err != nil {
			return fail(err)
		}
	}
	return g, nil
}

// addChild appends child to g. child is released unless it was added.
func (b *builder) addChild(g *Group, name string, child Object) error {
	if err := b.reserve(childSlotSize); err != nil {
		return releaseOnError(err, child)
	}
	if err := g.definition.CreateField(name, child.Definition()); err != nil {
		return releaseOnError(err, child)
	}
	g.children = append(g.children, &childLink{name: name, obj: child})
	return nil
}

func (b *builder) buildDataset(loc native.Handle, name, path string, key native.IdentityKey) (*Dataset, error) {
	dh, err := b.backend.OpenDataset(loc, name)
	if err != nil {
		return nil, backendErr("OpenDataset", err)
	}
	owned := own(b.backend, dh)
	if err := b.reserve(datasetSize); err != nil {
		return nil, closeOnError(err, &owned)
	}
	d := &Dataset{objectBase: objectBase{key: key, name: baseName(path), path: path, handle: owned}}
	b.path = path

	sh, err := b.backend.DatasetSpace(dh)
	if err != nil {
		return nil, releaseOnError(backendErr("DatasetSpace", err), d)
	}
	d.space = own(b.backend, sh)
	ext, err := b.backend.Extent(sh)
	if err != nil {
		return nil, releaseOnError(backendErr("Extent", err), d)
	}
	if d.definition, err = b.newShape(ext); err != nil {
		return nil, releaseOnError(err, d)
	}

	th, err := b.backend.DatasetType(dh)
	if err != nil {
		return nil, releaseOnError(backendErr("DatasetType", err), d)
	}
	if d.base, err = b.mapType(th, true); err != nil {
		return nil, releaseOnError(err, d)
	}
	if err := d.definition.SetBaseType(d.base.Definition()); err != nil {
		return nil, releaseOnError(err, d)
	}

	if d.attrs, err = b.newAttributeRecord(dh); err != nil {
		return nil, releaseOnError(err, d)
	}
	if err := d.definition.SetAttributes(d.attrs.definition); err != nil {
		return nil, releaseOnError(err, d)
	}

	if err := b.registry.Add(d); err != nil {
		return nil, releaseOnError(err, d)
	}
	return d, nil
}
