package schema

import "go.uber.org/multierr"

// Release closes every native handle owned by n and the nodes below it and
// drops their portable references, children first. Fields that were never
// set are skipped, so Release works on partially built nodes, and releasing
// a node twice is a no-op. The returned error combines every failed close.
func Release(n Node) error {
	var err error
	switch n := n.(type) {
	case nil:
	case *BasicType:
		if n == nil {
			return nil
		}
		err = n.handle.Close()
		n.releaseDefinition()
	case *CompoundType:
		if n == nil {
			return nil
		}
		for _, m := range n.members {
			err = multierr.Append(err, Release(m))
		}
		n.members = nil
		for i := range n.memberTypes {
			err = multierr.Append(err, n.memberTypes[i].Close())
		}
		n.memberTypes = nil
		err = multierr.Append(err, n.handle.Close())
		n.releaseDefinition()
	case *Attribute:
		if n == nil {
			return nil
		}
		err = releaseBase(n.base)
		n.base = nil
		err = multierr.Append(err, n.space.Close())
		err = multierr.Append(err, n.handle.Close())
		n.releaseDefinition()
	case *AttributeRecord:
		if n == nil {
			return nil
		}
		for _, a := range n.attrs {
			err = multierr.Append(err, Release(a))
		}
		n.attrs = nil
		n.releaseDefinition()
	case *Group:
		if n == nil {
			return nil
		}
		for _, c := range n.children {
			err = multierr.Append(err, Release(c.obj))
		}
		n.children = nil
		err = multierr.Append(err, releaseAttributes(&n.objectBase))
		err = multierr.Append(err, n.handle.Close())
		n.releaseDefinition()
	case *Dataset:
		if n == nil {
			return nil
		}
		err = releaseAttributes(&n.objectBase)
		err = multierr.Append(err, releaseBase(n.base))
		n.base = nil
		err = multierr.Append(err, n.space.Close())
		err = multierr.Append(err, n.handle.Close())
		n.releaseDefinition()
	}
	return err
}

func releaseBase(t DataType) error {
	if t == nil {
		return nil
	}
	return Release(t)
}

func releaseAttributes(o *objectBase) error {
	if o.attrs == nil {
		return nil
	}
	err := Release(o.attrs)
	o.attrs = nil
	return err
}
