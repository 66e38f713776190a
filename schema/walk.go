package schema

import "github.com/robert-malhotra/go-hdf5-schema/portable"

// WalkFunc is called for each object during traversal. Return nil to
// continue, ErrStopWalk to stop without an error, or any other error to stop
// and return it.
type WalkFunc func(obj Object) error

// Walk visits obj and every object below it depth first, a group before its
// children and children in link order.
func Walk(obj Object, fn WalkFunc) error {
	err := walk(obj, fn)
	if IsStopWalk(err) {
		return nil
	}
	return err
}

func walk(obj Object, fn WalkFunc) error {
	if err := fn(obj); err != nil {
		return err
	}
	g, ok := obj.(*Group)
	if !ok {
		return nil
	}
	for _, c := range g.children {
		if err := walk(c.obj, fn); err != nil {
			return err
		}
	}
	return nil
}

// AttrInfo contains information about an attribute during walking.
type AttrInfo struct {
	// Path is the full attribute path (e.g. "/group/dataset@attr")
	Path string

	// ObjectPath is the path of the object holding the attribute
	ObjectPath string

	// ObjectKind is KindGroup or KindDataset
	ObjectKind Kind

	// Name is the native attribute name
	Name string

	Attr *Attribute

	// Type is the portable definition of the attribute
	Type *portable.Type
}

// WalkAttrsFunc is the callback function type for WalkAttrs.
type WalkAttrsFunc func(info AttrInfo) error

// WalkAttrs visits every attribute of obj and of the objects below it, in
// Walk order.
func WalkAttrs(obj Object, fn WalkAttrsFunc) error {
	return Walk(obj, func(o Object) error {
		attrs := o.Attributes()
		for i := 0; i < attrs.Len(); i++ {
			name := attrs.Name(i)
			a := attrs.At(i)
			info := AttrInfo{
				Path:       JoinAttrPath(o.Path(), name),
				ObjectPath: o.Path(),
				ObjectKind: o.Kind(),
				Name:       name,
				Attr:       a,
				Type:       a.Definition(),
			}
			if err := fn(info); err != nil {
				return err
			}
		}
		return nil
	})
}

// ErrStopWalk can be returned from a WalkFunc or WalkAttrsFunc to stop
// walking without an error.
var ErrStopWalk = &walkStopError{}

type walkStopError struct{}

func (e *walkStopError) Error() string { return "walk stopped" }

// IsStopWalk returns true if the error is ErrStopWalk.
func IsStopWalk(err error) bool {
	_, ok := err.(*walkStopError)
	return ok
}
