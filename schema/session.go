package schema

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/robert-malhotra/go-hdf5-schema/internal/alloc"
	"github.com/robert-malhotra/go-hdf5-schema/native"
	"github.com/robert-malhotra/go-hdf5-schema/portable"
)

// Session is the schema tree of one container, together with the registry
// of the objects in it. A Session is not safe for concurrent use.
type Session struct {
	id        uuid.UUID
	root      Object
	registry  *Registry
	allocator *alloc.Allocator
	log       logrus.FieldLogger
	closed    bool
}

// Open builds the schema tree of the object at path under loc. loc remains
// owned by the caller. Open fails with ErrUnsupported when the object at
// path is neither a group nor a dataset that can be represented.
//
// On failure every handle opened while building has been closed again.
func Open(backend native.Backend, loc native.Handle, path string, opts ...Option) (*Session, error) {
	if backend == nil {
		return nil, errors.Wrap(ErrBackend, "no backend")
	}
	if path == "" {
		return nil, errors.Wrap(ErrInvalidPath, "empty path")
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.allocator == nil {
		o.allocator = alloc.New(0)
	}

	s := &Session{
		id:        uuid.New(),
		allocator: o.allocator,
	}
	s.log = o.logger.WithField("session", s.id.String())
	s.registry = newRegistry(o.blockSize, o.allocator)

	b := &builder{
		backend:  backend,
		alloc:    o.allocator,
		registry: s.registry,
		maxDims:  o.maxDims,
		log:      s.log,
	}
	root, err := b.build(loc, path, CleanPath(path))
	if err != nil {
		if isSkip(err) {
			return nil, errors.Wrapf(ErrUnsupported, "%s: %v", path, err)
		}
		s.log.WithError(err).WithField("path", path).Debug("schema build failed")
		return nil, err
	}
	s.root = root

	s.log.WithFields(logrus.Fields{
		"path":    root.Path(),
		"objects": s.registry.Len(),
		"bytes":   o.allocator.InUse(),
	}).Debug("schema built")
	return s, nil
}

// ID returns the unique identifier of the session.
func (s *Session) ID() uuid.UUID { return s.id }

// Root returns the root object, or nil after Close.
func (s *Session) Root() Object { return s.root }

// Definition returns the portable definition of the root object.
func (s *Session) Definition() *portable.Type {
	if s.root == nil {
		return nil
	}
	return s.root.Definition()
}

// Registry returns the objects materialized in the session.
func (s *Session) Registry() *Registry { return s.registry }

// Allocator returns the allocator construction was charged to.
func (s *Session) Allocator() *alloc.Allocator { return s.allocator }

// Lookup returns the object at path, relative to the root of the session.
// "/" is the root itself.
func (s *Session) Lookup(path string) (Object, error) {
	if s.closed {
		return nil, ErrClosed
	}
	obj := s.root
	for _, part := range SplitPath(path) {
		g, ok := obj.(*Group)
		if !ok {
			return nil, errors.Wrapf(ErrNotGroup, "%s", obj.Path())
		}
		obj = g.Child(part)
		if obj == nil {
			return nil, errors.Wrapf(ErrNotFound, "%s", CleanPath(path))
		}
	}
	return obj, nil
}

// Attr returns the attribute at an attribute path such as "/data@units".
func (s *Session) Attr(attrPath string) (*Attribute, error) {
	objectPath, name, err := ParseAttrPath(attrPath)
	if err != nil {
		return nil, err
	}
	obj, err := s.Lookup(objectPath)
	if err != nil {
		return nil, err
	}
	a := obj.Attributes().Lookup(name)
	if a == nil {
		return nil, errors.Wrapf(ErrNotFound, "%s", attrPath)
	}
	return a, nil
}

// Walk visits every object of the session, see Walk.
func (s *Session) Walk(fn WalkFunc) error {
	if s.closed {
		return ErrClosed
	}
	return Walk(s.root, fn)
}

// WalkAttrs visits every attribute of the session, see WalkAttrs.
func (s *Session) WalkAttrs(fn WalkAttrsFunc) error {
	if s.closed {
		return ErrClosed
	}
	return WalkAttrs(s.root, fn)
}

// Close releases the tree and every native handle it owns.
func (s *Session) Close() error {
	if s.closed {
		return ErrClosed
	}
	s.closed = true
	err := Release(s.root)
	s.root = nil
	s.registry.Reset()
	s.log.Debug("schema released")
	return err
}
