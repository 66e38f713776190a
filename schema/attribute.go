package schema

import (
	"github.com/sirupsen/logrus"

	"github.com/robert-malhotra/go-hdf5-schema/native"
	"github.com/robert-malhotra/go-hdf5-schema/portable"
)

// newAttributeRecord builds the record of every attribute of obj that can be
// represented. Attributes with a null dataspace, too high a rank, an
// unsupported element type or an empty name are dropped. An object without
// attributes gets an empty record.
func (b *builder) newAttributeRecord(obj native.Handle) (*AttributeRecord, error) {
	if err := b.reserve(attributeRecordSize); err != nil {
		return nil, err
	}
	r := &AttributeRecord{}
	var err error
	if r.definition, err = b.newDefinition(portable.ClassRecord); err != nil {
		return nil, err
	}

	n, err := b.backend.NumAttributes(obj)
	if err != nil {
		return nil, releaseOnError(backendErr("NumAttributes", err), r)
	}
	for i := 0; i < n; i++ {
		attr, err := b.newAttribute(obj, i)
		if err != nil {
			if isSkip(err) {
				b.skipped(err, logrus.Fields{"path": b.path, "attribute": i})
				continue
			}
			return nil, releaseOnError(err, r)
		}
		if err := b.addAttribute(r, attr); err != nil {
			if isSkip(err) {
				b.skipped(err, logrus.Fields{"path": b.path, "attribute": i})
				continue
			}
			return nil, releaseOnError(err, r)
		}
	}
	return r, nil
}

// addAttribute names attr and appends it to r. attr is released unless it
// was added.
func (b *builder) addAttribute(r *AttributeRecord, attr *Attribute) error {
	name, err := b.backend.AttributeName(attr.handle.ID())
	if err != nil {
		return releaseOnError(backendErr("AttributeName", err), attr)
	}
	if name == "" {
		return releaseOnError(skipf("attribute without a name"), attr)
	}
	if err := b.reserve(attributeSlotSize); err != nil {
		return releaseOnError(err, attr)
	}
	if err := r.definition.CreateField(name, attr.definition); err != nil {
		return releaseOnError(err, attr)
	}
	r.attrs = append(r.attrs, attr)
	return nil
}

// newAttribute opens and maps the index-th attribute of obj.
func (b *builder) newAttribute(obj native.Handle, index int) (*Attribute, error) {
	ah, err := b.backend.OpenAttribute(obj, index)
	if err != nil {
		return nil, backendErr("OpenAttribute", err)
	}
	owned := own(b.backend, ah)
	if err := b.reserve(attributeSize); err != nil {
		return nil, closeOnError(err, &owned)
	}
	a := &Attribute{handle: owned}

	sh, err := b.backend.AttributeSpace(ah)
	if err != nil {
		return nil, releaseOnError(backendErr("AttributeSpace", err), a)
	}
	a.space = own(b.backend, sh)
	ext, err := b.backend.Extent(sh)
	if err != nil {
		return nil, releaseOnError(backendErr("Extent", err), a)
	}
	if a.definition, err = b.newShape(ext); err != nil {
		return nil, releaseOnError(err, a)
	}

	th, err := b.backend.AttributeType(ah)
	if err != nil {
		return nil, releaseOnError(backendErr("AttributeType", err), a)
	}
	base, err := b.mapType(th, false)
	if err != nil {
		return nil, releaseOnError(err, a)
	}
	a.base = base
	if err := a.definition.SetBaseType(base.Definition()); err != nil {
		return nil, releaseOnError(err, a)
	}
	return a, nil
}
