package schema

import (
	"math"
	"reflect"

	"github.com/sirupsen/logrus"

	"github.com/robert-malhotra/go-hdf5-schema/internal/alloc"
	"github.com/robert-malhotra/go-hdf5-schema/native"
	"github.com/robert-malhotra/go-hdf5-schema/portable"
)

// Sizes charged to the allocator for each node, definition and slot.
var (
	basicTypeSize       = sizeOf[BasicType]()
	compoundTypeSize    = sizeOf[CompoundType]()
	attributeSize       = sizeOf[Attribute]()
	attributeRecordSize = sizeOf[AttributeRecord]()
	groupSize           = sizeOf[Group]()
	datasetSize         = sizeOf[Dataset]()
	definitionSize      = sizeOf[portable.Type]()
	fieldSize           = sizeOf[portable.Field]()
	objectSlotSize      = sizeOf[Object]()
	memberSlotSize      = sizeOf[*BasicType]() + sizeOf[OwnedHandle]()
	childSlotSize       = sizeOf[childLink]() + sizeOf[*childLink]() + fieldSize
	attributeSlotSize   = sizeOf[*Attribute]() + fieldSize
)

func sizeOf[T any]() uint64 {
	return uint64(reflect.TypeOf((*T)(nil)).Elem().Size())
}

// builder holds the state of one tree construction.
type builder struct {
	backend  native.Backend
	alloc    *alloc.Allocator
	registry *Registry
	maxDims  int
	log      logrus.FieldLogger

	// path of the object being built, for logging
	path string
}

// reserve charges size bytes to the caller's call site.
func (b *builder) reserve(size uint64) error {
	return b.alloc.Alloc(size, alloc.Site(1))
}

func (b *builder) skipped(err error, fields logrus.Fields) {
	b.log.WithFields(fields).WithField("reason", err.Error()).Debug("skipped")
}

// newDefinition charges and creates a portable definition of class.
func (b *builder) newDefinition(class portable.Class) (*portable.Type, error) {
	if err := b.alloc.Alloc(definitionSize, alloc.Site(1)); err != nil {
		return nil, err
	}
	switch class {
	case portable.ClassText:
		return portable.NewText(), nil
	case portable.ClassArray:
		return portable.NewArray(), nil
	case portable.ClassRecord:
		return portable.NewRecord(), nil
	default:
		return portable.NewNumber(class)
	}
}

// newShape creates the array definition of a dataset or attribute with the
// given extent. Extents that are not simple, or whose rank exceeds the
// configured maximum, are skipped.
func (b *builder) newShape(ext native.Extent) (*portable.Type, error) {
	if !ext.IsSimple() {
		return nil, skipf("%s dataspace", ext.Type)
	}
	if ext.Rank() > b.maxDims {
		return nil, skipf("rank %d exceeds the maximum of %d", ext.Rank(), b.maxDims)
	}
	shape, err := b.newDefinition(portable.ClassArray)
	if err != nil {
		return nil, err
	}
	for _, d := range ext.Dimensions {
		if d > math.MaxInt64 {
			shape.Release()
			return nil, skipf("dimension %d out of range", d)
		}
		if err := shape.AddFixedDimension(int64(d)); err != nil {
			shape.Release()
			return nil, err
		}
	}
	return shape, nil
}
