package schema

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-hdf5-schema/internal/memfile"
	"github.com/robert-malhotra/go-hdf5-schema/native"
)

func TestScenario(t *testing.T) {
	f := scenarioFile(t)
	s, _ := openFile(t, f)

	want := "record{ temperature: array[10,5] of int32 with attributes{ units: array[] of text }, " +
		"meta: record{ flag: array[] of uint8 } }"
	if diff := cmp.Diff(want, s.Definition().String()); diff != "" {
		t.Errorf("schema mismatch (-want +got):\n%s", diff)
	}

	root, ok := s.Root().(*Group)
	require.True(t, ok)
	assert.Equal(t, "/", root.Name())
	assert.Equal(t, 2, root.NumChildren())

	temp, ok := root.Child("temperature").(*Dataset)
	require.True(t, ok)
	assert.Equal(t, []int64{10, 5}, temp.Dims())
	assert.True(t, temp.Handle().Valid())
	assert.True(t, temp.Space().Valid())
	assert.True(t, temp.Base().NativeType().Valid())

	units := temp.Attributes().Lookup("units")
	require.NotNil(t, units)
	assert.Empty(t, units.Dims())
	assert.Equal(t, KindBasicType, units.Base().Kind())

	flag, err := s.Lookup("/meta/flag")
	require.NoError(t, err)
	assert.Equal(t, "flag", flag.Name())
	assert.Equal(t, "/meta/flag", flag.Path())
}

func TestScenarioVariableLengthUnits(t *testing.T) {
	f := memfile.New()
	root := f.Root()
	_, err := root.CreateDataset("temperature", memfile.Int(4, true), []uint64{10, 5},
		memfile.WithAttribute("units", memfile.VarString()))
	require.NoError(t, err)
	meta, err := root.CreateGroup("meta")
	require.NoError(t, err)
	_, err = meta.CreateDataset("flag", memfile.Enum(memfile.Int(1, false)), nil)
	require.NoError(t, err)
	s, _ := openFile(t, f)

	want := "record{ temperature: array[10,5] of int32, meta: record{ flag: array[] of uint8 } }"
	if diff := cmp.Diff(want, s.Definition().String()); diff != "" {
		t.Errorf("schema mismatch (-want +got):\n%s", diff)
	}
	temp, err := s.Lookup("/temperature")
	require.NoError(t, err)
	assert.Zero(t, temp.Attributes().Len())
	assert.Nil(t, temp.Attributes().Lookup("units"))
}

func TestRegistryOrder(t *testing.T) {
	f := richFile(t)
	s, _ := openFile(t, f)

	var paths []string
	for _, obj := range s.Registry().Objects() {
		paths = append(paths, obj.Path())
	}
	want := []string{"/", "/table", "/sensors", "/sensors/names", "/sensors/deep", "/sensors/deep/x"}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("registry mismatch (-want +got):\n%s", diff)
	}
}

func TestRichSchema(t *testing.T) {
	f := richFile(t)
	s, _ := openFile(t, f)

	rec := "record{ id: uint64, value: double, label: text, kind: int16 }"
	want := "record{ " +
		"table: array[100] of " + rec + " with attributes{ scale: array[3] of float, origin: array[] of " + rec + " }, " +
		"sensors: record{ names: array[4] of text, " +
		"deep: record{ x: array[2,2,2] of float } with attributes{ level: array[] of int8 } } " +
		"} with attributes{ title: array[] of text }"
	if diff := cmp.Diff(want, s.Definition().String()); diff != "" {
		t.Errorf("schema mismatch (-want +got):\n%s", diff)
	}
}

func TestHardLinkDuplicates(t *testing.T) {
	f := memfile.New()
	root := f.Root()
	ds, err := root.CreateDataset("first", memfile.Float64(), []uint64{3})
	require.NoError(t, err)
	require.NoError(t, root.Link("second", ds))

	s, _ := openFile(t, f)
	root2 := s.Root().(*Group)
	require.Equal(t, 1, root2.NumChildren())
	assert.NotNil(t, root2.Child("first"))
	assert.Nil(t, root2.Child("second"))
	assert.Equal(t, "record{ first: array[3] of double }", s.Definition().String())
	assert.Equal(t, 2, s.Registry().Len())
}

func TestHardLinkAcrossGroups(t *testing.T) {
	f := memfile.New()
	a, err := f.Root().CreateGroup("a")
	require.NoError(t, err)
	b, err := f.Root().CreateGroup("b")
	require.NoError(t, err)
	ds, err := a.CreateDataset("data", memfile.Int(2, false), []uint64{1})
	require.NoError(t, err)
	require.NoError(t, b.Link("alias", ds))

	s, _ := openFile(t, f)
	_, err = s.Lookup("/a/data")
	require.NoError(t, err)
	_, err = s.Lookup("/b/alias")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "record{ a: record{ data: array[1] of uint16 }, b: record{} }", s.Definition().String())
}

func TestCycle(t *testing.T) {
	f := memfile.New()
	a, err := f.Root().CreateGroup("a")
	require.NoError(t, err)
	b, err := a.CreateGroup("b")
	require.NoError(t, err)
	require.NoError(t, b.Link("up", a))
	require.NoError(t, b.Link("root", f.Root()))
	require.NoError(t, b.Link("self", b))

	s, _ := openFile(t, f)
	assert.Equal(t, "record{ a: record{ b: record{} } }", s.Definition().String())
	assert.Equal(t, 3, s.Registry().Len())
}

func TestSkippedObjects(t *testing.T) {
	f := memfile.New()
	root := f.Root()
	_, err := root.CreateDataset("keep", memfile.Int(1, true), []uint64{1})
	require.NoError(t, err)
	_, err = root.CreateDataset("null", memfile.Int(4, true), nil,
		memfile.WithSpace(native.Extent{Type: native.SpaceNull}))
	require.NoError(t, err)
	_, err = root.CreateDataset("rank9", memfile.Int(4, true), []uint64{1, 1, 1, 1, 1, 1, 1, 1, 1})
	require.NoError(t, err)
	_, err = root.CreateDataset("ref", memfile.Reference(), []uint64{2})
	require.NoError(t, err)
	require.NoError(t, root.SoftLink("soft", "/keep"))
	require.NoError(t, root.SoftLink("dangling", "/missing"))
	require.NoError(t, root.CommitType("named", memfile.Int(4, true)))

	s, _ := openFile(t, f)
	assert.Equal(t, "record{ keep: array[1] of int8 }", s.Definition().String())
}

func TestMaxDims(t *testing.T) {
	f := memfile.New()
	root := f.Root()
	_, err := root.CreateDataset("two", memfile.Int(4, true), []uint64{2, 2})
	require.NoError(t, err)
	_, err = root.CreateDataset("three", memfile.Int(4, true), []uint64{2, 2, 2},
		memfile.WithAttribute("a2", memfile.Int(1, true), 1, 1),
		memfile.WithAttribute("a3", memfile.Int(1, true), 1, 1, 1))
	require.NoError(t, err)

	t.Run("default", func(t *testing.T) {
		s, _ := openFile(t, f)
		assert.Equal(t, "record{ two: array[2,2] of int32, three: array[2,2,2] of int32 "+
			"with attributes{ a2: array[1,1] of int8, a3: array[1,1,1] of int8 } }", s.Definition().String())
	})

	t.Run("limited", func(t *testing.T) {
		s, _ := openFile(t, f, WithMaxDims(2))
		assert.Equal(t, "record{ two: array[2,2] of int32 }", s.Definition().String())
	})
}

func TestOversizedDimensionSkipped(t *testing.T) {
	f := memfile.New()
	root := f.Root()
	_, err := root.CreateDataset("huge", memfile.Int(4, true), []uint64{math.MaxInt64 + 1})
	require.NoError(t, err)
	_, err = root.CreateDataset("ok", memfile.Int(4, true), []uint64{3})
	require.NoError(t, err)
	root.SetAttribute("huge", memfile.Int(1, true), math.MaxUint64)

	s, _ := openFile(t, f)
	assert.Equal(t, "record{ ok: array[3] of int32 }", s.Definition().String())
	_, err = s.Lookup("/huge")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestEmptyChildNameIgnored(t *testing.T) {
	f := memfile.New()
	_, err := f.Root().CreateGroup("")
	require.NoError(t, err)
	_, err = f.Root().CreateGroup("g")
	require.NoError(t, err)

	s, _ := openFile(t, f)
	assert.Equal(t, "record{ g: record{} }", s.Definition().String())
}

func TestDatasetRoot(t *testing.T) {
	f := scenarioFile(t)
	loc := f.Open()
	s, err := Open(f, loc, "/temperature", WithLogger(quietLogger()))
	require.NoError(t, err)

	assert.Equal(t, KindDataset, s.Root().Kind())
	assert.Equal(t, "temperature", s.Root().Name())
	assert.Equal(t, "array[10,5] of int32 with attributes{ units: array[] of text }", s.Definition().String())

	require.NoError(t, s.Close())
	require.NoError(t, f.Close(loc))
	requireNoLeaks(t, f)
}

func TestUnsupportedRoot(t *testing.T) {
	f := memfile.New()
	_, err := f.Root().CreateDataset("bits", memfile.Bitfield(1), []uint64{8})
	require.NoError(t, err)
	require.NoError(t, f.Root().CommitType("named", memfile.Float64()))

	loc := f.Open()
	for _, path := range []string{"/bits", "/named"} {
		_, err := Open(f, loc, path, WithLogger(quietLogger()))
		assert.True(t, errors.Is(err, ErrUnsupported), "%s: %v", path, err)
	}
	require.NoError(t, f.Close(loc))
	requireNoLeaks(t, f)
}

func TestOpenErrors(t *testing.T) {
	f := scenarioFile(t)
	loc := f.Open()
	defer f.Close(loc)

	_, err := Open(nil, loc, "/")
	assert.True(t, errors.Is(err, ErrBackend))

	_, err = Open(f, loc, "")
	assert.True(t, errors.Is(err, ErrInvalidPath))

	_, err = Open(f, loc, "/missing", WithLogger(quietLogger()))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBackend))
	assert.True(t, errors.Is(err, memfile.ErrNotFound))
	var be *BackendError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, "ObjectInfo", be.Op)
}
