package memfile

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-hdf5-schema/native"
)

func TestCreateAndLookup(t *testing.T) {
	f := New()
	grp, err := f.Root().CreateGroup("level1")
	require.NoError(t, err)
	sub, err := grp.CreateGroup("level2")
	require.NoError(t, err)
	ds, err := sub.CreateDataset("data", Int(4, true), []uint64{3, 4})
	require.NoError(t, err)

	assert.Equal(t, "/level1/level2", sub.Path())
	assert.Equal(t, "/level1/level2/data", ds.Path())

	obj, err := f.Lookup("/level1/level2/data")
	require.NoError(t, err)
	assert.Equal(t, ds.Key(), obj.(*Dataset).Key())

	_, err = f.Lookup("/level1/missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = grp.CreateGroup("level2")
	assert.ErrorIs(t, err, ErrExists)
}

func TestHardLinkSharesKey(t *testing.T) {
	f := New()
	root := f.Root()
	ds, err := root.CreateDataset("a", Float64(), nil)
	require.NoError(t, err)
	require.NoError(t, root.Link("b", ds))

	file := f.Open()
	defer f.Close(file)

	a, err := f.ObjectInfo(file, "a")
	require.NoError(t, err)
	b, err := f.ObjectInfo(file, "/b")
	require.NoError(t, err)
	assert.Equal(t, native.KindDataset, a.Kind)
	assert.Equal(t, a.Key, b.Key)
	assert.NotEqual(t, f.Root().Key(), a.Key)
}

func TestSoftLinkNotFollowedByObjectInfo(t *testing.T) {
	f := New()
	root := f.Root()
	_, err := root.CreateGroup("target")
	require.NoError(t, err)
	require.NoError(t, root.SoftLink("soft", "/target"))

	file := f.Open()
	info, err := f.ObjectInfo(file, "soft")
	require.NoError(t, err)
	assert.Equal(t, native.KindLink, info.Kind)

	g, err := f.OpenGroup(file, "soft")
	require.NoError(t, err)
	n, err := f.NumChildren(g)
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, f.Close(g))
	require.NoError(t, f.Close(file))
}

func TestSoftLinkLoop(t *testing.T) {
	f := New()
	root := f.Root()
	require.NoError(t, root.SoftLink("a", "/b"))
	require.NoError(t, root.SoftLink("b", "/a"))

	file := f.Open()
	defer f.Close(file)
	_, err := f.OpenGroup(file, "a")
	assert.ErrorIs(t, err, ErrLinkDepth)
}

func TestOpenWrongKind(t *testing.T) {
	f := New()
	_, err := f.Root().CreateDataset("d", Int(1, false), []uint64{2})
	require.NoError(t, err)

	file := f.Open()
	defer f.Close(file)
	_, err = f.OpenGroup(file, "d")
	assert.ErrorIs(t, err, ErrWrongType)
}

func TestEnumerateChildrenAndAttributes(t *testing.T) {
	f := New()
	root := f.Root()
	_, err := root.CreateDataset("x", Int(2, true), []uint64{5},
		WithAttribute("units", FixedString(8)),
		WithAttribute("scale", Float32(), 2))
	require.NoError(t, err)
	_, err = root.CreateGroup("y")
	require.NoError(t, err)

	file := f.Open()
	n, err := f.NumChildren(file)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	name, err := f.ChildName(file, 1)
	require.NoError(t, err)
	assert.Equal(t, "y", name)
	_, err = f.ChildName(file, 2)
	assert.Error(t, err)

	ds, err := f.OpenDataset(file, "x")
	require.NoError(t, err)
	nattrs, err := f.NumAttributes(ds)
	require.NoError(t, err)
	require.Equal(t, 2, nattrs)

	attr, err := f.OpenAttribute(ds, 1)
	require.NoError(t, err)
	attrName, err := f.AttributeName(attr)
	require.NoError(t, err)
	assert.Equal(t, "scale", attrName)

	space, err := f.AttributeSpace(attr)
	require.NoError(t, err)
	ext, err := f.Extent(space)
	require.NoError(t, err)
	assert.Equal(t, native.SpaceSimple, ext.Type)
	assert.Equal(t, []uint64{2}, ext.Dimensions)

	typ, err := f.AttributeType(attr)
	require.NoError(t, err)
	kind, err := f.FloatKind(typ)
	require.NoError(t, err)
	assert.Equal(t, native.FloatSingle, kind)

	for _, h := range []native.Handle{typ, space, attr, ds, file} {
		require.NoError(t, f.Close(h))
	}
	assert.Empty(t, f.OpenHandles())
}

func TestTypeQueries(t *testing.T) {
	f := New()

	t.Run("integer sign", func(t *testing.T) {
		h := f.openType(Int(8, false), "u64")
		sign, err := f.TypeSign(h)
		require.NoError(t, err)
		assert.Equal(t, native.SignNone, sign)
		size, err := f.TypeSize(h)
		require.NoError(t, err)
		assert.Equal(t, 8, size)
		require.NoError(t, f.Close(h))
	})

	t.Run("sign of float is wrong type", func(t *testing.T) {
		h := f.openType(Float64(), "f64")
		_, err := f.TypeSign(h)
		assert.ErrorIs(t, err, ErrWrongType)
		require.NoError(t, f.Close(h))
	})

	t.Run("enum super", func(t *testing.T) {
		h := f.openType(Enum(Int(2, true)), "enum")
		super, err := f.TypeSuper(h)
		require.NoError(t, err)
		class, err := f.TypeClass(super)
		require.NoError(t, err)
		assert.Equal(t, native.ClassInteger, class)
		require.NoError(t, f.Close(super))
		require.NoError(t, f.Close(h))
	})

	t.Run("float precision", func(t *testing.T) {
		h := f.openType(Float(8, 40), "f40")
		kind, err := f.FloatKind(h)
		require.NoError(t, err)
		assert.Equal(t, native.FloatOther, kind)
		require.NoError(t, f.Close(h))
	})

	t.Run("variable string", func(t *testing.T) {
		h := f.openType(VarString(), "vstr")
		vlen, err := f.IsVariableString(h)
		require.NoError(t, err)
		assert.True(t, vlen)
		require.NoError(t, f.Close(h))
	})
}

func TestCompoundMembers(t *testing.T) {
	f := New()
	dt := Compound(Field("a", Int(4, true)), Field("b", Float64()))
	assert.Equal(t, 12, dt.Size)
	assert.Equal(t, 4, dt.Members[1].ByteOffset)

	h := f.openType(dt, "compound")
	n, err := f.NumMembers(h)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	name, err := f.MemberName(h, 1)
	require.NoError(t, err)
	assert.Equal(t, "b", name)
	mt, err := f.MemberType(h, 1)
	require.NoError(t, err)

	single, err := f.CreateCompound(8)
	require.NoError(t, err)
	require.NoError(t, f.InsertMember(single, "b", 0, mt))
	assert.Error(t, f.InsertMember(single, "b", 0, mt), "duplicate member")
	assert.Error(t, f.InsertMember(single, "c", 4, mt), "member past the end")

	built, err := f.TypeOf(single)
	require.NoError(t, err)
	require.Len(t, built.Members, 1)
	assert.Equal(t, "b", built.Members[0].Name)
	assert.Equal(t, 0, built.Members[0].ByteOffset)

	_, err = f.CreateCompound(0)
	assert.Error(t, err)

	for _, h := range []native.Handle{single, mt, h} {
		require.NoError(t, f.Close(h))
	}
}

func TestCloseAccounting(t *testing.T) {
	f := New()
	h := f.Open()

	require.NoError(t, f.Close(h))
	err := f.Close(h)
	assert.ErrorIs(t, err, ErrDoubleClose)
	assert.ErrorIs(t, f.Close(12345), ErrInvalidHandle)

	stats := f.Stats()
	assert.Equal(t, 1, stats.Opened)
	assert.Equal(t, 1, stats.Closed)
	assert.Equal(t, 1, stats.DoubleCloses)

	_, err = f.NumChildren(h)
	assert.ErrorIs(t, err, ErrInvalidHandle)
}

func TestFaultInjection(t *testing.T) {
	f := New()
	_, err := f.Root().CreateGroup("g")
	require.NoError(t, err)
	file := f.Open()
	defer f.Close(file)

	t.Run("fail after", func(t *testing.T) {
		f.FailAfter(2)
		_, err := f.NumChildren(file)
		require.NoError(t, err)
		_, err = f.ChildName(file, 0)
		assert.ErrorIs(t, err, ErrInjected)
		_, err = f.ChildName(file, 0)
		assert.NoError(t, err)
		f.ResetFaults()
	})

	t.Run("fail on", func(t *testing.T) {
		f.FailOn("OpenGroup")
		_, err := f.OpenGroup(file, "g")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInjected))
		assert.Contains(t, err.Error(), "OpenGroup")
		f.ResetFaults()

		g, err := f.OpenGroup(file, "g")
		require.NoError(t, err)
		require.NoError(t, f.Close(g))
	})
}
