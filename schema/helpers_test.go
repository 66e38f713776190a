package schema

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-hdf5-schema/internal/memfile"
	"github.com/robert-malhotra/go-hdf5-schema/native"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// openFile builds the schema of the root of f. The returned cleanup closes
// the session and the file handle and checks that nothing leaked.
func openFile(t *testing.T, f *memfile.File, opts ...Option) (*Session, native.Handle) {
	t.Helper()
	loc := f.Open()
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	s, err := Open(f, loc, "/", opts...)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
		require.NoError(t, f.Close(loc))
		requireNoLeaks(t, f)
	})
	return s, loc
}

// requireNoLeaks checks that every handle f handed out was closed exactly
// once.
func requireNoLeaks(t *testing.T, f *memfile.File) {
	t.Helper()
	require.Empty(t, f.OpenHandles(), "open handles")
	stats := f.Stats()
	require.Zero(t, stats.DoubleCloses, "double closes")
	require.Equal(t, stats.Opened, stats.Closed)
}

// scenarioFile returns a container with:
//
//	/temperature  int32 [10,5], attribute units (fixed string)
//	/meta/flag    enum over uint8, scalar
func scenarioFile(t *testing.T) *memfile.File {
	t.Helper()
	f := memfile.New()
	root := f.Root()
	_, err := root.CreateDataset("temperature", memfile.Int(4, true), []uint64{10, 5},
		memfile.WithAttribute("units", memfile.FixedString(8)))
	require.NoError(t, err)
	meta, err := root.CreateGroup("meta")
	require.NoError(t, err)
	_, err = meta.CreateDataset("flag", memfile.Enum(memfile.Int(1, false)), nil)
	require.NoError(t, err)
	return f
}

// richFile returns a container that exercises every construction path:
// compounds with dropped members, attributes of every kind, hard links,
// soft links, committed types and skipped datasets.
func richFile(t *testing.T) *memfile.File {
	t.Helper()
	f := memfile.New()
	root := f.Root()
	root.SetAttribute("title", memfile.FixedString(16))
	root.SetAttribute("vtitle", memfile.VarString())

	rec := memfile.Compound(
		memfile.Field("id", memfile.Int(8, false)),
		memfile.Field("when", memfile.Time(8)),
		memfile.Field("value", memfile.Float64()),
		memfile.Field("label", memfile.FixedString(12)),
		memfile.Field("kind", memfile.Enum(memfile.Int(2, true))),
	)
	table, err := root.CreateDataset("table", rec, []uint64{100},
		memfile.WithAttribute("scale", memfile.Float32(), 3),
		memfile.WithAttribute("origin", rec),
		memfile.WithAttribute("blob", memfile.Opaque(4)),
		memfile.WithAttributeSpace("empty", memfile.Int(4, true), native.Extent{Type: native.SpaceNull}))
	require.NoError(t, err)

	grp, err := root.CreateGroup("sensors")
	require.NoError(t, err)
	_, err = grp.CreateDataset("names", memfile.VarString(), []uint64{4})
	require.NoError(t, err)
	_, err = grp.CreateDataset("raw", memfile.Bitfield(2), []uint64{4})
	require.NoError(t, err)
	require.NoError(t, grp.Link("table", table))
	require.NoError(t, grp.Link("parent", f.Root()))
	require.NoError(t, grp.SoftLink("soft", "/table"))
	require.NoError(t, grp.CommitType("rec_t", rec))

	sub, err := grp.CreateGroup("deep")
	require.NoError(t, err)
	sub.SetAttribute("level", memfile.Int(1, true))
	_, err = sub.CreateDataset("x", memfile.Float32(), []uint64{2, 2, 2})
	require.NoError(t, err)
	return f
}
