package portable

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberReadTypes(t *testing.T) {
	tests := []struct {
		name    string
		class   Class
		rt      ReadType
		wantErr bool
	}{
		{"int8", ClassInteger, ReadInt8, false},
		{"uint64", ClassInteger, ReadUint64, false},
		{"int as double", ClassInteger, ReadDouble, true},
		{"float", ClassReal, ReadFloat, false},
		{"double", ClassReal, ReadDouble, false},
		{"real as int32", ClassReal, ReadInt32, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			num, err := NewNumber(tt.class)
			require.NoError(t, err)
			err = num.SetReadType(tt.rt)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrWrongClass)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.rt, num.ReadType())
		})
	}

	_, err := NewNumber(ClassText)
	assert.ErrorIs(t, err, ErrWrongClass)
}

func TestArrayDimensions(t *testing.T) {
	arr := NewArray()
	for i := 0; i < MaxNumDims; i++ {
		require.NoError(t, arr.AddFixedDimension(int64(i+1)))
	}
	assert.ErrorIs(t, arr.AddFixedDimension(2), ErrTooManyDims)
	assert.Equal(t, []int64{1, 2, 3, 4, 5, 6, 7, 8}, arr.Dims())
	assert.Equal(t, int64(40320), arr.NumElements())

	assert.Error(t, arr.AddFixedDimension(-1))
	assert.ErrorIs(t, NewRecord().AddFixedDimension(1), ErrWrongClass)
}

func TestArrayBaseType(t *testing.T) {
	arr := NewArray()
	text := NewText()

	require.NoError(t, arr.SetBaseType(text))
	assert.Equal(t, 2, text.Refs())
	assert.ErrorIs(t, arr.SetBaseType(text), ErrAlreadySet)
	assert.ErrorIs(t, NewArray().SetBaseType(nil), ErrNilType)

	text.Release()
	assert.Equal(t, 1, text.Refs())
	arr.Release()
	assert.Equal(t, 0, text.Refs())
}

func TestRecordFieldNames(t *testing.T) {
	rec := NewRecord()
	text := NewText()
	defer text.Release()

	require.NoError(t, rec.CreateField("temperature", text))
	require.NoError(t, rec.CreateField("wind speed", text))
	require.NoError(t, rec.CreateField("wind_speed", text))
	require.NoError(t, rec.CreateField("2d", text))
	require.NoError(t, rec.CreateField("", text))

	var names, realNames []string
	for _, f := range rec.Fields() {
		names = append(names, f.Name)
		realNames = append(realNames, f.RealName)
	}
	assert.Equal(t, []string{"temperature", "wind_speed", "wind_speed_1", "_2d", "unnamed"}, names)
	assert.Equal(t, []string{"temperature", "wind speed", "wind_speed", "2d", ""}, realNames)

	assert.Equal(t, 1, rec.FieldIndex("wind speed"))
	assert.Equal(t, 2, rec.FieldIndex("wind_speed_1"))
	assert.Equal(t, 2, rec.FieldIndex("wind_speed"))
	assert.Equal(t, 3, rec.FieldIndex("_2d"))
	assert.Equal(t, -1, rec.FieldIndex("missing"))
	assert.Equal(t, 6, text.Refs())

	rec.Release()
	assert.Equal(t, 1, text.Refs())
}

func TestAttributesOutliveOwner(t *testing.T) {
	attrs := NewRecord()
	arr := NewArray()
	require.NoError(t, arr.SetAttributes(attrs))
	assert.ErrorIs(t, arr.SetAttributes(NewArray()), ErrWrongClass)

	kept := arr.Retain()
	arr.Release()
	assert.Equal(t, 2, attrs.Refs())

	kept.Release()
	assert.Equal(t, 1, attrs.Refs())
	assert.Nil(t, kept.Attributes())
}

func TestReleaseUnreferencedPanics(t *testing.T) {
	text := NewText()
	text.Release()
	assert.Panics(t, func() { text.Release() })
}

func TestString(t *testing.T) {
	int32Type, err := NewNumber(ClassInteger)
	require.NoError(t, err)
	require.NoError(t, int32Type.SetReadType(ReadInt32))

	temperature := NewArray()
	require.NoError(t, temperature.AddFixedDimension(10))
	require.NoError(t, temperature.AddFixedDimension(5))
	require.NoError(t, temperature.SetBaseType(int32Type))

	units := NewArray()
	require.NoError(t, units.SetBaseType(NewText()))
	attrs := NewRecord()
	require.NoError(t, attrs.CreateField("units", units))
	require.NoError(t, temperature.SetAttributes(attrs))

	root := NewRecord()
	require.NoError(t, root.CreateField("temperature", temperature))
	require.NoError(t, root.CreateField("meta", NewRecord()))

	assert.Equal(t,
		"record{ temperature: array[10,5] of int32 with attributes{ units: array[] of text }, meta: record{} }",
		root.String())

	realType, err := NewNumber(ClassReal)
	require.NoError(t, err)
	assert.Equal(t, "real", realType.String())
	assert.Equal(t, "array[] of ?", NewArray().String())
}

func TestGoType(t *testing.T) {
	uint16Type, err := NewNumber(ClassInteger)
	require.NoError(t, err)
	require.NoError(t, uint16Type.SetReadType(ReadUint16))

	vector := NewArray()
	require.NoError(t, vector.AddFixedDimension(3))
	require.NoError(t, vector.SetBaseType(uint16Type))

	rec := NewRecord()
	require.NoError(t, rec.CreateField("counts", vector))
	require.NoError(t, rec.CreateField("label", NewText()))

	got, err := rec.GoType()
	require.NoError(t, err)
	require.Equal(t, reflect.Struct, got.Kind())
	require.Equal(t, 2, got.NumField())

	assert.Equal(t, "Counts", got.Field(0).Name)
	assert.Equal(t, reflect.TypeOf([]uint16{}), got.Field(0).Type)
	assert.Equal(t, "counts", got.Field(0).Tag.Get("hdf5"))
	assert.Equal(t, "Label", got.Field(1).Name)
	assert.Equal(t, reflect.TypeOf(""), got.Field(1).Type)

	_, err = NewArray().GoType()
	assert.Error(t, err)
}
