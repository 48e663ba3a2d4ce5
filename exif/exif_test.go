package exif

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/obklar/exiv2/metadata"
	"github.com/obklar/exiv2/tiff"
)

func buildTree(t *testing.T, order binary.ByteOrder) *tiff.Directory {
	root := tiff.NewDirectory(tiff.GroupIFD0, order)
	require.NoError(t, root.AddChild(&tiff.Entry{
		Tag:   tiff.TagCompression,
		Value: &tiff.Value{Type: tiff.Short, Count: 1, Data: []byte{0, 5}},
	}))

	exifDir, err := root.AddPath(tiff.GroupExif)
	require.NoError(t, err)
	expVal := &tiff.Value{Type: tiff.Rational, Count: 1, Data: make([]byte, 8)}
	require.NoError(t, tiff.PutRational(expVal.Data, 0, order, 1, 125))
	require.NoError(t, exifDir.AddChild(&tiff.Entry{Tag: 0x829A, Value: expVal}))

	root.Fix()
	buf := make([]byte, root.TreeSize())
	_, err = root.PutTree(buf, 0)
	require.NoError(t, err)

	got, err := tiff.Read(buf, order, 0, nil)
	require.NoError(t, err)
	return got
}

func TestDecodeRoundTrip(t *testing.T) {
	order := binary.BigEndian
	tree := buildTree(t, order)

	m := Decode(tree, order, nil)

	v, ok := m.Get(metadata.Key{Family: metadata.Exif, Group: "IFD0", Tag: "Compression"})
	require.True(t, ok)
	require.Equal(t, "5", v.Text)

	v, ok = m.Get(metadata.Key{Family: metadata.Exif, Group: "Exif", Tag: "ExposureTime"})
	require.True(t, ok)
	require.Equal(t, "1/125", v.Text)
}

func TestEncodeNoOpLeavesTreeClean(t *testing.T) {
	order := binary.BigEndian
	tree := buildTree(t, order)
	require.False(t, tree.Dirty())

	m := Decode(tree, order, nil)
	out, err := Encode(tree, order, m)
	require.NoError(t, err)
	require.False(t, out.Dirty())
}

func TestEncodeChangedValueMarksDirty(t *testing.T) {
	order := binary.BigEndian
	tree := buildTree(t, order)

	m := Decode(tree, order, nil)
	key := metadata.Key{Family: metadata.Exif, Group: "IFD0", Tag: "Compression"}
	v, _ := m.Get(key)
	v.Raw = []int64{1, 2, 3} // grows from 1 value to 3: no longer fits the old inline slot
	m.Set(key, v)

	out, err := Encode(tree, order, m)
	require.NoError(t, err)
	require.True(t, out.Dirty())

	entry := out.Find(tiff.TagCompression)
	require.NotNil(t, entry)
	require.EqualValues(t, 3, entry.Value.Count)
}

func TestEncodeDeletedKeyRemovesEntry(t *testing.T) {
	order := binary.BigEndian
	tree := buildTree(t, order)

	m := Decode(tree, order, nil)
	m.Delete(metadata.Key{Family: metadata.Exif, Group: "IFD0", Tag: "Compression"})

	out, err := Encode(tree, order, m)
	require.NoError(t, err)
	require.Nil(t, out.Find(tiff.TagCompression))
}
