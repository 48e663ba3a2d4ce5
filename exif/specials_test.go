package exif

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/obklar/exiv2/metadata"
	"github.com/obklar/exiv2/tiff"
	"github.com/obklar/exiv2/tiff/makernote"
)

// TestDecodeOlympusThumbnail confirms a raw Olympus Makernote thumbnail
// blob decodes to the synthetic Exif.IFD1.{Compression,
// JPEGInterchangeFormat, JPEGInterchangeFormatLength} trio, per spec.md
// §4.6(a).
func TestDecodeOlympusThumbnail(t *testing.T) {
	order := binary.BigEndian
	root := tiff.NewDirectory(makernote.GroupOlympus, order)
	blob := []byte{0xFF, 0xD8, 0xFF, 0xD9, 0x00, 0x01}
	require.NoError(t, root.AddChild(&tiff.Entry{
		Tag:   0x0100,
		Group: makernote.GroupOlympus,
		Value: tiff.NewBytes(tiff.Undefined, blob),
	}))

	m := Decode(root, order, nil)

	v, ok := m.Get(metadata.Key{Family: metadata.Exif, Group: "IFD1", Tag: "Compression"})
	require.True(t, ok)
	require.Equal(t, "6", v.Text)

	v, ok = m.Get(metadata.Key{Family: metadata.Exif, Group: "IFD1", Tag: "JPEGInterchangeFormat"})
	require.True(t, ok)
	require.Equal(t, "0", v.Text)

	v, ok = m.Get(metadata.Key{Family: metadata.Exif, Group: "IFD1", Tag: "JPEGInterchangeFormatLength"})
	require.True(t, ok)
	require.Equal(t, "6", v.Text)
}

// TestDecodeSubIFDPrimaryPreviewSwap confirms that when IFD0 is flagged
// reduced-resolution (NewSubfileType bit 0 set) but IFD1 is not, IFD1's
// fields surface under the IFD0 key instead, per spec.md §4.6(c).
func TestDecodeSubIFDPrimaryPreviewSwap(t *testing.T) {
	order := binary.BigEndian
	ifd0 := tiff.NewDirectory(tiff.GroupIFD0, order)
	require.NoError(t, ifd0.AddChild(&tiff.Entry{
		Tag:   tiff.TagNewSubfileType,
		Value: &tiff.Value{Type: tiff.Long, Count: 1, Data: []byte{0, 0, 0, 1}},
	}))
	ifd1 := tiff.NewDirectory(tiff.GroupThumbnail, order)
	require.NoError(t, ifd1.AddChild(&tiff.Entry{
		Tag:   tiff.TagNewSubfileType,
		Value: &tiff.Value{Type: tiff.Long, Count: 1, Data: []byte{0, 0, 0, 0}},
	}))
	require.NoError(t, ifd1.AddChild(&tiff.Entry{
		Tag:   tiff.TagImageWidth,
		Value: &tiff.Value{Type: tiff.Short, Count: 1, Data: []byte{0x10, 0x00}},
	}))
	ifd0.Next = ifd1

	m := Decode(ifd0, order, nil)

	_, ok := m.Get(metadata.Key{Family: metadata.Exif, Group: "IFD1", Tag: "ImageWidth"})
	require.False(t, ok, "IFD1's primary-image field should be re-keyed under IFD0")

	v, ok := m.Get(metadata.Key{Family: metadata.Exif, Group: "IFD0", Tag: "ImageWidth"})
	require.True(t, ok)
	require.Equal(t, "4096", v.Text)
}

// TestDecodeCanonCameraSettingsArray builds a full IFD0/Exif/Makernote byte
// layout by hand (Make="Canon" so tiff.Read's Makernote identification
// falls back to the make-string dispatch, with no vendor label to skip) and
// confirms the CameraSettings field (tag 0x0001) comes out of the reader as
// KindArray with named CanonCs.* elements rather than one opaque array,
// per spec.md §3's array-entry mechanism.
func TestDecodeCanonCameraSettingsArray(t *testing.T) {
	order := binary.BigEndian
	buf := make([]byte, 106)

	// IFD0 at 0: Make (ASCII, out-of-line at 30), ExifIFD (LONG, inline).
	tiff.PutShort(buf, 0, order, 2)
	tiff.PutShort(buf, 2, order, uint16(tiff.TagMake))
	tiff.PutShort(buf, 4, order, uint16(tiff.ASCII))
	tiff.PutLong(buf, 6, order, 6)
	tiff.PutLong(buf, 10, order, 30)
	tiff.PutShort(buf, 14, order, uint16(tiff.TagExifIFD))
	tiff.PutShort(buf, 16, order, uint16(tiff.Long))
	tiff.PutLong(buf, 18, order, 1)
	tiff.PutLong(buf, 22, order, 36)
	tiff.PutLong(buf, 26, order, 0) // IFD0's Next pointer
	copy(buf[30:36], "Canon\x00")

	// Exif SubIFD at 36: Makernote (UNDEFINED, out-of-line at 50).
	tiff.PutShort(buf, 36, order, 1)
	tiff.PutShort(buf, 38, order, uint16(tiff.TagMakernote))
	tiff.PutShort(buf, 40, order, uint16(tiff.Undefined))
	tiff.PutLong(buf, 42, order, 56)
	tiff.PutLong(buf, 46, order, 50)

	// Canon Makernote IFD at 50, no label/header (Make-string fallback):
	// CameraSettings (SHORT x21, out-of-line at 64).
	tiff.PutShort(buf, 50, order, 1)
	tiff.PutShort(buf, 52, order, 1) // tag 0x0001
	tiff.PutShort(buf, 54, order, uint16(tiff.Short))
	tiff.PutLong(buf, 56, order, 21)
	tiff.PutLong(buf, 60, order, 64)

	raw := make([]uint16, 21)
	raw[makernote.TagCsMacroMode] = 2
	raw[makernote.TagCsQuality] = 3
	for i, n := range raw {
		tiff.PutShort(buf, 64+uint32(i)*2, order, n)
	}

	tree, err := tiff.Read(buf, order, 0, nil)
	require.NoError(t, err)

	exifEntry := tree.Find(tiff.TagExifIFD)
	require.NotNil(t, exifEntry)
	require.Len(t, exifEntry.Children, 1)
	mkEntry := exifEntry.Children[0].Find(tiff.TagMakernote)
	require.NotNil(t, mkEntry)
	require.Len(t, mkEntry.Children, 1)

	csEntry := mkEntry.Children[0].Find(0x0001)
	require.NotNil(t, csEntry)
	require.Equal(t, tiff.KindArray, csEntry.Kind)
	require.NotEmpty(t, csEntry.Elements)

	m := Decode(tree, order, nil)
	v, ok := m.Get(metadata.Key{Family: metadata.Exif, Group: "CanonCs", Tag: "MacroMode"})
	require.True(t, ok)
	require.Equal(t, "2", v.Text)

	v, ok = m.Get(metadata.Key{Family: metadata.Exif, Group: "CanonCs", Tag: "Quality"})
	require.True(t, ok)
	require.Equal(t, "3", v.Text)
}
