package makernote

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/obklar/exiv2/tiff"
)

func TestIdentifyNikon1(t *testing.T) {
	buf := append(append([]byte{}, nikon1Label...), make([]byte, 32)...)
	hdr, ok := Identify("NIKON CORPORATION", "D70", buf, 0, binary.BigEndian)
	require.True(t, ok)
	require.Equal(t, GroupNikon1, hdr.Group)
	require.EqualValues(t, len(nikon1Label), hdr.IFDOffset)
}

func TestIdentifyCanonFallback(t *testing.T) {
	buf := make([]byte, 32)
	hdr, ok := Identify("Canon", "EOS 5D", buf, 0, binary.BigEndian)
	require.True(t, ok)
	require.Equal(t, GroupCanon, hdr.Group)
	require.EqualValues(t, 0, hdr.IFDOffset)
}

func TestIdentifyUnknownVendor(t *testing.T) {
	buf := make([]byte, 32)
	_, ok := Identify("Acme", "Widget 1", buf, 0, binary.BigEndian)
	require.False(t, ok)
}

// TestIdentifyNikon2SwitchesByteOrder covers spec.md §8 scenario 5: a
// Nikon2 Makernote embeds a miniature TIFF header of its own, which can
// declare a byte order different from the enclosing file's. Identify must
// honor the embedded header's order, not the outer one, and resolve the
// vendor IFD's offset relative to the embedded header's own base rather
// than the file's.
func TestIdentifyNikon2SwitchesByteOrder(t *testing.T) {
	buf := make([]byte, 18)
	copy(buf, nikon2Prefix) // "Nikon\x00", 6 bytes
	// 2 version bytes at [6:8] left zero.
	base := uint32(10)
	buf[base], buf[base+1] = 'I', 'I' // embedded header little-endian
	tiff.PutShort(buf, base+2, binary.LittleEndian, 0x002A)
	tiff.PutLong(buf, base+4, binary.LittleEndian, 8)

	hdr, ok := Identify("NIKON CORPORATION", "D70", buf, 0, binary.BigEndian)
	require.True(t, ok)
	require.Equal(t, GroupNikon2, hdr.Group)
	require.Equal(t, binary.LittleEndian, hdr.Order)
	require.EqualValues(t, base, hdr.BaseOffset)
	require.EqualValues(t, base+8, hdr.IFDOffset)
}
