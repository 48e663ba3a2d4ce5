package tiff

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/obklar/exiv2/tiff/diag"
)

// TestReadCapsExcessiveEntryCount covers spec.md §8 scenario 3: a directory
// claiming far more entries than any real file would (here the
// pathological 0xFFFF), which must be capped at maxEntries rather than
// attempted verbatim.
func TestReadCapsExcessiveEntryCount(t *testing.T) {
	order := binary.BigEndian
	buf := make([]byte, 2+maxEntries*12+4)
	PutShort(buf, 0, order, 0xFFFF)

	collector := &diag.Collector{}
	d, err := Read(buf, order, 0, collector)
	require.NoError(t, err)
	require.NotNil(t, d)
	require.NotEmpty(t, collector.Events)
	require.Contains(t, collector.Events[0].Err.Error(), "capping")
}

// TestReadRejectsOffsetOutsideBuffer covers spec.md §8 scenario 4: an entry
// whose out-of-line value offset points past the end of the buffer must be
// elided (warned, not fatal), leaving the rest of the directory intact.
func TestReadRejectsOffsetOutsideBuffer(t *testing.T) {
	order := binary.BigEndian
	buf := make([]byte, 2+12+4)
	PutShort(buf, 0, order, 1)
	epos := uint32(2)
	PutShort(buf, epos, order, uint16(TagImageWidth))
	PutShort(buf, epos+2, order, uint16(Long))
	PutLong(buf, epos+4, order, 2)
	PutLong(buf, epos+8, order, uint32(len(buf))+1000)

	collector := &diag.Collector{}
	d, err := Read(buf, order, 0, collector)
	require.NoError(t, err)
	require.Nil(t, d.Find(TagImageWidth))
	require.NotEmpty(t, collector.Events)
	require.Contains(t, collector.Events[0].Err.Error(), "outside buffer")
}

// TestReadTruncatesValueAtBufferEnd confirms a value whose declared size
// runs past the buffer end is read as far as possible (and flagged
// IsAllocated, since the truncated bytes had to be copied) rather than
// rejected outright — the milder sibling of scenario 4's hard
// out-of-range case.
func TestReadTruncatesValueAtBufferEnd(t *testing.T) {
	order := binary.BigEndian
	buf := make([]byte, 2+12+4+2)
	PutShort(buf, 0, order, 1)
	epos := uint32(2)
	PutShort(buf, epos, order, uint16(TagStripOffsets))
	PutShort(buf, epos+2, order, uint16(Short))
	PutLong(buf, epos+4, order, 4)
	valueOffset := uint32(len(buf) - 2)
	PutLong(buf, epos+8, order, valueOffset)

	collector := &diag.Collector{}
	d, err := Read(buf, order, 0, collector)
	require.NoError(t, err)
	e := d.Find(TagStripOffsets)
	require.NotNil(t, e)
	require.True(t, e.Value.IsAllocated)
	require.Less(t, e.Value.Count, uint32(4))
}

// TestReadKeepsDuplicateTags covers spec.md §3 invariant 3: a directory
// with the same tag twice keeps both entries in the tree (only
// exif.Decode's SetIfAbsent enforces "first wins", not the reader).
func TestReadKeepsDuplicateTags(t *testing.T) {
	order := binary.BigEndian
	buf := make([]byte, 2+2*12+4)
	PutShort(buf, 0, order, 2)
	for i, val := range []uint16{10, 20} {
		epos := uint32(2) + uint32(i)*12
		PutShort(buf, epos, order, uint16(TagImageWidth))
		PutShort(buf, epos+2, order, uint16(Short))
		PutLong(buf, epos+4, order, 1)
		PutShort(buf, epos+8, order, val)
	}

	d, err := Read(buf, order, 0, nil)
	require.NoError(t, err)
	var count int
	for _, e := range d.Entries {
		if e.Tag == TagImageWidth {
			count++
		}
	}
	require.Equal(t, 2, count)
}
