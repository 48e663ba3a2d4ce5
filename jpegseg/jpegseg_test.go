package jpegseg

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func appendSegment(buf []byte, marker byte, payload []byte) []byte {
	buf = append(buf, 0xFF, marker)
	length := len(payload) + 2
	buf = append(buf, byte(length>>8), byte(length))
	return append(buf, payload...)
}

func TestScanFindsExifAndXMP(t *testing.T) {
	exifPayload := append(append([]byte{}, exifSig...), []byte("II\x2A\x00\x08\x00\x00\x00")...)
	xmpPayload := append(append([]byte{}, xmpSig...), []byte("<x:xmpmeta/>")...)

	var buf []byte
	buf = append(buf, 0xFF, markerSOI)
	buf = appendSegment(buf, markerAPP0, []byte("JFIF\x00\x01\x01\x00\x00\x01\x00\x01\x00\x00"))
	buf = appendSegment(buf, markerAPP1, exifPayload)
	buf = appendSegment(buf, markerAPP1, xmpPayload)
	buf = append(buf, 0xFF, markerSOS, 0, 0)

	segs, err := Scan(buf)
	require.NoError(t, err)
	require.Len(t, segs, 2)

	require.NotNil(t, ExifPayload(segs))
	require.Equal(t, []byte("II\x2A\x00\x08\x00\x00\x00"), ExifPayload(segs))
	require.Equal(t, []byte("<x:xmpmeta/>"), XMPPayload(segs))
}

func TestScanRejectsNonJPEG(t *testing.T) {
	_, err := Scan([]byte("not a jpeg"))
	require.Error(t, err)
}

func TestScanStopsAtSOS(t *testing.T) {
	buf := []byte{0xFF, markerSOI, 0xFF, markerSOS, 0, 0, 0xFF, markerAPP1, 0, 4, 'x', 'x'}
	segs, err := Scan(buf)
	require.NoError(t, err)
	require.Empty(t, segs)
}
