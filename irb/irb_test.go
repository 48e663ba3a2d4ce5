package irb

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func appendDataset(block []byte, record, dataset byte, value string) []byte {
	block = append(block, 0x1C, record, dataset)
	var length [2]byte
	binary.BigEndian.PutUint16(length[:], uint16(len(value)))
	block = append(block, length[:]...)
	return append(block, []byte(value)...)
}

func buildPSIR(resID uint16, block []byte) []byte {
	var buf []byte
	buf = append(buf, []byte("8BIM")...)
	var id [2]byte
	binary.BigEndian.PutUint16(id[:], resID)
	buf = append(buf, id[:]...)
	buf = append(buf, 0) // empty Pascal name, padded below
	buf = append(buf, 0) // pad byte: nameLen(0)+1 is odd, so one pad byte
	var size [4]byte
	binary.BigEndian.PutUint32(size[:], uint32(len(block)))
	buf = append(buf, size[:]...)
	buf = append(buf, block...)
	if len(block)%2 != 0 {
		buf = append(buf, 0)
	}
	return buf
}

func TestIPTCFromPSIR(t *testing.T) {
	var block []byte
	block = appendDataset(block, 2, 5, "Sunset over the bay")
	block = appendDataset(block, 2, 80, "Jane Doe")
	psir := buildPSIR(iptcResourceID, block)

	recs, err := IPTCFromPSIR(psir)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	require.Equal(t, "ObjectName", recs[0].Name)
	require.Equal(t, "Sunset over the bay", recs[0].Text)
	require.Equal(t, "By-line", recs[1].Name)
	require.Equal(t, "Jane Doe", recs[1].Text)
}

func TestIPTCFromPSIRSkipsOtherResources(t *testing.T) {
	var thumb []byte
	thumb = append(thumb, 0, 0, 0, 1)
	psir := buildPSIR(0x040C, thumb) // thumbnail resource, not IPTC

	_, err := IPTCFromPSIR(psir)
	require.Error(t, err)
}

func TestIPTCFromPSIRUnknownDataset(t *testing.T) {
	var block []byte
	block = appendDataset(block, 2, 199, "unlisted field")
	psir := buildPSIR(iptcResourceID, block)

	recs, err := IPTCFromPSIR(psir)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Equal(t, "2:199", recs[0].Name)
}

func TestIPTCFromPSIRRejectsGarbage(t *testing.T) {
	_, err := IPTCFromPSIR([]byte("not a resource block"))
	require.Error(t, err)
}
