// Package irb navigates Photoshop Image Resource Blocks just far enough to
// pull the IPTC-NAA legacy metadata resource out of one, the one PSIR
// service the TIFF decoder needs (spec.md §4.6(b)). General-purpose IRB
// navigation (thumbnails, color profiles, slices, every other resource ID
// Photoshop defines) is out of scope, per spec.md §1.
package irb

import (
	"encoding/binary"
	"fmt"

	"github.com/pkg/errors"
)

// iptcResourceID is the Image Resource Block id Photoshop assigns the
// legacy IPTC-NAA record set.
const iptcResourceID = 0x0404

// Record is one decoded IPTC dataset.
type Record struct {
	Name string
	Text string
	Raw  []byte
}

// datasetNames covers the IPTC Application Record (record 2) datasets that
// actually show up in camera/editor-written files; anything else is named
// by its raw "record:dataset" pair.
var datasetNames = map[uint16]string{
	2<<8 | 5:   "ObjectName",
	2<<8 | 25:  "Keywords",
	2<<8 | 80:  "By-line",
	2<<8 | 85:  "By-lineTitle",
	2<<8 | 90:  "City",
	2<<8 | 101: "Country-PrimaryLocationName",
	2<<8 | 105: "Headline",
	2<<8 | 110: "Credit",
	2<<8 | 120: "Caption-Abstract",
}

// IPTCFromPSIR scans data, a Photoshop Image Resource Block sequence (the
// raw bytes of TIFF/Exif tag 0x8649), for the IPTC-NAA resource and decodes
// its dataset records. It returns an error only if no IPTC resource is
// present at all; a malformed dataset ends the dataset scan without an
// error, and the records decoded before it are returned.
func IPTCFromPSIR(data []byte) ([]Record, error) {
	pos := 0
	for pos+4 <= len(data) {
		if string(data[pos:pos+4]) != "8BIM" {
			// Not resource-block-shaped data at all; give up rather than
			// scanning byte by byte for a stray signature.
			return nil, errors.New("irb: not an 8BIM resource block")
		}
		pos += 4
		if pos+2 > len(data) {
			break
		}
		resID := binary.BigEndian.Uint16(data[pos : pos+2])
		pos += 2

		if pos >= len(data) {
			break
		}
		nameLen := int(data[pos])
		pos++
		pos += nameLen
		if (nameLen+1)%2 != 0 {
			pos++ // pascal string + length byte pads to an even total
		}
		if pos+4 > len(data) {
			break
		}
		size := int(binary.BigEndian.Uint32(data[pos : pos+4]))
		pos += 4
		if size < 0 || pos+size > len(data) {
			break
		}
		block := data[pos : pos+size]
		pos += size
		if size%2 != 0 {
			pos++
		}

		if resID == iptcResourceID {
			return parseDatasets(block), nil
		}
	}
	return nil, errors.New("irb: no IPTC-NAA resource found")
}

// parseDatasets decodes the IPTC "tagged" record format: each dataset is a
// 0x1C marker, a record number, a dataset number, a 2-byte length, then the
// value. A missing marker or a length that runs past the block ends the
// scan; the records decoded up to that point are returned.
func parseDatasets(block []byte) []Record {
	var recs []Record
	pos := 0
	for pos+5 <= len(block) {
		if block[pos] != 0x1C {
			break
		}
		record := uint16(block[pos+1])
		dataset := uint16(block[pos+2])
		length := int(binary.BigEndian.Uint16(block[pos+3 : pos+5]))
		pos += 5
		if length < 0 || pos+length > len(block) {
			break
		}
		val := block[pos : pos+length]
		pos += length

		key := record<<8 | dataset
		name, ok := datasetNames[key]
		if !ok {
			name = fmt.Sprintf("%d:%d", record, dataset)
		}
		recs = append(recs, Record{Name: name, Text: string(val), Raw: append([]byte(nil), val...)})
	}
	return recs
}
