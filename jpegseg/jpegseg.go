// Package jpegseg finds the Exif and XMP payloads embedded in a JPEG file's
// APPn segments, handing package tiff a raw TIFF-structured byte slice (its
// byte order is left to tiff.DetectHeader). It understands just enough of the
// JPEG marker stream to walk segments; it is not a JPEG decoder.
package jpegseg

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

const (
	markerSOI  = 0xD8
	markerEOI  = 0xD9
	markerSOS  = 0xDA
	markerAPP0 = 0xE0
	markerAPP1 = 0xE1
)

var (
	exifSig = []byte("Exif\x00\x00")
	xmpSig  = []byte("http://ns.adobe.com/xap/1.0/\x00")
)

// Segment is one APPn payload of interest found in the file.
type Segment struct {
	Marker byte
	// Data excludes the 2-byte length field and, for Exif/XMP segments,
	// the signature that identified them.
	Data []byte
}

// Scan walks buf's JPEG marker stream and returns every Exif and XMP APP1
// segment found, in file order. It returns an error only if buf doesn't
// open with a JPEG SOI marker; a segment with a malformed length ends the
// scan, and the segments found before it are returned.
func Scan(buf []byte) ([]Segment, error) {
	if len(buf) < 2 || buf[0] != 0xFF || buf[1] != markerSOI {
		return nil, errors.New("jpegseg: not a JPEG file (missing SOI)")
	}
	var segs []Segment
	pos := 2
	for pos+4 <= len(buf) {
		if buf[pos] != 0xFF {
			pos++
			continue
		}
		marker := buf[pos+1]
		pos += 2
		if marker == markerSOS || marker == markerEOI {
			break // entropy-coded data follows; nothing we care about is past here
		}
		if marker == 0x01 || (marker >= 0xD0 && marker <= 0xD7) {
			continue // markers with no length field
		}
		if pos+2 > len(buf) {
			break
		}
		length := int(binary.BigEndian.Uint16(buf[pos : pos+2]))
		if length < 2 || pos+length > len(buf) {
			break
		}
		payload := buf[pos+2 : pos+length]
		pos += length

		if marker != markerAPP1 {
			continue
		}
		if hasPrefix(payload, exifSig) {
			segs = append(segs, Segment{Marker: marker, Data: payload[len(exifSig):]})
		} else if hasPrefix(payload, xmpSig) {
			segs = append(segs, Segment{Marker: marker, Data: payload[len(xmpSig):]})
		}
	}
	return segs, nil
}

// ExifPayload returns the first Exif APP1 segment's TIFF-structured bytes,
// or nil if none was found.
func ExifPayload(segs []Segment) []byte {
	for _, s := range segs {
		if hasTIFFHeader(s.Data) {
			return s.Data
		}
	}
	return nil
}

// XMPPayload returns the first non-TIFF-shaped APP1 payload, i.e. the XMP
// packet, or nil if none was found.
func XMPPayload(segs []Segment) []byte {
	for _, s := range segs {
		if !hasTIFFHeader(s.Data) {
			return s.Data
		}
	}
	return nil
}

func hasTIFFHeader(data []byte) bool {
	return len(data) >= 4 && ((data[0] == 'I' && data[1] == 'I') || (data[0] == 'M' && data[1] == 'M'))
}

func hasPrefix(data, prefix []byte) bool {
	if len(data) < len(prefix) {
		return false
	}
	for i := range prefix {
		if data[i] != prefix[i] {
			return false
		}
	}
	return true
}
