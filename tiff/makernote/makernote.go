// Package makernote identifies and describes vendor-specific Exif Makernote
// blobs: which camera maker wrote them, what byte order and offset base
// their private IFD uses, and where that IFD actually starts once a
// vendor's label prefix (if any) is skipped. It registers itself as the
// tiff package's tiff.MakernoteFactory hook at init time, the same
// dependency-inversion idiom the teacher's SpaceRec factory played within
// one package — split across two packages here so tiff's core stays free
// of any vendor-specific knowledge.
package makernote

import (
	"bytes"
	"encoding/binary"

	"github.com/obklar/exiv2/tiff"
)

// Vendor groups, allocated from tiff.GroupMakernoteBase so they never
// collide with the fixed TIFF/Exif groups.
const (
	GroupNikon1 tiff.Group = tiff.GroupMakernoteBase + iota
	GroupNikon2
	GroupNikon2Preview
	GroupCanon
	GroupOlympus
	GroupPanasonic
	GroupSony
	GroupFujifilm
	GroupApple
)

func init() {
	for g, name := range map[tiff.Group]string{
		GroupNikon1: "Nikon1", GroupNikon2: "Nikon2", GroupNikon2Preview: "Nikon2Preview",
		GroupCanon: "Canon", GroupOlympus: "Olympus", GroupPanasonic: "Panasonic",
		GroupSony: "Sony", GroupFujifilm: "Fujifilm", GroupApple: "Apple",
	} {
		tiff.RegisterGroupName(g, name)
		tiff.AddGroup(g, tiff.GroupExif, tiff.TagMakernote, false, true)
	}
	// Nikon2's preview IFD nests under Nikon2 itself via a vendor-private
	// pointer tag, exactly like an ordinary SubIFD.
	tiff.AddGroup(GroupNikon2Preview, GroupNikon2, nikon2PreviewIFDTag, false, false)

	tiff.MakernoteFactory = Identify
}

const nikon2PreviewIFDTag tiff.Tag = 0x11

var (
	nikon1Label    = []byte("Nikon\x00\x01\x00")
	nikon2Prefix   = []byte("Nikon\x00")
	panasonicLabel = []byte("Panasonic\x00\x00\x00")
	fujifilmLabel  = []byte("FUJIFILM")
	olympusLabels  = [][]byte{
		[]byte("OLYMP\x00"),
		[]byte("OLYMPUS\x00II"),
		[]byte("SONY PI\x00"),
		[]byte("PREMI\x00"),
		[]byte("CAMER\x00"),
	}
	sonyLabels = [][]byte{
		[]byte("SONY DSC \x00\x00\x00"),
		[]byte("SONY CAM \x00\x00\x00"),
		[]byte("SONY MOBILE\x00"),
	}
)

// Identify is registered as tiff.MakernoteFactory: given the enclosing
// file's Make/Model strings and the byte position of the Makernote entry's
// value, it determines which vendor dialect is present (if any) and how to
// read it.
func Identify(make, model string, buf []byte, pos uint32, outerOrder binary.ByteOrder) (tiff.MakernoteHeader, bool) {
	rest := safeSlice(buf, pos)

	switch {
	case bytes.HasPrefix(rest, nikon1Label):
		// "Nikon\0\1\0" followed directly by an IFD, no embedded TIFF
		// header, offsets relative to the start of the IFD itself (i.e.
		// pos+8), not to the file's own base.
		return tiff.MakernoteHeader{Order: outerOrder, IFDOffset: pos + 8, BaseOffset: pos + 8, Group: GroupNikon1}, true

	case bytes.HasPrefix(rest, nikon2Prefix):
		// "Nikon\0" + 2 version bytes + 2 reserved bytes + an embedded TIFF
		// header ("II"/"MM" + 0x002A + ifd offset) at pos+10, with the IFD
		// offset relative to pos+10.
		if len(rest) >= 18 {
			base := pos + 10
			if order, ok := detectByteOrder(buf, base); ok {
				ifdOff, err := tiff.ReadLong(buf, base+4, order)
				if err == nil {
					return tiff.MakernoteHeader{Order: order, IFDOffset: base + ifdOff, BaseOffset: base, Group: GroupNikon2}, true
				}
			}
		}
		return tiff.MakernoteHeader{}, false

	case bytes.HasPrefix(rest, panasonicLabel):
		// Label only, no embedded header, no Next pointer (callers must
		// not expect d.Next on this group); IFD starts right after the
		// label, offsets relative to the Makernote's own start (pos).
		return tiff.MakernoteHeader{Order: outerOrder, IFDOffset: pos + 12, BaseOffset: pos, Group: GroupPanasonic}, true

	case bytes.HasPrefix(rest, fujifilmLabel):
		// Fujifilm always little-endian regardless of the outer file,
		// label is 8 bytes, then a 4-byte IFD offset relative to pos.
		if len(rest) >= 12 {
			off, err := tiff.ReadLong(buf, pos+8, binary.LittleEndian)
			if err == nil {
				return tiff.MakernoteHeader{Order: binary.LittleEndian, IFDOffset: pos + off, BaseOffset: pos, Group: GroupFujifilm}, true
			}
		}
		return tiff.MakernoteHeader{}, false
	}

	for _, label := range olympusLabels {
		if bytes.HasPrefix(rest, label) {
			return tiff.MakernoteHeader{Order: outerOrder, IFDOffset: pos + uint32(len(label)), BaseOffset: pos, Group: GroupOlympus}, true
		}
	}
	for _, label := range sonyLabels {
		if bytes.HasPrefix(rest, label) {
			return tiff.MakernoteHeader{Order: outerOrder, IFDOffset: pos + uint32(len(label)), BaseOffset: pos, Group: GroupSony}, true
		}
	}

	// No label: dispatch on the file's own Make string, matching the
	// teacher's make-string fallback for vendors (Canon, and some Apple
	// firmwares) that write no internal signature at all.
	switch {
	case containsFold(make, "canon"):
		return tiff.MakernoteHeader{Order: outerOrder, IFDOffset: pos, BaseOffset: 0, Group: GroupCanon}, true
	case containsFold(make, "apple"):
		return tiff.MakernoteHeader{Order: binary.BigEndian, IFDOffset: pos, BaseOffset: pos, Group: GroupApple}, true
	}

	return tiff.MakernoteHeader{}, false
}

// detectByteOrder reads the 2-byte "II"/"MM" marker at pos and confirms the
// following magic number 0x002A, the same sanity check the main TIFF header
// parser performs, since a Nikon2 Makernote embeds a miniature TIFF header
// of its own.
func detectByteOrder(buf []byte, pos uint32) (binary.ByteOrder, bool) {
	if int(pos)+4 > len(buf) {
		return nil, false
	}
	var order binary.ByteOrder
	switch {
	case buf[pos] == 'I' && buf[pos+1] == 'I':
		order = binary.LittleEndian
	case buf[pos] == 'M' && buf[pos+1] == 'M':
		order = binary.BigEndian
	default:
		return nil, false
	}
	magic, err := tiff.ReadShort(buf, pos+2, order)
	if err != nil || magic != 0x002A {
		return nil, false
	}
	return order, true
}

func safeSlice(buf []byte, pos uint32) []byte {
	if int(pos) > len(buf) {
		return nil
	}
	return buf[pos:]
}

func containsFold(s, substr string) bool {
	return bytes.Contains(bytes.ToLower([]byte(s)), bytes.ToLower([]byte(substr)))
}
