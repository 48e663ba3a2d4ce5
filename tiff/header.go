package tiff

import "encoding/binary"

// DetectHeader reads the 8-byte TIFF header at the start of buf (byte-order
// mark, magic 42, first IFD offset) and reports whether it is well-formed.
// Grounded on the same three-field layout every TIFF-derived container uses:
// a bare .tif file, an Exif APP1 payload (see package jpegseg), or a
// Makernote's own embedded mini-header.
func DetectHeader(buf []byte) (order binary.ByteOrder, ifdPos uint32, ok bool) {
	if len(buf) < 8 {
		return nil, 0, false
	}
	switch {
	case buf[0] == 'I' && buf[1] == 'I':
		order = binary.LittleEndian
	case buf[0] == 'M' && buf[1] == 'M':
		order = binary.BigEndian
	default:
		return nil, 0, false
	}
	if order.Uint16(buf[2:4]) != 42 {
		return nil, 0, false
	}
	ifdPos = order.Uint32(buf[4:8])
	if ifdPos == 0 {
		return nil, 0, false
	}
	return order, ifdPos, true
}
