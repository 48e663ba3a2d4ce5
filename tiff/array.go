package tiff

import "encoding/binary"

// ArrayDecomposer splits a KindArray entry's raw Value into the scalar
// Elements Walk exposes individually, given the byte order the enclosing
// directory was read with. Registered per (group, tag) by a vendor package
// (tiff/makernote) that knows a particular Makernote field is really a
// fixed-size-element array rather than one opaque blob — Canon's
// CameraSettings is the motivating case.
type ArrayDecomposer func(v *Value, order binary.ByteOrder) []*Entry

var arrayDecomposers = map[Key]ArrayDecomposer{}

// RegisterArrayDecomposer declares that the field at (group, tag) should be
// read as KindArray, with fn producing its Elements. Like RegisterGroupName
// and AddGroup, this is how a vendor package reaches into the reader's
// per-entry classification without tiff itself knowing any vendor's field
// layout.
func RegisterArrayDecomposer(group Group, tag Tag, fn ArrayDecomposer) {
	arrayDecomposers[Key{Group: group, Tag: tag}] = fn
}
