// Package metadata defines the flat key-value view of a TIFF/Exif tree that
// exif.Decode produces and exif.Encode consumes: the surface a caller
// actually edits, decoupled from the composite tree's byte-level layout.
package metadata

import "fmt"

// Family distinguishes the three metadata namespaces a JPEG file can carry
// side by side: Exif (TIFF-structured), IPTC (legacy Photoshop resource
// blocks), and XMP (an embedded RDF/XML packet). Only Exif is backed by
// package tiff's composite tree; IPTC and XMP values are decoded to text
// by exif.Decode (through irb and xmp) and are not written back by
// exif.Encode.
type Family int

const (
	Exif Family = iota
	IPTC
	XMP
)

func (f Family) String() string {
	switch f {
	case Exif:
		return "Exif"
	case IPTC:
		return "Iptc"
	case XMP:
		return "Xmp"
	}
	return "Unknown"
}

// Key identifies one piece of metadata: a family, the group name within
// that family (e.g. "IFD0", "Exif", "GPS", "Nikon2"), and a tag name.
// Using names rather than the numeric (group, tag) pair tiff.Key carries
// keeps the metadata.Map surface stable across the vendor-specific group
// ids tiff/makernote allocates at init time.
type Key struct {
	Family Family
	Group  string
	Tag    string
}

func (k Key) String() string {
	return fmt.Sprintf("%s.%s.%s", k.Family, k.Group, k.Tag)
}

// Value is one decoded datum: a human/programmatic-readable form (Text) plus
// the raw typed payload (Raw) an encoder needs to reconstruct the original
// field without lossy round-tripping through a string.
type Value struct {
	Text string
	Raw  interface{}
}

// Map is the flat key-value surface a caller reads and mutates. It
// preserves insertion order for Keys() so printing and golden-file tests
// are deterministic, which a plain map[Key]Value is not.
type Map struct {
	values map[Key]Value
	order  []Key
}

func NewMap() *Map {
	return &Map{values: map[Key]Value{}}
}

func (m *Map) Get(k Key) (Value, bool) {
	v, ok := m.values[k]
	return v, ok
}

func (m *Map) Set(k Key, v Value) {
	if _, exists := m.values[k]; !exists {
		m.order = append(m.order, k)
	}
	m.values[k] = v
}

// SetIfAbsent is the "first wins" insert exif.Decode uses for duplicate
// tags: later writers must not clobber an already-decoded value.
func (m *Map) SetIfAbsent(k Key, v Value) bool {
	if _, exists := m.values[k]; exists {
		return false
	}
	m.Set(k, v)
	return true
}

func (m *Map) Delete(k Key) {
	if _, ok := m.values[k]; !ok {
		return
	}
	delete(m.values, k)
	for i, o := range m.order {
		if o == k {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

func (m *Map) Keys() []Key {
	return append([]Key(nil), m.order...)
}

func (m *Map) Len() int {
	return len(m.order)
}
