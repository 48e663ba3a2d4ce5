// Package tiff implements the TIFF/Exif composite metadata tree: reading a
// byte-oriented IFD structure into an in-memory tree, and writing a tree back
// out to bytes. It knows nothing about JPEG, PNG or any other container
// format; callers hand it a raw TIFF-structured byte slice (see package
// jpegseg for one way to find one) and get a *Directory back.
package tiff

import "fmt"

// Type is a TIFF field data type, as defined by the TIFF 6.0 specification
// and extended by Exif for IFD and SSHORT.
type Type uint16

const (
	Byte      Type = 1
	ASCII     Type = 2
	Short     Type = 3
	Long      Type = 4
	Rational  Type = 5
	SByte     Type = 6
	Undefined Type = 7
	SShort    Type = 8
	SLong     Type = 9
	SRational Type = 10
	Float     Type = 11
	Double    Type = 12
	IFDType   Type = 13
)

var typeNames = map[Type]string{
	Byte:      "BYTE",
	ASCII:     "ASCII",
	Short:     "SHORT",
	Long:      "LONG",
	Rational:  "RATIONAL",
	SByte:     "SBYTE",
	Undefined: "UNDEFINED",
	SShort:    "SSHORT",
	SLong:     "SLONG",
	SRational: "SRATIONAL",
	Float:     "FLOAT",
	Double:    "DOUBLE",
	IFDType:   "IFD",
}

var typeSizes = map[Type]uint32{
	Byte:      1,
	ASCII:     1,
	Short:     2,
	Long:      4,
	Rational:  8,
	SByte:     1,
	Undefined: 1,
	SShort:    2,
	SLong:     4,
	SRational: 8,
	Float:     4,
	Double:    8,
	IFDType:   4,
}

// Name returns the type's TIFF name, or "" if t is not a recognized type.
func (t Type) Name() string {
	return typeNames[t]
}

// Size returns the type's size in bytes, or 0 if t is not a recognized type.
// A zero Size is the reader's primary signal that a field's type is bogus.
func (t Type) Size() uint32 {
	return typeSizes[t]
}

func (t Type) IsIntegral() bool {
	switch t {
	case Byte, Short, Long, SByte, SShort, SLong, IFDType:
		return true
	}
	return false
}

func (t Type) IsRational() bool {
	return t == Rational || t == SRational
}

func (t Type) IsFloat() bool {
	return t == Float || t == Double
}

// Tag is a 2-byte field identifier, scoped by Group: the same numeric tag
// means different things in different groups.
type Tag uint16

// Group identifies a directory's namespace: TIFF IFD0/IFD1, Exif SubIFD, GPS
// SubIFD, the Interoperability SubIFD, and each vendor Makernote's private
// namespace. Two entries with the same Tag but different Group are unrelated
// fields that happen to share a numeric identifier.
type Group uint16

const (
	GroupNone Group = iota
	GroupIFD0
	GroupThumbnail
	GroupExif
	GroupGPS
	GroupInterop
	GroupMPFIndex
	GroupMPFAttribute
)

// vendor Makernote groups start here so they never collide with the fixed
// TIFF/Exif groups above; tiff/makernote assigns concrete values from this
// range to each vendor it recognizes.
const GroupMakernoteBase Group = 0x1000

var groupNames = map[Group]string{
	GroupNone:         "None",
	GroupIFD0:         "IFD0",
	GroupThumbnail:    "IFD1",
	GroupExif:         "Exif",
	GroupGPS:          "GPS",
	GroupInterop:      "Interop",
	GroupMPFIndex:     "MPFIndex",
	GroupMPFAttribute: "MPFAttribute",
}

func (g Group) String() string {
	if n, ok := groupNames[g]; ok {
		return n
	}
	return fmt.Sprintf("Group(%#x)", uint16(g))
}

var groupByName = map[string]Group{}

func init() {
	for g, name := range groupNames {
		groupByName[name] = g
	}
}

// RegisterGroupName lets a vendor package (tiff/makernote) name the group ids
// it allocates, so diagnostics and printers read sensibly.
func RegisterGroupName(g Group, name string) {
	groupNames[g] = name
	groupByName[name] = g
}

// GroupByName is the inverse of Group.String, used by exif.Encode to turn a
// metadata.Key's group name back into a numeric Group when materializing a
// path to a tag that doesn't exist in the tree yet.
func GroupByName(name string) (Group, bool) {
	g, ok := groupByName[name]
	return g, ok
}

// Key identifies one tag within one group, the unit the structure table and
// the composite tree both key off of.
type Key struct {
	Group Group
	Tag   Tag
}

func (k Key) String() string {
	return fmt.Sprintf("%s:%#04x", k.Group, uint16(k.Tag))
}

// well-known TIFF/Exif tags used by the core engine's special-cased logic
// (sub-IFD pointers, strip/tile offset-size pairs, the tags spec.md singles
// out for bespoke decode/encode behavior).
const (
	TagNewSubfileType         Tag = 0x00FE
	TagImageWidth             Tag = 0x0100
	TagImageLength            Tag = 0x0101
	TagCompression            Tag = 0x0103
	TagStripOffsets           Tag = 0x0111
	TagStripByteCounts        Tag = 0x0117
	TagJPEGInterchangeFormat  Tag = 0x0201
	TagJPEGInterchangeFormatL Tag = 0x0202
	TagExifIFD                Tag = 0x8769
	TagGPSIFD                 Tag = 0x8825
	TagInteropIFD             Tag = 0xA005
	TagMakernote              Tag = 0x927C
	TagUserComment            Tag = 0x9286
	TagXMP                    Tag = 0x02BC
	TagIPTC                   Tag = 0x83BB
	TagPhotoshop              Tag = 0x8649
	TagMake                   Tag = 0x010F
	TagModel                  Tag = 0x0110
)
