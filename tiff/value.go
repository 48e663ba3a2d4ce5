package tiff

import (
	"encoding/binary"
	"strings"

	"github.com/pkg/errors"
)

// Value is the tagged-sum representation of a field's payload: one Type, one
// Count, and the raw bytes backing it. spec.md's design notes call out the
// original's deep per-type value class hierarchy as unnecessary ceremony in
// a systems language with first-class byte slices; Value collapses that
// hierarchy into this one struct, with typed accessors doing the conversion
// on demand instead of a whole type existing per TIFF type.
type Value struct {
	Type  Type
	Count uint32
	// Data holds Count*Type.Size() bytes, in the byte order the Value was
	// read with (or will be written with). It may alias the buffer a
	// directory was read from; Clone must be called before mutating a
	// Value that might still be shared.
	Data []byte

	// DataArea holds side data this entry owns but does not store inline
	// (a strip, a thumbnail, a preview), used by DataEntry/SizeEntry pairs.
	DataArea []byte

	// IsAllocated reports whether Data is this Value's own copy rather than
	// a slice borrowed from the buffer it was read out of. The reader
	// borrows whenever a field's bytes survived intact (no truncation), and
	// only allocates when it has to reshape what it found (a short read, or
	// a value built fresh by NewASCII/NewBytes); PutByte/PutShort/etc. are
	// safe on either, but a caller handing a borrowed Value to something
	// that outlives the source buffer should Clone first.
	IsAllocated bool
}

// Size returns the number of bytes Data must hold.
func (v *Value) Size() uint32 {
	return v.Count * v.Type.Size()
}

// Clone returns a Value with its own copy of Data and DataArea, safe to
// mutate independently of v.
func (v *Value) Clone() *Value {
	nv := &Value{Type: v.Type, Count: v.Count, IsAllocated: true}
	if v.Data != nil {
		nv.Data = append([]byte(nil), v.Data...)
	}
	if v.DataArea != nil {
		nv.DataArea = append([]byte(nil), v.DataArea...)
	}
	return nv
}

func (v *Value) checkIndex(i uint32) error {
	if i >= v.Count {
		return errors.Errorf("tiff: index %d out of range (count %d)", i, v.Count)
	}
	return nil
}

func (v *Value) Byte(i uint32) (uint8, error) {
	if err := v.checkIndex(i); err != nil {
		return 0, err
	}
	return ReadByte(v.Data, i)
}

func (v *Value) PutByte(i uint32, val uint8) error {
	if err := v.checkIndex(i); err != nil {
		return err
	}
	return PutByte(v.Data, i, val)
}

func (v *Value) SByte(i uint32) (int8, error) {
	if err := v.checkIndex(i); err != nil {
		return 0, err
	}
	return ReadSByte(v.Data, i)
}

func (v *Value) Short(i uint32, order binary.ByteOrder) (uint16, error) {
	if err := v.checkIndex(i); err != nil {
		return 0, err
	}
	return ReadShort(v.Data, i*2, order)
}

func (v *Value) PutShort(i uint32, order binary.ByteOrder, val uint16) error {
	if err := v.checkIndex(i); err != nil {
		return err
	}
	return PutShort(v.Data, i*2, order, val)
}

func (v *Value) SShort(i uint32, order binary.ByteOrder) (int16, error) {
	s, err := v.Short(i, order)
	return int16(s), err
}

func (v *Value) Long(i uint32, order binary.ByteOrder) (uint32, error) {
	if err := v.checkIndex(i); err != nil {
		return 0, err
	}
	return ReadLong(v.Data, i*4, order)
}

func (v *Value) PutLong(i uint32, order binary.ByteOrder, val uint32) error {
	if err := v.checkIndex(i); err != nil {
		return err
	}
	return PutLong(v.Data, i*4, order, val)
}

func (v *Value) SLong(i uint32, order binary.ByteOrder) (int32, error) {
	l, err := v.Long(i, order)
	return int32(l), err
}

// AnyInteger returns the i'th value widened to uint32 regardless of whether
// the underlying type is BYTE, SHORT or LONG. Used by sub-IFD pointer
// resolution, strip offset/size pairing and exif.Decode, none of which
// cares which integral width the source file happened to use.
func (v *Value) AnyInteger(i uint32, order binary.ByteOrder) (uint32, error) {
	switch v.Type {
	case Byte, SByte, Undefined:
		b, err := v.Byte(i)
		return uint32(b), err
	case Short, SShort:
		s, err := v.Short(i, order)
		return uint32(s), err
	case Long, SLong, IFDType:
		return v.Long(i, order)
	}
	return 0, errors.Errorf("tiff: type %s is not integral", v.Type.Name())
}

func (v *Value) Rational(i uint32, order binary.ByteOrder) (num, den uint32, err error) {
	if err = v.checkIndex(i); err != nil {
		return 0, 0, err
	}
	return ReadRational(v.Data, i*8, order)
}

func (v *Value) SRational(i uint32, order binary.ByteOrder) (num, den int32, err error) {
	if err = v.checkIndex(i); err != nil {
		return 0, 0, err
	}
	return ReadSRational(v.Data, i*8, order)
}

func (v *Value) Float(i uint32, order binary.ByteOrder) (float32, error) {
	if err := v.checkIndex(i); err != nil {
		return 0, err
	}
	return ReadFloat(v.Data, i*4, order)
}

func (v *Value) Double(i uint32, order binary.ByteOrder) (float64, error) {
	if err := v.checkIndex(i); err != nil {
		return 0, err
	}
	return ReadDouble(v.Data, i*8, order)
}

// ASCII returns the value's NUL-terminated string contents, trimming the
// terminator and anything past it.
func (v *Value) ASCII() string {
	s := string(v.Data)
	if i := strings.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}
	return s
}

// NewASCII builds a Value holding s plus its NUL terminator.
func NewASCII(s string) *Value {
	data := append([]byte(s), 0)
	return &Value{Type: ASCII, Count: uint32(len(data)), Data: data, IsAllocated: true}
}

// NewBytes builds an Undefined/Byte-typed Value directly from raw bytes,
// used for opaque payloads (Makernote bodies, ICC profiles, thumbnails).
func NewBytes(t Type, data []byte) *Value {
	return &Value{Type: t, Count: uint32(len(data)), Data: data, IsAllocated: true}
}
