package tiff

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
)

// ErrShortBuffer is wrapped by every codec function that would otherwise
// read or write past the end of buf.
var ErrShortBuffer = errors.New("tiff: buffer too short")

func need(buf []byte, pos, n uint32) error {
	if uint64(pos)+uint64(n) > uint64(len(buf)) {
		return errors.Wrapf(ErrShortBuffer, "need %d bytes at %d, have %d", n, pos, len(buf))
	}
	return nil
}

// ReadByte through ReadDouble read one TIFF primitive out of buf at pos. They
// are the shared low-level codec used by Value, the reader, the writer, and
// the vendor Makernote headers in tiff/makernote, so every caller agrees on
// byte layout.

func ReadByte(buf []byte, pos uint32) (uint8, error) {
	if err := need(buf, pos, 1); err != nil {
		return 0, err
	}
	return buf[pos], nil
}

func PutByte(buf []byte, pos uint32, v uint8) error {
	if err := need(buf, pos, 1); err != nil {
		return err
	}
	buf[pos] = v
	return nil
}

func ReadSByte(buf []byte, pos uint32) (int8, error) {
	b, err := ReadByte(buf, pos)
	return int8(b), err
}

func PutSByte(buf []byte, pos uint32, v int8) error {
	return PutByte(buf, pos, uint8(v))
}

func ReadShort(buf []byte, pos uint32, order binary.ByteOrder) (uint16, error) {
	if err := need(buf, pos, 2); err != nil {
		return 0, err
	}
	return order.Uint16(buf[pos:]), nil
}

func PutShort(buf []byte, pos uint32, order binary.ByteOrder, v uint16) error {
	if err := need(buf, pos, 2); err != nil {
		return err
	}
	order.PutUint16(buf[pos:], v)
	return nil
}

func ReadSShort(buf []byte, pos uint32, order binary.ByteOrder) (int16, error) {
	v, err := ReadShort(buf, pos, order)
	return int16(v), err
}

func PutSShort(buf []byte, pos uint32, order binary.ByteOrder, v int16) error {
	return PutShort(buf, pos, order, uint16(v))
}

func ReadLong(buf []byte, pos uint32, order binary.ByteOrder) (uint32, error) {
	if err := need(buf, pos, 4); err != nil {
		return 0, err
	}
	return order.Uint32(buf[pos:]), nil
}

func PutLong(buf []byte, pos uint32, order binary.ByteOrder, v uint32) error {
	if err := need(buf, pos, 4); err != nil {
		return err
	}
	order.PutUint32(buf[pos:], v)
	return nil
}

func ReadSLong(buf []byte, pos uint32, order binary.ByteOrder) (int32, error) {
	v, err := ReadLong(buf, pos, order)
	return int32(v), err
}

func PutSLong(buf []byte, pos uint32, order binary.ByteOrder, v int32) error {
	return PutLong(buf, pos, order, uint32(v))
}

func ReadRational(buf []byte, pos uint32, order binary.ByteOrder) (num, den uint32, err error) {
	if err = need(buf, pos, 8); err != nil {
		return 0, 0, err
	}
	return order.Uint32(buf[pos:]), order.Uint32(buf[pos+4:]), nil
}

func PutRational(buf []byte, pos uint32, order binary.ByteOrder, num, den uint32) error {
	if err := need(buf, pos, 8); err != nil {
		return err
	}
	order.PutUint32(buf[pos:], num)
	order.PutUint32(buf[pos+4:], den)
	return nil
}

func ReadSRational(buf []byte, pos uint32, order binary.ByteOrder) (num, den int32, err error) {
	n, d, err := ReadRational(buf, pos, order)
	return int32(n), int32(d), err
}

func PutSRational(buf []byte, pos uint32, order binary.ByteOrder, num, den int32) error {
	return PutRational(buf, pos, order, uint32(num), uint32(den))
}

func ReadFloat(buf []byte, pos uint32, order binary.ByteOrder) (float32, error) {
	v, err := ReadLong(buf, pos, order)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

func PutFloat(buf []byte, pos uint32, order binary.ByteOrder, v float32) error {
	return PutLong(buf, pos, order, math.Float32bits(v))
}

func ReadDouble(buf []byte, pos uint32, order binary.ByteOrder) (float64, error) {
	if err := need(buf, pos, 8); err != nil {
		return 0, err
	}
	var hi, lo uint32
	if order == binary.BigEndian {
		hi, _ = ReadLong(buf, pos, order)
		lo, _ = ReadLong(buf, pos+4, order)
	} else {
		lo, _ = ReadLong(buf, pos, order)
		hi, _ = ReadLong(buf, pos+4, order)
	}
	return math.Float64frombits(uint64(hi)<<32 | uint64(lo)), nil
}

func PutDouble(buf []byte, pos uint32, order binary.ByteOrder, v float64) error {
	if err := need(buf, pos, 8); err != nil {
		return err
	}
	bits := math.Float64bits(v)
	hi := uint32(bits >> 32)
	lo := uint32(bits)
	if order == binary.BigEndian {
		PutLong(buf, pos, order, hi)
		PutLong(buf, pos+4, order, lo)
	} else {
		PutLong(buf, pos, order, lo)
		PutLong(buf, pos+4, order, hi)
	}
	return nil
}

// Align rounds pos up to the next even (word) boundary, as TIFF directory
// entries must always begin on a word boundary.
func Align(pos uint32) uint32 {
	return (pos + 1) &^ 1
}
