package exif

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/obklar/exiv2/metadata"
	"github.com/obklar/exiv2/tiff"
)

// Encode reconciles m against tree, mutating tree in place and returning it:
// keys removed from m delete their entry, keys whose value changed rewrite
// it (growing the owning directory's footprint and marking it dirty only if
// the new value no longer fits the old slot), and keys absent from tree
// materialize a path to their group via Directory.AddPath and a fresh
// entry, per spec.md §4.7. Only the Exif family is backed by tree; IPTC and
// XMP keys in m are not written back, since neither has a lossless
// re-serialization path defined (spec.md's non-goals exclude more than
// tag/value round-tripping for vendor-opaque data, and the same restraint
// applies here: irb/xmp are read-only collaborators in this module).
func Encode(tree *tiff.Directory, order binary.ByteOrder, m *metadata.Map) (*tiff.Directory, error) {
	existing := map[metadata.Key]*entryRef{}
	tiff.Walk(tree, &collectVisitor{out: existing})

	for key, ref := range existing {
		if key.Family != metadata.Exif {
			continue
		}
		if _, ok := m.Get(key); !ok {
			ref.dir.RemoveChild(ref.entry.Tag)
		}
	}

	for _, key := range m.Keys() {
		if key.Family != metadata.Exif {
			continue
		}
		val, _ := m.Get(key)
		if ref, ok := existing[key]; ok {
			if err := rewriteEntry(ref, order, val); err != nil {
				return nil, err
			}
			continue
		}
		if err := createEntry(tree, key, order, val); err != nil {
			return nil, err
		}
	}
	return tree, nil
}

type entryRef struct {
	dir   *tiff.Directory
	entry *tiff.Entry
}

type collectVisitor struct {
	tiff.NopVisitor
	dir *tiff.Directory
	out map[metadata.Key]*entryRef
}

func (v *collectVisitor) VisitDirectory(d *tiff.Directory) error {
	v.dir = d
	return nil
}

func (v *collectVisitor) VisitEntry(e *tiff.Entry) error {
	if e.Value == nil {
		return nil
	}
	key := metadata.Key{Family: metadata.Exif, Group: e.Group.String(), Tag: tagName(e.Group, e.Tag)}
	if _, exists := v.out[key]; !exists {
		v.out[key] = &entryRef{dir: v.dir, entry: e}
	}
	return nil
}

func rewriteEntry(ref *entryRef, order binary.ByteOrder, val metadata.Value) error {
	nv, err := encodeValue(ref.entry.Value.Type, order, val)
	if err != nil {
		return err
	}
	oldSize := ref.entry.Value.Size()
	ref.entry.Value = nv
	if nv.Size() > oldSize {
		ref.dir.MarkDirty()
	}
	return nil
}

func createEntry(tree *tiff.Directory, key metadata.Key, order binary.ByteOrder, val metadata.Value) error {
	group, ok := tiff.GroupByName(key.Group)
	if !ok {
		return errors.Errorf("exif: unknown group %q", key.Group)
	}
	tag, ok := tagByNameOrHex(group, key.Tag)
	if !ok {
		return errors.Errorf("exif: unknown tag %q in group %q", key.Tag, key.Group)
	}
	dir, err := tree.AddPath(group)
	if err != nil {
		return err
	}
	nv, err := encodeValue(0, order, val)
	if err != nil {
		return err
	}
	return dir.AddChild(&tiff.Entry{Tag: tag, Value: nv, Kind: tiff.KindEntry})
}

// encodeValue rebuilds a tiff.Value from a metadata.Value's Raw payload,
// preferring existingType (the type the field already had) when it's
// compatible with Raw's shape, and a sensible default otherwise.
func encodeValue(existingType tiff.Type, order binary.ByteOrder, val metadata.Value) (*tiff.Value, error) {
	switch raw := val.Raw.(type) {
	case string:
		return tiff.NewASCII(raw), nil

	case []byte:
		return tiff.NewBytes(tiff.Undefined, raw), nil

	case []int64:
		typ := existingType
		if !typ.IsIntegral() {
			typ = tiff.Long
		}
		v := &tiff.Value{Type: typ, Count: uint32(len(raw)), Data: make([]byte, uint32(len(raw))*typ.Size())}
		for i, n := range raw {
			if err := putIntegral(v, uint32(i), order, n); err != nil {
				return nil, err
			}
		}
		return v, nil

	case [][2]int64:
		typ := existingType
		if !typ.IsRational() {
			typ = tiff.Rational
		}
		v := &tiff.Value{Type: typ, Count: uint32(len(raw)), Data: make([]byte, uint32(len(raw))*8)}
		for i, pair := range raw {
			if typ == tiff.Rational {
				if err := tiff.PutRational(v.Data, uint32(i)*8, order, uint32(pair[0]), uint32(pair[1])); err != nil {
					return nil, err
				}
			} else {
				if err := tiff.PutSRational(v.Data, uint32(i)*8, order, int32(pair[0]), int32(pair[1])); err != nil {
					return nil, err
				}
			}
		}
		return v, nil

	case []float64:
		typ := existingType
		if !typ.IsFloat() {
			typ = tiff.Double
		}
		v := &tiff.Value{Type: typ, Count: uint32(len(raw)), Data: make([]byte, uint32(len(raw))*typ.Size())}
		for i, f := range raw {
			if typ == tiff.Float {
				if err := tiff.PutFloat(v.Data, uint32(i)*4, order, float32(f)); err != nil {
					return nil, err
				}
			} else {
				if err := tiff.PutDouble(v.Data, uint32(i)*8, order, f); err != nil {
					return nil, err
				}
			}
		}
		return v, nil
	}
	return nil, errors.Errorf("exif: cannot encode value of type %T", val.Raw)
}

func putIntegral(v *tiff.Value, i uint32, order binary.ByteOrder, n int64) error {
	switch v.Type {
	case tiff.Byte, tiff.Undefined:
		return tiff.PutByte(v.Data, i, uint8(n))
	case tiff.SByte:
		return tiff.PutSByte(v.Data, i, int8(n))
	case tiff.Short:
		return tiff.PutShort(v.Data, i*2, order, uint16(n))
	case tiff.SShort:
		return tiff.PutSShort(v.Data, i*2, order, int16(n))
	case tiff.Long, tiff.IFDType:
		return tiff.PutLong(v.Data, i*4, order, uint32(n))
	case tiff.SLong:
		return tiff.PutSLong(v.Data, i*4, order, int32(n))
	}
	return errors.Errorf("exif: type %s is not integral", v.Type.Name())
}
