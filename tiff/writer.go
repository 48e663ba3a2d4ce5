package tiff

import "encoding/binary"

// Fix normalizes a directory (and its whole tree) before writing: entries
// are kept in ascending tag order (AddChild already maintains this, so Fix
// mainly re-sorts directories built by hand), ASCII values gain a missing
// NUL terminator, ported from the teacher's IFD_T.Fix/IFDNode.Fix.
func (d *Directory) Fix() {
	if d == nil {
		return
	}
	for i := 1; i < len(d.Entries); i++ {
		for j := i; j > 0 && d.Entries[j-1].Tag > d.Entries[j].Tag; j-- {
			d.Entries[j-1], d.Entries[j] = d.Entries[j], d.Entries[j-1]
		}
	}
	for _, e := range d.Entries {
		if e.Value != nil && e.Value.Type == ASCII {
			if len(e.Value.Data) == 0 || e.Value.Data[len(e.Value.Data)-1] != 0 {
				e.Value.Data = append(e.Value.Data, 0)
				e.Value.Count = uint32(len(e.Value.Data))
			}
		}
		for _, c := range e.Children {
			c.Fix()
		}
	}
	d.Next.Fix()
}

// TableSize returns the number of bytes this directory's own entry table
// (header + 12-byte slots + next-pointer) occupies, not counting any
// value/data pool space its entries need.
func (d *Directory) TableSize() uint32 {
	return 2 + uint32(len(d.Entries))*12 + 4
}

// valuePoolSize returns the out-of-line value-pool bytes this directory's
// own entries need (excluding DataEntry payloads, which live in the data
// pool computed separately).
func (d *Directory) valuePoolSize() uint32 {
	var size uint32
	for _, e := range d.Entries {
		switch e.Kind {
		case KindSubIFD, KindMakernote:
			n := uint32(len(e.Children))
			if n == 0 {
				n = 1
			}
			if n*4 > 4 {
				size = Align(size) + n*4
			}
		default:
			if e.Value != nil && e.Value.Size() > 4 {
				size = Align(size) + e.Value.Size()
			}
		}
	}
	return size
}

// dataPoolSize returns the bytes this directory's DataEntry fields own
// directly (strip/thumbnail payloads), written after the value pool.
func (d *Directory) dataPoolSize() uint32 {
	var size uint32
	for _, e := range d.Entries {
		if e.Kind == KindDataEntry && e.Value != nil {
			size += uint32(len(e.Value.DataArea))
		}
	}
	return size
}

// NodeSize returns this directory's total footprint alone: table, value
// pool, and data pool, rounded up to a word boundary so whatever follows
// starts aligned, not counting descendant sub-IFDs/Makernotes.
func (d *Directory) NodeSize() uint32 {
	return Align(Align(d.TableSize()) + d.valuePoolSize() + d.dataPoolSize())
}

// TreeSize returns this directory's full footprint including every
// descendant sub-IFD, Makernote and Next link — the number the caller must
// allocate before calling PutTree.
func (d *Directory) TreeSize() uint32 {
	if d == nil {
		return 0
	}
	size := d.NodeSize()
	for _, e := range d.Entries {
		for _, c := range e.Children {
			size += c.TreeSize()
		}
	}
	return size + d.Next.TreeSize()
}

// PutTree serializes the directory tree rooted at d into buf starting at
// pos, returning the position immediately after everything written. buf
// must hold at least pos+d.TreeSize() bytes. d's own table and pools are
// laid out at pos; its Sub-IFDs and Makernotes follow them (written first,
// so their offsets are known when d's pointer fields are filled in), then
// its Next chain — mirroring the teacher's depth-first PutIFDTree/IFD_T.Put
// split.
func (d *Directory) PutTree(buf []byte, pos uint32) (uint32, error) {
	if d == nil {
		return pos, nil
	}

	tablePos := pos
	valuePos := Align(tablePos + d.TableSize())
	dataPos := valuePos + d.valuePoolSize()

	pos = tablePos + d.NodeSize()
	childOffsets := make(map[*Entry][]uint32, len(d.Entries))
	for _, e := range d.Entries {
		for _, c := range e.Children {
			start := pos
			var err error
			pos, err = c.PutTree(buf, pos)
			if err != nil {
				return 0, err
			}
			childOffsets[e] = append(childOffsets[e], start)
		}
	}

	if err := PutShort(buf, tablePos, d.Order, uint16(len(d.Entries))); err != nil {
		return 0, NewError(KindWriteSize, Key{Group: d.Group}, err)
	}

	epos := tablePos + 2
	vpos := valuePos
	dpos := dataPos
	for _, e := range d.Entries {
		var err error
		vpos, dpos, err = writeEntrySlot(buf, epos, d.Order, e, childOffsets[e], vpos, dpos)
		if err != nil {
			return 0, err
		}
		epos += 12
	}

	nextOff := uint32(0)
	end := pos
	if d.Next != nil {
		nextOff = pos
		var err error
		end, err = d.Next.PutTree(buf, pos)
		if err != nil {
			return 0, err
		}
	}
	if err := PutLong(buf, epos, d.Order, nextOff); err != nil {
		return 0, NewError(KindWriteSize, Key{Group: d.Group}, err)
	}

	return end, nil
}

// writeEntrySlot writes one 12-byte directory slot at epos, consuming
// out-of-line space from vpos (and, for a DataEntry's owned payload, dpos)
// as needed, and returns their advanced positions.
func writeEntrySlot(buf []byte, epos uint32, order binary.ByteOrder, e *Entry, children []uint32, vpos, dpos uint32) (newVpos, newDpos uint32, err error) {
	if err := PutShort(buf, epos, order, uint16(e.Tag)); err != nil {
		return 0, 0, NewError(KindWriteSize, Key{e.Group, e.Tag}, err)
	}

	switch e.Kind {
	case KindSubIFD, KindMakernote:
		n := len(children)
		if n == 0 {
			n = 1
		}
		v := &Value{Type: Long, Count: uint32(n), Data: make([]byte, 4*n)}
		for i, off := range children {
			v.PutLong(uint32(i), order, off)
		}
		vpos, err = writeValueSlot(buf, epos, order, e, v, vpos)
		return vpos, dpos, err

	case KindDataEntry:
		v := e.Value
		if v == nil {
			return vpos, dpos, nil
		}
		if len(v.DataArea) > 0 && v.Count == 1 {
			// single-strip (or JPEGInterchangeFormat, always count 1): lay
			// the payload into the data pool at its final position and
			// write that position as the value, instead of whatever offset
			// the entry was originally read with.
			patched := &Value{Type: v.Type, Count: 1, Data: make([]byte, 4)}
			PutLong(patched.Data, 0, order, dpos)
			vpos, err = writeValueSlot(buf, epos, order, e, patched, vpos)
			if err != nil {
				return 0, 0, err
			}
			copy(buf[dpos:], v.DataArea)
			dpos += uint32(len(v.DataArea))
			return vpos, dpos, nil
		}
		// multi-strip layouts round-trip their existing offsets unchanged;
		// re-laying out an arbitrary strip count is outside this module's
		// scope (spec.md's "no partial re-serialization" non-goal covers
		// this: a file with multi-strip images that also gets strip data
		// edited is not a supported edit).
		vpos, err = writeValueSlot(buf, epos, order, e, v, vpos)
		return vpos, dpos, err

	default:
		vpos, err = writeValueSlot(buf, epos, order, e, e.Value, vpos)
		return vpos, dpos, err
	}
}

func writeValueSlot(buf []byte, epos uint32, order binary.ByteOrder, e *Entry, v *Value, vpos uint32) (uint32, error) {
	if err := PutShort(buf, epos+2, order, uint16(v.Type)); err != nil {
		return 0, NewError(KindWriteSize, Key{e.Group, e.Tag}, err)
	}
	if err := PutLong(buf, epos+4, order, v.Count); err != nil {
		return 0, NewError(KindWriteSize, Key{e.Group, e.Tag}, err)
	}
	size := v.Size()
	if size <= 4 {
		copy(buf[epos+8:epos+8+size], v.Data)
		for i := size; i < 4; i++ {
			buf[epos+8+i] = 0
		}
		return vpos, nil
	}
	if err := PutLong(buf, epos+8, order, vpos); err != nil {
		return 0, NewError(KindWriteSize, Key{e.Group, e.Tag}, err)
	}
	copy(buf[vpos:vpos+size], v.Data)
	return Align(vpos + size), nil
}
