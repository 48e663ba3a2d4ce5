package tiff

import (
	"encoding/binary"

	"github.com/obklar/exiv2/tiff/diag"
)

// maxEntries bounds how many entries a single directory's count field may
// claim, rejecting the pathological all-0xFFFF case outright rather than
// attempting to allocate or scan that many 12-byte slots. See DESIGN.md's
// Open Question resolution for why 512, not the original's unbounded
// reliance on buffer length alone.
const maxEntries = 512

// maxValueBytes bounds count*typeSize for any one field, independent of
// maxEntries, so a single entry with a huge Count can't force an
// allocation proportional to an attacker-chosen number either.
const maxValueBytes = 1 << 28

// dataPairs lists the (offset tag, size tag) pairs the reader recognizes
// within GroupIFD0/GroupThumbnail, binding a KindDataEntry to its
// KindSizeEntry companion so the writer can keep them contiguous (spec.md's
// strip-contiguity invariant).
var dataPairs = map[Tag]Tag{
	TagStripOffsets:          TagStripByteCounts,
	TagJPEGInterchangeFormat: TagJPEGInterchangeFormatL,
}

// MakernoteFactory is set by tiff/makernote's init() to break the import
// cycle a direct dependency would create (tiff/makernote needs tiff's
// types; tiff's reader needs to dispatch into tiff/makernote). It attempts
// to identify and describe the header of the maker note found at pos, given
// the enclosing file's Make/Model strings and byte order.
var MakernoteFactory func(make, model string, buf []byte, pos uint32, outerOrder binary.ByteOrder) (MakernoteHeader, bool)

// MakernoteHeader describes how to read a vendor maker note once
// identified: what byte order and base offset its own IFD uses, and what
// Group id to tag its directory with.
type MakernoteHeader struct {
	Order      binary.ByteOrder
	IFDOffset  uint32 // position of the vendor IFD, absolute within buf
	BaseOffset uint32 // base that the vendor IFD's own internal offsets are relative to
	Group      Group
}

// reader carries the state a single top-level Read call threads through its
// recursive directory walk: the buffer, the Make/Model strings needed to
// identify a Makernote, cycle detection, and the diagnostics sink. The byte
// order is not part of it: each readDirectory/readEntry call is handed the
// order of the directory it reads, which is how a Makernote's own order
// applies to its subtree only.
type reader struct {
	buf     []byte
	sink    diag.Sink
	visited map[uint32]bool
	make    string
	model   string
}

// Read parses the directory at pos (an IFD0, by convention) and its full
// chain/descendant tree out of buf, using order as the file's byte order.
// Read never returns an error for a malformed entry or subtree — those are
// elided and reported through sink — only for a directory header so broken
// that no entries could be recovered at all.
func Read(buf []byte, order binary.ByteOrder, pos uint32, sink diag.Sink) (*Directory, error) {
	if sink == nil {
		sink = diag.Discard
	}
	r := &reader{buf: buf, sink: sink, visited: map[uint32]bool{}}
	d, err := r.readDirectory(order, pos, GroupIFD0)
	if err != nil {
		return nil, err
	}
	r.make, r.model = findString(d, TagMake), findString(d, TagModel)
	r.resolveMakernotes(d)
	return d, nil
}

func findString(d *Directory, tag Tag) string {
	if d == nil {
		return ""
	}
	if e := d.Find(tag); e != nil && e.Value != nil {
		return e.Value.ASCII()
	}
	return ""
}

// resolveMakernotes walks the already-read tree a second time (Make/Model
// live in IFD0 but the Makernote entry lives in the Exif SubIFD, so the
// strings aren't known yet during the first pass) and fills in Children for
// any KindMakernote entry.
func (r *reader) resolveMakernotes(d *Directory) {
	Walk(d, &makernoteResolveVisitor{r: r})
}

type makernoteResolveVisitor struct {
	NopVisitor
	r     *reader
	order binary.ByteOrder
}

func (v *makernoteResolveVisitor) VisitDirectory(d *Directory) error {
	v.order = d.Order
	return nil
}

func (v *makernoteResolveVisitor) VisitEntry(e *Entry) error {
	if e.Kind != KindMakernote || MakernoteFactory == nil {
		return nil
	}
	hdr, ok := MakernoteFactory(v.r.make, v.r.model, v.r.buf, e.start, v.order)
	if !ok {
		v.r.sink.Warn(Key{e.Group, e.Tag}.String(), Newf(KindSkipped, Key{e.Group, e.Tag}, "unrecognized maker note").cause)
		return nil
	}
	child, err := v.r.readDirectory(hdr.Order, hdr.IFDOffset, hdr.Group)
	if err != nil {
		v.r.sink.Warn(Key{e.Group, e.Tag}.String(), err)
		return nil
	}
	e.Children = []*Directory{child}
	return nil
}

// reverseDataPairs maps a size tag back to its offset tag.
var reverseDataPairs = func() map[Tag]Tag {
	m := map[Tag]Tag{}
	for off, size := range dataPairs {
		m[size] = off
	}
	return m
}()

// nextGroup maps a directory's group to the group its Next link (if any)
// should be tagged with. Every group not listed here either never chains
// (HasNext false, so nextGroup is never consulted) or chains within its own
// group.
var nextGroup = map[Group]Group{
	GroupIFD0:     GroupThumbnail,
	GroupMPFIndex: GroupMPFAttribute,
}

func groupAfterNext(g Group) Group {
	if ng, ok := nextGroup[g]; ok {
		return ng
	}
	return g
}

// subIFDGroupFor reports the child group a pointer field (parent, tag)
// resolves to, per the structure table, if any.
func subIFDGroupFor(parent Group, tag Tag) (Group, bool) {
	for g, info := range table {
		if info.Parent == parent && info.ParentTag == tag {
			return g, true
		}
	}
	return GroupNone, false
}

// readDirectory reads one directory (and, recursively, its sub-IFDs and
// Next chain) starting at pos, which is base-relative exactly as TIFF
// offset fields are: absolute file position is base+pos for the top-level
// call (base 0) and likewise for ordinary sub-IFDs, but a Makernote's own
// pos/base pair may differ from its enclosing directory's, which is why
// both are threaded through explicitly rather than assumed to be 0.
func (r *reader) readDirectory(order binary.ByteOrder, pos uint32, group Group) (*Directory, error) {
	if r.visited[pos] {
		return nil, Newf(KindFatal, Key{Group: group}, "directory reference loop detected at offset %d", pos)
	}
	r.visited[pos] = true

	count, err := ReadShort(r.buf, pos, order)
	if err != nil {
		return nil, NewError(KindFatal, Key{Group: group}, err)
	}
	if count > maxEntries {
		r.sink.Warn(Key{Group: group}.String(), Newf(KindSemantic, Key{Group: group}, "directory claims %d entries, capping at %d", count, maxEntries).cause)
		count = maxEntries
	}

	d := NewDirectory(group, order)
	entriesEnd := pos + 2 + uint32(count)*12
	if err := need(r.buf, pos+2, uint32(count)*12); err != nil {
		return nil, NewError(KindFatal, Key{Group: group}, err)
	}

	for i := uint32(0); i < uint32(count); i++ {
		epos := pos + 2 + i*12
		e, err := r.readEntry(order, epos, group)
		if err != nil {
			r.sink.Warn(Key{group, 0}.String(), err)
			continue
		}
		if e == nil {
			continue // unknown type, already warned
		}
		// Duplicates are kept in the tree rather than dropped here: the
		// reader stays byte-honest (every entry that was on disk is still
		// reachable for round-tripping), and exif.Decode's SetIfAbsent is
		// what actually enforces "first wins" when it flattens the tree.
		d.Entries = append(d.Entries, e)
	}
	d.dirty = false

	if HasNext(group) {
		nextPos, err := ReadLong(r.buf, entriesEnd, order)
		if err == nil && nextPos != 0 {
			next, err := r.readDirectory(order, nextPos, groupAfterNext(group))
			if err != nil {
				r.sink.Warn(Key{Group: group}.String(), err)
			} else {
				d.Next = next
			}
		}
	}

	r.bindDataPairs(d)
	return d, nil
}

// readEntry reads the 12-byte slot at epos. A nil, nil return means the
// entry's type was unrecognized and has already been logged; the caller
// should skip it without treating that as an error needing its own log
// line.
func (r *reader) readEntry(order binary.ByteOrder, epos uint32, group Group) (*Entry, error) {
	tagNum, err := ReadShort(r.buf, epos, order)
	if err != nil {
		return nil, NewError(KindFatal, Key{Group: group}, err)
	}
	tag := Tag(tagNum)
	typeNum, err := ReadShort(r.buf, epos+2, order)
	if err != nil {
		return nil, NewError(KindFatal, Key{group, tag}, err)
	}
	typ := Type(typeNum)
	if typ.Size() == 0 {
		r.sink.Warn(Key{group, tag}.String(), Newf(KindSemantic, Key{group, tag}, "unrecognized type %d", typeNum).cause)
		return nil, nil
	}
	count, err := ReadLong(r.buf, epos+4, order)
	if err != nil {
		return nil, NewError(KindFatal, Key{group, tag}, err)
	}

	size := uint64(count) * uint64(typ.Size())
	if size > maxValueBytes {
		return nil, Newf(KindSemantic, Key{group, tag}, "value size %d exceeds limit", size)
	}

	var data []byte
	var start uint32
	allocated := false
	if size <= 4 {
		// Inline values live in the directory slot itself; borrowing is
		// safe since nothing ever mutates a read buffer out from under a
		// live Value.
		start = epos + 8
		data = r.buf[start : start+uint32(size)]
	} else {
		offset, err := ReadLong(r.buf, epos+8, order)
		if err != nil {
			return nil, NewError(KindFatal, Key{group, tag}, err)
		}
		start = offset
		avail := int64(len(r.buf)) - int64(start)
		if avail <= 0 {
			return nil, Newf(KindSkipped, Key{group, tag}, "value offset %d outside buffer", start)
		}
		got := uint32(size)
		if avail < int64(size) {
			got = uint32(avail)
			r.sink.Warn(Key{group, tag}.String(), Newf(KindTruncated, Key{group, tag}, "value truncated from %d to %d bytes", size, got).cause)
			// A truncated read no longer matches what count*typeSize
			// promised on disk; copy it out so the Value's backing slice
			// isn't a dangling alias if the buffer end ever shrinks.
			data = append([]byte(nil), r.buf[start:start+got]...)
			allocated = true
			count = got / typ.Size()
		} else {
			data = r.buf[start : start+got]
		}
	}

	// Exif 2.x UserComment is typed UNDEFINED but is semantically an
	// 8-byte charset prefix plus text; retype it to ASCII-ish Undefined
	// handling happens in exif.Decode, not here — the reader only hands
	// over the raw bytes, matching spec.md's "reader stays byte-honest"
	// principle.

	v := &Value{Type: typ, Count: count, Data: data, IsAllocated: allocated}
	e := &Entry{Tag: tag, Group: group, Value: v, start: start}

	childGroup, isSubIFD := subIFDGroupFor(group, tag)

	switch {
	case group == GroupExif && tag == TagMakernote:
		e.Kind = KindMakernote
	case isSubIFD:
		e.Kind = KindSubIFD
		for i := uint32(0); i < count; i++ {
			off, err := v.AnyInteger(i, order)
			if err != nil {
				r.sink.Warn(Key{group, tag}.String(), err)
				continue
			}
			child, err := r.readDirectory(order, off, childGroup)
			if err != nil {
				r.sink.Warn(Key{group, tag}.String(), err)
				continue
			}
			e.Children = append(e.Children, child)
		}
	case dataPairs[tag] != 0:
		e.Kind = KindDataEntry
		e.PairTag = dataPairs[tag]
	case reverseDataPairs[tag] != 0:
		e.Kind = KindSizeEntry
		e.PairTag = reverseDataPairs[tag]
	default:
		if fn, ok := arrayDecomposers[Key{group, tag}]; ok {
			e.Kind = KindArray
			e.Elements = fn(v, order)
		} else {
			e.Kind = KindEntry
		}
	}
	return e, nil
}

// bindDataPairs slurps the DataArea for each KindDataEntry whose companion
// KindSizeEntry is present, honoring spec.md's strip-contiguity invariant:
// each strip's bytes are read directly out of buf rather than copied via
// the offset entry's own Value, since the offset entry may hold several
// strip offsets while the size entry holds the matching counts. Strips that
// do not follow one another directly leave the entry with no DataArea.
func (r *reader) bindDataPairs(d *Directory) {
	for _, e := range d.Entries {
		if e.Kind != KindDataEntry {
			continue
		}
		sizeEntry := d.Find(e.PairTag)
		if sizeEntry == nil || sizeEntry.Value == nil {
			continue
		}
		n := e.Value.Count
		if sizeEntry.Value.Count < n {
			n = sizeEntry.Value.Count
		}
		var area []byte
		var nextOff uint32
		for i := uint32(0); i < n; i++ {
			off, err1 := e.Value.AnyInteger(i, d.Order)
			sz, err2 := sizeEntry.Value.AnyInteger(i, d.Order)
			if err1 != nil || err2 != nil {
				break
			}
			if i > 0 && off != nextOff {
				r.sink.Warn(Key{d.Group, e.Tag}.String(), Newf(KindSemantic, Key{d.Group, e.Tag}, "strips are not contiguous").cause)
				area = nil
				break
			}
			nextOff = off + sz
			if err := need(r.buf, off, sz); err != nil {
				r.sink.Warn(Key{d.Group, e.Tag}.String(), NewError(KindSkipped, Key{d.Group, e.Tag}, err).cause)
				break
			}
			area = append(area, r.buf[off:off+sz]...)
		}
		e.Value.DataArea = area
	}
}
