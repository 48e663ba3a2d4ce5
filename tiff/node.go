package tiff

import "encoding/binary"

// Kind distinguishes the handful of roles an Entry can play in the
// composite tree. spec.md's design notes flag the original's per-role class
// hierarchy (Entry/DataEntry/SizeEntry/SubIFDEntry/MakernoteEntry/
// ArrayEntry/ArrayElement, each overriding the same handful of virtuals) as
// more ceremony than a systems language needs; Kind collapses that
// hierarchy into one struct and a tagged switch, so adding a role is a
// compile-time-visible case, not a new virtual-dispatch surface.
type Kind int

const (
	// KindEntry is an ordinary scalar/array-of-scalars field.
	KindEntry Kind = iota
	// KindDataEntry is a strip/thumbnail offset field whose companion
	// size lives in another entry identified by PairTag.
	KindDataEntry
	// KindSizeEntry is the companion size field for a KindDataEntry.
	KindSizeEntry
	// KindSubIFD is a pointer field whose value is one or more offsets to
	// child directories (e.g. Exif/GPS/Interop IFD pointers).
	KindSubIFD
	// KindMakernote is a vendor-opaque blob that, once identified, is
	// itself a child directory with its own byte order and offset base.
	KindMakernote
	// KindArray is a vendor array field whose elements are exposed as
	// individual synthetic entries instead of one opaque blob.
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindEntry:
		return "Entry"
	case KindDataEntry:
		return "DataEntry"
	case KindSizeEntry:
		return "SizeEntry"
	case KindSubIFD:
		return "SubIFD"
	case KindMakernote:
		return "Makernote"
	case KindArray:
		return "Array"
	}
	return "Unknown"
}

// Entry is one field of a Directory. Its Kind selects which of the
// kind-specific fields below are meaningful; the zero value of the others
// is always safe to read.
type Entry struct {
	Tag   Tag
	Group Group
	Kind  Kind

	// Value holds the field's data for every Kind; for KindSubIFD and
	// KindMakernote it holds the raw offset(s) that produced Children, kept
	// around so an untouched entry can round-trip byte for byte.
	Value *Value

	// PairTag names the companion entry (same Group) for KindDataEntry and
	// KindSizeEntry: a data entry's companion is a size entry and vice
	// versa, resolved on demand via Directory.Find rather than a direct
	// pointer, since either side can be added or removed independently
	// during encoding.
	PairTag Tag

	// Children holds the sub-directories for KindSubIFD (one per offset in
	// Value) and the single vendor directory for KindMakernote.
	Children []*Directory

	// Elements holds the decomposed scalar entries for KindArray, each a
	// regular *Entry with its own Group/Tag assigned by the
	// ArrayDecomposer that owns the array (see tiff/makernote).
	Elements []*Entry

	// start is the byte offset Value.Data began at when this entry was
	// read, 0 for entries created fresh by the encoder. For a
	// KindMakernote entry it is the position handed to MakernoteFactory.
	start uint32
}

// Directory is one IFD: an ordered list of entries plus an optional link to
// the next IFD in its chain (IFD0 -> IFD1 is the only chain most files use,
// but MPF index/attribute directories chain the same way).
type Directory struct {
	Group   Group
	Order   binary.ByteOrder
	Entries []*Entry
	Next    *Directory

	// dirty is set whenever a mutation changes this directory's on-disk
	// footprint (an entry added, removed, or grown past its old Size()).
	// The writer does not consult it: PutTree always lays the whole tree
	// out afresh, and there is no in-place rewrite path.
	dirty bool
}

// NewDirectory returns an empty directory in the given group and byte
// order.
func NewDirectory(group Group, order binary.ByteOrder) *Directory {
	return &Directory{Group: group, Order: order}
}

// Find returns the entry with the given tag, or nil.
func (d *Directory) Find(tag Tag) *Entry {
	for _, e := range d.Entries {
		if e.Tag == tag {
			return e
		}
	}
	return nil
}

// AddChild appends an entry to the directory's entry list in tag order,
// matching the ascending-tag-order invariant TIFF readers (including this
// one) rely on. It returns an error if an entry with the same tag already
// exists.
func (d *Directory) AddChild(e *Entry) error {
	if d.Find(e.Tag) != nil {
		return Newf(KindSemantic, Key{d.Group, e.Tag}, "duplicate tag in directory")
	}
	e.Group = d.Group
	i := 0
	for ; i < len(d.Entries); i++ {
		if d.Entries[i].Tag > e.Tag {
			break
		}
	}
	d.Entries = append(d.Entries, nil)
	copy(d.Entries[i+1:], d.Entries[i:])
	d.Entries[i] = e
	d.MarkDirty()
	return nil
}

// RemoveChild deletes the entry with the given tag, if present.
func (d *Directory) RemoveChild(tag Tag) {
	for i, e := range d.Entries {
		if e.Tag == tag {
			d.Entries = append(d.Entries[:i], d.Entries[i+1:]...)
			d.MarkDirty()
			return
		}
	}
}

// AddNext links next as this directory's successor in its chain.
func (d *Directory) AddNext(next *Directory) {
	d.Next = next
	d.MarkDirty()
}

// MarkDirty flags this directory, and only this directory, as changed in
// footprint: neither MarkDirty nor the encoder propagates the flag to
// ancestors, so a change inside a sub-IFD leaves its parent's flag unset.
func (d *Directory) MarkDirty() {
	d.dirty = true
}

// Dirty reports whether this directory's on-disk footprint has changed
// since it was read.
func (d *Directory) Dirty() bool {
	return d.dirty
}

// DeleteEmptyIFDs prunes child/next directories that hold no entries and no
// non-empty descendants, returning nil if d itself became empty. Grounded on
// the teacher's DeleteEmptyIFDs/NodeSize API surface (empty_test.go).
func (d *Directory) DeleteEmptyIFDs() *Directory {
	if d == nil {
		return nil
	}
	d.Next = d.Next.DeleteEmptyIFDs()
	kept := d.Entries[:0]
	for _, e := range d.Entries {
		if e.Kind == KindSubIFD {
			var children []*Directory
			for _, c := range e.Children {
				if c = c.DeleteEmptyIFDs(); c != nil {
					children = append(children, c)
				}
			}
			e.Children = children
			if len(children) == 0 {
				continue
			}
		}
		kept = append(kept, e)
	}
	d.Entries = kept
	if len(d.Entries) == 0 && d.Next == nil {
		return nil
	}
	return d
}

// Visitor receives callbacks during Walk. Implementations that only care
// about some node kinds embed NopVisitor and override the rest.
type Visitor interface {
	VisitDirectory(d *Directory) error
	VisitEntry(e *Entry) error
}

// NopVisitor is embedded by Visitor implementations that don't need every
// callback.
type NopVisitor struct{}

func (NopVisitor) VisitDirectory(*Directory) error { return nil }
func (NopVisitor) VisitEntry(*Entry) error          { return nil }

// Walk performs the depth-first traversal every package-level visitor
// (the reader's Makernote resolution, exif.Decode, exif.Encode) shares:
// directory, then its entries in order (recursing into sub-IFDs and
// Makernotes as it goes), then its Next chain.
func Walk(d *Directory, v Visitor) error {
	for d != nil {
		if err := v.VisitDirectory(d); err != nil {
			return err
		}
		for _, e := range d.Entries {
			if err := v.VisitEntry(e); err != nil {
				return err
			}
			if e.Kind == KindArray {
				for _, el := range e.Elements {
					if err := v.VisitEntry(el); err != nil {
						return err
					}
				}
			}
			if e.Kind == KindSubIFD || e.Kind == KindMakernote {
				for _, c := range e.Children {
					if err := Walk(c, v); err != nil {
						return err
					}
				}
			}
		}
		d = d.Next
	}
	return nil
}
