package tiff

// groupInfo is the static structure-table row for one Group: which parent
// group and pointer tag it hangs off of, and whether its directories may
// chain via Next. Both the reader (deciding a field's Kind and what group a
// SubIFD/Makernote child gets) and the encoder (AddPath, materializing a
// path to a tag that doesn't exist yet) drive off this one table instead of
// each re-implementing TIFF's nesting rules independently.
type groupInfo struct {
	Parent     Group
	ParentTag  Tag // the pointer tag in Parent whose value is this group's offset(s)
	HasNext    bool
	Makernote  bool // true if this group is populated by tiff/makernote, not a plain SubIFD
}

// table is seeded with the fixed TIFF/Exif nesting every file uses.
// tiff/makernote calls AddGroup to register each vendor group it can
// produce, keyed by the Group id the vendor factory assigns it.
var table = map[Group]groupInfo{
	GroupIFD0:         {Parent: GroupNone, HasNext: true},
	GroupThumbnail:    {Parent: GroupIFD0, HasNext: false},
	GroupExif:         {Parent: GroupIFD0, ParentTag: TagExifIFD},
	GroupGPS:          {Parent: GroupIFD0, ParentTag: TagGPSIFD},
	GroupInterop:      {Parent: GroupExif, ParentTag: TagInteropIFD},
	GroupMPFIndex:     {Parent: GroupNone, HasNext: true},
	GroupMPFAttribute: {Parent: GroupNone, HasNext: false},
}

// AddGroup registers the nesting rule for a vendor Makernote group (or any
// of its vendor-specific sub-IFDs), so PathFor and the reader/encoder can
// navigate it the same way they navigate the built-in groups. parent/
// parentTag name the pointer field that resolves to this group; makernote
// is true for the vendor's own top-level group (one whose directory is
// populated via MakernoteFactory rather than an ordinary SubIFD pointer).
func AddGroup(g, parent Group, parentTag Tag, hasNext, makernote bool) {
	table[g] = groupInfo{Parent: parent, ParentTag: parentTag, HasNext: hasNext, Makernote: makernote}
}

// HasNext reports whether directories in group may chain via Next.
func HasNext(group Group) bool {
	return table[group].HasNext
}

// IsMakernoteGroup reports whether group was registered by tiff/makernote.
func IsMakernoteGroup(group Group) bool {
	return table[group].Makernote
}

// PathStep is one hop AddPath materializes: "descend through pointer Tag in
// the current directory into group Group, creating either if absent."
type PathStep struct {
	Group Group
	Tag   Tag
}

// PathFor walks the structure table from group back to the root (GroupIFD0),
// returning the hops in root-to-leaf order. This is the one place the
// encoder's "create intermediate directories as needed" logic (spec.md
// §4.7) looks up how a group nests under the root.
func PathFor(group Group) ([]PathStep, error) {
	var steps []PathStep
	g := group
	for {
		info, ok := table[g]
		if !ok {
			return nil, Newf(KindPath, Key{Group: group}, "no structure row for group %s", g)
		}
		if info.Parent == GroupNone {
			return steps, nil
		}
		steps = append([]PathStep{{Group: g, Tag: info.ParentTag}}, steps...)
		g = info.Parent
	}
}
