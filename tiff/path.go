package tiff

// AddPath materializes (creating as needed) the chain of SubIFD/Makernote
// directories from root down to the directory for group, then
// returns that directory. Used exclusively by exif.Encode when a key is set
// that doesn't exist in the tree yet (spec.md §4.7).
func (d *Directory) AddPath(group Group) (*Directory, error) {
	steps, err := PathFor(group)
	if err != nil {
		return nil, err
	}
	cur := d
	for _, step := range steps {
		e := cur.Find(step.Tag)
		if e == nil {
			e = &Entry{Tag: step.Tag, Group: cur.Group, Kind: KindSubIFD}
			if err := cur.AddChild(e); err != nil {
				return nil, err
			}
		}
		if len(e.Children) == 0 {
			child := NewDirectory(step.Group, cur.Order)
			e.Children = []*Directory{child}
			e.Kind = KindSubIFD
			cur.MarkDirty()
		}
		cur = e.Children[0]
	}
	return cur, nil
}
