package main

import (
	"github.com/spf13/cobra"

	"github.com/obklar/exiv2/exif"
	"github.com/obklar/exiv2/metadata"
	"github.com/obklar/exiv2/tiff/diag"
)

func newSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <file> <key> <value>",
		Short: "set a metadata value and rewrite the file (ASCII values only)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := parseKey(args[1])
			if err != nil {
				return err
			}
			src, err := loadFile(args[0], diag.Discard)
			if err != nil {
				return err
			}
			m := exif.Decode(src.tree, src.order, diag.Discard)
			m.Set(key, metadata.Value{Text: args[2], Raw: args[2]})
			if _, err := exif.Encode(src.tree, src.order, m); err != nil {
				return err
			}
			return saveFile(args[0], src)
		},
	}
}
