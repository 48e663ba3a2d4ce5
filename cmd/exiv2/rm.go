package main

import (
	"github.com/spf13/cobra"

	"github.com/obklar/exiv2/exif"
	"github.com/obklar/exiv2/tiff/diag"
)

func newRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <file> <key>",
		Short: "remove a metadata key and rewrite the file",
		Args:  cobra.ExactArgs(2),
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
			m.Delete(key)
			if _, err := exif.Encode(src.tree, src.order, m); err != nil {
				return err
			}
			return saveFile(args[0], src)
		},
	}
}
