package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/obklar/exiv2/exif"
	"github.com/obklar/exiv2/tiff/diag"
)

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <file> <key>",
		Short: "print one metadata value (key is Family.Group.Tag, e.g. Exif.Exif.ExposureTime)",
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
			v, ok := m.Get(key)
			if !ok {
				return errors.Errorf("exiv2: key %q not found", args[1])
			}
			fmt.Println(v.Text)
			return nil
		},
	}
}
