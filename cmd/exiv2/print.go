package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/obklar/exiv2/exif"
	"github.com/obklar/exiv2/tiff/diag"
)

func newPrintCmd() *cobra.Command {
	var warn bool
	cmd := &cobra.Command{
		Use:   "print <file>",
		Short: "print every decoded metadata key and value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var sink diag.Sink = diag.Discard
			if warn {
				sink = diag.NewLogger(nil)
			}
			src, err := loadFile(args[0], sink)
			if err != nil {
				return err
			}
			m := exif.Decode(src.tree, src.order, sink)
			for _, k := range m.Keys() {
				v, _ := m.Get(k)
				fmt.Printf("%-40s %s\n", k.String(), v.Text)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&warn, "warn", false, "log elided/malformed entries to stderr")
	return cmd
}
