package main

import (
	"github.com/spf13/cobra"

	"github.com/obklar/exiv2/tiff/diag"
)

// newRewriteCmd round-trips a TIFF file through Read/Fix/PutTree unchanged,
// grounded on tiff66repack.go's read-then-rewrite idiom — useful for
// normalizing entry order and dropping empty sub-IFDs left over from an
// editor that didn't clean up after itself (Directory.DeleteEmptyIFDs).
func newRewriteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rewrite <file>",
		Short: "read and rewrite a TIFF file, normalizing its layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := loadFile(args[0], diag.NewLogger(nil))
			if err != nil {
				return err
			}
			if pruned := src.tree.DeleteEmptyIFDs(); pruned != nil {
				src.tree = pruned
			}
			return saveFile(args[0], src)
		},
	}
}
