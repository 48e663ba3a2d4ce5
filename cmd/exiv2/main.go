// Command exiv2 reads the Exif/IPTC/XMP metadata of a TIFF or JPEG file and
// edits its Exif metadata (IPTC and XMP are not written back): print, get,
// set, rm and rewrite, merged into one multi-command
// binary in place of tiff66print/tiff66repack's two single-purpose mains.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "exiv2",
		Short:         "inspect and edit TIFF/Exif/IPTC/XMP metadata",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newPrintCmd(), newGetCmd(), newSetCmd(), newRmCmd(), newRewriteCmd())
	return root
}
