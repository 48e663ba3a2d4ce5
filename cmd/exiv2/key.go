package main

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/obklar/exiv2/metadata"
)

// parseKey parses a "Family.Group.Tag" string, e.g. "Exif.Exif.ExposureTime"
// or "Exif.GPS.GPSLatitude", into the metadata.Key it names.
func parseKey(s string) (metadata.Key, error) {
	parts := strings.SplitN(s, ".", 3)
	if len(parts) != 3 {
		return metadata.Key{}, errors.Errorf("exiv2: key %q must have the form Family.Group.Tag", s)
	}
	var family metadata.Family
	switch strings.ToLower(parts[0]) {
	case "exif":
		family = metadata.Exif
	case "iptc":
		family = metadata.IPTC
	case "xmp":
		family = metadata.XMP
	default:
		return metadata.Key{}, errors.Errorf("exiv2: unknown family %q", parts[0])
	}
	return metadata.Key{Family: family, Group: parts[1], Tag: parts[2]}, nil
}
