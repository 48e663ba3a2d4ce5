package exif

import (
	"fmt"

	"github.com/obklar/exiv2/tiff"
	"github.com/obklar/exiv2/tiff/makernote"
)

// tagNames gives the well-known TIFF/Exif/GPS tags human names; anything
// absent falls back to its hex form, which is still a stable, round-trip
// safe metadata.Key — vendor Makernote tags in particular are far too
// numerous and poorly documented to name exhaustively here.
var tagNames = map[tiff.Key]string{
	{Group: tiff.GroupIFD0, Tag: tiff.TagImageWidth}:      "ImageWidth",
	{Group: tiff.GroupIFD0, Tag: tiff.TagImageLength}:     "ImageLength",
	{Group: tiff.GroupIFD0, Tag: tiff.TagCompression}:     "Compression",
	{Group: tiff.GroupIFD0, Tag: tiff.TagMake}:            "Make",
	{Group: tiff.GroupIFD0, Tag: tiff.TagModel}:           "Model",
	{Group: tiff.GroupIFD0, Tag: tiff.TagStripOffsets}:    "StripOffsets",
	{Group: tiff.GroupIFD0, Tag: tiff.TagStripByteCounts}: "StripByteCounts",
	{Group: tiff.GroupIFD0, Tag: tiff.TagExifIFD}:         "ExifTag",
	{Group: tiff.GroupIFD0, Tag: tiff.TagGPSIFD}:          "GPSTag",
	{Group: tiff.GroupIFD0, Tag: tiff.TagXMP}:             "XMLPacket",
	{Group: tiff.GroupIFD0, Tag: tiff.TagIPTC}:            "IPTCNAA",
	{Group: tiff.GroupIFD0, Tag: tiff.TagPhotoshop}:       "Photoshop",
	{Group: tiff.GroupIFD0, Tag: tiff.TagNewSubfileType}:  "NewSubfileType",

	{Group: tiff.GroupThumbnail, Tag: tiff.TagNewSubfileType}:         "NewSubfileType",
	{Group: tiff.GroupThumbnail, Tag: tiff.TagImageWidth}:             "ImageWidth",
	{Group: tiff.GroupThumbnail, Tag: tiff.TagImageLength}:            "ImageLength",
	{Group: tiff.GroupThumbnail, Tag: tiff.TagCompression}:            "Compression",
	{Group: tiff.GroupThumbnail, Tag: tiff.TagStripOffsets}:           "StripOffsets",
	{Group: tiff.GroupThumbnail, Tag: tiff.TagStripByteCounts}:        "StripByteCounts",
	{Group: tiff.GroupThumbnail, Tag: tiff.TagJPEGInterchangeFormat}:  "JPEGInterchangeFormat",
	{Group: tiff.GroupThumbnail, Tag: tiff.TagJPEGInterchangeFormatL}: "JPEGInterchangeFormatLength",

	{Group: tiff.GroupExif, Tag: tiff.TagMakernote}:   "MakerNote",
	{Group: tiff.GroupExif, Tag: tiff.TagUserComment}: "UserComment",
	{Group: tiff.GroupExif, Tag: tiff.TagInteropIFD}:  "InteroperabilityTag",
	{Group: tiff.GroupExif, Tag: 0x9000}:              "ExifVersion",
	{Group: tiff.GroupExif, Tag: 0x9003}:              "DateTimeOriginal",
	{Group: tiff.GroupExif, Tag: 0x829A}:              "ExposureTime",
	{Group: tiff.GroupExif, Tag: 0x829D}:              "FNumber",
	{Group: tiff.GroupExif, Tag: 0x8827}:              "ISOSpeedRatings",

	{Group: tiff.GroupGPS, Tag: 0x0000}: "GPSVersionID",
	{Group: tiff.GroupGPS, Tag: 0x0001}: "GPSLatitudeRef",
	{Group: tiff.GroupGPS, Tag: 0x0002}: "GPSLatitude",
	{Group: tiff.GroupGPS, Tag: 0x0003}: "GPSLongitudeRef",
	{Group: tiff.GroupGPS, Tag: 0x0004}: "GPSLongitude",

	{Group: makernote.GroupCanon, Tag: 0x0001}: "CameraSettings",

	{Group: makernote.GroupCanonCs, Tag: makernote.TagCsMacroMode}:       "MacroMode",
	{Group: makernote.GroupCanonCs, Tag: makernote.TagCsSelfTimer}:       "SelfTimer",
	{Group: makernote.GroupCanonCs, Tag: makernote.TagCsQuality}:         "Quality",
	{Group: makernote.GroupCanonCs, Tag: makernote.TagCsFlashMode}:       "FlashMode",
	{Group: makernote.GroupCanonCs, Tag: makernote.TagCsDriveMode}:       "DriveMode",
	{Group: makernote.GroupCanonCs, Tag: makernote.TagCsFocusMode}:       "FocusMode",
	{Group: makernote.GroupCanonCs, Tag: makernote.TagCsImageSize}:       "ImageSize",
	{Group: makernote.GroupCanonCs, Tag: makernote.TagCsEasyMode}:        "EasyMode",
	{Group: makernote.GroupCanonCs, Tag: makernote.TagCsDigitalZoom}:     "DigitalZoom",
	{Group: makernote.GroupCanonCs, Tag: makernote.TagCsContrast}:        "Contrast",
	{Group: makernote.GroupCanonCs, Tag: makernote.TagCsSaturation}:      "Saturation",
	{Group: makernote.GroupCanonCs, Tag: makernote.TagCsSharpness}:       "Sharpness",
	{Group: makernote.GroupCanonCs, Tag: makernote.TagCsISOSpeed}:        "ISOSpeed",
	{Group: makernote.GroupCanonCs, Tag: makernote.TagCsMeteringMode}:    "MeteringMode",
	{Group: makernote.GroupCanonCs, Tag: makernote.TagCsFocusType}:       "FocusType",
	{Group: makernote.GroupCanonCs, Tag: makernote.TagCsAFPointSelected}: "AFPointSelected",
	{Group: makernote.GroupCanonCs, Tag: makernote.TagCsExposureMode}:    "ExposureMode",
}

func tagName(group tiff.Group, tag tiff.Tag) string {
	if n, ok := tagNames[tiff.Key{Group: group, Tag: tag}]; ok {
		return n
	}
	return fmt.Sprintf("0x%04x", uint16(tag))
}

var tagByName = func() map[tiff.Group]map[string]tiff.Tag {
	m := map[tiff.Group]map[string]tiff.Tag{}
	for k, name := range tagNames {
		if m[k.Group] == nil {
			m[k.Group] = map[string]tiff.Tag{}
		}
		m[k.Group][name] = k.Tag
	}
	return m
}()

// tagByNameOrHex inverts tagName: a name previously produced by tagName
// (either a registered name or an "0xNNNN" fallback) maps back to its
// numeric tag.
func tagByNameOrHex(group tiff.Group, name string) (tiff.Tag, bool) {
	if t, ok := tagByName[group][name]; ok {
		return t, true
	}
	var n uint16
	if _, err := fmt.Sscanf(name, "0x%04x", &n); err == nil {
		return tiff.Tag(n), true
	}
	return 0, false
}
