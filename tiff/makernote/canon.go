package makernote

import (
	"encoding/binary"

	"github.com/obklar/exiv2/tiff"
)

// GroupCanonCs names the synthetic group Canon's CameraSettings array (tag
// 0x0001) decomposes into: each field below becomes its own Entry under
// this group instead of staying buried in one opaque SHORT array, per
// CanonMakerNote::print0x0001's field table in the original exiv2 sources.
const GroupCanonCs tiff.Group = GroupApple + 1

// Canon CameraSettings field indices, named per print0x0001. Index 0 is the
// array's own element count and is not exposed as a field; the gaps (6, 8,
// 9) are indices the original leaves unlabeled and this module skips for
// the same reason.
const (
	TagCsMacroMode       tiff.Tag = 1
	TagCsSelfTimer       tiff.Tag = 2
	TagCsQuality         tiff.Tag = 3
	TagCsFlashMode       tiff.Tag = 4
	TagCsDriveMode       tiff.Tag = 5
	TagCsFocusMode       tiff.Tag = 7
	TagCsImageSize       tiff.Tag = 10
	TagCsEasyMode        tiff.Tag = 11
	TagCsDigitalZoom     tiff.Tag = 12
	TagCsContrast        tiff.Tag = 13
	TagCsSaturation      tiff.Tag = 14
	TagCsSharpness       tiff.Tag = 15
	TagCsISOSpeed        tiff.Tag = 16
	TagCsMeteringMode    tiff.Tag = 17
	TagCsFocusType       tiff.Tag = 18
	TagCsAFPointSelected tiff.Tag = 19
	TagCsExposureMode    tiff.Tag = 20
)

var canonCsFieldNames = map[tiff.Tag]string{
	TagCsMacroMode:       "MacroMode",
	TagCsSelfTimer:       "SelfTimer",
	TagCsQuality:         "Quality",
	TagCsFlashMode:       "FlashMode",
	TagCsDriveMode:       "DriveMode",
	TagCsFocusMode:       "FocusMode",
	TagCsImageSize:       "ImageSize",
	TagCsEasyMode:        "EasyMode",
	TagCsDigitalZoom:     "DigitalZoom",
	TagCsContrast:        "Contrast",
	TagCsSaturation:      "Saturation",
	TagCsSharpness:       "Sharpness",
	TagCsISOSpeed:        "ISOSpeed",
	TagCsMeteringMode:    "MeteringMode",
	TagCsFocusType:       "FocusType",
	TagCsAFPointSelected: "AFPointSelected",
	TagCsExposureMode:    "ExposureMode",
}

func init() {
	tiff.RegisterGroupName(GroupCanonCs, "CanonCs")
	tiff.RegisterArrayDecomposer(GroupCanon, canonCameraSettingsTag, decomposeCanonCs)
}

const canonCameraSettingsTag tiff.Tag = 0x0001

// decomposeCanonCs reads v (a SHORT array, index 0 holding the array's own
// element count) and produces one Entry per named field in
// canonCsFieldNames, skipping any index the array is too short to cover.
func decomposeCanonCs(v *tiff.Value, order binary.ByteOrder) []*tiff.Entry {
	var elements []*tiff.Entry
	for idx := uint32(1); idx < v.Count; idx++ {
		tag := tiff.Tag(idx)
		if _, named := canonCsFieldNames[tag]; !named {
			continue
		}
		n, err := v.AnyInteger(idx, order)
		if err != nil {
			continue
		}
		ev := &tiff.Value{Type: tiff.Short, Count: 1, Data: make([]byte, 2), IsAllocated: true}
		if err := tiff.PutShort(ev.Data, 0, order, uint16(n)); err != nil {
			continue
		}
		elements = append(elements, &tiff.Entry{Tag: tag, Group: GroupCanonCs, Kind: tiff.KindEntry, Value: ev})
	}
	return elements
}
