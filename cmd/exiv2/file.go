package main

import (
	"encoding/binary"
	"os"

	"github.com/pkg/errors"

	"github.com/obklar/exiv2/jpegseg"
	"github.com/obklar/exiv2/tiff"
	"github.com/obklar/exiv2/tiff/diag"
)

// source holds everything a loaded file's tree needs to be read back out:
// the tree itself, the byte order it was read with, and (for a bare TIFF
// file only) whether it can be rewritten in place. A JPEG's Exif payload is
// one APP1 segment among several this command doesn't model, so rewrite is
// scoped to TIFF files, matching spec.md's non-goal against full-container
// re-serialization.
type source struct {
	tree       *tiff.Directory
	order      binary.ByteOrder
	rewritable bool
}

func loadFile(path string, sink diag.Sink) (*source, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "exiv2: read file")
	}

	if len(buf) >= 2 && buf[0] == 0xFF && buf[1] == 0xD8 {
		segs, err := jpegseg.Scan(buf)
		if err != nil {
			return nil, err
		}
		payload := jpegseg.ExifPayload(segs)
		if payload == nil {
			return nil, errors.New("exiv2: no Exif segment found in JPEG file")
		}
		order, ifdPos, ok := tiff.DetectHeader(payload)
		if !ok {
			return nil, errors.New("exiv2: malformed Exif TIFF header")
		}
		tree, err := tiff.Read(payload, order, ifdPos, sink)
		if err != nil {
			return nil, err
		}
		return &source{tree: tree, order: order}, nil
	}

	order, ifdPos, ok := tiff.DetectHeader(buf)
	if !ok {
		return nil, errors.New("exiv2: not a recognized TIFF or JPEG file")
	}
	tree, err := tiff.Read(buf, order, ifdPos, sink)
	if err != nil {
		return nil, err
	}
	return &source{tree: tree, order: order, rewritable: true}, nil
}

func saveFile(path string, src *source) error {
	if !src.rewritable {
		return errors.New("exiv2: rewriting is only supported for bare TIFF files, not JPEG containers")
	}
	src.tree.Fix()
	header := make([]byte, 8)
	if src.order == binary.LittleEndian {
		header[0], header[1] = 'I', 'I'
	} else {
		header[0], header[1] = 'M', 'M'
	}
	src.order.PutUint16(header[2:4], 42)
	src.order.PutUint32(header[4:8], 8)

	buf := make([]byte, 8+src.tree.TreeSize())
	copy(buf, header)
	if _, err := src.tree.PutTree(buf, 8); err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0o644)
}
