// Package xmp provides the minimal XMP packet handling the TIFF decoder
// needs: finding where a packet actually starts, and pulling out simple
// attribute-form properties. A full RDF/XML object model is out of scope
// per spec.md §1 — callers that need more than flat key/value pairs should
// parse e.Value.Data themselves with a real XML library.
package xmp

import "regexp"

// StripLeading trims bytes some writers prepend before the packet's actual
// opening tag (a stray length-prefix byte, padding), matching spec.md
// §4.6(d)'s decoder-side special case.
func StripLeading(data []byte) []byte {
	for i, b := range data {
		if b == '<' {
			return data[i:]
		}
	}
	return data
}

// attrPattern matches simple attribute-form XMP properties inside an
// rdf:Description element, e.g. `xmp:Rating="5"` or `dc:creator="Jane"`.
// Structured (bag/seq/alt) properties are not unpacked; spec.md's XMP
// collaborator contract only asks for the packet's bytes to be located and
// handed off intact, not deeply modeled.
var attrPattern = regexp.MustCompile(`([A-Za-z]+:[A-Za-z0-9]+)="([^"]*)"`)

// Parse extracts every simple attribute-form property from packet and
// returns them keyed by their qualified name (e.g. "dc:creator").
// Namespace declarations (xmlns:*) and the rdf:about attribute are
// excluded, as neither is a metadata value.
func Parse(packet []byte) map[string]string {
	out := map[string]string{}
	for _, m := range attrPattern.FindAllSubmatch(packet, -1) {
		name := string(m[1])
		if name == "rdf:about" || hasPrefix(name, "xmlns:") {
			continue
		}
		out[name] = string(m[2])
	}
	return out
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}
