package xmp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStripLeading(t *testing.T) {
	data := []byte("\x00\x00junk<?xpacket begin?><x:xmpmeta/>")
	require.Equal(t, []byte("<?xpacket begin?><x:xmpmeta/>"), StripLeading(data))
}

func TestStripLeadingNoTag(t *testing.T) {
	data := []byte("no tag here")
	require.Equal(t, data, StripLeading(data))
}

func TestParse(t *testing.T) {
	packet := []byte(`<x:xmpmeta><rdf:RDF><rdf:Description rdf:about=""
		xmlns:dc="http://purl.org/dc/elements/1.1/"
		xmlns:xmp="http://ns.adobe.com/xap/1.0/"
		dc:creator="Jane Doe"
		xmp:Rating="5"/></rdf:RDF></x:xmpmeta>`)

	props := Parse(packet)
	require.Equal(t, "Jane Doe", props["dc:creator"])
	require.Equal(t, "5", props["xmp:Rating"])
	require.NotContains(t, props, "rdf:about")
	require.NotContains(t, props, "xmlns:dc")
}
