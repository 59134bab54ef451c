package minify_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sitepress/internal/adapters/minify"
)

func TestMinifier_HTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "doctype keeps its case",
			in:   "<!DOCTYPE html>\n<html lang=\"en\">\n</html>\n",
			want: `<!DOCTYPE html><html lang="en"></html>`,
		},
		{
			name: "boolean and empty attributes",
			in:   `<input type="checkbox" checked="checked" disabled=""><img alt="" src="a.png">`,
			want: `<input type="checkbox" checked="checked" disabled=""><img alt="" src="a.png">`,
		},
		{
			name: "entities stay encoded",
			in:   "<p>&amp; &#39;c&#39; &nbsp;</p>",
			want: "<p>&amp; &#39;c&#39; &nbsp;</p>",
		},
		{
			name: "attribute values are untouched",
			in:   "<a\n   href=\"  /x  \"   class=\"  a   b \">x</a>",
			want: `<a href="  /x  " class="  a   b ">x</a>`,
		},
		{
			name: "comments are removed",
			in:   "<p>a <!-- note --> b</p>",
			want: "<p>a b</p>",
		},
		{
			name: "whitespace between blocks is dropped",
			in:   "<ul>\n  <li>One</li>\n  <li>Two</li>\n</ul>\n",
			want: "<ul><li>One</li><li>Two</li></ul>",
		},
		{
			name: "whitespace between inline elements collapses to a space",
			in:   "<p>\n  <b>bold</b>   <i>it</i>\n</p>",
			want: "<p><b>bold</b> <i>it</i></p>",
		},
		{
			name: "pre keeps its whitespace",
			in:   "<div>\n<pre>  a\n    <b>b</b>  </pre>\n</div>",
			want: "<div><pre>  a\n    <b>b</b>  </pre></div>",
		},
		{
			name: "raw text elements are copied",
			in:   "<style>\n  .hero  { color : red ; }\n</style>\n<script>\n  var  answer  =  42 ;\n</script>\n<textarea>  x\n  y </textarea>",
			want: "<style>\n  .hero  { color : red ; }\n</style><script>\n  var  answer  =  42 ;\n</script><textarea>  x\n  y </textarea>",
		},
		{
			name: "inline svg is copied",
			in:   `<div> <svg width="10.000"><rect  x="0"/></svg> </div>`,
			want: `<div><svg width="10.000"><rect  x="0"/></svg></div>`,
		},
		{
			name: "void tags",
			in:   "<p>a<br />\n b</p>",
			want: "<p>a<br/> b</p>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			require.NoError(t, minify.New().HTML(&out, strings.NewReader(tt.in)))
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestMinifier_SVG(t *testing.T) {
	icon := `<?xml version="1.0" encoding="UTF-8"?>
<!-- Generator: editor -->
<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24">
    <path d="M 0 0 L 10 10"/>
</svg>
`

	var out bytes.Buffer
	require.NoError(t, minify.New().SVG(&out, strings.NewReader(icon)))
	got := out.String()

	assert.NotContains(t, got, "Generator")
	assert.Contains(t, got, "viewBox")
	assert.Less(t, len(got), len(icon))
}
