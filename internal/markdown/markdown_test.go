package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderHeadings(t *testing.T) {
	doc := Render("# Title\n## Section")
	require.Len(t, doc.Blocks, 2)
	assert.Equal(t, KindHeading1, doc.Blocks[0].Kind)
	assert.Equal(t, "Title", doc.Blocks[0].Text)
	assert.Equal(t, KindHeading2, doc.Blocks[1].Kind)
	assert.Equal(t, "Section", doc.Blocks[1].Text)
}

func TestRenderListItemEmphasis(t *testing.T) {
	doc := Render("- a **b** c")
	require.Len(t, doc.Blocks, 1)
	blk := doc.Blocks[0]
	assert.Equal(t, KindListItem, blk.Kind)
	assert.Equal(t, []Span{
		{Kind: SpanText, Text: "a "},
		{Kind: SpanStrong, Text: "b"},
		{Kind: SpanText, Text: " c"},
	}, blk.Spans)
	assert.Equal(t, "<ul><li>a <strong>b</strong> c</li></ul>", doc.HTML())
}

func TestRenderEscapesEveryKind(t *testing.T) {
	src := strings.Join([]string{
		"# <script>alert(1)</script>",
		"## <script>",
		"- <script> & 'x'",
		`<script>"y"</script>`,
	}, "\n")
	doc := Render(src)
	require.Len(t, doc.Blocks, 4)
	for _, blk := range doc.Blocks {
		assert.NotContains(t, blk.Text, "<script>", blk.Kind.String())
		assert.Contains(t, blk.Text, "&lt;script&gt;", blk.Kind.String())
		for _, s := range blk.Spans {
			assert.NotContains(t, s.Text, "<")
		}
	}
	html := doc.HTML()
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "<li>&lt;script&gt; &amp; &#039;x&#039;</li>")
	assert.Contains(t, html, "<p>&lt;script&gt;&quot;y&quot;&lt;/script&gt;</p>")
}

func TestRenderEscapesBeforeEmphasis(t *testing.T) {
	doc := Render("**<b>**")
	require.Len(t, doc.Blocks, 1)
	assert.Equal(t, []Span{{Kind: SpanStrong, Text: "&lt;b&gt;"}}, doc.Blocks[0].Spans)
	assert.Equal(t, "<p><strong>&lt;b&gt;</strong></p>", doc.HTML())
}

func TestRenderHeadingKeepsMarkersLiteral(t *testing.T) {
	doc := Render("# a **b**")
	assert.Equal(t, "a **b**", doc.Blocks[0].Text)
	assert.Equal(t, "<h1>a **b**</h1>", doc.HTML())
}

func TestRenderListGrouping(t *testing.T) {
	doc := Render("- one\n- two\n\n- three\nplain\n- four")
	require.Len(t, doc.Blocks, 5)
	assert.Equal(t, 1, doc.Blocks[0].List)
	assert.Equal(t, 1, doc.Blocks[1].List)
	assert.Equal(t, 2, doc.Blocks[2].List)
	assert.Equal(t, 0, doc.Blocks[3].List)
	assert.Equal(t, 3, doc.Blocks[4].List)
	assert.Equal(t, "<ul><li>one</li><li>two</li></ul><ul><li>three</li></ul><p>plain</p><ul><li>four</li></ul>", doc.HTML())
}

func TestRenderHeadingClosesList(t *testing.T) {
	doc := Render("- a\n## H\n- b")
	assert.Equal(t, "<ul><li>a</li></ul><h2>H</h2><ul><li>b</li></ul>", doc.HTML())
}

func TestRenderTrimsTrailingWhitespace(t *testing.T) {
	doc := Render("# Title   \r\n- item\t\r\n   \r\ntext  ")
	require.Len(t, doc.Blocks, 3)
	assert.Equal(t, "Title", doc.Blocks[0].Text)
	assert.Equal(t, "item", doc.Blocks[1].Text)
	assert.Equal(t, "text", doc.Blocks[2].Text)
}

func TestRenderBarePrefixesAreParagraphs(t *testing.T) {
	doc := Render("# \n-\n###x")
	require.Len(t, doc.Blocks, 3)
	for _, blk := range doc.Blocks {
		assert.Equal(t, KindParagraph, blk.Kind)
	}
	assert.Equal(t, "#", doc.Blocks[0].Text)
}

func TestRenderEmphasisDoesNotNest(t *testing.T) {
	doc := Render("**a **b** c**")
	assert.Equal(t, []Span{
		{Kind: SpanStrong, Text: "a "},
		{Kind: SpanText, Text: "b"},
		{Kind: SpanStrong, Text: " c"},
	}, doc.Blocks[0].Spans)

	doc = Render("x **** y [link](http://e)")
	assert.Equal(t, []Span{{Kind: SpanText, Text: "x **** y [link](http://e)"}}, doc.Blocks[0].Spans)
}

func TestRenderIsPure(t *testing.T) {
	src := "# R\n- **1** & <2>\n\npara 'q'"
	assert.Equal(t, Render(src), Render(src))
	assert.Equal(t, Render(src).HTML(), Render(src).HTML())
}

func TestRenderEmpty(t *testing.T) {
	assert.Empty(t, Render("").Blocks)
	assert.Equal(t, "", Render("\n\n").HTML())
}

func TestPlainText(t *testing.T) {
	doc := Render("# Report\n## Stats\n- 3 sessions, **12.50** total\n- a & b\n\nDone <ok>")
	want := "Report\n======\n\nStats\n-----\n\n  • 3 sessions, 12.50 total\n  • a & b\n\nDone <ok>\n"
	assert.Equal(t, want, doc.PlainText())
}

func TestMarkdownEscapesLiteralSyntax(t *testing.T) {
	doc := Render("# Top 5. merchants\n- **Dorm A** [x](y)\n- `code` & <b>\n1. not a list")
	want := "# Top 5\\. merchants\n\n" +
		"- **Dorm A** \\[x\\]\\(y\\)\n" +
		"- \\`code\\` \\& \\<b\\>\n\n" +
		"1\\. not a list\n"
	assert.Equal(t, want, doc.Markdown())
}

func TestMarkdownKeepsEntitiesLiteral(t *testing.T) {
	doc := Render("price &amp; tax\n=====")
	assert.Equal(t, "price \\&amp; tax\n\n\\=\\=\\=\\=\\=\n", doc.Markdown())
}

func TestMarkdownDropsLeadingIndent(t *testing.T) {
	doc := Render("    indented paragraph\n-     indented item")
	assert.Equal(t, "indented paragraph\n\n- indented item\n", doc.Markdown())
}

func TestMarkdownStrongSpacesOutsideDelimiters(t *testing.T) {
	doc := Render("- item with ** spaced **now")
	assert.Equal(t, "- item with  **spaced** now\n", doc.Markdown())

	doc = Render("** lead**")
	assert.Equal(t, "**lead**\n", doc.Markdown())
}
