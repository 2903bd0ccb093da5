package dom

import (
	"strings"
	"testing"

	"github.com/andybalholm/cascadia"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func parseBody(t *testing.T, src string) Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(src))
	require.NoError(t, err)
	body, ok := Wrap(doc).Find(cascadia.MustCompile("body"))
	require.True(t, ok)
	return body
}

func first(t *testing.T, root Node, sel string) Node {
	t.Helper()
	n, ok := root.Find(cascadia.MustCompile(sel))
	require.True(t, ok, "no match for %s", sel)
	return n
}

func TestClassify(t *testing.T) {
	body := parseBody(t, `
		<h3 id="h">Title</h3>
		<p id="p">text</p>
		<a id="link" href="/x">x</a>
		<a id="pdf" href="/files/Report.PDF">r</a>
		<a id="dl" download href="/any">d</a>
		<img id="img" src="a.png">
		<ul id="ul"><li id="li">one</li></ul>
		<ol id="ol"><li>two</li></ol>
		<blockquote id="bq">q</blockquote>
		<code id="code">c</code>
		<pre id="pre">p</pre>
		<b id="b">b</b><strong id="strong">s</strong>
		<i id="i">i</i><em id="em">e</em>
		<hr id="hr"><br id="br">
		<table id="table"><tr id="tr"><td id="td">1</td></tr></table>
		<iframe id="iframe" src="x"></iframe>
		<video id="video"></video>
		<audio id="audio"></audio>
		<svg id="svg" class="chart"></svg>
		<canvas id="canvas"></canvas>
		<div id="chart" class="big chart"></div>
		<div id="roleimg" role="img"></div>
		<section id="plotly" class="plotly"></section>
		<object id="object" data="x.swf"></object>
		<embed id="embed" src="x.swf">
		<figure id="figure"></figure>
		<script id="script">var a</script>
		<style id="style">p{}</style>
		<noscript id="noscript">n</noscript>
		<div id="div">d</div>
		<span id="span">s</span>
		<div id="charts" class="charts"></div>`)

	tests := []struct {
		sel  string
		want Kind
	}{
		{"#h", KindHeading},
		{"#p", KindParagraph},
		{"#link", KindAnchor},
		{"#pdf", KindDownload},
		{"#dl", KindDownload},
		{"#img", KindImage},
		{"#ul", KindList},
		{"#ol", KindList},
		{"#li", KindListItem},
		{"#bq", KindBlockquote},
		{"#code", KindInlineCode},
		{"#pre", KindCodeBlock},
		{"#b", KindBold},
		{"#strong", KindBold},
		{"#i", KindItalic},
		{"#em", KindItalic},
		{"#hr", KindRule},
		{"#br", KindLineBreak},
		{"#table", KindTable},
		{"#tr", KindTableRow},
		{"#td", KindTableCell},
		{"#iframe", KindFrame},
		{"#video", KindVideo},
		{"#audio", KindAudio},
		{"#svg", KindVector},
		{"#canvas", KindCanvas},
		{"#chart", KindChart},
		{"#roleimg", KindChart},
		{"#plotly", KindChart},
		{"#object", KindObject},
		{"#embed", KindObject},
		{"#figure", KindFigure},
		{"#script", KindSuppressed},
		{"#style", KindSuppressed},
		{"#noscript", KindSuppressed},
		{"#div", KindContainer},
		{"#span", KindContainer},
		{"#charts", KindContainer},
	}
	for _, tt := range tests {
		t.Run(tt.sel, func(t *testing.T) {
			assert.Equal(t, tt.want, first(t, body, tt.sel).Kind())
		})
	}
}

func TestClassifyTextAndZero(t *testing.T) {
	body := parseBody(t, `<p>hello</p>`)
	p := first(t, body, "p")
	children := p.Children()
	require.Len(t, children, 1)
	assert.Equal(t, KindText, Classify(children[0]))
	assert.Equal(t, KindSuppressed, Classify(Node{}))
}

func TestHeadingLevel(t *testing.T) {
	body := parseBody(t, `<h1>a</h1><h6>b</h6><header>c</header>`)
	assert.Equal(t, 1, first(t, body, "h1").HeadingLevel())
	assert.Equal(t, 6, first(t, body, "h6").HeadingLevel())
	assert.Equal(t, 0, first(t, body, "header").HeadingLevel())
}

func TestTextSkipsHiddenContent(t *testing.T) {
	body := parseBody(t, `<div id="d">Hello <script>evil()</script><b>world</b><style>x{}</style><!-- note --></div>`)
	d := first(t, body, "#d")
	assert.Equal(t, "Hello world", d.Text())
	assert.Equal(t, "Hello evil()worldx{}", d.RawText())
}

func TestChildrenSkipComments(t *testing.T) {
	body := parseBody(t, `<div id="d">a<!-- c --><span>b</span></div>`)
	d := first(t, body, "#d")
	assert.Len(t, d.Children(), 2)
	assert.Len(t, d.ElementChildren(), 1)
}

func TestAttrNamespaced(t *testing.T) {
	body := parseBody(t, `<svg><use xlink:href="#icon"></use></svg>`)
	use := first(t, body, "use")
	v, ok := use.Attr("xlink:href")
	require.True(t, ok)
	assert.Equal(t, "#icon", v)
	assert.False(t, use.HasAttr("href"))
}

func TestAttrOr(t *testing.T) {
	body := parseBody(t, `<img alt="  " title="t">`)
	img := first(t, body, "img")
	assert.Equal(t, "Image", img.AttrOr("alt", "Image"))
	assert.Equal(t, "t", img.AttrOr("title", "x"))
	assert.Equal(t, "d", img.AttrOr("src", "d"))
}

func TestHasAncestor(t *testing.T) {
	body := parseBody(t, `<ul><li><span id="s">x</span></li></ul><span id="free">y</span>`)
	assert.True(t, first(t, body, "#s").HasAncestor("ul", "ol"))
	assert.False(t, first(t, body, "#free").HasAncestor("ul", "ol"))
}

func TestFindExcludesSelf(t *testing.T) {
	body := parseBody(t, `<div class="x" id="outer"><div class="x" id="inner"></div></div>`)
	outer := first(t, body, "#outer")
	found, ok := outer.Find(cascadia.MustCompile(".x"))
	require.True(t, ok)
	id, _ := found.Attr("id")
	assert.Equal(t, "inner", id)
	assert.Len(t, outer.FindAll(cascadia.MustCompile(".x")), 1)
}

func TestOuterHTML(t *testing.T) {
	body := parseBody(t, `<p class="a">x &amp; y</p>`)
	assert.Equal(t, `<p class="a">x &amp; y</p>`, first(t, body, "p").OuterHTML())
	assert.Equal(t, "", Node{}.OuterHTML())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "vector", KindVector.String())
	assert.Equal(t, "unknown", Kind(999).String())
	assert.True(t, KindAnchor.IsInline())
	assert.False(t, KindParagraph.IsInline())
}
