package htmlutil

import (
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestGetAnchors(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`
		<div>
			<a href="https://a.example/page">  First
				<b>link</b>  </a>
			<a>no href</a>
			<a href="">empty</a>
			<a href=" /relative ">Second</a>
			<a href="https://c.example/thumb"><img src="c.png"></a>
		</div>`))
	require.NoError(t, err)

	anchors := GetAnchors(context.Background(), doc.Find("a"))
	require.Equal(t, []Anchor{
		{Name: "First link", Href: "https://a.example/page"},
		{Name: "Second", Href: "/relative"},
		{Name: "", Href: "https://c.example/thumb"},
	}, anchors)
}
