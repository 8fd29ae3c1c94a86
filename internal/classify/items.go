package classify

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"github.com/campus-tools/iliasdl/internal/model"
)

// Selectors for container listings.
const (
	containerItem      = "div.il_ContainerListItem"
	containerItemTitle = "a.il_ContainerItemTitle"
)

// Items classifies every container list item of a course or folder page.
// An item without a title link is a structural parse error; the listing as
// a whole fails rather than silently dropping entries.
func Items(doc *goquery.Document) ([]model.Node, error) {
	var nodes []model.Node
	var firstErr error

	doc.Find(containerItem).EachWithBreak(func(_ int, item *goquery.Selection) bool {
		link := item.Find(containerItemTitle).First()
		if link.Length() == 0 {
			firstErr = fmt.Errorf("container item without title link")
			return false
		}
		node, err := FromLink(item, link)
		if err != nil {
			firstErr = err
			return false
		}
		nodes = append(nodes, node)
		return true
	})

	return nodes, firstErr
}

// TreeItems classifies every anchor of a content-tree fragment. Anchors
// without a href belong to disabled entries and are skipped.
func TreeItems(doc *goquery.Document) []model.Node {
	var nodes []model.Node

	doc.Find("a").Each(func(_ int, link *goquery.Selection) {
		if href, ok := link.Attr("href"); !ok || href == "" {
			return
		}
		node, err := FromLink(link, link)
		if err != nil {
			return
		}
		nodes = append(nodes, node)
	})

	return nodes
}
