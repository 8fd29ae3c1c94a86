package classify

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/campus-tools/iliasdl/internal/model"
)

// ErrNoHref is returned when the link element carries no href attribute.
var ErrNoHref = errors.New("link has no href attribute")

// itemProperty selects the metadata spans of a container list item.
// The first span of a file item holds the extension, the second the
// version label.
const itemProperty = "span.il_ItemProperty"

// versionPrefix marks the metadata span that contributes a version suffix
// to a file name.
const versionPrefix = "Version: "

// FromLink classifies a hyperlink into a typed content node.
//
// link is the anchor element; item is its enclosing list item, consulted
// only for file metadata spans. For links outside a container listing
// (content tree, forum tables) callers pass the link itself as item.
func FromLink(item, link *goquery.Selection) (model.Node, error) {
	href, ok := link.Attr("href")
	if !ok {
		return model.Node{}, ErrNoHref
	}

	name := strings.TrimSpace(strings.ReplaceAll(link.Text(), "/", "-"))
	ref := model.ParseReference(href)

	// Rule 1: a thread primary key wins over every other marker.
	if ref.ThrPK != "" {
		return model.Node{Kind: model.KindThread, Ref: ref}, nil
	}

	// Rule 2: router-style links dispatch on the target prefix.
	if ref.IsRouter() {
		return fromRouterLink(item, name, ref)
	}

	// Rule 3: the thread-list command marks a forum.
	if ref.Cmd == "showThreads" {
		return model.Node{Kind: model.KindForum, Name: name, Ref: ref}, nil
	}

	// Rule 4: base class dispatch. The class name is *sometimes* CamelCase.
	switch strings.ToLower(ref.BaseClass) {
	case "ilexercisehandlergui":
		return model.Node{Kind: model.KindExerciseHandler, Name: name, Ref: ref}, nil
	case "ililwikihandlergui":
		return model.Node{Kind: model.KindWiki, Name: name, Ref: ref}, nil
	case "ilrepositorygui":
		switch {
		case ref.Cmd == "view":
			return model.Node{Kind: model.KindFolder, Name: name, Ref: ref}, nil
		case ref.Cmd != "":
			return model.Node{Kind: model.KindGeneric, Name: name, Ref: ref}, nil
		default:
			return model.Node{Kind: model.KindCourse, Name: name, Ref: ref}, nil
		}
	case "ilobjplugindispatchgui":
		return model.Node{Kind: model.KindPluginDispatch, Name: name, Ref: ref}, nil
	default:
		return model.Node{Kind: model.KindGeneric, Name: name, Ref: ref}, nil
	}
}

// fromRouterLink sub-classifies a router-style link by its target prefix.
func fromRouterLink(item *goquery.Selection, name string, ref model.Reference) (model.Node, error) {
	switch {
	case strings.HasPrefix(ref.Target, "wiki_"):
		return model.Node{Kind: model.KindWiki, Name: name, Ref: ref}, nil
	case strings.HasPrefix(ref.Target, "root_"):
		// magazine link
		return model.Node{Kind: model.KindGeneric, Name: name, Ref: ref}, nil
	case strings.HasPrefix(ref.Target, "crs_"):
		ref.RefID = ref.TargetID()
		return model.Node{Kind: model.KindCourse, Name: name, Ref: ref}, nil
	case strings.HasPrefix(ref.Target, "frm_"):
		ref.RefID = ref.TargetID()
		return model.Node{Kind: model.KindForum, Name: name, Ref: ref}, nil
	case strings.HasPrefix(ref.Target, "lm_"):
		// interactive learning module, not traversed
		return model.Node{Kind: model.KindGeneric, Name: name, Ref: ref}, nil
	case strings.HasPrefix(ref.Target, "fold_"):
		ref.RefID = ref.TargetID()
		return model.Node{Kind: model.KindFolder, Name: name, Ref: ref}, nil
	case strings.HasPrefix(ref.Target, "file_"):
		return fromFileLink(item, name, ref)
	default:
		return model.Node{Kind: model.KindGeneric, Name: name, Ref: ref}, nil
	}
}

// fromFileLink handles the file_ router target. A target without the
// download suffix is a metadata page, not the file itself. The real file
// name is assembled from the item's metadata spans: the first span holds
// the extension, the second an optional "Version: n" label that becomes a
// _v<n> suffix.
func fromFileLink(item *goquery.Selection, name string, ref model.Reference) (model.Node, error) {
	if !strings.HasSuffix(ref.Target, "download") {
		// metadata page; the file itself is listed in its folder anyway
		return model.Node{Kind: model.KindGeneric, Name: name, Ref: ref}, nil
	}

	props := item.Find(itemProperty)
	if props.Length() == 0 {
		return model.Node{}, fmt.Errorf("file link %q: no metadata spans in enclosing item", ref.Href)
	}
	ext := strings.TrimSpace(props.Eq(0).Text())

	if version := strings.TrimSpace(props.Eq(1).Text()); strings.HasPrefix(version, versionPrefix) {
		name += "_v" + strings.TrimPrefix(version, versionPrefix)
	}

	return model.Node{
		Kind: model.KindFile,
		Name: fmt.Sprintf("%s.%s", name, ext),
		Ref:  ref,
	}, nil
}
