package model

import (
	"net/url"
	"strings"
)

// Reference is the addressing information extracted from a hyperlink.
// It is used both for classification and for re-fetching the node later.
//
// A reference is either internal-reference-style (RefID and BaseClass are
// set) or router-style (Target carries an opaque token that the classifier
// sub-classifies by its prefix). Exactly one interpretation applies per link.
type Reference struct {
	// Href is the raw hyperlink target, kept verbatim for re-fetching.
	Href string

	// BaseClass is the dispatching GUI class named in the query string.
	BaseClass string

	// CmdClass, CmdNode, Cmd and ForwardCmd are the command routing
	// parameters. Empty when absent.
	CmdClass   string
	CmdNode    string
	Cmd        string
	ForwardCmd string

	// ThrPK and PosPK are the forum thread and post primary keys.
	ThrPK string
	PosPK string

	// RefID is the resolved internal reference id. For router-style links
	// the classifier fills it in from the target token.
	RefID string

	// Target is the opaque router token (e.g. "crs_1234"), when present.
	Target string
}

// ParseReference extracts addressing information from a hyperlink target.
// Relative hrefs are accepted; unknown query parameters are ignored.
// A href that does not parse at all yields a raw reference so the caller
// can still log or skip the link.
func ParseReference(href string) Reference {
	ref := Reference{Href: href}
	u, err := url.Parse(href)
	if err != nil {
		return ref
	}
	for k, vs := range u.Query() {
		if len(vs) == 0 {
			continue
		}
		v := vs[0]
		switch k {
		case "baseClass":
			ref.BaseClass = v
		case "cmdClass":
			ref.CmdClass = v
		case "cmdNode":
			ref.CmdNode = v
		case "cmd":
			ref.Cmd = v
		case "forwardCmd":
			ref.ForwardCmd = v
		case "thr_pk":
			ref.ThrPK = v
		case "pos_pk":
			ref.PosPK = v
		case "ref_id":
			ref.RefID = v
		case "target":
			ref.Target = v
		}
	}
	return ref
}

// RawReference wraps a href without interpreting its query string.
// Used for video links lifted out of table rows, which must not be
// re-classified.
func RawReference(href string) Reference {
	return Reference{Href: href}
}

// IsRouter reports whether the reference is router-style: an opaque target
// token on the goto dispatcher that must be sub-classified by its prefix.
func (r Reference) IsRouter() bool {
	return r.Target != "" && strings.Contains(r.Href, "goto.php")
}

// TargetID returns the second underscore-delimited segment of the router
// target token, which is the resolved reference id for crs_/frm_/fold_
// targets. Empty when the token has no such segment.
func (r Reference) TargetID() string {
	parts := strings.Split(r.Target, "_")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}
