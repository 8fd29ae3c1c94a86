package model

// Kind identifies the variant of a content node.
//
// Design decision: We use iota-based constants rather than string constants
// for efficiency in comparisons and switch dispatch. The String() method
// provides human-readable output for logging.
type Kind int

const (
	// KindCourse is a course container listed on the personal desktop or
	// inside another container.
	KindCourse Kind = iota

	// KindFolder is a plain folder inside a course.
	KindFolder

	// KindFile is a downloadable file.
	KindFile

	// KindForum is a discussion forum holding threads.
	KindForum

	// KindThread is a single forum thread. Threads carry no display name at
	// classification time; they are keyed by their thread primary key.
	KindThread

	// KindWiki is a wiki container. Not traversed.
	KindWiki

	// KindExerciseHandler is an exercise container. Not traversed.
	KindExerciseHandler

	// KindPluginDispatch is an Opencast video plugin container.
	KindPluginDispatch

	// KindVideo is a single Opencast video page.
	KindVideo

	// KindGeneric is anything that could not be classified more precisely.
	// Not traversed.
	KindGeneric
)

// String returns a human-readable representation of the node kind.
func (k Kind) String() string {
	switch k {
	case KindCourse:
		return "course"
	case KindFolder:
		return "folder"
	case KindFile:
		return "file"
	case KindForum:
		return "forum"
	case KindThread:
		return "thread"
	case KindWiki:
		return "wiki"
	case KindExerciseHandler:
		return "exercise handler"
	case KindPluginDispatch:
		return "plugin dispatch"
	case KindVideo:
		return "video"
	case KindGeneric:
		return "generic"
	default:
		return "unknown"
	}
}

// Node is a classified unit of the remote content tree.
//
// Design decision: We represent the variants as a single struct tagged by
// Kind with shared accessors, rather than an interface hierarchy, because
// every variant carries the same two fields (a display name and a
// reference) and handlers dispatch on the kind anyway.
type Node struct {
	// Kind tags the variant.
	Kind Kind

	// Name is the display name derived from the link text. Empty for
	// threads and raw video links, which have no link text to derive from.
	Name string

	// Ref is the addressing information used to fetch the node.
	Ref Reference
}

// PathName returns the name used to build this node's destination path.
// Threads are keyed by their thread primary key, videos by their raw URL.
// The result is already path-safe for named variants.
func (n Node) PathName() string {
	switch n.Kind {
	case KindThread:
		return n.Ref.ThrPK
	case KindVideo:
		return n.Ref.Href
	default:
		return Sanitize(n.Name)
	}
}
