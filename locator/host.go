package locator

// Member is an opaque handle to one node of the host hierarchy. The registry
// only stores and compares Members; all structural knowledge lives behind
// Tree. Implementations must hand out comparable values (pointers are the
// usual choice) and must use untyped nil for "no member".
type Member any

// GroupID names a subdivision of the host hierarchy (a loaded scene, a world
// shard) that may have at most one governing registry Node.
type GroupID string

// Tree is the registry's read-mostly view of the host hierarchy. The host
// implements it; the resolution walk consumes it.
//
// Expected usage:
//
//	parent, ok := tree.Parent(m)
//	attached := tree.AttachedNode(m)
type Tree interface {
	// AttachedNode returns the registry Node directly attached to m, or nil
	// when m hosts none. Dormant bootstrappers do not count as attached.
	AttachedNode(m Member) *Node

	// Parent returns m's structural parent. ok is false at a hierarchy root.
	Parent(m Member) (parent Member, ok bool)

	// GroupOf returns the group m belongs to. ok is false for members outside
	// any group.
	GroupOf(m Member) (GroupID, bool)

	// AppendGroupMembers appends the top-level members of group to dst and
	// returns the extended slice. The caller owns dst; the Index passes its
	// reusable scratch buffer here.
	AppendGroupMembers(dst []Member, group GroupID) []Member

	// Bootstrap returns the not-yet-activated registry bootstrapper hosted by
	// m. ok is false when m hosts none, or when it was already activated.
	Bootstrap(m Member) (Bootstrap, bool)

	// GlobalBootstrap returns a not-yet-activated global registry
	// bootstrapper anywhere in the process, if one exists.
	GlobalBootstrap() (Bootstrap, bool)

	// KeepAcrossTransitions directs the host not to destroy m's container on
	// ordinary group/scene transitions. Invoked when a node anchored at m is
	// assigned GlobalScope with persistence.
	KeepAcrossTransitions(m Member)
}

// Bootstrap is a dormant placeholder that, when triggered, produces and
// attaches a scoped registry Node on demand.
//
// Activate must be idempotent within one activation cycle: the returned Node
// must already carry its scope tag (the bootstrapper calls AssignGlobalScope
// or AssignGroupScope before returning), and after Activate returns the host
// must stop reporting the bootstrapper as dormant.
type Bootstrap interface {
	Activate() *Node
}
