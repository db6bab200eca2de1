package locator

// This file is the resolution algorithm: given a point in the host hierarchy,
// which Node answers a lookup, and which Node comes next once a lookup has
// missed. Two entry rules coexist and must not be collapsed:
//
//   - For starts at the member itself (a registry attached to the member
//     answers first).
//   - NextBroader starts one structural level above the failing node's
//     anchor (the failing node was already consulted).

// NextBroader returns the node a missed lookup on n falls back to, or nil
// when n is the current global node and the chain ends.
//
// The walk is, in order: nearest structural ancestor of n's anchor hosting a
// registry; n's group's governing node (activating a dormant group registry
// on demand, never n's own container); the global node (activating a dormant
// global registry, or creating a persistent one from scratch).
func (x *Index) NextBroader(n *Node) *Node {
	if n == x.global {
		return nil
	}
	if n.anchor != nil {
		for m, ok := x.tree.Parent(n.anchor); ok; m, ok = x.tree.Parent(m) {
			if attached := x.tree.AttachedNode(m); attached != nil {
				return attached
			}
		}
	}
	if g := x.groupBroader(n.anchor, n); g != nil {
		return g
	}
	return x.Global()
}

// For returns the closest governing node for an arbitrary hierarchy member:
// the nearest registry on the member's own ancestor chain, inclusive of the
// member itself; failing that, the member's group node; failing that, the
// global node. Never nil: the global node is created on demand.
func (x *Index) For(m Member) *Node {
	for cur, ok := m, m != nil; ok; cur, ok = x.tree.Parent(cur) {
		if attached := x.tree.AttachedNode(cur); attached != nil {
			return attached
		}
	}
	if g := x.groupBroader(m, nil); g != nil {
		return g
	}
	return x.Global()
}

// Group resolves the governing node for a member's group: the registered node
// if one exists, else a dormant group registry activated on demand. Unlike
// For it does not continue to the global fallback; absence is reported.
//
// It returns ErrNoGroup when m belongs to no group, and NotRegisteredError is
// not involved here: a nil node with a nil error means the group simply has
// no registry yet.
func (x *Index) Group(m Member) (*Node, error) {
	if _, ok := x.tree.GroupOf(m); !ok {
		return nil, ErrNoGroup
	}
	return x.groupBroader(m, nil), nil
}

// Global returns the process-wide global node, bringing one into existence if
// needed: a dormant global bootstrapper anywhere in the process is activated
// first; otherwise a fresh anchorless node is created, assigned GlobalScope,
// and marked to survive environment transitions.
func (x *Index) Global() *Node {
	if x.global != nil {
		return x.global
	}
	if b, ok := x.tree.GlobalBootstrap(); ok {
		return b.Activate()
	}
	n := NewNode(x, nil)
	// Cannot conflict: the global slot was just observed empty and this
	// model is single-threaded.
	_ = n.AssignGlobalScope(true)
	return n
}

// groupBroader resolves the node governing m's group, excluding the node that
// initiated the resolution (a group node must never fall back to itself, and
// a dormant bootstrapper in its own container must not be activated).
func (x *Index) groupBroader(m Member, exclude *Node) *Node {
	if m == nil {
		return nil
	}
	group, ok := x.tree.GroupOf(m)
	if !ok {
		return nil
	}
	if holder := x.groups[group]; holder != nil && holder != exclude {
		return holder
	}
	x.scratch = x.tree.AppendGroupMembers(x.scratch[:0], group)
	for _, candidate := range x.scratch {
		if exclude != nil && candidate == exclude.anchor {
			continue
		}
		if b, ok := x.tree.Bootstrap(candidate); ok {
			return b.Activate()
		}
	}
	return nil
}
