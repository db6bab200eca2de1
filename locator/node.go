package locator

import "github.com/google/uuid"

// Scope classifies a Node's position in the fallback order.
type Scope int

const (
	// Unscoped nodes govern only the subtree below their anchor.
	Unscoped Scope = iota

	// GroupScope nodes govern one group of the host hierarchy.
	GroupScope

	// GlobalScope marks the single process-wide fallback node.
	GlobalScope
)

// String implements fmt.Stringer.
func (s Scope) String() string {
	switch s {
	case Unscoped:
		return "unscoped"
	case GroupScope:
		return "group"
	case GlobalScope:
		return "global"
	default:
		return "unknown"
	}
}

// Node is one registry in the hierarchical forest. It owns a Table, carries a
// write-once scope tag, and knows its anchor in the host hierarchy (used only
// to find structural ancestors during fallback).
//
// A Node is created Unscoped. AssignGlobalScope and AssignGroupScope move it
// to a terminal scope; conflicts are reported as errors and leave the node
// usable as an Unscoped registry. Destruction is signalled by the host via
// OnDestroyed.
type Node struct {
	id      uuid.UUID
	index   *Index
	anchor  Member
	scope   Scope
	group   GroupID
	persist bool
	table   *Table
}

// NewNode returns an Unscoped Node bound to idx and anchored at anchor.
// anchor may be nil for nodes with no host container (the lazily created
// global registry is the one case).
func NewNode(idx *Index, anchor Member) *Node {
	return &Node{
		id:     uuid.New(),
		index:  idx,
		anchor: anchor,
		table:  NewTable(),
	}
}

// ID returns the node's process-unique identity.
func (n *Node) ID() uuid.UUID { return n.id }

// Scope returns the node's current scope tag.
func (n *Node) Scope() Scope { return n.scope }

// Group returns the group this node governs. Meaningful only when Scope
// reports GroupScope.
func (n *Node) Group() GroupID { return n.group }

// Anchor returns the node's position in the host hierarchy, or nil.
func (n *Node) Anchor() Member { return n.anchor }

// Persistent reports whether the node is marked to survive environment
// transitions.
func (n *Node) Persistent() bool { return n.persist }

// Table exposes the node's own registration table. Lookups through it see no
// fallback.
func (n *Node) Table() *Table { return n.table }

// Register stores instance under typ on this node, overwriting any prior
// local registration for that type. It returns the node for chaining:
//
//	node.Register(aType, a).Register(bType, b)
func (n *Node) Register(typ Type, instance any) *Node {
	n.table.Register(typ, instance)
	return n
}

// TryGet looks typ up on this node, then falls back through progressively
// broader nodes until a match is found or the chain ends at the global node.
// Absence is a normal outcome, not an error.
//
// The fallback walk may lazily activate dormant group or global registries;
// see Index.NextBroader.
func (n *Node) TryGet(typ Type) (any, bool) {
	if v, ok := n.table.TryGet(typ); ok {
		return v, true
	}
	if next := n.index.NextBroader(n); next != nil {
		return next.TryGet(typ)
	}
	return nil, false
}

// Get is TryGet for call sites that require certainty: when the full fallback
// chain holds no registration for typ it fails with NotRegisteredError.
func (n *Node) Get(typ Type) (any, error) {
	if v, ok := n.TryGet(typ); ok {
		return v, nil
	}
	return nil, NotRegisteredError{Type: typ}
}

// AssignGlobalScope records this node as the process-wide global registry.
//
// It fails with ErrRedundantGlobal when the node already is the global (a
// warning; nothing changes), with DuplicateGlobalError when a different node
// holds GlobalScope, and with ScopeAssignedError when this node's tag was
// already assigned. On failure the node stays usable with its current scope.
//
// When persist is true the host is directed to keep the node's container
// alive across ordinary environment transitions.
func (n *Node) AssignGlobalScope(persist bool) error {
	x := n.index
	switch {
	case x.global == n:
		x.log.Warn("redundant global scope assignment", "node", n.id)
		return ErrRedundantGlobal
	case x.global != nil:
		err := DuplicateGlobalError{Holder: x.global.id.String()}
		x.log.Error("global scope conflict", "node", n.id, "holder", x.global.id)
		return err
	case n.scope != Unscoped:
		return ScopeAssignedError{Scope: n.scope}
	}
	n.scope = GlobalScope
	n.persist = persist
	x.global = n
	if persist && n.anchor != nil {
		x.tree.KeepAcrossTransitions(n.anchor)
	}
	return nil
}

// AssignGroupScope records this node as the governing registry for group.
//
// It fails with DuplicateGroupError when the group already has a registered
// node (the mapping is left unchanged) and with ScopeAssignedError when this
// node's tag was already assigned. On failure the node stays usable with its
// current scope.
func (n *Node) AssignGroupScope(group GroupID) error {
	x := n.index
	if holder, ok := x.groups[group]; ok && holder != nil {
		err := DuplicateGroupError{Group: group}
		x.log.Error("group scope conflict", "node", n.id, "group", group, "holder", holder.id)
		return err
	}
	if n.scope != Unscoped {
		return ScopeAssignedError{Scope: n.scope}
	}
	n.scope = GroupScope
	n.group = group
	x.groups[group] = n
	return nil
}

// OnDestroyed must be invoked by the host when the node's owning container is
// torn down. It clears the node's entry in the Index: the global slot if this
// node is the current global, or its group mapping if it governs a group.
// Registered services go down with the node's table.
func (n *Node) OnDestroyed() {
	x := n.index
	if x.global == n {
		x.global = nil
		return
	}
	if n.scope == GroupScope && x.groups[n.group] == n {
		delete(x.groups, n.group)
	}
}
