package locator

import "log/slog"

// Index is the process-wide bookkeeping for one registry forest: the current
// global Node (if any), the mapping from group to its governing Node, and a
// reusable scratch buffer for member enumeration.
//
// It is an explicit context object, not a package-level singleton: construct
// one per process (or per test) and inject it wherever nodes are created.
// All Index state assumes single-threaded access; see the package doc.
type Index struct {
	tree    Tree
	log     *slog.Logger
	global  *Node
	groups  map[GroupID]*Node
	scratch []Member
}

// Option configures an Index.
type Option func(*Index)

// WithLogger sets the logger used to report scope-assignment conflicts.
// Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(x *Index) {
		if l != nil {
			x.log = l
		}
	}
}

// NewIndex returns an empty Index over the given host hierarchy.
func NewIndex(tree Tree, opts ...Option) *Index {
	x := &Index{
		tree:   tree,
		log:    slog.Default(),
		groups: make(map[GroupID]*Node),
	}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// Tree returns the host hierarchy this Index resolves over.
func (x *Index) Tree() Tree { return x.tree }

// GlobalNode returns the current global Node without triggering lazy
// creation, or nil when none is registered. Use Global for the
// create-on-demand variant.
func (x *Index) GlobalNode() *Node { return x.global }

// GroupNode returns the Node registered for group without triggering dormant
// activation, or nil. Use Group for the resolving variant.
func (x *Index) GroupNode(group GroupID) *Node { return x.groups[group] }

// Groups returns the group ids that currently have a registered Node, in
// unspecified order.
func (x *Index) Groups() []GroupID {
	out := make([]GroupID, 0, len(x.groups))
	for g := range x.groups {
		out = append(out, g)
	}
	return out
}

// Reset clears all bookkeeping: the global slot, the group mapping, and the
// scratch buffer. The host invokes it once per process/environment (re)start;
// it is the only wholesale teardown of the forest. Individual entries are
// removed by Node.OnDestroyed as containers die.
func (x *Index) Reset() {
	x.global = nil
	clear(x.groups)
	x.scratch = nil
}
