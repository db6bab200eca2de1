// Package locator implements a hierarchical service registry: singleton-like
// services are registered on Nodes scattered across a host hierarchy, and a
// lookup that misses locally falls back through progressively broader nodes
// (nearest structural ancestor, then the group's node, then the global node).
//
// The package deliberately separates three roles:
//
//   - Table: the per-node type -> instance map. Pure data, no hierarchy.
//   - Node: one registry in the forest. Owns a Table, carries a scope tag
//     (Unscoped, GroupScope, GlobalScope), and delegates missed lookups.
//   - Index: process-wide bookkeeping. At most one global Node, at most one
//     Node per group, a reusable member-enumeration buffer, and the Reset
//     hook invoked at environment (re)start.
//
// The host hierarchy itself is an external collaborator described by the Tree
// interface; the registry never walks real host structures directly. Dormant
// registries (placeholders that produce a Node when first needed) are modeled
// by Bootstrap and activated lazily during resolution, so a lookup can bring
// the group or global registry into existence on demand.
//
// # Quick guidance
//
// Acquire a node, then register and look up:
//
//	idx := locator.NewIndex(tree)
//	node := idx.For(player)
//	node.Register(locator.TypeFor[*AudioBus](), bus)
//	bus, err := locator.Get[*AudioBus](node)
//
// Absence is a normal outcome for TryGet; Get fails with a typed
// NotRegisteredError once the whole fallback chain is exhausted.
//
// # Concurrency
//
// All mutation and lookup is assumed to run on the single logical thread that
// owns the host hierarchy. Nothing here locks; a concurrent host must wrap
// the Index in its own synchronization and make bootstrap activation
// single-creator.
//
// Import
//
//	"github.com/halwen/locus/locator"
package locator
