package hostsim

import (
	"errors"
	"strings"

	"github.com/halwen/locus/locator"
)

var (
	// ErrRegistryOccupied is returned when a scene node that already hosts a
	// registry or a dormant bootstrapper is asked to host another.
	ErrRegistryOccupied = errors.New("hostsim: scene node already hosts a registry")

	// ErrUnbound is returned by operations that need a locator Index before
	// World.Bind was called.
	ErrUnbound = errors.New("hostsim: world is not bound to an index")
)

// SceneNode is one member of the simulated hierarchy.
type SceneNode struct {
	world    *World
	name     string
	group    locator.GroupID // set on top-level members only
	parent   *SceneNode
	children []*SceneNode
	registry *locator.Node
	dormant  *DormantRegistry
	persist  bool
	dead     bool
}

// Name returns the node's name, unique among its siblings by convention.
func (n *SceneNode) Name() string { return n.name }

// Parent returns the structural parent, nil for top-level members.
func (n *SceneNode) Parent() *SceneNode { return n.parent }

// Children returns the node's children in spawn order.
func (n *SceneNode) Children() []*SceneNode { return n.children }

// Registry returns the registry attached to this node, or nil.
func (n *SceneNode) Registry() *locator.Node { return n.registry }

// Root returns the top-level ancestor (the node itself when top-level).
func (n *SceneNode) Root() *SceneNode {
	cur := n
	for cur.parent != nil {
		cur = cur.parent
	}
	return cur
}

// Path returns the slash-separated path from the top-level member down to
// this node, e.g. "systems/audio".
func (n *SceneNode) Path() string {
	if n.parent == nil {
		return n.name
	}
	return n.parent.Path() + "/" + n.name
}

// Child returns the direct child with the given name, or nil.
func (n *SceneNode) Child(name string) *SceneNode {
	for _, c := range n.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

// SpawnChild adds a child under n and returns it.
func (n *SceneNode) SpawnChild(name string) *SceneNode {
	c := &SceneNode{world: n.world, name: name, parent: n}
	n.children = append(n.children, c)
	return c
}

// AttachRegistry creates an Unscoped registry node anchored at n.
// It fails with ErrRegistryOccupied when n already hosts a registry or a
// dormant bootstrapper.
func (n *SceneNode) AttachRegistry() (*locator.Node, error) {
	if n.world.idx == nil {
		return nil, ErrUnbound
	}
	if n.registry != nil || n.dormant != nil {
		return nil, ErrRegistryOccupied
	}
	n.registry = locator.NewNode(n.world.idx, n)
	return n.registry, nil
}

// MustAttachRegistry is AttachRegistry for wiring code and tests where
// occupation is a bug.
func (n *SceneNode) MustAttachRegistry() *locator.Node {
	node, err := n.AttachRegistry()
	if err != nil {
		panic(err)
	}
	return node
}

// HostDormantGroupRegistry installs a not-yet-activated group registry
// bootstrapper on n. When activated it attaches a registry to n and assigns
// it the group of n's root.
func (n *SceneNode) HostDormantGroupRegistry() (*DormantRegistry, error) {
	if n.registry != nil || n.dormant != nil {
		return nil, ErrRegistryOccupied
	}
	n.dormant = &DormantRegistry{host: n}
	return n.dormant, nil
}

// World is the simulated host: a forest of groups plus group-less resident
// containers (survivors of transitions). It implements locator.Tree.
//
// Construction order matters: build the World, create the Index over it, then
// Bind them before attaching registries.
//
//	w := hostsim.NewWorld()
//	idx := locator.NewIndex(w)
//	w.Bind(idx)
type World struct {
	idx        *locator.Index
	groupOrder []locator.GroupID
	groups     map[locator.GroupID][]*SceneNode
	residents  []*SceneNode
	globalBoot *DormantRegistry
}

// NewWorld returns an empty world.
func NewWorld() *World {
	return &World{groups: make(map[locator.GroupID][]*SceneNode)}
}

// Bind attaches the locator Index this world's registries belong to.
func (w *World) Bind(idx *locator.Index) { w.idx = idx }

// Index returns the bound Index, or nil before Bind.
func (w *World) Index() *locator.Index { return w.idx }

// SpawnRoot adds a top-level member to group, creating the group on first
// use. An empty group id yields a group-less member (locator.Tree.GroupOf
// reports ok=false for it and its subtree).
func (w *World) SpawnRoot(group locator.GroupID, name string) *SceneNode {
	n := &SceneNode{world: w, name: name, group: group}
	if group == "" {
		w.residents = append(w.residents, n)
		return n
	}
	if _, ok := w.groups[group]; !ok {
		w.groupOrder = append(w.groupOrder, group)
	}
	w.groups[group] = append(w.groups[group], n)
	return n
}

// Groups returns the loaded group ids in load order.
func (w *World) Groups() []locator.GroupID {
	return append([]locator.GroupID(nil), w.groupOrder...)
}

// Roots returns the top-level members of group in spawn order.
func (w *World) Roots(group locator.GroupID) []*SceneNode {
	return append([]*SceneNode(nil), w.groups[group]...)
}

// Residents returns the group-less top-level containers.
func (w *World) Residents() []*SceneNode {
	return append([]*SceneNode(nil), w.residents...)
}

// Find resolves a slash-separated path ("group/member/child...") to a scene
// node, or nil. The first segment selects a top-level member by name across
// groups and residents.
func (w *World) Find(path string) *SceneNode {
	segs := strings.Split(path, "/")
	if len(segs) == 0 || segs[0] == "" {
		return nil
	}
	var cur *SceneNode
	for _, group := range w.groupOrder {
		for _, root := range w.groups[group] {
			if root.name == segs[0] {
				cur = root
			}
		}
	}
	if cur == nil {
		for _, root := range w.residents {
			if root.name == segs[0] {
				cur = root
			}
		}
	}
	for _, seg := range segs[1:] {
		if cur == nil {
			return nil
		}
		cur = cur.Child(seg)
	}
	return cur
}

// HostDormantGlobalRegistry installs a process-wide dormant global registry
// bootstrapper hosted by n. At most one may exist at a time.
func (w *World) HostDormantGlobalRegistry(n *SceneNode) (*DormantRegistry, error) {
	if n.registry != nil || n.dormant != nil {
		return nil, ErrRegistryOccupied
	}
	if w.globalBoot != nil && !w.globalBoot.activated {
		return nil, ErrRegistryOccupied
	}
	// Global bootstrappers live on the world, not the node: group scans must
	// not discover them.
	w.globalBoot = &DormantRegistry{host: n, global: true}
	return w.globalBoot, nil
}

// Destroy tears down n and its subtree: attached registries get OnDestroyed,
// dormant bootstrappers are discarded, and n is detached from its parent or
// top-level list.
func (w *World) Destroy(n *SceneNode) {
	w.teardown(n)
	if n.parent != nil {
		n.parent.children = remove(n.parent.children, n)
		return
	}
	if n.group != "" {
		w.groups[n.group] = remove(w.groups[n.group], n)
		return
	}
	w.residents = remove(w.residents, n)
}

// UnloadGroup simulates an ordinary environment transition out of group:
// every top-level member is destroyed except containers marked to survive
// transitions, which are re-homed as group-less residents.
func (w *World) UnloadGroup(group locator.GroupID) {
	members := w.groups[group]
	delete(w.groups, group)
	for i, g := range w.groupOrder {
		if g == group {
			w.groupOrder = append(w.groupOrder[:i], w.groupOrder[i+1:]...)
			break
		}
	}
	for _, m := range members {
		if m.persist {
			m.group = ""
			w.residents = append(w.residents, m)
			continue
		}
		w.teardown(m)
	}
}

// Reset destroys the entire world and clears the bound Index. This is the
// process/environment restart hook.
func (w *World) Reset() {
	for _, group := range w.Groups() {
		for _, m := range w.Roots(group) {
			w.teardown(m)
		}
	}
	for _, m := range w.residents {
		w.teardown(m)
	}
	w.groups = make(map[locator.GroupID][]*SceneNode)
	w.groupOrder = nil
	w.residents = nil
	w.globalBoot = nil
	if w.idx != nil {
		w.idx.Reset()
	}
}

func (w *World) teardown(n *SceneNode) {
	if n.dead {
		return
	}
	n.dead = true
	if n.registry != nil {
		n.registry.OnDestroyed()
		n.registry = nil
	}
	n.dormant = nil
	if w.globalBoot != nil && w.globalBoot.host == n {
		w.globalBoot = nil
	}
	for _, c := range n.children {
		w.teardown(c)
	}
}

func remove(s []*SceneNode, n *SceneNode) []*SceneNode {
	for i, c := range s {
		if c == n {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}

// DormantRegistry is a not-yet-activated registry placeholder. Activation
// attaches a registry to its host scene node and assigns its scope (the
// host's group, or global).
type DormantRegistry struct {
	host      *SceneNode
	global    bool
	activated bool
	node      *locator.Node
}

// Activated reports whether the bootstrapper has fired.
func (d *DormantRegistry) Activated() bool { return d.activated }

// Node returns the registry produced by activation, or nil.
func (d *DormantRegistry) Node() *locator.Node { return d.node }

// Activate implements locator.Bootstrap.
func (d *DormantRegistry) Activate() *locator.Node {
	if d.activated {
		return d.node
	}
	d.activated = true
	d.host.dormant = nil
	d.node = locator.NewNode(d.host.world.idx, d.host)
	d.host.registry = d.node
	if d.global {
		_ = d.node.AssignGlobalScope(true)
	} else {
		_ = d.node.AssignGroupScope(d.host.Root().group)
	}
	return d.node
}

// --- locator.Tree implementation -------------------------------------------

// AttachedNode implements locator.Tree.
func (w *World) AttachedNode(m locator.Member) *locator.Node {
	sn, ok := m.(*SceneNode)
	if !ok || sn == nil {
		return nil
	}
	return sn.registry
}

// Parent implements locator.Tree.
func (w *World) Parent(m locator.Member) (locator.Member, bool) {
	sn, ok := m.(*SceneNode)
	if !ok || sn == nil || sn.parent == nil {
		return nil, false
	}
	return sn.parent, true
}

// GroupOf implements locator.Tree.
func (w *World) GroupOf(m locator.Member) (locator.GroupID, bool) {
	sn, ok := m.(*SceneNode)
	if !ok || sn == nil {
		return "", false
	}
	group := sn.Root().group
	return group, group != ""
}

// AppendGroupMembers implements locator.Tree.
func (w *World) AppendGroupMembers(dst []locator.Member, group locator.GroupID) []locator.Member {
	for _, m := range w.groups[group] {
		dst = append(dst, m)
	}
	return dst
}

// Bootstrap implements locator.Tree.
func (w *World) Bootstrap(m locator.Member) (locator.Bootstrap, bool) {
	sn, ok := m.(*SceneNode)
	if !ok || sn == nil || sn.dormant == nil || sn.dormant.activated {
		return nil, false
	}
	return sn.dormant, true
}

// GlobalBootstrap implements locator.Tree.
func (w *World) GlobalBootstrap() (locator.Bootstrap, bool) {
	if w.globalBoot == nil || w.globalBoot.activated {
		return nil, false
	}
	return w.globalBoot, true
}

// KeepAcrossTransitions implements locator.Tree. The owning top-level
// container is the unit of survival.
func (w *World) KeepAcrossTransitions(m locator.Member) {
	if sn, ok := m.(*SceneNode); ok && sn != nil {
		sn.Root().persist = true
	}
}
