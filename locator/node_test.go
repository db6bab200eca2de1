package locator_test

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halwen/locus/hostsim"
	"github.com/halwen/locus/locator"
)

type audioBus struct{ Bus string }
type saveStore struct{ Dir string }

// quietLogger keeps expected conflict reports out of test output.
func quietLogger() locator.Option {
	return locator.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// newWorld builds an empty bound world for tests.
func newWorld(t *testing.T) (*hostsim.World, *locator.Index) {
	t.Helper()
	w := hostsim.NewWorld()
	idx := locator.NewIndex(w, quietLogger())
	w.Bind(idx)
	return w, idx
}

//
// -----------------------------------------------------------------------------
// Register / Get / TryGet on a single node
// -----------------------------------------------------------------------------

// TestNodeRegister_Chains verifies Register returns the same node for chaining.
func TestNodeRegister_Chains(t *testing.T) {
	t.Parallel()

	w, _ := newWorld(t)
	node := w.SpawnRoot("g", "root").MustAttachRegistry()

	ret := node.
		Register(locator.TypeFor[*audioBus](), &audioBus{Bus: "sfx"}).
		Register(locator.TypeFor[*saveStore](), &saveStore{Dir: "/saves"})
	require.Same(t, node, ret)
	assert.Equal(t, 2, node.Table().Len())
}

// TestNodeGet_NotRegistered verifies Get fails with a typed error carrying the
// requested type once the chain is exhausted.
func TestNodeGet_NotRegistered(t *testing.T) {
	t.Parallel()

	w, _ := newWorld(t)
	node := w.SpawnRoot("g", "root").MustAttachRegistry()

	_, err := node.Get(locator.TypeFor[*audioBus]())
	require.Error(t, err)

	var notReg locator.NotRegisteredError
	require.ErrorAs(t, err, &notReg)
	assert.Equal(t, locator.TypeFor[*audioBus](), notReg.Type)
	assert.Contains(t, err.Error(), "audioBus")
}

// TestNodeTryGet_AbsenceIsNotAnError verifies TryGet reports absence as a
// plain boolean.
func TestNodeTryGet_AbsenceIsNotAnError(t *testing.T) {
	t.Parallel()

	w, _ := newWorld(t)
	node := w.SpawnRoot("g", "root").MustAttachRegistry()

	got, ok := node.TryGet(locator.TypeFor[*audioBus]())
	assert.False(t, ok)
	assert.Nil(t, got)
}

//
// -----------------------------------------------------------------------------
// Generic accessors
// -----------------------------------------------------------------------------

// TestGenericRegisterAndGet verifies the typed surface round-trips through
// TypeFor keys.
func TestGenericRegisterAndGet(t *testing.T) {
	t.Parallel()

	w, _ := newWorld(t)
	node := w.SpawnRoot("g", "root").MustAttachRegistry()
	bus := &audioBus{Bus: "sfx"}

	ret := locator.Register(node, bus)
	require.Same(t, node, ret)

	got, err := locator.Get[*audioBus](node)
	require.NoError(t, err)
	assert.Same(t, bus, got)

	tryGot, ok := locator.TryGet[*audioBus](node)
	require.True(t, ok)
	assert.Same(t, bus, tryGot)

	assert.Same(t, bus, locator.MustGet[*audioBus](node))
}

// TestGenericGet_WrongType verifies a mismatched untyped registration surfaces
// as WrongTypeError, not absence.
func TestGenericGet_WrongType(t *testing.T) {
	t.Parallel()

	w, _ := newWorld(t)
	node := w.SpawnRoot("g", "root").MustAttachRegistry()
	node.Register(locator.TypeFor[*audioBus](), &saveStore{Dir: "/oops"})

	_, err := locator.Get[*audioBus](node)
	require.Error(t, err)

	var wrong locator.WrongTypeError
	require.ErrorAs(t, err, &wrong)
	assert.Equal(t, locator.TypeFor[*audioBus](), wrong.Type)
	assert.Contains(t, wrong.GotType, "saveStore")

	_, ok := locator.TryGet[*audioBus](node)
	assert.False(t, ok)
}

// TestMustGet_PanicsOnMissing verifies MustGet panics with the typed error.
func TestMustGet_PanicsOnMissing(t *testing.T) {
	t.Parallel()

	w, _ := newWorld(t)
	node := w.SpawnRoot("g", "root").MustAttachRegistry()

	assert.PanicsWithError(t, locator.NotRegisteredError{Type: locator.TypeFor[*audioBus]()}.Error(), func() {
		locator.MustGet[*audioBus](node)
	})
}

// TestFetch_ChainsAndFills verifies the out-parameter variant fills dst and
// returns the node for chaining.
func TestFetch_ChainsAndFills(t *testing.T) {
	t.Parallel()

	w, _ := newWorld(t)
	node := w.SpawnRoot("g", "root").MustAttachRegistry()
	bus := &audioBus{Bus: "sfx"}
	store := &saveStore{Dir: "/saves"}
	locator.Register(locator.Register(node, bus), store)

	var gotBus *audioBus
	var gotStore *saveStore

	ret, err := locator.Fetch(node, &gotBus)
	require.NoError(t, err)
	require.Same(t, node, ret)
	_, err = locator.Fetch(ret, &gotStore)
	require.NoError(t, err)

	assert.Same(t, bus, gotBus)
	assert.Same(t, store, gotStore)
}

// TestFetch_LeavesDstOnMiss verifies dst is untouched when resolution fails.
func TestFetch_LeavesDstOnMiss(t *testing.T) {
	t.Parallel()

	w, _ := newWorld(t)
	node := w.SpawnRoot("g", "root").MustAttachRegistry()

	sentinel := &audioBus{Bus: "keep"}
	dst := sentinel
	ret, err := locator.Fetch(node, &dst)
	require.Error(t, err)
	assert.Same(t, node, ret)
	assert.Same(t, sentinel, dst)
}

//
// -----------------------------------------------------------------------------
// Scope assignment
// -----------------------------------------------------------------------------

// TestAssignGlobalScope verifies the happy path records the node globally and
// marks persistence.
func TestAssignGlobalScope(t *testing.T) {
	t.Parallel()

	w, idx := newWorld(t)
	node := w.SpawnRoot("g", "root").MustAttachRegistry()

	require.NoError(t, node.AssignGlobalScope(true))
	assert.Equal(t, locator.GlobalScope, node.Scope())
	assert.True(t, node.Persistent())
	assert.Same(t, node, idx.GlobalNode())
}

// TestAssignGlobalScope_Redundant verifies self-reassignment warns and changes
// nothing.
func TestAssignGlobalScope_Redundant(t *testing.T) {
	t.Parallel()

	w, idx := newWorld(t)
	node := w.SpawnRoot("g", "root").MustAttachRegistry()
	require.NoError(t, node.AssignGlobalScope(true))

	err := node.AssignGlobalScope(false)
	require.ErrorIs(t, err, locator.ErrRedundantGlobal)
	assert.Same(t, node, idx.GlobalNode())
	assert.True(t, node.Persistent(), "failed reassignment must not rewrite persistence")
}

// TestAssignGlobalScope_Duplicate verifies a second node cannot claim
// GlobalScope and stays Unscoped.
func TestAssignGlobalScope_Duplicate(t *testing.T) {
	t.Parallel()

	w, idx := newWorld(t)
	first := w.SpawnRoot("g", "a").MustAttachRegistry()
	second := w.SpawnRoot("g", "b").MustAttachRegistry()
	require.NoError(t, first.AssignGlobalScope(false))

	err := second.AssignGlobalScope(false)
	require.Error(t, err)

	var dup locator.DuplicateGlobalError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, first.ID().String(), dup.Holder)
	assert.Same(t, first, idx.GlobalNode())
	assert.Equal(t, locator.Unscoped, second.Scope())
}

// TestAssignGroupScope verifies the happy path and the duplicate-group error.
func TestAssignGroupScope(t *testing.T) {
	t.Parallel()

	w, idx := newWorld(t)
	first := w.SpawnRoot("level1", "a").MustAttachRegistry()
	second := w.SpawnRoot("level1", "b").MustAttachRegistry()

	require.NoError(t, first.AssignGroupScope("level1"))
	assert.Equal(t, locator.GroupScope, first.Scope())
	assert.Equal(t, locator.GroupID("level1"), first.Group())
	assert.Same(t, first, idx.GroupNode("level1"))

	err := second.AssignGroupScope("level1")
	require.Error(t, err)

	var dup locator.DuplicateGroupError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, locator.GroupID("level1"), dup.Group)
	assert.Same(t, first, idx.GroupNode("level1"), "mapping must be unchanged")
	assert.Equal(t, locator.Unscoped, second.Scope())
}

// TestAssignScope_WriteOnce verifies a scoped node cannot be re-tagged.
func TestAssignScope_WriteOnce(t *testing.T) {
	t.Parallel()

	w, _ := newWorld(t)
	node := w.SpawnRoot("level1", "a").MustAttachRegistry()
	require.NoError(t, node.AssignGroupScope("level1"))

	err := node.AssignGlobalScope(false)
	var assigned locator.ScopeAssignedError
	require.ErrorAs(t, err, &assigned)
	assert.Equal(t, locator.GroupScope, assigned.Scope)

	err = node.AssignGroupScope("level2")
	require.ErrorAs(t, err, &assigned)
	assert.Equal(t, locator.GroupScope, node.Scope())
	assert.Equal(t, locator.GroupID("level1"), node.Group())
}

//
// -----------------------------------------------------------------------------
// OnDestroyed
// -----------------------------------------------------------------------------

// TestOnDestroyed_Global verifies destroying the global clears the slot.
func TestOnDestroyed_Global(t *testing.T) {
	t.Parallel()

	w, idx := newWorld(t)
	host := w.SpawnRoot("g", "root")
	node := host.MustAttachRegistry()
	require.NoError(t, node.AssignGlobalScope(false))

	w.Destroy(host)
	assert.Nil(t, idx.GlobalNode())
}

// TestOnDestroyed_Group verifies destroying a group node frees the group id
// for a later assignment.
func TestOnDestroyed_Group(t *testing.T) {
	t.Parallel()

	w, idx := newWorld(t)
	host := w.SpawnRoot("level1", "a")
	node := host.MustAttachRegistry()
	require.NoError(t, node.AssignGroupScope("level1"))

	w.Destroy(host)
	assert.Nil(t, idx.GroupNode("level1"))

	replacement := w.SpawnRoot("level1", "b").MustAttachRegistry()
	require.NoError(t, replacement.AssignGroupScope("level1"))
	assert.Same(t, replacement, idx.GroupNode("level1"))
}

// TestOnDestroyed_Unscoped verifies a plain node's destruction leaves the
// index untouched.
func TestOnDestroyed_Unscoped(t *testing.T) {
	t.Parallel()

	w, idx := newWorld(t)
	groupHost := w.SpawnRoot("level1", "a")
	groupNode := groupHost.MustAttachRegistry()
	require.NoError(t, groupNode.AssignGroupScope("level1"))

	plainHost := w.SpawnRoot("level1", "b")
	plainHost.MustAttachRegistry()
	w.Destroy(plainHost)

	assert.Same(t, groupNode, idx.GroupNode("level1"))
}

// TestErrorsAreComparable verifies callers can branch on error kinds with
// errors.Is / errors.As.
func TestErrorsAreComparable(t *testing.T) {
	t.Parallel()

	err := error(locator.DuplicateGroupError{Group: "level1"})
	assert.False(t, errors.Is(err, locator.ErrRedundantGlobal))
	var dup locator.DuplicateGroupError
	assert.True(t, errors.As(err, &dup))
}
