package hostsim_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halwen/locus/hostsim"
	"github.com/halwen/locus/locator"
)

type fixtureAudio struct{ Bus string }
type fixtureSave struct{ Dir string }

// testFactory maps the fixture kinds used in these tests.
func testFactory(kind, value string) (locator.Type, any, error) {
	switch kind {
	case "audio":
		return locator.TypeFor[*fixtureAudio](), &fixtureAudio{Bus: value}, nil
	case "save":
		return locator.TypeFor[*fixtureSave](), &fixtureSave{Dir: value}, nil
	default:
		return nil, nil, fmt.Errorf("unknown kind %q", kind)
	}
}

const sceneYAML = `
groups:
  - id: level1
    members:
      - name: systems
        registry: group
        services:
          - kind: audio
            value: sfx
      - name: spare
        registry: dormant-group
      - name: player
        children:
          - name: inventory
            registry: unscoped
global:
  name: autoload
  registry: active
  services:
    - kind: save
      value: /tmp/saves
`

//
// -----------------------------------------------------------------------------
// Load
// -----------------------------------------------------------------------------

// TestLoad_ParsesScene verifies the YAML structure round-trips into the
// fixture types.
func TestLoad_ParsesScene(t *testing.T) {
	t.Parallel()

	f, err := hostsim.Load(strings.NewReader(sceneYAML))
	require.NoError(t, err)

	require.Len(t, f.Groups, 1)
	assert.Equal(t, "level1", f.Groups[0].ID)
	require.Len(t, f.Groups[0].Members, 3)
	assert.Equal(t, "group", f.Groups[0].Members[0].Registry)
	assert.Equal(t, "dormant-group", f.Groups[0].Members[1].Registry)
	require.NotNil(t, f.Global)
	assert.Equal(t, "active", f.Global.Registry)
	require.Len(t, f.Global.Services, 1)
	assert.Equal(t, "/tmp/saves", f.Global.Services[0].Value)
}

// TestLoad_RejectsUnknownFields verifies strict decoding catches fixture
// typos.
func TestLoad_RejectsUnknownFields(t *testing.T) {
	t.Parallel()

	_, err := hostsim.Load(strings.NewReader("groups:\n  - id: g\n    member: []\n"))
	assert.Error(t, err)
}

//
// -----------------------------------------------------------------------------
// Build
// -----------------------------------------------------------------------------

// TestBuild_WiresWorldAndResolves verifies a built fixture behaves like the
// equivalent hand-wired world.
func TestBuild_WiresWorldAndResolves(t *testing.T) {
	t.Parallel()

	f, err := hostsim.Load(strings.NewReader(sceneYAML))
	require.NoError(t, err)

	w, idx, err := f.Build(testFactory, locator.WithLogger(quietDiscard()))
	require.NoError(t, err)

	// Group registry is active and scoped.
	systems := w.Find("systems")
	require.NotNil(t, systems)
	require.NotNil(t, systems.Registry())
	assert.Equal(t, locator.GroupScope, systems.Registry().Scope())
	assert.Same(t, systems.Registry(), idx.GroupNode("level1"))

	// The leaf's lookup falls through its own empty registry to the group
	// and the global.
	leaf := w.Find("player/inventory")
	require.NotNil(t, leaf)
	node := idx.For(leaf)
	require.Same(t, leaf.Registry(), node)

	audio, err := locator.Get[*fixtureAudio](node)
	require.NoError(t, err)
	assert.Equal(t, "sfx", audio.Bus)

	save, err := locator.Get[*fixtureSave](node)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/saves", save.Dir)

	// The dormant member is untouched until something needs it.
	spare := w.Find("spare")
	require.NotNil(t, spare)
	assert.Nil(t, spare.Registry())
}

// TestBuild_ServiceWithoutRegistry verifies the loader rejects registrations
// on members hosting no registry.
func TestBuild_ServiceWithoutRegistry(t *testing.T) {
	t.Parallel()

	const bad = `
groups:
  - id: g
    members:
      - name: a
        services:
          - kind: audio
            value: x
`
	f, err := hostsim.Load(strings.NewReader(bad))
	require.NoError(t, err)
	_, _, err = f.Build(testFactory)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no registry")
}

// TestBuild_UnknownPlacement verifies unrecognized registry markers fail.
func TestBuild_UnknownPlacement(t *testing.T) {
	t.Parallel()

	const bad = `
groups:
  - id: g
    members:
      - name: a
        registry: galactic
`
	f, err := hostsim.Load(strings.NewReader(bad))
	require.NoError(t, err)
	_, _, err = f.Build(testFactory)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "galactic")
}

// TestBuild_FactoryErrorsPropagate verifies factory failures carry the
// service kind.
func TestBuild_FactoryErrorsPropagate(t *testing.T) {
	t.Parallel()

	const bad = `
groups:
  - id: g
    members:
      - name: a
        registry: unscoped
        services:
          - kind: warp
            value: x
`
	f, err := hostsim.Load(strings.NewReader(bad))
	require.NoError(t, err)
	_, _, err = f.Build(testFactory)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "warp")
}

// TestBuild_DormantGlobal verifies a dormant global fixture is discoverable
// and activates into a persistent global.
func TestBuild_DormantGlobal(t *testing.T) {
	t.Parallel()

	const scene = `
groups:
  - id: level1
    members:
      - name: player
global:
  registry: dormant
`
	f, err := hostsim.Load(strings.NewReader(scene))
	require.NoError(t, err)
	w, idx, err := f.Build(testFactory)
	require.NoError(t, err)

	_, ok := w.GlobalBootstrap()
	require.True(t, ok)

	node := idx.Global()
	require.NotNil(t, node)
	assert.Equal(t, locator.GlobalScope, node.Scope())
	assert.True(t, node.Persistent())
	assert.Same(t, w.Find("autoload"), node.Anchor())
}
