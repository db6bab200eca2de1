// Package hostsim is an in-memory stand-in for the host hierarchy the
// registry resolves over: named groups of scene nodes, parent/child
// structure, attached registries, and dormant registry bootstrappers that
// activate on demand.
//
// It exists so the locator package can be exercised without a real host
// engine: tests build small worlds programmatically, and the demo CLI builds
// them from YAML fixtures (see Load / Fixture.Build).
//
// The simulation also models the lifecycle the registry cares about:
// destroying a scene node notifies its attached registry (Node.OnDestroyed),
// unloading a group destroys its members except containers marked to survive
// transitions, and Reset tears the whole world down and clears the Index.
package hostsim
