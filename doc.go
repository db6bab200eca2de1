// Package locus provides a hierarchical, scope-aware service locator for Go.
//
// Hosts that organize their runtime objects as a tree (scenes, worlds,
// simulation groups) often want shared singleton-like services registered at
// different levels of that tree: one registry for the whole process, one per
// loaded group, and ad-hoc registries attached to arbitrary subtrees. A lookup
// starting anywhere in the tree falls back from the most specific registry to
// progressively broader ones until a match is found.
//
// The goal is to keep service location explicit: callers construct services
// themselves and hand them to a registry node. There is no constructor
// injection, no lifecycle management, and no reflection-based auto-wiring.
//
// Start with the examples in the repo for end-to-end wiring style.
//
// See subpackages:
//   - locator: the core registry (nodes, scope index, fallback resolution)
//   - hostsim: an in-memory host hierarchy for tests, demos, and fixtures
//   - cmd/locus: a fixture-driven CLI for inspecting resolution chains
//   - examples/*: runnable examples
package locus
