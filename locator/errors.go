package locator

import (
	"errors"
	"strconv"
)

var (
	// ErrRedundantGlobal is returned when the current global node assigns
	// itself GlobalScope again. It is a warning: no state changes.
	ErrRedundantGlobal = errors.New("locator: node is already the global registry")

	// ErrNoGroup is returned by Index.Group when a member belongs to no
	// group, so group-level resolution cannot apply.
	ErrNoGroup = errors.New("locator: member has no group")
)

// DuplicateGlobalError is returned when a node attempts to claim GlobalScope
// while a different node already holds it. The attempting node stays Unscoped.
type DuplicateGlobalError struct {
	// Holder is the identity of the node that currently holds GlobalScope.
	Holder string
}

// Error implements the error interface.
func (e DuplicateGlobalError) Error() string {
	// Example: locator: global scope already held by node "2f1c…"
	return "locator: global scope already held by node " + strconv.Quote(e.Holder)
}

// DuplicateGroupError is returned when a node attempts to claim a group that
// already has a registered node. The attempting node stays Unscoped.
type DuplicateGroupError struct{ Group GroupID }

// Error implements the error interface.
func (e DuplicateGroupError) Error() string {
	// Example: locator: group "level1" already has a registry node
	return "locator: group " + strconv.Quote(string(e.Group)) + " already has a registry node"
}

// ScopeAssignedError is returned when a node whose scope tag was already
// assigned attempts a second assignment. Scope tags are write-once.
type ScopeAssignedError struct{ Scope Scope }

// Error implements the error interface.
func (e ScopeAssignedError) Error() string {
	// Example: locator: scope already assigned (group)
	return "locator: scope already assigned (" + e.Scope.String() + ")"
}

// NotRegisteredError is returned by Get when the full fallback chain holds no
// registration for the requested type.
//
// It is used at the call sites that require certainty; TryGet reports the
// same absence as a plain boolean.
type NotRegisteredError struct{ Type Type }

// Error implements the error interface.
func (e NotRegisteredError) Error() string {
	// Example: locator: no service registered for type "*game.AudioBus"
	return "locator: no service registered for type " + strconv.Quote(typeName(e.Type))
}

// WrongTypeError is returned by the generic accessors when a registration
// exists under the requested type identifier but its stored value is not
// assignable to the requested Go type. This can only happen through the
// untyped Node.Register surface.
type WrongTypeError struct {
	// Type is the identifier the lookup asked for.
	Type Type

	// GotType is the dynamic type of the stored value.
	GotType string
}

// Error implements the error interface.
func (e WrongTypeError) Error() string {
	// Example: locator: service for type "*game.AudioBus" has wrong type (*game.MusicBus)
	return "locator: service for type " + strconv.Quote(typeName(e.Type)) +
		" has wrong type (" + e.GotType + ")"
}

func typeName(t Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
