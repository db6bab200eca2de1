package locator

import "reflect"

// Register stores instance on n under TypeFor[T] and returns n for chaining.
//
// It is the typed counterpart of Node.Register:
//
//	locator.Register(node, bus)           // keyed by the concrete type of bus
//	locator.Register[Audio](node, bus)    // keyed by the Audio interface
func Register[T any](n *Node, instance T) *Node {
	return n.Register(TypeFor[T](), instance)
}

// TryGet resolves TypeFor[T] through n's fallback chain.
//
// ok is false when the chain holds no registration, or when a registration
// made through the untyped surface is not assignable to T.
func TryGet[T any](n *Node) (T, bool) {
	var zero T
	raw, ok := n.TryGet(TypeFor[T]())
	if !ok {
		return zero, false
	}
	v, ok := raw.(T)
	if !ok {
		return zero, false
	}
	return v, true
}

// Get resolves TypeFor[T] through n's fallback chain.
//
// It returns:
//   - NotRegisteredError when the chain holds no registration
//   - WrongTypeError when a registration made through the untyped surface is
//     not assignable to T
func Get[T any](n *Node) (T, error) {
	var zero T
	typ := TypeFor[T]()
	raw, ok := n.TryGet(typ)
	if !ok {
		return zero, NotRegisteredError{Type: typ}
	}
	v, ok := raw.(T)
	if !ok {
		return zero, WrongTypeError{Type: typ, GotType: reflect.TypeOf(raw).String()}
	}
	return v, nil
}

// MustGet resolves TypeFor[T] through n's fallback chain or panics.
//
// Useful in wiring code and tests where a missing registration should fail
// fast.
func MustGet[T any](n *Node) T {
	v, err := Get[T](n)
	if err != nil {
		panic(err)
	}
	return v
}

// Fetch resolves TypeFor[T] into dst and returns n, so several services can
// be pulled in one chain:
//
//	if _, err := locator.Fetch(node, &audio); err != nil { ... }
//
// The error cases match Get; dst is left untouched on failure.
func Fetch[T any](n *Node, dst *T) (*Node, error) {
	v, err := Get[T](n)
	if err != nil {
		return n, err
	}
	*dst = v
	return n, nil
}
