// Package subscriber provides the ordered callback registry shared by the
// frame loop and the render pipeline.
//
// A Registry is not safe for concurrent use. It is driven from the single
// goroutine that runs the frame loop.
package subscriber

// Token identifies one registration. The zero Token never identifies a
// registration, so unsubscribing it is always a no-op.
type Token uint64

// Subscriber is the handle given to clients that need to register callbacks.
type Subscriber[F any] interface {
	Subscribe(fn F) Token
	Unsubscribe(tok Token)
}

type entry[F any] struct {
	tok Token
	fn  F
}

// Registry holds callbacks in registration order.
type Registry[F any] struct {
	entries []entry[F]
	next    Token
	scratch []entry[F]
}

var _ Subscriber[func()] = (*Registry[func()])(nil)

// New creates an empty registry.
func New[F any]() *Registry[F] {
	return &Registry[F]{}
}

// Subscribe appends fn and returns a token for removing it later.
// The same function may be registered more than once; each registration is a
// separate entry with its own token.
func (r *Registry[F]) Subscribe(fn F) Token {
	r.next++
	r.entries = append(r.entries, entry[F]{tok: r.next, fn: fn})
	return r.next
}

// Unsubscribe removes the registration identified by tok.
// Unknown or already-removed tokens are ignored.
func (r *Registry[F]) Unsubscribe(tok Token) {
	for i, e := range r.entries {
		if e.tok != tok {
			continue
		}
		copy(r.entries[i:], r.entries[i+1:])
		var zero entry[F]
		r.entries[len(r.entries)-1] = zero
		r.entries = r.entries[:len(r.entries)-1]
		return
	}
}

// Len returns the number of registrations.
func (r *Registry[F]) Len() int {
	return len(r.entries)
}

// Notify invokes call for every registered callback, in registration order.
//
// The list is snapshotted first: callbacks added or removed while a pass is
// running take effect on the next pass. The first error returned by call ends
// the pass and is returned as is.
func (r *Registry[F]) Notify(call func(F) error) error {
	if len(r.entries) == 0 {
		return nil
	}

	// Reuse the scratch slice unless a nested Notify is already using it.
	snapshot := r.scratch
	r.scratch = nil
	snapshot = append(snapshot[:0], r.entries...)
	defer func() {
		clear(snapshot)
		r.scratch = snapshot[:0]
	}()

	for _, e := range snapshot {
		if err := call(e.fn); err != nil {
			return err
		}
	}
	return nil
}
