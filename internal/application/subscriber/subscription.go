package subscriber

// Subscription ties a registration to the handle it was made on so the owner
// can release it during teardown without tracking the token itself.
type Subscription[F any] struct {
	sub Subscriber[F]
	tok Token
}

// Bind registers fn on sub.
func Bind[F any](sub Subscriber[F], fn F) *Subscription[F] {
	return &Subscription[F]{sub: sub, tok: sub.Subscribe(fn)}
}

// Token returns the registration token, or zero once closed.
func (s *Subscription[F]) Token() Token {
	return s.tok
}

// Close unsubscribes. Calling it more than once is harmless.
func (s *Subscription[F]) Close() {
	if s.tok == 0 {
		return
	}
	s.sub.Unsubscribe(s.tok)
	s.tok = 0
}
