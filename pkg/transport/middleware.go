package transport

import "slices"

// Middleware decorates a ChatStreamer with behavior that applies to every
// request, such as logging or panic recovery.
type Middleware func(ChatStreamer) ChatStreamer

// Chain folds mws into one Middleware. The first entry is the outermost
// layer and sees each request first: Chain(a, b)(s) behaves as a(b(s)).
func Chain(mws ...Middleware) Middleware {
	return func(s ChatStreamer) ChatStreamer {
		for _, mw := range slices.Backward(mws) {
			s = mw(s)
		}
		return s
	}
}
