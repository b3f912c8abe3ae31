package generator

import (
	"context"
	"iter"
)

// fakeStreamer replays canned fragments and records the last request.
type fakeStreamer struct {
	fragments []string
	err       error // yielded after the fragments, if set
	calls     int
	last      Request
}

func (f *fakeStreamer) Stream(_ context.Context, req Request) iter.Seq2[string, error] {
	f.calls++
	f.last = req
	return func(yield func(string, error) bool) {
		for _, frag := range f.fragments {
			if !yield(frag, nil) {
				return
			}
		}
		if f.err != nil {
			yield("", f.err)
		}
	}
}
