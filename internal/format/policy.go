package format

// ResolutionPolicy reports whether a thread counts as resolved ("addressed").
// The Formatter and the unresolved filter consult the same policy, so swapping
// it changes both the status labels and the filtered set.
type ResolutionPolicy func(Thread) bool

// ReplyHeuristic treats a thread with at least one reply as resolved.
//
// This is an approximation: the REST review-comments surface does not expose
// GitHub's authoritative per-thread resolved flag, so a reply is taken as
// evidence that the root remark was addressed. Threads still waiting for a
// first response are exactly the unresolved ones.
func ReplyHeuristic(t Thread) bool {
	return len(t.Replies) > 0
}
