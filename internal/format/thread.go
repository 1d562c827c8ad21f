package format

import (
	"sort"

	"github.com/filipembedded/pr-bridge/internal/domain/model"
)

// Thread groups a root review comment with its replies. Replies keep the
// order in which they were fetched; the GitHub API yields them
// chronologically.
type Thread struct {
	Root    model.ReviewComment
	Replies []model.ReviewComment
}

// BuildThreads groups a flat list of inline review comments into two-level
// conversation threads. Comments with a nil InReplyToID become thread roots;
// every other comment attaches to the root whose ID it names. A reply whose
// parent never appears among the roots is silently dropped.
//
// Threads are sorted by (path, line) ascending, with 0 standing in for an
// absent line. The sort is stable: threads with equal keys keep their fetch
// order, and reply lists are never reordered.
func BuildThreads(comments []model.ReviewComment) []Thread {
	if len(comments) == 0 {
		return nil
	}

	var roots []model.ReviewComment
	repliesByRoot := make(map[int64][]model.ReviewComment)

	for _, c := range comments {
		if c.InReplyToID == nil {
			roots = append(roots, c)
			continue
		}
		parentID := *c.InReplyToID
		repliesByRoot[parentID] = append(repliesByRoot[parentID], c)
	}

	threads := make([]Thread, 0, len(roots))
	for _, root := range roots {
		threads = append(threads, Thread{
			Root:    root,
			Replies: repliesByRoot[root.ID],
		})
	}

	sort.SliceStable(threads, func(i, j int) bool {
		a, b := threads[i].Root, threads[j].Root
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		return a.Line < b.Line
	})

	return threads
}
