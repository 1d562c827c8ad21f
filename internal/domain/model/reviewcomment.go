package model

import "time"

// ReviewComment represents a comment on a specific line within a pull request
// review. InReplyToID is nil for thread roots and holds the root comment's ID
// for replies.
type ReviewComment struct {
	ID                int64
	Author            string
	AuthorAssociation AuthorAssociation
	Body              string
	Path              string
	Line              int // 0 when the comment carries no usable diff line.
	DiffHunk          string
	HTMLURL           string
	InReplyToID       *int64
	IsSuggestion      bool
	CreatedAt         time.Time
}
