package model

import "time"

// Review represents a review verdict submitted on a pull request.
type Review struct {
	ID          int64
	Reviewer    string
	State       ReviewState
	Body        string
	SubmittedAt time.Time
}
