package driven

import (
	"context"

	"github.com/filipembedded/pr-bridge/internal/domain/model"
)

// GitHubClient defines the driven port for reading a pull request's review
// discussion from the GitHub API.
type GitHubClient interface {
	// FetchPullRequest returns the metadata of a single pull request.
	FetchPullRequest(ctx context.Context, repoFullName string, prNumber int) (*model.PullRequest, error)
	// FetchReviews returns all submitted review verdicts for a pull request.
	FetchReviews(ctx context.Context, repoFullName string, prNumber int) ([]model.Review, error)
	// FetchReviewComments returns all inline review comments for a pull
	// request, in the order the API yields them (chronological).
	FetchReviewComments(ctx context.Context, repoFullName string, prNumber int) ([]model.ReviewComment, error)
	// FetchIssueComments returns all PR-level general comments.
	FetchIssueComments(ctx context.Context, repoFullName string, prNumber int) ([]model.IssueComment, error)
}
