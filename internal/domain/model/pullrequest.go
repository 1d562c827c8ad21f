package model

// PullRequest carries the pull request metadata rendered in the document
// header.
type PullRequest struct {
	Number     int
	Owner      string
	Repo       string
	Title      string
	Author     string
	Status     PRStatus
	URL        string
	HeadBranch string
	BaseBranch string
	Body       string
}

// RepoFullName returns the repository in "owner/repo" form.
func (pr PullRequest) RepoFullName() string {
	return pr.Owner + "/" + pr.Repo
}
