package model

// PRStatus represents the state of a pull request.
type PRStatus string

const (
	PRStatusOpen   PRStatus = "open"
	PRStatusClosed PRStatus = "closed"
	PRStatusMerged PRStatus = "merged"
)

// ReviewState represents the state of a review.
type ReviewState string

const (
	ReviewStateApproved         ReviewState = "approved"
	ReviewStateChangesRequested ReviewState = "changes_requested"
	ReviewStateCommented        ReviewState = "commented"
	ReviewStatePending          ReviewState = "pending"
	ReviewStateDismissed        ReviewState = "dismissed"
)

// AuthorAssociation is GitHub's reported relationship between a comment author
// and the repository. Payloads may carry values outside the listed constants;
// the type passes them through untouched.
type AuthorAssociation string

const (
	AssociationOwner        AuthorAssociation = "OWNER"
	AssociationMember       AuthorAssociation = "MEMBER"
	AssociationCollaborator AuthorAssociation = "COLLABORATOR"
	AssociationContributor  AuthorAssociation = "CONTRIBUTOR"
	AssociationNone         AuthorAssociation = "NONE"
)
