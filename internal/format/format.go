// Package format turns a pull request's raw review discussion into a single
// deterministic Markdown document: it threads inline comments, infers
// resolution, filters, and renders. The package is pure; it performs no I/O
// and its output depends only on its inputs.
package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/filipembedded/pr-bridge/internal/domain/model"
)

const (
	// hunkTailLines bounds the diff context shown per thread. The full hunk
	// can be very long; its tail is what the comment refers to.
	hunkTailLines = 6
	// verdictPreviewLimit bounds review verdict body previews, in characters.
	verdictPreviewLimit = 200
)

// meaningfulVerdicts are the review states surfaced in the summary section.
// Bare COMMENTED reviews and PENDING drafts carry no verdict.
var meaningfulVerdicts = map[model.ReviewState]bool{
	model.ReviewStateApproved:         true,
	model.ReviewStateChangesRequested: true,
	model.ReviewStateDismissed:        true,
}

// Formatter renders a pull request's review discussion as Markdown.
type Formatter struct {
	resolved ResolutionPolicy
}

// NewFormatter creates a Formatter using the given resolution policy. A nil
// policy defaults to ReplyHeuristic.
func NewFormatter(policy ResolutionPolicy) *Formatter {
	if policy == nil {
		policy = ReplyHeuristic
	}
	return &Formatter{resolved: policy}
}

// FormatPR builds the complete document for one pull request. Rendering the
// same records twice yields byte-identical text, and missing optional fields
// degrade to empty values rather than failing the render.
func (f *Formatter) FormatPR(
	pr model.PullRequest,
	reviewComments []model.ReviewComment,
	issueComments []model.IssueComment,
	reviews []model.Review,
	mode FilterMode,
) string {
	threads := ApplyFilter(BuildThreads(reviewComments), mode, f.resolved)

	var lines []string
	lines = append(lines, headerLines(pr, mode)...)
	lines = append(lines, reviewSummaryLines(reviews)...)
	lines = append(lines, f.threadLines(threads, mode)...)
	lines = append(lines, issueCommentLines(issueComments)...)

	return strings.Join(lines, "\n")
}

func headerLines(pr model.PullRequest, mode FilterMode) []string {
	return []string{
		fmt.Sprintf("# PR #%d: %s", pr.Number, pr.Title),
		"",
		fmt.Sprintf("- **Repository:** %s", pr.RepoFullName()),
		fmt.Sprintf("- **Author:** @%s", pr.Author),
		fmt.Sprintf("- **State:** %s", pr.Status),
		fmt.Sprintf("- **Branch:** `%s` → `%s`", pr.HeadBranch, pr.BaseBranch),
		fmt.Sprintf("- **URL:** %s", pr.URL),
		fmt.Sprintf("- **Filter:** %s", mode),
		"",
	}
}

func reviewSummaryLines(reviews []model.Review) []string {
	var meaningful []model.Review
	for _, r := range reviews {
		if meaningfulVerdicts[r.State] && r.Reviewer != "ghost" {
			meaningful = append(meaningful, r)
		}
	}
	if len(meaningful) == 0 {
		return nil
	}

	lines := []string{"## Review Summaries", ""}
	for _, r := range meaningful {
		reviewer := r.Reviewer
		if reviewer == "" {
			reviewer = "unknown"
		}
		lines = append(lines, fmt.Sprintf("- **@%s** — `%s` (%s)",
			reviewer, strings.ToUpper(string(r.State)), formatDate(r.SubmittedAt)))
		if body := cleanBody(r.Body); body != "" {
			lines = append(lines, "  > "+previewBody(body))
		}
	}
	return append(lines, "")
}

func (f *Formatter) threadLines(threads []Thread, mode FilterMode) []string {
	lines := []string{"## Inline Review Comments", ""}

	if len(threads) == 0 {
		return append(lines, "_No inline review comments found for the selected filter._", "")
	}

	shown := "all, including addressed"
	if mode == FilterUnresolved {
		shown = "open only"
	}
	lines = append(lines, fmt.Sprintf("_%d thread(s) shown (%s)._", len(threads), shown), "")

	// Group consecutive threads by file for easier navigation.
	currentFile := ""
	for i, t := range threads {
		if i == 0 || t.Root.Path != currentFile {
			currentFile = t.Root.Path
			lines = append(lines, "---", fmt.Sprintf("## File: `%s`", currentFile), "")
		}
		lines = append(lines, f.renderThread(t, i+1))
	}
	return lines
}

func (f *Formatter) renderThread(t Thread, index int) string {
	status := "**OPEN**"
	if f.resolved(t) {
		status = "addressed"
	}

	location := "no line"
	if t.Root.Line > 0 {
		location = fmt.Sprintf("line %d", t.Root.Line)
	}

	parts := []string{
		fmt.Sprintf("### Thread %d — `%s` (%s) [%s]", index, t.Root.Path, location, status),
		"",
		"**Diff context:**",
		"```diff",
		hunkTail(t.Root.DiffHunk),
		"```",
		"",
		renderCommentBody(t.Root, ""),
		"",
	}

	if len(t.Replies) > 0 {
		parts = append(parts, "**Replies:**", "")
		for _, reply := range t.Replies {
			parts = append(parts, renderCommentBody(reply, "> "), ">", "")
		}
	}

	return strings.Join(parts, "\n")
}

func renderCommentBody(c model.ReviewComment, indent string) string {
	lines := []string{
		fmt.Sprintf("%s**@%s** (%s) · %s",
			indent, c.Author, strings.ToLower(string(c.AuthorAssociation)), formatDate(c.CreatedAt)),
		fmt.Sprintf("%s[view on GitHub](%s)", indent, c.HTMLURL),
		"",
	}
	for _, line := range bodyLines(cleanBody(c.Body)) {
		lines = append(lines, indent+line)
	}
	return strings.Join(lines, "\n")
}

func issueCommentLines(comments []model.IssueComment) []string {
	if len(comments) == 0 {
		return nil
	}

	lines := []string{"---", "## General PR Comments", ""}
	for _, c := range comments {
		author := c.Author
		if author == "" {
			author = "unknown"
		}
		lines = append(lines,
			fmt.Sprintf("**@%s** (%s) · %s · [view](%s)",
				author, strings.ToLower(string(c.AuthorAssociation)), formatDate(c.CreatedAt), c.HTMLURL),
			"",
			cleanBody(c.Body),
			"",
		)
	}
	return lines
}

// hunkTail returns the last hunkTailLines lines of a diff hunk. Shorter hunks
// pass through untouched.
func hunkTail(hunk string) string {
	lines := strings.Split(hunk, "\n")
	if len(lines) <= hunkTailLines {
		return hunk
	}
	return strings.Join(lines[len(lines)-hunkTailLines:], "\n")
}

// previewBody truncates a cleaned verdict body to verdictPreviewLimit
// characters, marking the cut with an ellipsis.
func previewBody(body string) string {
	runes := []rune(body)
	if len(runes) > verdictPreviewLimit {
		return string(runes[:verdictPreviewLimit]) + "…"
	}
	return body
}

// cleanBody strips trailing whitespace from every line and blank lines from
// both ends of a comment body.
func cleanBody(body string) string {
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// bodyLines splits a cleaned body into lines, yielding none for an empty body.
func bodyLines(body string) []string {
	if body == "" {
		return nil
	}
	return strings.Split(body, "\n")
}

// formatDate renders the date part of a timestamp, or "" for the zero time.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
