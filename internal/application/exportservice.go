// Package application wires the fetch adapter and the formatting pipeline
// into the one-shot export operation the CLI runs.
package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/filipembedded/pr-bridge/internal/domain/model"
	"github.com/filipembedded/pr-bridge/internal/domain/port/driven"
	"github.com/filipembedded/pr-bridge/internal/format"
)

// ExportOptions controls a single export run.
type ExportOptions struct {
	Filter         format.FilterMode
	IncludeGeneral bool
}

// ExportResult carries the rendered document plus fetch statistics for
// progress reporting.
type ExportResult struct {
	PR             model.PullRequest
	Document       string
	ReviewComments int
	IssueComments  int
	Reviews        int
}

// ExportService fetches a pull request's review discussion and renders it as
// Markdown. It depends only on the GitHubClient port and the pure formatting
// pipeline.
type ExportService struct {
	client    driven.GitHubClient
	formatter *format.Formatter
}

// NewExportService creates a new ExportService with the required dependencies.
func NewExportService(client driven.GitHubClient, formatter *format.Formatter) *ExportService {
	return &ExportService{
		client:    client,
		formatter: formatter,
	}
}

// Export fetches the pull request, its inline review comments, its general
// comments, and its review verdicts, then renders the document. Any fetch
// failure aborts the export. General comments are not fetched at all when
// opts.IncludeGeneral is false.
func (s *ExportService) Export(ctx context.Context, repoFullName string, prNumber int, opts ExportOptions) (*ExportResult, error) {
	slog.Info("fetching pull request", "repo", repoFullName, "pr", prNumber)
	pr, err := s.client.FetchPullRequest(ctx, repoFullName, prNumber)
	if err != nil {
		return nil, fmt.Errorf("fetching pull request: %w", err)
	}
	slog.Info("pull request fetched", "repo", repoFullName, "pr", prNumber, "title", pr.Title)

	reviewComments, err := s.client.FetchReviewComments(ctx, repoFullName, prNumber)
	if err != nil {
		return nil, fmt.Errorf("fetching review comments: %w", err)
	}
	slog.Info("inline review comments fetched", "repo", repoFullName, "pr", prNumber, "count", len(reviewComments))

	var issueComments []model.IssueComment
	if opts.IncludeGeneral {
		issueComments, err = s.client.FetchIssueComments(ctx, repoFullName, prNumber)
		if err != nil {
			return nil, fmt.Errorf("fetching issue comments: %w", err)
		}
		slog.Info("general comments fetched", "repo", repoFullName, "pr", prNumber, "count", len(issueComments))
	}

	reviews, err := s.client.FetchReviews(ctx, repoFullName, prNumber)
	if err != nil {
		return nil, fmt.Errorf("fetching reviews: %w", err)
	}
	slog.Info("reviews fetched", "repo", repoFullName, "pr", prNumber, "count", len(reviews))

	if n := countSuggestions(reviewComments); n > 0 {
		slog.Debug("suggestion blocks present", "repo", repoFullName, "pr", prNumber, "count", n)
	}

	slog.Info("rendering document", "filter", opts.Filter)
	doc := s.formatter.FormatPR(*pr, reviewComments, issueComments, reviews, opts.Filter)

	return &ExportResult{
		PR:             *pr,
		Document:       doc,
		ReviewComments: len(reviewComments),
		IssueComments:  len(issueComments),
		Reviews:        len(reviews),
	}, nil
}

// countSuggestions counts review comments carrying a suggested-change block.
func countSuggestions(comments []model.ReviewComment) int {
	n := 0
	for _, c := range comments {
		if c.IsSuggestion {
			n++
		}
	}
	return n
}
