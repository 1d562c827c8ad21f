package github

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// PRRef identifies a single pull request by repository and number.
type PRRef struct {
	Owner  string
	Repo   string
	Number int
}

// FullName returns the repository in "owner/repo" form.
func (r PRRef) FullName() string {
	return r.Owner + "/" + r.Repo
}

// ParsePRURL extracts owner, repository, and number from a pull request URL
// such as https://github.com/owner/repo/pull/123. The host is not inspected,
// so GitHub Enterprise URLs parse the same way; trailing path segments
// (/files, /commits, ...) are tolerated.
func ParsePRURL(rawURL string) (PRRef, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return PRRef{}, fmt.Errorf("parsing PR URL %q: %w", rawURL, err)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 4 || parts[2] != "pull" {
		return PRRef{}, fmt.Errorf("invalid PR URL %q: expected https://<host>/<owner>/<repo>/pull/<number>", rawURL)
	}

	number, err := strconv.Atoi(parts[3])
	if err != nil || number <= 0 {
		return PRRef{}, fmt.Errorf("invalid PR number %q in URL %q", parts[3], rawURL)
	}

	return PRRef{Owner: parts[0], Repo: parts[1], Number: number}, nil
}
