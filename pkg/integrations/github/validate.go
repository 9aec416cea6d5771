package github

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/matzehuels/devlens/pkg/errors"
)

var (
	// GitHub logins: 1-39 alphanumeric or hyphen, no leading or trailing hyphen.
	validLogin = regexp.MustCompile(`^[A-Za-z0-9-]{1,39}$`)

	hasScheme   = regexp.MustCompile(`(?i)^https?://`)
	githubInRaw = regexp.MustCompile(`(?i)github\.com/`)
)

// ParseSubject turns a username, "@username", "github.com/user" or a full
// profile URL into a lowercased login. Failures are VALIDATION errors whose
// message is safe to show to end users.
func ParseSubject(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", errors.New(errors.ErrCodeValidation, "Enter a GitHub username or profile URL.")
	}

	if githubInRaw.MatchString(candidate) && !hasScheme.MatchString(candidate) {
		candidate = "https://" + candidate
	}

	if hasScheme.MatchString(candidate) {
		u, err := url.Parse(candidate)
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeValidation, err, "Invalid URL format. Use a username or github.com profile URL.")
		}
		host := strings.ToLower(u.Hostname())
		if host != "github.com" && host != "www.github.com" {
			return "", errors.New(errors.ErrCodeValidation, "URL must be a valid github.com profile URL.")
		}
		segment := firstSegment(u.EscapedPath())
		if segment == "" {
			return "", errors.New(errors.ErrCodeValidation, "GitHub URL is missing a username.")
		}
		candidate = segment
	}

	candidate = strings.TrimSpace(strings.TrimLeft(candidate, "@"))
	candidate = strings.TrimSuffix(candidate, ".git")

	if !validLogin.MatchString(candidate) || strings.HasPrefix(candidate, "-") || strings.HasSuffix(candidate, "-") {
		return "", errors.New(errors.ErrCodeValidation, "Invalid GitHub username format.")
	}
	return strings.ToLower(candidate), nil
}

func firstSegment(path string) string {
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			return s
		}
	}
	return ""
}
