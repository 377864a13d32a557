package utils

import (
	"net/url"
	"path"
	"strings"
)

// RedactURL removes credentials from a repository URL so it can be logged or
// stored. Values that do not parse as URLs, such as scp-style git addresses,
// are returned unchanged.
func RedactURL(repoURL string) string {
	u, err := url.Parse(repoURL)
	if err != nil || u.User == nil {
		return repoURL
	}
	if _, hasPassword := u.User.Password(); hasPassword {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	} else {
		u.User = url.User("xxxxx")
	}
	return u.String()
}

// RepoName returns the last path element of a repository URL without the
// .git suffix. It understands both URLs and scp-style addresses like
// git@host:owner/repo.git.
func RepoName(repoURL string) string {
	repoURL = strings.TrimSpace(repoURL)
	p := repoURL
	if u, err := url.Parse(repoURL); err == nil && u.Scheme != "" {
		p = u.Path
	} else if i := strings.Index(repoURL, ":"); i >= 0 {
		p = repoURL[i+1:]
	}

	name := path.Base(strings.TrimRight(p, "/"))
	name = strings.TrimSuffix(name, ".git")
	if name == "." || name == "/" {
		return ""
	}
	return name
}
