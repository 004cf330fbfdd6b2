package slug

import "strings"

const (
	// ShortSHALength is the number of characters kept by ShaShort.
	ShortSHALength = 8

	// HeadRefMaxLength is the number of characters kept by HeadRefShort.
	// 60 leaves room for a prefix inside the 63-character limit of DNS
	// labels and Kubernetes resource names.
	HeadRefMaxLength = 60
)

// RepositoryOwner returns the owner part of an "owner/name" repository
// identifier, or "" when the identifier is empty.
//
//	RepositoryOwner("remotecompany/envs-action") // "remotecompany"
func RepositoryOwner(repository string) string {
	if repository == "" {
		return ""
	}
	owner, _, _ := strings.Cut(repository, "/")
	return owner
}

// RepositoryName returns the name part of an "owner/name" repository
// identifier. Only the second segment is returned, so "a/b/c" yields "b".
// Returns "" when the identifier is empty or has no "/".
func RepositoryName(repository string) string {
	if repository == "" {
		return ""
	}
	parts := strings.Split(repository, "/")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// RefName strips the first two segments of a Git ref, turning
// "refs/heads/<name>" or "refs/tags/<name>" into "<name>". Names containing
// "/" are kept whole:
//
//	RefName("refs/heads/feature/login") // "feature/login"
//
// Returns "" when the ref is empty or has fewer than three segments.
func RefName(ref string) string {
	if ref == "" {
		return ""
	}
	parts := strings.Split(ref, "/")
	if len(parts) <= 2 {
		return ""
	}
	return strings.Join(parts[2:], "/")
}

// ShaShort returns the first ShortSHALength characters of a commit SHA.
// The input is not validated; shorter input is returned unchanged.
func ShaShort(sha string) string {
	return truncate(sha, ShortSHALength)
}

// HeadRefShort returns the first HeadRefMaxLength characters of a head ref.
// No truncation marker is added.
func HeadRefShort(headRef string) string {
	return truncate(headRef, HeadRefMaxLength)
}

// truncate keeps at most n runes of s without splitting a multi-byte
// sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
