package slug

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestRepositoryOwner(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "owner and name", input: "remotecompany/envs-action", want: "remotecompany"},
		{name: "empty repository", input: "", want: ""},
		{name: "no separator", input: "standalone", want: "standalone"},
		{name: "extra segments", input: "a/b/c", want: "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RepositoryOwner(tt.input))
		})
	}
}

func TestRepositoryName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "owner and name", input: "remotecompany/envs-action", want: "envs-action"},
		{name: "empty repository", input: "", want: ""},
		{name: "no separator", input: "standalone", want: ""},
		{name: "extra segments keep only the second", input: "a/b/c", want: "b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RepositoryName(tt.input))
		})
	}
}

func TestRefName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "simple branch", input: "refs/heads/feature-branch-1", want: "feature-branch-1"},
		{name: "tag", input: "refs/tags/v1.0.0", want: "v1.0.0"},
		{name: "branch with slashes", input: "refs/heads/feat/login/form", want: "feat/login/form"},
		{name: "pull request merge ref", input: "refs/pull/42/merge", want: "42/merge"},
		{name: "empty ref", input: "", want: ""},
		{name: "too few segments", input: "refs/heads", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RefName(tt.input))
		})
	}
}

func TestShaShort(t *testing.T) {
	assert.Equal(t, "00ac537a", ShaShort("00ac537a6cbbf934b08745a378932722df287a53"))
	assert.Equal(t, "", ShaShort(""), "absent SHA stays absent")
	assert.Equal(t, "abc", ShaShort("abc"), "short input is returned unchanged")
	assert.Equal(t, "12345678", ShaShort("12345678"))
}

// TestHeadRefShort verifies the 60-character cap, including the case
// used as a regression fixture for overly long branch names.
func TestHeadRefShort(t *testing.T) {
	long := "feature/this-is-ne-very-very-very-long-branch-name-for-no-good-reason"
	got := HeadRefShort(long)
	assert.Len(t, got, 60)
	assert.True(t, strings.HasPrefix(long, got))

	assert.Equal(t, "", HeadRefShort(""))
	assert.Equal(t, "main", HeadRefShort("main"))
}

// TestHeadRefShort_Length checks len(HeadRefShort(x)) == min(60, len(x))
// in characters, including multi-byte input.
func TestHeadRefShort_Length(t *testing.T) {
	inputs := []string{
		"",
		"a",
		strings.Repeat("b", 59),
		strings.Repeat("c", 60),
		strings.Repeat("d", 61),
		strings.Repeat("ü", 75),
		strings.Repeat("x", 30) + strings.Repeat("🚀", 40),
	}

	for _, input := range inputs {
		got := HeadRefShort(input)
		want := min(HeadRefMaxLength, utf8.RuneCountInString(input))
		assert.Equal(t, want, utf8.RuneCountInString(got), "input %q", input)
		assert.True(t, utf8.ValidString(got), "truncation must not split a character")
	}
}
