package gitlog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeBranch(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "(remotes/origin/feature-x~3)", want: "feature-x"},
		{raw: "(main)", want: "main"},
		{raw: "(remotes/release^2)", want: "release"},
		{raw: "main", want: "main"},
		{raw: "(remotes/upstream/dev~1^2)", want: "upstream/dev"},
		{raw: "(feature/login~12)", want: "feature/login"},
		{raw: "(remotes/origin/HEAD)", want: "HEAD"},
		{raw: "()", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeBranch(tt.raw))
		})
	}
}

func TestParseNameRev(t *testing.T) {
	out := "aaa (main)\n" +
		"bbb (remotes/origin/feature-x~3)\n" +
		"ccc\n" +
		"ddd ()\n" +
		"\n" +
		"eee (remotes/release^2)\n"

	assert.Equal(t, map[string]string{
		"aaa": "main",
		"bbb": "feature-x",
		"eee": "release",
	}, ParseNameRev(out))
}

func TestNameRevArgs(t *testing.T) {
	assert.Equal(t,
		[]string{"name-rev", "--stdin", "--refs=refs/heads/*", "--refs=refs/remotes/*"},
		NameRevArgs(),
	)
}
