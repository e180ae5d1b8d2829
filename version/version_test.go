package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetRevision(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		info *debug.BuildInfo
		want string
	}{
		"no build info": {
			want: "unknown",
		},
		"clean tree": {
			info: &debug.BuildInfo{Settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "abc123"},
				{Key: "vcs.modified", Value: "false"},
			}},
			want: "abc123",
		},
		"dirty tree": {
			info: &debug.BuildInfo{Settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "abc123"},
				{Key: "vcs.modified", Value: "true"},
			}},
			want: "abc123-dirty",
		},
		"no vcs settings": {
			info: &debug.BuildInfo{},
			want: "unknown",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := getRevision(func() (*debug.BuildInfo, bool) {
				return tc.info, tc.info != nil
			})
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestInfoString(t *testing.T) {
	t.Parallel()

	i := Info{
		Version:   "v1.2.0",
		Revision:  "abc123",
		GoVersion: "go1.25.0",
		Platform:  "linux/amd64",
	}

	assert.Equal(t, "gmdoc v1.2.0 (abc123, go1.25.0, linux/amd64)", i.String())

	i.BuildDate = "2026-01-02"
	assert.Equal(t, "gmdoc v1.2.0 (abc123, go1.25.0, linux/amd64) built 2026-01-02", i.String())

	assert.NotEmpty(t, Get().Version)
}
