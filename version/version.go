// Package version reports build information for the gmdoc binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	// Version is the application version, set via ldflags.
	Version string
	// BuildDate is when the binary was built, set via ldflags.
	BuildDate string

	// Revision is the git commit revision.
	Revision = getRevision(debug.ReadBuildInfo)
)

// Info describes the running binary.
type Info struct {
	Version   string `json:"version"   yaml:"version"`
	Revision  string `json:"revision"  yaml:"revision"`
	BuildDate string `json:"buildDate" yaml:"buildDate"`
	GoVersion string `json:"goVersion" yaml:"goVersion"`
	Platform  string `json:"platform"  yaml:"platform"`
}

// Get returns the [Info] of the running binary. An unset version reads as
// "dev".
func Get() Info {
	v := Version
	if v == "" {
		v = "dev"
	}

	return Info{
		Version:   v,
		Revision:  Revision,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String formats i on one line.
func (i Info) String() string {
	s := fmt.Sprintf("gmdoc %s (%s, %s, %s)", i.Version, i.Revision, i.GoVersion, i.Platform)
	if i.BuildDate != "" {
		s += " built " + i.BuildDate
	}

	return s
}

func getRevision(read func() (*debug.BuildInfo, bool)) string {
	rev := "unknown"

	buildInfo, ok := read()
	if !ok {
		return rev
	}

	modified := false

	for _, v := range buildInfo.Settings {
		switch v.Key {
		case "vcs.revision":
			rev = v.Value
		case "vcs.modified":
			if v.Value == "true" {
				modified = true
			}
		}
	}

	if modified {
		return rev + "-dirty"
	}

	return rev
}
