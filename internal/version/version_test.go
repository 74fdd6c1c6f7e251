package version

import (
	"runtime"
	"runtime/debug"
	"strings"
	"testing"
)

func TestGetInfo(t *testing.T) {
	origVersion, origCommit, origDate := Version, Commit, Date
	defer func() {
		Version, Commit, Date = origVersion, origCommit, origDate
	}()

	Version = "1.0.0"
	Commit = "abc123def456"
	Date = "2026-01-01T12:00:00Z"

	info := GetInfo()

	if info.Version != "1.0.0" || info.Commit != "abc123def456" || info.Date != "2026-01-01T12:00:00Z" {
		t.Errorf("GetInfo() = %+v", info)
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %v, want %v", info.GoVersion, runtime.Version())
	}
	if want := runtime.GOOS + "/" + runtime.GOARCH; info.Platform != want {
		t.Errorf("Platform = %v, want %v", info.Platform, want)
	}
}

func TestFillFromBuildSettings(t *testing.T) {
	settings := []debug.BuildSetting{
		{Key: "vcs.revision", Value: "0123456789abcdef"},
		{Key: "vcs.time", Value: "2026-10-01T00:00:00Z"},
	}

	tests := []struct {
		name       string
		info       Info
		wantCommit string
		wantDate   string
	}{
		{
			name:       "fills unknown fields",
			info:       Info{Commit: "unknown", Date: "unknown"},
			wantCommit: "0123456789abcdef",
			wantDate:   "2026-10-01T00:00:00Z",
		},
		{
			name:       "ldflags win",
			info:       Info{Commit: "cafebabe", Date: "2026-01-01"},
			wantCommit: "cafebabe",
			wantDate:   "2026-01-01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := tt.info
			fillFromBuildSettings(&info, settings)
			if info.Commit != tt.wantCommit || info.Date != tt.wantDate {
				t.Errorf("got commit=%s date=%s, want %s %s", info.Commit, info.Date, tt.wantCommit, tt.wantDate)
			}
		})
	}
}

func TestInfoString(t *testing.T) {
	tests := []struct {
		name string
		info Info
		want []string
	}{
		{
			name: "long commit is shortened",
			info: Info{Version: "1.0.0", Commit: "abc123def456", Date: "2026-01-01", GoVersion: "go1.24.0", Platform: "linux/amd64"},
			want: []string{"taskflow 1.0.0", "(abc123de)", "2026-01-01", "go1.24.0", "linux/amd64"},
		},
		{
			name: "short commit",
			info: Info{Version: "1.0.0", Commit: "abc123", Date: "2026-01-01", GoVersion: "go1.24.0", Platform: "darwin/arm64"},
			want: []string{"(abc123)", "darwin/arm64"},
		},
		{
			name: "dev build",
			info: Info{Version: "dev", Commit: "unknown", Date: "unknown"},
			want: []string{"taskflow dev", "unknown"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.info.String()
			for _, substr := range tt.want {
				if !strings.Contains(got, substr) {
					t.Errorf("String() = %v, missing %v", got, substr)
				}
			}
		})
	}
}

func TestInfoShort(t *testing.T) {
	if got := (Info{Version: "1.0.0-rc1"}).Short(); got != "1.0.0-rc1" {
		t.Errorf("Short() = %v", got)
	}
}
