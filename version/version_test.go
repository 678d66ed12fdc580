package version

import "testing"

func TestGetFullVersion(t *testing.T) {
	defer func(v, c string) { Version, CommitHash = v, c }(Version, CommitHash)

	Version = "1.2.3"
	tests := []struct {
		commit string
		want   string
	}{
		{"unknown", "1.2.3"},
		{"", "1.2.3"},
		{"abc", "1.2.3 (abc)"},
		{"0123456789abcdef", "1.2.3 (0123456)"},
	}
	for _, tt := range tests {
		CommitHash = tt.commit
		if got := GetFullVersion(); got != tt.want {
			t.Fatalf("GetFullVersion() with %q = %q, want %q", tt.commit, got, tt.want)
		}
	}
}
