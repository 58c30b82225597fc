package app

import "testing"

func TestBuildVersion(t *testing.T) {
	original := Version
	t.Cleanup(func() { Version = original })

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "defaults to dev", in: "", want: "dev"},
		{name: "trims value", in: " 1.2.3 ", want: "1.2.3"},
	}

	for _, tt := range tests {
		Version = tt.in
		if got := BuildVersion(); got != tt.want {
			t.Fatalf("%s: BuildVersion() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestBuildVersionWithDate(t *testing.T) {
	origVersion, origDate := Version, BuildDate
	t.Cleanup(func() {
		Version = origVersion
		BuildDate = origDate
	})

	Version = "1.2.3"
	BuildDate = ""
	if got := BuildVersionWithDate(); got != "1.2.3" {
		t.Fatalf("expected bare version without date, got %q", got)
	}

	BuildDate = "2026-08-29"
	if got := BuildVersionWithDate(); got != "1.2.3 (2026-08-29)" {
		t.Fatalf("unexpected versioned date string: %q", got)
	}
}
