package branding

import "testing"

func TestEmbeddedValues(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"CLIName", CLIName(), "importext"},
		{"HomeDir", HomeDir(), ".importext"},
		{"EnvPrefix", EnvPrefix(), "IMPORTEXT"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s() = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
	if Description() == "" {
		t.Error("Description() is empty")
	}
}

func TestEnvVar(t *testing.T) {
	if got := EnvVar("cache_size"); got != "IMPORTEXT_CACHE_SIZE" {
		t.Errorf("EnvVar(cache_size) = %q, want %q", got, "IMPORTEXT_CACHE_SIZE")
	}
}
