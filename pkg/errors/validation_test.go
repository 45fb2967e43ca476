package errors

import (
	"testing"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "o123", false},
		{"valid with brackets", "u_core/reg[3]", false},
		{"valid with dot", "net.1", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 2000)), true},
		{"space", "foo bar", true},
		{"tab", "foo\tbar", true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
		{"semicolon", "foo;", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateManifestEntry(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid nodes", "adaptec1.nodes", false},
		{"valid subdir", "data/adaptec1.pl", false},
		{"valid dots in name", "a..b.nets", false},

		{"empty", "", true},
		{"absolute", "/etc/passwd", true},
		{"traversal", "../secret.scl", true},
		{"nested traversal", "data/../../x.pl", true},
		{"control char", "a\x01.pl", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateManifestEntry(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateManifestEntry(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidateManifestEntry(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidPath)
			}
		})
	}
}
