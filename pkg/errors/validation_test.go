package errors

import (
	"strings"
	"testing"
)

func TestValidateLimit(t *testing.T) {
	tests := []struct {
		name    string
		limit   int
		wantErr bool
	}{
		{"zero", 0, false},
		{"one", 1, false},
		{"max", MaxLimit, false},

		{"negative", -1, true},
		{"above max", MaxLimit + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLimit(tt.limit)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLimit(%d) error = %v, wantErr %v", tt.limit, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidParameter) {
				t.Errorf("ValidateLimit(%d) code = %v, want %v", tt.limit, GetCode(err), ErrCodeInvalidParameter)
			}
		})
	}
}

func TestValidateKeys(t *testing.T) {
	tests := []struct {
		name    string
		keys    []string
		wantErr bool
	}{
		{"single", []string{"TP53"}, false},
		{"several", []string{"TP53", "MDM2", "uniprot:P04637"}, false},

		{"nil", nil, true},
		{"empty slice", []string{}, true},
		{"empty key", []string{"TP53", ""}, true},
		{"control char", []string{"TP\x0153"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKeys("source", tt.keys)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateKeys(%q) error = %v, wantErr %v", tt.keys, err, tt.wantErr)
			}
		})
	}
}

func TestValidateKeysMessage(t *testing.T) {
	err := ValidateKeys("target", nil)
	if err == nil {
		t.Fatal("ValidateKeys(nil) = nil, want error")
	}
	if !strings.Contains(UserMessage(err), "target") {
		t.Errorf("UserMessage() = %q, want mention of %q", UserMessage(err), "target")
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "egfr", false},
		{"valid with dash", "egfr-signaling", false},
		{"valid with dot", "reactome.v85", false},
		{"valid with underscore", "p53_core", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 200), true},
		{"path traversal", "foo..bar", true},
		{"slash", "foo/bar", true},
		{"backslash", "foo\\bar", true},
		{"leading dot", ".hidden", true},
		{"space", "foo bar", true},
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
