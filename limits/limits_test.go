package limits

import (
	"errors"
	"strings"
	"syscall"
	"testing"

	"github.com/opd-ai/easysock/errs"
)

// TestValidatePort tests the boundaries of the port range
func TestValidatePort(t *testing.T) {
	tests := []struct {
		name    string
		port    int
		want    uint16
		wantErr bool
	}{
		{"zero", 0, 0, false},
		{"well known", 80, 80, false},
		{"max", MaxPort, 65535, false},
		{"negative", -1, 0, true},
		{"above max", MaxPort + 1, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidatePort(tt.port)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidatePort(%d) error = %v, wantErr %v", tt.port, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ValidatePort(%d) = %d, want %d", tt.port, got, tt.want)
			}
			if err != nil {
				if !errors.Is(err, errs.ErrInvalidPort) {
					t.Errorf("expected ErrInvalidPort, got %v", err)
				}
				if code := errs.Legacy(err); code != -int(syscall.EINVAL) {
					t.Errorf("legacy code = %d, want %d", code, -int(syscall.EINVAL))
				}
			}
		})
	}
}

// TestValidateHostname tests empty, oversized and well-formed names
func TestValidateHostname(t *testing.T) {
	longLabel := strings.Repeat("a", MaxLabelLength+1)
	maxName := strings.Repeat(strings.Repeat("b", MaxLabelLength)+".", 3) + strings.Repeat("b", 61)

	tests := []struct {
		name string
		host string
		want error
	}{
		{"simple", "example.org", nil},
		{"trailing dot", "example.org.", nil},
		{"single label", "localhost", nil},
		{"max length", maxName, nil},
		{"empty", "", ErrHostnameEmpty},
		{"only dot", ".", ErrHostnameEmpty},
		{"too long", maxName + "c", ErrHostnameTooLong},
		{"label too long", longLabel + ".example.org", ErrHostnameTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHostname(tt.host)
			if tt.want == nil {
				if err != nil {
					t.Errorf("ValidateHostname(%q) unexpected error: %v", tt.host, err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("ValidateHostname(%q) = %v, want %v", tt.host, err, tt.want)
			}
		})
	}
}
