package schemes

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/povarna/mf-faq-agent/internal/config"
)

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	logger := zerolog.Nop()
	r, err := NewResolver(config.DefaultRules(), &logger)
	if err != nil {
		t.Fatalf("failed to create resolver: %v", err)
	}
	return r
}

func TestResolve(t *testing.T) {
	r := newTestResolver(t)

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"exact name", "What is the expense ratio of SBI Large Cap Fund?", "SBI Large Cap Fund"},
		{"bluechip alias pattern", "What is the NAV of SBI Bluechip Fund?", "SBI Large Cap Fund"},
		{"blue chip spaced", "sbi blue chip fund exit load", "SBI Large Cap Fund"},
		{"multicap", "minimum sip for sbi multicap fund", "SBI Multicap Fund"},
		{"nifty 50 variant", "sbi nifty 50 index fund benchmark", "SBI Nifty Index Fund"},
		{"small cap", "riskometer of sbi small cap fund", "SBI Small Cap Fund"},
		{"equity hybrid", "aum of sbi equity hybrid fund", "SBI Equity Hybrid Fund"},
		{"elss", "lock in of sbi elss", "SBI ELSS Tax Saver Fund"},
		{"flexi cap", "sbi flexi cap details", "SBI Flexi Cap Fund"},
		{"magnum multiplier", "sbi magnum multiplier fund returns", "SBI Magnum Multiplier Fund"},
		{"no scheme", "what is an expense ratio", ""},
		{"case insensitive", "WHAT IS THE NAV OF SBI SMALL CAP FUND", "SBI Small Cap Fund"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := r.Resolve(test.query)
			if got != test.want {
				t.Errorf("Resolve(%q) = %q, want %q", test.query, got, test.want)
			}
		})
	}
}

func TestIsAvailable(t *testing.T) {
	r := newTestResolver(t)

	tests := []struct {
		name   string
		scheme string
		want   bool
	}{
		{"empty scheme passes", "", true},
		{"available scheme", "SBI Large Cap Fund", true},
		{"alias resolves to available", "SBI Bluechip Fund", true},
		{"nifty alias", "SBI Nifty 50 Index Fund", true},
		{"unavailable elss", "SBI ELSS Tax Saver Fund", false},
		{"unavailable flexi cap", "SBI Flexi Cap Fund", false},
		{"unknown scheme", "SBI Magnum Multiplier Fund", false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, canned := r.IsAvailable(test.scheme)
			if got != test.want {
				t.Errorf("IsAvailable(%q) = %v, want %v", test.scheme, got, test.want)
			}
			if test.want && canned != nil {
				t.Errorf("available scheme should not carry a canned response")
			}
			if !test.want {
				if canned == nil {
					t.Fatalf("unavailable scheme missing canned response")
				}
				if !canned.SchemeNotAvailable {
					t.Errorf("canned response missing scheme_not_available flag")
				}
				if canned.RequestedScheme != test.scheme {
					t.Errorf("requested scheme = %q, want %q", canned.RequestedScheme, test.scheme)
				}
				if !strings.Contains(canned.Answer, test.scheme) {
					t.Errorf("canned answer does not echo the requested scheme")
				}
				for _, available := range r.Available() {
					if !strings.Contains(canned.Answer, available) {
						t.Errorf("canned answer missing available scheme %q", available)
					}
				}
			}
		})
	}
}

func TestAvailable_ReturnsCopy(t *testing.T) {
	r := newTestResolver(t)

	first := r.Available()
	first[0] = "mutated"

	second := r.Available()
	if second[0] == "mutated" {
		t.Errorf("Available() leaked internal slice")
	}
}
