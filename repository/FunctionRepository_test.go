package repository

import (
	"regexp"
	"testing"
)

func TestGenerateQuoteNumberFormat(t *testing.T) {
	re := regexp.MustCompile(`^Q-[A-Z]{2}\d{5}$`)
	for i := 0; i < 20; i++ {
		number := GenerateQuoteNumber()
		if !re.MatchString(number) {
			t.Fatalf("quote number %q does not match expected format", number)
		}
	}
}

func TestGeneratePortalTokenUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		token := GeneratePortalToken()
		if token == "" {
			t.Fatal("empty portal token")
		}
		if seen[token] {
			t.Fatalf("duplicate portal token %q", token)
		}
		seen[token] = true
	}
}

func TestGenerateRevisionCode(t *testing.T) {
	cases := []struct {
		previous string
		want     string
	}{
		{"", "RV-01"},
		{"RV-01", "RV-02"},
		{"RV-09", "RV-10"},
		{"RV-99", "RV-100"},
		{"garbage", "RV-01"},
	}
	for _, tc := range cases {
		if got := GenerateRevisionCode(tc.previous); got != tc.want {
			t.Errorf("GenerateRevisionCode(%q) = %q, want %q", tc.previous, got, tc.want)
		}
	}
}
