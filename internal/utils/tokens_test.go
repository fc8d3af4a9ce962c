package utils_test

import (
	"strings"
	"testing"

	"github.com/KaramelBytes/dsvalidate-cli/internal/utils"
)

func TestCountTokens(t *testing.T) {
	cases := []struct {
		name string
		in   string
		min  int
	}{
		{"empty", "", 0},
		{"simple", "hello world", 2},
		{"long", strings.Repeat("a", 4000), 900}, // heuristic ~ 1 tok ≈ 4 chars
	}
	for _, c := range cases {
		if got := utils.CountTokens(c.in); got < c.min {
			t.Errorf("%s: got %d < min %d", c.name, got, c.min)
		}
	}
}

func TestCountTokensShortText(t *testing.T) {
	if got := utils.CountTokens("ab"); got != 1 {
		t.Fatalf("expected 1 token for short text, got %d", got)
	}
	if got := utils.CountTokens(strings.Repeat("é", 8)); got != 2 {
		t.Fatalf("expected rune based count, got %d", got)
	}
}
