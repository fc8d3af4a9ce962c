package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/dsvalidate-cli/internal/utils"
)

func TestSafeWriteFileCreatesParent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "out.json")
	if err := utils.SafeWriteFile(path, []byte("{}")); err != nil {
		t.Fatalf("SafeWriteFile: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil || string(b) != "{}" {
		t.Fatalf("unexpected content %q (%v)", b, err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind")
	}
}

func TestPrettyJSON(t *testing.T) {
	b, err := utils.PrettyJSON(map[string]int{"b": 2, "a": 1})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "{\n  \"a\": 1,\n  \"b\": 2\n}" {
		t.Fatalf("unexpected json %s", b)
	}
}

func TestMask(t *testing.T) {
	cases := map[string]string{"": "", "abc": "******", "sk-or-123456789": "sk-****789"}
	for in, want := range cases {
		if got := utils.Mask(in); got != want {
			t.Errorf("Mask(%q) = %q, want %q", in, got, want)
		}
	}
}
