package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInternalImportPredicate(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"infracheck/internal/graph", true},
		{"example.com/mod/internal/x", true},
		{"infracheck/pkg/domain", false},
		{"internal/abi", false},
	}
	for _, c := range cases {
		if got := InternalImport(c.in); got != c.want {
			t.Fatalf("InternalImport(%q)=%v want %v", c.in, got, c.want)
		}
	}
}

func TestPersistenceImportPredicate(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"infracheck/internal/infra/persistence/sqlite", true},
		{"infracheck/internal/infra/blob/s3", true},
		{"infracheck/internal/blob", true},
		{"infracheck/internal/report", true},
		{"github.com/jackc/pgx/v5/stdlib", true},
		{"modernc.org/sqlite", true},
		{"github.com/aws/aws-sdk-go-v2/service/s3", true},
		{"database/sql", true},
		{"infracheck/internal/infracache", false},
		{"encoding/json", false},
	}
	for _, c := range cases {
		if got := PersistenceImport(c.in); got != c.want {
			t.Fatalf("PersistenceImport(%q)=%v want %v", c.in, got, c.want)
		}
	}
}

func writePkg(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, src := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func TestAssertNoDirectImportsPasses(t *testing.T) {
	dir := writePkg(t, map[string]string{
		"x.go":      "package tmp\nimport \"fmt\"\nfunc X() { fmt.Println(1) }\n",
		"x_test.go": "package tmp\nimport _ \"database/sql\"\n",
	})
	AssertNoDirectImports(t, dir, PersistenceImport, "tests may import anything")
}

func TestDirectImportViolationsReportsFile(t *testing.T) {
	dir := writePkg(t, map[string]string{
		"store.go": "package tmp\nimport (\n\t\"database/sql\"\n\t\"fmt\"\n)\nvar _ = fmt.Sprint\nvar _ *sql.DB\n",
	})
	viols, err := directImportViolations(dir, PersistenceImport)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(viols) != 1 || viols[0] != "database/sql (in store.go)" {
		t.Fatalf("unexpected violations: %v", viols)
	}
}

func TestDirectImportViolationsMissingDir(t *testing.T) {
	if _, err := directImportViolations(filepath.Join(t.TempDir(), "missing"), InternalImport); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}

type recordingFatal struct{ msg string }

func (r *recordingFatal) Fatalf(format string, args ...any) { r.msg = fmt.Sprintf(format, args...) }

func TestFailIfViolations(t *testing.T) {
	var r recordingFatal
	failIfViolations(&r, "reason", nil)
	if r.msg != "" {
		t.Fatalf("unexpected failure: %s", r.msg)
	}
	failIfViolations(&r, "reason", []string{"a (in b.go)"})
	if !strings.Contains(r.msg, "reason") || !strings.Contains(r.msg, "a (in b.go)") {
		t.Fatalf("unexpected message: %s", r.msg)
	}
}
