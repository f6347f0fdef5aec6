package discover

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func defaultPatterns() *Patterns {
	return NewPatterns([]string{"*_spec.rb", "spec/**/*.rb"}, []string{"vendor/**/*"})
}

func paths(entries []FileEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = filepath.ToSlash(e.Path)
	}
	return out
}

func TestDiscoverSpecFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, dir, "spec/models/user_spec.rb", "")
	writeFile(t, dir, "spec/support/helpers.rb", "")
	writeFile(t, dir, "test/widget_spec.rb", "")
	// Production code is not a spec.
	writeFile(t, dir, "app/models/user.rb", "")
	// Non-Ruby files are ignored.
	writeFile(t, dir, "spec/fixtures/data.json", "{}")
	// Hidden file should be ignored
	writeFile(t, dir, ".hidden_spec.rb", "")

	entries, err := Files(dir, defaultPatterns())
	if err != nil {
		t.Fatalf("Files: %v", err)
	}

	want := []string{
		"spec/models/user_spec.rb",
		"spec/support/helpers.rb",
		"test/widget_spec.rb",
	}
	if diff := cmp.Diff(want, paths(entries)); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}
	for _, e := range entries {
		if e.Language != "ruby" {
			t.Errorf("entry %q: language = %q, want ruby", e.Path, e.Language)
		}
	}
}

func TestDiscoverSkipDirs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, dir, "spec/a_spec.rb", "")
	writeFile(t, dir, "node_modules/pkg/b_spec.rb", "")
	writeFile(t, dir, ".bundle/c_spec.rb", "")
	writeFile(t, dir, ".hidden/d_spec.rb", "")

	entries, err := Files(dir, defaultPatterns())
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if diff := cmp.Diff([]string{"spec/a_spec.rb"}, paths(entries)); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}
}

func TestDiscoverExclude(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, dir, "spec/a_spec.rb", "")
	writeFile(t, dir, "spec/legacy/b_spec.rb", "")
	writeFile(t, dir, "vendor/gems/c_spec.rb", "")

	p := NewPatterns([]string{"*_spec.rb"}, []string{"vendor/**/*", "spec/legacy/"})
	entries, err := Files(dir, p)
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if diff := cmp.Diff([]string{"spec/a_spec.rb"}, paths(entries)); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}
}

func TestDiscoverGitignore(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, dir, ".gitignore", "generated/\n")
	writeFile(t, dir, "spec/a_spec.rb", "")
	writeFile(t, dir, "generated/b_spec.rb", "")

	entries, err := Files(dir, defaultPatterns())
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if diff := cmp.Diff([]string{"spec/a_spec.rb"}, paths(entries)); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}
}

func TestDiscoverSymlinksSkipped(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "real_spec.rb", "")

	// Create symlink
	err := os.Symlink(filepath.Join(dir, "real_spec.rb"), filepath.Join(dir, "link_spec.rb"))
	if err != nil {
		t.Skip("symlinks not supported")
	}

	entries, err := Files(dir, defaultPatterns())
	if err != nil {
		t.Fatalf("Files: %v", err)
	}

	if diff := cmp.Diff([]string{"real_spec.rb"}, paths(entries)); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}
}

func TestPatternsMatch(t *testing.T) {
	t.Parallel()

	p := defaultPatterns()
	cases := []struct {
		path string
		want bool
	}{
		{"user_spec.rb", true},
		{"spec/models/user_spec.rb", true},
		{"spec/spec_helper.rb", true},
		{"spec/support/deep/matchers.rb", true},
		{"engines/billing/spec/invoice_spec.rb", true},
		{"app/models/user.rb", false},
		{"lib/spec/helper.rb", false},
		{"vendor/bundle/foo_spec.rb", false},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.path, func(t *testing.T) {
			t.Parallel()
			if got := p.Match(tc.path); got != tc.want {
				t.Errorf("Match(%q) = %v, want %v", tc.path, got, tc.want)
			}
		})
	}
}

func TestDiscoverSubdirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "spec/support/helpers.rb", "")
	writeFile(t, dir, "spec/models/user_spec.rb", "")
	writeFile(t, dir, "vendor/gems/x_spec.rb", "")

	// Walking spec/ directly still applies root-relative patterns.
	entries, err := Files(filepath.Join(dir, "spec"), defaultPatterns().Under("spec"))
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	want := []string{"models/user_spec.rb", "support/helpers.rb"}
	if diff := cmp.Diff(want, paths(entries)); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}

	entries, err = Files(filepath.Join(dir, "vendor"), defaultPatterns().Under("vendor"))
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("excluded directory yielded %v", paths(entries))
	}
}

func TestPatternsUnderRoot(t *testing.T) {
	t.Parallel()

	p := defaultPatterns()
	if p.Under(".") != p || p.Under("") != p {
		t.Error("Under of the root should return the same patterns")
	}
	if p.Under("spec").Match("../app/user.rb") {
		t.Error("path outside spec/ should not match")
	}
}

func TestFile(t *testing.T) {
	t.Parallel()

	p := defaultPatterns()
	if _, ok := File("spec/a_spec.rb", p); !ok {
		t.Error("spec file should be selected")
	}
	if _, ok := File("spec/a_spec.py", p); ok {
		t.Error("non-Ruby file should not be selected")
	}
	if _, ok := File("app/a.rb", p); ok {
		t.Error("non-spec file should not be selected")
	}
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
