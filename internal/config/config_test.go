package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/phobologic/msgexpect/internal/model"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	c := cfg.MessageExpectation
	if !c.Enabled {
		t.Error("Enabled: got false, want true")
	}
	if c.Style() != model.StyleUnset {
		t.Errorf("Style: got %q, want unset", c.Style())
	}
	if diff := cmp.Diff([]string{"*_spec.rb", "spec/**/*.rb"}, c.Include); diff != "" {
		t.Errorf("Include mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"vendor/**/*", "node_modules/**/*"}, cfg.Excludes()); diff != "" {
		t.Errorf("Excludes mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadExplicitPath(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	path := writeConfig(t, dir, "custom.yml", `RSpec/MessageExpectation:
  EnforcedStyle: receive
  Exclude:
    - spec/legacy/**/*
`)

	cfg, loaded, err := Load(path, "")
	if err != nil {
		t.Fatal(err)
	}
	if loaded != path {
		t.Errorf("loaded path: got %q, want %q", loaded, path)
	}

	c := cfg.MessageExpectation
	if c.Style() != model.StyleReceive {
		t.Errorf("Style: got %q, want receive", c.Style())
	}
	// Unspecified fields retain defaults.
	if !c.Enabled {
		t.Error("Enabled: got false, want true (default)")
	}
	if len(c.Include) != 2 {
		t.Errorf("Include: got %v, want defaults", c.Include)
	}
	want := []string{"vendor/**/*", "node_modules/**/*", "spec/legacy/**/*"}
	if diff := cmp.Diff(want, cfg.Excludes()); diff != "" {
		t.Errorf("Excludes mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadNoConfigReturnsDefaults(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	cfg, loaded, err := Load("", dir)
	if err != nil {
		t.Fatal(err)
	}
	if loaded != "" {
		t.Errorf("loaded path: got %q, want empty", loaded)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadRubocopConfig(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	writeConfig(t, dir, ".rubocop.yml", `inherit_from: .rubocop_todo.yml
AllCops:
  TargetRubyVersion: 3.2
  Exclude:
    - db/schema.rb
Style/StringLiterals:
  EnforcedStyle: double_quotes
RSpec/MessageExpectation:
  Enabled: false
`)

	cfg, loaded, err := Load("", dir)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(loaded) != ".rubocop.yml" {
		t.Errorf("loaded path: got %q", loaded)
	}
	if cfg.MessageExpectation.Enabled {
		t.Error("Enabled: got true, want false")
	}
	if diff := cmp.Diff([]string{"db/schema.rb"}, cfg.AllCops.Exclude); diff != "" {
		t.Errorf("AllCops.Exclude mismatch (-want +got):\n%s", diff)
	}
}

func TestDiscoverOrder(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	writeConfig(t, dir, ".rubocop.yml", "")
	writeConfig(t, dir, ".msgexpect.yml", "")

	got := Discover(dir)
	if filepath.Base(got) != ".msgexpect.yml" {
		t.Errorf("Discover: got %q, want .msgexpect.yml", got)
	}
}

func TestDiscoverUpward(t *testing.T) {
	t.Parallel()
	top := t.TempDir()
	nested := filepath.Join(top, "spec", "models")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	want := writeConfig(t, top, ".rubocop.yml", "")

	if got := DiscoverUpward(nested, top); got != want {
		t.Errorf("DiscoverUpward(nested, top) = %q, want %q", got, want)
	}
	// The search never leaves stop.
	if got := DiscoverUpward(nested, filepath.Join(top, "spec")); got != "" {
		t.Errorf("DiscoverUpward stopped at spec: got %q, want none", got)
	}
	// dir outside stop only searches dir.
	if got := DiscoverUpward(nested, t.TempDir()); got != "" {
		t.Errorf("DiscoverUpward outside stop: got %q, want none", got)
	}

	local := writeConfig(t, nested, ".msgexpect.yml", "")
	if got := DiscoverUpward(nested, top); got != local {
		t.Errorf("closest config should win: got %q, want %q", got, local)
	}
}

func TestLoadInvalidStyle(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	path := writeConfig(t, dir, "bad.yml", `RSpec/MessageExpectation:
  EnforcedStyle: allow
`)

	_, _, err := Load(path, "")
	if err == nil {
		t.Fatal("expected error for invalid style")
	}
	if !errors.Is(err, ErrInvalidStyle) {
		t.Errorf("error %v should wrap ErrInvalidStyle", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, _, err := Load(filepath.Join(t.TempDir(), "nope.yml"), "")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestParseStyle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    model.Style
		wantErr bool
	}{
		{"have_received", model.StyleHaveReceived, false},
		{"receive", model.StyleReceive, false},
		{"", model.StyleUnset, false},
		{"expect", model.StyleUnset, true},
	}
	for _, tt := range tests {
		got, err := ParseStyle(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseStyle(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseStyle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
