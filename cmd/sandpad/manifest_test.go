package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "sandpad.toml"), []byte(content), 0o600); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
}

func TestLoadWorkspaceManifest(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[workspace]
name = "demo"
entry = "main.js"
files = ["main.js", "util.js"]

[pipelines]
execution = true
preview = false

[compiler]
command = ["node", "compiler.js"]

[player]
command = ["node"]
`)
	for _, name := range []string{"main.js", "util.js"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("// "+name), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	m, err := loadWorkspaceManifest(dir)
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}
	if m.Config.Workspace.Entry != "main.js" {
		t.Fatalf("unexpected entry: %q", m.Config.Workspace.Entry)
	}
	if m.Config.Pipelines.Preview {
		t.Fatal("preview pipeline must honor the manifest")
	}
	if len(m.Config.Compiler.Command) != 2 {
		t.Fatalf("unexpected compiler command: %v", m.Config.Compiler.Command)
	}

	files, err := loadWorkspaceFiles(m)
	if err != nil {
		t.Fatalf("load files: %v", err)
	}
	if files["util.js"] != "// util.js" {
		t.Fatalf("unexpected file content: %q", files["util.js"])
	}
}

func TestManifestPipelinesDefaultOn(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[workspace]
entry = "main.js"
files = ["main.js"]

[compiler]
command = ["cat"]
`)

	m, err := loadWorkspaceManifest(dir)
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}
	if !m.Config.Pipelines.Execution || !m.Config.Pipelines.Preview {
		t.Fatal("pipelines must default to enabled when the section is absent")
	}
}

func TestManifestRejectsUndeclaredEntry(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[workspace]
entry = "main.js"
files = ["other.js"]

[compiler]
command = ["cat"]
`)

	if _, err := loadWorkspaceManifest(dir); err == nil {
		t.Fatal("expected an error for an entry outside the file set")
	}
}

func TestManifestRejectsEscapingFilename(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[workspace]
entry = "main.js"
files = ["main.js", "../outside.js"]

[compiler]
command = ["cat"]
`)

	if _, err := loadWorkspaceManifest(dir); err == nil {
		t.Fatal("expected an error for a file outside the workspace root")
	}
}

func TestManifestSearchesUpward(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[workspace]
entry = "main.js"
files = ["main.js"]

[compiler]
command = ["cat"]
`)
	nested := filepath.Join(dir, "a", "b")
	if err := os.MkdirAll(nested, 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	m, err := loadWorkspaceManifest(nested)
	if err != nil {
		t.Fatalf("load manifest from nested dir: %v", err)
	}
	if m.Root != dir {
		t.Fatalf("unexpected manifest root: %q", m.Root)
	}
}
