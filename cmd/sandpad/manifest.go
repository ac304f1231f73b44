package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const noSandpadTomlMessage = "no sandpad.toml found\nplease run inside a workspace or pass its directory, e.g.:\n  sandpad run path/to/workspace"

type workspaceManifest struct {
	Path   string
	Root   string
	Config workspaceConfig
}

type workspaceConfig struct {
	Workspace workspaceSection `toml:"workspace"`
	Pipelines pipelinesSection `toml:"pipelines"`
	Compiler  compilerSection  `toml:"compiler"`
	Player    playerSection    `toml:"player"`
}

type workspaceSection struct {
	Name  string   `toml:"name"`
	Entry string   `toml:"entry"`
	Files []string `toml:"files"`
}

type pipelinesSection struct {
	Execution bool `toml:"execution"`
	Preview   bool `toml:"preview"`
}

type compilerSection struct {
	Command []string `toml:"command"`
}

type playerSection struct {
	Command []string `toml:"command"`
}

func findSandpadToml(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "sandpad.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func loadWorkspaceManifest(startDir string) (*workspaceManifest, error) {
	manifestPath, ok, err := findSandpadToml(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.New(noSandpadTomlMessage)
	}
	cfg, err := loadWorkspaceConfig(manifestPath)
	if err != nil {
		return nil, err
	}
	return &workspaceManifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, nil
}

func loadWorkspaceConfig(path string) (workspaceConfig, error) {
	var cfg workspaceConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return workspaceConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("workspace") {
		return workspaceConfig{}, fmt.Errorf("%s: missing [workspace]", path)
	}
	if !meta.IsDefined("workspace", "entry") || strings.TrimSpace(cfg.Workspace.Entry) == "" {
		return workspaceConfig{}, fmt.Errorf("%s: missing [workspace].entry", path)
	}
	if len(cfg.Workspace.Files) == 0 {
		return workspaceConfig{}, fmt.Errorf("%s: missing [workspace].files", path)
	}
	if len(cfg.Compiler.Command) == 0 {
		return workspaceConfig{}, fmt.Errorf("%s: missing [compiler].command", path)
	}

	// Both pipelines default to enabled when the section is absent.
	if !meta.IsDefined("pipelines") {
		cfg.Pipelines.Execution = true
		cfg.Pipelines.Preview = true
	}

	entryDeclared := false
	for _, f := range cfg.Workspace.Files {
		if !filepath.IsLocal(filepath.FromSlash(f)) {
			return workspaceConfig{}, fmt.Errorf("%s: file %q escapes the workspace root", path, f)
		}
		if f == cfg.Workspace.Entry {
			entryDeclared = true
		}
	}
	if !entryDeclared {
		return workspaceConfig{}, fmt.Errorf("%s: entry %q is not listed in [workspace].files", path, cfg.Workspace.Entry)
	}
	return cfg, nil
}

// loadWorkspaceFiles reads every declared file relative to the manifest root.
func loadWorkspaceFiles(m *workspaceManifest) (map[string]string, error) {
	files := make(map[string]string, len(m.Config.Workspace.Files))
	for _, name := range m.Config.Workspace.Files {
		p := filepath.Join(m.Root, filepath.FromSlash(name))
		// #nosec G304 -- paths come from the workspace manifest
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read workspace file %q: %w", name, err)
		}
		files[name] = string(data)
	}
	return files, nil
}
