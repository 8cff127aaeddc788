package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"hscript/internal/driver"
)

const manifestName = "hscript.toml"

type projectManifest struct {
	Path   string
	Root   string
	Config projectConfig
}

type projectConfig struct {
	LogLevel string       `toml:"log_level"`
	Project  projectInfo  `toml:"project"`
	Build    buildConfig  `toml:"build"`
	Parse    parseConfig  `toml:"parse"`
	Render   renderConfig `toml:"render"`
}

type projectInfo struct {
	Name string `toml:"name"`
}

type buildConfig struct {
	Src         string   `toml:"src"`
	Out         string   `toml:"out"`
	Ext         string   `toml:"ext"`
	IncludeDirs []string `toml:"include_dirs"`
}

type parseConfig struct {
	MaxDepth int  `toml:"max_depth"`
	NFC      bool `toml:"nfc"`
}

type renderConfig struct {
	MaxIncludeDepth int            `toml:"max_include_depth"`
	Cache           *bool          `toml:"cache"`
	Indent          string         `toml:"indent"`
	Vars            map[string]any `toml:"vars"`
}

func findManifest(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, manifestName)
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

func loadProjectManifest(startDir string) (*projectManifest, bool, error) {
	manifestPath, ok, err := findManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := loadProjectConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &projectManifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

func loadProjectConfig(path string) (projectConfig, error) {
	var cfg projectConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return projectConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("project") {
		return projectConfig{}, fmt.Errorf("%s: missing [project]", path)
	}
	if !meta.IsDefined("project", "name") || strings.TrimSpace(cfg.Project.Name) == "" {
		return projectConfig{}, fmt.Errorf("%s: missing [project].name", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return projectConfig{}, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}
	if cfg.Build.Ext != "" && !strings.HasPrefix(cfg.Build.Ext, ".") {
		return projectConfig{}, fmt.Errorf("%s: [build].ext must start with '.'", path)
	}
	if cfg.Parse.MaxDepth < 0 || cfg.Render.MaxIncludeDepth < 0 {
		return projectConfig{}, fmt.Errorf("%s: depth limits must not be negative", path)
	}
	return cfg, nil
}

// resolve делает путь из манифеста абсолютным относительно корня проекта.
func (m *projectManifest) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.Root, filepath.FromSlash(p))
}

func (m *projectManifest) srcDir() string {
	if m.Config.Build.Src == "" {
		return m.resolve("templates")
	}
	return m.resolve(m.Config.Build.Src)
}

func (m *projectManifest) outDir() string {
	if m.Config.Build.Out == "" {
		return m.resolve("public")
	}
	return m.resolve(m.Config.Build.Out)
}

// applyTo переносит настройки манифеста в опции драйвера; флаги применяются позже.
func (m *projectManifest) applyTo(opts *driver.Options) {
	if m == nil {
		return
	}
	cfg := m.Config
	opts.MaxDepth = cfg.Parse.MaxDepth
	opts.NFC = cfg.Parse.NFC
	opts.MaxIncludeDepth = cfg.Render.MaxIncludeDepth
	opts.Indent = cfg.Render.Indent
	opts.Ext = cfg.Build.Ext
	for _, d := range cfg.Build.IncludeDirs {
		opts.IncludeDirs = append(opts.IncludeDirs, m.resolve(d))
	}
	if len(cfg.Render.Vars) > 0 && opts.Vars == nil {
		opts.Vars = make(map[string]any, len(cfg.Render.Vars))
	}
	for k, v := range cfg.Render.Vars {
		// TOML отдаёт int64; флаги --var дают int
		if n, ok := v.(int64); ok {
			v = int(n)
		}
		opts.Vars[k] = v
	}
}

func (m *projectManifest) cacheEnabled() bool {
	return m == nil || m.Config.Render.Cache == nil || *m.Config.Render.Cache
}

func buildDefaultManifest(name string) string {
	return fmt.Sprintf(`# hscript project manifest
log_level = "warn"

[project]
name = %q

[build]
src = "templates"
out = "public"
ext = ".html"

[parse]
max_depth = 512

[render]
max_include_depth = 32
cache = true
indent = "  "

[render.vars]
user = "admin"
`, name)
}
