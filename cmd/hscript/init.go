package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"hscript/internal/driver"
	"hscript/internal/html"
	"hscript/internal/render"
)

var initCmd = &cobra.Command{
	Use:   "init [path|name]",
	Short: "Initialize a new hscript project",
	Long: `Initialize a new hscript project by creating a project manifest (hscript.toml)
and a starter template set under templates/. If [path|name] is omitted, initializes
the current directory. If a non-existing name is provided, a directory will be
created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

type starterFile struct {
	rel     string
	content string
}

// runInit creates hscript.toml and the starter templates in the target
// directory. It refuses to run when hscript.toml already exists; existing
// templates are left untouched.
func runInit(cmd *cobra.Command, args []string) error {
	var target string
	if len(args) == 0 || args[0] == "." {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		target = wd
	} else {
		arg := args[0]
		if !filepath.IsAbs(arg) {
			wd, err := os.Getwd()
			if err != nil {
				return err
			}
			target = filepath.Join(wd, arg)
		} else {
			target = arg
		}
	}

	if st, err := os.Stat(target); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if err = os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %q: %w", target, err)
			}
		} else {
			return err
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	name := strings.TrimSpace(filepath.Base(target))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "hscript-project"
	}

	manifestPath := filepath.Join(target, manifestName)
	if _, err := os.Stat(manifestPath); err == nil {
		return fmt.Errorf("project already initialized: %s exists", manifestPath)
	}
	if err := os.WriteFile(manifestPath, []byte(buildDefaultManifest(name)), os.FileMode(0o600)); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	files, err := starterTemplates()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	rel := target
	if wd, err := os.Getwd(); err == nil {
		if r, err2 := filepath.Rel(wd, target); err2 == nil {
			rel = r
		}
	}
	fmt.Fprintf(out, "Initialized hscript project in %s\n", rel)
	fmt.Fprintf(out, "  - %s\n", manifestName)
	for _, f := range files {
		path := filepath.Join(target, filepath.FromSlash(f.rel))
		if _, err := os.Stat(path); err == nil {
			fmt.Fprintf(out, "  - %s (existing)\n", f.rel)
			continue
		}
		if err := driver.WriteOutput(path, []byte(f.content)); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.rel, err)
		}
		fmt.Fprintf(out, "  - %s\n", f.rel)
	}
	return nil
}

// starterTemplates строит стартовые шаблоны через html-прелюдию.
func starterTemplates() ([]starterFile, error) {
	pretty := render.New(render.Options{Indent: "  "})

	nav, err := pretty.String(html.Nav(
		html.Link("/", html.T("home")),
		html.Link("/about.html", html.T("about")),
	))
	if err != nil {
		return nil, err
	}
	admin, err := render.String(html.P(html.T("Welcome back, admin")))
	if err != nil {
		return nil, err
	}
	guest, err := render.String(html.P(html.T("Welcome, guest")))
	if err != nil {
		return nil, err
	}
	body, err := pretty.String(html.Main(
		html.H1(html.T("Index")),
		html.P(html.T("Rendered by hscript.")),
	))
	if err != nil {
		return nil, err
	}

	index := fmt.Sprintf("#include \"_nav.html\"\n#if user == \"admin\"\n  %s\n#else\n  %s\n#end\n%s\n", admin, guest, body)
	return []starterFile{
		{rel: "templates/_nav.html", content: nav + "\n"},
		{rel: "templates/index.html", content: index},
	}, nil
}
