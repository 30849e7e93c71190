// Package template renders anvil preview pages and user templates with the
// calendar and pagination functions available.
package template

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"maps"
	"os"
	"path"
	"strings"
)

//go:embed layouts
var builtinLayouts embed.FS

// Engine wraps Go's html/template with the built-in preview layouts, optional
// user layout overrides, and the anvil template functions.
type Engine struct {
	templates *template.Template
	funcMap   template.FuncMap
}

// NewEngine creates an Engine from the built-in layouts. If userLayoutPath is
// set, .html files found there override built-in layouts with the same
// relative path and may add new ones.
func NewEngine(userLayoutPath string, opts Options) (*Engine, error) {
	e := &Engine{
		funcMap: FuncMap(opts),
	}
	e.funcMap["partial"] = func(name string, ctx any) (template.HTML, error) {
		return e.executePartial(name, ctx)
	}

	builtin, err := fs.Sub(builtinLayouts, "layouts")
	if err != nil {
		return nil, fmt.Errorf("opening built-in layouts: %w", err)
	}
	files, err := collectTemplateFiles(builtin)
	if err != nil {
		return nil, fmt.Errorf("loading built-in layouts: %w", err)
	}

	if userLayoutPath != "" {
		info, err := os.Stat(userLayoutPath)
		if err != nil {
			return nil, fmt.Errorf("loading user templates from %s: %w", userLayoutPath, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("loading user templates: %s is not a directory", userLayoutPath)
		}
		userFiles, err := collectTemplateFiles(os.DirFS(userLayoutPath))
		if err != nil {
			return nil, fmt.Errorf("loading user templates from %s: %w", userLayoutPath, err)
		}
		maps.Copy(files, userFiles)
	}

	root := template.New("").Funcs(e.funcMap)
	for name, content := range files {
		if _, err := root.New(name).Parse(content); err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
	}
	e.templates = root

	return e, nil
}

// executePartial executes a partial template and returns the rendered HTML.
func (e *Engine) executePartial(name string, ctx any) (template.HTML, error) {
	tmplName := name
	if !strings.HasPrefix(name, "partials/") {
		tmplName = "partials/" + name
	}

	t := e.templates.Lookup(tmplName)
	if t == nil {
		t = e.templates.Lookup(name)
	}
	if t == nil {
		return "", fmt.Errorf("partial template %q not found", name)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, ctx); err != nil {
		return "", fmt.Errorf("executing partial %q: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}

// collectTemplateFiles walks fsys and returns a map of template name
// (slash-separated relative path) to source for all .html files.
func collectTemplateFiles(fsys fs.FS) (map[string]string, error) {
	files := make(map[string]string)
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != ".html" {
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("reading template %s: %w", p, err)
		}
		files[p] = string(data)
		return nil
	})
	return files, err
}

// Execute renders the named template with data and returns the output bytes.
func (e *Engine) Execute(templateName string, data any) ([]byte, error) {
	t := e.templates.Lookup(templateName)
	if t == nil {
		return nil, fmt.Errorf("template %q not found", templateName)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template %q: %w", templateName, err)
	}
	return buf.Bytes(), nil
}

// HasTemplate reports whether a template with the given name exists.
func (e *Engine) HasTemplate(name string) bool {
	return e.templates.Lookup(name) != nil
}

// RenderFile parses a standalone template file and executes it with data.
func RenderFile(filePath string, data any, opts Options) ([]byte, error) {
	src, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", filePath, err)
	}

	t, err := template.New(path.Base(filePath)).Funcs(FuncMap(opts)).Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", filePath, err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template %s: %w", filePath, err)
	}
	return buf.Bytes(), nil
}
