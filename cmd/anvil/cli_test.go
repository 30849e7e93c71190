package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/aellingwood/anvil/internal/ui"
)

// execute runs rootCmd with args and returns what it wrote. Flags are reset
// first because cobra commands keep their parsed state between runs.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd)
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "anvil" {
		t.Errorf("expected root command Use to be 'anvil', got %q", rootCmd.Use)
	}

	expectedSubcommands := []string{"calendar", "paginate", "render", "serve", "config", "version"}
	nameSet := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		nameSet[cmd.Name()] = true
	}

	for _, expected := range expectedSubcommands {
		if !nameSet[expected] {
			t.Errorf("expected root command to have subcommand %q", expected)
		}
	}
}

func TestCommandFlags(t *testing.T) {
	tests := []struct {
		cmd   *cobra.Command
		flags []string
	}{
		{calendarCmd, []string{"year", "month", "no-highlight", "days", "ics", "markdown"}},
		{paginateCmd, []string{"total", "current", "base-url", "per-page", "link-classes"}},
		{renderCmd, []string{"out"}},
		{serveCmd, []string{"port", "bind", "no-live-reload", "layouts"}},
	}

	for _, tt := range tests {
		for _, name := range tt.flags {
			if tt.cmd.Flags().Lookup(name) == nil {
				t.Errorf("expected %s command to have flag %q", tt.cmd.Name(), name)
			}
		}
	}

	if f := serveCmd.Flags().Lookup("port"); f != nil && f.DefValue != "1414" {
		t.Errorf("expected port default to be '1414', got %q", f.DefValue)
	}
	if f := renderCmd.Flags().ShorthandLookup("o"); f == nil || f.Name != "out" {
		t.Error("expected render command to have short flag -o for out")
	}
}

func TestVersionOutput(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version command failed: %v", err)
	}
	if !strings.HasPrefix(out, "anvil dev\n") {
		t.Errorf("unexpected version output: %q", out)
	}
}

func TestCalendarCommand(t *testing.T) {
	out, err := execute(t, "calendar", "--year", "2024", "--month", "2", "--no-highlight")
	if err != nil {
		t.Fatalf("calendar command failed: %v", err)
	}

	for _, want := range []string{`<table class="cal">`, `<h5>February</h5>`, `<td>29</td>`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "<td>30</td>") {
		t.Error("February 2024 rendered a 30th day")
	}
	if strings.Contains(out, `class="today"`) {
		t.Error("--no-highlight still marked today")
	}
}

func TestCalendarCommand_DayValues(t *testing.T) {
	dir := t.TempDir()
	days := writeTestFile(t, dir, "days.yaml", "14: \"**Launch**\"\n")

	out, err := execute(t, "calendar", "--year", "2024", "--month", "2", "--no-highlight",
		"--days", days, "--markdown")
	if err != nil {
		t.Fatalf("calendar command failed: %v", err)
	}
	if !strings.Contains(out, "<td><strong>Launch</strong></td>") {
		t.Errorf("expected markdown day value in output:\n%s", out)
	}
}

func TestCalendarCommand_BadDaysFile(t *testing.T) {
	dir := t.TempDir()
	days := writeTestFile(t, dir, "days.yaml", "42: nope\n")

	if _, err := execute(t, "calendar", "--days", days); err == nil {
		t.Error("expected error for out-of-range day key")
	}
}

func TestPaginateCommand(t *testing.T) {
	out, err := execute(t, "paginate", "--total", "45", "--base-url", "/posts", "--link-classes", "btn")
	if err != nil {
		t.Fatalf("paginate command failed: %v", err)
	}

	for _, want := range []string{
		`<span class="cur_page">1</span>`,
		`<a href="/posts?p=2" data-page="2" class="page_link jump_link btn">2</a>`,
		`data-page="3"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, `data-page="4"`) {
		t.Error("45 items at 20 per page should have 3 pages")
	}
}

func TestPaginateCommand_PerPage(t *testing.T) {
	out, err := execute(t, "paginate", "--total", "500", "--per-page", "10", "--current", "25")
	if err != nil {
		t.Fatalf("paginate command failed: %v", err)
	}
	if !strings.Contains(out, `<span class="cur_page">25</span>`) {
		t.Errorf("expected current page 25:\n%s", out)
	}
	if !strings.Contains(out, `href="/?p=50"`) {
		t.Errorf("expected last page link against default base url:\n%s", out)
	}
}

func TestPaginateCommand_BadRequest(t *testing.T) {
	_, err := execute(t, "paginate", "--total", "0")
	if !errors.Is(err, ui.ErrBadRequest) {
		t.Errorf("err = %v, want ErrBadRequest", err)
	}

	if _, err := execute(t, "paginate"); err == nil {
		t.Error("expected error when --total is missing")
	}
}

func TestConfigCommand(t *testing.T) {
	out, err := execute(t, "config")
	if err != nil {
		t.Fatalf("config command failed: %v", err)
	}
	if !strings.Contains(out, "# no config file found") {
		t.Errorf("expected defaults notice:\n%s", out)
	}
	if !strings.Contains(out, "port: 1414") {
		t.Errorf("expected default port:\n%s", out)
	}

	dir := t.TempDir()
	path := writeTestFile(t, dir, "anvil.yaml", "server:\n  port: 8080\npagination:\n  perPage: 5\n")
	out, err = execute(t, "config", "--config", path)
	if err != nil {
		t.Fatalf("config command failed: %v", err)
	}
	for _, want := range []string{"port: 8080", "perPage: 5", "# " + path} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestConfigCommand_ExplicitMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")
	if _, err := execute(t, "config", "--config", missing); err == nil {
		t.Error("expected error for explicitly named missing config file")
	}
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	src := writeTestFile(t, dir, "page.html",
		`<main>{{ calendar 2024 2 }}{{ pagination 2 45 "/x" }}</main>`)

	out, err := execute(t, "render", src)
	if err != nil {
		t.Fatalf("render command failed: %v", err)
	}
	for _, want := range []string{`<main><table class="cal">`, `<span class="cur_page">2</span>`, `</span></main>`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}

	dest := filepath.Join(dir, "out.html")
	if _, err := execute(t, "render", src, "--out", dest); err != nil {
		t.Fatalf("render --out failed: %v", err)
	}
	written, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(written) != out {
		t.Error("file output differs from stdout output")
	}
}

func TestRenderCommand_RequiresTemplate(t *testing.T) {
	if _, err := execute(t, "render"); err == nil {
		t.Error("expected error without a template argument")
	}
}
