package template

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aellingwood/anvil/internal/ui"
)

func TestFuncMap(t *testing.T) {
	fm := FuncMap(Options{})
	for _, name := range []string{"calendar", "pagination", "pageURL", "safeHTML", "dateFormat", "now", "dict", "slice", "partial"} {
		if _, ok := fm[name]; !ok {
			t.Errorf("FuncMap missing %q", name)
		}
	}
}

func TestCalendarFunc(t *testing.T) {
	var asked struct {
		year  int
		month time.Month
	}
	opts := Options{
		DayValues: func(year int, month time.Month) map[int]string {
			asked.year, asked.month = year, month
			return map[int]string{10: "configured"}
		},
	}

	t.Run("configured values", func(t *testing.T) {
		out := string(opts.calendar("2024", time.February))
		if asked.year != 2024 || asked.month != time.February {
			t.Errorf("DayValues called with %d-%v, want 2024-February", asked.year, asked.month)
		}
		if !strings.Contains(out, "<td>configured</td>") {
			t.Errorf("expected configured day value, got: %s", out)
		}
	})

	t.Run("explicit values win", func(t *testing.T) {
		out := string(opts.calendar(2024, 2, map[int]string{10: "explicit"}))
		if !strings.Contains(out, "<td>explicit</td>") {
			t.Errorf("expected explicit day value, got: %s", out)
		}
		if strings.Contains(out, "configured") {
			t.Error("configured values should not be used when a map is passed")
		}
	})

	t.Run("no highlight", func(t *testing.T) {
		out := string(Options{}.calendar(2024, 2))
		if strings.Contains(out, `class="today"`) {
			t.Error("today should not be highlighted when HighlightToday is off")
		}
	})
}

func TestPaginationFunc(t *testing.T) {
	opts := Options{PerPage: 10, LinkClasses: "btn"}

	out, err := opts.pagination("25", 500, "/x")
	if err != nil {
		t.Fatalf("pagination: %v", err)
	}
	if !strings.Contains(string(out), `<span class="cur_page">25</span>`) {
		t.Errorf("expected current page 25, got: %s", out)
	}
	if !strings.Contains(string(out), `class="page_link jump_link btn"`) {
		t.Errorf("expected link classes, got: %s", out)
	}

	_, err = opts.pagination(1, "", "/x")
	if !errors.Is(err, ui.ErrBadRequest) {
		t.Errorf("err = %v, want ErrBadRequest", err)
	}
}

func TestDict(t *testing.T) {
	m, err := dict("a", 1, "b", "two")
	if err != nil {
		t.Fatalf("dict: %v", err)
	}
	if m["a"] != 1 || m["b"] != "two" {
		t.Errorf("dict = %v", m)
	}

	if _, err := dict("a"); err == nil {
		t.Error("expected error for odd number of arguments")
	}
	if _, err := dict(1, "a"); err == nil {
		t.Error("expected error for non-string key")
	}
}

func TestDateFormat(t *testing.T) {
	d := time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC)
	if got := dateFormat("2006-01-02", d); got != "2024-02-29" {
		t.Errorf("dateFormat = %q, want %q", got, "2024-02-29")
	}
}
