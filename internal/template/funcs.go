package template

import (
	"fmt"
	"html/template"
	"time"

	"github.com/aellingwood/anvil/internal/ui"
)

// Options configures the calendar and pagination template functions.
type Options struct {
	HighlightToday bool
	PerPage        int
	LinkClasses    string

	// DayValues supplies cell content when a template calls calendar without
	// an explicit map. It may be nil.
	DayValues func(year int, month time.Month) map[int]string
}

// FuncMap returns the custom template functions available to all templates.
func FuncMap(opts Options) template.FuncMap {
	return template.FuncMap{
		// Markup
		"calendar":   opts.calendar,
		"pagination": opts.pagination,
		"pageURL":    ui.PageURL,

		// Strings
		"safeHTML": safeHTML,

		// Dates
		"dateFormat": dateFormat,
		"now":        now,

		// Helpers
		"dict":  dict,
		"slice": sliceHelper,

		// Replaced by Engine once templates are parsed.
		"partial": func(name string, ctx any) template.HTML {
			return ""
		},
	}
}

// calendar renders a month grid. Year and month may be ints or numeric
// strings; an optional map overrides the configured day values.
// Example: {{ calendar 2024 2 }} or {{ calendar .Year .Month .Days }}
func (o Options) calendar(year, month any, values ...map[int]string) template.HTML {
	if m, ok := month.(time.Month); ok {
		month = int(m)
	}
	c := ui.ParseCalendar(year, month)

	switch {
	case len(values) > 0:
		c.SetDayValues(values[0])
	case o.DayValues != nil:
		c.SetDayValues(o.DayValues(c.Year(), c.Month()))
	}
	return template.HTML(c.Render(o.HighlightToday))
}

// pagination renders a page control. It fails template execution when total
// or baseURL is invalid.
// Example: {{ pagination .Page .Total "/posts" }}
func (o Options) pagination(current, total any, baseURL string) (template.HTML, error) {
	p, err := ui.ParsePagination(current, total, baseURL)
	if err != nil {
		return "", fmt.Errorf("pagination: %w", err)
	}
	p.SetItemsPerPage(o.PerPage)
	p.SetLinkClasses(o.LinkClasses)
	return template.HTML(p.Render()), nil
}

// safeHTML marks a string as safe HTML so Go templates will not escape it.
func safeHTML(s string) template.HTML {
	return template.HTML(s)
}

// dateFormat formats a time.Time value using the given Go time layout string.
func dateFormat(layout string, t time.Time) string {
	return t.Format(layout)
}

// now returns the current time.
func now() time.Time {
	return time.Now()
}

// dict creates a map[string]any from alternating key-value pairs.
// Example usage in templates: {{ dict "key1" "val1" "key2" "val2" }}
func dict(values ...any) (map[string]any, error) {
	if len(values)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments")
	}
	m := make(map[string]any, len(values)/2)
	for i := 0; i < len(values); i += 2 {
		key, ok := values[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key at position %d is not a string", i)
		}
		m[key] = values[i+1]
	}
	return m, nil
}

// sliceHelper creates a slice from its arguments.
// Registered as "slice" in the template func map.
func sliceHelper(values ...any) []any {
	return values
}
