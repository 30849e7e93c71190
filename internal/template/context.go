package template

import (
	"html/template"
	"time"
)

// PageContext is the data passed to every preview layout as ".".
type PageContext struct {
	Title      string
	Path       string
	Year       int
	Month      time.Month
	PrevMonth  string // URL of the previous month
	NextMonth  string // URL of the next month
	Calendar   template.HTML
	Pagination template.HTML
	Total      int
	Page       int
	PerPage    int
	Status     int
	Message    string
	Generated  time.Time
}
