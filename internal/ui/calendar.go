// Package ui renders small pieces of page markup: a monthly calendar grid and
// a numbered pagination control.
package ui

import (
	"maps"
	"strconv"
	"strings"
	"time"
)

// timeNow is the clock used for default dates and today highlighting.
var timeNow = time.Now

// weekdayInitials heads the seven calendar columns, Sunday first.
var weekdayInitials = [7]string{"S", "M", "T", "W", "T", "F", "S"}

// Calendar renders a single month as a 7-column grid.
type Calendar struct {
	year      int
	month     int
	dayValues map[int]string
}

// Cell is one slot in the calendar grid. Blank cells have Day == 0.
type Cell struct {
	Day     int
	Content string
	Today   bool
}

// Blank reports whether the cell lies before the first or after the last day
// of the month.
func (c Cell) Blank() bool {
	return c.Day == 0
}

// Grid is the computed layout of a month.
type Grid struct {
	Year         int
	Month        time.Month
	FirstWeekday time.Weekday
	DaysInMonth  int
	Weeks        [][7]Cell
}

// NewCalendar creates a Calendar for the given year and month. A year below 1
// or a month outside 1..12 is replaced by the current year or month; months
// do not roll over, so NewCalendar(2024, 13) is not January 2025.
func NewCalendar(year, month int) *Calendar {
	now := timeNow()
	if year < 1 {
		year = now.Year()
	}
	if month < 1 || month > 12 {
		month = int(now.Month())
	}
	return &Calendar{year: year, month: month}
}

// ParseCalendar is like NewCalendar but accepts integer-like values such as
// "2024" or json.Number. Non-numeric values fall back to the current date.
func ParseCalendar(year, month any) *Calendar {
	y, ok := IntLike(year)
	if !ok {
		y = 0
	}
	m, ok := IntLike(month)
	if !ok {
		m = 0
	}
	return NewCalendar(y, m)
}

// Year returns the displayed year.
func (c *Calendar) Year() int { return c.year }

// Month returns the displayed month.
func (c *Calendar) Month() time.Month { return time.Month(c.month) }

// SetDayValues replaces the content shown for individual days. Values are
// written into the cell as-is, so they must already be safe markup.
func (c *Calendar) SetDayValues(values map[int]string) {
	c.dayValues = maps.Clone(values)
}

// DayValues returns a copy of the currently set day values.
func (c *Calendar) DayValues() map[int]string {
	return maps.Clone(c.dayValues)
}

// Grid lays out the month. When highlightToday is set, the cell whose day
// equals today's day of the month is flagged, whatever month is displayed.
func (c *Calendar) Grid(highlightToday bool) Grid {
	first := time.Date(c.year, time.Month(c.month), 1, 0, 0, 0, 0, time.Local)
	offset := int(first.Weekday())
	days := first.AddDate(0, 1, -1).Day()
	today := timeNow().Day()

	weeks := (days + offset + 6) / 7
	g := Grid{
		Year:         c.year,
		Month:        first.Month(),
		FirstWeekday: first.Weekday(),
		DaysInMonth:  days,
		Weeks:        make([][7]Cell, weeks),
	}

	day := 1
	for i := 0; i < weeks; i++ {
		for j := 0; j < 7; j++ {
			if i*7+j < offset || day > days {
				continue
			}
			cell := Cell{Day: day, Content: strconv.Itoa(day)}
			if v, ok := c.dayValues[day]; ok {
				cell.Content = v
			}
			cell.Today = highlightToday && day == today
			g.Weeks[i][j] = cell
			day++
		}
	}
	return g
}

// Render returns the calendar as an HTML table.
func (c *Calendar) Render(highlightToday bool) string {
	g := c.Grid(highlightToday)

	var sb strings.Builder
	sb.WriteString(`<table class="cal"><tr><th colspan="7"><h5>`)
	sb.WriteString(g.Month.String())
	sb.WriteString(`</h5></th></tr><tr>`)
	for _, d := range weekdayInitials {
		sb.WriteString("<th>" + d + "</th>")
	}
	sb.WriteString("</tr>")

	for _, week := range g.Weeks {
		sb.WriteString("<tr>")
		for _, cell := range week {
			if cell.Today {
				sb.WriteString(`<td class="today">`)
			} else {
				sb.WriteString("<td>")
			}
			sb.WriteString(cell.Content)
			sb.WriteString("</td>")
		}
		sb.WriteString("</tr>")
	}
	sb.WriteString("</table>")
	return sb.String()
}
