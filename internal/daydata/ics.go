package daydata

import (
	"fmt"
	"html"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
)

// Event is a single dated entry read from an iCalendar feed.
type Event struct {
	Start   time.Time
	Summary string
}

// ParseICS reads all VEVENTs from an iCalendar stream. Events without a
// parseable start date are skipped.
func ParseICS(r io.Reader) ([]Event, error) {
	cal, err := ics.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("parsing calendar: %w", err)
	}

	var events []Event
	for _, ev := range cal.Events() {
		start, err := ev.GetStartAt()
		if err != nil {
			start, err = ev.GetAllDayStartAt()
			if err != nil {
				continue
			}
		}
		summary := ""
		if p := ev.GetProperty(ics.ComponentPropertySummary); p != nil {
			summary = p.Value
		}
		events = append(events, Event{Start: start, Summary: summary})
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Start.Before(events[j].Start)
	})
	return events, nil
}

// LoadICS reads an iCalendar file from disk.
func LoadICS(path string) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	events, err := ParseICS(f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return events, nil
}

// ForMonth returns day values for the events starting in the given month.
// Summaries are HTML-escaped; several events on one day are joined with <br>
// in start order.
func ForMonth(events []Event, year int, month time.Month) map[int]string {
	byDay := make(map[int][]string)
	for _, ev := range events {
		if ev.Start.Year() != year || ev.Start.Month() != month {
			continue
		}
		d := ev.Start.Day()
		byDay[d] = append(byDay[d], html.EscapeString(ev.Summary))
	}

	values := make(map[int]string, len(byDay))
	for d, summaries := range byDay {
		values[d] = strings.Join(summaries, "<br>")
	}
	return values
}
