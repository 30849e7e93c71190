package ui

import (
	"fmt"
	"html"
	"net/url"
	"strconv"
	"strings"
)

// DefaultPerPage is the number of items per page when none is set.
const DefaultPerPage = 20

// Labels for the previous and next controls.
const (
	PrevLabel = "&lsaquo;"
	NextLabel = "&rsaquo;"
)

// EntryKind identifies how a pagination entry is displayed.
type EntryKind int

const (
	// EntryLink is a navigable link to another page.
	EntryLink EntryKind = iota
	// EntryCurrent marks the page being viewed.
	EntryCurrent
	// EntryEllipsis stands in for a run of omitted pages.
	EntryEllipsis
	// EntryDisabled is an inert previous or next control.
	EntryDisabled
)

func (k EntryKind) String() string {
	switch k {
	case EntryLink:
		return "link"
	case EntryCurrent:
		return "current"
	case EntryEllipsis:
		return "ellipsis"
	case EntryDisabled:
		return "disabled"
	}
	return "unknown"
}

// Entry is one element of a rendered pagination control.
type Entry struct {
	Kind  EntryKind
	Page  int    // zero for ellipses and disabled controls
	Label string // markup shown for the entry
	URL   string // set for links only
}

// Pagination renders numbered page links for a list of items.
type Pagination struct {
	total       int
	current     int
	baseURL     string
	perPage     int
	linkClasses string
}

// NewPagination creates a pagination control. It returns an error wrapping
// ErrBadRequest if total is not positive or baseURL is empty. A current page
// below 1 is treated as 1.
func NewPagination(current, total int, baseURL string) (*Pagination, error) {
	if total <= 0 {
		return nil, fmt.Errorf("%w: total items must be a positive integer (got %d)", ErrBadRequest, total)
	}
	if baseURL == "" {
		return nil, fmt.Errorf("%w: no base url specified", ErrBadRequest)
	}
	if current < 1 {
		current = 1
	}
	return &Pagination{
		total:   total,
		current: current,
		baseURL: baseURL,
		perPage: DefaultPerPage,
	}, nil
}

// ParsePagination is like NewPagination but accepts integer-like values for
// current and total. A non-numeric total is a bad request; a non-numeric
// current page falls back to 1.
func ParsePagination(current, total any, baseURL string) (*Pagination, error) {
	t, ok := IntLike(total)
	if !ok {
		return nil, fmt.Errorf("%w: total items must be a positive integer (got %v)", ErrBadRequest, total)
	}
	c, ok := IntLike(current)
	if !ok {
		c = 1
	}
	return NewPagination(c, t, baseURL)
}

// SetItemsPerPage sets the page size. Values below 1 restore the default.
func (p *Pagination) SetItemsPerPage(n int) {
	if n < 1 {
		n = DefaultPerPage
	}
	p.perPage = n
}

// SetLinkClasses sets extra space-separated classes added to every link.
func (p *Pagination) SetLinkClasses(classes string) {
	p.linkClasses = classes
}

// ItemsPerPage returns the page size.
func (p *Pagination) ItemsPerPage() int { return p.perPage }

// TotalPages returns the number of pages needed to show every item.
func (p *Pagination) TotalPages() int {
	// total >= 1, so this cannot overflow for any page size.
	return (p.total-1)/p.perPage + 1
}

// CurrentPage returns the current page, clamped to the last page.
func (p *Pagination) CurrentPage() int {
	return min(p.current, p.TotalPages())
}

// Entries returns the control as an ordered list: the previous control, the
// page window, and the next control.
func (p *Pagination) Entries() []Entry {
	totalPages := p.TotalPages()
	cur := p.CurrentPage()

	entries := make([]Entry, 0, 20)
	if cur > 1 {
		entries = append(entries, p.link(cur-1, PrevLabel))
	} else {
		entries = append(entries, Entry{Kind: EntryDisabled, Label: PrevLabel})
	}

	pages := func(from, to int) {
		if from > to {
			return
		}
		for i := from; ; i++ {
			entries = append(entries, p.page(i, cur))
			if i == to {
				break
			}
		}
	}
	ellipsis := func() {
		entries = append(entries, Entry{Kind: EntryEllipsis, Label: "..."})
	}

	switch {
	case totalPages < 10:
		pages(1, totalPages)

	case cur <= 3 || cur > totalPages-3:
		// 1 2 3 4 5 ... N-5 .. N
		pages(1, 5)
		ellipsis()
		pages(totalPages-5, totalPages)

	default:
		// 1 2 ... cur-3 .. cur+3 ... N-1 N
		middleStart := cur - 3
		if cur <= 5 {
			middleStart = 3
		}
		middleEnd := min(cur+3, totalPages-2)

		pages(1, 2)
		if middleStart != 3 {
			ellipsis()
		}
		pages(middleStart, middleEnd)
		if middleEnd+1 != totalPages-1 {
			ellipsis()
		}
		pages(totalPages-1, totalPages)
	}

	if cur < totalPages {
		entries = append(entries, p.link(cur+1, NextLabel))
	} else {
		entries = append(entries, Entry{Kind: EntryDisabled, Label: NextLabel})
	}
	return entries
}

// Render returns the control as HTML.
func (p *Pagination) Render() string {
	var sb strings.Builder
	sb.WriteString(`<span class="page_links"><span>Page:</span>`)
	for _, e := range p.Entries() {
		switch e.Kind {
		case EntryLink:
			fmt.Fprintf(&sb, `<a href="%s" data-page="%d" class="%s">%s</a>`,
				html.EscapeString(e.URL), e.Page, html.EscapeString(p.classAttr()), e.Label)
		case EntryCurrent, EntryDisabled:
			sb.WriteString(`<span class="cur_page">` + e.Label + `</span>`)
		case EntryEllipsis:
			sb.WriteString(" ... ")
		}
	}
	sb.WriteString("</span>")
	return sb.String()
}

func (p *Pagination) page(n, cur int) Entry {
	if n == cur {
		return Entry{Kind: EntryCurrent, Page: n, Label: strconv.Itoa(n)}
	}
	return p.link(n, strconv.Itoa(n))
}

func (p *Pagination) link(n int, label string) Entry {
	return Entry{Kind: EntryLink, Page: n, Label: label, URL: PageURL(p.baseURL, n)}
}

func (p *Pagination) classAttr() string {
	return strings.TrimSpace("page_link jump_link " + p.linkClasses)
}

// PageURL appends p=<page> to the query string of base, keeping any other
// parameters in their existing order. An existing p parameter is replaced.
func PageURL(base string, page int) string {
	param := "p=" + strconv.Itoa(page)

	u, err := url.Parse(base)
	if err != nil {
		sep := "?"
		if strings.Contains(base, "?") {
			sep = "&"
		}
		return base + sep + param
	}

	var parts []string
	for _, part := range strings.Split(u.RawQuery, "&") {
		key, _, _ := strings.Cut(part, "=")
		if part == "" || key == "p" {
			continue
		}
		parts = append(parts, part)
	}
	u.RawQuery = strings.Join(append(parts, param), "&")
	return u.String()
}
