package admin

import (
	"blog-admin/internal/service"
	"strconv"
	"strings"
	"time"
)

// Header is a rendered column header.
type Header struct {
	Label    string
	Sortable bool
	Dir      string // "asc", "desc" or empty
	URL      string
}

// FilterOption is one link of a sidebar filter.
type FilterOption struct {
	Label    string
	URL      string
	Selected bool
}

// FilterView is a rendered sidebar filter.
type FilterView struct {
	Title   string
	Options []FilterOption
}

// Link is a labelled change list URL.
type Link struct {
	Label string
	URL   string
}

// PageLink is one entry of the paginator. Number zero marks a gap.
type PageLink struct {
	Number  int
	URL     string
	Current bool
}

// Cell is one value of a change list row. Bool cells render as icons.
type Cell struct {
	Text string
	Bool *bool
}

// TextCell renders s as-is.
func TextCell(s string) Cell { return Cell{Text: s} }

// BoolCell renders b as a yes/no icon.
func BoolCell(b bool) Cell { return Cell{Bool: &b} }

// TimeCell renders t in the admin's date format.
func TimeCell(t time.Time) Cell {
	return Cell{Text: t.UTC().Format("Jan. 2, 2006, 15:04")}
}

// IntCell renders n.
func IntCell(n int64) Cell { return Cell{Text: strconv.FormatInt(n, 10)} }

// Row is one change list row linking to its change form.
type Row struct {
	ID    int64
	URL   string
	Cells []Cell
}

// ChangeList is the view model of a change list page.
type ChangeList struct {
	Admin     *ModelAdmin
	Params    Params
	Headers   []Header
	Filters   []FilterView
	DateTrail []Link
	DateLinks []Link
	Rows      []Row
	Page      service.Pagination
	PageLinks []PageLink
}

// NewChangeList builds headers, filters and paging links. choices supplies
// filter options computed at request time, keyed by parameter.
func NewChangeList(m *ModelAdmin, p Params, page service.Pagination, choices map[string][]Choice) *ChangeList {
	cl := &ChangeList{Admin: m, Params: p, Page: page}

	for _, col := range m.ListDisplay {
		h := Header{Label: col.Label, Sortable: col.Sortable}
		if col.Sortable {
			next := col.Field
			if len(p.Ordering) > 0 {
				switch p.Ordering[0] {
				case col.Field:
					h.Dir = "asc"
					next = "-" + col.Field
				case "-" + col.Field:
					h.Dir = "desc"
				}
			}
			h.URL = p.With(ParamOrdering, next)
		}
		cl.Headers = append(cl.Headers, h)
	}

	for _, f := range m.ListFilter {
		opts := f.Choices
		if len(opts) == 0 {
			opts = append([]Choice{{Value: "", Label: "All"}}, choices[f.Param]...)
		}
		view := FilterView{Title: f.Title}
		current := p.Get(f.Param)
		for _, c := range opts {
			view.Options = append(view.Options, FilterOption{
				Label:    c.Label,
				URL:      p.With(f.Param, c.Value),
				Selected: c.Value == current,
			})
		}
		cl.Filters = append(cl.Filters, view)
	}

	cl.PageLinks = pageLinks(p, page)
	return cl
}

// SetDateHierarchy fills the drill-down trail for the current selection and
// the links of the next level.
func (cl *ChangeList) SetDateHierarchy(sel service.DateSelection, links []service.DateLink) {
	cl.DateTrail = nil
	cl.DateLinks = nil
	if sel.Year != 0 {
		cl.DateTrail = append(cl.DateTrail, Link{Label: "All dates", URL: cl.dateURL(service.DateSelection{})})
		var trail []service.DateSelection
		for s := sel; s.Year != 0; s = s.Parent() {
			trail = append([]service.DateSelection{s}, trail...)
		}
		for _, s := range trail {
			cl.DateTrail = append(cl.DateTrail, Link{Label: dateLabel(s), URL: cl.dateURL(s)})
		}
	}
	for _, l := range links {
		cl.DateLinks = append(cl.DateLinks, Link{Label: l.Label, URL: cl.dateURL(l.Selection)})
	}
}

func (cl *ChangeList) dateURL(s service.DateSelection) string {
	return cl.Params.With(ParamYear, itoa(s.Year), ParamMonth, itoa(s.Month), ParamDay, itoa(s.Day))
}

func dateLabel(s service.DateSelection) string {
	from, _, _ := s.Range()
	switch {
	case s.Day != 0:
		return from.Format("January 2")
	case s.Month != 0:
		return from.Format("January")
	default:
		return from.Format("2006")
	}
}

func itoa(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

// ResultLabel summarizes the row count, e.g. "3 blogs".
func (cl *ChangeList) ResultLabel() string {
	name := cl.Admin.VerbosePlural
	if cl.Page.Total == 1 {
		name = cl.Admin.Verbose
	}
	return strconv.FormatInt(cl.Page.Total, 10) + " " + strings.ToLower(name)
}

const pageWindow = 3

func pageLinks(p Params, page service.Pagination) []PageLink {
	if page.NumPages <= 1 {
		return nil
	}
	var links []PageLink
	gap := false
	for n := 1; n <= page.NumPages; n++ {
		near := n >= page.Page-pageWindow && n <= page.Page+pageWindow
		if n != 1 && n != page.NumPages && !near {
			if !gap {
				links = append(links, PageLink{})
				gap = true
			}
			continue
		}
		gap = false
		links = append(links, PageLink{Number: n, URL: p.With(ParamPage, strconv.Itoa(n)), Current: n == page.Page})
	}
	return links
}
