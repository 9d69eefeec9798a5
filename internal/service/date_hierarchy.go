package service

import (
	"blog-admin/internal/data"
	"context"
	"time"
)

// DateSelection is the current position in the date drill-down. Zero fields
// are not selected; Month requires Year and Day requires Month.
type DateSelection struct {
	Year  int
	Month int
	Day   int
}

// Range returns the creation interval covered by the selection.
func (d DateSelection) Range() (from, to time.Time, ok bool) {
	switch {
	case d.Year == 0:
		return time.Time{}, time.Time{}, false
	case d.Month == 0:
		from = time.Date(d.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(1, 0, 0), true
	case d.Day == 0:
		from = time.Date(d.Year, time.Month(d.Month), 1, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(0, 1, 0), true
	default:
		from = time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(0, 0, 1), true
	}
}

// Parent is the selection one level up.
func (d DateSelection) Parent() DateSelection {
	switch {
	case d.Day != 0:
		return DateSelection{Year: d.Year, Month: d.Month}
	case d.Month != 0:
		return DateSelection{Year: d.Year}
	default:
		return DateSelection{}
	}
}

// DateLink is one entry of the drill-down.
type DateLink struct {
	Label     string
	Selection DateSelection
}

// NarrowCreated intersects the filter's creation range with [from, to).
func NarrowCreated(f data.BlogFilter, from, to time.Time) data.BlogFilter {
	if f.CreatedFrom == nil || from.After(*f.CreatedFrom) {
		f.CreatedFrom = &from
	}
	if f.CreatedTo == nil || to.Before(*f.CreatedTo) {
		f.CreatedTo = &to
	}
	return f
}

// DateDrilldown lists the next level of the date hierarchy that contains
// blogs matching filter. A fully selected day has no further level.
func (s *BlogService) DateDrilldown(ctx context.Context, filter data.BlogFilter, sel DateSelection) ([]DateLink, error) {
	if sel.Day != 0 {
		return nil, nil
	}
	scope := filter
	if from, to, ok := sel.Range(); ok {
		scope = NarrowCreated(scope, from, to)
	}
	first, last, ok, err := s.repo.DateBounds(ctx, scope)
	if err != nil || !ok {
		return nil, err
	}
	first, last = first.UTC(), last.UTC()

	var (
		start time.Time
		step  func(time.Time) time.Time
		label string
		pick  func(time.Time) DateSelection
	)
	switch {
	case sel.Year == 0:
		start = time.Date(first.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		step = func(t time.Time) time.Time { return t.AddDate(1, 0, 0) }
		label = "2006"
		pick = func(t time.Time) DateSelection { return DateSelection{Year: t.Year()} }
	case sel.Month == 0:
		start = time.Date(first.Year(), first.Month(), 1, 0, 0, 0, 0, time.UTC)
		step = func(t time.Time) time.Time { return t.AddDate(0, 1, 0) }
		label = "January 2006"
		pick = func(t time.Time) DateSelection { return DateSelection{Year: t.Year(), Month: int(t.Month())} }
	default:
		start = time.Date(first.Year(), first.Month(), first.Day(), 0, 0, 0, 0, time.UTC)
		step = func(t time.Time) time.Time { return t.AddDate(0, 0, 1) }
		label = "January 2"
		pick = func(t time.Time) DateSelection {
			return DateSelection{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
		}
	}

	var links []DateLink
	for t := start; !t.After(last); t = step(t) {
		n, err := s.repo.Count(ctx, NarrowCreated(scope, t, step(t)))
		if err != nil {
			return nil, err
		}
		if n > 0 {
			links = append(links, DateLink{Label: t.Format(label), Selection: pick(t)})
		}
	}
	return links, nil
}
