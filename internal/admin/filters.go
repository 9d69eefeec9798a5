package admin

import (
	"blog-admin/internal/data"
	"blog-admin/internal/service"
	"strconv"
	"time"
)

// DateFilterRange returns the creation interval for a date filter choice,
// relative to now in UTC. ok is false for "any date" and unknown choices.
func DateFilterRange(choice string, now time.Time) (from, to time.Time, ok bool) {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	tomorrow := today.AddDate(0, 0, 1)

	switch choice {
	case DateToday:
		return today, tomorrow, true
	case DatePast7Days:
		return today.AddDate(0, 0, -7), tomorrow, true
	case DateThisMonth:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		return first, first.AddDate(0, 1, 0), true
	case DateThisYear:
		first := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		return first, first.AddDate(1, 0, 0), true
	}
	return time.Time{}, time.Time{}, false
}

// DateSelection reads the date hierarchy parameters. A level is only kept
// when every level above it is valid.
func DateSelection(p Params) service.DateSelection {
	var sel service.DateSelection
	year, err := strconv.Atoi(p.Get(ParamYear))
	if err != nil || year < 1 || year > 9999 {
		return sel
	}
	sel.Year = year
	month, err := strconv.Atoi(p.Get(ParamMonth))
	if err != nil || month < 1 || month > 12 {
		return sel
	}
	sel.Month = month
	day, err := strconv.Atoi(p.Get(ParamDay))
	last := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if err != nil || day < 1 || day > last {
		return sel
	}
	sel.Day = day
	return sel
}

// BlogFilters builds the repository filter for the blog change list. base
// excludes the date hierarchy so the drill-down can list sibling dates.
func BlogFilters(p Params, now time.Time) (base, filter data.BlogFilter, sel service.DateSelection) {
	base.Search = p.Search
	switch p.Get(ParamIsDraft) {
	case "1":
		draft := true
		base.IsDraft = &draft
	case "0":
		draft := false
		base.IsDraft = &draft
	}
	if from, to, ok := DateFilterRange(p.Get(ParamCreated), now); ok {
		base = service.NarrowCreated(base, from, to)
	}

	sel = DateSelection(p)
	filter = base
	if from, to, ok := sel.Range(); ok {
		filter = service.NarrowCreated(filter, from, to)
	}
	return base, filter, sel
}

// CommentFilter builds the repository filter for the comment change list.
func CommentFilter(p Params) data.CommentFilter {
	var f data.CommentFilter
	if id, ok := p.Int(ParamBlog); ok {
		f.BlogID = &id
	}
	return f
}
