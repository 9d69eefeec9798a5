package admin

import (
	"net/url"
	"strconv"
	"strings"
)

// Params is the parsed query string of a change list.
type Params struct {
	values   url.Values
	Page     int
	Search   string
	Ordering []string
}

// ParseParams reads paging, search and ordering from q. Ordering entries on
// columns that are not sortable are dropped.
func ParseParams(m *ModelAdmin, q url.Values) Params {
	values := url.Values{}
	for k, vs := range q {
		if len(vs) > 0 && vs[0] != "" {
			values.Set(k, vs[0])
		}
	}

	p := Params{values: values, Page: 1}
	if n, err := strconv.Atoi(values.Get(ParamPage)); err == nil && n > 0 {
		p.Page = n
	}
	if m.Searchable() {
		p.Search = strings.TrimSpace(values.Get(ParamSearch))
	}
	for _, field := range strings.Split(values.Get(ParamOrdering), ",") {
		field = strings.TrimSpace(field)
		if field != "" && m.Sortable(strings.TrimPrefix(field, "-")) {
			p.Ordering = append(p.Ordering, field)
		}
	}
	return p
}

// Get returns a raw query value.
func (p Params) Get(key string) string {
	return p.values.Get(key)
}

// Int returns a positive integer query value.
func (p Params) Int(key string) (int64, bool) {
	n, err := strconv.ParseInt(p.values.Get(key), 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// Query renders the current parameters as a query string starting with "?".
func (p Params) Query() string {
	if len(p.values) == 0 {
		return "?"
	}
	return "?" + p.values.Encode()
}

// With returns the query string with the given key/value pairs applied. An
// empty value removes the key. Changing anything but the page resets paging.
func (p Params) With(kv ...string) string {
	values := url.Values{}
	for k, vs := range p.values {
		values[k] = append([]string(nil), vs...)
	}
	resetPage := false
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i] != ParamPage {
			resetPage = true
		}
		if kv[i+1] == "" {
			values.Del(kv[i])
		} else {
			values.Set(kv[i], kv[i+1])
		}
	}
	if resetPage {
		values.Del(ParamPage)
	}
	if len(values) == 0 {
		return "?"
	}
	return "?" + values.Encode()
}

// ParseSelection reads the bulk action and the selected ids from a change
// list form. Malformed ids are ignored.
func ParseSelection(form url.Values) (string, []int64) {
	var ids []int64
	seen := make(map[int64]bool)
	for _, raw := range form["_selected_action"] {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return form.Get("action"), ids
}
