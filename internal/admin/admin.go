// Package admin describes how each model is presented in the admin console:
// list columns, filters, search, bulk actions and form layout.
package admin

import (
	"blog-admin/internal/service"
	"net/url"
	"strings"
)

// Column is one change list column. Sortable columns are ordered by Field.
type Column struct {
	Field    string
	Label    string
	Sortable bool
}

// Choice is one option of a list filter.
type Choice struct {
	Value string
	Label string
}

// Filter is a sidebar list filter bound to a query parameter.
// Filters without static choices get theirs at request time.
type Filter struct {
	Param   string
	Title   string
	Choices []Choice
}

// Action is a bulk action run on the selected rows.
type Action struct {
	Name  string
	Label string
}

// Fieldset groups form fields. Each entry of Rows is rendered on one line.
type Fieldset struct {
	Name        string
	Description string
	Rows        [][]string
	Collapse    bool
}

// Inline edits related rows on the parent's change form. Model is also the
// prefix of the inline's form fields.
type Inline struct {
	Model         string
	VerbosePlural string
	Fields        []Column
	Extra         int
	CanDelete     bool
}

// ModelAdmin is the admin configuration of one model.
type ModelAdmin struct {
	Name          string // URL segment under /admin
	Verbose       string
	VerbosePlural string
	ListDisplay   []Column
	ListFilter    []Filter
	SearchFields  []string
	// DateHierarchy names the field drilled down by year, month and day.
	DateHierarchy string
	Actions       []Action
	Fieldsets     []Fieldset
	// Prepopulated maps a field to the fields it is derived from when left blank.
	Prepopulated  map[string][]string
	// ListPerPage overrides the configured page size when non-zero.
	ListPerPage   int
	CanDelete     bool
	ImportExport  bool
	Inlines       []Inline
}

// URL is the change list path.
func (m *ModelAdmin) URL() string {
	return "/admin/" + m.Name
}

// Searchable reports whether the change list shows a search box.
func (m *ModelAdmin) Searchable() bool {
	return len(m.SearchFields) > 0
}

// PerPage is the change list page size, falling back to def.
func (m *ModelAdmin) PerPage(def int) int {
	if m.ListPerPage > 0 {
		return m.ListPerPage
	}
	return def
}

// BulkActions lists the actions offered on the change list. delete_selected
// is only offered when the model can be deleted.
func (m *ModelAdmin) BulkActions() []Action {
	var actions []Action
	for _, a := range m.Actions {
		if a.Name == ActionDeleteSelected && !m.CanDelete {
			continue
		}
		actions = append(actions, a)
	}
	return actions
}

// Action returns the named bulk action if it is offered.
func (m *ModelAdmin) Action(name string) (Action, bool) {
	for _, a := range m.BulkActions() {
		if a.Name == name {
			return a, true
		}
	}
	return Action{}, false
}

// Prepopulate fills every blank prepopulated field of values with the slug of
// its source fields.
func (m *ModelAdmin) Prepopulate(values url.Values) {
	for field, sources := range m.Prepopulated {
		if strings.TrimSpace(values.Get(field)) != "" {
			continue
		}
		parts := make([]string, 0, len(sources))
		for _, src := range sources {
			if v := strings.TrimSpace(values.Get(src)); v != "" {
				parts = append(parts, v)
			}
		}
		values.Set(field, service.Slugify(strings.Join(parts, " ")))
	}
}

// Sortable reports whether field may be used in the o parameter.
func (m *ModelAdmin) Sortable(field string) bool {
	for _, c := range m.ListDisplay {
		if c.Sortable && c.Field == field {
			return true
		}
	}
	return false
}

// Registry lists the registered models in index order.
var Registry = []*ModelAdmin{BlogAdmin, CommentAdmin, CategoryAdmin, PlaceAdmin}
