package admin

// Bulk action names.
const (
	ActionPublish        = "set_blogs_to_published"
	ActionDeleteSelected = "delete_selected"
)

// Date filter choices for date_created.
const (
	DateAny       = ""
	DateToday     = "today"
	DatePast7Days = "past_7_days"
	DateThisMonth = "this_month"
	DateThisYear  = "this_year"
)

// Query parameters understood by the change lists.
const (
	ParamPage     = "p"
	ParamSearch   = "q"
	ParamOrdering = "o"
	ParamIsDraft  = "is_draft__exact"
	ParamCreated  = "date_created"
	ParamYear     = "date_created__year"
	ParamMonth    = "date_created__month"
	ParamDay      = "date_created__day"
	ParamBlog     = "blog__id__exact"
)

var deleteSelected = Action{Name: ActionDeleteSelected, Label: "Delete selected"}

var commentInlineFields = []Column{
	{Field: "text", Label: "Text"},
	{Field: "is_active", Label: "Is active"},
}

// BlogAdmin configures the blog change list and form.
var BlogAdmin = &ModelAdmin{
	Name:          "blogs",
	Verbose:       "Blog",
	VerbosePlural: "Blogs",
	ListDisplay: []Column{
		{Field: "title", Label: "Title", Sortable: true},
		{Field: "date_created", Label: "Date created", Sortable: true},
		{Field: "last_modified", Label: "Last modified", Sortable: true},
		{Field: "is_draft", Label: "Is draft", Sortable: true},
		{Field: "days_since_creation", Label: "Days Active"},
		{Field: "comment_count", Label: "No. of comments", Sortable: true},
		{Field: "categories", Label: "Categories"},
	},
	ListFilter: []Filter{
		{Param: ParamIsDraft, Title: "is draft", Choices: []Choice{
			{Value: "", Label: "All"},
			{Value: "1", Label: "Yes"},
			{Value: "0", Label: "No"},
		}},
		{Param: ParamCreated, Title: "date created", Choices: []Choice{
			{Value: DateAny, Label: "Any date"},
			{Value: DateToday, Label: "Today"},
			{Value: DatePast7Days, Label: "Past 7 days"},
			{Value: DateThisMonth, Label: "This month"},
			{Value: DateThisYear, Label: "This year"},
		}},
	},
	SearchFields:  []string{"title"},
	DateHierarchy: "date_created",
	Actions: []Action{
		{Name: ActionPublish, Label: "Mark selected blogs as published"},
	},
	Fieldsets: []Fieldset{
		{Rows: [][]string{{"title", "slug"}, {"body"}}},
		{Name: "Advanced options", Description: "Options to configure blog creations", Rows: [][]string{{"is_draft"}}},
		{Name: "Categories", Rows: [][]string{{"categories"}}, Collapse: true},
	},
	Prepopulated: map[string][]string{"slug": {"title"}},
	ListPerPage:  50,
	Inlines: []Inline{
		{Model: "comments", VerbosePlural: "Comments", Fields: commentInlineFields, Extra: 1, CanDelete: true},
	},
}

// CommentAdmin configures the comment change list, form and import/export.
var CommentAdmin = &ModelAdmin{
	Name:          "comments",
	Verbose:       "Comment",
	VerbosePlural: "Comments",
	ListDisplay: []Column{
		{Field: "blog", Label: "Blog", Sortable: true},
		{Field: "text", Label: "Text", Sortable: true},
		{Field: "date_created", Label: "Date created", Sortable: true},
		{Field: "is_active", Label: "Is active", Sortable: true},
	},
	ListFilter:   []Filter{{Param: ParamBlog, Title: "blog"}},
	Actions:      []Action{deleteSelected},
	Fieldsets:    []Fieldset{{Rows: [][]string{{"blog"}, {"text"}, {"is_active"}}}},
	CanDelete:    true,
	ImportExport: true,
}

// CategoryAdmin configures the category change list and form.
var CategoryAdmin = &ModelAdmin{
	Name:          "categories",
	Verbose:       "Category",
	VerbosePlural: "Categories",
	ListDisplay: []Column{
		{Field: "name", Label: "Name", Sortable: true},
		{Field: "is_active", Label: "Is active", Sortable: true},
	},
	SearchFields: []string{"name"},
	Actions:      []Action{deleteSelected},
	Fieldsets:    []Fieldset{{Rows: [][]string{{"name"}, {"is_active"}}}},
	CanDelete:    true,
}

// PlaceAdmin configures the place change list and form.
var PlaceAdmin = &ModelAdmin{
	Name:          "places",
	Verbose:       "Place",
	VerbosePlural: "Places",
	ListDisplay: []Column{
		{Field: "name", Label: "Name", Sortable: true},
		{Field: "longitude", Label: "Longitude"},
		{Field: "latitude", Label: "Latitude"},
	},
	SearchFields: []string{"name"},
	Actions:      []Action{deleteSelected},
	Fieldsets:    []Fieldset{{Rows: [][]string{{"name"}, {"longitude", "latitude"}}}},
	CanDelete:    true,
}
