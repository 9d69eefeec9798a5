package data

import (
	"strings"
)

// orderBy renders an ORDER BY clause. Unknown fields are ignored and the
// primary key is always appended so paging is stable.
func orderBy(ordering []string, columns map[string]string, pk string) string {
	parts := make([]string, 0, len(ordering)+1)
	seen := make(map[string]bool, len(ordering))
	for _, field := range ordering {
		dir := "ASC"
		if strings.HasPrefix(field, "-") {
			dir = "DESC"
			field = field[1:]
		}
		col, ok := columns[field]
		if !ok || seen[field] {
			continue
		}
		seen[field] = true
		parts = append(parts, col+" "+dir)
	}
	parts = append(parts, pk+" ASC")
	return " ORDER BY " + strings.Join(parts, ", ")
}

// paginate appends LIMIT/OFFSET when a limit is set.
func paginate(query string, args []interface{}, opts ListOptions) (string, []interface{}) {
	if opts.Limit <= 0 {
		return query, args
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}
	return query + " LIMIT ? OFFSET ?", append(args, opts.Limit, offset)
}

// likePattern builds a case-insensitive substring pattern for
// LOWER(col) LIKE ? ESCAPE '!'. The escape character works on both dialects.
func likePattern(s string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return "%" + r.Replace(strings.ToLower(s)) + "%"
}
