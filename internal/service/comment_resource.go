package service

import (
	"blog-admin/internal/data"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jszwec/csvutil"
	"gopkg.in/yaml.v3"
)

// Format is a tabular exchange format for comment import and export.
type Format string

// Supported exchange formats.
const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formats lists the exchange formats in display order.
var Formats = []Format{FormatCSV, FormatJSON, FormatYAML}

// ParseFormat accepts a format name or file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported format %q", s)
}

// ContentType is the MIME type used when serving an export.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatYAML:
		return "application/yaml"
	default:
		return "text/csv; charset=utf-8"
	}
}

// CommentRecord is the exported shape of a comment.
type CommentRecord struct {
	ID          int64  `csv:"id" json:"id" yaml:"id"`
	Blog        int64  `csv:"blog" json:"blog" yaml:"blog"`
	Text        string `csv:"text" json:"text" yaml:"text"`
	IsActive    bool   `csv:"is_active" json:"is_active" yaml:"is_active"`
	DateCreated string `csv:"date_created" json:"date_created" yaml:"date_created"`
}

// importRow is a raw imported row. Every value stays a string until validated
// so that malformed cells are reported per row.
type importRow struct {
	ID       string `csv:"id"`
	Blog     string `csv:"blog"`
	Text     string `csv:"text"`
	IsActive string `csv:"is_active"`
}

// Import row outcomes.
const (
	RowNew    = "new"
	RowUpdate = "update"
	RowError  = "error"
)

// ImportRowResult is the outcome of one imported row.
type ImportRowResult struct {
	Line   int
	Type   string
	ID     int64
	Text   string
	Errors []string
}

// ImportResult summarizes an import.
type ImportResult struct {
	Rows      []ImportRowResult
	New       int
	Updated   int
	Invalid   int
	DryRun    bool
	Committed bool
}

// HasErrors reports whether any row was rejected.
func (r *ImportResult) HasErrors() bool {
	return r.Invalid > 0
}

// Export writes every comment matching filter in the given format.
func (s *CommentService) Export(ctx context.Context, filter data.CommentFilter, format Format, w io.Writer) error {
	comments, err := s.repo.List(ctx, filter, data.ListOptions{Ordering: []string{"date_created"}})
	if err != nil {
		return err
	}
	records := make([]CommentRecord, len(comments))
	for i, c := range comments {
		records[i] = CommentRecord{
			ID:          c.ID,
			Blog:        c.BlogID,
			Text:        c.Text,
			IsActive:    c.IsActive,
			DateCreated: c.DateCreated.UTC().Format(time.RFC3339),
		}
	}

	switch format {
	case FormatCSV:
		cw := csv.NewWriter(w)
		enc := csvutil.NewEncoder(cw)
		if len(records) == 0 {
			err = enc.EncodeHeader(CommentRecord{})
		} else {
			err = enc.Encode(records)
		}
		if err != nil {
			return fmt.Errorf("failed to encode csv: %w", err)
		}
		cw.Flush()
		return cw.Error()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(records)
	}
	return fmt.Errorf("unsupported format %q", format)
}

// Import reads comments in the given format. Rows with an id update that
// comment, rows without one create a comment; date_created is never imported.
// Nothing is written when any row is invalid or when dryRun is set.
func (s *CommentService) Import(ctx context.Context, format Format, r io.Reader, dryRun bool) (*ImportResult, error) {
	rows, err := decodeImport(format, r)
	if err != nil {
		return nil, &ValidationError{Fields: map[string][]string{"import_file": {err.Error()}}}
	}

	parsed := make([]*data.Comment, len(rows))
	result := &ImportResult{DryRun: dryRun, Rows: make([]ImportRowResult, len(rows))}

	var commentIDs, blogIDs []int64
	for i, row := range rows {
		res := &result.Rows[i]
		res.Line = i + 1
		comment, errs := parseImportRow(row)
		res.Errors = errs
		parsed[i] = comment
		if comment.ID != 0 {
			commentIDs = append(commentIDs, comment.ID)
		}
		if comment.BlogID != 0 {
			blogIDs = append(blogIDs, comment.BlogID)
		}
	}

	existingComments, err := s.repo.ExistingIDs(ctx, commentIDs)
	if err != nil {
		return nil, err
	}
	existingBlogs, err := s.blogs.ExistingIDs(ctx, blogIDs)
	if err != nil {
		return nil, err
	}

	for i, comment := range parsed {
		res := &result.Rows[i]
		res.ID = comment.ID
		res.Text = comment.Text
		if comment.BlogID != 0 && !existingBlogs[comment.BlogID] {
			res.Errors = append(res.Errors, fmt.Sprintf("blog: no blog with id %d", comment.BlogID))
		}
		if comment.ID != 0 && !existingComments[comment.ID] {
			res.Errors = append(res.Errors, fmt.Sprintf("id: no comment with id %d", comment.ID))
		}
		switch {
		case len(res.Errors) > 0:
			res.Type = RowError
			result.Invalid++
		case comment.ID != 0:
			res.Type = RowUpdate
			result.Updated++
		default:
			res.Type = RowNew
			result.New++
		}
	}

	if dryRun || result.HasErrors() || len(parsed) == 0 {
		return result, nil
	}
	if err := s.repo.SaveBatch(ctx, 0, parsed, nil); err != nil {
		return nil, err
	}
	for i, comment := range parsed {
		result.Rows[i].ID = comment.ID
	}
	result.Committed = true
	return result, nil
}

func parseImportRow(row importRow) (*data.Comment, []string) {
	var errs []string
	comment := &data.Comment{Text: strings.TrimSpace(row.Text), IsActive: true}

	if v := strings.TrimSpace(row.ID); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			errs = append(errs, fmt.Sprintf("id: %q is not a valid id", v))
		} else {
			comment.ID = id
		}
	}

	if v := strings.TrimSpace(row.Blog); v == "" {
		errs = append(errs, "blog: This field is required.")
	} else if id, err := strconv.ParseInt(v, 10, 64); err != nil || id <= 0 {
		errs = append(errs, fmt.Sprintf("blog: %q is not a valid id", v))
	} else {
		comment.BlogID = id
	}

	if comment.Text == "" {
		errs = append(errs, "text: This field is required.")
	}

	if v := strings.TrimSpace(row.IsActive); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Sprintf("is_active: %q is not a boolean", v))
		} else {
			comment.IsActive = active
		}
	}
	return comment, errs
}

func decodeImport(format Format, r io.Reader) ([]importRow, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read import: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("the import file is empty")
	}

	switch format {
	case FormatCSV:
		var rows []importRow
		if err := csvutil.Unmarshal(raw, &rows); err != nil {
			return nil, fmt.Errorf("invalid csv: %w", err)
		}
		return rows, nil
	case FormatJSON:
		var records []map[string]interface{}
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, fmt.Errorf("invalid json: %w", err)
		}
		return rowsFromMaps(records), nil
	case FormatYAML:
		var records []map[string]interface{}
		if err := yaml.Unmarshal(raw, &records); err != nil {
			return nil, fmt.Errorf("invalid yaml: %w", err)
		}
		return rowsFromMaps(records), nil
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}

func rowsFromMaps(records []map[string]interface{}) []importRow {
	rows := make([]importRow, len(records))
	for i, rec := range records {
		rows[i] = importRow{
			ID:       cell(rec["id"]),
			Blog:     cell(rec["blog"]),
			Text:     cell(rec["text"]),
			IsActive: cell(rec["is_active"]),
		}
	}
	return rows
}

func cell(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
