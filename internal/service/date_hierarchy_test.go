//go:build integration

package service

import (
	"blog-admin/internal/data"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlogService_DateDrilldown(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	s := env.blogService()

	blog := env.createBlog(t, "dated")
	created := blog.DateCreated.UTC()
	_, err := env.db.Exec("UPDATE blogs SET date_created = ? WHERE id = ?", created.AddDate(-2, 0, 0), env.createBlog(t, "old").ID)
	require.NoError(t, err)

	years, err := s.DateDrilldown(ctx, data.BlogFilter{}, DateSelection{})
	require.NoError(t, err)
	require.Len(t, years, 2, "the empty year in between is skipped")
	assert.Equal(t, created.Year()-2, years[0].Selection.Year)
	assert.Equal(t, created.Format("2006"), years[1].Label)

	months, err := s.DateDrilldown(ctx, data.BlogFilter{}, DateSelection{Year: created.Year()})
	require.NoError(t, err)
	require.Len(t, months, 1)
	assert.Equal(t, int(created.Month()), months[0].Selection.Month)

	days, err := s.DateDrilldown(ctx, data.BlogFilter{}, months[0].Selection)
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, created.Day(), days[0].Selection.Day)

	leaf, err := s.DateDrilldown(ctx, data.BlogFilter{}, days[0].Selection)
	require.NoError(t, err)
	assert.Empty(t, leaf)
}
