package service

import (
	"blog-admin/internal/cache"
	"blog-admin/internal/logger"
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// RenderCache stores rendered fragments keyed by content hash.
type RenderCache interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
}

// BodyRenderer turns a blog body (Markdown with optional inline HTML) into
// sanitized HTML.
type BodyRenderer struct {
	md        goldmark.Markdown
	sanitizer *bluemonday.Policy
	cache     RenderCache
	log       logger.Logger
}

// NewBodyRenderer creates a renderer. cache may be nil.
func NewBodyRenderer(c RenderCache, log logger.Logger) *BodyRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		// Raw HTML is allowed through the parser; bluemonday strips anything unsafe.
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	return &BodyRenderer{
		md:        md,
		sanitizer: bluemonday.UGCPolicy(),
		cache:     c,
		log:       log,
	}
}

// Render returns the HTML for body, consulting the cache first.
func (r *BodyRenderer) Render(body string) template.HTML {
	key := cache.Key("blog-body", body)
	if r.cache != nil {
		if cached, err := r.cache.Get(key); err != nil {
			r.log.Error(err, "Failed to read render cache")
		} else if cached != nil {
			return template.HTML(cached)
		}
	}

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(body), &buf); err != nil {
		r.log.Error(err, "Failed to render blog body")
		return template.HTML(template.HTMLEscapeString(body))
	}
	out := r.sanitizer.SanitizeBytes(buf.Bytes())

	if r.cache != nil {
		if err := r.cache.Put(key, out); err != nil {
			r.log.Error(err, "Failed to write render cache")
		}
	}
	return template.HTML(out)
}
