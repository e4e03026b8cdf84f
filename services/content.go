// File: services/content.go
package services

import (
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"church-site/logger"
)

var (
	markdown = goldmark.New(
		goldmark.WithExtensions(extension.Linkify, extension.Strikethrough),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)
	ugcPolicy = bluemonday.UGCPolicy()
)

// RenderMarkdown turns an event description into sanitised HTML. Raw HTML in
// the source is dropped by goldmark and anything unsafe left over is removed
// by the UGC policy.
func RenderMarkdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		logger.Warn.Printf("[RenderMarkdown] Falling back to escaped text: %v", err)
		return template.HTML(template.HTMLEscapeString(src)) // #nosec G203 -- escaped
	}
	return template.HTML(ugcPolicy.SanitizeBytes(buf.Bytes())) // #nosec G203 -- sanitised
}
