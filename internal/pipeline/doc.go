// Package pipeline implements the Markdown-to-HTML stages that run before
// the page template is filled:
//   - Markdown preprocessing (line normalization, ==highlight== syntax)
//   - front matter extraction (YAML, TOML or JSON)
//   - Markdown to HTML conversion via goldmark
//   - optional sanitization of raw HTML via bluemonday
//   - heading decoration (anchor and permalink) and TOC generation via goquery
//
// Template rendering lives in internal/render and the final cleanup in
// internal/tidy; this package only produces the "content" and "toc" values.
package pipeline
