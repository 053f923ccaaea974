package render

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestDjangoEngine_IncludeAndExtends(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "base.django"),
		`<html><head><title>{{ title }}</title></head><body>{% block body %}{% endblock %}</body></html>`)
	writeFile(t, filepath.Join(dir, "nav.django"), `<nav>{{ toc }}</nav>`)
	writeFile(t, filepath.Join(dir, "page.django"),
		`{% extends "base.django" %}{% block body %}{% include "nav.django" %}{{ content }}`+
			`<footer>{{ modified }}{% if revision %} ({{ revision }}){% endif %} {{ meta.author }}</footer>{% endblock %}`)

	e, err := NewDjangoEngine(filepath.Join(dir, "page.django"))
	if err != nil {
		t.Fatalf("NewDjangoEngine() error = %v", err)
	}

	out, err := e.Render(context.Background(), Data{
		Title:    "Fish & Chips",
		Content:  "<p>body</p>",
		TOC:      `<div class="toc"></div>`,
		Modified: "2024-01-02",
		Meta:     map[string]any{"author": "Ana"},
	})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	for _, want := range []string{
		"<title>Fish &amp; Chips</title>",
		`<nav><div class="toc"></div></nav><p>body</p>`,
		"<footer>2024-01-02 Ana</footer>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestDjangoEngine_Filters(t *testing.T) {
	t.Parallel()

	e, err := NewDjangoEngineFromString(`<h1>{{ title|typogrify }}</h1>`)
	if err != nil {
		t.Fatalf("NewDjangoEngineFromString() error = %v", err)
	}
	out, err := e.Render(context.Background(), Data{Title: `It's "done"`})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(out, "<h1>It&rsquo;s &ldquo;done&rdquo;</h1>") {
		t.Errorf("typogrify filter not applied: %s", out)
	}
}

func TestDjangoEngine_CSSMinFilter(t *testing.T) {
	t.Parallel()

	e, err := NewDjangoEngineFromString(`{% filter cssmin %}p {  margin : 0 ; }{% endfilter %}`)
	if err != nil {
		t.Fatalf("NewDjangoEngineFromString() error = %v", err)
	}
	out, err := e.Render(context.Background(), Data{})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if out != "p{margin:0}" {
		t.Errorf("Render() = %q, want minified CSS", out)
	}
}

func TestDjangoEngine_Errors(t *testing.T) {
	t.Parallel()

	if _, err := NewDjangoEngineFromString(`{% if %}`); !errors.Is(err, ErrTemplateParse) {
		t.Errorf("parse error = %v, want ErrTemplateParse", err)
	}

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "page.j2"), `{% include "missing.j2" %}`)
	e, err := NewDjangoEngine(filepath.Join(dir, "page.j2"))
	if err == nil {
		_, err = e.Render(context.Background(), Data{})
	}
	if err == nil {
		t.Error("missing include should fail at parse or render time")
	}
}
