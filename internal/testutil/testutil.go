// Package testutil provides shared test helpers for building file trees
// and fixture documents.
package testutil

import (
	"archive/zip"
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

// QuietLogger returns a logger that only reports errors, keeping test
// output readable.
func QuietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// WriteTree creates files under root from relative path → content,
// making parent directories as needed.
func WriteTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir for %s: %v", rel, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
}

// WriteZip writes a ZIP archive at path with the given member files.
func WriteZip(t *testing.T, path string, members map[string]string) {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range members {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteDocx writes a minimal word-processor container whose document
// part holds the given paragraphs.
func WriteDocx(t *testing.T, path string, paragraphs ...string) {
	t.Helper()
	var body bytes.Buffer
	body.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	body.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		body.WriteString(`<w:p><w:r><w:t>`)
		_ = xmlEscape(&body, p)
		body.WriteString(`</w:t></w:r></w:p>`)
	}
	body.WriteString(`</w:body></w:document>`)
	WriteZip(t, path, map[string]string{"word/document.xml": body.String()})
}

// WritePptx writes a minimal presentation container with one slide.
// An empty title produces a slide without a title placeholder.
func WritePptx(t *testing.T, path, title string) {
	t.Helper()
	var slide bytes.Buffer
	slide.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	slide.WriteString(`<p:sld xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main" xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"><p:cSld><p:spTree>`)
	if title != "" {
		slide.WriteString(`<p:sp><p:nvSpPr><p:nvPr><p:ph type="title"/></p:nvPr></p:nvSpPr><p:txBody><a:p><a:r><a:t>`)
		_ = xmlEscape(&slide, title)
		slide.WriteString(`</a:t></a:r></a:p></p:txBody></p:sp>`)
	}
	slide.WriteString(`</p:spTree></p:cSld></p:sld>`)
	WriteZip(t, path, map[string]string{"ppt/slides/slide1.xml": slide.String()})
}

func xmlEscape(buf *bytes.Buffer, s string) error {
	for _, r := range s {
		switch r {
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '&':
			buf.WriteString("&amp;")
		default:
			buf.WriteRune(r)
		}
	}
	return nil
}
