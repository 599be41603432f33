package classify

import (
	"strings"

	"github.com/ledongthuc/pdf"
)

// pdfHint returns an excerpt of the first page's plain text.
func pdfHint(path string) (hint string) {
	// The pdf package panics on some malformed files; a hint is never
	// worth aborting a scan over.
	defer func() {
		if recover() != nil {
			hint = "PDF: Corrupt or unreadable."
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return "PDF: Corrupt or unreadable."
	}
	defer f.Close()

	if r.NumPage() < 1 {
		return "PDF: No pages."
	}
	page := r.Page(1)
	if page.V.IsNull() {
		return "PDF: No extractable text."
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		return "PDF: No extractable text."
	}
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return "PDF: No extractable text."
	}
	return "First page: " + truncate(text, textHintLimit) + "..."
}
