// Package classify derives short content hints and topic tags from files.
// All derivation is best-effort: read failures never propagate as errors,
// they degrade to a describing hint string so a scan can continue.
package classify

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Extension classes. Word-processor and presentation containers get
// dedicated handling; everything else falls into one of these sets.
var (
	textExtensions = map[string]struct{}{
		".txt": {}, ".md": {}, ".py": {}, ".r": {}, ".go": {},
		".log": {}, ".yaml": {}, ".yml": {}, ".json": {},
	}
	spreadsheetExtensions = map[string]struct{}{
		".xlsx": {}, ".xls": {}, ".csv": {}, ".prism": {},
	}
)

const (
	hintNotApplicable = "N/A"
	hintSpreadsheet   = "Spreadsheet file."

	docHintLimit  = 150
	textHintLimit = 200
	textHintLines = 2
)

// Hint returns a short, cheaply derived excerpt for the file at path.
// ext must be the lowercased extension including the dot.
func Hint(path, ext string) string {
	switch ext {
	case ".docx":
		return docxHint(path)
	case ".pptx":
		return pptxHint(path)
	case ".pdf":
		return pdfHint(path)
	}
	if _, ok := textExtensions[ext]; ok {
		return textHint(path, ext)
	}
	if _, ok := spreadsheetExtensions[ext]; ok {
		return hintSpreadsheet
	}
	return hintNotApplicable
}

func docxHint(path string) string {
	paras, err := docxParagraphs(path)
	if err != nil {
		return "DOCX: Corrupt or unreadable."
	}
	for _, p := range paras {
		if s := strings.TrimSpace(p); s != "" {
			return "First para: " + truncate(s, docHintLimit) + "..."
		}
	}
	return "DOCX: No paragraphs found."
}

func pptxHint(path string) string {
	title, hasSlides, err := pptxFirstSlideTitle(path)
	if err != nil {
		return "PPTX: Corrupt or unreadable."
	}
	if !hasSlides {
		return "PPTX: No slides."
	}
	if strings.TrimSpace(title) == "" {
		return "PPTX: First slide no title."
	}
	return "First slide title: " + truncate(strings.TrimSpace(title), docHintLimit)
}

func textHint(path, ext string) string {
	f, err := os.Open(path)
	if err != nil {
		return readErrorHint(path, err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for len(lines) < textHintLines && sc.Scan() {
		lines = append(lines, strings.TrimSpace(sc.Text()))
	}
	joined := strings.TrimSpace(strings.Join(lines, " "))
	if joined == "" {
		return strings.ToUpper(strings.TrimPrefix(ext, ".")) + ": Empty"
	}
	return "First 2 lines: " + truncate(joined, textHintLimit) + "..."
}

// readErrorHint describes a failed read without aborting the scan.
func readErrorHint(path string, err error) string {
	return fmt.Sprintf("Hint error for %s: %v", filepath.Base(path), err)
}

// truncate shortens s to at most limit runes.
func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
