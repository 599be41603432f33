package classify

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// OOXML containers (.docx, .pptx) are ZIP archives of XML parts. The
// extractors below walk the token stream of the relevant part instead of
// materialising a document model; hints only need the leading text.

// docxParagraphs returns the text of every paragraph in word/document.xml.
func docxParagraphs(path string) ([]string, error) {
	rc, err := openZipPart(path, "word/document.xml")
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	dec := xml.NewDecoder(rc)
	var (
		paras   []string
		current strings.Builder
		inPara  bool
		inText  bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("classify: parse document.xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				inPara = true
				current.Reset()
			case "t":
				inText = inPara
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				if inPara {
					paras = append(paras, current.String())
				}
				inPara = false
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}
	return paras, nil
}

// docxText returns the full document text, paragraphs joined by newlines.
func docxText(path string) (string, error) {
	paras, err := docxParagraphs(path)
	if err != nil {
		return "", err
	}
	return strings.Join(paras, "\n"), nil
}

// pptxFirstSlideTitle extracts the title of the first slide. hasSlides
// reports whether the deck contains any slide part at all.
func pptxFirstSlideTitle(path string) (title string, hasSlides bool, err error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", false, fmt.Errorf("classify: open %s: %w", path, err)
	}
	defer zr.Close()

	var first *zip.File
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "ppt/slides/slide") && strings.HasSuffix(f.Name, ".xml") {
			hasSlides = true
			if f.Name == "ppt/slides/slide1.xml" {
				first = f
			}
		}
	}
	if !hasSlides || first == nil {
		return "", hasSlides, nil
	}

	rc, err := first.Open()
	if err != nil {
		return "", true, fmt.Errorf("classify: open slide1: %w", err)
	}
	defer rc.Close()

	title, err = slideTitle(rc)
	return title, true, err
}

// slideTitle scans a slide part for the shape whose placeholder type is
// "title" or "ctrTitle" and returns its concatenated run text.
func slideTitle(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var (
		depth     int
		spDepth   int
		inTitleSp bool
		inText    bool
		text      strings.Builder
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("classify: parse slide: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "sp":
				spDepth = depth
				inTitleSp = false
				text.Reset()
			case "ph":
				for _, a := range t.Attr {
					if a.Name.Local == "type" && (a.Value == "title" || a.Value == "ctrTitle") {
						inTitleSp = true
					}
				}
			case "t":
				inText = inTitleSp
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "sp":
				if inTitleSp && depth == spDepth {
					return text.String(), nil
				}
				inTitleSp = false
			case "t":
				inText = false
			}
			depth--
		case xml.CharData:
			if inText {
				text.Write(t)
			}
		}
	}
	return "", nil
}

// openZipPart opens one named part of a ZIP container. The returned
// ReadCloser also closes the archive.
func openZipPart(path, name string) (io.ReadCloser, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("classify: open %s: %w", path, err)
	}
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				zr.Close()
				return nil, fmt.Errorf("classify: open part %s: %w", name, err)
			}
			return &zipPartReader{rc: rc, zr: zr}, nil
		}
	}
	zr.Close()
	return nil, fmt.Errorf("classify: %s has no part %s", path, name)
}

type zipPartReader struct {
	rc io.ReadCloser
	zr *zip.ReadCloser
}

func (z *zipPartReader) Read(p []byte) (int, error) { return z.rc.Read(p) }

func (z *zipPartReader) Close() error {
	err := z.rc.Close()
	if cerr := z.zr.Close(); err == nil {
		err = cerr
	}
	return err
}
