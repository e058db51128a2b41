package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"log"
	"path"
	"strings"
)

// extractDOCX concatenates paragraph text, then every table cell's text, from
// word/document.xml. When the direct yield is below minDirectYield it
// additionally OCRs every relationship target that references an image and
// appends non-empty output. Per-image OCR failures are logged and skipped;
// one broken image never aborts the whole document.
func (e *Extractor) extractDOCX(ctx context.Context, data []byte) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{Format: FormatDOCX, Message: "failed to open DOCX archive", Cause: err}
	}

	doc, err := readArchiveFile(archive, "word/document.xml")
	if err != nil {
		return "", &ExtractionError{Format: FormatDOCX, Message: "missing word/document.xml", Cause: err}
	}

	paragraphs, cells, err := walkDocumentXML(doc)
	if err != nil {
		return "", &ExtractionError{Format: FormatDOCX, Message: "failed to parse document XML", Cause: err}
	}

	content := strings.Join(append(paragraphs, cells...), "\n")
	if len(strings.TrimSpace(content)) < minDirectYield {
		log.Printf("docx: direct extraction yielded %d chars, running OCR on embedded images", len(strings.TrimSpace(content)))
		if ocrText := e.ocrDOCXImages(ctx, archive); ocrText != "" {
			content = strings.TrimSpace(content + "\n" + ocrText)
		}
	}
	return content, nil
}

// walkDocumentXML streams the document body once, collecting body paragraphs
// and table cell texts separately so cells follow paragraphs in the output,
// matching how resumes lay out tabular skill grids after prose.
func walkDocumentXML(doc []byte) (paragraphs, cells []string, err error) {
	dec := xml.NewDecoder(bytes.NewReader(doc))

	var (
		tableDepth int
		current    strings.Builder
		cell       strings.Builder
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				tableDepth++
			case "t":
				var text string
				if err := dec.DecodeElement(&text, &t); err != nil {
					return nil, nil, err
				}
				if tableDepth > 0 {
					cell.WriteString(text)
				} else {
					current.WriteString(text)
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "tbl":
				tableDepth--
			case "p":
				if tableDepth == 0 {
					paragraphs = append(paragraphs, current.String())
					current.Reset()
				}
			case "tc":
				cells = append(cells, cell.String())
				cell.Reset()
			}
		}
	}
	return paragraphs, cells, nil
}

// docxRelationships mirrors word/_rels/document.xml.rels.
type docxRelationships struct {
	Relationships []docxRelationship `xml:"Relationship"`
}

type docxRelationship struct {
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

// ocrDOCXImages scans every relationship that references an image, decodes
// the part and OCRs it, appending non-empty results.
func (e *Extractor) ocrDOCXImages(ctx context.Context, archive *zip.Reader) string {
	relsData, err := readArchiveFile(archive, "word/_rels/document.xml.rels")
	if err != nil {
		log.Printf("docx: no document relationships found: %v", err)
		return ""
	}

	var rels docxRelationships
	if err := xml.Unmarshal(relsData, &rels); err != nil {
		log.Printf("docx: failed to parse relationships: %v", err)
		return ""
	}

	var sb strings.Builder
	for _, rel := range rels.Relationships {
		if !strings.Contains(rel.Type, "image") && !strings.Contains(rel.Target, "image") {
			continue
		}

		target := path.Clean(path.Join("word", rel.Target))
		img, err := readArchiveFile(archive, target)
		if err != nil {
			log.Printf("docx: failed to read embedded image %s: %v", target, err)
			continue
		}

		text, err := e.ocr.ImageToText(ctx, img)
		if err != nil {
			log.Printf("docx: OCR failed for embedded image %s: %v", target, err)
			continue
		}
		if strings.TrimSpace(text) != "" {
			sb.WriteString(text)
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}

func readArchiveFile(archive *zip.Reader, name string) ([]byte, error) {
	f, err := archive.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
