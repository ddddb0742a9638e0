package pdfextract

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"pdflingua/internal/pkg/pagerange"
)

// OCRRunner recognizes text on a single PDF page that carries no embedded
// text layer. Page numbers are 1-based, matching the PDF reader.
type OCRRunner interface {
	RecognizePage(ctx context.Context, path string, page int) (string, error)
}

// CommandOCR shells out to an external OCR tool (typically a tesseract
// wrapper script) invoked as: <command> <pdf-path> <page>. Recognized text
// is read from stdout.
type CommandOCR struct {
	Command string
	Timeout time.Duration
}

func (o *CommandOCR) RecognizePage(ctx context.Context, path string, page int) (string, error) {
	if strings.TrimSpace(o.Command) == "" {
		return "", fmt.Errorf("ocr command not configured")
	}
	if o.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.Timeout)
		defer cancel()
	}
	cmd := exec.CommandContext(ctx, o.Command, path, strconv.Itoa(page))
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("ocr command failed on page %d: %w", page, err)
	}
	return out.String(), nil
}

// Extractor pulls plain text from a page range of a PDF file, falling back
// to OCR for pages without an embedded text layer. A nil OCR runner
// disables the fallback; such pages contribute nothing.
type Extractor struct {
	ocr OCRRunner
}

func NewExtractor(ocr OCRRunner) *Extractor {
	return &Extractor{ocr: ocr}
}

// PageCount returns the number of pages in the PDF at path.
func PageCount(path string) (int, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open pdf failed: %w", err)
	}
	defer f.Close()
	return reader.NumPage(), nil
}

// ExtractRange returns the concatenated text of the pages in r, clamped to
// the document's bounds. r is zero-based half-open.
func (e *Extractor) ExtractRange(ctx context.Context, path string, r pagerange.Range) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf failed: %w", err)
	}
	defer f.Close()

	total := reader.NumPage()
	start := r.Start
	if start < 0 {
		start = 0
	}
	end := r.End
	if end > total {
		end = total
	}

	var sb strings.Builder
	for pageIdx := start; pageIdx < end; pageIdx++ {
		pageNum := pageIdx + 1 // reader pages are 1-based
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Treat an unreadable text layer like a missing one.
			text = ""
		}
		if strings.TrimSpace(text) == "" && e.ocr != nil {
			recognized, ocrErr := e.ocr.RecognizePage(ctx, path, pageNum)
			if ocrErr != nil {
				return "", fmt.Errorf("extract page %d failed: %w", pageNum, ocrErr)
			}
			text = recognized
		}
		sb.WriteString(text)
	}
	return sb.String(), nil
}
