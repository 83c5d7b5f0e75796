package extract

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/studyforge/studyforge/internal/domain"
)

// excerptLength is how much of the document feeds the article excerpt.
const excerptLength = 200

// FromPDF extracts plain text from an uploaded PDF. The article title is
// derived from the file name; the document itself is not inspected for one.
func (e *Extractor) FromPDF(data []byte, filename string) (*domain.Article, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPDF, err)
	}

	textReader, err := reader.GetPlainText()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPDF, err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(textReader); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPDF, err)
	}

	text := buf.String()
	article, err := domain.NewArticle(titleFromFilename(filename), text)
	if err != nil {
		return nil, fmt.Errorf("%w: document contains no extractable text", ErrInvalidPDF)
	}
	article.Excerpt = pdfExcerpt(text)
	article.SiteName = "Uploaded PDF"
	article.PageCount = reader.NumPage()

	return article, nil
}

// titleFromFilename turns an uploaded file name into a readable title:
// percent-decoded, extension stripped, dashes and underscores as spaces.
func titleFromFilename(filename string) string {
	if filename == "" {
		return "PDF Document"
	}

	name := filename
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}
	name = strings.TrimSuffix(name, ".pdf")
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	name = strings.TrimSpace(name)
	if name == "" {
		return "PDF Document"
	}
	return name
}

func pdfExcerpt(text string) string {
	if len(text) <= excerptLength {
		return text
	}
	return text[:excerptLength] + "..."
}
