package domain

import "errors"

// Article validation errors
var (
	ErrArticleTitleEmpty   = errors.New("article title cannot be empty")
	ErrArticleContentEmpty = errors.New("article content cannot be empty")
)

// Article is readable content extracted from a source document, either a
// fetched web page or an uploaded PDF. Content holds plain text, not markup.
type Article struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Excerpt   string `json:"excerpt,omitempty"`
	Byline    string `json:"byline,omitempty"`
	SiteName  string `json:"siteName,omitempty"`
	Length    int    `json:"length"`
	PageCount int    `json:"pageCount,omitempty"`
}

// NewArticle creates an Article with the given title and plain-text content.
// A blank title falls back to "Untitled" so downstream prompts always have
// something to reference. Returns an error if validation fails.
func NewArticle(title, content string) (*Article, error) {
	if title == "" {
		title = "Untitled"
	}

	article := &Article{
		Title:   title,
		Content: content,
		Length:  len(content),
	}

	if err := article.Validate(); err != nil {
		return nil, err
	}

	return article, nil
}

// Validate checks if the Article has valid data.
// Returns an error if any field fails validation.
func (a *Article) Validate() error {
	if a.Title == "" {
		return ErrArticleTitleEmpty
	}

	if a.Content == "" {
		return ErrArticleContentEmpty
	}

	return nil
}
