package gemini

import (
	"bytes"
	"fmt"
	"text/template"
)

// maxContentLength caps how much source content goes into a single prompt.
// Longer content is cut and marked rather than rejected.
const maxContentLength = 50000

const truncationMarker = "...[truncated]"

// systemPrompt frames every generation request. It is sent as the model's
// system instruction, separate from the per-request content.
const systemPrompt = `You are a study optimization assistant that transforms content into effective learning materials using evidence-based memory techniques.

You will generate three types of output:
1. CONDENSED NOTES - Hierarchical bullet points (max 3 levels deep) capturing key concepts
2. FLASHCARDS - Question-answer pairs for active recall and spaced repetition
3. KEY QUESTIONS - "Why" and "How" questions for elaborative interrogation

Follow these principles:
- Chunk information into digestible pieces (cognitive load theory)
- Focus on core concepts, not peripheral details
- Create flashcards that test understanding, not just recall
- Generate questions that promote deeper processing`

// userPromptTemplate renders the per-request prompt. The response contract
// mirrors domain.StudyMaterials.
const userPromptTemplate = `Process the following content titled "{{.Title}}" and generate study materials.

CONTENT:
{{.Content}}

---

Respond with a JSON object containing:
{
  "notes": "Markdown formatted hierarchical notes with bullet points (use -, not *)",
  "flashcards": [
    {"front": "question", "back": "answer"},
    ...
  ],
  "questions": [
    {"question": "Why/How question", "hint": "Brief hint for self-testing"},
    ...
  ]
}

Guidelines:
- Notes: 5-10 key points, max 3 levels of nesting
- Flashcards: 8-15 cards covering core concepts
- Questions: 5-8 elaborative questions starting with Why/How

Return ONLY valid JSON, no additional text.`

// promptData holds the values rendered into the user prompt template.
type promptData struct {
	Title   string
	Content string
}

func parsePromptTemplate() (*template.Template, error) {
	return template.New("study").Parse(userPromptTemplate)
}

// truncateContent cuts content to maxContentLength and appends the
// truncation marker so the model knows the source was cut.
func truncateContent(content string) string {
	if len(content) <= maxContentLength {
		return content
	}
	return content[:maxContentLength] + truncationMarker
}

// buildPrompt renders the user prompt for one request. An empty title is
// replaced so the prompt never references a blank document.
func (g *Generator) buildPrompt(content, title string) (string, error) {
	if title == "" {
		title = "Article"
	}

	data := promptData{
		Title:   title,
		Content: truncateContent(content),
	}

	var buf bytes.Buffer
	if err := g.promptTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}
