package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// summaryPrompt asks the model for a short summary and a coarse category wrapped in <json> tags
const summaryPrompt = `Your purpose is to catalog images based upon common categories.
Create a structured set of data in json providing a summary of the image and a very short, generalised, image category.  Do not return any narrative language.
Before you provide any output, show your working in <scratchpad> XML tags.
JSON fields must be labelled image_summary and image_category.

Example json structure is:

<json>
{
    "image_summary": SUMMARY OF THE IMAGE,
    "image_category": SHORT CATEGORY OF THE IMAGE,
}
</json>

Examples of categorie are:

Animals
Nature
People
Travel
Food
Technology
Business
Education
Health
Sports
Arts
Fashion
Backgrounds
Concepts
Holidays

Output the json structure as a stringin <json> XML tags.  Do not return any narrative language.

Look at the images in detail, looking for people, animals, landmarks or features and where possible try to identify them.
`

// VisionModel answers a prompt about an image file. vision.Client implements it.
type VisionModel interface {
	Infer(ctx context.Context, filePath, prompt string) (string, error)
}

// Summary is the model's description of one image
type Summary struct {
	Summary  string `json:"image_summary"`
	Category string `json:"image_category"`
}

// Summarizer describes a stored image
type Summarizer interface {
	Summarize(ctx context.Context, filePath string) (Summary, error)
}

// ModelSummarizer asks a VisionModel for a summary and category
type ModelSummarizer struct {
	model VisionModel
}

func NewModelSummarizer(model VisionModel) *ModelSummarizer {
	return &ModelSummarizer{model: model}
}

func (m *ModelSummarizer) Summarize(ctx context.Context, filePath string) (Summary, error) {
	reply, err := m.model.Infer(ctx, filePath, summaryPrompt)
	if err != nil {
		return Summary{}, fmt.Errorf("vision model: %w", err)
	}
	return parseSummary(reply)
}

// parseSummary reads the JSON object inside the last <json>...</json> block of reply
func parseSummary(reply string) (Summary, error) {
	block := lastTagged(reply, "<json>", "</json>")
	if strings.TrimSpace(block) == "" {
		return Summary{}, errors.New("model reply has no <json> block")
	}

	var s Summary
	if err := json.Unmarshal([]byte(block), &s); err != nil {
		return Summary{}, fmt.Errorf("decode summary json: %w", err)
	}
	s.Summary = strings.TrimSpace(s.Summary)
	s.Category = strings.TrimSpace(s.Category)
	if s.Summary == "" || s.Category == "" {
		return Summary{}, errors.New("summary json is missing image_summary or image_category")
	}
	return s, nil
}

// lastTagged returns the text between the last occurrence of open and the next
// close after it, or "" when either is missing
func lastTagged(text, open, close string) string {
	start := strings.LastIndex(text, open)
	if start == -1 {
		return ""
	}
	start += len(open)
	end := strings.Index(text[start:], close)
	if end == -1 {
		return ""
	}
	return text[start : start+end]
}
