package openrouter

import (
	"encoding/json"
	"regexp"
	"strings"

	"newsgrab"
)

var (
	fenceRE = regexp.MustCompile("(?is)```(?:json)?\\s*(.*?)```")
	arrayRE = regexp.MustCompile(`(?s)\[\s*\{.*\}\s*\]`)
)

// record is the shape models are asked to emit. publication_date may be a
// string, null, or missing entirely.
type record struct {
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	PublicationDate *string `json:"publication_date"`
}

// ParseArticles turns a model response into articles. Models wrap their JSON
// in markdown fences, prepend prose, or nest the array under an envelope key,
// so parsing tries progressively more forgiving strategies. Records without a
// usable title are dropped rather than failing the whole response.
func ParseArticles(content string) ([]*newsgrab.Article, error) {
	text := stripFences(content)
	if text == "" {
		return nil, newsgrab.Errorf(newsgrab.EUNPROCESSABLE, "empty model response")
	}

	raws, err := decodeRecords(text)
	if err != nil {
		// Last resort: pull the first JSON array out of surrounding prose.
		match := arrayRE.FindString(text)
		if match == "" {
			return nil, newsgrab.Errorf(newsgrab.EUNPROCESSABLE, "model response is not JSON: %v", err)
		}
		raws, err = decodeRecords(match)
		if err != nil {
			return nil, newsgrab.Errorf(newsgrab.EUNPROCESSABLE, "model response is not JSON: %v", err)
		}
	}

	articles := make([]*newsgrab.Article, 0, len(raws))
	for _, raw := range raws {
		var rec record
		if err := json.Unmarshal(raw, &rec); err != nil {
			continue
		}
		title := strings.TrimSpace(rec.Title)
		if title == "" {
			continue
		}
		a := &newsgrab.Article{
			Title:       title,
			Description: strings.TrimSpace(rec.Description),
		}
		if rec.PublicationDate != nil {
			if date := strings.TrimSpace(*rec.PublicationDate); date != "" {
				a.PublicationDate = &date
			}
		}
		articles = append(articles, a)
	}

	return articles, nil
}

// stripFences removes markdown code fences and stray model artifacts.
func stripFences(content string) string {
	text := strings.ReplaceAll(content, "[/s]", "")
	text = strings.TrimSpace(text)
	if m := fenceRE.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	}
	return text
}

// decodeRecords parses text as either a bare JSON array or an object that
// wraps the array under a well-known key.
func decodeRecords(text string) ([]json.RawMessage, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal([]byte(text), &raws); err == nil {
		return raws, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &envelope); err != nil {
		return nil, err
	}
	for _, key := range []string{"news", "articles", "items"} {
		inner, ok := envelope[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(inner, &raws); err == nil {
			return raws, nil
		}
	}
	return nil, newsgrab.Errorf(newsgrab.EUNPROCESSABLE, "no article array found in response object")
}
