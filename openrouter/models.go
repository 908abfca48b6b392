package openrouter

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
)

type modelInfo struct {
	ID      string `json:"id"`
	Pricing struct {
		Prompt     string `json:"prompt"`
		Completion string `json:"completion"`
	} `json:"pricing"`
	SupportedParameters []string `json:"supported_parameters"`
}

type modelsResponse struct {
	Data []modelInfo `json:"data"`
}

// DiscoverFreeModels queries the API for models priced at zero, excluding
// reasoning models, and returns them with the known-good defaults first.
// Discovery is best effort: any failure falls back to DefaultModels so a
// scrape never dies on the model catalog.
func (e *Extractor) DiscoverFreeModels(ctx context.Context) []string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"/models", nil)
	if err != nil {
		return append([]string(nil), DefaultModels...)
	}
	e.setHeaders(req)

	resp, err := e.client.Do(req)
	if err != nil {
		return append([]string(nil), DefaultModels...)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return append([]string(nil), DefaultModels...)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return append([]string(nil), DefaultModels...)
	}

	var parsed modelsResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return append([]string(nil), DefaultModels...)
	}

	var free []string
	for _, m := range parsed.Data {
		if m.ID == "" || !isZeroPrice(m.Pricing.Prompt) || !isZeroPrice(m.Pricing.Completion) {
			continue
		}
		if isReasoningModel(m) {
			continue
		}
		free = append(free, m.ID)
	}
	if len(free) == 0 {
		return append([]string(nil), DefaultModels...)
	}

	return prioritize(free, DefaultModels)
}

// isZeroPrice treats a missing price the same as an explicit zero.
func isZeroPrice(price string) bool {
	if price == "" {
		return true
	}
	f, err := strconv.ParseFloat(price, 64)
	return err == nil && f == 0
}

func isReasoningModel(m modelInfo) bool {
	for _, p := range m.SupportedParameters {
		if strings.Contains(strings.ToLower(p), "reason") {
			return true
		}
	}
	return false
}

// prioritize keeps the discovery order but moves known-good models to the
// front.
func prioritize(models, preferred []string) []string {
	seen := make(map[string]bool, len(models))
	for _, m := range models {
		seen[m] = true
	}

	out := make([]string, 0, len(models))
	inPreferred := make(map[string]bool, len(preferred))
	for _, m := range preferred {
		if seen[m] {
			out = append(out, m)
			inPreferred[m] = true
		}
	}
	for _, m := range models {
		if !inPreferred[m] {
			out = append(out, m)
		}
	}
	return out
}
