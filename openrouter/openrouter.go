// Package openrouter implements newsgrab.Extractor against the OpenRouter
// chat-completions API. It only uses free models: a request is tried against
// a fallback list of models in order, and the whole sweep is retried with
// exponential backoff when the failure looks transient.
package openrouter

import (
	"strings"

	"newsgrab"
)

// DefaultBaseURL is the OpenRouter API root.
const DefaultBaseURL = "https://openrouter.ai/api/v1"

// DefaultModels is the known-good free model fallback list, tried in order.
var DefaultModels = []string{
	"qwen/qwen3-coder:free",
	"meta-llama/llama-3.1-8b-instruct:free",
	"google/gemma-7b-it:free",
	"mistralai/mistral-7b-instruct:free",
}

// ValidateAPIKey checks that key looks like a real OpenRouter key.
// Keys are issued with an sk-or-v1- prefix and are 60+ characters long.
func ValidateAPIKey(key string) error {
	if key == "" {
		return newsgrab.Errorf(newsgrab.EINVALID, "OpenRouter API key required")
	}
	if !strings.HasPrefix(key, "sk-or-v1-") {
		return newsgrab.Errorf(newsgrab.EINVALID, "invalid OpenRouter API key format, expected sk-or-v1- prefix")
	}
	if len(key) < 50 {
		return newsgrab.Errorf(newsgrab.EINVALID, "OpenRouter API key appears incomplete")
	}
	return nil
}
