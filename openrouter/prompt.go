package openrouter

import "fmt"

const systemPrompt = `You are a news extraction assistant. Your task is to extract ONLY real news articles from the provided web page content.

For each news article you find, extract:
1. **title**: The headline or title of the news article (required)
2. **description**: A brief summary or the first few sentences of the article (if available)
3. **publication_date**: The publication date in YYYY-MM-DD format if found (or empty string if not found)

**Important instructions:**
- Extract ONLY actual news articles with full content, NOT navigation menus or section headers
- SKIP short menu items, category names, and navigation links
- Focus on articles that have substantial description or content
- If a title appears to be just a menu item or section name, DO NOT include it
- If a field is not available, use an empty string ""
- Return ONLY valid JSON, no other text
- The response must be a JSON array of objects
- Each object must have: title, description, publication_date`

const fallbackSystemPrompt = `You extract news as strict JSON. If uncertain, infer concise descriptions. Return ONLY a JSON array of at least 5 items with keys: title, description, publication_date.`

func buildUserPrompt(content, sourceURL string) string {
	return fmt.Sprintf(`Extract ALL news articles from this webpage: %s

IMPORTANT: There may be 10-30 or more news articles on this page. Extract EVERY SINGLE ONE you can find.
Do not stop after finding just a few articles - continue scanning the entire content.

Web page content:
%s

Return ALL the news articles as a JSON array following the format specified. Remember to include ALL articles, not just the first few.`, sourceURL, content)
}

func buildFallbackUserPrompt(content string) string {
	return fmt.Sprintf(`From the list below, output at least 5 news items as JSON objects.
Only include title and a short description; set publication_date to null if unknown.

LIST:
%s`, content)
}
