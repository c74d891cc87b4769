// Package llm implements C4: the LLM analyzer that turns a crawl's raw
// concert listings into refined, cross-verified records, or — when a crawl
// came back empty — falls back to a direct web search for the artist.
package llm

import (
	"context"
	"fmt"

	"github.com/hallyusync/concert-sync/internal/concert"
	"google.golang.org/genai"
)

const component = "llm"

// Analyzer calls a Gemini model with the web-search tool enabled to refine
// crawl results (Mode A) or search directly (Mode B), per spec §4.4.
type Analyzer struct {
	client *genai.Client
	model  string
}

// New builds an Analyzer backed by the Gemini API (not Vertex AI — this
// pipeline authenticates with a plain API key, per spec §6's
// GOOGLE_API_KEY).
func New(ctx context.Context, apiKey, model string) (*Analyzer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini 클라이언트 생성에 실패했습니다: %w", err)
	}
	return &Analyzer{client: client, model: model}, nil
}

// refinedItemSchema matches the JSON shape both Mode A and Mode B are
// instructed to return, one object per concert.
var refinedItemSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"concert_title": {Type: genai.TypeString},
		"venue":         {Type: genai.TypeString},
		"concert_date":  {Type: genai.TypeString, Description: "YYYY-MM-DD"},
		"concert_time":  {Type: genai.TypeString, Description: "HH:MM"},
		"ticket_price":  {Type: genai.TypeString},
		"booking_date":  {Type: genai.TypeString},
		"booking_url":   {Type: genai.TypeString},
		"source":        {Type: genai.TypeString},
		"confidence":    {Type: genai.TypeNumber},
		"data_sources":  {Type: genai.TypeString},
		"is_verified":   {Type: genai.TypeBoolean},
	},
	Required: []string{"concert_title"},
}

var refinedArraySchema = &genai.Schema{
	Type:  genai.TypeArray,
	Items: refinedItemSchema,
}

// Analyze runs Mode A (crawl-driven refinement) when raw is non-empty, or
// Mode B (direct-search fallback) when it's empty, returning the refined,
// artist-tagged results. It never returns an error to the pipeline — any
// unrecoverable failure is logged and yields an empty slice, per spec
// §4.4/§4.5.
func (a *Analyzer) Analyze(ctx context.Context, artistName string, raw []concert.RawConcertData) []concert.ConcertSearchResult {
	var prompt string
	var useWebSearch bool
	if len(raw) > 0 {
		prompt = modeAPrompt(artistName, raw)
		useWebSearch = true
	} else {
		prompt = modeBPrompt(artistName)
		useWebSearch = true
	}

	text, err := a.generateWithRetry(ctx, prompt, useWebSearch)
	if err != nil {
		logAnalyzeFailure(artistName, err)
		return nil
	}

	items := parseRefinedItems(text)

	results := make([]concert.ConcertSearchResult, 0, len(items))
	for _, item := range items {
		results = append(results, item.item.toConcertSearchResult(artistName, item.raw))
	}

	if len(raw) > 0 {
		results = enforceRefinedInvariant(results, raw)
	} else {
		results = applyModeBDefaults(results)
	}

	return results
}
