package llm

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	applog "github.com/hallyusync/concert-sync/internal/applog"
	"google.golang.org/genai"
)

const (
	rateLimitMaxRetries  = 3
	defaultRateLimitWait = 25 * time.Second
	rateLimitWaitPadding = 5 * time.Second
)

var retryHintPattern = regexp.MustCompile(`(?i)retry\D*(\d+)`)

// generateWithRetry calls the model, retrying up to rateLimitMaxRetries
// times when the error string contains "429" (spec §4.4's rate-limit
// retry). The wait duration is a parsed retry-hint plus 5s, or 25s by
// default. Any other error propagates immediately.
func (a *Analyzer) generateWithRetry(ctx context.Context, prompt string, useWebSearch bool) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= rateLimitMaxRetries; attempt++ {
		text, err := a.generate(ctx, prompt, useWebSearch)
		if err == nil {
			return text, nil
		}

		if !strings.Contains(err.Error(), "429") {
			return "", err
		}

		lastErr = err
		if attempt == rateLimitMaxRetries {
			break
		}

		wait := rateLimitWait(err.Error())
		applog.WithComponentAndFields(component, applog.Fields{
			"attempt": attempt + 1,
			"wait":    wait.String(),
		}).Warn("LLM 호출 한도 초과(429) — 대기 후 재시도합니다")

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	}

	return "", lastErr
}

// rateLimitWait parses an integer following the substring "retry"
// (case-insensitive) in errMsg and adds 5s; if none is found, it returns
// the 25s default.
func rateLimitWait(errMsg string) time.Duration {
	m := retryHintPattern.FindStringSubmatch(errMsg)
	if m == nil {
		return defaultRateLimitWait
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return defaultRateLimitWait
	}
	return time.Duration(n)*time.Second + rateLimitWaitPadding
}

func (a *Analyzer) generate(ctx context.Context, prompt string, useWebSearch bool) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(float32(0.2)),
		ResponseMIMEType: "application/json",
		ResponseSchema:   refinedArraySchema,
	}
	if useWebSearch {
		cfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}

	resp, err := a.client.Models.GenerateContent(ctx, a.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", nil
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}

func logAnalyzeFailure(artistName string, err error) {
	applog.WithComponentAndFields(component, applog.Fields{
		"artist_name": artistName,
		"error":       err.Error(),
	}).Error("LLM 분석 실패 — 빈 결과로 대체합니다")
}
