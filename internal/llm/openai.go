package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sharonv/disclosq/internal/catalog"
	"github.com/sharonv/disclosq/internal/model"
)

// Client implements Provider on top of the OpenAI-compatible chat API.
// Calls are rate limited and guarded by a circuit breaker so a degraded
// backend cannot stall batch runs.
type Client struct {
	client  *openai.Client
	config  Config
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger

	// Today overrides the reference date used in prompts. Zero means now.
	Today time.Time
}

// NewClient creates a Client from config.
func NewClient(config Config, logger *zap.Logger) (*Client, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	rps := config.RequestsPerSecond
	if rps <= 0 {
		rps = DefaultConfig().RequestsPerSecond
	}
	burst := config.Burst
	if burst <= 0 {
		burst = DefaultConfig().Burst
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "llm",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &Client{
		client:  openai.NewClientWithConfig(clientConfig),
		config:  config,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		breaker: breaker,
		logger:  logger,
	}, nil
}

func (c *Client) today() time.Time {
	if c.Today.IsZero() {
		return time.Now().UTC()
	}
	return c.Today
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	timeout := time.Duration(c.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	maxTokens := c.config.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1024
	}

	out, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.client.CreateChatCompletion(ctxWithTimeout, openai.ChatCompletionRequest{
			Model: c.config.Model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: "You extract structured filters from Hebrew disclosure-search queries and respond only with JSON.",
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			MaxTokens:   maxTokens,
			Temperature: 0.1,
		})
		if err != nil {
			return nil, err
		}
		if len(resp.Choices) == 0 {
			return nil, fmt.Errorf("no choices in response")
		}
		return strings.TrimSpace(resp.Choices[0].Message.Content), nil
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	return out.(string), nil
}

// ParseQuery extracts filters from a single query.
func (c *Client) ParseQuery(ctx context.Context, text string, companies, reports catalog.Catalog) (*Result, error) {
	requestID := uuid.NewString()
	prompt := BuildPrompt(text, companies, reports, c.today())

	c.logger.Debug("llm parse request",
		zap.String("request_id", requestID),
		zap.String("model", c.config.Model),
		zap.Int("query_len", len(text)))

	content, err := c.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	obj, err := extractObject(content)
	if err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	res := c.resultFromObject(obj, companies, reports)
	res.Raw = content
	res.Notes = append(res.Notes,
		fmt.Sprintf("Parsed with LLM (%s, request %s)", c.config.Model, requestID))
	return res, nil
}

// ParseQueryBatch extracts filters from several queries in one call. Items
// the model skipped fall back to individual calls; a failed batch call
// degrades to per-item calls. The returned slice is aligned with texts,
// with nil for items that failed entirely.
func (c *Client) ParseQueryBatch(ctx context.Context, texts []string, companies, reports catalog.Catalog) ([]*Result, error) {
	results := make([]*Result, len(texts))
	if len(texts) == 0 {
		return results, nil
	}

	requestID := uuid.NewString()
	prompt := BuildBatchPrompt(texts, companies, reports, c.today())

	c.logger.Debug("llm batch request",
		zap.String("request_id", requestID),
		zap.String("model", c.config.Model),
		zap.Int("queries", len(texts)))

	content, err := c.complete(ctx, prompt)
	if err != nil {
		c.logger.Warn("llm batch call failed, falling back to single calls",
			zap.String("request_id", requestID), zap.Error(err))
		return c.parseIndividually(ctx, texts, companies, reports, results)
	}

	items, err := extractArray(content)
	if err != nil {
		c.logger.Warn("llm batch response unparsable, falling back to single calls",
			zap.String("request_id", requestID), zap.Error(err))
		return c.parseIndividually(ctx, texts, companies, reports, results)
	}

	for _, item := range items {
		idx, ok := intField(item, "INDEX", "index")
		if !ok || idx < 0 || idx >= len(texts) {
			continue
		}
		res := c.resultFromObject(item, companies, reports)
		res.Raw = content
		res.Notes = append(res.Notes,
			fmt.Sprintf("Parsed with LLM (%s, request %s)", c.config.Model, requestID))
		results[idx] = res
	}

	// Fill gaps the model left with individual calls.
	return c.parseIndividually(ctx, texts, companies, reports, results)
}

func (c *Client) parseIndividually(ctx context.Context, texts []string, companies, reports catalog.Catalog, results []*Result) ([]*Result, error) {
	for i := range texts {
		if results[i] != nil {
			continue
		}
		res, err := c.ParseQuery(ctx, texts[i], companies, reports)
		if err != nil {
			c.logger.Warn("llm single-item fallback failed",
				zap.Int("index", i), zap.Error(err))
			continue
		}
		results[i] = res
	}
	return results, nil
}

var (
	jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)
	jsonArrayRe  = regexp.MustCompile(`(?s)\[.*\]`)
)

func extractObject(content string) (map[string]any, error) {
	frag := jsonObjectRe.FindString(content)
	if frag == "" {
		return nil, fmt.Errorf("no JSON object in response")
	}
	obj := map[string]any{}
	if err := json.Unmarshal([]byte(frag), &obj); err != nil {
		return nil, fmt.Errorf("unmarshal object: %w", err)
	}
	return obj, nil
}

func extractArray(content string) ([]map[string]any, error) {
	frag := jsonArrayRe.FindString(content)
	if frag == "" {
		return nil, fmt.Errorf("no JSON array in response")
	}
	var items []map[string]any
	if err := json.Unmarshal([]byte(frag), &items); err != nil {
		return nil, fmt.Errorf("unmarshal array: %w", err)
	}
	return items, nil
}

// normalizeKey folds key variants like "START Date", "start_date" and
// "START_DATE" together.
func normalizeKey(k string) string {
	k = strings.ToLower(k)
	k = strings.ReplaceAll(k, " ", "")
	k = strings.ReplaceAll(k, "_", "")
	return k
}

func getField(obj map[string]any, keys ...string) (any, bool) {
	folded := map[string]any{}
	for k, v := range obj {
		folded[normalizeKey(k)] = v
	}
	for _, k := range keys {
		if v, ok := folded[normalizeKey(k)]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func stringListField(obj map[string]any, keys ...string) []string {
	v, ok := getField(obj, keys...)
	if !ok {
		return nil
	}
	switch t := v.(type) {
	case []any:
		var out []string
		for _, item := range t {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if strings.TrimSpace(t) == "" {
			return nil
		}
		return []string{t}
	}
	return nil
}

func intField(obj map[string]any, keys ...string) (int, bool) {
	v, ok := getField(obj, keys...)
	if !ok {
		return 0, false
	}
	switch t := v.(type) {
	case float64:
		return int(t), true
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return n, true
		}
	}
	return 0, false
}

func dateField(obj map[string]any, keys ...string) (time.Time, bool) {
	v, ok := getField(obj, keys...)
	if !ok {
		return time.Time{}, false
	}
	s, ok := v.(string)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(model.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func (c *Client) resultFromObject(obj map[string]any, companies, reports catalog.Catalog) *Result {
	res := &Result{TimeFrame: model.NoTimeFrame()}

	companyEntries := catalog.Flatten(companies)
	reportEntries := catalog.Flatten(reports)

	res.Companies = CanonizeMulti(stringListField(obj, "COMPANIES", "companies"), companyEntries)
	res.ReportTypes = CanonizeMulti(
		stringListField(obj, "REPORT_TYPES", "report types", "CATEGORIES", "categories"), reportEntries)

	if q, ok := intField(obj, "QUANTITY", "quantity"); ok && q > 0 {
		res.Quantity = &q
	}

	tfText := ""
	if v, ok := getField(obj, "TIMEFRAME", "TIME_FRAME", "timeframe"); ok {
		if s, ok := v.(string); ok {
			tfText = strings.TrimSpace(s)
		}
	}

	start, okStart := dateField(obj, "START_DATE", "START Date", "Start Date", "start_date")
	end, okEnd := dateField(obj, "END_DATE", "END Date", "End Date", "end_date")
	switch {
	case okStart && okEnd && !end.Before(start):
		res.TimeFrame = model.Absolute(start, end, tfText)
		res.Notes = append(res.Notes, "tf:from_llm_absolute")
	case tfText != "":
		// No usable dates, but the model quoted a time phrase. Carry it
		// so the reconciliation re-parse can extract it heuristically.
		res.TimeFrame.Raw = tfText
		res.Notes = append(res.Notes, "tf:from_llm_text")
	}

	return res
}
