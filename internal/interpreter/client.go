package interpreter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/dylanrylee/3d-urban-dashboard/internal/provider"
	"golang.org/x/time/rate"
)

const (
	defaultModel    = "gemini-1.5-flash"
	defaultEndpoint = "https://generativelanguage.googleapis.com/v1beta"
)

// ParseError reports an interpreter reply that was not the JSON object the
// prompt demands. Raw carries the cleaned model output for the error payload.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse interpreter response: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Client wraps the Gemini generateContent API for turning a free-form query
// into filtering criteria.
type Client struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client

	// The free tier allows a handful of requests per second; the limiter
	// keeps a burst of query submissions from tripping 429s.
	limiter *rate.Limiter
}

// NewClient creates an interpreter client from the GEMINI_API_KEY env var.
// Returns nil, nil if the key is not set (graceful degradation — queries
// will be rejected with a clear message instead of failing at startup).
func NewClient() (*Client, error) {
	key := os.Getenv("GEMINI_API_KEY")
	if key == "" {
		return nil, nil
	}

	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = defaultModel
	}

	return &Client{
		apiKey:   key,
		model:    model,
		endpoint: defaultEndpoint,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Every(time.Second), 2),
	}, nil
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Interpret asks the model to distill query into Criteria. The prompt pins
// the output contract; the response is defensively stripped of markdown code
// fences before parsing.
func (c *Client) Interpret(ctx context.Context, query string) (Criteria, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return Criteria{}, fmt.Errorf("rate limiter: %w", err)
	}

	prompt := "Output ONLY a JSON object with keys:\n" +
		"  attribute: one of height, zoning, value, area, width, length\n" +
		"  operator: >, <, >=, <=, or ==\n" +
		"  value: a number or string\n" +
		fmt.Sprintf("For this query: %q", query)

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return Criteria{}, fmt.Errorf("encoding request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.endpoint, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Criteria{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	provider.LogRequest("gemini", http.MethodPost, c.endpoint+"/models/"+c.model, nil)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		provider.LogError("gemini", "generateContent", err)
		return Criteria{}, fmt.Errorf("interpreter request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("interpreter API returned HTTP %d", resp.StatusCode)
		provider.LogError("gemini", "generateContent", err)
		return Criteria{}, err
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return Criteria{}, fmt.Errorf("decoding interpreter response: %w", err)
	}
	provider.LogResponse("gemini", resp.StatusCode, time.Since(start), len(genResp.Candidates))

	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return Criteria{}, fmt.Errorf("interpreter returned no candidates")
	}

	raw := genResp.Candidates[0].Content.Parts[0].Text
	cleaned := stripFences(raw)

	var criteria Criteria
	if err := json.Unmarshal([]byte(cleaned), &criteria); err != nil {
		provider.LogError("gemini", "parse", err)
		return Criteria{}, &ParseError{Raw: cleaned, Err: err}
	}
	return criteria, nil
}

// stripFences removes a markdown code fence (```json ... ```) that models
// habitually wrap JSON output in despite the prompt.
func stripFences(text string) string {
	body := strings.TrimSpace(text)
	if !strings.HasPrefix(body, "```") {
		return body
	}
	body = strings.TrimLeft(body, "`")
	if rest, ok := strings.CutPrefix(body, "json"); ok {
		body = rest
	}
	body = strings.TrimSpace(body)
	body = strings.TrimSuffix(body, "```")
	return strings.TrimSpace(strings.TrimRight(body, "`"))
}
