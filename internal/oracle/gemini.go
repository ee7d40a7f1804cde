package oracle

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/jaminalder/element-hunt/internal/catalog"
)

const (
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com"
	DefaultGeminiModel   = "gemini-2.5-flash"
)

// Gemini calls the generateContent REST endpoint.
type Gemini struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewGemini creates a client. Empty model or baseURL use the defaults.
func NewGemini(apiKey, model, baseURL string, timeout time.Duration) *Gemini {
	if model == "" {
		model = DefaultGeminiModel
	}
	if baseURL == "" {
		baseURL = DefaultGeminiBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Gemini{
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
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

type hintTarget struct {
	Element      string `json:"element"`
	Symbol       string `json:"symbol"`
	Group        string `json:"group"`
	Valence      string `json:"valence"`
	AtomicNumber int    `json:"atomicNumber"`
}

func (g *Gemini) Hint(ctx context.Context, remaining []catalog.Element, hits, misses []int) (string, error) {
	targets := make([]hintTarget, len(remaining))
	for i, e := range remaining {
		targets[i] = hintTarget{Element: e.Name, Symbol: e.Symbol, Group: string(e.Category), Valence: e.Valence, AtomicNumber: e.Number}
	}
	data, err := json.MarshalIndent(targets, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal targets: %w", err)
	}
	prompt := fmt.Sprintf(`You are an eccentric chemistry teacher narrating an element hunt on the periodic table.

The player must find %d hidden chemical elements. They have already hit %d and missed %d cells.

Remaining secret targets:
%s

Pick ONE of the remaining elements and give a SHORT, MYSTERIOUS clue about it.
Do NOT say the element's name.
Do NOT give exact coordinates such as "Group 1" or "Period 2".
Use its family described in words, whether it sits high or low in the table, how its valence shell ends, its physical state or a real-world use.
Answer in at most 2 sentences.`, len(remaining), len(hits), len(misses), data)
	return g.generate(ctx, prompt)
}

func (g *Gemini) Fact(ctx context.Context, el catalog.Element) (string, error) {
	prompt := fmt.Sprintf(`Give a quick educational fact about the chemical element %s (%s).
Focus on an interesting practical use, a historical fact or a notable property.
Keep it short and direct for an educational game. At most 20 words.`, el.Name, el.Symbol)
	return g.generate(ctx, prompt)
}

func (g *Gemini) generate(ctx context.Context, prompt string) (string, error) {
	if g.apiKey == "" {
		return "", ErrUnconfigured
	}
	body, err := json.Marshal(generateRequest{Contents: []content{{Parts: []part{{Text: prompt}}}}})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}
	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.baseURL, url.PathEscape(g.model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("generateContent returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	var sb strings.Builder
	for _, c := range out.Candidates {
		for _, p := range c.Content.Parts {
			sb.WriteString(p.Text)
		}
		if sb.Len() > 0 {
			break
		}
	}
	return strings.TrimSpace(sb.String()), nil
}
