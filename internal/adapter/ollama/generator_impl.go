package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/user/phish-dataset/internal/entity"
	"github.com/user/phish-dataset/pkg/metrics"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const systemPrompt = `You generate typo-squatted and lexically similar variations of given URLs. For each input URL,
generate exactly two realistic and creative variations using one or more of the following techniques in combination
to make them convincing:

- Typos & Misspellings: Introduce common typing mistakes such as letter swaps, omissions, or duplications.
- Subdomains & Prefixes: Add misleading subdomains or prefixes that mimic real ones.
- Path & Directory Tricks: Slightly alter the URL path while keeping it believable.
- Homograph Attacks: Use visually similar characters (e.g., replace 'o' with '0' or 'l' with '1').
- Parameter Manipulation: Modify query parameters to create deceptive variations.
- TLD & Domain Substitutions: Change top-level domains like '.com' to '.net' or introduce subtle domain misspellings.
- Reordering Components: Rearrange parts of the URL to appear legitimate but altered.

Combine multiple techniques in each variation to make them more deceptive and realistic. Avoid minor single-letter changes unless part of a larger modification.

Output Format:
original: <original_url>
variation1: <synthetic_variation_1>
variation2: <synthetic_variation_2>

If no valid variations can be generated:
original: <original_url>
skipped: No valid variations generated.

Only return the structured output without additional text or explanations.`

type Options struct {
	BaseURL     string
	Model       string
	Temperature float64
	Timeout     time.Duration
	// Rate caps chat requests per second; zero means unlimited.
	Rate float64
}

// Generator implements repository.VariantGenerator against an ollama server.
type Generator struct {
	opts       Options
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

func NewGenerator(opts Options, logger *zap.Logger) *Generator {
	limit := rate.Inf
	if opts.Rate > 0 {
		limit = rate.Limit(opts.Rate)
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	return &Generator{
		opts:       opts,
		httpClient: &http.Client{Timeout: opts.Timeout},
		limiter:    rate.NewLimiter(limit, 1),
		logger:     logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string         `json:"model"`
	Messages []chatMessage  `json:"messages"`
	Stream   bool           `json:"stream"`
	Options  map[string]any `json:"options,omitempty"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
	Error   string      `json:"error,omitempty"`
}

// Generate sends one chat request for the whole batch and returns the parsed
// variants along with the trimmed model text.
func (g *Generator) Generate(ctx context.Context, urls []string) ([]entity.URLVariant, string, error) {
	if len(urls) == 0 {
		return nil, "", nil
	}
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, "", err
	}

	payload, err := json.Marshal(chatRequest{
		Model: g.opts.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: "Input URLs:\n" + strings.Join(urls, "\n")},
		},
		Options: map[string]any{"temperature": g.opts.Temperature},
	})
	if err != nil {
		return nil, "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.opts.BaseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := g.httpClient.Do(req)
	if err != nil {
		metrics.LookupsTotal.WithLabelValues("llm", "failure").Inc()
		return nil, "", fmt.Errorf("ollama chat: %w", err)
	}
	defer resp.Body.Close()

	var body chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		metrics.LookupsTotal.WithLabelValues("llm", "failure").Inc()
		return nil, "", fmt.Errorf("decode ollama response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		metrics.LookupsTotal.WithLabelValues("llm", "failure").Inc()
		return nil, "", fmt.Errorf("ollama chat: status %d: %s", resp.StatusCode, body.Error)
	}
	metrics.LookupsTotal.WithLabelValues("llm", "success").Inc()

	text := strings.TrimSpace(body.Message.Content)
	variants := ParseVariants(text)
	for _, v := range variants {
		metrics.VariantsGenerated.Add(float64(len(v.Variations)))
	}

	g.logger.Debug("Generated URL variants",
		zap.Int("urls", len(urls)),
		zap.Int("variants", len(variants)),
		zap.Duration("duration", time.Since(start)),
	)
	return variants, text, nil
}

// ParseVariants reads the "original:", "variationN:" and "skipped:" lines of a
// model response. Lines outside that format are ignored.
func ParseVariants(text string) []entity.URLVariant {
	var variants []entity.URLVariant
	current := -1

	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		key, value, ok := strings.Cut(strings.TrimSpace(scanner.Text()), ":")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.Trim(strings.TrimSpace(key), "-* "))
		value = strings.TrimSpace(value)

		switch {
		case key == "original":
			variants = append(variants, entity.URLVariant{Original: value})
			current = len(variants) - 1
		case current < 0:
			continue
		case strings.HasPrefix(key, "variation"):
			if value != "" {
				variants[current].Variations = append(variants[current].Variations, value)
			}
		case key == "skipped":
			variants[current].Skipped = true
			variants[current].Reason = value
		}
	}
	return variants
}
