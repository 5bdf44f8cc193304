package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"fittingroom/internal/fitting"
	"fittingroom/internal/imagefile"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-2.5-flash-image"
)

var ErrMissingAPIKey = errors.New("genai: API key is missing")

// Options controls how the Gemini client is configured.
type Options struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
	Timeout    time.Duration
	Logger     zerolog.Logger
}

// Client turns three fitting inputs into one generateContent call.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     zerolog.Logger
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts,omitempty"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"`
}

type geminiGenerationConfig struct {
	ResponseModalities []string `json:"responseModalities,omitempty"`
}

type geminiGenerateContentRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason,omitempty"`
}

type geminiPromptFeedback struct {
	BlockReason string `json:"blockReason,omitempty"`
}

type geminiGenerateContentResponse struct {
	Candidates     []geminiCandidate     `json:"candidates"`
	PromptFeedback *geminiPromptFeedback `json:"promptFeedback,omitempty"`
}

type geminiErrorResponse struct {
	Error struct {
		Code    int    `json:"code,omitempty"`
		Message string `json:"message,omitempty"`
		Status  string `json:"status,omitempty"`
	} `json:"error"`
}

// NewClient constructs a Gemini client. A nil HTTP client is replaced by one
// using opts.Timeout, or 120s when unset.
func NewClient(opts Options) *Client {
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 120 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = DefaultModel
	}

	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		model:      model,
		httpClient: client,
		logger:     opts.Logger.With().Str("component", "genai").Str("model", model).Logger(),
	}
}

// Model returns the configured Gemini model identifier.
func (c *Client) Model() string {
	return c.model
}

// Generate asks Gemini to dress the person in model with top and bottom and
// returns the first image in the reply as a data URL.
func (c *Client) Generate(ctx context.Context, model, top, bottom imagefile.ImageFile) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}
	inputs := []imagefile.ImageFile{model, top, bottom}
	if lo.ContainsBy(inputs, func(f imagefile.ImageFile) bool { return f.IsZero() }) {
		return "", fitting.ErrIncomplete
	}

	parts := []geminiPart{{Text: BuildFittingPrompt()}}
	for _, img := range inputs {
		parts = append(parts, geminiPart{InlineData: &geminiInlineData{
			MimeType: img.MIMEType(),
			Data:     img.Base64(),
		}})
	}
	payload := geminiGenerateContentRequest{
		Contents:         []geminiContent{{Role: "user", Parts: parts}},
		GenerationConfig: &geminiGenerationConfig{ResponseModalities: []string{"IMAGE", "TEXT"}},
	}

	start := time.Now()
	var response geminiGenerateContentResponse
	if err := c.invokeGemini(ctx, fmt.Sprintf("/models/%s:generateContent", url.PathEscape(c.model)), payload, &response); err != nil {
		return "", err
	}

	ref, err := extractImage(response)
	if err != nil {
		return "", err
	}
	c.logger.Debug().Dur("elapsed", time.Since(start)).Int("bytes", len(ref)).Msg("genai: fitting image generated")
	return ref, nil
}

func extractImage(response geminiGenerateContentResponse) (string, error) {
	var texts []string
	var finish string
	for _, candidate := range response.Candidates {
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && part.InlineData.Data != "" {
				mime := part.InlineData.MimeType
				if mime == "" {
					mime = imagefile.TypePNG
				}
				img, err := imagefile.FromBase64(part.InlineData.Data, mime)
				if err != nil {
					return "", fmt.Errorf("genai: decode inline image: %w", err)
				}
				return img.DataURL(), nil
			}
			if text := strings.TrimSpace(part.Text); text != "" {
				texts = append(texts, text)
			}
		}
		if finish == "" && candidate.FinishReason != "" && candidate.FinishReason != "STOP" {
			finish = candidate.FinishReason
		}
	}

	switch {
	case len(texts) > 0:
		return "", fmt.Errorf("genai: no image returned: %s", strings.Join(texts, " "))
	case response.PromptFeedback != nil && response.PromptFeedback.BlockReason != "":
		return "", fmt.Errorf("genai: request blocked: %s", response.PromptFeedback.BlockReason)
	case finish != "":
		return "", fmt.Errorf("genai: no image returned (finish reason %s)", finish)
	default:
		return "", errors.New("genai: no image returned")
	}
}

func (c *Client) invokeGemini(ctx context.Context, path string, payload any, out any) error {
	endpoint := c.baseURL + path
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	q := req.URL.Query()
	q.Set("key", c.apiKey)
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("invoke gemini: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(resp.Body)
		var apiErr geminiErrorResponse
		if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("gemini status %d: %s", resp.StatusCode, apiErr.Error.Message)
		}
		if len(data) > 0 {
			return fmt.Errorf("gemini status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
		}
		return fmt.Errorf("gemini status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode gemini response: %w", err)
	}
	return nil
}

var _ fitting.Generator = (*Client)(nil)
