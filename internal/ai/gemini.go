package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// DefaultGeminiEndpoint is the public Generative Language API base URL.
const DefaultGeminiEndpoint = "https://generativelanguage.googleapis.com"

// Gemini implements [Provider] for the Gemini generateContent API. When a
// request is grounded, the google_search tool is enabled and the returned
// grounding chunks become the response sources.
type Gemini struct {
	httpClient *http.Client
	endpoint   string
	model      string
	apiKey     string
}

// NewGemini creates a Gemini provider. An empty endpoint selects
// DefaultGeminiEndpoint; a nil httpClient selects http.DefaultClient.
func NewGemini(httpClient *http.Client, endpoint, model, apiKey string) *Gemini {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if endpoint == "" {
		endpoint = DefaultGeminiEndpoint
	}
	return &Gemini{
		httpClient: httpClient,
		endpoint:   strings.TrimRight(endpoint, "/"),
		model:      model,
		apiKey:     apiKey,
	}
}

// Generate sends a generateContent request and returns the full response.
func (provider *Gemini) Generate(ctx context.Context, request Request) (*Response, error) {
	httpResponse, err := doProviderRequest(ctx, provider.httpClient, provider.url(),
		map[string]string{"x-goog-api-key": provider.apiKey},
		provider.buildRequest(request), "ai/gemini")
	if err != nil {
		return nil, err
	}
	defer httpResponse.Body.Close()

	var wire geminiResponse
	if err := json.NewDecoder(httpResponse.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("ai/gemini: decoding response: %w", err)
	}
	return wire.toResponse()
}

// url returns the generateContent URL for the configured model.
func (provider *Gemini) url() string {
	return fmt.Sprintf("%s/v1beta/models/%s:generateContent", provider.endpoint, url.PathEscape(provider.model))
}

// buildRequest converts our types to the Gemini wire format.
func (provider *Gemini) buildRequest(request Request) geminiRequest {
	wire := geminiRequest{
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: request.Prompt}},
		}},
	}
	if request.System != "" {
		wire.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: request.System}}}
	}
	if request.Grounded {
		wire.Tools = []geminiTool{{GoogleSearch: &struct{}{}}}
	}
	return wire
}

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
	Tools             []geminiTool    `json:"tools,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiTool struct {
	GoogleSearch *struct{} `json:"google_search,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content           geminiContent `json:"content"`
		FinishReason      string        `json:"finishReason"`
		GroundingMetadata *struct {
			GroundingChunks []struct {
				Web *struct {
					URI   string `json:"uri"`
					Title string `json:"title"`
				} `json:"web"`
			} `json:"groundingChunks"`
		} `json:"groundingMetadata"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

// toResponse joins the first candidate's text parts and collects unique web
// sources in citation order.
func (wire *geminiResponse) toResponse() (*Response, error) {
	if len(wire.Candidates) == 0 {
		if wire.PromptFeedback != nil && wire.PromptFeedback.BlockReason != "" {
			return nil, fmt.Errorf("ai/gemini: prompt blocked: %s", wire.PromptFeedback.BlockReason)
		}
		return nil, fmt.Errorf("ai/gemini: response has no candidates")
	}

	candidate := wire.Candidates[0]
	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		text.WriteString(part.Text)
	}

	response := &Response{Text: text.String(), Sources: []Source{}}
	if candidate.GroundingMetadata != nil {
		seen := make(map[string]bool)
		for _, chunk := range candidate.GroundingMetadata.GroundingChunks {
			if chunk.Web == nil || chunk.Web.URI == "" || seen[chunk.Web.URI] {
				continue
			}
			seen[chunk.Web.URI] = true
			response.Sources = append(response.Sources, Source{Title: chunk.Web.Title, URI: chunk.Web.URI})
		}
	}
	return response, nil
}
