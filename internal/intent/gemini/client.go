// Package gemini talks to the hosted generateContent endpoint, constrained to
// the fixed intent/records/reply JSON schema.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/nvillagra/prodtrack/internal/config"
	intentdomain "github.com/nvillagra/prodtrack/internal/intent/domain"
	recorddomain "github.com/nvillagra/prodtrack/internal/record/domain"
	settingsdomain "github.com/nvillagra/prodtrack/internal/settings/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const systemInstruction = `Eres Jarvis, el asistente de un técnico instalador de fibra óptica.
Clasificá cada mensaje en una intención: LOGGING (registrar trabajos hechos),
QUERY (consultar producción), CORRECTION (corregir el último registro) o
GENERAL_CHAT. Para LOGGING extraé cada trabajo como un registro con type
(RESIDENTIAL, CORPORATE, POLE o SERVICE), quantity, date (YYYY-MM-DD,
opcional), description (solo SERVICE) y amount (solo si se menciona un monto).
Para CORRECTION devolvé newQuantity. Respondé siempre con el JSON pedido y un
jarvisResponse corto y amistoso en español.`

type ClientParam struct {
	fx.In

	Config   config.Config
	Settings settingsdomain.Store
	Log      *zap.Logger
}

type Client struct {
	http     *resty.Client
	baseURL  string
	model    string
	fallback string // credential from the environment
	settings settingsdomain.Store
	log      *zap.Logger
}

func NewClient(p ClientParam) intentdomain.Extractor {
	return &Client{
		http:     resty.New().SetTimeout(30 * time.Second),
		baseURL:  strings.TrimRight(p.Config.AIBaseURL, "/"),
		model:    p.Config.AIModel,
		fallback: p.Config.AIAPIKey,
		settings: p.Settings,
		log:      p.Log.Named("intent.gemini"),
	}
}

// wire types for the generateContent request/response.

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	SystemInstruction *content         `json:"system_instruction,omitempty"`
	Contents          []content        `json:"contents"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type generationConfig struct {
	ResponseMimeType string         `json:"responseMimeType"`
	ResponseSchema   map[string]any `json:"responseSchema,omitempty"`
	Temperature      float64        `json:"temperature"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

// extractionWire is the shape the model is instructed to emit.
type extractionWire struct {
	Intent         string                     `json:"intent"`
	Records        []intentdomain.RecordDraft `json:"records,omitempty"`
	NewQuantity    int                        `json:"newQuantity,omitempty"`
	JarvisResponse string                     `json:"jarvisResponse"`
}

func responseSchema() map[string]any {
	return map[string]any{
		"type": "OBJECT",
		"properties": map[string]any{
			"intent": map[string]any{
				"type": "STRING",
				"enum": []string{"LOGGING", "QUERY", "CORRECTION", "GENERAL_CHAT"},
			},
			"records": map[string]any{
				"type": "ARRAY",
				"items": map[string]any{
					"type": "OBJECT",
					"properties": map[string]any{
						"type": map[string]any{
							"type": "STRING",
							"enum": []string{"RESIDENTIAL", "CORPORATE", "POLE", "SERVICE"},
						},
						"quantity":    map[string]any{"type": "INTEGER"},
						"date":        map[string]any{"type": "STRING"},
						"description": map[string]any{"type": "STRING"},
						"amount":      map[string]any{"type": "NUMBER"},
					},
					"required": []string{"type"},
				},
			},
			"newQuantity":    map[string]any{"type": "INTEGER"},
			"jarvisResponse": map[string]any{"type": "STRING"},
		},
		"required": []string{"intent", "jarvisResponse"},
	}
}

func (c *Client) apiKey() string {
	if key := strings.TrimSpace(c.settings.Load().APIKey); key != "" {
		return key
	}
	return c.fallback
}

// Extract sends the turn plus recent record context and validates the reply
// into a tagged Extraction.
func (c *Client) Extract(ctx context.Context, text string, recent []recorddomain.Record, history []intentdomain.Turn) (intentdomain.Extraction, error) {
	key := c.apiKey()
	if key == "" {
		return intentdomain.Extraction{}, intentdomain.ErrMissingCredential
	}

	contents := make([]content, 0, len(history)+1)
	for _, turn := range history {
		role := turn.Role
		if role != "model" {
			role = "user"
		}
		contents = append(contents, content{Role: role, Parts: []part{{Text: turn.Text}}})
	}
	contents = append(contents, content{Role: "user", Parts: []part{{Text: c.turnPayload(text, recent)}}})

	body := generateRequest{
		SystemInstruction: &content{Parts: []part{{Text: systemInstruction}}},
		Contents:          contents,
		GenerationConfig: generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   responseSchema(),
			Temperature:      0.2,
		},
	}

	var result generateResponse
	var failure apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetQueryParam("key", key).
		SetBody(body).
		SetResult(&result).
		SetError(&failure).
		Post(fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model))
	if err != nil {
		return intentdomain.Extraction{}, intentdomain.ErrUnavailable
	}
	if resp.IsError() {
		if isCredentialError(resp.StatusCode(), failure) {
			return intentdomain.Extraction{}, intentdomain.ErrInvalidCredential
		}
		c.log.Warn("extraction call failed",
			zap.Int("status", resp.StatusCode()),
			zap.String("message", failure.Error.Message),
		)
		return intentdomain.Extraction{}, intentdomain.ErrUnavailable
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return intentdomain.Extraction{}, intentdomain.ErrMalformedResponse
	}
	return parseExtraction(result.Candidates[0].Content.Parts[0].Text)
}

// Ping validates the credential with a model listing, no generation.
func (c *Client) Ping(ctx context.Context) error {
	key := c.apiKey()
	if key == "" {
		return intentdomain.ErrMissingCredential
	}
	var failure apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("key", key).
		SetQueryParam("pageSize", "1").
		SetError(&failure).
		Get(c.baseURL + "/v1beta/models")
	if err != nil {
		return intentdomain.ErrUnavailable
	}
	if resp.IsError() {
		if isCredentialError(resp.StatusCode(), failure) {
			return intentdomain.ErrInvalidCredential
		}
		return intentdomain.ErrUnavailable
	}
	return nil
}

func (c *Client) turnPayload(text string, recent []recorddomain.Record) string {
	if len(recent) == 0 {
		return text
	}
	contextJSON, err := json.Marshal(recent)
	if err != nil {
		return text
	}
	return fmt.Sprintf("%s\n\nRegistros recientes (contexto):\n%s", text, contextJSON)
}

func parseExtraction(raw string) (intentdomain.Extraction, error) {
	var wire extractionWire
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &wire); err != nil {
		return intentdomain.Extraction{}, intentdomain.ErrMalformedResponse
	}

	intent := intentdomain.Intent(wire.Intent)
	if !intent.Valid() || wire.JarvisResponse == "" {
		return intentdomain.Extraction{}, intentdomain.ErrMalformedResponse
	}

	extraction := intentdomain.Extraction{
		Intent: intent,
		Reply:  wire.JarvisResponse,
	}

	switch intent {
	case intentdomain.IntentLogging:
		if len(wire.Records) == 0 {
			return intentdomain.Extraction{}, intentdomain.ErrMalformedResponse
		}
		for _, draft := range wire.Records {
			if !draft.Type.Valid() {
				return intentdomain.Extraction{}, intentdomain.ErrMalformedResponse
			}
			if draft.Quantity < 0 {
				return intentdomain.Extraction{}, intentdomain.ErrMalformedResponse
			}
			extraction.Drafts = append(extraction.Drafts, draft)
		}
	case intentdomain.IntentCorrection:
		if wire.NewQuantity < 0 {
			return intentdomain.Extraction{}, intentdomain.ErrMalformedResponse
		}
		extraction.NewQuantity = wire.NewQuantity
	}

	return extraction, nil
}

func isCredentialError(status int, failure apiError) bool {
	if status == 401 || status == 403 {
		return true
	}
	return status == 400 && strings.Contains(strings.ToLower(failure.Error.Message), "api key")
}
