package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const extractionPrompt = `Leia o recibo na imagem e devolva um JSON com os campos:
{"tipo": "transporte|hospedagem|alimentacao|outros", "valor_centavos": <int>, "data": "YYYY-MM-DD", "descricao": "<string curta>", "estabelecimento": "<string>"}
Use null nos campos que não conseguir ler. Responda somente o JSON.`

// ExtractorAPI reads a receipt image into structured expense fields.
type ExtractorAPI interface {
	Extract(ctx context.Context, receiptURL string) (*ExtractedReceipt, error)
}

// OpenAIExtractor implements ExtractorAPI over the chat completions API
// with image input.
type OpenAIExtractor struct {
	client *openai.Client
	model  string
}

func NewOpenAIExtractor(apiKey, model string) *OpenAIExtractor {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIExtractor{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

type rawExtraction struct {
	Type          *string `json:"tipo"`
	AmountCents   *int64  `json:"valor_centavos"`
	Date          *string `json:"data"`
	Description   *string `json:"descricao"`
	Establishment *string `json:"estabelecimento"`
}

func (e *OpenAIExtractor) Extract(ctx context.Context, receiptURL string) (*ExtractedReceipt, error) {
	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: extractionPrompt},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: receiptURL},
					},
				},
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("receipt extraction request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("receipt extraction: empty response")
	}

	return parseExtraction(resp.Choices[0].Message.Content)
}

func parseExtraction(content string) (*ExtractedReceipt, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var raw rawExtraction
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &raw); err != nil {
		return nil, fmt.Errorf("receipt extraction: unparseable response: %w", err)
	}

	out := &ExtractedReceipt{}
	if raw.Type != nil {
		out.Type = *raw.Type
	}
	if raw.AmountCents != nil {
		out.AmountCents = *raw.AmountCents
	}
	if raw.Date != nil {
		if d, err := time.Parse("2006-01-02", *raw.Date); err == nil {
			out.Date = &d
		}
	}
	if raw.Description != nil {
		out.Description = *raw.Description
	}
	if raw.Establishment != nil {
		out.Merchant = *raw.Establishment
	}
	return out, nil
}
