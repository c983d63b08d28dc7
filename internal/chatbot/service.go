package chatbot

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/corpotravel/trip-management/internal"
	"github.com/corpotravel/trip-management/pkg/logger"

	openai "github.com/sashabaranov/go-openai"
)

const systemPrompt = `Você é o assistente do portal de viagens corporativas.
Responda perguntas sobre solicitações de viagem, aprovações, despesas, reembolsos e convites de visitantes.
Responda SEMPRE com um JSON: {"action": "show_text", "payload": "<resposta curta em português>"}
ou {"action": "navigate", "payload": "<rota>"} quando o usuário pedir para ir a uma tela.
Rotas válidas: /viagens, /viagens/nova, /despesas, /convites, /perfil.`

type ServiceAPI interface {
	Ask(ctx context.Context, dto AskDTO) (*Answer, error)
}

// CompletionAPI is the slice of the OpenAI client the service uses.
type CompletionAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type Service struct {
	client CompletionAPI
	model  string
}

func NewService(client CompletionAPI, model string) *Service {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &Service{client: client, model: model}
}

// Ask answers via the assistant, falling back to keyword navigation when
// the assistant is unavailable or answers garbage. The endpoint never
// fails on backend trouble.
func (s *Service) Ask(ctx context.Context, dto AskDTO) (*Answer, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	if s.client != nil {
		if answer := s.askAssistant(ctx, dto.Question); answer != nil {
			return answer, nil
		}
	}

	return fallbackAnswer(dto.Question), nil
}

func (s *Service) askAssistant(ctx context.Context, question string) *Answer {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: question},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		logger.From(ctx).Warn("assistant request failed", "error", err)
		return nil
	}
	if len(resp.Choices) == 0 {
		return nil
	}

	var answer Answer
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &answer); err != nil {
		logger.From(ctx).Warn("assistant returned unparseable answer", "error", err)
		return nil
	}

	switch answer.Action {
	case ActionShowText:
		if answer.Payload == "" {
			return nil
		}
		return &answer
	case ActionNavigate:
		if !IsKnownRoute(answer.Payload) {
			logger.From(ctx).Warn("assistant proposed unknown route", "route", answer.Payload)
			return nil
		}
		return &answer
	default:
		return nil
	}
}

func fallbackAnswer(question string) *Answer {
	if route := RouteFor(question); route != "" {
		return &Answer{Action: ActionNavigate, Payload: route}
	}
	return &Answer{
		Action: ActionShowText,
		Payload: fmt.Sprintf(
			"Não consegui entender a pergunta %q. Tente perguntar sobre viagens, despesas ou convites.",
			question),
	}
}
