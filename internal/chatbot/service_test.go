package chatbot_test

import (
	"context"
	"errors"

	"github.com/corpotravel/trip-management/internal/chatbot"

	openai "github.com/sashabaranov/go-openai"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type stubCompletion struct {
	content string
	err     error
}

func (s *stubCompletion) CreateChatCompletion(_ context.Context, _ openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	if s.err != nil {
		return openai.ChatCompletionResponse{}, s.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: s.content}},
		},
	}, nil
}

var _ = Describe("Chatbot Service", func() {
	ctx := context.Background()

	It("passes through a text answer from the assistant", func() {
		svc := chatbot.NewService(&stubCompletion{
			content: `{"action": "show_text", "payload": "Despesas reprovadas podem ser corrigidas e reenviadas."}`,
		}, "")

		answer, err := svc.Ask(ctx, chatbot.AskDTO{Question: "O que faço com uma despesa reprovada?"})
		Expect(err).NotTo(HaveOccurred())
		Expect(answer.Action).To(Equal(chatbot.ActionShowText))
		Expect(answer.Payload).To(ContainSubstring("reenviadas"))
	})

	It("accepts navigate answers only for known routes", func() {
		svc := chatbot.NewService(&stubCompletion{
			content: `{"action": "navigate", "payload": "/admin/secret"}`,
		}, "")

		answer, err := svc.Ask(ctx, chatbot.AskDTO{Question: "quero criar uma nova viagem"})
		Expect(err).NotTo(HaveOccurred())
		// hallucinated route discarded, keyword fallback takes over
		Expect(answer.Action).To(Equal(chatbot.ActionNavigate))
		Expect(answer.Payload).To(Equal("/viagens/nova"))
	})

	It("falls back to keyword navigation when the assistant is down", func() {
		svc := chatbot.NewService(&stubCompletion{err: errors.New("timeout")}, "")

		answer, err := svc.Ask(ctx, chatbot.AskDTO{Question: "como registro uma despesa?"})
		Expect(err).NotTo(HaveOccurred())
		Expect(answer.Action).To(Equal(chatbot.ActionNavigate))
		Expect(answer.Payload).To(Equal("/despesas"))
	})

	It("answers with a text apology when nothing matches", func() {
		svc := chatbot.NewService(nil, "")

		answer, err := svc.Ask(ctx, chatbot.AskDTO{Question: "qual a previsão do tempo?"})
		Expect(err).NotTo(HaveOccurred())
		Expect(answer.Action).To(Equal(chatbot.ActionShowText))
	})

	It("rejects an empty question", func() {
		svc := chatbot.NewService(nil, "")
		_, err := svc.Ask(ctx, chatbot.AskDTO{})
		Expect(err).To(HaveOccurred())
	})
})
