package chatgpt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rafikibot/internal/chathistory"
	"rafikibot/pkg/config"

	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

// ErrRemoteService возвращается при любом сбое обращения к модели:
// сетевая ошибка, не-2xx статус или превышение таймаута.
var ErrRemoteService = errors.New("сервис генерации ответов недоступен")

const requestTimeout = 20 * time.Second

type Service struct {
	client *openai.Client
	model  string
}

func NewService(cfg *config.Config) *Service {
	client := openai.NewClient(cfg.OpenAIKey)
	return &Service{
		client: client,
		model:  cfg.OpenAIModel,
	}
}

// Generate отправляет историю диалога и новое сообщение пользователя модели
// и возвращает текст ответа. Запрос ограничен таймаутом requestTimeout.
func (s *Service) Generate(ctx context.Context, history []chathistory.Turn, message string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: "Ты дружелюбный ассистент, который помогает пользователю и отвечает на его языке. Сегодня " + time.Now().Format("2006-01-02") + ".",
	})

	for _, turn := range history {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    turn.Role,
			Content: turn.Content,
		})
	}

	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: message,
	})

	chatReq := openai.ChatCompletionRequest{
		Model:    s.model,
		Messages: messages,
	}

	resp, err := s.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		logrus.Errorf("Ошибка при запросе к OpenAI: %v", err)
		return "", fmt.Errorf("%w: %v", ErrRemoteService, err)
	}

	if len(resp.Choices) == 0 {
		logrus.Error("Пустой ответ от OpenAI")
		return "", fmt.Errorf("%w: нет вариантов ответа", ErrRemoteService)
	}

	reply := resp.Choices[0].Message.Content
	if reply == "" {
		logrus.Error("Пустой текст ответа от OpenAI")
		return "", fmt.Errorf("%w: пустой текст ответа", ErrRemoteService)
	}

	return reply, nil
}
