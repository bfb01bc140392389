package chatgpt

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"rafikibot/internal/chathistory"

	"github.com/sashabaranov/go-openai"
)

func newTestService(baseURL string) *Service {
	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = baseURL + "/v1"
	return &Service{
		client: openai.NewClientWithConfig(cfg),
		model:  "gpt-4.1",
	}
}

func completionServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":%q}}]}`, content)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGenerateReturnsCompletionText(t *testing.T) {
	srv := completionServer(t, "ответ модели")

	history := []chathistory.Turn{{Role: chathistory.RoleUser, Content: "привет"}}
	reply, err := newTestService(srv.URL).Generate(context.Background(), history, "как дела?")
	if err != nil {
		t.Fatalf("генерация: %v", err)
	}
	if reply != "ответ модели" {
		t.Fatalf("неверный текст ответа: %q", reply)
	}
}

func TestGenerateEmptyCompletionFails(t *testing.T) {
	srv := completionServer(t, "")

	_, err := newTestService(srv.URL).Generate(context.Background(), nil, "привет")
	if !errors.Is(err, ErrRemoteService) {
		t.Fatalf("пустой текст ответа должен считаться сбоем сервиса, получено %v", err)
	}
}

func TestGenerateNoChoicesFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"1","object":"chat.completion","choices":[]}`)
	}))
	defer srv.Close()

	_, err := newTestService(srv.URL).Generate(context.Background(), nil, "привет")
	if !errors.Is(err, ErrRemoteService) {
		t.Fatalf("отсутствие вариантов ответа должно считаться сбоем сервиса, получено %v", err)
	}
}

func TestGenerateServerErrorFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestService(srv.URL).Generate(context.Background(), nil, "привет")
	if !errors.Is(err, ErrRemoteService) {
		t.Fatalf("не-2xx статус должен считаться сбоем сервиса, получено %v", err)
	}
}
