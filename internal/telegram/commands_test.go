package telegram

import (
	"context"
	"strings"
	"testing"
	"time"

	"rafikibot/internal/access"
	"rafikibot/internal/users"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	adminID  = int64(100)
	password = "s3cret"
)

type fakeUserLister struct {
	list []users.User
	err  error
}

func (f *fakeUserLister) ListAll(_ context.Context) ([]users.User, error) {
	return f.list, f.err
}

func newTestHandler(t *testing.T) *Handler {
	t.Helper()

	accessService, err := access.NewService(adminID, password)
	if err != nil {
		t.Fatalf("инициализация access: %v", err)
	}

	h := &Handler{
		access: accessService,
		users: &fakeUserLister{list: []users.User{
			{UserID: 1, DisplayName: "alice", MessageCount: 3, Language: "eng", LastMessageTime: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)},
		}},
	}
	h.initCommands()
	return h
}

func commandMessage(userID int64, text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		From: &tgbotapi.User{ID: userID},
		Chat: &tgbotapi.Chat{ID: userID},
		Text: text,
		Entities: []tgbotapi.MessageEntity{
			{Type: "bot_command", Offset: 0, Length: len(strings.Fields(text)[0])},
		},
	}
}

func TestUnknownCommand(t *testing.T) {
	h := newTestHandler(t)

	reply := h.dispatchCommand(context.Background(), commandMessage(1, "/unknown"))
	if reply != replyUnknownCommand {
		t.Fatalf("ожидался ответ о неизвестной команде, получено %q", reply)
	}
}

func TestAllUsersRejectedForNonAdmin(t *testing.T) {
	h := newTestHandler(t)

	reply := h.dispatchCommand(context.Background(), commandMessage(999, "/all_users"))
	if reply != replyAccessDenied {
		t.Fatalf("посторонний пользователь должен получать отказ, получено %q", reply)
	}
}

func TestAllUsersRejectedForAdminWithoutAuth(t *testing.T) {
	h := newTestHandler(t)

	reply := h.dispatchCommand(context.Background(), commandMessage(adminID, "/all_users"))
	if reply != replyAccessDenied {
		t.Fatalf("администратор без /auth должен получать отказ, получено %q", reply)
	}
}

func TestAuthWrongPasswordThenStillRejected(t *testing.T) {
	h := newTestHandler(t)

	reply := h.dispatchCommand(context.Background(), commandMessage(adminID, "/auth wrongpass"))
	if reply != replyAccessDenied {
		t.Fatalf("неверный пароль должен отклоняться, получено %q", reply)
	}

	reply = h.dispatchCommand(context.Background(), commandMessage(adminID, "/all_users"))
	if reply != replyAccessDenied {
		t.Fatalf("после неверного пароля доступ должен оставаться закрытым, получено %q", reply)
	}
}

func TestAuthThenAllUsers(t *testing.T) {
	h := newTestHandler(t)

	reply := h.dispatchCommand(context.Background(), commandMessage(adminID, "/auth "+password))
	if reply != "Аутентификация успешна." {
		t.Fatalf("аутентификация не прошла: %q", reply)
	}

	reply = h.dispatchCommand(context.Background(), commandMessage(adminID, "/all_users"))
	if !strings.Contains(reply, "alice") {
		t.Fatalf("список пользователей не возвращен: %q", reply)
	}
}

func TestAuthRequiresExactlyOneArgument(t *testing.T) {
	h := newTestHandler(t)

	reply := h.dispatchCommand(context.Background(), commandMessage(adminID, "/auth"))
	if reply != "Использование: /auth <пароль>" {
		t.Fatalf("ожидалась подсказка по использованию, получено %q", reply)
	}
}

func TestBlockValidatesArgument(t *testing.T) {
	h := newTestHandler(t)
	if err := h.access.Authenticate(adminID, password); err != nil {
		t.Fatalf("аутентификация: %v", err)
	}

	reply := h.dispatchCommand(context.Background(), commandMessage(adminID, "/block abc"))
	if !strings.Contains(reply, "Некорректный идентификатор") {
		t.Fatalf("нечисловой аргумент должен отклоняться, получено %q", reply)
	}

	reply = h.dispatchCommand(context.Background(), commandMessage(adminID, "/block"))
	if !strings.Contains(reply, "ровно один") {
		t.Fatalf("отсутствие аргумента должно отклоняться, получено %q", reply)
	}
}

func TestBlockThenUnblock(t *testing.T) {
	h := newTestHandler(t)
	if err := h.access.Authenticate(adminID, password); err != nil {
		t.Fatalf("аутентификация: %v", err)
	}

	h.dispatchCommand(context.Background(), commandMessage(adminID, "/block 555"))
	if !h.access.IsBlocked(555) {
		t.Fatalf("пользователь 555 должен быть заблокирован")
	}

	h.dispatchCommand(context.Background(), commandMessage(adminID, "/unblock 555"))
	if h.access.IsBlocked(555) {
		t.Fatalf("пользователь 555 должен быть разблокирован")
	}
}
