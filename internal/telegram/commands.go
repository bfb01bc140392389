package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

const (
	replyAccessDenied   = "Доступ запрещён. Команда доступна только аутентифицированному администратору."
	replyUnknownCommand = "Неизвестная команда. Отправьте /help для списка команд."
)

type commandFunc func(ctx context.Context, msg *tgbotapi.Message) string

type command struct {
	handler   commandFunc
	adminOnly bool
}

func (h *Handler) initCommands() {
	h.commands = map[string]command{
		"start":     {handler: h.handleStart},
		"help":      {handler: h.handleHelp},
		"auth":      {handler: h.handleAuth},
		"all_users": {handler: h.handleAllUsers, adminOnly: true},
		"block":     {handler: h.handleBlock, adminOnly: true},
		"unblock":   {handler: h.handleUnblock, adminOnly: true},
	}
}

func (h *Handler) dispatchCommand(ctx context.Context, msg *tgbotapi.Message) string {
	cmd, ok := h.commands[msg.Command()]
	if !ok {
		return replyUnknownCommand
	}

	if cmd.adminOnly && !h.access.IsAdmin(msg.From.ID) {
		logrus.Warnf("Пользователь %d вызвал админскую команду /%s без доступа", msg.From.ID, msg.Command())
		return replyAccessDenied
	}

	return cmd.handler(ctx, msg)
}

func (h *Handler) handleStart(_ context.Context, _ *tgbotapi.Message) string {
	return "Привет! / Hello!\nЯ ассистент на основе языковой модели. Напишите мне сообщение, и я отвечу.\nСписок команд: /help"
}

func (h *Handler) handleHelp(_ context.Context, _ *tgbotapi.Message) string {
	return strings.Join([]string{
		"/start — приветствие",
		"/help — список команд",
		"/auth <пароль> — аутентификация администратора",
		"/all_users — список пользователей (админ)",
		"/block <id> — заблокировать пользователя (админ)",
		"/unblock <id> — разблокировать пользователя (админ)",
	}, "\n")
}

func (h *Handler) handleAuth(_ context.Context, msg *tgbotapi.Message) string {
	args := strings.Fields(msg.CommandArguments())
	if len(args) != 1 {
		return "Использование: /auth <пароль>"
	}

	if err := h.access.Authenticate(msg.From.ID, args[0]); err != nil {
		return replyAccessDenied
	}
	return "Аутентификация успешна."
}

func (h *Handler) handleAllUsers(ctx context.Context, _ *tgbotapi.Message) string {
	list, err := h.users.ListAll(ctx)
	if err != nil {
		logrus.Errorf("Ошибка при получении списка пользователей: %v", err)
		return "Не удалось получить список пользователей."
	}

	if len(list) == 0 {
		return "Пользователей пока нет."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Пользователи (%d):\n", len(list))
	for _, u := range list {
		fmt.Fprintf(&b, "%d — %s: %d сообщений, язык %s, активность %s\n",
			u.UserID, u.DisplayName, u.MessageCount, u.Language,
			u.LastMessageTime.Format("2006-01-02 15:04"))
	}
	return b.String()
}

func (h *Handler) handleBlock(_ context.Context, msg *tgbotapi.Message) string {
	userID, errReply := parseUserIDArg(msg.CommandArguments())
	if errReply != "" {
		return errReply
	}

	h.access.Block(userID)
	return fmt.Sprintf("Пользователь %d заблокирован.", userID)
}

func (h *Handler) handleUnblock(_ context.Context, msg *tgbotapi.Message) string {
	userID, errReply := parseUserIDArg(msg.CommandArguments())
	if errReply != "" {
		return errReply
	}

	h.access.Unblock(userID)
	return fmt.Sprintf("Пользователь %d разблокирован.", userID)
}

func parseUserIDArg(raw string) (int64, string) {
	args := strings.Fields(raw)
	if len(args) != 1 {
		return 0, "Укажите ровно один идентификатор пользователя."
	}

	userID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Sprintf("Некорректный идентификатор пользователя: %s", args[0])
	}
	return userID, ""
}
