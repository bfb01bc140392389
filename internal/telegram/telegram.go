package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"rafikibot/internal/access"
	"rafikibot/internal/governor"
	"rafikibot/internal/users"
	"rafikibot/pkg/config"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

type UserLister interface {
	ListAll(ctx context.Context) ([]users.User, error)
}

type Handler struct {
	bot      *tgbotapi.BotAPI
	governor *governor.Governor
	access   *access.Service
	users    UserLister
	cfg      *config.Config
	commands map[string]command
}

func NewHandler(
	cfg *config.Config,
	gov *governor.Governor,
	accessService *access.Service,
	userLister UserLister,
) (*Handler, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("ошибка при инициализации Telegram бота: %v", err)
	}

	logrus.Infof("Telegram бот запущен: %s", bot.Self.UserName)

	h := &Handler{
		bot:      bot,
		governor: gov,
		access:   accessService,
		users:    userLister,
		cfg:      cfg,
	}
	h.initCommands()
	return h, nil
}

func (h *Handler) SetupWebhook() error {
	webhookURL := fmt.Sprintf("https://%s:%s/webhook", h.cfg.ServerHost, h.cfg.ServerPort)

	webhookConfig, err := tgbotapi.NewWebhook(webhookURL)
	if err != nil {
		return fmt.Errorf("ошибка при создании конфига вебхука: %w", err)
	}

	if _, err := h.bot.Request(webhookConfig); err != nil {
		return fmt.Errorf("ошибка при установке вебхука: %v", err)
	}

	return nil
}

func (h *Handler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := h.bot.HandleUpdate(r)
	if err != nil {
		logrus.Errorf("Ошибка при обработке обновления: %v", err)
		return
	}

	go h.handleUpdate(*update)
}

// StartPolling запускает цикл long polling. Каждое обновление
// обрабатывается в отдельной горутине.
func (h *Handler) StartPolling() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)
	logrus.Info("Запущен режим long polling")

	for update := range updates {
		go h.handleUpdate(update)
	}
}

func (h *Handler) SendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := h.bot.Send(msg)
	if err != nil {
		return fmt.Errorf("ошибка при отправке сообщения: %v", err)
	}
	return nil
}

func (h *Handler) handleUpdate(update tgbotapi.Update) {
	ctx := context.Background()

	if update.Message == nil {
		return
	}
	msg := update.Message

	// заблокированные пользователи отбрасываются молча, команды включительно
	if h.access.IsBlocked(msg.From.ID) {
		logrus.Debugf("Сообщение заблокированного пользователя %d отброшено", msg.From.ID)
		return
	}

	if msg.IsCommand() {
		reply := h.dispatchCommand(ctx, msg)
		if reply != "" {
			if err := h.SendMessage(msg.Chat.ID, reply); err != nil {
				logrus.Errorf("Ошибка при отправке ответа на команду: %v", err)
			}
		}
		return
	}

	if msg.Text == "" {
		return
	}

	h.sendTyping(msg.Chat.ID)

	out, err := h.governor.Handle(ctx, governor.Incoming{
		UserID:      msg.From.ID,
		DisplayName: displayName(msg.From),
		Text:        msg.Text,
		Locale:      msg.From.LanguageCode,
	})
	if err != nil {
		if errors.Is(err, governor.ErrRateLimited) {
			logrus.Infof("Пользователь %d превысил лимит сообщений", msg.From.ID)
		} else {
			logrus.Errorf("Ошибка при обработке сообщения пользователя %d: %v", msg.From.ID, err)
		}
	}

	if out.Silent {
		return
	}
	if err := h.SendMessage(msg.Chat.ID, out.Reply); err != nil {
		logrus.Errorf("Ошибка при отправке ответа: %v", err)
	}
}

func (h *Handler) sendTyping(chatID int64) {
	action := tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)
	if _, err := h.bot.Request(action); err != nil {
		logrus.Debugf("Не удалось отправить индикатор набора: %v", err)
	}
}

func displayName(user *tgbotapi.User) string {
	if user.UserName != "" {
		return user.UserName
	}
	return user.FirstName
}
