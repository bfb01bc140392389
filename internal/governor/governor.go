package governor

import (
	"context"
	"errors"
	"fmt"

	"rafikibot/internal/access"
	"rafikibot/internal/cache"
	"rafikibot/internal/chathistory"
	"rafikibot/internal/language"
	"rafikibot/internal/ratelimit"
	"rafikibot/internal/sanitize"

	"github.com/sirupsen/logrus"
)

var (
	ErrRateLimited = errors.New("превышен лимит частоты сообщений")
	ErrStorage     = errors.New("хранилище недоступно")
)

const (
	replyEmpty       = "Пожалуйста, отправьте текстовое сообщение."
	replyProfanity   = "Пожалуйста, используйте уважительные выражения, чтобы я мог вам помочь."
	replyTechnical   = "Кажется, возникли технические неполадки. Попробуйте ещё раз позже."
	replyRateLimited = "Слишком много сообщений. Подождите ещё %d сек."
)

type UserStore interface {
	Upsert(ctx context.Context, userID int64, displayName, language string) error
}

type HistoryStore interface {
	Append(ctx context.Context, userID int64, role, content string) error
	Read(ctx context.Context, userID int64) ([]chathistory.Turn, error)
}

type Generator interface {
	Generate(ctx context.Context, history []chathistory.Turn, message string) (string, error)
}

type Incoming struct {
	UserID      int64
	DisplayName string
	Text        string
	Locale      string
}

type Outcome struct {
	Reply     string
	Silent    bool
	FromCache bool
}

// Governor пропускает каждое входящее сообщение через цепочку проверок
// вокруг единственного обращения к модели. Все зависимости внедряются
// при создании, ошибки не покидают обработку одного сообщения.
type Governor struct {
	access      *access.Service
	limiter     *ratelimit.Limiter
	cache       *cache.ResponseCache
	users       UserStore
	history     HistoryStore
	generator   Generator
	maxInput    int
	defaultLang string
}

func New(
	accessService *access.Service,
	limiter *ratelimit.Limiter,
	responseCache *cache.ResponseCache,
	userStore UserStore,
	historyStore HistoryStore,
	generator Generator,
	maxInput int,
	defaultLang string,
) *Governor {
	return &Governor{
		access:      accessService,
		limiter:     limiter,
		cache:       responseCache,
		users:       userStore,
		history:     historyStore,
		generator:   generator,
		maxInput:    maxInput,
		defaultLang: defaultLang,
	}
}

type state struct {
	in      Incoming
	text    string
	lang    string
	history []chathistory.Turn
	reply   string
}

// stageFunc возвращает ненулевой Outcome для завершения обработки
// (досрочного или финального) либо nil для перехода к следующему этапу.
type stageFunc func(ctx context.Context, st *state) (*Outcome, error)

func (g *Governor) stages() []stageFunc {
	return []stageFunc{
		g.checkBlocked,
		g.sanitizeInput,
		g.checkProfanity,
		g.checkRate,
		g.recordUser,
		g.loadHistory,
		g.checkCache,
		g.callModel,
		g.persistTurns,
	}
}

func (g *Governor) Handle(ctx context.Context, in Incoming) (Outcome, error) {
	st := &state{in: in}
	for _, stage := range g.stages() {
		out, err := stage(ctx, st)
		if out != nil {
			return *out, err
		}
		if err != nil {
			return Outcome{Reply: replyTechnical}, err
		}
	}
	return Outcome{Silent: true}, nil
}

func (g *Governor) checkBlocked(_ context.Context, st *state) (*Outcome, error) {
	if g.access.IsBlocked(st.in.UserID) {
		logrus.Debugf("Сообщение заблокированного пользователя %d отброшено", st.in.UserID)
		return &Outcome{Silent: true}, nil
	}
	return nil, nil
}

func (g *Governor) sanitizeInput(_ context.Context, st *state) (*Outcome, error) {
	st.text = sanitize.Clean(st.in.Text, g.maxInput)
	if st.text == "" {
		return &Outcome{Reply: replyEmpty}, nil
	}
	return nil, nil
}

func (g *Governor) checkProfanity(_ context.Context, st *state) (*Outcome, error) {
	if sanitize.HasProfanity(st.text) {
		return &Outcome{Reply: replyProfanity}, nil
	}
	return nil, nil
}

func (g *Governor) checkRate(_ context.Context, st *state) (*Outcome, error) {
	ok, wait := g.limiter.Allow(st.in.UserID)
	if !ok {
		reply := fmt.Sprintf(replyRateLimited, int(wait.Seconds()))
		return &Outcome{Reply: reply}, ErrRateLimited
	}
	return nil, nil
}

func (g *Governor) recordUser(ctx context.Context, st *state) (*Outcome, error) {
	st.lang = language.Detect(st.text, st.in.Locale, g.defaultLang)
	if err := g.users.Upsert(ctx, st.in.UserID, st.in.DisplayName, st.lang); err != nil {
		logrus.Errorf("Ошибка при сохранении пользователя %d: %v", st.in.UserID, err)
		return &Outcome{Reply: replyTechnical}, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil, nil
}

func (g *Governor) loadHistory(ctx context.Context, st *state) (*Outcome, error) {
	history, err := g.history.Read(ctx, st.in.UserID)
	if err != nil {
		logrus.Errorf("Ошибка при получении истории пользователя %d: %v", st.in.UserID, err)
		return &Outcome{Reply: replyTechnical}, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	st.history = history
	return nil, nil
}

func (g *Governor) checkCache(ctx context.Context, st *state) (*Outcome, error) {
	reply, ok := g.cache.Get(st.in.UserID, st.text)
	if !ok {
		return nil, nil
	}

	logrus.Debugf("Ответ пользователю %d взят из кеша", st.in.UserID)
	if err := g.history.Append(ctx, st.in.UserID, chathistory.RoleUser, st.text); err != nil {
		logrus.Errorf("Ошибка при сохранении реплики пользователя %d: %v", st.in.UserID, err)
	}
	return &Outcome{Reply: reply, FromCache: true}, nil
}

func (g *Governor) callModel(ctx context.Context, st *state) (*Outcome, error) {
	reply, err := g.generator.Generate(ctx, st.history, st.text)
	if err != nil {
		logrus.Errorf("Ошибка при генерации ответа для пользователя %d: %v", st.in.UserID, err)
		return &Outcome{Reply: replyTechnical}, err
	}
	st.reply = reply
	return nil, nil
}

// persistTurns сохраняет обе реплики и кеширует ответ. Реплика пользователя
// записывается только после успешной генерации, чтобы в истории не оставалось
// вопросов без ответа.
func (g *Governor) persistTurns(ctx context.Context, st *state) (*Outcome, error) {
	if err := g.history.Append(ctx, st.in.UserID, chathistory.RoleUser, st.text); err != nil {
		logrus.Errorf("Ошибка при сохранении реплики пользователя %d: %v", st.in.UserID, err)
	} else if err := g.history.Append(ctx, st.in.UserID, chathistory.RoleAssistant, st.reply); err != nil {
		logrus.Errorf("Ошибка при сохранении ответа для пользователя %d: %v", st.in.UserID, err)
	}

	g.cache.Put(st.in.UserID, st.text, st.reply)
	return &Outcome{Reply: st.reply}, nil
}
