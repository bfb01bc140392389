package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"rafikibot/internal/access"
	"rafikibot/internal/auth"
	"rafikibot/internal/users"

	"github.com/sirupsen/logrus"
)

const tokenTTL = 24 * time.Hour

type UserLister interface {
	ListAll(ctx context.Context) ([]users.User, error)
}

type Handler struct {
	userService   UserLister
	accessService *access.Service
	signingKey    string
}

func NewHandler(userService UserLister, accessService *access.Service, signingKey string) *Handler {
	return &Handler{
		userService:   userService,
		accessService: accessService,
		signingKey:    signingKey,
	}
}

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// AuthLoginHandler выдает JWT по паролю администратора.
func (h *Handler) AuthLoginHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Метод не поддерживается", http.StatusMethodNotAllowed)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Некорректное тело запроса", http.StatusBadRequest)
		return
	}

	if !h.accessService.CheckPassword(req.Password) {
		logrus.Warn("Неудачная попытка входа в административный API")
		http.Error(w, "Неверный пароль", http.StatusUnauthorized)
		return
	}

	token, err := auth.GenerateJWTToken(h.accessService.AdminID(), h.signingKey, tokenTTL)
	if err != nil {
		logrus.Errorf("Ошибка при выдаче токена: %v", err)
		http.Error(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}

	writeJSON(w, loginResponse{Token: token})
}

// isAdminRequest сверяет идентификатор из JWT с настроенным администратором.
// Защищает от устаревших токенов, выданных при другой конфигурации.
func (h *Handler) isAdminRequest(r *http.Request) bool {
	adminID, ok := auth.GetAdminIDFromContext(r.Context())
	return ok && adminID == h.accessService.AdminID()
}

// ListUsersHandler возвращает всех известных пользователей бота.
func (h *Handler) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Метод не поддерживается", http.StatusMethodNotAllowed)
		return
	}

	if !h.isAdminRequest(r) {
		http.Error(w, "Доступ запрещён", http.StatusForbidden)
		return
	}

	list, err := h.userService.ListAll(r.Context())
	if err != nil {
		logrus.Errorf("Ошибка при получении списка пользователей: %v", err)
		http.Error(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}

	writeJSON(w, list)
}

type blockRequest struct {
	UserID int64 `json:"user_id"`
}

func (h *Handler) BlockUserHandler(w http.ResponseWriter, r *http.Request) {
	h.handleBlockChange(w, r, true)
}

func (h *Handler) UnblockUserHandler(w http.ResponseWriter, r *http.Request) {
	h.handleBlockChange(w, r, false)
}

func (h *Handler) handleBlockChange(w http.ResponseWriter, r *http.Request, block bool) {
	if r.Method != http.MethodPost {
		http.Error(w, "Метод не поддерживается", http.StatusMethodNotAllowed)
		return
	}

	if !h.isAdminRequest(r) {
		http.Error(w, "Доступ запрещён", http.StatusForbidden)
		return
	}

	var req blockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == 0 {
		http.Error(w, "Некорректное тело запроса: требуется user_id", http.StatusBadRequest)
		return
	}

	if block {
		h.accessService.Block(req.UserID)
	} else {
		h.accessService.Unblock(req.UserID)
	}

	writeJSON(w, map[string]bool{"ok": true})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Errorf("Ошибка при сериализации ответа: %v", err)
	}
}
