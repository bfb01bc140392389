package access

import (
	"errors"
	"fmt"
	"sync"

	"rafikibot/internal/auth"

	"github.com/sirupsen/logrus"
)

var (
	ErrNotAdmin      = errors.New("команда доступна только администратору")
	ErrNotAuthorized = errors.New("требуется аутентификация через /auth")
	ErrWrongPassword = errors.New("неверный пароль")
)

// Service хранит блок-лист и список аутентифицированных администраторов.
// Оба набора живут только в памяти процесса и теряются при перезапуске.
type Service struct {
	mu           sync.RWMutex
	blocked      map[int64]struct{}
	sessions     map[int64]struct{}
	adminID      int64
	passwordHash string
}

func NewService(adminID int64, adminPassword string) (*Service, error) {
	hash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return nil, fmt.Errorf("ошибка хеширования пароля администратора: %w", err)
	}

	return &Service{
		blocked:      make(map[int64]struct{}),
		sessions:     make(map[int64]struct{}),
		adminID:      adminID,
		passwordHash: hash,
	}, nil
}

func (s *Service) IsBlocked(userID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.blocked[userID]
	return ok
}

func (s *Service) Block(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blocked[userID] = struct{}{}
	logrus.Infof("Пользователь %d заблокирован", userID)
}

func (s *Service) Unblock(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blocked, userID)
	logrus.Infof("Пользователь %d разблокирован", userID)
}

// Authenticate проверяет пароль администратора. Успех запоминается до
// перезапуска процесса; неудачные попытки никак не ограничиваются.
func (s *Service) Authenticate(userID int64, password string) error {
	if userID != s.adminID {
		logrus.Warnf("Попытка аутентификации от постороннего пользователя %d", userID)
		return ErrNotAdmin
	}

	if !auth.CheckPasswordHash(password, s.passwordHash) {
		logrus.Warnf("Неверный пароль администратора от пользователя %d", userID)
		return ErrWrongPassword
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = struct{}{}
	logrus.Infof("Администратор %d аутентифицирован", userID)
	return nil
}

// IsAdmin возвращает true только для настроенного администратора,
// прошедшего проверку пароля в текущем процессе.
func (s *Service) IsAdmin(userID int64) bool {
	if userID != s.adminID {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sessions[userID]
	return ok
}

func (s *Service) CheckPassword(password string) bool {
	return auth.CheckPasswordHash(password, s.passwordHash)
}

func (s *Service) AdminID() int64 {
	return s.adminID
}
