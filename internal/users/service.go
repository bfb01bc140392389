package users

import (
	"context"

	"github.com/sirupsen/logrus"
)

type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Upsert(ctx context.Context, userID int64, displayName, language string) error {
	logrus.Debugf("Сохранение пользователя %d (язык: %s)", userID, language)
	return s.repo.Upsert(ctx, userID, displayName, language)
}

func (s *Service) ListAll(ctx context.Context) ([]User, error) {
	return s.repo.ListAll(ctx)
}
