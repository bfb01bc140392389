package chathistory

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

func (s *Service) Append(ctx context.Context, userID int64, role, content string) error {
	logrus.Debugf("Сохранение реплики (%s) пользователя %d", role, userID)
	return s.repo.Append(ctx, userID, role, content)
}

func (s *Service) Read(ctx context.Context, userID int64) ([]Turn, error) {
	return s.repo.Read(ctx, userID)
}
