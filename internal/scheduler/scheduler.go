package scheduler

import (
	"time"

	"rafikibot/internal/cache"
	"rafikibot/internal/ratelimit"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const staleRateStateAge = time.Hour

// Scheduler периодически очищает устаревшее эфемерное состояние:
// просроченные записи кеша ответов и записи лимитера неактивных пользователей.
type Scheduler struct {
	cron    *cron.Cron
	cache   *cache.ResponseCache
	limiter *ratelimit.Limiter
}

func New(responseCache *cache.ResponseCache, limiter *ratelimit.Limiter) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithLocation(time.UTC)),
		cache:   responseCache,
		limiter: limiter,
	}
}

func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc("@every 1h", func() {
		removedCache := s.cache.Sweep()
		removedRate := s.limiter.Cleanup(staleRateStateAge)
		logrus.Infof("Очистка состояния: удалено %d записей кеша и %d записей лимитера", removedCache, removedRate)
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	logrus.Info("Планировщик очистки запущен")
	return nil
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}
