package chathistory

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type Repository struct {
	db    *sqlx.DB
	limit int
}

func NewRepository(db *sqlx.DB, limit int) *Repository {
	return &Repository{db: db, limit: limit}
}

// Append вставляет реплику и удаляет все реплики пользователя сверх лимита.
// Вставка и обрезка выполняются в одной транзакции, чтобы лимит не нарушался
// при параллельных сообщениях одного пользователя. При равных отметках времени
// побеждает более поздняя вставка (больший id).
func (r *Repository) Append(ctx context.Context, userID int64, role, content string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ошибка при открытии транзакции: %w", err)
	}
	defer tx.Rollback()

	insertQuery := `
		INSERT INTO chat_history (user_id, role, content, created_at)
		VALUES ($1, $2, $3, NOW())
	`
	if _, err := tx.ExecContext(ctx, insertQuery, userID, role, content); err != nil {
		return fmt.Errorf("ошибка при сохранении реплики пользователя %d: %w", userID, err)
	}

	trimQuery := `
		DELETE FROM chat_history
		WHERE user_id = $1
		AND id NOT IN (
			SELECT id FROM chat_history
			WHERE user_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2
		)
	`
	if _, err := tx.ExecContext(ctx, trimQuery, userID, r.limit); err != nil {
		return fmt.Errorf("ошибка при обрезке истории пользователя %d: %w", userID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ошибка при фиксации транзакции: %w", err)
	}
	return nil
}

// Read возвращает не более limit последних реплик в хронологическом порядке.
func (r *Repository) Read(ctx context.Context, userID int64) ([]Turn, error) {
	query := `
		SELECT role, content FROM (
			SELECT id, role, content, created_at
			FROM chat_history
			WHERE user_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2
		) recent
		ORDER BY created_at ASC, id ASC
	`

	var turns []Turn
	err := r.db.SelectContext(ctx, &turns, query, userID, r.limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении истории пользователя %d: %w", userID, err)
	}
	return turns, nil
}
