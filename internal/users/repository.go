package users

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Upsert создает запись при первом сообщении пользователя или увеличивает
// счетчик сообщений. display_name записывается только при создании.
func (r *Repository) Upsert(ctx context.Context, userID int64, displayName, language string) error {
	query := `
		INSERT INTO users (user_id, display_name, message_count, language, last_message_time)
		VALUES ($1, $2, 1, $3, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET message_count = users.message_count + 1,
		    language = EXCLUDED.language,
		    last_message_time = NOW()
	`

	_, err := r.db.ExecContext(ctx, query, userID, displayName, language)
	if err != nil {
		return fmt.Errorf("ошибка при сохранении пользователя %d: %w", userID, err)
	}
	return nil
}

func (r *Repository) ListAll(ctx context.Context) ([]User, error) {
	query := `
		SELECT user_id, display_name, message_count, language, last_message_time
		FROM users
		ORDER BY last_message_time DESC
	`

	var list []User
	err := r.db.SelectContext(ctx, &list, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении списка пользователей: %w", err)
	}
	return list, nil
}
