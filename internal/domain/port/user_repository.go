package port

import (
	"context"

	"annadata/internal/domain/entity"
)

// UserRepository хранит состояние диалога собеседников Telegram-бота.
// Пользователь заводится при первом обращении, отдельной регистрации нет.
type UserRepository interface {
	Get(ctx context.Context, userID, chatID int64) (*entity.User, error)
	Save(ctx context.Context, user *entity.User) error

	// UpdateState меняет только состояние; неизвестный пользователь игнорируется
	UpdateState(ctx context.Context, userID int64, state entity.UserState) error
}
