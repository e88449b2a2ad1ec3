package repository

import (
	"app/internal/domain/model"
	"context"
)

// ユーザーの保存・取得。発行系の認証処理は外部コラボレータ。
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}
