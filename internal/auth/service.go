// Package auth はログイン認証とセッショントークン発行を提供する。
package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sergkim13/users-API/internal/model"
	"github.com/sergkim13/users-API/internal/repository"
	"github.com/sergkim13/users-API/internal/security"
	"github.com/sergkim13/users-API/internal/token"
)

// TokenEncoder はトークン発行に必要なインターフェース。
// token.Codecの部分集合として定義する。
type TokenEncoder interface {
	Encode(payload token.Payload) (string, error)
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	userRepo repository.UserRepository
	hasher   security.Hasher
	encoder  TokenEncoder
}

// NewService はServiceを生成する。
func NewService(userRepo repository.UserRepository, hasher security.Hasher, encoder TokenEncoder) *Service {
	return &Service{
		userRepo: userRepo,
		hasher:   hasher,
		encoder:  encoder,
	}
}

// Login は資格情報を検証し、ユーザーと署名済みセッショントークンを返す。
// 未登録のログインIDとパスワード不一致はどちらも同じエラーになる。
func (s *Service) Login(ctx context.Context, login, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, login)
	if err != nil {
		return nil, "", fmt.Errorf("failed to find user by login: %w", err)
	}
	if user == nil || !s.hasher.Verify(password, user.HashedPassword) {
		return nil, "", model.NewInvalidCredentialsError()
	}

	sessionToken, err := s.encoder.Encode(token.Payload{
		UserID:  user.ID,
		IsAdmin: user.IsAdmin,
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode session token: %w", err)
	}

	slog.Info("user logged in",
		slog.Int64("user_id", user.ID),
		slog.Bool("is_admin", user.IsAdmin),
	)

	return user, sessionToken, nil
}
