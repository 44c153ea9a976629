// Package user はユーザーディレクトリのドメインロジックを提供する。
// 読み取りはキャッシュ優先（read-through）、書き込みは成功後に
// 該当キャッシュを無効化する（write-invalidate）。
package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sergkim13/users-API/internal/cache"
	"github.com/sergkim13/users-API/internal/model"
	"github.com/sergkim13/users-API/internal/repository"
	"github.com/sergkim13/users-API/internal/security"
)

// メトリクスのキーファミリー名。
const (
	keyFamilyDetail = "user-detail"
	keyFamilyList   = "user-list"
)

// CacheMetrics はキャッシュヒット/ミスの記録インターフェース。
// metrics.Collectorの部分集合として定義する。
type CacheMetrics interface {
	RecordCacheHit(keyFamily string)
	RecordCacheMiss(keyFamily string)
}

// Config はユーザーサービスの設定。
type Config struct {
	CacheTTL time.Duration // キャッシュエントリのTTL（明示的な無効化のバックストップ）
}

// Service はユーザーディレクトリのサービス層。
// Store（リポジトリ）とキャッシュを編成し、一覧・詳細の読み取りと
// 作成・更新・削除の書き込みを提供する。
type Service struct {
	userRepo repository.UserRepository
	cityRepo repository.CityRepository
	cache    cache.Cache
	hasher   security.Hasher
	metrics  CacheMetrics
	config   Config
}

// NewService はServiceを生成する。metricsはnilでもよい。
func NewService(
	userRepo repository.UserRepository,
	cityRepo repository.CityRepository,
	c cache.Cache,
	hasher security.Hasher,
	m CacheMetrics,
	config Config,
) *Service {
	return &Service{
		userRepo: userRepo,
		cityRepo: cityRepo,
		cache:    c,
		hasher:   hasher,
		metrics:  m,
		config:   config,
	}
}

// CreateUserInput はユーザー作成の入力。
type CreateUserInput struct {
	FirstName      string
	LastName       string
	OtherName      string
	Email          string
	Phone          string
	Birthday       *time.Time
	City           *int64
	AdditionalInfo string
	IsAdmin        bool
	Password       string
}

// UpdateUserInput はユーザー部分更新の入力。
// nilのフィールドは変更せず、既存の値を維持する。
type UpdateUserInput struct {
	FirstName      *string
	LastName       *string
	OtherName      *string
	Email          *string
	Phone          *string
	Birthday       *time.Time
	City           *int64
	AdditionalInfo *string
	IsAdmin        *bool
}

// GetDetail は指定IDのユーザーを返す。
// キャッシュ優先で読み取り、ミス時はストアから取得してキャッシュに書き戻す。
// ユーザーが存在しない場合の「不在」はキャッシュしない。
// 直後の作成を古い否定キャッシュで隠さないための方針。
func (s *Service) GetDetail(ctx context.Context, userID int64) (*model.User, error) {
	cacheKey := detailKey(userID)

	if cached := s.cacheGet(ctx, cacheKey, keyFamilyDetail); cached != nil {
		user := &model.User{}
		if err := json.Unmarshal(cached, user); err == nil {
			return user, nil
		}
		// 壊れたエントリはミスとして扱い、ストアから再構築する
		slog.Warn("broken cache entry", slog.String("key", cacheKey))
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read user: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError(userID)
	}

	s.cacheSet(ctx, cacheKey, user)
	return user, nil
}

// List はページ単位のユーザー一覧を返す。
// 総件数は常にストアから取得し、ページ本体のみキャッシュする。
// 要求ページが最終ページを超えた場合は空ページを返す（エラーにしない）。
func (s *Service) List(ctx context.Context, page, size int) (*model.UserPage, error) {
	if page < 1 || size < 1 {
		return nil, model.NewValidationError("pageとsizeは1以上で指定してください")
	}

	total, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	result := &model.UserPage{
		Users:      []*model.User{},
		Pagination: model.Pagination{Total: total, Page: page, Size: size},
	}

	maxPages := (total + size - 1) / size
	if page > maxPages {
		return result, nil
	}

	cacheKey := listKey(page, size)
	if cached := s.cacheGet(ctx, cacheKey, keyFamilyList); cached != nil {
		users := []*model.User{}
		if err := json.Unmarshal(cached, &users); err == nil {
			result.Users = users
			return result, nil
		}
		slog.Warn("broken cache entry", slog.String("key", cacheKey))
	}

	users, err := s.userRepo.List(ctx, (page-1)*size, size)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	s.cacheSet(ctx, cacheKey, users)
	result.Users = users
	return result, nil
}

// ListWithCityHints はユーザー一覧に加えて、掲載ユーザーが参照する都市の一覧を返す。
// 管理者向け一覧のメタ情報に使用する。
func (s *Service) ListWithCityHints(ctx context.Context, page, size int) (*model.UserPage, []*model.City, error) {
	userPage, err := s.List(ctx, page, size)
	if err != nil {
		return nil, nil, err
	}

	cities := []*model.City{}
	seen := map[int64]bool{}
	for _, u := range userPage.Users {
		if u.City == nil || seen[*u.City] {
			continue
		}
		seen[*u.City] = true

		city, err := s.cityRepo.FindByID(ctx, *u.City)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read city: %w", err)
		}
		if city != nil {
			cities = append(cities, city)
		}
	}

	return userPage, cities, nil
}

// Create は新規ユーザーを作成する。
// 平文パスワードは永続化前にハッシュ化される。
// 作成はすべての一覧ページの内容を変え得るため、一覧キャッシュを一括無効化する。
func (s *Service) Create(ctx context.Context, input CreateUserInput) (*model.User, error) {
	hashed, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		OtherName:      input.OtherName,
		Email:          input.Email,
		Phone:          input.Phone,
		Birthday:       input.Birthday,
		City:           input.City,
		AdditionalInfo: input.AdditionalInfo,
		IsAdmin:        input.IsAdmin,
		HashedPassword: hashed,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, s.mapWriteError(err, user.Email, 0)
	}

	s.cacheInvalidatePrefix(ctx, cache.UserListKeyPrefix)

	slog.Info("user created",
		slog.Int64("user_id", user.ID),
		slog.Bool("is_admin", user.IsAdmin),
	)

	return user, nil
}

// Update は指定IDのユーザーを部分更新する。
// inputのnilフィールドは既存の値を維持する。
// 成功後、対象の詳細キャッシュと一覧キャッシュ全体を無効化する。
func (s *Service) Update(ctx context.Context, userID int64, input UpdateUserInput) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read user: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError(userID)
	}

	applyUpdate(user, input)

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, s.mapWriteError(err, user.Email, userID)
	}

	s.cacheInvalidate(ctx, detailKey(userID))
	s.cacheInvalidatePrefix(ctx, cache.UserListKeyPrefix)

	slog.Info("user updated", slog.Int64("user_id", userID))

	return user, nil
}

// Delete は指定IDのユーザーを削除する。
// 成功後、対象の詳細キャッシュと一覧キャッシュ全体を無効化する。
func (s *Service) Delete(ctx context.Context, userID int64) error {
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.NewUserNotFoundError(userID)
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.cacheInvalidate(ctx, detailKey(userID))
	s.cacheInvalidatePrefix(ctx, cache.UserListKeyPrefix)

	slog.Info("user deleted", slog.Int64("user_id", userID))

	return nil
}

// applyUpdate はnilでない入力フィールドだけをユーザーに反映する。
func applyUpdate(user *model.User, input UpdateUserInput) {
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.OtherName != nil {
		user.OtherName = *input.OtherName
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Birthday != nil {
		user.Birthday = input.Birthday
	}
	if input.City != nil {
		user.City = input.City
	}
	if input.AdditionalInfo != nil {
		user.AdditionalInfo = *input.AdditionalInfo
	}
	if input.IsAdmin != nil {
		user.IsAdmin = *input.IsAdmin
	}
}

// mapWriteError はリポジトリの制約違反エラーをAPIエラーへ変換する。
func (s *Service) mapWriteError(err error, email string, userID int64) error {
	switch {
	case errors.Is(err, repository.ErrDuplicateEmail):
		return model.NewEmailExistsError(email)
	case errors.Is(err, repository.ErrCityNotFound):
		return model.NewCityNotFoundError()
	case errors.Is(err, repository.ErrNotFound):
		return model.NewUserNotFoundError(userID)
	default:
		return fmt.Errorf("failed to write user: %w", err)
	}
}

// detailKey はユーザー詳細のキャッシュキーを返す。
func detailKey(userID int64) string {
	return fmt.Sprintf("%s%d", cache.UserDetailKeyPrefix, userID)
}

// listKey はユーザー一覧ページのキャッシュキーを返す。
func listKey(page, size int) string {
	return fmt.Sprintf("%s%d:%d", cache.UserListKeyPrefix, page, size)
}

// cacheGet はキャッシュからの読み取りを試みる。
// キャッシュ障害はミスと同様に扱い、リクエストを失敗させない。
func (s *Service) cacheGet(ctx context.Context, key, keyFamily string) []byte {
	value, err := s.cache.Get(ctx, key)
	if err != nil {
		slog.Warn("cache get failed, falling back to store",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		value = nil
	}

	if s.metrics != nil {
		if value != nil {
			s.metrics.RecordCacheHit(keyFamily)
		} else {
			s.metrics.RecordCacheMiss(keyFamily)
		}
	}
	return value
}

// cacheSet はキャッシュへの書き込みを試みる。障害はログのみに記録する。
func (s *Service) cacheSet(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		slog.Warn("cache marshal failed", slog.String("key", key), slog.String("error", err.Error()))
		return
	}
	if err := s.cache.Set(ctx, key, data, s.config.CacheTTL); err != nil {
		slog.Warn("cache set failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}

// cacheInvalidate は単一キーの無効化を試みる。障害はログのみに記録する。
func (s *Service) cacheInvalidate(ctx context.Context, key string) {
	if err := s.cache.Invalidate(ctx, key); err != nil {
		slog.Warn("cache invalidate failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}

// cacheInvalidatePrefix はプレフィックス単位の無効化を試みる。障害はログのみに記録する。
func (s *Service) cacheInvalidatePrefix(ctx context.Context, prefix string) {
	if err := s.cache.InvalidatePrefix(ctx, prefix); err != nil {
		slog.Warn("cache invalidate prefix failed", slog.String("prefix", prefix), slog.String("error", err.Error()))
	}
}
