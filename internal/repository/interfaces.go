// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"errors"

	"github.com/sergkim13/users-API/internal/model"
)

// 永続化層の制約違反を表すセンチネルエラー。
// サービス層がAPIエラーへ変換する。
var (
	// ErrNotFound は対象レコードが存在しないことを表す。
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail はメールアドレスの一意制約違反を表す。
	ErrDuplicateEmail = errors.New("email already exists")
	// ErrCityNotFound は都市への外部キー制約違反を表す。
	ErrCityNotFound = errors.New("referenced city not found")
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.User, error)

	// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// List はID昇順でoffset/limit指定のユーザー一覧を返す。
	List(ctx context.Context, offset, limit int) ([]*model.User, error)

	// Count は全ユーザー数を返す。
	Count(ctx context.Context) (int, error)

	// Create はユーザーを作成し、採番されたIDをuser.IDに設定する。
	// 一意制約違反はErrDuplicateEmail、外部キー制約違反はErrCityNotFoundを返す。
	Create(ctx context.Context, user *model.User) error

	// Update はユーザーの全フィールドを上書き更新する。
	// 対象が存在しない場合はErrNotFound、制約違反はCreateと同様に返す。
	Update(ctx context.Context, user *model.User) error

	// Delete は指定IDのユーザーを削除する。対象が存在しない場合はErrNotFoundを返す。
	Delete(ctx context.Context, id int64) error
}

// CityRepository は都市マスタの参照インターフェース。
type CityRepository interface {
	// FindByID は指定IDの都市を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.City, error)
}
