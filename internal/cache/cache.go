// Package cache はキー/バリューキャッシュの抽象と実装を提供する。
package cache

import (
	"context"
	"time"
)

// キャッシュキーのプレフィックス。
// 書き込み系操作後の一括無効化はこのプレフィックス単位で行う。
const (
	UserDetailKeyPrefix = "user-detail:"
	UserListKeyPrefix   = "user-list:"
)

// Cache はキャッシュ操作のインターフェース。
// 本番ではRedis実装、テストではインメモリ実装を注入する。
// 呼び出し側はエラーをミスと同様に扱い、ストアへフォールバックする。
type Cache interface {
	// Get はキーに対応する値を返す。未登録または期限切れの場合はnilを返す。
	Get(ctx context.Context, key string) ([]byte, error)

	// Set は値をTTL付きで保存する。既存の値は無条件に上書きする。
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Invalidate は指定キーを削除する。キーが存在しない場合は何もしない。
	Invalidate(ctx context.Context, key string) error

	// InvalidatePrefix は指定プレフィックスで始まる全キーを削除する。
	// 作成・削除でページ境界がずれる一覧キャッシュの一括無効化に使う。
	InvalidatePrefix(ctx context.Context, prefix string) error
}
