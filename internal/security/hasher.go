// Package security は資格情報のハッシュ化と検証を提供する。
package security

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher はパスワードのハッシュ化と検証のインターフェース。
// 平文パスワードは永続化前に必ずこのインターフェースを通す。
type Hasher interface {
	// Hash は平文パスワードのハッシュを返す。
	Hash(password string) (string, error)
	// Verify は平文パスワードがハッシュと一致するかを返す。
	Verify(password, hash string) bool
}

// BcryptHasher はbcryptによるHasher実装。
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher はBcryptHasherを生成する。
// costが0以下の場合はbcryptのデフォルトコストを使用する。
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash は平文パスワードのbcryptハッシュを返す。
func (h *BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify は平文パスワードがハッシュと一致するかを返す。
func (h *BcryptHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// compile-time interface check
var _ Hasher = (*BcryptHasher)(nil)
