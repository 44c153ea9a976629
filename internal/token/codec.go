// Package token はセッショントークンの署名付きエンコード/デコードを提供する。
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken はトークンの検証失敗を表す。
// 署名不正・構造不正・期限切れのいずれもこのエラーに集約し、
// 呼び出し側が失敗理由を区別できないようにする。
var ErrInvalidToken = errors.New("invalid token")

// 署名アルゴリズムはサーバー側で固定する。
// トークン自身のヘッダから検証アルゴリズムを選ばせない。
var signingMethod = jwt.SigningMethodHS256

// Payload はトークンに埋め込むセッション情報を表す。
// 発行後は不変で、有効期限はペイロードではなく署名済みトークン側が持つ。
type Payload struct {
	UserID  int64
	IsAdmin bool
}

type sessionClaims struct {
	UserID  int64 `json:"user_id"`
	IsAdmin bool  `json:"is_admin"`
	jwt.RegisteredClaims
}

// Config はCodecの設定。
type Config struct {
	Secret string        // 署名鍵
	TTL    time.Duration // トークン有効期間
}

// Codec はセッションペイロードとJWT文字列を相互変換する。
// 状態を持たず、並行利用できる。
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec はCodecを生成する。鍵が空、またはTTLが0以下の場合はエラーを返す。
func NewCodec(cfg Config) (*Codec, error) {
	if cfg.Secret == "" {
		return nil, errors.New("token: secret is required")
	}
	if cfg.TTL <= 0 {
		return nil, errors.New("token: TTL must be positive")
	}
	return &Codec{
		secret: []byte(cfg.Secret),
		ttl:    cfg.TTL,
	}, nil
}

// Encode はペイロードを署名済みJWTにエンコードする。
// 有効期限は現在時刻 + TTL。
func (c *Codec) Encode(payload Payload) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		UserID:  payload.UserID,
		IsAdmin: payload.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(signingMethod, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Decode はJWTを検証してペイロードを返す。
// 検証に失敗した場合は理由を問わずErrInvalidTokenを返し、
// 部分的に埋まったペイロードを返すことはない。
func (c *Codec) Decode(tokenString string) (*Payload, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) {
			return c.secret, nil
		},
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	return &Payload{
		UserID:  claims.UserID,
		IsAdmin: claims.IsAdmin,
	}, nil
}
