package hash

import (
	"crypto/sha256"
	"encoding/base64"
)

// TokenHasher хеширует токены с использованием SHA256.
// Используется для ключей кеша сессий, чтобы сырые токены
// не попадали в Redis.
type TokenHasher struct{}

// NewTokenHasher создает новый экземпляр TokenHasher
func NewTokenHasher() *TokenHasher {
	return &TokenHasher{}
}

// Hash хеширует токен с использованием SHA256
func (h *TokenHasher) Hash(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
