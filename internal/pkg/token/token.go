package token

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// tokenBytes задает энтропию токена: 32 байта = 256 бит
const tokenBytes = 32

// Pair представляет пару access/refresh токенов
type Pair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Generate возвращает один непрозрачный URL-safe токен.
// Отказ системного источника случайности фатален для процесса,
// поэтому ошибка пробрасывается вызывающему без повторных попыток.
func Generate() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random source: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// GeneratePair возвращает независимую пару access/refresh токенов
func GeneratePair() (*Pair, error) {
	accessToken, err := Generate()
	if err != nil {
		return nil, err
	}
	refreshToken, err := Generate()
	if err != nil {
		return nil, err
	}
	return &Pair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
