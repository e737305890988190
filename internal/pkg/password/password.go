package password

import (
	"golang.org/x/crypto/bcrypt"
)

// Hasher интерфейс для работы с паролями
type Hasher interface {
	Hash(password string) (string, error)
	Check(password, hash string) bool
	Validate(password string) bool
}

// BcryptHasher реализация Hasher с использованием bcrypt.
// bcrypt генерирует случайную соль на каждый вызов, общих констант нет.
type BcryptHasher struct {
	cost      int
	minLength int
}

// NewBcryptHasher создает новый BcryptHasher
func NewBcryptHasher(cost, minLength int) *BcryptHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	if minLength <= 0 {
		minLength = 6
	}
	return &BcryptHasher{cost: cost, minLength: minLength}
}

// Hash хеширует пароль с использованием bcrypt
func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Check проверяет, соответствует ли пароль хешу
func (h *BcryptHasher) Check(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// Validate проверяет минимальную длину пароля
func (h *BcryptHasher) Validate(password string) bool {
	return len(password) >= h.minLength
}
