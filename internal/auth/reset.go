package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"
)

// ResetTokenTTL é a validade de um token de redefinição de senha.
const ResetTokenTTL = 30 * time.Minute

var (
	// ErrResetInvalido cobre token desconhecido, expirado ou já consumido.
	ErrResetInvalido = errors.New("token de redefinição inválido ou expirado")
)

// GenerateResetToken cria o token de 32 bytes em hex enviado por e-mail e o
// hash SHA-256 que vai para o banco. O token em claro nunca é persistido.
func GenerateResetToken() (raw string, hashed string, err error) {
	buf := make([]byte, 32)
	if _, err = rand.Read(buf); err != nil {
		return "", "", err
	}

	raw = hex.EncodeToString(buf)
	hashed = HashResetToken(raw)
	return raw, hashed, nil
}

// HashResetToken produz o hash hex persistível de um token de redefinição.
func HashResetToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
