package auth

import (
	"github.com/alexedwards/argon2id"
)

var params = &argon2id.Params{
	Memory:      64 * 1024, // 64 MB
	Iterations:  3,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

// HashSenha gera um hash Argon2id (os parâmetros ficam embutidos no hash).
func HashSenha(senha string) (string, error) {
	return argon2id.CreateHash(senha, params)
}

// VerificarSenha compara a senha informada com o hash Argon2id armazenado.
func VerificarSenha(senha, encodedHash string) (bool, error) {
	return argon2id.ComparePasswordAndHash(senha, encodedHash)
}
