package repo

import (
	"time"

	"github.com/google/uuid"
)

// Cargos reconhecidos pelo sistema. Cada usuário tem exatamente um cargo por
// vez; trocas de cargo são sobrescritas idempotentes.
const (
	CargoLider       = "lider"
	CargoSupervisor  = "supervisor"
	CargoCoordenador = "coordenador"
	CargoPastor      = "pastor"
	CargoAdmin       = "admin"
)

// CargoValido informa se o cargo pertence ao conjunto reconhecido.
func CargoValido(cargo string) bool {
	switch cargo {
	case CargoLider, CargoSupervisor, CargoCoordenador, CargoPastor, CargoAdmin:
		return true
	}
	return false
}

// Usuario representa uma pessoa com papel no ministério.
type Usuario struct {
	ID         uuid.UUID  `json:"id"`
	Nome       string     `json:"nome"`
	Email      string     `json:"email"`
	SenhaHash  string     `json:"-"`
	Cargo      string     `json:"cargo"`
	Telefone   *string    `json:"telefone,omitempty"`
	Nascimento *time.Time `json:"nascimento,omitempty"`
	FotoURL    *string    `json:"foto_url,omitempty"`
	CriadoEm   time.Time  `json:"criado_em"`
}

// TokenRefresh modela tabela de refresh tokens.
type TokenRefresh struct {
	ID        uuid.UUID
	UsuarioID uuid.UUID
	TokenHash string
	Expiracao time.Time
	CriadoEm  time.Time
	Revogado  bool
}

// PasswordReset modela um token de redefinição de senha, uso único e com
// validade curta. Apenas o hash do token é guardado.
type PasswordReset struct {
	ID        uuid.UUID
	UsuarioID uuid.UUID
	TokenHash string
	Expiracao time.Time
	CriadoEm  time.Time
}

// InsertUsuarioParams agrupa os campos aceitos na criação de usuário.
type InsertUsuarioParams struct {
	ID         uuid.UUID
	Nome       string
	Email      string
	SenhaHash  string
	Cargo      string
	Telefone   *string
	Nascimento *time.Time
	FotoURL    *string
}

// InsertRefreshTokenParams agrupa parâmetros de persistência do refresh.
type InsertRefreshTokenParams struct {
	UsuarioID uuid.UUID
	TokenHash string
	Expiracao time.Time
}
