package agenda

import (
	"time"

	"github.com/google/uuid"
)

// Tipos de reunião reconhecidos pela agenda.
const (
	TipoDiscipulado = "DISCIPULADO"
	TipoGDL         = "GDL"
	TipoGDS         = "GDS"
	TipoGDC         = "GDC"
	TipoGD          = "GD"
)

// TipoValido informa se o tipo pertence ao conjunto reconhecido.
func TipoValido(tipo string) bool {
	switch tipo {
	case TipoDiscipulado, TipoGDL, TipoGDS, TipoGDC, TipoGD:
		return true
	}
	return false
}

// Reuniao é um evento de calendário criado por um usuário.
type Reuniao struct {
	ID            uuid.UUID  `json:"id"`
	Tipo          string     `json:"tipo"`
	Data          time.Time  `json:"data"`
	Horario       string     `json:"horario"`
	CriadoPor     uuid.UUID  `json:"criado_por"`
	DiscipuladoID *uuid.UUID `json:"discipulado_id,omitempty"`
	CriadoEm      time.Time  `json:"criado_em"`
}

// ReuniaoView é a linha já resolvida para exibição: nome e cargo do
// discipulado (quando houver) e a flag de edição calculada na leitura.
type ReuniaoView struct {
	Reuniao
	DiscipuladoNome  *string `json:"discipulado_nome,omitempty"`
	DiscipuladoCargo *string `json:"discipulado_cargo,omitempty"`
	Editavel         bool    `json:"editavel"`
}
