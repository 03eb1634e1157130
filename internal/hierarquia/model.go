package hierarquia

import (
	"time"

	"github.com/google/uuid"
)

// Celula é a menor unidade organizacional, liderada por um líder.
type Celula struct {
	ID            uuid.UUID `json:"id"`
	Nome          string    `json:"nome"`
	ResponsavelID uuid.UUID `json:"responsavel_id"`
	Genero        string    `json:"genero"`
	DiaSemana     string    `json:"dia_semana"`
	Horario       string    `json:"horario"`
	Endereco      string    `json:"endereco"`
	Bairro        string    `json:"bairro"`
	Cidade        string    `json:"cidade"`
	FaixaEtaria   string    `json:"faixa_etaria"`
	CriadoEm      time.Time `json:"criado_em"`
}

// Supervisao agrupa líderes sob um supervisor.
type Supervisao struct {
	ID           uuid.UUID `json:"id"`
	Nome         string    `json:"nome"`
	SupervisorID uuid.UUID `json:"supervisor_id"`
	Genero       string    `json:"genero"`
	CriadoEm     time.Time `json:"criado_em"`
}

// Coordenacao agrupa supervisões sob um coordenador.
type Coordenacao struct {
	ID            uuid.UUID `json:"id"`
	Nome          string    `json:"nome"`
	CoordenadorID uuid.UUID `json:"coordenador_id"`
	Genero        string    `json:"genero"`
	FaixaEtaria   string    `json:"faixa_etaria"`
	CriadoEm      time.Time `json:"criado_em"`
}

// Vinculo é um pareamento livre entre duas células, fora da hierarquia de
// supervisão. Guardado com direção, mas tratado como não direcionado.
type Vinculo struct {
	ID                uuid.UUID `json:"id"`
	CelulaPrincipalID uuid.UUID `json:"celula_principal_id"`
	CelulaVinculadaID uuid.UUID `json:"celula_vinculada_id"`
	CriadoEm          time.Time `json:"criado_em"`
}

// Discipulo é um membro acompanhado dentro de uma célula.
type Discipulo struct {
	ID         uuid.UUID  `json:"id"`
	CelulaID   uuid.UUID  `json:"celula_id"`
	Nome       string     `json:"nome"`
	Funcao     string     `json:"funcao"`
	Contato    *string    `json:"contato,omitempty"`
	Nascimento *time.Time `json:"nascimento,omitempty"`
	CriadoEm   time.Time  `json:"criado_em"`
}

// Membro é a visão unificada de "quem responde a mim": discípulos para
// líderes, líderes para supervisores, supervisores para coordenadores.
type Membro struct {
	ID       uuid.UUID `json:"id"`
	Nome     string    `json:"nome"`
	Cargo    string    `json:"cargo"`
	Contato  *string   `json:"contato,omitempty"`
	FotoURL  *string   `json:"foto_url,omitempty"`
	Whatsapp string    `json:"whatsapp,omitempty"`
}
