package relatorio

import (
	"time"

	"github.com/google/uuid"
)

// Tipos de relatório aceitos. Cada tipo tem janela de validade própria da URL
// assinada, preservando os valores observados no produto (a disparidade entre
// 60s e 7 dias é uma pendência de produto, não uma decisão daqui).
const (
	TipoCelula      = "celula"
	TipoDiscipulado = "discipulado"
	TipoGDL         = "gdl"
	TipoGDS         = "gds"
	TipoGDC         = "gdc"
)

// ValidadePadrao mapeia tipo → validade da URL assinada.
var ValidadePadrao = map[string]time.Duration{
	TipoCelula:      7 * 24 * time.Hour,
	TipoDiscipulado: 24 * time.Hour,
	TipoGDL:         500 * time.Second,
	TipoGDS:         500 * time.Second,
	TipoGDC:         60 * time.Second,
}

// TipoValido informa se o tipo pertence ao conjunto reconhecido.
func TipoValido(tipo string) bool {
	_, ok := ValidadePadrao[tipo]
	return ok
}

// Relatorio é a linha de metadados de um PDF efêmero já armazenado.
type Relatorio struct {
	ID            uuid.UUID  `json:"id"`
	ResponsavelID uuid.UUID  `json:"responsavel_id"`
	Tipo          string     `json:"tipo"`
	GrupoID       *uuid.UUID `json:"grupo_id,omitempty"`
	StoragePath   string     `json:"storage_path"`
	URLAssinada   string     `json:"url_assinada"`
	ExpiraEmSeg   int64      `json:"expira_em"`
	CriadoEm      time.Time  `json:"criado_em"`
}
