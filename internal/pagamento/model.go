package pagamento

import (
	"time"

	"github.com/google/uuid"
)

// Pagamento é um comprovante enviado por um responsável dentro do ciclo
// corrente. Submissões repetidas não são deduplicadas: "pagou" significa
// existir pelo menos uma linha para a pessoa.
type Pagamento struct {
	ID            uuid.UUID `json:"id"`
	ResponsavelID uuid.UUID `json:"responsavel_id"`
	StoragePath   string    `json:"storage_path"`
	CriadoEm      time.Time `json:"criado_em"`
}
