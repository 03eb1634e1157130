package storage

import (
	"context"
	"time"
)

// UploadInput representa uma operação de upload simples.
type UploadInput struct {
	Key          string
	Body         []byte
	ContentType  string
	CacheControl string
}

// UploadResult descreve o artefato persistido.
type UploadResult struct {
	URL  string
	ETag string
}

// ObjectStorage define o contrato com o armazenamento de objetos: upload,
// remoção idempotente, listagem por prefixo e URLs assinadas de leitura.
type ObjectStorage interface {
	Upload(ctx context.Context, input UploadInput) (*UploadResult, error)
	// Delete remove o objeto; remover chave inexistente não é erro.
	Delete(ctx context.Context, key string) error
	// List devolve as chaves sob o prefixo informado.
	List(ctx context.Context, prefix string) ([]string, error)
	// PresignGet emite URL de leitura com validade limitada.
	PresignGet(ctx context.Context, key string, expires time.Duration) (string, error)
}
