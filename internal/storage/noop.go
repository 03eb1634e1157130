package storage

import (
	"context"
	"errors"
	"time"
)

// NoopStorage é o fallback quando nenhum provedor está configurado.
type NoopStorage struct{}

func (NoopStorage) Upload(ctx context.Context, input UploadInput) (*UploadResult, error) {
	return nil, errors.New("storage: nenhum provedor configurado")
}

func (NoopStorage) Delete(ctx context.Context, key string) error {
	return nil
}

func (NoopStorage) List(ctx context.Context, prefix string) ([]string, error) {
	return nil, nil
}

func (NoopStorage) PresignGet(ctx context.Context, key string, expires time.Duration) (string, error) {
	return "", errors.New("storage: nenhum provedor configurado")
}
