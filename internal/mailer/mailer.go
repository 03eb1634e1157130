package mailer

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Message é um e-mail simples de texto/HTML.
type Message struct {
	To       string
	ToName   string
	Subject  string
	Text     string
	HTML     string
}

// Mailer abstrai o provedor de envio.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// ConsoleMailer apenas loga a mensagem; usado quando não há API key
// configurada (ambiente local).
type ConsoleMailer struct{}

func (ConsoleMailer) Send(ctx context.Context, msg Message) error {
	log.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Str("body", msg.Text).
		Msg("mailer: envio simulado")
	return nil
}
