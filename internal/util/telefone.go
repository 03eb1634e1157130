package util

import "strings"

// dddBrasil é o código de país prefixado nos links de WhatsApp.
const dddBrasil = "55"

// NormalizarTelefone descarta tudo que não for dígito: "(12) 91234-5678"
// vira "12912345678".
func NormalizarTelefone(telefone string) string {
	var b strings.Builder
	b.Grow(len(telefone))
	for _, r := range telefone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// LinkWhatsApp monta o link wa.me com código do Brasil. Números já prefixados
// com 55 não ganham o prefixo de novo.
func LinkWhatsApp(telefone string) string {
	digitos := NormalizarTelefone(telefone)
	if digitos == "" {
		return ""
	}
	if !strings.HasPrefix(digitos, dddBrasil) || len(digitos) <= 11 {
		digitos = dddBrasil + digitos
	}
	return "https://wa.me/" + digitos
}
