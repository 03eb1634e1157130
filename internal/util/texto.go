package util

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizarTexto decompõe em NFD, descarta as marcas combinantes e rebaixa
// para minúsculas. "Álvaro" e "alvaro" comparam iguais.
func NormalizarTexto(s string) string {
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// CompararTexto compara duas strings ignorando acentos e caixa.
func CompararTexto(a, b string) int {
	return strings.Compare(NormalizarTexto(a), NormalizarTexto(b))
}

// OrdenarPorTexto ordena in-place pela chave textual, ignorando acentos e
// caixa. A ordenação é estável: empates preservam a ordem de chegada.
func OrdenarPorTexto[T any](itens []T, chave func(T) string) {
	sort.SliceStable(itens, func(i, j int) bool {
		return CompararTexto(chave(itens[i]), chave(itens[j])) < 0
	})
}
