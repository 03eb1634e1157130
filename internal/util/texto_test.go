package util

import "testing"

func TestNormalizarTexto(t *testing.T) {
	casos := []struct {
		entrada string
		saida   string
	}{
		{"Álvaro", "alvaro"},
		{"ÁGUA", "agua"},
		{"João", "joao"},
		{"celula", "celula"},
		{"", ""},
	}

	for _, c := range casos {
		if got := NormalizarTexto(c.entrada); got != c.saida {
			t.Errorf("NormalizarTexto(%q) = %q, esperava %q", c.entrada, got, c.saida)
		}
	}
}

func TestCompararTextoIgnoraAcento(t *testing.T) {
	if CompararTexto("Álvaro", "alvaro") != 0 {
		t.Fatal("esperava Álvaro == alvaro")
	}
	if CompararTexto("água", "Bruno") >= 0 {
		t.Fatal("esperava água < Bruno")
	}
}

func TestOrdenarPorTexto(t *testing.T) {
	nomes := []string{"Bruno", "água", "Álvaro"}
	OrdenarPorTexto(nomes, func(s string) string { return s })

	esperado := []string{"água", "Álvaro", "Bruno"}
	for i := range esperado {
		if nomes[i] != esperado[i] {
			t.Fatalf("ordem %v, esperava %v", nomes, esperado)
		}
	}
}

func TestOrdenarPorTextoEstavel(t *testing.T) {
	type item struct {
		nome string
		seq  int
	}
	itens := []item{{"Ana", 1}, {"ana", 2}, {"ANA", 3}}
	OrdenarPorTexto(itens, func(i item) string { return i.nome })

	for i, it := range itens {
		if it.seq != i+1 {
			t.Fatalf("empates fora de ordem: %v", itens)
		}
	}
}
