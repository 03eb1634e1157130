package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Rafaelk26/Incell-System-sub000/internal/db"
	"github.com/Rafaelk26/Incell-System-sub000/internal/repo"
	"github.com/Rafaelk26/Incell-System-sub000/internal/service"
	"github.com/Rafaelk26/Incell-System-sub000/internal/storage"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	_ = godotenv.Load()

	ctx := context.Background()

	dsn := strings.TrimSpace(os.Getenv("DB_DSN"))
	if dsn == "" {
		dsn = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}
	if dsn == "" {
		log.Fatal().Msg("defina DB_DSN ou DATABASE_URL")
	}

	pool, err := db.NewPool(ctx, dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("não foi possível conectar ao banco")
	}
	defer pool.Close()

	usuarios := service.NewUsuarioService(repo.New(pool), storage.NoopStorage{}, log.Logger)

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "create":
		if err := runCreate(ctx, usuarios, args); err != nil {
			log.Fatal().Err(err).Msg("falha ao criar usuário")
		}
	case "list":
		if err := runList(ctx, usuarios, args); err != nil {
			log.Fatal().Err(err).Msg("falha ao listar usuários")
		}
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usuario CLI")
	fmt.Fprintln(os.Stderr, "uso:")
	fmt.Fprintln(os.Stderr, "  usuario create --nome \"Maria Silva\" --email maria@igreja.com --senha segredo123 --cargo lider [--telefone 12912345678]")
	fmt.Fprintln(os.Stderr, "  usuario list [--cargo lider]")
}

func runCreate(ctx context.Context, usuarios *service.UsuarioService, args []string) error {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var (
		nome     = fs.String("nome", "", "nome completo")
		email    = fs.String("email", "", "e-mail de login")
		senha    = fs.String("senha", "", "senha inicial")
		cargo    = fs.String("cargo", repo.CargoLider, "cargo do usuário")
		telefone = fs.String("telefone", "", "telefone com DDD (opcional)")
	)

	if err := fs.Parse(args); err != nil {
		return err
	}

	input := service.NovoUsuario{
		Nome:  strings.TrimSpace(*nome),
		Email: strings.TrimSpace(*email),
		Senha: *senha,
		Cargo: strings.TrimSpace(*cargo),
	}
	if t := strings.TrimSpace(*telefone); t != "" {
		input.Telefone = &t
	}

	usuario, err := usuarios.Criar(ctx, input)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(usuario, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func runList(ctx context.Context, usuarios *service.UsuarioService, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	cargo := fs.String("cargo", "", "filtra por cargo")

	if err := fs.Parse(args); err != nil {
		return err
	}

	lista, err := usuarios.Listar(ctx, strings.TrimSpace(*cargo))
	if err != nil {
		return err
	}

	for _, u := range lista {
		fmt.Printf("%s\t%s\t%s\t%s\n", u.ID, u.Cargo, u.Nome, u.Email)
	}
	return nil
}
