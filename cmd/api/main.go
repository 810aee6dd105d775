package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appledger "github.com/felipetalin/Leite---Controle-de-estoque/internal/application/ledger"
	appsync "github.com/felipetalin/Leite---Controle-de-estoque/internal/application/sync"
	"github.com/felipetalin/Leite---Controle-de-estoque/internal/infrastructure/postgres"
	"github.com/felipetalin/Leite---Controle-de-estoque/internal/infrastructure/sqlite"
	httpRouter "github.com/felipetalin/Leite---Controle-de-estoque/internal/interfaces/http"
	"github.com/felipetalin/Leite---Controle-de-estoque/pkg/config"
	"github.com/felipetalin/Leite---Controle-de-estoque/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("carregar configuração: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicação")

	ctx := context.Background()

	// O pool é preguiçoso: sobe mesmo sem rede. A aplicação precisa funcionar
	// offline desde o boot; a alcançabilidade é sondada em seguida.
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("configuração do PostgreSQL")
	}
	defer pool.Close()
	remote := postgres.NewRemoteLedgerStore(pool)

	cache, err := sqlite.Abrir(cfg.Cache.Path, log)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Cache.Path).Msg("abrir cache local")
	}
	defer cache.Fechar()

	engine := appsync.NewEngine(remote, cache, log)

	// Primeiro sinal de conectividade e restauração da sessão.
	pingCtx, cancelPing := context.WithTimeout(ctx, 5*time.Second)
	if err := remote.Ping(pingCtx); err != nil {
		log.Warn().Err(err).Msg("backend inalcançável, iniciando offline")
	} else {
		engine.SetOnline(true)
	}
	cancelPing()
	engine.CarregarSessao(ctx)

	svc := appledger.NewService(engine, log)

	// Sonda de conectividade: na transição offline -> online faz flush da fila
	// e busca a sequência autoritativa; na queda só marca o estado.
	probeCtx, cancelProbe := context.WithCancel(ctx)
	defer cancelProbe()
	go sondarConectividade(probeCtx, remote, engine, cfg.Sync.ProbeInterval, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		LedgerService: svc,
		Engine:        engine,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("sinal de desligamento recebido, encerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("encerramento do servidor")
	}

	log.Info().Msg("aplicação parada")
}

// sondarConectividade verifica o backend a cada intervalo e alimenta o motor
// com o sinal de alcançabilidade.
func sondarConectividade(ctx context.Context, remote appsync.RemoteStore, engine *appsync.Engine, intervalo time.Duration, log *logger.Logger) {
	ticker := time.NewTicker(intervalo)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := remote.Ping(pingCtx)
		cancel()

		alcancavel := err == nil
		estavaOnline := engine.Online()
		switch {
		case alcancavel && !estavaOnline:
			engine.AoReconectar(ctx)
		case !alcancavel && estavaOnline:
			log.Warn().Err(err).Msg("backend inalcançável, entrando em modo offline")
			engine.SetOnline(false)
		}
	}
}
