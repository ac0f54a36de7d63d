package main

import (
	"log"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/LeoDuarteM/TccSentinelaVisao/backend/internal/config"
	"github.com/LeoDuarteM/TccSentinelaVisao/backend/internal/controllers"
	"github.com/LeoDuarteM/TccSentinelaVisao/backend/internal/database"
	"github.com/LeoDuarteM/TccSentinelaVisao/backend/internal/services"
)

func main() {
	// Carregar as configs
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Falha ao carregar configs: %v", err)
	}

	// Conectar ao banco: o handle é construído uma vez aqui e injetado
	// em todos os serviços, sem singleton global.
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Falha ao conectar banco de dados: %v", err)
	}

	// Migração idempotente + semente da matriz de tratamento
	if err := database.EnsureSchema(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	if err := database.Seed(db); err != nil {
		log.Fatalf("seed failed: %v", err)
	}

	// Estratégia de retenção conforme o backend: capacidade medida em
	// bytes no SQLite, contagem de linhas no Postgres.
	var medidor services.MedidorUso
	if cfg.DBDriver == "sqlite" {
		medidor = services.NewMedidorSQLite(db, cfg.MaxBytesBanco)
	} else {
		medidor = services.NewContadorLinhas(db, cfg.MaxLinhas)
	}
	retencaoSvc := services.NewRetencaoService(db, medidor, cfg.RetencaoMarcaAlta, cfg.RetencaoMarcaBaixa, cfg.RetencaoLote)

	// Instancia serviços
	eventoSvc := services.NewEventoService(db, cfg, retencaoSvc)
	confirmacaoSvc := services.NewConfirmacaoService(db)
	consultaSvc := services.NewConsultaService(db)

	// Cria controllers
	eventoCtrl := controllers.NewEventoController(eventoSvc)
	confirmacaoCtrl := controllers.NewConfirmacaoController(confirmacaoSvc)
	consultaCtrl := controllers.NewConsultaController(consultaSvc)

	// Inicializa Echo
	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Rotas de ingestão na raiz (o pipeline envia para /evento e /analise)
	eventoCtrl.Register(e)

	// Consulta do painel
	api := e.Group("/api/v1")
	consultaCtrl.Register(api)

	// Ações administrativas gated pelo segredo compartilhado
	adm := e.Group("/api/v1")
	if cfg.APIToken != "" {
		adm.Use(middleware.KeyAuth(func(key string, c echo.Context) (bool, error) {
			return key == cfg.APIToken, nil
		}))
	}
	confirmacaoCtrl.Register(adm)

	// Roda Servidor
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
