package main

import (
	"fmt"
	"log"

	"github.com/LeoDuarteM/TccSentinelaVisao/backend/internal/config"
	"github.com/LeoDuarteM/TccSentinelaVisao/backend/internal/database"
	"github.com/LeoDuarteM/TccSentinelaVisao/backend/internal/models"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Erro ao carregar configs:", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("Erro ao conectar ao banco:", err)
	}

	fmt.Println("✅ Conectado ao banco com sucesso!")
	fmt.Println("🚀 Executando migration...")

	// Migração idempotente: colunas já existentes são no-ops, falhas
	// individuais são registradas e puladas.
	if err := database.EnsureSchema(db); err != nil {
		log.Fatal("❌ Erro ao executar migration:", err)
	}

	fmt.Println("🌱 Aplicando semente da matriz de tratamento...")
	if err := database.Seed(db); err != nil {
		log.Fatal("❌ Erro ao aplicar semente:", err)
	}

	// Verificar tabelas criadas
	fmt.Println("\n📋 Tabelas:")
	for _, tabela := range []string{
		models.Evento{}.TableName(),
		models.Qualificacao{}.TableName(),
		models.Gravidade{}.TableName(),
		models.Protocolo{}.TableName(),
		models.Canal{}.TableName(),
		models.Orgao{}.TableName(),
		models.QualificacaoTratamento{}.TableName(),
		models.EventoQualificacao{}.TableName(),
		models.EventoTratamento{}.TableName(),
	} {
		if db.Migrator().HasTable(tabela) {
			fmt.Printf("  ✓ %s\n", tabela)
		} else {
			fmt.Printf("  ✗ %s (ausente)\n", tabela)
		}
	}

	fmt.Println("\n🎉 Tudo pronto!")
}
