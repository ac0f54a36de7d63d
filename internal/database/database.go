package database

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/LeoDuarteM/TccSentinelaVisao/backend/internal/config"
	"github.com/LeoDuarteM/TccSentinelaVisao/backend/internal/models"
)

// Connect abre a conexão conforme o driver configurado e devolve o handle
// que será injetado em todos os serviços. Não existe estado global: quem
// precisa do banco recebe este *gorm.DB no construtor.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	switch cfg.DBDriver {
	case "postgres":
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
			cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode, cfg.DBTimezone,
		)
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	case "sqlite":
		return gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{})
	default:
		return nil, fmt.Errorf("driver de banco desconhecido: %q", cfg.DBDriver)
	}
}

// todosModelos lista as tabelas do subsistema na ordem de criação.
func todosModelos() []any {
	return []any{
		&models.Evento{},
		&models.Qualificacao{},
		&models.Gravidade{},
		&models.Protocolo{},
		&models.Canal{},
		&models.Orgao{},
		&models.QualificacaoTratamento{},
		&models.EventoQualificacao{},
		&models.EventoTratamento{},
	}
}

// colunasEvento são as colunas adicionadas ao longo da vida do pipeline.
// A tabela pode existir em bancos antigos sem elas.
var colunasEvento = []string{
	"AnaliseLlava",
	"ImagemURL",
	"CameraNome",
	"JobID",
	"Sha256",
	"Arquivo",
	"DuracaoAnalise",
	"Vitimas",
	"MenoresIdosos",
	"EmAndamento",
	"TratamentoStatus",
}

// EnsureSchema aplica o AutoMigrate e em seguida garante, coluna a coluna,
// os campos incrementais da tabela de eventos. Adicionar uma coluna que já
// existe é um no-op; uma falha individual é registrada e pulada, nunca
// derruba a subida do serviço.
func EnsureSchema(db *gorm.DB) error {
	if err := db.AutoMigrate(todosModelos()...); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}

	m := db.Migrator()
	for _, campo := range colunasEvento {
		if m.HasColumn(&models.Evento{}, campo) {
			continue
		}
		if err := m.AddColumn(&models.Evento{}, campo); err != nil {
			log.Printf("aviso: falha ao adicionar coluna %s: %v", campo, err)
		}
	}
	return nil
}
