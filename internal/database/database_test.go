package database

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/LeoDuarteM/TccSentinelaVisao/backend/internal/models"
)

func abreTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("não foi possivel abrir DB de teste: %v", err)
	}
	return db
}

// TestEnsureSchema_Idempotente: rodar a migração duas vezes não é erro;
// coluna que já existe é um no-op.
func TestEnsureSchema_Idempotente(t *testing.T) {
	db := abreTestDB(t)

	if err := EnsureSchema(db); err != nil {
		t.Fatalf("primeira migração falhou: %v", err)
	}
	if err := EnsureSchema(db); err != nil {
		t.Fatalf("migração repetida deveria ser no-op: %v", err)
	}

	for _, tabela := range []string{"eventos", "qualificacoes", "evento_tratamentos"} {
		if !db.Migrator().HasTable(tabela) {
			t.Errorf("tabela %s ausente após migração", tabela)
		}
	}
	if !db.Migrator().HasColumn(&models.Evento{}, "Sha256") {
		t.Errorf("coluna sha256 ausente após migração")
	}
}

// TestSeed_SoQuandoVazio: a semente só roda com as tabelas de consulta
// vazias; uma base populada nunca é sobrescrita.
func TestSeed_SoQuandoVazio(t *testing.T) {
	db := abreTestDB(t)
	if err := EnsureSchema(db); err != nil {
		t.Fatalf("migração falhou: %v", err)
	}

	if err := Seed(db); err != nil {
		t.Fatalf("semente inicial falhou: %v", err)
	}

	var antes int64
	db.Model(&models.Qualificacao{}).Count(&antes)
	if antes == 0 {
		t.Fatalf("semente não populou as qualificações")
	}

	// Edita uma linha e roda a semente de novo: a edição sobrevive.
	if err := db.Model(&models.Qualificacao{}).Where("nome = ?", "furto").
		Update("nome", "furto-qualificado").Error; err != nil {
		t.Fatalf("falha ao editar qualificação: %v", err)
	}
	if err := Seed(db); err != nil {
		t.Fatalf("semente repetida falhou: %v", err)
	}

	var depois int64
	db.Model(&models.Qualificacao{}).Count(&depois)
	if depois != antes {
		t.Errorf("semente repetida alterou a contagem: %d -> %d", antes, depois)
	}
	var editada models.Qualificacao
	if err := db.First(&editada, "nome = ?", "furto-qualificado").Error; err != nil {
		t.Errorf("edição foi sobrescrita pela semente: %v", err)
	}

	// Cada qualificação semeada tem sua linha na matriz.
	var quals, matriz int64
	db.Model(&models.Qualificacao{}).Count(&quals)
	db.Model(&models.QualificacaoTratamento{}).Count(&matriz)
	if quals != matriz {
		t.Errorf("matriz incompleta: %d qualificações, %d linhas", quals, matriz)
	}
}

// TestSeed_EnumeracoesSemDuplicatas: sementes que repetem o mesmo nome de
// gravidade, canal ou órgão reutilizam a linha, sem inflar as tabelas de
// consulta.
func TestSeed_EnumeracoesSemDuplicatas(t *testing.T) {
	db := abreTestDB(t)
	if err := EnsureSchema(db); err != nil {
		t.Fatalf("migração falhou: %v", err)
	}
	if err := Seed(db); err != nil {
		t.Fatalf("semente falhou: %v", err)
	}

	var umaPorNome []struct {
		Nome string
		N    int64
	}
	if err := db.Model(&models.Gravidade{}).
		Select("nome, COUNT(*) AS n").Group("nome").Scan(&umaPorNome).Error; err != nil {
		t.Fatalf("falha ao agrupar gravidades: %v", err)
	}
	for _, g := range umaPorNome {
		if g.N != 1 {
			t.Errorf("gravidade %q duplicada: %d linhas", g.Nome, g.N)
		}
	}

	var canais, orgaos int64
	db.Model(&models.Canal{}).Distinct("nome").Count(&canais)
	var totalCanais int64
	db.Model(&models.Canal{}).Count(&totalCanais)
	if canais != totalCanais {
		t.Errorf("canais duplicados: %d nomes distintos em %d linhas", canais, totalCanais)
	}
	db.Model(&models.Orgao{}).Distinct("nome").Count(&orgaos)
	var totalOrgaos int64
	db.Model(&models.Orgao{}).Count(&totalOrgaos)
	if orgaos != totalOrgaos {
		t.Errorf("órgãos duplicados: %d nomes distintos em %d linhas", orgaos, totalOrgaos)
	}
}
