package database

import (
	"gorm.io/gorm"

	"github.com/LeoDuarteM/TccSentinelaVisao/backend/internal/models"
)

// Semente padrão da matriz de tratamento. Só é aplicada quando as tabelas
// de consulta estão vazias; uma base já populada nunca é sobrescrita por
// uma nova execução do seed.

type sementeQualificacao struct {
	Nome      string
	Nivel     int
	Gravidade string
	Protocolo string
	Canal     string
	Orgao     string
}

var sementes = []sementeQualificacao{
	{"roubo-a-mao-armada", 5, "critica", "Despacho imediato de viatura e isolamento do perímetro", "telefone-190", "Polícia Militar"},
	{"tentativa-de-acesso-nao-autorizado", 3, "alta", "Verificação presencial pela ronda do setor", "radio-operacional", "Guarda Municipal"},
	{"furto", 3, "alta", "Registro de ocorrência e revisão das gravações", "telefone-190", "Polícia Militar"},
	{"vandalismo", 2, "media", "Notificação da zeladoria e registro fotográfico", "central-operacional", "Guarda Municipal"},
	{"pessoa-em-atitude-suspeita", 1, "baixa", "Observação contínua pelo operador", "central-operacional", "Monitoramento"},
	{"aglomeracao", 1, "baixa", "Acompanhamento e aviso preventivo à ronda", "central-operacional", "Monitoramento"},
}

// Seed popula as tabelas de consulta (qualificações, gravidades, protocolos,
// canais, órgãos) e a matriz de tratamento a partir dos defaults fixos.
// Retorna sem efeito quando já existem qualificações cadastradas.
func Seed(db *gorm.DB) error {
	var total int64
	if err := db.Model(&models.Qualificacao{}).Count(&total).Error; err != nil {
		return err
	}
	if total > 0 {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		// As tabelas de consulta são enumerações: nomes repetidos entre
		// as sementes reutilizam a mesma linha.
		gravidades := map[string]uint{}
		protocolos := map[string]uint{}
		canais := map[string]uint{}
		orgaos := map[string]uint{}

		for _, s := range sementes {
			q := models.Qualificacao{Nome: s.Nome}
			if err := tx.Create(&q).Error; err != nil {
				return err
			}
			if _, ok := gravidades[s.Gravidade]; !ok {
				g := models.Gravidade{Nivel: s.Nivel, Nome: s.Gravidade}
				if err := tx.Create(&g).Error; err != nil {
					return err
				}
				gravidades[s.Gravidade] = g.ID
			}
			if _, ok := protocolos[s.Protocolo]; !ok {
				p := models.Protocolo{Descricao: s.Protocolo}
				if err := tx.Create(&p).Error; err != nil {
					return err
				}
				protocolos[s.Protocolo] = p.ID
			}
			if _, ok := canais[s.Canal]; !ok {
				c := models.Canal{Nome: s.Canal}
				if err := tx.Create(&c).Error; err != nil {
					return err
				}
				canais[s.Canal] = c.ID
			}
			if _, ok := orgaos[s.Orgao]; !ok {
				o := models.Orgao{Nome: s.Orgao}
				if err := tx.Create(&o).Error; err != nil {
					return err
				}
				orgaos[s.Orgao] = o.ID
			}
			m := models.QualificacaoTratamento{
				QualificacaoID: q.ID,
				GravidadeID:    gravidades[s.Gravidade],
				ProtocoloID:    protocolos[s.Protocolo],
				CanalID:        canais[s.Canal],
				OrgaoID:        orgaos[s.Orgao],
			}
			if err := tx.Create(&m).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
