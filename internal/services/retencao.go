package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/LeoDuarteM/TccSentinelaVisao/backend/internal/models"
)

// MedidorUso informa a utilização do armazenamento como um par
// (usado, total). A estratégia concreta fica atrás desta interface para a
// malha de eliminação poder ser testada com um medidor injetado.
type MedidorUso interface {
	Uso(ctx context.Context) (usado, total int64, err error)
}

// Compactador é implementado pelos medidores cujo backend exige um passo
// explícito de compactação para devolver o espaço liberado.
type Compactador interface {
	Compactar(ctx context.Context) error
}

// RetencaoService mantém o armazenamento limitado: quando a utilização
// passa da marca alta, elimina os eventos mais antigos em lotes fixos até
// voltar à marca baixa.
type RetencaoService interface {
	// Varrer é idempotente e barata quando nada precisa ser eliminado;
	// roda inline após cada escrita aceita.
	Varrer(ctx context.Context) error
}

type retencaoService struct {
	db         *gorm.DB
	medidor    MedidorUso
	marcaAlta  float64
	marcaBaixa float64
	lote       int
}

// NewRetencaoService monta a malha de retenção sobre o medidor dado.
func NewRetencaoService(db *gorm.DB, medidor MedidorUso, marcaAlta, marcaBaixa float64, lote int) RetencaoService {
	return &retencaoService{
		db:         db,
		medidor:    medidor,
		marcaAlta:  marcaAlta,
		marcaBaixa: marcaBaixa,
		lote:       lote,
	}
}

// Varrer implementa a malha limitada de eliminação. Condição de parada
// explícita: utilização <= marca baixa OU um lote não removeu nenhuma
// linha. Cada lote é commitado por si, então uma varredura longa não
// segura um único lock gigante; a varredura como um todo pode não ser
// atômica, o que é aceitável porque é idempotente e retomável.
func (s *retencaoService) Varrer(ctx context.Context) error {
	usado, total, err := s.medidor.Uso(ctx)
	if err != nil {
		return err
	}
	if total <= 0 || razao(usado, total) < s.marcaAlta {
		return nil
	}

	for {
		// Eliminação estritamente do mais antigo para o mais novo.
		sub := s.db.WithContext(ctx).
			Model(&models.Evento{}).
			Select("id_evento").
			Order("created_at ASC").
			Limit(s.lote)
		res := s.db.WithContext(ctx).
			Where("id_evento IN (?)", sub).
			Delete(&models.Evento{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		if c, ok := s.medidor.(Compactador); ok {
			if err := c.Compactar(ctx); err != nil {
				return err
			}
		}

		usado, total, err = s.medidor.Uso(ctx)
		if err != nil {
			return err
		}
		if razao(usado, total) <= s.marcaBaixa {
			return nil
		}
	}
}

func razao(usado, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return float64(usado) / float64(total)
}

// contadorLinhas é a estratégia por contagem de linhas, para backends sem
// métrica direta de espaço: usado = COUNT(*), total = máximo configurado.
type contadorLinhas struct {
	db        *gorm.DB
	maxLinhas int64
}

// NewContadorLinhas cria o medidor por contagem de linhas.
func NewContadorLinhas(db *gorm.DB, maxLinhas int64) MedidorUso {
	return &contadorLinhas{db: db, maxLinhas: maxLinhas}
}

func (m *contadorLinhas) Uso(ctx context.Context) (int64, int64, error) {
	var linhas int64
	if err := m.db.WithContext(ctx).Model(&models.Evento{}).Count(&linhas).Error; err != nil {
		return 0, 0, err
	}
	return linhas, m.maxLinhas, nil
}

// medidorSQLite é a estratégia por razão de capacidade: mede o arquivo do
// banco pelos pragmas do SQLite contra um teto de bytes configurado, e
// compacta com VACUUM após cada lote para devolver as páginas liberadas.
type medidorSQLite struct {
	db       *gorm.DB
	maxBytes int64
}

// NewMedidorSQLite cria o medidor de capacidade do SQLite.
func NewMedidorSQLite(db *gorm.DB, maxBytes int64) MedidorUso {
	return &medidorSQLite{db: db, maxBytes: maxBytes}
}

func (m *medidorSQLite) Uso(ctx context.Context) (int64, int64, error) {
	var paginas, tamanho int64
	if err := m.db.WithContext(ctx).Raw("PRAGMA page_count").Scan(&paginas).Error; err != nil {
		return 0, 0, err
	}
	if err := m.db.WithContext(ctx).Raw("PRAGMA page_size").Scan(&tamanho).Error; err != nil {
		return 0, 0, err
	}
	return paginas * tamanho, m.maxBytes, nil
}

func (m *medidorSQLite) Compactar(ctx context.Context) error {
	return m.db.WithContext(ctx).Exec("VACUUM").Error
}
