package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/LeoDuarteM/TccSentinelaVisao/backend/internal/digest"
	"github.com/LeoDuarteM/TccSentinelaVisao/backend/internal/models"
)

// StatusTratamentoPendente marca o tratamento derivado que aguarda o
// encaminhamento operacional.
const StatusTratamentoPendente = "pendente"

// ConfirmacaoService é a máquina de estados por evento:
// NAO_CONFIRMADO -> CONFIRMADO, com a transição explícita de desfazer.
// Garante no máximo uma confirmação por digest de conteúdo.
type ConfirmacaoService interface {
	// Confirmar valida o relato, trava a linha alvo, checa o conflito de
	// digest e grava confirmação + qualificações + tratamento derivado
	// numa única transação. Devolve jaConfirmado = true quando o evento
	// já estava confirmado (no-op idempotente, carimbo intacto).
	Confirmar(ctx context.Context, id uint, req *models.ConfirmarRequest) (ev *models.Evento, jaConfirmado bool, err error)

	// Desconfirmar limpa incondicionalmente os campos de confirmação,
	// as qualificações e o tratamento derivado.
	Desconfirmar(ctx context.Context, id uint) error
}

type confirmacaoService struct {
	db *gorm.DB
}

// NewConfirmacaoService injeta o handle do banco.
func NewConfirmacaoService(db *gorm.DB) ConfirmacaoService {
	return &confirmacaoService{db: db}
}

// travaExclusiva é a aquisição exclusiva da linha durante o checa-e-grava,
// apoiada no primitivo que o backend oferece: SELECT ... FOR UPDATE no
// Postgres; no SQLite a própria transação serializa os escritores.
func travaExclusiva(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

func (s *confirmacaoService) Confirmar(ctx context.Context, id uint, req *models.ConfirmarRequest) (*models.Evento, bool, error) {
	if strings.TrimSpace(req.Relato) == "" {
		return nil, false, ErrRelatoObrigatorio
	}

	var (
		resultado    *models.Evento
		jaConfirmado bool
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Impede duas confirmações concorrentes do mesmo evento.
		var ev models.Evento
		err := travaExclusiva(tx).
			First(&ev, "id_evento = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNaoEncontrado
		}
		if err != nil {
			return err
		}

		if ev.Confirmado {
			resultado = &ev
			jaConfirmado = true
			return nil
		}

		// Digest calculado tardiamente quando ainda falta e há bytes.
		sha := ev.Sha256
		if sha == "" {
			if sum, ok := digest.DeBase64(ev.ImagemBase64); ok {
				sha = sum
			}
		}

		// Nenhum outro evento com o mesmo digest pode já estar
		// confirmado.
		if sha != "" {
			var outro models.Evento
			err := tx.Where("sha256 = ? AND confirmado = ? AND id_evento <> ?", sha, true, id).
				First(&outro).Error
			if err == nil {
				return &ErrConflitoConfirmacao{OutroID: outro.ID}
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		agora := time.Now()
		atual := map[string]any{
			"confirmado":        true,
			"relato":            strings.TrimSpace(req.Relato),
			"operador":          req.Operador,
			"confirmado_em":     agora,
			"tratamento_status": StatusTratamentoPendente,
			"vitimas":           req.Vitimas,
			"menores_idosos":    req.MenoresIdosos,
			"em_andamento":      req.EmAndamento,
		}
		if sha != "" && ev.Sha256 == "" {
			atual["sha256"] = sha
		}
		if err := tx.Model(&ev).Updates(atual).Error; err != nil {
			return err
		}

		if err := s.substituirQualificacoes(tx, id, req.QualificacaoIDs); err != nil {
			return err
		}
		if err := s.derivarTratamento(tx, id, req.QualificacaoIDs); err != nil {
			return err
		}

		if err := tx.First(&ev, "id_evento = ?", id).Error; err != nil {
			return err
		}
		resultado = &ev
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return resultado, jaConfirmado, nil
}

func (s *confirmacaoService) Desconfirmar(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ev models.Evento
		err := travaExclusiva(tx).
			First(&ev, "id_evento = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNaoEncontrado
		}
		if err != nil {
			return err
		}

		atual := map[string]any{
			"confirmado":        false,
			"relato":            "",
			"operador":          "",
			"confirmado_em":     nil,
			"tratamento_status": "",
			"vitimas":           false,
			"menores_idosos":    false,
			"em_andamento":      false,
		}
		if err := tx.Model(&ev).Updates(atual).Error; err != nil {
			return err
		}
		if err := tx.Where("id_evento = ?", id).Delete(&models.EventoQualificacao{}).Error; err != nil {
			return err
		}
		return tx.Where("id_evento = ?", id).Delete(&models.EventoTratamento{}).Error
	})
}

// substituirQualificacoes troca o conjunto inteiro: apaga e insere, nunca
// remenda incrementalmente.
func (s *confirmacaoService) substituirQualificacoes(tx *gorm.DB, eventoID uint, ids []uint) error {
	if err := tx.Where("id_evento = ?", eventoID).Delete(&models.EventoQualificacao{}).Error; err != nil {
		return err
	}
	for _, qid := range ids {
		assoc := models.EventoQualificacao{EventoID: eventoID, QualificacaoID: qid}
		if err := tx.Create(&assoc).Error; err != nil {
			return err
		}
	}
	return nil
}

// derivarTratamento regenera a associação derivada aplicando a matriz de
// tratamento ao conjunto de qualificações escolhido.
func (s *confirmacaoService) derivarTratamento(tx *gorm.DB, eventoID uint, ids []uint) error {
	if err := tx.Where("id_evento = ?", eventoID).Delete(&models.EventoTratamento{}).Error; err != nil {
		return err
	}
	for _, qid := range ids {
		var matriz models.QualificacaoTratamento
		err := tx.Where("id_qualificacao = ?", qid).First(&matriz).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Qualificação sem linha na matriz: fica sem tratamento.
			continue
		}
		if err != nil {
			return err
		}
		trat := models.EventoTratamento{
			EventoID:       eventoID,
			QualificacaoID: qid,
			GravidadeID:    matriz.GravidadeID,
			ProtocoloID:    matriz.ProtocoloID,
			CanalID:        matriz.CanalID,
			OrgaoID:        matriz.OrgaoID,
			Status:         StatusTratamentoPendente,
		}
		if err := tx.Create(&trat).Error; err != nil {
			return err
		}
	}
	return nil
}
