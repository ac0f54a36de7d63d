package services

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/LeoDuarteM/TccSentinelaVisao/backend/internal/config"
	"github.com/LeoDuarteM/TccSentinelaVisao/backend/internal/models"
)

// EventoService é o único componente que escreve na tabela de eventos.
// Toda mutação de um fragmento passa por ProcessarFragmento, que decide
// entre mesclar num evento existente ou criar um novo.
type EventoService interface {
	// ProcessarFragmento resolve a correlação do fragmento e aplica a
	// mescla-sem-apagar ou a criação, numa única transação. A varredura
	// de retenção roda em seguida, no mesmo fluxo da requisição.
	ProcessarFragmento(ctx context.Context, f *models.Fragmento) (*models.Evento, error)

	CriarEvento(ctx context.Context, f *models.Fragmento) (*models.Evento, error)
	MesclarEvento(ctx context.Context, id uint, f *models.Fragmento) (*models.Evento, error)

	BuscarPorID(ctx context.Context, id uint) (*models.Evento, error)
	BuscarPorHash(ctx context.Context, sha string) (*models.Evento, error)
	BuscarPorJob(ctx context.Context, jobID string) (*models.Evento, error)
}

type eventoService struct {
	db       *gorm.DB
	cfg      *config.Config
	retencao RetencaoService
}

// NewEventoService injeta o handle do banco, a configuração das janelas
// de correlação e o serviço de retenção acionado após cada escrita.
func NewEventoService(db *gorm.DB, cfg *config.Config, retencao RetencaoService) EventoService {
	return &eventoService{db: db, cfg: cfg, retencao: retencao}
}

func (s *eventoService) ProcessarFragmento(ctx context.Context, f *models.Fragmento) (*models.Evento, error) {
	var resultado *models.Evento

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		alvo, err := s.resolver(tx, f)
		if err != nil {
			return err
		}
		if alvo == nil {
			ev := eventoDoFragmento(f)
			if err := tx.Create(ev).Error; err != nil {
				return err
			}
			resultado = ev
			return nil
		}
		ev, err := s.mesclar(tx, alvo.ID, f)
		if err != nil {
			return err
		}
		resultado = ev
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Retenção roda depois do commit, com lotes próprios. Uma falha aqui
	// é registrada e nunca derruba a escrita que a disparou.
	if s.retencao != nil {
		if err := s.retencao.Varrer(ctx); err != nil {
			log.Printf("aviso: varredura de retenção falhou: %v", err)
		}
	}
	return resultado, nil
}

func (s *eventoService) CriarEvento(ctx context.Context, f *models.Fragmento) (*models.Evento, error) {
	ev := eventoDoFragmento(f)
	if err := s.db.WithContext(ctx).Create(ev).Error; err != nil {
		return nil, err
	}
	return ev, nil
}

func (s *eventoService) MesclarEvento(ctx context.Context, id uint, f *models.Fragmento) (*models.Evento, error) {
	var resultado *models.Evento
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ev, err := s.mesclar(tx, id, f)
		if err != nil {
			return err
		}
		resultado = ev
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resultado, nil
}

// mesclar aplica a regra de mescla-sem-apagar campo a campo: só valores
// não vazios do fragmento substituem o que está gravado. O carimbo de
// última atualização avança em toda mescla aceita, mesmo vazia.
func (s *eventoService) mesclar(tx *gorm.DB, id uint, f *models.Fragmento) (*models.Evento, error) {
	atual := map[string]any{"updated_at": time.Now()}

	poe := func(coluna, valor string) {
		if valor != "" {
			atual[coluna] = valor
		}
	}
	poe("status", f.Status)
	poe("objeto", f.Objeto)
	poe("descricao", f.Descricao)
	poe("llava_pt", f.AnaliseLlava)
	poe("imagem_base64", f.ImagemBase64)
	poe("imagem_url", f.ImagemURL)
	poe("camera_id", f.CameraID)
	poe("camera_nome", f.CameraNome)
	poe("local", f.Local)
	poe("job_id", f.JobID)
	poe("sha256", f.Sha256)
	poe("arquivo", f.Arquivo)
	poe("modelo", f.Modelo)

	if f.Confianca != 0 {
		atual["confianca"] = f.Confianca
	}
	if f.ImgSize != 0 {
		atual["img_size"] = f.ImgSize
	}
	if f.DuracaoAnalise != 0 {
		atual["duracao_analise"] = f.DuracaoAnalise
	}
	// Flags booleanos: o valor "vazio" é false, então só true sobrescreve.
	if f.Vitimas {
		atual["vitimas"] = true
	}
	if f.MenoresIdosos {
		atual["menores_idosos"] = true
	}
	if f.EmAndamento {
		atual["em_andamento"] = true
	}

	res := tx.Model(&models.Evento{}).Where("id_evento = ?", id).Updates(atual)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNaoEncontrado
	}

	var ev models.Evento
	if err := tx.First(&ev, "id_evento = ?", id).Error; err != nil {
		return nil, err
	}
	return &ev, nil
}

func (s *eventoService) BuscarPorID(ctx context.Context, id uint) (*models.Evento, error) {
	var ev models.Evento
	err := s.db.WithContext(ctx).First(&ev, "id_evento = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNaoEncontrado
	}
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

func (s *eventoService) BuscarPorHash(ctx context.Context, sha string) (*models.Evento, error) {
	var ev models.Evento
	err := s.db.WithContext(ctx).
		Where("sha256 = ?", sha).
		Order("updated_at DESC").
		First(&ev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNaoEncontrado
	}
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

func (s *eventoService) BuscarPorJob(ctx context.Context, jobID string) (*models.Evento, error) {
	var ev models.Evento
	err := s.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("updated_at DESC").
		First(&ev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNaoEncontrado
	}
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

// eventoDoFragmento monta a linha inicial de um evento novo.
func eventoDoFragmento(f *models.Fragmento) *models.Evento {
	status := f.Status
	if status == "" {
		status = models.StatusOK
	}
	return &models.Evento{
		Status:         status,
		Objeto:         f.Objeto,
		Descricao:      f.Descricao,
		AnaliseLlava:   f.AnaliseLlava,
		ImagemBase64:   f.ImagemBase64,
		ImagemURL:      f.ImagemURL,
		CameraID:       f.CameraID,
		CameraNome:     f.CameraNome,
		Local:          f.Local,
		JobID:          f.JobID,
		Sha256:         f.Sha256,
		Arquivo:        f.Arquivo,
		Modelo:         f.Modelo,
		Confianca:      f.Confianca,
		ImgSize:        f.ImgSize,
		DuracaoAnalise: f.DuracaoAnalise,
		Vitimas:        f.Vitimas,
		MenoresIdosos:  f.MenoresIdosos,
		EmAndamento:    f.EmAndamento,
	}
}
