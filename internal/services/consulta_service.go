package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/LeoDuarteM/TccSentinelaVisao/backend/internal/digest"
	"github.com/LeoDuarteM/TccSentinelaVisao/backend/internal/models"
)

// ConsultaService é a superfície somente-leitura usada pelo painel:
// listagem filtrada e paginada, e recuperação da imagem de um evento.
type ConsultaService interface {
	Listar(ctx context.Context, filtro *models.FiltroEventos) ([]models.EventoResumo, int64, error)

	// Imagem devolve os bytes inline decodificados ou, na falta deles,
	// a URL externa para redirecionamento.
	Imagem(ctx context.Context, id uint) (bytes []byte, url string, err error)
}

type consultaService struct {
	db *gorm.DB
}

// NewConsultaService injeta o handle do banco.
func NewConsultaService(db *gorm.DB) ConsultaService {
	return &consultaService{db: db}
}

// Campos alcançados pelos tokens de texto livre da busca.
var camposBusca = []string{"objeto", "descricao", "llava_pt", "job_id", "camera_id", "camera_nome", "local"}

// linhaResumo é a projeção lida do banco; a imagem inline entra só como
// um indicador de presença, nunca como o blob inteiro.
type linhaResumo struct {
	ID           uint
	CreatedAt    time.Time
	Status       string
	Objeto       string
	Descricao    string
	AnaliseLlava string
	CameraID     string
	CameraNome   string
	Local        string
	JobID        string
	Confirmado   bool
	ConfirmadoEm *time.Time
	TemInline    bool
	ImagemURL    string
}

func (s *consultaService) Listar(ctx context.Context, filtro *models.FiltroEventos) ([]models.EventoResumo, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Evento{})

	// Tokens combinados com OR entre todos os campos de busca; os
	// valores entram sempre como parâmetros, nunca interpolados.
	if len(filtro.Tokens) > 0 {
		var conds []string
		var args []any
		for _, token := range filtro.Tokens {
			token = strings.TrimSpace(token)
			if token == "" {
				continue
			}
			for _, campo := range camposBusca {
				conds = append(conds, campo+" LIKE ?")
				args = append(args, "%"+token+"%")
			}
		}
		if len(conds) > 0 {
			q = q.Where(strings.Join(conds, " OR "), args...)
		}
	}

	if filtro.Data != nil {
		// O chamador já entrega a meia-noite no fuso dele; o recorte do
		// dia é [meia-noite, meia-noite+24h) nesse mesmo fuso.
		dia := *filtro.Data
		q = q.Where("created_at >= ? AND created_at < ?", dia, dia.Add(24*time.Hour))
	}
	if filtro.Status != "" {
		q = q.Where("status = ?", filtro.Status)
	}
	if filtro.Confirmado != nil {
		q = q.Where("confirmado = ?", *filtro.Confirmado)
	}

	// Sessão reutilizável: a mesma cadeia de predicados serve para a
	// contagem e para a página.
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	pagina := filtro.Pagina
	if pagina < 1 {
		pagina = 1
	}
	tamanho := filtro.TamanhoPagina
	if tamanho < 1 || tamanho > 200 {
		tamanho = 50
	}

	var linhas []linhaResumo
	err := q.
		Select("id_evento AS id, created_at, status, objeto, descricao, llava_pt AS analise_llava, " +
			"camera_id, camera_nome, local, job_id, confirmado, confirmado_em, " +
			"COALESCE(imagem_base64, '') <> '' AS tem_inline, imagem_url").
		Order("created_at DESC").
		Offset((pagina - 1) * tamanho).
		Limit(tamanho).
		Scan(&linhas).Error
	if err != nil {
		return nil, 0, err
	}

	resumos := make([]models.EventoResumo, 0, len(linhas))
	for _, l := range linhas {
		r := models.EventoResumo{
			ID:           l.ID,
			CreatedAt:    l.CreatedAt,
			Status:       l.Status,
			Objeto:       l.Objeto,
			Descricao:    l.Descricao,
			AnaliseLlava: l.AnaliseLlava,
			CameraID:     l.CameraID,
			CameraNome:   l.CameraNome,
			Local:        l.Local,
			JobID:        l.JobID,
			Confirmado:   l.Confirmado,
			ConfirmadoEm: l.ConfirmadoEm,
			TemImagem:    l.TemInline || l.ImagemURL != "",
		}
		switch {
		case l.ImagemURL != "":
			r.ImagemRef = l.ImagemURL
		case l.TemInline:
			r.ImagemRef = fmt.Sprintf("/api/v1/eventos/%d/imagem", l.ID)
		}
		resumos = append(resumos, r)
	}
	return resumos, total, nil
}

func (s *consultaService) Imagem(ctx context.Context, id uint) ([]byte, string, error) {
	var ev models.Evento
	err := s.db.WithContext(ctx).
		Select("id_evento", "imagem_base64", "imagem_url").
		First(&ev, "id_evento = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", ErrNaoEncontrado
	}
	if err != nil {
		return nil, "", err
	}

	if ev.ImagemBase64 != "" {
		raw, err := digest.Decodifica(ev.ImagemBase64)
		if err == nil {
			return raw, "", nil
		}
		// Base64 corrompido cai para a URL externa, se houver.
	}
	if ev.ImagemURL != "" {
		return nil, ev.ImagemURL, nil
	}
	return nil, "", ErrNaoEncontrado
}
