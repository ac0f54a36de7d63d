package services

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/LeoDuarteM/TccSentinelaVisao/backend/internal/digest"
	"github.com/LeoDuarteM/TccSentinelaVisao/backend/internal/models"
)

// resolver decide "atualiza o evento X" ou "cria evento novo" para um
// fragmento normalizado. Os níveis são tentados em ordem e o primeiro que
// casar vence; dentro de um nível, vence o candidato mais recente.
//
// As únicas chaves confiáveis são job_id e o digest de conteúdo. Casar só
// pelo nome do arquivo é proibido: nomes não são únicos e produziriam
// mesclas falsas.
//
// Retorna (nil, nil) quando nenhum nível casa e o fragmento deve virar um
// evento novo.
func (s *eventoService) resolver(tx *gorm.DB, f *models.Fragmento) (*models.Evento, error) {
	// Nível 1: identidade de conteúdo. O digest é a chave mais forte;
	// o par (job_id, sha256) exato é tentado antes do digest sozinho.
	if ev, err := s.porDigest(tx, f); ev != nil || err != nil {
		return ev, err
	}

	// Nível 2: recência do mesmo job. Cobre o evento do detector seguido
	// de perto pelo evento da análise, antes de existir digest.
	if ev, err := s.porRecencia(tx, f); ev != nil || err != nil {
		return ev, err
	}

	// Nível 3: redescoberta por conteúdo. Um fragmento com digest pode
	// reivindicar um evento antigo que guardou a imagem inline sem digest.
	if ev, err := s.porRedescoberta(tx, f); ev != nil || err != nil {
		return ev, err
	}

	// Nível 4: inferência por metadados da referência externa da imagem.
	if ev, err := s.porMetadados(tx, f); ev != nil || err != nil {
		return ev, err
	}

	return nil, nil
}

func (s *eventoService) porDigest(tx *gorm.DB, f *models.Fragmento) (*models.Evento, error) {
	if f.Sha256 == "" {
		return nil, nil
	}

	var ev models.Evento

	// job_id explícito (não derivado do próprio digest) restringe antes.
	if f.JobID != "" && f.JobID != f.Sha256 {
		err := tx.Where("job_id = ? AND sha256 = ?", f.JobID, f.Sha256).
			Order("updated_at DESC").
			First(&ev).Error
		if err == nil {
			return &ev, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	err := tx.Where("sha256 = ?", f.Sha256).
		Order("updated_at DESC").
		First(&ev).Error
	if err == nil {
		return &ev, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return nil, nil
}

func (s *eventoService) porRecencia(tx *gorm.DB, f *models.Fragmento) (*models.Evento, error) {
	if f.JobID == "" {
		return nil, nil
	}

	corte := time.Now().Add(-time.Duration(s.cfg.JanelaRecenciaSeg) * time.Second)

	var ev models.Evento
	err := tx.Where("job_id = ? AND updated_at >= ?", f.JobID, corte).
		Order("updated_at DESC").
		First(&ev).Error
	if err == nil {
		return &ev, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return nil, nil
}

// porRedescoberta varre um conjunto limitado (mais recentes primeiro) de
// eventos que guardaram a imagem inline mas ainda não têm digest,
// recalcula o digest de cada um e devolve o primeiro que bater com o do
// fragmento. A varredura é em streaming: nunca materializa mais de uma
// linha por vez, e para no teto configurado.
func (s *eventoService) porRedescoberta(tx *gorm.DB, f *models.Fragmento) (*models.Evento, error) {
	if f.Sha256 == "" {
		return nil, nil
	}

	rows, err := tx.Model(&models.Evento{}).
		Select("id_evento", "imagem_base64").
		Where("(sha256 IS NULL OR sha256 = '') AND imagem_base64 <> ''").
		Order("updated_at DESC").
		Limit(s.cfg.LimiteRedescoberta).
		Rows()
	if err != nil {
		return nil, err
	}

	var achadoID uint
	for rows.Next() {
		var id uint
		var imagem string
		if err := rows.Scan(&id, &imagem); err != nil {
			rows.Close()
			return nil, err
		}
		if sum, ok := digest.DeBase64(imagem); ok && sum == f.Sha256 {
			achadoID = id
			break
		}
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if achadoID == 0 {
		return nil, nil
	}

	var ev models.Evento
	if err := tx.First(&ev, "id_evento = ?", achadoID).Error; err != nil {
		return nil, err
	}
	return &ev, nil
}

// refTemporal reconhece o padrão ..._<data-8-dígitos>_<hora-6-dígitos>_...
// usado na convenção de nomes das câmeras (ex.: cam3_20250101_101500_001.jpg).
var refTemporal = regexp.MustCompile(`(?:^|_)(\d{8})_(\d{6})(?:_|\.|$)`)

// porMetadados tenta a inferência quando nem job_id nem digest resolveram
// nada mas há identidade de câmera: procura um evento ainda sem digest,
// da mesma câmera (por id ou por nome), cujo instante inferido da
// referência externa da imagem caia dentro da janela simétrica.
func (s *eventoService) porMetadados(tx *gorm.DB, f *models.Fragmento) (*models.Evento, error) {
	if f.CameraID == "" && f.CameraNome == "" {
		return nil, nil
	}

	// Instante do fragmento: o embutido na sua própria referência,
	// senão o momento da chegada.
	instante := time.Now()
	if t, ok := instanteDaReferencia(f.ImagemURL); ok {
		instante = t
	} else if t, ok := instanteDaReferencia(f.Arquivo); ok {
		instante = t
	}
	janela := time.Duration(s.cfg.JanelaMetadadosSeg) * time.Second

	rows, err := tx.Model(&models.Evento{}).
		Select("id_evento", "imagem_url", "arquivo", "camera_id", "camera_nome", "created_at").
		Where("(sha256 IS NULL OR sha256 = '') AND (imagem_url <> '' OR arquivo <> '')").
		Order("updated_at DESC").
		Limit(s.cfg.LimiteRedescoberta).
		Rows()
	if err != nil {
		return nil, err
	}

	var achadoID uint
	for rows.Next() {
		var (
			id             uint
			url, arq       string
			camID, camNome string
			criadoEm       time.Time
		)
		if err := rows.Scan(&id, &url, &arq, &camID, &camNome, &criadoEm); err != nil {
			rows.Close()
			return nil, err
		}
		if !mesmaCamera(f, url, arq, camID, camNome) {
			continue
		}
		quando := criadoEm
		if t, ok := instanteDaReferencia(url); ok {
			quando = t
		} else if t, ok := instanteDaReferencia(arq); ok {
			quando = t
		}
		delta := instante.Sub(quando)
		if delta < 0 {
			delta = -delta
		}
		if delta <= janela {
			achadoID = id
			break
		}
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if achadoID == 0 {
		return nil, nil
	}

	var ev models.Evento
	if err := tx.First(&ev, "id_evento = ?", achadoID).Error; err != nil {
		return nil, err
	}
	return &ev, nil
}

// instanteDaReferencia extrai o carimbo de tempo embutido no nome do
// arquivo pela convenção das câmeras.
func instanteDaReferencia(ref string) (time.Time, bool) {
	if ref == "" {
		return time.Time{}, false
	}
	m := refTemporal.FindStringSubmatch(ref)
	if m == nil {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation("20060102150405", m[1]+m[2], time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// mesmaCamera compara a identidade de câmera do fragmento com a do
// candidato: pelas colunas gravadas ou pelo prefixo da convenção de nomes
// ("cam3_..." identifica a câmera 3).
func mesmaCamera(f *models.Fragmento, url, arq, camID, camNome string) bool {
	if f.CameraID != "" && camID != "" && f.CameraID == camID {
		return true
	}
	if f.CameraNome != "" && camNome != "" && f.CameraNome == camNome {
		return true
	}
	for _, ref := range []string{url, arq} {
		prefixo := prefixoCamera(ref)
		if prefixo == "" {
			continue
		}
		if f.CameraNome != "" && prefixo == f.CameraNome {
			return true
		}
		if f.CameraID != "" && strings.TrimPrefix(prefixo, "cam") == f.CameraID {
			return true
		}
	}
	return false
}

func prefixoCamera(ref string) string {
	if ref == "" {
		return ""
	}
	// Só a parte final do caminho interessa.
	if i := strings.LastIndexAny(ref, "/\\"); i >= 0 {
		ref = ref[i+1:]
	}
	m := refTemporal.FindStringIndex(ref)
	if m == nil {
		return ""
	}
	return strings.TrimSuffix(ref[:m[0]], "_")
}
