package services

import (
	"strings"

	"github.com/LeoDuarteM/TccSentinelaVisao/backend/internal/digest"
	"github.com/LeoDuarteM/TccSentinelaVisao/backend/internal/models"
)

// MarcadorAnalise introduz o texto da análise semântica quando o pipeline
// manda os dois textos concatenados num campo só.
const MarcadorAnalise = "Análise LLaVA:"

// Tabela de apelidos: cada campo canônico e os nomes históricos com que o
// pipeline já o enviou. O primeiro apelido presente e não vazio vence.
var (
	apelidosObjeto      = []string{"object", "objeto", "label"}
	apelidosDescPura    = []string{"descricao_pura", "descricao_yolo", "detector_text"}
	apelidosDescricao   = []string{"descricao", "description", "mensagem"}
	apelidosAnalise     = []string{"llava_pt", "analise", "analysis", "llava"}
	apelidosImagem      = []string{"imagem_base64", "image_base64", "imagem", "image"}
	apelidosImagemURL   = []string{"imagem_url", "image_url", "url_imagem", "foto_url"}
	apelidosCameraID    = []string{"camera_id", "id_camera", "camera"}
	apelidosCameraNome  = []string{"camera_nome", "camera_name"}
	apelidosLocal       = []string{"local", "location", "localizacao"}
	apelidosJob         = []string{"job_id", "id_job", "job"}
	apelidosSha         = []string{"sha256", "hash", "hash_imagem", "image_hash"}
	apelidosArquivo     = []string{"arquivo", "nome_arquivo", "filename", "file"}
	apelidosModelo      = []string{"modelo", "model"}
	apelidosConfianca   = []string{"confianca", "confidence", "conf"}
	apelidosImgSize     = []string{"img_size", "imgsz", "tamanho_img"}
	apelidosDuracao     = []string{"duracao_analise", "duracao", "duration"}
	apelidosDetectado   = []string{"detected", "detectado"}
	apelidosVitimas     = []string{"vitimas", "victims"}
	apelidosMenores     = []string{"menores_idosos", "minors_elderly"}
	apelidosEmAndamento = []string{"em_andamento", "in_progress"}
)

// Normalizar converte o payload frouxo recebido do pipeline no Fragmento
// canônico. Campos ausentes viram string vazia ou false, nunca um erro.
func Normalizar(payload map[string]any) *models.Fragmento {
	f := &models.Fragmento{
		Objeto:         pegaTexto(payload, apelidosObjeto),
		AnaliseLlava:   pegaTexto(payload, apelidosAnalise),
		ImagemBase64:   pegaTexto(payload, apelidosImagem),
		ImagemURL:      pegaTexto(payload, apelidosImagemURL),
		CameraID:       pegaTexto(payload, apelidosCameraID),
		CameraNome:     pegaTexto(payload, apelidosCameraNome),
		Local:          pegaTexto(payload, apelidosLocal),
		JobID:          pegaTexto(payload, apelidosJob),
		Sha256:         pegaTexto(payload, apelidosSha),
		Arquivo:        pegaTexto(payload, apelidosArquivo),
		Modelo:         pegaTexto(payload, apelidosModelo),
		Confianca:      pegaNumero(payload, apelidosConfianca),
		ImgSize:        int(pegaNumero(payload, apelidosImgSize)),
		DuracaoAnalise: pegaNumero(payload, apelidosDuracao),
		Vitimas:        pegaBool(payload, apelidosVitimas),
		MenoresIdosos:  pegaBool(payload, apelidosMenores),
		EmAndamento:    pegaBool(payload, apelidosEmAndamento),
	}

	// Texto do detector: o campo "puro" tem preferência; na falta dele,
	// o texto combinado é separado no marcador da análise.
	if pura := pegaTexto(payload, apelidosDescPura); pura != "" {
		f.Descricao = pura
	} else {
		desc, analise := separaDescricao(pegaTexto(payload, apelidosDescricao))
		f.Descricao = desc
		if f.AnaliseLlava == "" {
			f.AnaliseLlava = analise
		}
	}

	// Status deriva do flag "detected" quando ele veio no payload;
	// sem o flag o status fica vazio e não apaga o valor já gravado.
	if v, ok := temChave(payload, apelidosDetectado); ok {
		if comoBool(v) {
			f.Status = models.StatusAlerta
		} else {
			f.Status = models.StatusOK
		}
	}

	// Digest calculado dos bytes inline quando o pipeline não mandou um.
	if f.Sha256 == "" {
		if sum, ok := digest.DeBase64(f.ImagemBase64); ok {
			f.Sha256 = sum
		}
	}

	// job_id ausente assume o digest; sem os dois, segue vazio e o
	// fragmento vira um evento novo.
	if f.JobID == "" {
		f.JobID = f.Sha256
	}

	return f
}

// separaDescricao divide um texto combinado em (detector, análise) usando
// o marcador fixo. Sem marcador, tudo é texto do detector.
func separaDescricao(s string) (string, string) {
	if s == "" {
		return "", ""
	}
	if i := strings.Index(s, MarcadorAnalise); i >= 0 {
		return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+len(MarcadorAnalise):])
	}
	return strings.TrimSpace(s), ""
}

func temChave(m map[string]any, chaves []string) (any, bool) {
	for _, k := range chaves {
		if v, ok := m[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func pegaTexto(m map[string]any, chaves []string) string {
	for _, k := range chaves {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func pegaNumero(m map[string]any, chaves []string) float64 {
	if v, ok := temChave(m, chaves); ok {
		switch n := v.(type) {
		case float64:
			return n
		case int:
			return float64(n)
		case int64:
			return float64(n)
		}
	}
	return 0
}

func pegaBool(m map[string]any, chaves []string) bool {
	if v, ok := temChave(m, chaves); ok {
		return comoBool(v)
	}
	return false
}

func comoBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return b == "true" || b == "1" || b == "sim"
	case float64:
		return b != 0
	}
	return false
}
