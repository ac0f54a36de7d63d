package services

import (
	"encoding/base64"
	"testing"

	"github.com/LeoDuarteM/TccSentinelaVisao/backend/internal/digest"
)

// TestNormalizar_Apelidos verifica que os nomes históricos dos campos
// resolvem para o campo canônico.
func TestNormalizar_Apelidos(t *testing.T) {
	f := Normalizar(map[string]any{
		"object":      "person",
		"image_hash":  "abc123",
		"camera_name": "Portaria Norte",
		"location":    "bloco-b",
		"filename":    "cam1_20250101_120000_001.jpg",
		"confidence":  0.87,
	})

	if f.Objeto != "person" {
		t.Errorf("objeto: got %q", f.Objeto)
	}
	if f.Sha256 != "abc123" {
		t.Errorf("sha256 via apelido image_hash: got %q", f.Sha256)
	}
	if f.CameraNome != "Portaria Norte" {
		t.Errorf("camera_nome: got %q", f.CameraNome)
	}
	if f.Local != "bloco-b" {
		t.Errorf("local: got %q", f.Local)
	}
	if f.Arquivo != "cam1_20250101_120000_001.jpg" {
		t.Errorf("arquivo: got %q", f.Arquivo)
	}
	if f.Confianca != 0.87 {
		t.Errorf("confianca: got %v", f.Confianca)
	}
}

// TestNormalizar_SeparaDescricao verifica a quebra do texto combinado no
// marcador da análise, e a preferência pelo campo puro quando presente.
func TestNormalizar_SeparaDescricao(t *testing.T) {
	f := Normalizar(map[string]any{
		"descricao": "pessoa próxima ao portão " + MarcadorAnalise + " indivíduo carregando objeto comprido",
	})
	if f.Descricao != "pessoa próxima ao portão" {
		t.Errorf("texto do detector: got %q", f.Descricao)
	}
	if f.AnaliseLlava != "indivíduo carregando objeto comprido" {
		t.Errorf("texto da análise: got %q", f.AnaliseLlava)
	}

	// Campo puro vence o combinado.
	f = Normalizar(map[string]any{
		"descricao_pura": "só detector",
		"descricao":      "combinado " + MarcadorAnalise + " não deveria ser usado",
	})
	if f.Descricao != "só detector" {
		t.Errorf("descricao_pura deveria vencer: got %q", f.Descricao)
	}

	// Sem marcador, tudo é texto do detector.
	f = Normalizar(map[string]any{"descricao": "apenas detector"})
	if f.Descricao != "apenas detector" || f.AnaliseLlava != "" {
		t.Errorf("sem marcador: got (%q, %q)", f.Descricao, f.AnaliseLlava)
	}
}

// TestNormalizar_DigestEJob verifica o digest calculado dos bytes inline
// e o job_id assumindo o digest quando ausente.
func TestNormalizar_DigestEJob(t *testing.T) {
	raw := []byte("conteudo-da-imagem")
	b64 := base64.StdEncoding.EncodeToString(raw)
	esperado, _ := digest.DoBytes(raw)

	f := Normalizar(map[string]any{"imagem_base64": b64})
	if f.Sha256 != esperado {
		t.Errorf("digest calculado dos bytes: got %q, want %q", f.Sha256, esperado)
	}
	if f.JobID != esperado {
		t.Errorf("job_id deveria assumir o digest: got %q", f.JobID)
	}

	// Digest enviado pelo pipeline tem prioridade sobre o calculado.
	f = Normalizar(map[string]any{"imagem_base64": b64, "sha256": "enviado"})
	if f.Sha256 != "enviado" {
		t.Errorf("digest enviado deveria vencer: got %q", f.Sha256)
	}

	// Sem imagem e sem digest, os dois seguem vazios (evento novo).
	f = Normalizar(map[string]any{"object": "person"})
	if f.Sha256 != "" || f.JobID != "" {
		t.Errorf("esperava digest e job vazios, obteve (%q, %q)", f.Sha256, f.JobID)
	}
}

// TestNormalizar_Status verifica a derivação do status pelo flag detected
// e o status vazio quando o flag não veio (não apaga o gravado).
func TestNormalizar_Status(t *testing.T) {
	if f := Normalizar(map[string]any{"detected": true}); f.Status != "alerta" {
		t.Errorf("detected=true: got %q", f.Status)
	}
	if f := Normalizar(map[string]any{"detected": false}); f.Status != "ok" {
		t.Errorf("detected=false: got %q", f.Status)
	}
	if f := Normalizar(map[string]any{"object": "person"}); f.Status != "" {
		t.Errorf("sem flag: got %q", f.Status)
	}
}

// TestNormalizar_SemPanico garante que campos ausentes ou com tipos
// estranhos nunca derrubam a normalização.
func TestNormalizar_SemPanico(t *testing.T) {
	f := Normalizar(map[string]any{
		"object":     nil,
		"confianca":  "não-número",
		"vitimas":    "sim",
		"img_size":   float64(640),
		"detectado":  1.0,
	})
	if f.Objeto != "" {
		t.Errorf("objeto nil deveria virar vazio: got %q", f.Objeto)
	}
	if !f.Vitimas {
		t.Errorf("vitimas=\"sim\" deveria virar true")
	}
	if f.ImgSize != 640 {
		t.Errorf("img_size: got %d", f.ImgSize)
	}
	if f.Status != "alerta" {
		t.Errorf("detectado=1.0 deveria derivar alerta: got %q", f.Status)
	}
}
