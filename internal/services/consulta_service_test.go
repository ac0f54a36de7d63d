package services

import (
	"context"
	"encoding/base64"
	"testing"
	"time"

	"github.com/LeoDuarteM/TccSentinelaVisao/backend/internal/models"
)

// TestListar_TokensOR: tokens de texto livre casam com OR entre os campos
// de objeto, descrição, identificadores, câmera e local.
func TestListar_TokensOR(t *testing.T) {
	db := setupTestDB(t)
	svc := NewConsultaService(db)
	ctx := context.Background()

	criaEvento(t, db, &models.Evento{Status: "alerta", Objeto: "person", Local: "portaria"})
	criaEvento(t, db, &models.Evento{Status: "ok", Objeto: "carro", CameraNome: "Portaria Norte"})
	criaEvento(t, db, &models.Evento{Status: "ok", Objeto: "cachorro", Local: "garagem"})

	resumos, total, err := svc.Listar(ctx, &models.FiltroEventos{Tokens: []string{"portaria"}})
	if err != nil {
		t.Fatalf("esperava sem erro, obteve: %v", err)
	}
	// "portaria" casa no local do primeiro e no nome da câmera do segundo.
	if total != 2 || len(resumos) != 2 {
		t.Errorf("esperava 2 resultados, obteve total=%d len=%d", total, len(resumos))
	}
}

// TestListar_Filtros cobre status, estado de confirmação e data.
func TestListar_Filtros(t *testing.T) {
	db := setupTestDB(t)
	svc := NewConsultaService(db)
	ctx := context.Background()

	criaEvento(t, db, &models.Evento{Status: "alerta", Objeto: "person"})
	confirmadoEm := time.Now()
	criaEvento(t, db, &models.Evento{
		Status: "alerta", Objeto: "faca", Confirmado: true, ConfirmadoEm: &confirmadoEm,
	})
	criaEvento(t, db, &models.Evento{Status: "ok", Objeto: "carro"})

	_, total, err := svc.Listar(ctx, &models.FiltroEventos{Status: "alerta"})
	if err != nil {
		t.Fatalf("filtro de status falhou: %v", err)
	}
	if total != 2 {
		t.Errorf("status=alerta: esperava 2, obteve %d", total)
	}

	sim := true
	_, total, err = svc.Listar(ctx, &models.FiltroEventos{Confirmado: &sim})
	if err != nil {
		t.Fatalf("filtro de confirmação falhou: %v", err)
	}
	if total != 1 {
		t.Errorf("confirmado=true: esperava 1, obteve %d", total)
	}

	ontem := time.Now().Add(-48 * time.Hour)
	_, total, err = svc.Listar(ctx, &models.FiltroEventos{Data: &ontem})
	if err != nil {
		t.Fatalf("filtro de data falhou: %v", err)
	}
	if total != 0 {
		t.Errorf("data de anteontem: esperava 0, obteve %d", total)
	}
}

// TestListar_DataEmFusoNaoUTC: o recorte do dia respeita o fuso da
// meia-noite recebida; um evento da noite local não pode escapar da
// janela nem puxar o dia anterior para dentro.
func TestListar_DataEmFusoNaoUTC(t *testing.T) {
	db := setupTestDB(t)
	svc := NewConsultaService(db)
	ctx := context.Background()

	fuso := time.FixedZone("BRT", -3*60*60)
	noite := time.Date(2025, 1, 1, 22, 0, 0, 0, fuso)
	vespera := time.Date(2024, 12, 31, 23, 0, 0, 0, fuso)
	criaEvento(t, db, &models.Evento{Status: "ok", Objeto: "person", CreatedAt: noite})
	criaEvento(t, db, &models.Evento{Status: "ok", Objeto: "carro", CreatedAt: vespera})

	dia := time.Date(2025, 1, 1, 0, 0, 0, 0, fuso)
	resumos, total, err := svc.Listar(ctx, &models.FiltroEventos{Data: &dia})
	if err != nil {
		t.Fatalf("filtro de data falhou: %v", err)
	}
	if total != 1 || len(resumos) != 1 {
		t.Fatalf("dia 2025-01-01 no fuso -03:00: esperava 1 evento, obteve total=%d len=%d", total, len(resumos))
	}
	if resumos[0].Objeto != "person" {
		t.Errorf("evento errado dentro da janela do dia: %+v", resumos[0])
	}
}

// TestListar_Paginacao verifica o recorte por página e o total estável.
func TestListar_Paginacao(t *testing.T) {
	db := setupTestDB(t)
	svc := NewConsultaService(db)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		criaEvento(t, db, &models.Evento{Status: "ok", Objeto: "person"})
	}

	resumos, total, err := svc.Listar(ctx, &models.FiltroEventos{Pagina: 2, TamanhoPagina: 2})
	if err != nil {
		t.Fatalf("esperava sem erro, obteve: %v", err)
	}
	if total != 5 {
		t.Errorf("total deveria ignorar a paginação: got %d", total)
	}
	if len(resumos) != 2 {
		t.Errorf("página 2 de tamanho 2: esperava 2 itens, obteve %d", len(resumos))
	}
}

// TestListar_ReferenciaDeImagem confere o indicador tem_imagem e a
// referência de recuperação (URL externa ou rota interna).
func TestListar_ReferenciaDeImagem(t *testing.T) {
	db := setupTestDB(t)
	svc := NewConsultaService(db)
	ctx := context.Background()

	b64 := base64.StdEncoding.EncodeToString([]byte("frame"))
	inline := criaEvento(t, db, &models.Evento{Status: "ok", Objeto: "a", ImagemBase64: b64})
	externo := criaEvento(t, db, &models.Evento{Status: "ok", Objeto: "b", ImagemURL: "https://cdn/x.jpg"})
	criaEvento(t, db, &models.Evento{Status: "ok", Objeto: "c"})

	resumos, _, err := svc.Listar(ctx, &models.FiltroEventos{})
	if err != nil {
		t.Fatalf("esperava sem erro, obteve: %v", err)
	}
	porID := map[uint]models.EventoResumo{}
	for _, r := range resumos {
		porID[r.ID] = r
	}

	if r := porID[inline.ID]; !r.TemImagem || r.ImagemRef == "" {
		t.Errorf("evento com imagem inline: %+v", r)
	}
	if r := porID[externo.ID]; !r.TemImagem || r.ImagemRef != "https://cdn/x.jpg" {
		t.Errorf("evento com URL externa: %+v", r)
	}
	for id, r := range porID {
		if id != inline.ID && id != externo.ID && (r.TemImagem || r.ImagemRef != "") {
			t.Errorf("evento sem imagem marcado com imagem: %+v", r)
		}
	}
}

// TestImagem devolve bytes inline, URL externa ou não-encontrado.
func TestImagem(t *testing.T) {
	db := setupTestDB(t)
	svc := NewConsultaService(db)
	ctx := context.Background()

	raw := []byte("frame-original")
	b64 := base64.StdEncoding.EncodeToString(raw)
	inline := criaEvento(t, db, &models.Evento{Status: "ok", ImagemBase64: b64})
	externo := criaEvento(t, db, &models.Evento{Status: "ok", ImagemURL: "https://cdn/x.jpg"})
	vazio := criaEvento(t, db, &models.Evento{Status: "ok"})

	bytes, url, err := svc.Imagem(ctx, inline.ID)
	if err != nil || url != "" || string(bytes) != string(raw) {
		t.Errorf("imagem inline: (%q, %q, %v)", bytes, url, err)
	}

	bytes, url, err = svc.Imagem(ctx, externo.ID)
	if err != nil || bytes != nil || url != "https://cdn/x.jpg" {
		t.Errorf("imagem externa: (%v, %q, %v)", bytes, url, err)
	}

	if _, _, err = svc.Imagem(ctx, vazio.ID); err == nil {
		t.Errorf("evento sem imagem deveria dar não-encontrado")
	}
}
