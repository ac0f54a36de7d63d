package models

import "time"

// Fragmento é a forma canônica de um payload parcial vindo do pipeline.
// Todo campo reconhecido fica preenchido ou vazio, nunca existe a
// ambiguidade nulo/ausente. É o normalizador quem constrói este struct
// a partir do JSON frouxo recebido.
type Fragmento struct {
	Status       string
	Objeto       string
	Descricao    string
	AnaliseLlava string

	ImagemBase64 string
	ImagemURL    string

	CameraID   string
	CameraNome string
	Local      string

	JobID   string
	Sha256  string
	Arquivo string

	Modelo    string
	Confianca float64
	ImgSize   int

	DuracaoAnalise float64

	Vitimas       bool
	MenoresIdosos bool
	EmAndamento   bool
}

// ConfirmarRequest é o JSON enviado pelo operador para confirmar um evento.
type ConfirmarRequest struct {
	Relato          string `json:"relato"`
	Operador        string `json:"operador"`
	QualificacaoIDs []uint `json:"qualificacao_ids"`
	Vitimas         bool   `json:"vitimas"`
	MenoresIdosos   bool   `json:"menores_idosos"`
	EmAndamento     bool   `json:"em_andamento"`
}

// FiltroEventos agrupa os predicados aceitos pela consulta paginada.
type FiltroEventos struct {
	// Tokens de texto livre, combinados com OR entre os campos
	// objeto/descrição/análise/job/câmera/local.
	Tokens []string
	// Dia do evento (compara só a data de criação).
	Data *time.Time
	// "alerta" | "ok" | "" (sem filtro).
	Status string
	// nil = sem filtro; true/false filtra pelo flag de confirmação.
	Confirmado *bool

	Pagina        int
	TamanhoPagina int
}

// EventoResumo é a projeção devolvida pela consulta: os campos do painel
// mais um indicador de imagem e a referência para recuperá-la.
type EventoResumo struct {
	ID           uint       `json:"id"`
	CreatedAt    time.Time  `json:"created_at"`
	Status       string     `json:"status"`
	Objeto       string     `json:"objeto"`
	Descricao    string     `json:"descricao"`
	AnaliseLlava string     `json:"llava_pt"`
	CameraID     string     `json:"camera_id"`
	CameraNome   string     `json:"camera_nome"`
	Local        string     `json:"local"`
	JobID        string     `json:"job_id"`
	Confirmado   bool       `json:"confirmado"`
	ConfirmadoEm *time.Time `json:"confirmado_em,omitempty"`
	TemImagem    bool       `json:"tem_imagem"`
	ImagemRef    string     `json:"imagem_ref,omitempty"`
}
