package models

import "time"

// Valores possíveis do status de um evento, herdados do pipeline.
const (
	StatusAlerta = "alerta"
	StatusOK     = "ok"
)

// Evento representa o registro canônico de uma detecção: os fragmentos
// parciais do detector (YOLO) e da análise semântica (LLaVA) são mesclados
// em uma única linha desta tabela.
type Evento struct {
	ID        uint      `json:"id" gorm:"primaryKey;column:id_evento"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime;index"`

	// "alerta" quando o detector marcou risco, "ok" caso contrário.
	Status string `json:"status" gorm:"column:status;size:20"`
	Objeto string `json:"objeto" gorm:"column:objeto;size:255"`

	// Texto do detector e texto da análise ficam em colunas separadas;
	// nunca são concatenados num campo só.
	Descricao    string `json:"descricao" gorm:"column:descricao;type:text"`
	AnaliseLlava string `json:"llava_pt" gorm:"column:llava_pt;type:text"`

	// Imagem inline (base64) ou referência externa; uma substitui a outra.
	ImagemBase64 string `json:"imagem_base64,omitempty" gorm:"column:imagem_base64;type:text"`
	ImagemURL    string `json:"imagem_url,omitempty" gorm:"column:imagem_url;size:512"`

	CameraID   string `json:"camera_id" gorm:"column:camera_id;size:64;index"`
	CameraNome string `json:"camera_nome" gorm:"column:camera_nome;size:255"`
	Local      string `json:"local" gorm:"column:local;size:255"`

	// Chaves de correlação: job_id vem do pipeline; sha256 é a identidade
	// de conteúdo calculada dos bytes da imagem.
	JobID   string `json:"job_id" gorm:"column:job_id;size:128;index"`
	Sha256  string `json:"sha256" gorm:"column:sha256;size:64;index"`
	Arquivo string `json:"arquivo" gorm:"column:arquivo;size:255"`

	Modelo    string  `json:"modelo" gorm:"column:modelo;size:128"`
	Confianca float64 `json:"confianca" gorm:"column:confianca"`
	ImgSize   int     `json:"img_size" gorm:"column:img_size"`

	// Duração (segundos) reportada pelo estágio de análise.
	DuracaoAnalise float64 `json:"duracao_analise" gorm:"column:duracao_analise"`

	// Campos de confirmação preenchidos pelo operador.
	Confirmado   bool       `json:"confirmado" gorm:"column:confirmado;index"`
	Relato       string     `json:"relato" gorm:"column:relato;type:text"`
	Operador     string     `json:"operador" gorm:"column:operador;size:255"`
	ConfirmadoEm *time.Time `json:"confirmado_em,omitempty" gorm:"column:confirmado_em"`

	Vitimas       bool `json:"vitimas" gorm:"column:vitimas"`
	MenoresIdosos bool `json:"menores_idosos" gorm:"column:menores_idosos"`
	EmAndamento   bool `json:"em_andamento" gorm:"column:em_andamento"`

	// "pendente" após a confirmação, até o encaminhamento operacional.
	TratamentoStatus string `json:"tratamento_status" gorm:"column:tratamento_status;size:32"`
}

func (Evento) TableName() string {
	return "eventos"
}
