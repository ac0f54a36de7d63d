package models

// Qualificacao é a categoria fixa de um evento confirmado
// (ex.: "roubo-a-mao-armada", "tentativa-de-acesso-nao-autorizado").
type Qualificacao struct {
	ID   uint   `json:"id" gorm:"primaryKey;column:id_qualificacao"`
	Nome string `json:"nome" gorm:"column:nome;size:128;uniqueIndex"`
}

func (Qualificacao) TableName() string {
	return "qualificacoes"
}

// Gravidade é o nível de severidade usado na matriz de tratamento.
type Gravidade struct {
	ID    uint   `json:"id" gorm:"primaryKey;column:id_gravidade"`
	Nivel int    `json:"nivel" gorm:"column:nivel"`
	Nome  string `json:"nome" gorm:"column:nome;size:64"`
}

func (Gravidade) TableName() string {
	return "gravidades"
}

// Protocolo descreve o procedimento de resposta.
type Protocolo struct {
	ID        uint   `json:"id" gorm:"primaryKey;column:id_protocolo"`
	Descricao string `json:"descricao" gorm:"column:descricao;type:text"`
}

func (Protocolo) TableName() string {
	return "protocolos"
}

// Canal é o meio de acionamento (ex.: "telefone-190", "radio-operacional").
type Canal struct {
	ID   uint   `json:"id" gorm:"primaryKey;column:id_canal"`
	Nome string `json:"nome" gorm:"column:nome;size:128"`
}

func (Canal) TableName() string {
	return "canais"
}

// Orgao é a agência responsável pelo atendimento.
type Orgao struct {
	ID   uint   `json:"id" gorm:"primaryKey;column:id_orgao"`
	Nome string `json:"nome" gorm:"column:nome;size:128"`
}

func (Orgao) TableName() string {
	return "orgaos"
}

// QualificacaoTratamento é a matriz de consulta: para cada qualificação,
// a gravidade, o protocolo, o canal e o órgão responsáveis. Editável de
// forma independente dos eventos; semeada uma vez quando vazia.
type QualificacaoTratamento struct {
	ID             uint `json:"id" gorm:"primaryKey;column:id_matriz"`
	QualificacaoID uint `json:"qualificacao_id" gorm:"column:id_qualificacao;uniqueIndex"`
	GravidadeID    uint `json:"gravidade_id" gorm:"column:id_gravidade"`
	ProtocoloID    uint `json:"protocolo_id" gorm:"column:id_protocolo"`
	CanalID        uint `json:"canal_id" gorm:"column:id_canal"`
	OrgaoID        uint `json:"orgao_id" gorm:"column:id_orgao"`
}

func (QualificacaoTratamento) TableName() string {
	return "qualificacao_tratamentos"
}

// EventoQualificacao associa um evento às qualificações escolhidas pelo
// operador. O conjunto é sempre substituído por inteiro, nunca remendado.
type EventoQualificacao struct {
	ID             uint `json:"id" gorm:"primaryKey"`
	EventoID       uint `json:"evento_id" gorm:"column:id_evento;index"`
	QualificacaoID uint `json:"qualificacao_id" gorm:"column:id_qualificacao"`
}

func (EventoQualificacao) TableName() string {
	return "evento_qualificacoes"
}

// EventoTratamento é a associação derivada: resultado de aplicar a matriz
// de tratamento ao conjunto de qualificações no momento da confirmação.
// Regenerada por completo a cada confirmação.
type EventoTratamento struct {
	ID             uint   `json:"id" gorm:"primaryKey"`
	EventoID       uint   `json:"evento_id" gorm:"column:id_evento;index"`
	QualificacaoID uint   `json:"qualificacao_id" gorm:"column:id_qualificacao"`
	GravidadeID    uint   `json:"gravidade_id" gorm:"column:id_gravidade"`
	ProtocoloID    uint   `json:"protocolo_id" gorm:"column:id_protocolo"`
	CanalID        uint   `json:"canal_id" gorm:"column:id_canal"`
	OrgaoID        uint   `json:"orgao_id" gorm:"column:id_orgao"`
	Status         string `json:"status" gorm:"column:status;size:32"`
}

func (EventoTratamento) TableName() string {
	return "evento_tratamentos"
}
