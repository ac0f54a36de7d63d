package services

import (
	"errors"
	"fmt"
)

// Erros sentinela devolvidos pelos serviços. Os controllers traduzem cada
// um para o código de razão legível por máquina da resposta HTTP.
var (
	// ErrNaoEncontrado indica que o evento não existe.
	ErrNaoEncontrado = errors.New("evento não encontrado")

	// ErrRelatoObrigatorio indica confirmação sem relato do operador.
	ErrRelatoObrigatorio = errors.New("relato do operador é obrigatório")
)

// ErrConflitoConfirmacao indica que outro evento com o mesmo digest de
// conteúdo já foi confirmado. Carrega o id do registro conflitante.
type ErrConflitoConfirmacao struct {
	OutroID uint
}

func (e *ErrConflitoConfirmacao) Error() string {
	return fmt.Sprintf("outro evento (%d) com o mesmo sha256 já está confirmado", e.OutroID)
}
