package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/LeoDuarteM/TccSentinelaVisao/backend/internal/models"
	"github.com/LeoDuarteM/TccSentinelaVisao/backend/internal/services"
)

// Códigos de razão legíveis por máquina das respostas de confirmação.
const (
	CodigoNaoEncontrado = "not_found"
	CodigoValidacao     = "validation_failed"
	CodigoJaConfirmado  = "already_confirmed"
	CodigoConflitoOutro = "conflict_other_record"
)

// ConfirmacaoController agrupa as rotas mutáveis invocadas pelo operador.
// São as únicas deste subsistema que devolvem razões de falha detalhadas.
type ConfirmacaoController struct {
	svc services.ConfirmacaoService
}

// NewConfirmacaoController recebe a implementação de ConfirmacaoService
// e devolve o controller configurado.
func NewConfirmacaoController(svc services.ConfirmacaoService) *ConfirmacaoController {
	return &ConfirmacaoController{svc: svc}
}

// Register associa as rotas de confirmação ao grupo autenticado.
func (ctr *ConfirmacaoController) Register(g *echo.Group) {
	g.POST("/eventos/:id/confirmar", ctr.Confirmar)
	g.POST("/eventos/:id/desconfirmar", ctr.Desconfirmar)
}

// Confirmar trata o POST de confirmação de um evento.
func (ctr *ConfirmacaoController) Confirmar(c echo.Context) error {
	id, err := idDaRota(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"code":  CodigoValidacao,
			"error": "id de evento invalido",
		})
	}

	req := new(models.ConfirmarRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"code":  CodigoValidacao,
			"error": "Formato da req invalido: " + err.Error(),
		})
	}

	ev, jaConfirmado, err := ctr.svc.Confirmar(c.Request().Context(), id, req)
	if err != nil {
		return respostaErroConfirmacao(c, err)
	}

	resp := map[string]any{"id": ev.ID, "confirmado": true}
	if jaConfirmado {
		resp["code"] = CodigoJaConfirmado
	}
	return c.JSON(http.StatusOK, resp)
}

// Desconfirmar trata o POST que desfaz a confirmação.
func (ctr *ConfirmacaoController) Desconfirmar(c echo.Context) error {
	id, err := idDaRota(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"code":  CodigoValidacao,
			"error": "id de evento invalido",
		})
	}

	if err := ctr.svc.Desconfirmar(c.Request().Context(), id); err != nil {
		return respostaErroConfirmacao(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"id": id, "confirmado": false})
}

// respostaErroConfirmacao traduz os erros dos serviços para os códigos de
// razão e status HTTP do contrato.
func respostaErroConfirmacao(c echo.Context, err error) error {
	var conflito *services.ErrConflitoConfirmacao
	switch {
	case errors.Is(err, services.ErrNaoEncontrado):
		return c.JSON(http.StatusNotFound, map[string]string{
			"code":  CodigoNaoEncontrado,
			"error": err.Error(),
		})
	case errors.Is(err, services.ErrRelatoObrigatorio):
		return c.JSON(http.StatusBadRequest, map[string]string{
			"code":  CodigoValidacao,
			"error": err.Error(),
		})
	case errors.As(err, &conflito):
		return c.JSON(http.StatusConflict, map[string]any{
			"code":     CodigoConflitoOutro,
			"error":    err.Error(),
			"outro_id": conflito.OutroID,
		})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": err.Error(),
		})
	}
}

func idDaRota(c echo.Context) (uint, error) {
	raw, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(raw), nil
}
