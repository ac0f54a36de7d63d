package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/LeoDuarteM/TccSentinelaVisao/backend/internal/models"
	"github.com/LeoDuarteM/TccSentinelaVisao/backend/internal/services"
)

// ConsultaController expõe a listagem filtrada do painel e a recuperação
// da imagem de um evento.
type ConsultaController struct {
	svc services.ConsultaService
}

// NewConsultaController recebe a implementação de ConsultaService e
// devolve o controller configurado.
func NewConsultaController(svc services.ConsultaService) *ConsultaController {
	return &ConsultaController{svc: svc}
}

// Register associa as rotas de consulta.
func (ctr *ConsultaController) Register(g *echo.Group) {
	g.GET("/eventos", ctr.Listar)
	g.GET("/eventos/:id/imagem", ctr.Imagem)
}

// Listar trata o GET paginado: ?q=tokens&data=2025-01-01&status=alerta
// &confirmado=true&pagina=1&tamanho=50.
func (ctr *ConsultaController) Listar(c echo.Context) error {
	filtro := &models.FiltroEventos{
		Status: c.QueryParam("status"),
	}

	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		filtro.Tokens = strings.Fields(q)
	}
	if d := c.QueryParam("data"); d != "" {
		dia, err := time.ParseInLocation("2006-01-02", d, time.Local)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "data invalida, use AAAA-MM-DD",
			})
		}
		filtro.Data = &dia
	}
	if v := c.QueryParam("confirmado"); v != "" {
		confirmado := v == "true" || v == "1"
		filtro.Confirmado = &confirmado
	}
	if v := c.QueryParam("pagina"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filtro.Pagina = n
		}
	}
	if v := c.QueryParam("tamanho"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filtro.TamanhoPagina = n
		}
	}

	resumos, total, err := ctr.svc.Listar(c.Request().Context(), filtro)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Falha ao listar eventos: " + err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"total":   total,
		"eventos": resumos,
	})
}

// Imagem devolve os bytes inline ou redireciona para a URL externa.
func (ctr *ConsultaController) Imagem(c echo.Context) error {
	id, err := idDaRota(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "id de evento invalido",
		})
	}

	bytes, url, err := ctr.svc.Imagem(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{
			"code":  CodigoNaoEncontrado,
			"error": "imagem nao disponivel",
		})
	}
	if url != "" {
		return c.Redirect(http.StatusFound, url)
	}
	return c.Blob(http.StatusOK, "image/jpeg", bytes)
}
