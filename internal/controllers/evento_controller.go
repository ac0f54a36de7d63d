package controllers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/LeoDuarteM/TccSentinelaVisao/backend/internal/models"
	"github.com/LeoDuarteM/TccSentinelaVisao/backend/internal/services"
)

// EventoController agrupa as rotas de ingestão do pipeline: o evento do
// detector e o evento da análise semântica.
type EventoController struct {
	svc services.EventoService
}

// NewEventoController recebe a implementação de EventoService e devolve
// o controller configurado.
func NewEventoController(svc services.EventoService) *EventoController {
	return &EventoController{svc: svc}
}

// Register associa as rotas de ingestão. Elas ficam na raiz (fora do
// grupo autenticado) porque o pipeline envia direto para /evento.
func (ctr *EventoController) Register(e *echo.Echo) {
	e.GET("/", ctr.Index)
	e.POST("/evento", ctr.ReceberEvento)
	e.POST("/analise", ctr.ReceberAnalise)
}

// Index responde o texto de vida do serviço.
func (ctr *EventoController) Index(c echo.Context) error {
	return c.String(http.StatusOK, "Servidor online! Envie eventos via POST para /evento")
}

// ReceberEvento trata o POST do estágio detector. O payload é frouxo e
// cheio de apelidos históricos; o normalizador resolve tudo antes da
// correlação. Uma vez mesclado ou criado com durabilidade, a resposta é
// sempre sucesso, mesmo para eventos "desinteressantes".
func (ctr *EventoController) ReceberEvento(c echo.Context) error {
	payload := map[string]any{}
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Formato da req invalido: " + err.Error(),
		})
	}

	frag := services.Normalizar(payload)
	ev, err := ctr.svc.ProcessarFragmento(c.Request().Context(), frag)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Falha ao processar evento: " + err.Error(),
		})
	}

	if ev.Status == models.StatusAlerta {
		return c.JSON(http.StatusOK, map[string]any{
			"id":       ev.ID,
			"status":   models.StatusAlerta,
			"mensagem": fmt.Sprintf("Objeto perigoso detectado: %s", ev.Objeto),
		})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"id":       ev.ID,
		"status":   models.StatusOK,
		"mensagem": "Evento recebido sem risco.",
	})
}

// ReceberAnalise trata o POST do estágio de análise (LLaVA): job_id ou
// digest mais o texto da análise e a duração opcional. Quando existe um
// evento correlacionado, mescla sem apagar os campos do detector; senão
// cria um evento mínimo.
func (ctr *EventoController) ReceberAnalise(c echo.Context) error {
	payload := map[string]any{}
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Formato da req invalido: " + err.Error(),
		})
	}

	frag := services.Normalizar(payload)
	ev, err := ctr.svc.ProcessarFragmento(c.Request().Context(), frag)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Falha ao processar analise: " + err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"id":       ev.ID,
		"status":   "ok",
		"mensagem": "Análise registrada.",
	})
}
