package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
	"github.com/mssola/user_agent"

	m "github.com/ChrisTheAbysswalker/nyanko/models"
	s "github.com/ChrisTheAbysswalker/nyanko/services"
)

const refreshPath = "/api/cat"

type CatFetcher interface {
	FetchCatImage(ctx context.Context) (m.CatImage, error)
	FetchCount() int
}

type Previewer interface {
	Preview(ctx context.Context, url string) (string, error)
}

type CatHandler struct {
	service CatFetcher
	preview Previewer
	caption string
}

func NewCatHandler(service CatFetcher, preview Previewer, caption string) *CatHandler {
	return &CatHandler{
		service: service,
		preview: preview,
		caption: caption,
	}
}

// Index hace el pre-fetch en el servidor, una vez por petición, y pinta la
// página con esa URL como estado inicial.
func (h *CatHandler) Index(c *gin.Context) {
	image, err := h.service.FetchCatImage(c.Request.Context())

	if isTerminalClient(c.GetHeader("User-Agent")) {
		h.terminal(c, image, err)
		return
	}

	page := m.IndexPage{
		Caption:    h.caption,
		RefreshURL: refreshPath,
	}

	status := http.StatusOK
	if err != nil {
		status = http.StatusBadGateway
		page.Error = userMessage(err)
	} else {
		page.InitialCatImageURL = image.URL
	}

	c.HTML(status, "index.html.tmpl", page)
}

// GetCat es lo que llama el botón desde el navegador
func (h *CatHandler) GetCat(c *gin.Context) {
	image, err := h.service.FetchCatImage(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, m.ErrorResponse{
			Error:   "upstream_failed",
			Message: userMessage(err),
		})
		return
	}

	c.JSON(http.StatusOK, image)
}

func (h *CatHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, m.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Unix(),
		Fetches:   h.service.FetchCount(),
	})
}

func (h *CatHandler) terminal(c *gin.Context, image m.CatImage, err error) {
	if err != nil {
		c.String(http.StatusBadGateway, "%s\n", userMessage(err))
		return
	}

	art, err := h.preview.Preview(c.Request.Context(), image.URL)
	if err != nil {
		// ! sin vista previa igual devolvemos la URL
		log.WithError(err).Warn("⚠️ No se pudo generar la vista previa")
		c.String(http.StatusOK, "%s\n", image.URL)
		return
	}

	c.String(http.StatusOK, "%s\n%s\n", art, image.URL)
}

func isTerminalClient(ua string) bool {
	name, _ := user_agent.New(ua).Browser()
	switch name {
	case "curl", "Wget", "HTTPie":
		return true
	}
	return false
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, s.ErrEmptyResponse):
		return "No llegó ningún gato esta vez. Prueba otra vez."
	case errors.Is(err, s.ErrInvalidImage):
		return "El gato que llegó no tenía una imagen válida."
	case errors.Is(err, context.DeadlineExceeded):
		return "La API de gatos tardó demasiado en responder."
	default:
		return "No se pudo obtener un gato en este momento."
	}
}
