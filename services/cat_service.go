package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	otlog "github.com/opentracing/opentracing-go/log"

	m "github.com/ChrisTheAbysswalker/nyanko/models"
)

// La respuesta normal ronda los 100 bytes
const maxBodyBytes = 256 << 10

var (
	ErrUnexpectedStatus = errors.New("respuesta inesperada de la API de gatos")
	ErrEmptyResponse    = errors.New("la API de gatos devolvió una lista vacía")
	ErrInvalidImage     = errors.New("la API de gatos devolvió una imagen inválida")
)

type CatService struct {
	endpoint   string
	client     *http.Client
	validate   *validator.Validate
	fetchCount int
	countMutex sync.Mutex
}

func NewCatService(endpoint string, timeout time.Duration) *CatService {
	return &CatService{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		validate: validator.New(),
	}
}

// FetchCatImage hace una sola petición a la API y devuelve el primer
// elemento. Sin reintentos.
func (s *CatService) FetchCatImage(ctx context.Context) (m.CatImage, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "catapi.fetch")
	defer span.Finish()
	ext.SpanKindRPCClient.Set(span)
	ext.HTTPMethod.Set(span, http.MethodGet)
	ext.HTTPUrl.Set(span, s.endpoint)

	image, err := s.fetch(ctx, span)
	if err != nil {
		ext.Error.Set(span, true)
		span.LogFields(otlog.Error(err))
		log.WithError(err).WithField("endpoint", s.endpoint).Warn("⚠️ Error obteniendo gato")
		return m.CatImage{}, err
	}

	log.WithField("id", image.ID).Debug("🐱 Gato obtenido")
	return image, nil
}

func (s *CatService) fetch(ctx context.Context, span opentracing.Span) (m.CatImage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint, nil)
	if err != nil {
		return m.CatImage{}, fmt.Errorf("error creando petición: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	s.countMutex.Lock()
	s.fetchCount++
	s.countMutex.Unlock()

	resp, err := s.client.Do(req)
	if err != nil {
		return m.CatImage{}, fmt.Errorf("error llamando a la API de gatos: %w", err)
	}
	defer resp.Body.Close()

	ext.HTTPStatusCode.Set(span, uint16(resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// * Se descarta el cuerpo para poder reutilizar la conexión
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return m.CatImage{}, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var images []m.CatImage
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&images); err != nil {
		return m.CatImage{}, fmt.Errorf("error parseando JSON: %w", err)
	}

	if len(images) == 0 {
		return m.CatImage{}, ErrEmptyResponse
	}

	image := images[0]
	if err := s.validate.Struct(image); err != nil {
		return m.CatImage{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	return image, nil
}

func (s *CatService) FetchCount() int {
	s.countMutex.Lock()
	defer s.countMutex.Unlock()
	return s.fetchCount
}
