package services

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"io"
	"net/http"
	"runtime"
	"time"

	"github.com/eliukblau/pixterm/pkg/ansimage"
)

const maxImageBytes = 10 << 20

var ErrImageUnavailable = errors.New("no se pudo descargar la imagen")

// PreviewService pinta una imagen remota como arte ANSI para clientes de
// terminal (curl, wget...). La descarga usa su propio cliente con timeout.
type PreviewService struct {
	client *http.Client
	cols   int
	rows   int
}

func NewPreviewService(timeout time.Duration, cols, rows int) *PreviewService {
	return &PreviewService{
		client: &http.Client{Timeout: timeout},
		cols:   cols,
		rows:   rows,
	}
}

func (p *PreviewService) Preview(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("error creando petición: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrImageUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxImageBytes))
		return "", fmt.Errorf("%w: %d", ErrImageUnavailable, resp.StatusCode)
	}

	sfy, sfx := ansimage.BlockSizeY, ansimage.BlockSizeX
	bg := color.RGBA{0x00, 0x00, 0x00, 0xff}

	pix, err := ansimage.NewScaledFromReader(io.LimitReader(resp.Body, maxImageBytes), sfy*p.rows, sfx*p.cols, bg, ansimage.ScaleModeFit, ansimage.NoDithering)
	if err != nil {
		return "", fmt.Errorf("error generando vista previa de %s: %w", url, err)
	}
	pix.SetMaxProcs(runtime.NumCPU())

	return pix.Render(), nil
}
