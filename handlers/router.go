package handlers

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed static/*.js
var staticFS embed.FS

type RouterOptions struct {
	// RateLimit son peticiones por segundo por IP en /api/cat; <= 0 lo desactiva.
	RateLimit float64
	RateBurst int
}

func NewRouter(catHandler *CatHandler, opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "OPTIONS"},
		AllowHeaders:    []string{"Content-Type"},
	}))

	router.SetHTMLTemplate(template.Must(template.New("").ParseFS(templateFS, "templates/*.tmpl")))

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	router.StaticFS("/static", http.FS(static))

	router.GET("/", catHandler.Index)

	api := router.Group("/api")
	{
		cat := []gin.HandlerFunc{catHandler.GetCat}
		if opts.RateLimit > 0 {
			burst := opts.RateBurst
			if burst < 1 {
				burst = 1
			}
			cat = append([]gin.HandlerFunc{newVisitorLimiter(rate.Limit(opts.RateLimit), burst).middleware()}, cat...)
		}

		api.GET("/cat", cat...)
		api.GET("/health", catHandler.Health)
	}

	return router
}
