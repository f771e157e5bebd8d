package handlers

import (
	"embed"
	"io/fs"
	"net/http"
	"strings"

	"github.com/gofiber/template/html/v2"

	"alfredoptarigan/resume-ranker/internal/services"
)

const indexView = "index"

//go:embed views/*.html
var viewsFS embed.FS

// NewViewEngine returns the html/template engine over the embedded views.
func NewViewEngine() *html.Engine {
	views, err := fs.Sub(viewsFS, "views")
	if err != nil {
		panic(err)
	}

	engine := html.NewFileSystem(http.FS(views), ".html")
	engine.AddFunc("join", strings.Join)
	return engine
}

func acceptedExtensions() string {
	return strings.Join(services.SupportedExtensions, ",")
}
