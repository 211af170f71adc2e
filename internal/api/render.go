package api

import (
	"embed"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templateFS embed.FS

// TemplateRenderer renders the embedded HTML pages for echo
type TemplateRenderer struct {
	templates *template.Template
}

// NewTemplateRenderer parses every embedded template
func NewTemplateRenderer() (*TemplateRenderer, error) {
	templates, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &TemplateRenderer{templates: templates}, nil
}

// Render implements echo.Renderer
func (t *TemplateRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return t.templates.ExecuteTemplate(w, name, data)
}
