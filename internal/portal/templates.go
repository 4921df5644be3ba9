package portal

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
)

//go:embed web/*.html web/static/*
var webFS embed.FS

func parseTemplates() (*template.Template, error) {
	tmpl, err := template.New("portal").ParseFS(webFS, "web/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing portal templates: %w", err)
	}
	return tmpl, nil
}

func staticHandler() http.Handler {
	sub, err := fs.Sub(webFS, "web/static")
	if err != nil {
		// The embedded tree is fixed at build time.
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
