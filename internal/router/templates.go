package router

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFiles embed.FS

var pageTemplates = template.Must(template.ParseFS(templateFiles, "templates/*.html"))

type dashboardLink struct {
	ID       string
	ShortURL string
	Full     string
	Clicks   int64
}

type dashboardPage struct {
	Username string
	Links    []dashboardLink
}
