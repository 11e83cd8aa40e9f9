package server

import (
	"bytes"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/August26/vpncheck-go/internal/model"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTmpl = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type pageData struct {
	Error       string
	IPInput     string
	Results     []model.AnalysisResult
	JSONResults string
}

// newResultsPage fills the page with results and their 4-space indented JSON dump.
func newResultsPage(input string, results []model.AnalysisResult) (pageData, error) {
	dump, err := json.MarshalIndent(results, "", "    ")
	if err != nil {
		return pageData{}, err
	}
	return pageData{
		IPInput:     input,
		Results:     results,
		JSONResults: string(dump),
	}, nil
}

// renderPage buffers the template so a failed render never sends a partial page.
func (s *Server) renderPage(w http.ResponseWriter, status int, data pageData) {
	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		s.log.Error("render page failed", "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
