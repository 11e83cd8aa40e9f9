package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/render"

	"github.com/August26/vpncheck-go/internal/model"
	"github.com/August26/vpncheck-go/internal/parser"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, http.StatusOK, pageData{})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// handleAnalyzeForm serves the HTML form submission.
func (s *Server) handleAnalyzeForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderPage(w, http.StatusBadRequest, pageData{Error: "Invalid form submission"})
		return
	}
	if err := checkKey(s.secret, r.PostFormValue("api_key")); err != nil {
		s.log.Warn("rejected form request", "request_id", requestID(r), "err", err)
		s.renderPage(w, http.StatusForbidden, pageData{Error: "Invalid API Key"})
		return
	}

	if _, ok := r.PostForm["ip_addresses"]; !ok {
		s.renderPage(w, http.StatusUnprocessableEntity, pageData{Error: "ip_addresses is required"})
		return
	}

	input := r.PostFormValue("ip_addresses")
	results, err := s.run(r, parser.ParseIPList(input))
	if err != nil {
		s.renderPage(w, http.StatusInternalServerError, pageData{Error: err.Error(), IPInput: input})
		return
	}

	data, err := newResultsPage(input, results)
	if err != nil {
		s.renderPage(w, http.StatusInternalServerError, pageData{Error: err.Error(), IPInput: input})
		return
	}
	s.renderPage(w, http.StatusOK, data)
}

// handleAnalyzeIPs serves the JSON API. The key is checked before the
// body is read.
func (s *Server) handleAnalyzeIPs(w http.ResponseWriter, r *http.Request) {
	if err := checkKey(s.secret, r.Header.Get(APIKeyHeader)); err != nil {
		s.log.Warn("rejected api request", "request_id", requestID(r), "err", err)
		writeError(w, r, http.StatusForbidden, "Could not validate credentials")
		return
	}

	var req model.AnalyzeRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if req.IPAddresses == nil {
		writeError(w, r, http.StatusUnprocessableEntity, "ip_addresses is required")
		return
	}

	// Entries go through as sent so results line up with the request;
	// a blank or malformed entry fails the batch naming that entry.
	results, err := s.run(r, req.IPAddresses)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, model.AnalysisResponse{Results: results})
}

// run executes the batch detached from the client connection: once
// started it runs to completion.
func (s *Server) run(r *http.Request, ips []string) ([]model.AnalysisResult, error) {
	ctx := context.WithoutCancel(r.Context())
	results, err := s.runner.Run(ctx, ips)
	if err != nil {
		s.log.Error("batch failed", "request_id", requestID(r), "ips", len(ips), "err", err)
		return nil, err
	}
	return results, nil
}

func writeError(w http.ResponseWriter, r *http.Request, status int, detail string) {
	render.Status(r, status)
	render.JSON(w, r, model.ErrorResponse{Detail: detail})
}
