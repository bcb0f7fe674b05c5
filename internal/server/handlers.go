package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/seqdia/pkg/buildinfo"
	"github.com/matzehuels/seqdia/pkg/diagram"
	perrors "github.com/matzehuels/seqdia/pkg/errors"
)

type renderRequest struct {
	Text string `json:"text"`
}

type renderResponse struct {
	Token string `json:"token"`
	URL   string `json:"url,omitempty"`
	SVG   string `json:"svg"`
}

type decodeRequest struct {
	Fragment string `json:"fragment"`
}

type decodeResponse struct {
	Text string `json:"text"`
	SVG  string `json:"svg"`
}

type errorResponse struct {
	Code    perrors.Code `json:"code"`
	Message string       `json:"message"`
	Line    int          `json:"line,omitempty"`
	Column  int          `json:"column,omitempty"`
	Text    string       `json:"text,omitempty"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		http.Error(w, "index missing", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"version":  buildinfo.Version,
		"sessions": s.sessions.len(),
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	res, err := s.engine.RenderAndEncode(r.Context(), req.Text)
	if err != nil {
		s.writeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, renderResponse{Token: res.Token, URL: s.shareURL(res.Token), SVG: res.SVG})
}

func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	var req decodeRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	loaded, err := s.engine.Decode(r.Context(), req.Fragment)
	if err != nil {
		s.writeError(w, err, loaded.Text)
		return
	}
	writeJSON(w, http.StatusOK, decodeResponse{Text: loaded.Text, SVG: loaded.SVG})
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	loaded, err := s.engine.Decode(r.Context(), "/v1/"+chi.URLParam(r, "payload"))
	if err != nil {
		s.writeError(w, err, "")
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	_, _ = w.Write([]byte(loaded.SVG))
}

// shareURL returns the editor link for token, or "" without a base URL.
func (s *Server) shareURL(token string) string {
	if s.cfg.BaseURL == "" {
		return ""
	}
	return strings.TrimSuffix(s.cfg.BaseURL, "/") + "/#" + token
}

func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, perrors.New(perrors.ErrCodeTooLarge, "request body exceeds %d bytes", s.cfg.MaxBody), "")
			return false
		}
		s.writeError(w, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "invalid JSON body"), "")
		return false
	}
	return true
}

func (s *Server) writeError(w http.ResponseWriter, err error, text string) {
	resp := errorResponse{
		Code:    perrors.GetCode(err),
		Message: perrors.UserMessage(err),
		Text:    text,
	}
	if resp.Code == "" {
		resp.Code = perrors.ErrCodeInternal
	}
	var pe *diagram.ParseError
	if errors.As(err, &pe) {
		resp.Message, resp.Line, resp.Column = pe.Message, pe.Line, pe.Column
	}

	status := statusFor(resp.Code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, resp)
}

func statusFor(code perrors.Code) int {
	switch code {
	case perrors.ErrCodeParse:
		return http.StatusUnprocessableEntity
	case perrors.ErrCodeTooLarge:
		return http.StatusRequestEntityTooLarge
	case perrors.ErrCodeInvalidInput, perrors.ErrCodeInvalidFormat, perrors.ErrCodeInvalidView, perrors.ErrCodeInvalidFragment:
		return http.StatusBadRequest
	case perrors.ErrCodeNotFound, perrors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case perrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case perrors.ErrCodeUnavailable:
		return http.StatusServiceUnavailable
	case perrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
