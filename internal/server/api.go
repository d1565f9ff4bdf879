package server

import (
	"errors"
	"io"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/gorilla/mux"

	"github.com/KrishChai1/uscis-console/internal/claude"
	"github.com/KrishChai1/uscis-console/internal/uscis"
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeCallError renders a dispatch failure as JSON. Authentication and
// transport failures both mean no usable upstream response exists, so they
// map to 502 with the diagnostic detail the error carries.
func (s *Server) writeCallError(w http.ResponseWriter, err error) {
	var authErr *uscis.AuthenticationError
	if errors.As(err, &authErr) {
		s.writeJSON(w, http.StatusBadGateway, map[string]interface{}{
			"error":           "authentication",
			"message":         authErr.Error(),
			"upstream_status": authErr.Status,
			"upstream_body":   authErr.Body,
		})
		return
	}
	var transportErr *uscis.TransportError
	if errors.As(err, &transportErr) {
		s.writeJSON(w, http.StatusBadGateway, map[string]interface{}{
			"error":   "transport",
			"message": transportErr.Error(),
		})
		return
	}
	s.writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
		"error":   "internal",
		"message": err.Error(),
	})
}

// writeUpstream copies an upstream response through verbatim: its status
// code, content type and body, 2xx or not.
func (s *Server) writeUpstream(w http.ResponseWriter, resp *uscis.APIResponse) {
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(resp.StatusCode)
	if _, err := w.Write(resp.Body); err != nil {
		s.logger.Error().Err(err).Msg("Failed to write upstream body to client")
	}
}

func (s *Server) tokenStatusHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.uscis.Tokens().Status())
}

func (s *Server) tokenRefreshHandler(w http.ResponseWriter, r *http.Request) {
	tokens := s.uscis.Tokens()
	tokens.Invalidate()
	if _, err := tokens.Token(r.Context()); err != nil {
		s.activity.Record("Re-authenticate", authStatus(err), err.Error())
		s.writeCallError(w, err)
		return
	}
	s.activity.Record("Re-authenticate", http.StatusOK, "")
	s.writeJSON(w, http.StatusOK, tokens.Status())
}

func (s *Server) caseStatusHandler(w http.ResponseWriter, r *http.Request) {
	receipt := mux.Vars(r)["receipt"]

	resp, err := s.uscis.Call(r.Context(), uscis.OpCaseStatus, map[string]string{"receipt": receipt}, nil)
	if err != nil {
		s.activity.Record("Case status: "+receipt, authStatus(err), err.Error())
		s.writeCallError(w, err)
		return
	}
	s.activity.Record("Case status: "+receipt, resp.StatusCode, "")
	s.writeUpstream(w, resp)
}

func (s *Server) foiaCreateHandler(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	resp, err := s.uscis.Call(r.Context(), uscis.OpFoiaRequestCreate, nil, body)
	if err != nil {
		s.activity.Record("FOIA request", authStatus(err), err.Error())
		s.writeCallError(w, err)
		return
	}
	s.activity.Record("FOIA request", resp.StatusCode, "")
	s.writeUpstream(w, resp)
}

func (s *Server) foiaStatusHandler(w http.ResponseWriter, r *http.Request) {
	number := mux.Vars(r)["number"]

	resp, err := s.uscis.Call(r.Context(), uscis.OpFoiaStatus, map[string]string{"number": number}, nil)
	if err != nil {
		s.activity.Record("FOIA status: "+number, authStatus(err), err.Error())
		s.writeCallError(w, err)
		return
	}
	s.activity.Record("FOIA status: "+number, resp.StatusCode, "")
	s.writeUpstream(w, resp)
}

func (s *Server) connectionTestHandler(w http.ResponseWriter, r *http.Request) {
	report := s.uscis.TestConnection(r.Context())
	if report.Authentication.Success {
		s.activity.Record("Connection test", http.StatusOK, "")
	} else {
		s.activity.Record("Connection test", 0, report.Authentication.Error)
	}
	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) summarizeHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Subject string `json:"subject"`
		Body    string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Body == "" {
		http.Error(w, "Missing field: body", http.StatusBadRequest)
		return
	}

	summary, err := s.summarizer.Summarize(r.Context(), req.Subject, req.Body)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, claude.ErrNotConfigured) {
			status = http.StatusServiceUnavailable
		}
		s.writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"summary": summary})
}

func (s *Server) logsHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"entries": s.activity.Entries(),
		"stats":   s.activity.Stats(),
	})
}

func (s *Server) logsClearHandler(w http.ResponseWriter, r *http.Request) {
	s.activity.Clear()
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// authStatus extracts the upstream HTTP status from a dispatch error for
// the activity log; 0 when no response was received.
func authStatus(err error) int {
	var authErr *uscis.AuthenticationError
	if errors.As(err, &authErr) {
		return authErr.Status
	}
	var apiErr *uscis.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
