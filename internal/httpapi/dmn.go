package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/bloodyjonesy/NuveiCashierCatalog/internal/dmn"
)

// parseDMNPayload reads a notification body as JSON or form-encoded,
// whichever the provider sent.
func parseDMNPayload(r *http.Request) map[string]any {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return map[string]any{"_error": "read_failed"}
	}

	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		var data map[string]any
		if json.Unmarshal(body, &data) == nil && data != nil {
			return data
		}
		return map[string]any{"_error": "parse_failed"}
	}

	values, err := url.ParseQuery(string(body))
	if err != nil {
		return map[string]any{"_error": "parse_failed"}
	}
	data := make(map[string]any, len(values))
	for key := range values {
		data[key] = values.Get(key)
	}
	return data
}

// handleReceiveDMN stores a transaction DMN and answers 200 so the provider
// does not retry.
func (s *Server) handleReceiveDMN(w http.ResponseWriter, r *http.Request) {
	payload := parseDMNPayload(r)
	s.dmnLog.Record(dmn.SourceTransaction, payload)
	s.log.Info("dmn received", zap.Int("fields", len(payload)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) handleListDMNs(w http.ResponseWriter, _ *http.Request) {
	recent := s.dmnLog.Recent()
	if recent == nil {
		recent = []dmn.Notification{}
	}
	s.respondJSON(w, http.StatusOK, recent)
}

// handlePreDepositDMN records the notification and answers with the
// configured decision in the provider's form-encoded shape.
func (s *Server) handlePreDepositDMN(w http.ResponseWriter, r *http.Request) {
	s.dmnLog.Record(dmn.SourcePreDeposit, parseDMNPayload(r))

	decision := s.preDeposit.Decision()
	contentType := "application/x-www-form-urlencoded"
	if decision == "action=APPROVE" {
		contentType = "text/plain"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(decision))
}

func (s *Server) handleGetPreDepositConfig(w http.ResponseWriter, _ *http.Request) {
	mode, msg := s.preDeposit.Get()
	s.respondJSON(w, http.StatusOK, map[string]string{
		"mode":           string(mode),
		"declineMessage": msg,
	})
}

type preDepositConfigRequest struct {
	Mode           string  `json:"mode"`
	DeclineMessage *string `json:"declineMessage"`
}

func (s *Server) handleSetPreDepositConfig(w http.ResponseWriter, r *http.Request) {
	var req preDepositConfigRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if dmn.ValidPreDepositMode(req.Mode) {
		s.preDeposit.Set(dmn.PreDepositMode(req.Mode), req.DeclineMessage)
	}
	s.handleGetPreDepositConfig(w, r)
}

// handleNotify echoes OK for the hosted page's notify_url callbacks. The
// payload is logged, not stored: the DMN endpoints are the record.
func (s *Server) handleNotify(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err == nil {
		s.log.Info("nuvei notify", zap.ByteString("body", body))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) handleNotifyInfo(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Notify endpoint. Use POST for Nuvei callbacks."))
}
