// Package server exposes a read-only HTTP view of the modem and the message
// log. It never sends or deletes messages.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"smsctl/internal/modem"
	"smsctl/internal/sms"
	"smsctl/internal/smslog"
)

const maxLogRecords = 1000

// Discoverer finds the modem for a request.
type Discoverer interface {
	Discover(ctx context.Context) (*modem.Modem, error)
}

// Handler serves the /sms endpoints.
type Handler struct {
	Manager      *sms.Manager
	Discoverer   Discoverer
	DisplayCount int
	Log          zerolog.Logger
}

// NewRouter builds the chi router.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","service":"smsctl"}`))
	})

	r.Route("/sms", func(r chi.Router) {
		r.Get("/modem", h.GetModem)
		r.Get("/messages", h.ListMessages)
		r.Get("/log", h.GetLog)
	})

	return r
}

// Response helpers
func jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResponse(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]interface{}{
		"error": message,
		"code":  status,
	})
}

func (h *Handler) discover(w http.ResponseWriter, r *http.Request) (*modem.Modem, bool) {
	md, err := h.Discoverer.Discover(r.Context())
	if err != nil {
		if errors.Is(err, modem.ErrModemNotFound) {
			errorResponse(w, http.StatusNotFound, err.Error())
			return nil, false
		}
		h.Log.Error().Err(err).Msg("modem discovery failed")
		errorResponse(w, http.StatusInternalServerError, "modem discovery failed")
		return nil, false
	}
	return md, true
}

// GetModem returns the modem path and its own number.
func (h *Handler) GetModem(w http.ResponseWriter, r *http.Request) {
	md, ok := h.discover(w, r)
	if !ok {
		return
	}
	jsonResponse(w, http.StatusOK, md)
}

// ListMessages returns the messages currently stored on the modem.
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	md, ok := h.discover(w, r)
	if !ok {
		return
	}

	msgs, err := h.Manager.Messages(r.Context(), md)
	if err != nil {
		h.Log.Warn().Err(err).Msg("list messages failed")
		errorResponse(w, http.StatusBadGateway, "could not get SMS list from modem")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]interface{}{
		"count":    len(msgs),
		"messages": msgs,
	})
}

// GetLog returns the newest log records. ?n= selects how many (1-1000).
func (h *Handler) GetLog(w http.ResponseWriter, r *http.Request) {
	n := h.DisplayCount
	if param := r.URL.Query().Get("n"); param != "" {
		v, err := strconv.Atoi(param)
		if err != nil || v < 1 || v > maxLogRecords {
			errorResponse(w, http.StatusBadRequest, "invalid n (1-1000)")
			return
		}
		n = v
	}

	records, err := h.Manager.Store.ReadLast(n)
	switch {
	case errors.Is(err, smslog.ErrNoLog):
		records = []smslog.Record{}
	case errors.Is(err, smslog.ErrMalformed):
		h.Log.Warn().Err(err).Msg("message log is malformed, serving it as empty")
		records = []smslog.Record{}
	case err != nil:
		h.Log.Error().Err(err).Msg("read log failed")
		errorResponse(w, http.StatusInternalServerError, "failed to read message log")
		return
	}
	if records == nil {
		records = []smslog.Record{}
	}

	jsonResponse(w, http.StatusOK, map[string]interface{}{
		"count":   len(records),
		"records": records,
	})
}
