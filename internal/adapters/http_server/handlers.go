package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hotel_insight/internal/app"
	"hotel_insight/internal/domain"
)

type Handlers struct {
	Q         *app.QueryService
	I         *app.InsightService
	E         *app.EvaluationService
	TopHotels int
	Samples   int
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/hotels", h.listHotels)
	s.mux.Get("/v1/hotels/{id}", h.getHotel)
	s.mux.Get("/v1/hotels/{id}/insights", h.getInsights)
	s.mux.Get("/v1/hotels/{id}/reviews/sample", h.sampleReviews)
	s.mux.Get("/v1/evaluation", h.getEvaluation)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeJSON sends v with a weak ETag, answering 304 when the client has it.
func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "response encoding failed")
		return
	}
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

// limitParam reads ?limit=, bounded to [1, max]; def when absent.
func limitParam(w http.ResponseWriter, r *http.Request, def, max int) (int, bool) {
	ls := r.URL.Query().Get("limit")
	if ls == "" {
		return def, true
	}
	l, err := strconv.Atoi(ls)
	if err != nil || l <= 0 || l > max {
		writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and "+strconv.Itoa(max))
		return 0, false
	}
	return l, true
}

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	limit, ok := limitParam(w, r, h.TopHotels, 1000)
	if !ok {
		return
	}
	writeJSON(w, r, h.Q.TopHotels(limit))
}

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	hotel, err := h.Q.HotelProfile(chi.URLParam(r, "id"))
	if errors.Is(err, domain.ErrNotFound) {
		writeProblem(w, http.StatusNotFound, "Not Found", "hotel not found")
		return
	}
	writeJSON(w, r, hotel)
}

// getInsights answers 200 with an empty bundle for ids without reviews.
func (h *Handlers) getInsights(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, h.I.Insights(chi.URLParam(r, "id")))
}

func (h *Handlers) sampleReviews(w http.ResponseWriter, r *http.Request) {
	limit, ok := limitParam(w, r, h.Samples, 200)
	if !ok {
		return
	}
	writeJSON(w, r, h.Q.ListReviews(chi.URLParam(r, "id"), limit))
}

func (h *Handlers) getEvaluation(w http.ResponseWriter, r *http.Request) {
	rep, err := h.E.Report()
	if err != nil {
		var le *domain.LoadError
		if errors.As(err, &le) {
			writeProblem(w, http.StatusServiceUnavailable, "Classifier Unavailable", le.Error())
			return
		}
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", err.Error())
		return
	}
	writeJSON(w, r, rep)
}
