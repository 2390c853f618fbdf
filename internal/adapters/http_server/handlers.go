package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
	"unicode/utf8"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"review_analyzer/internal/adapters/observability"
	"review_analyzer/internal/app"
	"review_analyzer/internal/domain"
)

const maxBodyBytes = 1 << 20

type Handlers struct {
	Q *app.QueryService
	R *app.ReviewService
	// WriteLimiter throttles POST /. Nil disables limiting.
	WriteLimiter *rate.Limiter
}

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", h.healthz)
	s.mux.Get("/locations", h.listLocations)
	s.mux.Get("/", h.listReviews)
	s.mux.With(RateLimit(h.WriteLimiter)).Post("/", h.createReview)
}

func (h *Handlers) healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handlers) listLocations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, domain.Locations())
}

func (h *Handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var f domain.ReviewFilter
	if q.Has("location") {
		loc := q.Get("location")
		f.Location = &loc
	}
	start, ok := dateParam(w, q, "start_date")
	if !ok {
		return
	}
	end, ok := dateParam(w, q, "end_date")
	if !ok {
		return
	}
	f.Start, f.End = start, end

	out, err := h.Q.ListReviews(r.Context(), f)
	if err != nil {
		fail(w, r, err)
		return
	}
	if out == nil {
		out = []domain.Review{}
	}

	body, err := json.Marshal(out)
	if err != nil {
		fail(w, r, err)
		return
	}
	etag := weakETag(body)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	writeBody(w, http.StatusOK, body)
}

// dateParam reads an optional YYYY-MM-DD query value. Empty counts as absent.
// On a malformed value it writes the 400 response and returns ok=false.
func dateParam(w http.ResponseWriter, q url.Values, name string) (*time.Time, bool) {
	v := q.Get(name)
	if v == "" {
		return nil, true
	}
	d, err := domain.ParseDate(v)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid "+name+"; expected YYYY-MM-DD.")
		return nil, false
	}
	return &d, true
}

func (h *Handlers) createReview(w http.ResponseWriter, r *http.Request) {
	form, err := readForm(w, r)
	if err != nil {
		log.Debug().Err(err).Str("request_id", chimw.GetReqID(r.Context())).Msg("malformed create body")
		writeError(w, http.StatusBadRequest, "Malformed request body.")
		return
	}

	rev, err := h.R.CreateReview(r.Context(), app.CreateReviewInput{
		Location: form.Get("Location"),
		Body:     form.Get("ReviewBody"),
	})
	if err != nil {
		fail(w, r, err)
		return
	}
	observability.ObserveReviewCreated(rev.Location)
	writeJSON(w, http.StatusCreated, rev)
}

var errInvalidUTF8 = errors.New("body is not valid UTF-8")

// readForm decodes an application/x-www-form-urlencoded body, raw and
// decoded bytes both required to be UTF-8.
func readForm(w http.ResponseWriter, r *http.Request) (url.Values, error) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(raw) {
		return nil, errInvalidUTF8
	}
	form, err := url.ParseQuery(string(raw))
	if err != nil {
		return nil, err
	}
	for _, vs := range form {
		for _, v := range vs {
			if !utf8.ValidString(v) {
				return nil, errInvalidUTF8
			}
		}
	}
	return form, nil
}

func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindUnexpected:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// fail maps err onto the response. Only validation messages reach the client.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(domain.KindOf(err))
	var de *domain.Error
	if status == http.StatusBadRequest && errors.As(err, &de) {
		writeError(w, status, de.Message)
		return
	}
	log.Error().Err(err).
		Str("request_id", chimw.GetReqID(r.Context())).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg("request failed")
	writeError(w, http.StatusInternalServerError, "Internal server error.")
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("marshal JSON response failed")
		status = http.StatusInternalServerError
		body = []byte(`{"error":"Internal server error."}`)
	}
	writeBody(w, status, body)
}

func writeBody(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("write response body failed")
	}
}

func weakETag(body []byte) string {
	sum := sha1.Sum(body)
	return `W/"` + hex.EncodeToString(sum[:]) + `"`
}
