package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/couchcryptid/festival-guide/internal/catalog"
	"github.com/couchcryptid/festival-guide/internal/domain"
)

const maxChatBody = 4 << 10

type festivalsResponse struct {
	Criteria  domain.Criteria   `json:"criteria"`
	Count     int               `json:"count"`
	Festivals []domain.Festival `json:"festivals"`
}

type listResponse struct {
	Festivals []domain.Festival `json:"festivals"`
}

type seasonResponse struct {
	Season    string            `json:"season"`
	Months    [3]int            `json:"months"`
	Festivals []domain.Festival `json:"festivals"`
}

type optionsResponse struct {
	Options []string `json:"options"`
}

type chatRequest struct {
	Prompt string `json:"prompt"`
}

func (s *Server) handleFestivals(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	month := s.defaults.Month
	if raw := q.Get("month"); raw != "" {
		m, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid month %q", raw))
			return
		}
		month = m
	}
	crit := domain.Criteria{
		Month:      month,
		Region:     q.Get("region"),
		Categories: q["category"],
	}
	if crit.Region == "" {
		crit.Region = domain.AllOption
	}
	if err := crit.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	out, err := s.catalog.Filter(r.Context(), crit)
	if err != nil {
		s.unavailable(w, err)
		return
	}
	writeJSON(w, http.StatusOK, festivalsResponse{Criteria: crit, Count: len(out), Festivals: nonNil(out)})
}

func (s *Server) handleRanking(w http.ResponseWriter, r *http.Request) {
	n, ok := limitParam(w, r, s.defaults.RankingLimit)
	if !ok {
		return
	}
	out, err := s.catalog.Ranking(r.Context(), n)
	if err != nil {
		s.unavailable(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Festivals: nonNil(out)})
}

func (s *Server) handleSeasonal(w http.ResponseWriter, r *http.Request) {
	n, ok := limitParam(w, r, s.defaults.SeasonalLimit)
	if !ok {
		return
	}
	picks, err := s.catalog.Seasonal(r.Context(), n)
	if err != nil {
		s.unavailable(w, err)
		return
	}
	out := make([]seasonResponse, 0, len(picks))
	for _, p := range picks {
		out = append(out, seasonResponse{Season: p.Season.Name, Months: p.Season.Months, Festivals: nonNil(p.Festivals)})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRegions(w http.ResponseWriter, r *http.Request) {
	opts, err := s.catalog.Regions(r.Context())
	if err != nil {
		s.unavailable(w, err)
		return
	}
	writeJSON(w, http.StatusOK, optionsResponse{Options: opts})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	opts, err := s.catalog.Categories(r.Context())
	if err != nil {
		s.unavailable(w, err)
		return
	}
	writeJSON(w, http.StatusOK, optionsResponse{Options: opts})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxChatBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid chat request body")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}
	writeJSON(w, http.StatusOK, domain.Reply(req.Prompt))
}

func (s *Server) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	snap := s.catalog.Current()
	if snap == nil {
		writeError(w, http.StatusServiceUnavailable, catalog.ErrNotLoaded.Error())
		return
	}
	writeJSON(w, http.StatusOK, snap.Meta())
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	snap, err := s.catalog.Reload(r.Context())
	if err != nil {
		s.logger.Error("manual reload failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, snap.Meta())
}

// unavailable maps catalog read failures to 503.
func (s *Server) unavailable(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrInvalidMonth) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.Warn("catalog unavailable", "error", err)
	writeError(w, http.StatusServiceUnavailable, err.Error())
}

func limitParam(w http.ResponseWriter, r *http.Request, def int) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid limit %q", raw))
		return 0, false
	}
	return n, true
}

func nonNil(fs []domain.Festival) []domain.Festival {
	if fs == nil {
		return []domain.Festival{}
	}
	return fs
}
