package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/nhle/worklog-dashboard/internal/dashboard"
	"github.com/nhle/worklog-dashboard/internal/daterange"
	"github.com/nhle/worklog-dashboard/internal/model"
	"github.com/nhle/worklog-dashboard/internal/source"
)

type rangeResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type presetResponse struct {
	ID    daterange.PresetID `json:"id"`
	Label string             `json:"label"`
	Start string             `json:"start"`
	End   string             `json:"end"`
}

type worklogsResponse struct {
	Range       rangeResponse              `json:"range"`
	Projects    []model.ProjectTimeData    `json:"projects"`
	TeamMembers []model.TeamMemberTimeData `json:"teamMembers"`
	Entries     []model.WorklogEntry       `json:"entries"`
	Summary     dashboard.Summary          `json:"summary"`
	FetchedAt   time.Time                  `json:"fetchedAt"`
	FromCache   bool                       `json:"fromCache"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// handlePresets lists the presets that resolve under the current config,
// with their concrete dates.
func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	out := make([]presetResponse, 0, len(daterange.Presets))
	for _, p := range daterange.Presets {
		rng, err := daterange.Resolve(p.ID, now, s.cfg.Sprint)
		if err != nil {
			continue
		}
		out = append(out, presetResponse{
			ID:    p.ID,
			Label: p.Label,
			Start: rng.StartString(),
			End:   rng.EndString(),
		})
	}
	s.writeJSON(w, http.StatusOK, out)
}

// handleWorklogs returns the dashboard for ?start&end, optionally narrowed
// to ?member. Without start and end the default preset is used.
func (s *Server) handleWorklogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	rng, err := s.rangeFromQuery(q.Get("start"), q.Get("end"))
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Message: err.Error()})
		return
	}

	data, err := s.provider.Load(r.Context(), rng)
	if err != nil {
		s.log.Error().Err(err).Str("range", rng.Key()).Msg("loading worklogs")
		s.writeJSON(w, errorStatus(err), errorResponse{Message: source.UserMessage(err)})
		return
	}

	view := data.ForMember(q.Get("member"))
	teamMembers := data.TeamMembers
	if teamMembers == nil {
		teamMembers = []model.TeamMemberTimeData{}
	}
	s.writeJSON(w, http.StatusOK, worklogsResponse{
		Range:       rangeResponse{Start: rng.StartString(), End: rng.EndString()},
		Projects:    nonNil(view.Projects),
		TeamMembers: teamMembers,
		Entries:     nonNil(view.Entries),
		Summary:     view.Summary(),
		FetchedAt:   data.FetchedAt,
		FromCache:   data.FromCache,
	})
}

func (s *Server) rangeFromQuery(start, end string) (daterange.Range, error) {
	if start == "" && end == "" {
		p := daterange.DefaultPreset(s.cfg.Sprint)
		return daterange.Resolve(p.ID, s.now(), s.cfg.Sprint)
	}
	return daterange.ParseIn(start, end, s.now().Location())
}

// errorStatus maps a fetch failure onto an HTTP status.
func errorStatus(err error) int {
	switch source.CodeOf(err) {
	case source.CodeAuthFailed:
		return http.StatusUnauthorized
	case source.CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusBadGateway
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Debug().Err(err).Int("status", status).Msg("writing response")
	}
}
