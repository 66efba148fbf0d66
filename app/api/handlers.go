package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	matchservice "github.com/Black-And-White-Club/teamcup/app/modules/match/application"
	matchdomain "github.com/Black-And-White-Club/teamcup/app/modules/match/domain"
	standingsservice "github.com/Black-And-White-Club/teamcup/app/modules/standings/application"
	standingsqueue "github.com/Black-And-White-Club/teamcup/app/modules/standings/infrastructure/queue"
	"github.com/Black-And-White-Club/teamcup/app/observability/attr"
)

// maxScorecardBytes caps uploaded scorecards.
const maxScorecardBytes = 5 << 20

// Handlers serves the read API for the presentation layer.
type Handlers struct {
	matches   matchservice.Service
	standings standingsservice.Service
	scheduler standingsqueue.Scheduler
	logger    *slog.Logger
}

// NewHandlers creates Handlers. scheduler may be nil, in which case recompute
// requests always run synchronously.
func NewHandlers(matches matchservice.Service, standings standingsservice.Service, scheduler standingsqueue.Scheduler, logger *slog.Logger) *Handlers {
	return &Handlers{
		matches:   matches,
		standings: standings,
		scheduler: scheduler,
		logger:    logger,
	}
}

func (h *Handlers) HandleGetStandings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	result, err := h.standings.GetStandings(ctx, chi.URLParam(r, "division"))
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if result.IsFailure() {
		h.failure(w, *result.Failure)
		return
	}
	writeJSON(w, http.StatusOK, toStandingsResponse(*result.Success))
}

func (h *Handlers) HandleExportStandings(w http.ResponseWriter, r *http.Request) {
	division := chi.URLParam(r, "division")
	result, err := h.standings.ExportStandingsXLSX(r.Context(), division)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if result.IsFailure() {
		h.failure(w, *result.Failure)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+division+`-standings.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(*result.Success)
}

func (h *Handlers) HandleStandingsChart(w http.ResponseWriter, r *http.Request) {
	result, err := h.standings.RenderStandingsChart(r.Context(), chi.URLParam(r, "division"))
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if result.IsFailure() {
		h.failure(w, *result.Failure)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(*result.Success)
}

// HandleRecompute queues a debounced recompute, or runs it inline when
// ?wait=true is given or no queue is configured.
func (h *Handlers) HandleRecompute(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	division := chi.URLParam(r, "division")
	if _, err := matchdomain.ParseDivision(division); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	wait, _ := strconv.ParseBool(r.URL.Query().Get("wait"))
	if h.scheduler != nil && !wait {
		if err := h.scheduler.ScheduleRecompute(ctx, division); err != nil {
			h.internalError(w, r, err)
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "scheduled", "division": division})
		return
	}

	result, err := h.standings.RecomputeDivision(ctx, division)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if result.IsFailure() {
		h.failure(w, *result.Failure)
		return
	}
	writeJSON(w, http.StatusOK, toRecomputeResponse(*result.Success))
}

func (h *Handlers) HandleGetMatch(w http.ResponseWriter, r *http.Request) {
	result, err := h.matches.GetMatch(r.Context(), chi.URLParam(r, "matchID"))
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if result.IsFailure() {
		h.failure(w, *result.Failure)
		return
	}
	writeJSON(w, http.StatusOK, toMatchResponse(*result.Success))
}

// HandlePreviewScorecard evaluates a multipart "scorecard" upload against
// the stored match without saving it.
func (h *Handlers) HandlePreviewScorecard(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxScorecardBytes)
	file, header, err := r.FormFile("scorecard")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing scorecard file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "failed to read scorecard"})
		return
	}

	result, err := h.matches.PreviewScorecard(r.Context(), chi.URLParam(r, "matchID"), header.Filename, data)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if result.IsFailure() {
		h.failure(w, *result.Failure)
		return
	}
	writeJSON(w, http.StatusOK, toMatchResponse(*result.Success))
}

func (h *Handlers) failure(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
}

func (h *Handlers) internalError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.ErrorContext(r.Context(), "Request failed",
		attr.String("path", r.URL.Path),
		attr.ExtractCorrelationID(r.Context()),
		attr.Error(err),
	)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: http.StatusText(http.StatusInternalServerError)})
}

// statusFor maps a business failure to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, standingsservice.ErrUnknownDivision):
		return http.StatusBadRequest
	case errors.Is(err, standingsservice.ErrStandingsNotFound),
		errors.Is(err, standingsservice.ErrNoChartData),
		errors.Is(err, matchservice.ErrMatchNotFound):
		return http.StatusNotFound
	default:
		return http.StatusUnprocessableEntity
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
