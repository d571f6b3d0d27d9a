package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/teemow/meetscheduler/internal/instrumentation"
	"github.com/teemow/meetscheduler/internal/logging"
	"github.com/teemow/meetscheduler/internal/meeting"
	"github.com/teemow/meetscheduler/internal/timeslot"
)

const (
	// maxBodyBytes caps JSON request bodies.
	maxBodyBytes = 1 << 20

	// dateParamLayout is the layout of the time-slots date parameter.
	dateParamLayout = "2006-01-02"

	internalErrorMessage = "Internal server error"
	invalidBodyMessage   = "invalid request body"
)

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Error string `json:"error"`
}

// API serves the meeting endpoints.
type API struct {
	meetings *meeting.Service
	logger   logging.Logger
}

// NewAPI returns the meeting API backed by meetings.
func NewAPI(meetings *meeting.Service, logger logging.Logger) *API {
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	return &API{meetings: meetings, logger: logger}
}

// Register adds the API routes to mux. The meeting routes require a
// bearer token; the time-slot listing is public.
func (a *API) Register(mux *http.ServeMux) {
	mux.Handle("POST /api/instant-meeting", requireBearer(http.HandlerFunc(a.handleInstantMeeting)))
	mux.Handle("POST /api/schedule-meeting", requireBearer(http.HandlerFunc(a.handleScheduleMeeting)))
	mux.HandleFunc("GET /api/time-slots", a.handleTimeSlots)
}

func (a *API) handleInstantMeeting(w http.ResponseWriter, r *http.Request) {
	m, err := a.meetings.CreateInstant(r.Context(), bearerToken(r.Context()))
	if err != nil {
		a.writeMeetingError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (a *API) handleScheduleMeeting(w http.ResponseWriter, r *http.Request) {
	var req meeting.ScheduleRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		a.logger.Debug("rejecting schedule request body", logging.Err(err))
		writeError(w, http.StatusBadRequest, invalidBodyMessage)
		return
	}

	m, err := a.meetings.CreateScheduled(r.Context(), bearerToken(r.Context()), req)
	if err != nil {
		a.writeMeetingError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (a *API) handleTimeSlots(w http.ResponseWriter, r *http.Request) {
	now := a.meetings.Now()
	day := now

	if date := r.URL.Query().Get("date"); date != "" {
		parsed, err := time.ParseInLocation(dateParamLayout, date, a.meetings.Location())
		if err != nil {
			writeError(w, http.StatusBadRequest, meeting.ErrInvalidDate.Message)
			return
		}
		day = parsed
	}

	writeJSON(w, http.StatusOK, timeslot.Generate(day, now))
}

// writeMeetingError maps a meeting error to its status code. Errors
// without a kind are logged and hidden behind a generic message.
func (a *API) writeMeetingError(w http.ResponseWriter, r *http.Request, err error) {
	var merr *meeting.Error
	if errors.As(err, &merr) {
		if merr.Kind == meeting.KindUnauthorized {
			w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
		}
		writeError(w, merr.HTTPStatus(), merr.Message)
		return
	}

	a.logger.Error("unexpected meeting error",
		logging.Err(err),
		logging.RequestID(instrumentation.RequestIDFromContext(r.Context())),
	)
	writeError(w, http.StatusInternalServerError, internalErrorMessage)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
