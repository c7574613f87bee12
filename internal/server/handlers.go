package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"lectio/internal/backend"
	"lectio/internal/pipeline"
	"lectio/internal/protocol"
	"lectio/internal/reference"
	"lectio/internal/study"
)

// generateRequest is the POST /generate payload.
type generateRequest struct {
	Protocol    string          `json:"protocol"`
	Query       string          `json:"query"` // passage, paste, moravian, rcl
	Citation    string          `json:"citation,omitempty"`
	Text        string          `json:"text,omitempty"`
	Translation string          `json:"translation,omitempty"`
	Reading     string          `json:"reading,omitempty"` // rcl slot
	Preferences *preferencesDTO `json:"preferences,omitempty"`
}

type preferencesDTO struct {
	Length     string `json:"length,omitempty"`
	ToneLevel  int    `json:"tone_level"`
	Complexity string `json:"complexity,omitempty"`
	FocusAreas string `json:"focus_areas,omitempty"`
}

type generateResponse struct {
	Study      study.Metadata      `json:"study"`
	LengthFlag string              `json:"length_flag,omitempty"`
	Vectors    *protocol.VectorSet `json:"vectors,omitempty"`
	DurationMS int64               `json:"duration_ms"`
}

type healthResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

type errorResponse struct {
	Error string `json:"error"`
	Stage string `json:"stage,omitempty"`
	Kind  string `json:"kind,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status:        string(s.CurrentStatus()),
		UptimeSeconds: s.uptimeSeconds(),
	})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	reader := http.MaxBytesReader(w, r.Body, s.settings.MaxBodyBytes)
	defer reader.Close()
	body, err := io.ReadAll(reader)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "payload exceeds limit"})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unable to read body"})
		return
	}
	var req generateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON"})
		return
	}

	query := reference.Query{
		Kind:        reference.QueryKind(strings.ToLower(strings.TrimSpace(req.Query))),
		Citation:    req.Citation,
		Text:        req.Text,
		Translation: req.Translation,
		RCLReading:  req.Reading,
	}
	if query.Kind == "" {
		query.Kind = reference.QueryPassage
	}
	runReq := pipeline.RunRequest{Protocol: req.Protocol, Query: query}
	if req.Preferences != nil {
		runReq.Preferences = &protocol.Preferences{
			Length:     req.Preferences.Length,
			ToneLevel:  req.Preferences.ToneLevel,
			Complexity: req.Preferences.Complexity,
			FocusAreas: req.Preferences.FocusAreas,
		}
	}

	result, err := s.runner.Run(r.Context(), runReq)
	if err != nil {
		s.logger.Printf("server: generate failed: %v", err)
		writeRunError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, generateResponse{
		Study:      result.Artifact.Metadata,
		LengthFlag: result.Report.LengthFlag,
		Vectors:    result.Vectors,
		DurationMS: result.Duration.Milliseconds(),
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	records, err := s.store.List()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	if records == nil {
		records = []study.Metadata{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"studies": records})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	slug := strings.TrimPrefix(r.URL.Path, "/studies/")
	if slug == "" || strings.Contains(slug, "/") {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "study not found"})
		return
	}
	artifact, err := s.store.Get(slug)
	if err != nil {
		if errors.Is(err, study.ErrArtifactNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "study not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"study": artifact.Metadata,
		"body":  artifact.Body,
	})
}

// writeRunError maps pipeline failures onto HTTP statuses: caller mistakes
// are 4xx, upstream failures are 502, local persistence is 500.
func writeRunError(w http.ResponseWriter, err error) {
	resp := errorResponse{Error: err.Error()}
	var stageErr *pipeline.StageError
	if errors.As(err, &stageErr) {
		resp.Stage = string(stageErr.Stage)
	}
	if kind := backend.KindOf(err); kind != backend.KindUnknown {
		resp.Kind = string(kind)
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, protocol.ErrUnknownProtocol),
		errors.Is(err, protocol.ErrTemplate):
		status = http.StatusBadRequest
	case errors.Is(err, reference.ErrReferenceNotFound),
		errors.Is(err, reference.ErrUnsupportedTranslation):
		status = http.StatusNotFound
	case errors.Is(err, reference.ErrSourceUnavailable):
		status = http.StatusBadGateway
	case errors.Is(err, study.ErrMissingSection):
		status = http.StatusUnprocessableEntity
	default:
		var backendErr *backend.BackendError
		if errors.As(err, &backendErr) {
			status = http.StatusBadGateway
		}
	}
	writeJSON(w, status, resp)
}

func methodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
