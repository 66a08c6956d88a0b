package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/davidbz/ptflow/internal/domain"
	"github.com/davidbz/ptflow/internal/feature"
	"github.com/davidbz/ptflow/internal/observability"
)

// errorResponse is the JSON body of every failed request.
type errorResponse struct {
	Error    string                 `json:"error"`
	Details  string                 `json:"details,omitempty"`
	Received map[string]interface{} `json:"received,omitempty"`
}

// Handler handles HTTP requests.
type Handler struct {
	features  *feature.Service
	generator domain.Generator
}

// NewHandler creates a new HTTP handler (DI constructor).
func NewHandler(features *feature.Service, generator domain.Generator) *Handler {
	return &Handler{
		features:  features,
		generator: generator,
	}
}

// Routes maps each feature endpoint name to its handler.
func (h *Handler) Routes() map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		feature.FeatureSOAPNote:           adapt(feature.FeatureSOAPNote, h.features.SOAPNote),
		feature.FeatureCodeSuggestions:    adapt(feature.FeatureCodeSuggestions, h.features.CodeSuggestions),
		feature.FeatureClaimJustification: adapt(feature.FeatureClaimJustification, h.features.ClaimJustification),
		feature.FeatureHomePlan:           adapt(feature.FeatureHomePlan, h.features.HomePlan),
		feature.FeatureMessageResponse:    adapt(feature.FeatureMessageResponse, h.features.MessageResponse),
		feature.FeatureProgressAnalysis:   adapt(feature.FeatureProgressAnalysis, h.features.ProgressAnalysis),
		feature.FeatureProgressSummary:    adapt(feature.FeatureProgressSummary, h.features.ProgressSummary),
		feature.FeatureSessionSummary:     adapt(feature.FeatureSessionSummary, h.features.SessionSummary),
		feature.FeatureTreatmentPlan:      adapt(feature.FeatureTreatmentPlan, h.features.TreatmentPlan),
	}
}

// adapt turns a feature adapter into a POST JSON endpoint.
func adapt[In any, Out any](name string, run func(context.Context, In) (*Out, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := observability.WithFeature(r.Context(), name)
		logger := observability.FromContext(ctx)

		// Early validation.
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			writeJSON(ctx, w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
			return
		}

		var in In
		if status, err := decodeBody(r.Body, &in); err != nil {
			logger.Info("rejected request body", observability.Error(err))
			body := errorResponse{Error: "invalid request body", Details: err.Error()}
			if status == http.StatusRequestEntityTooLarge {
				body = errorResponse{Error: "request body too large"}
			}
			writeJSON(ctx, w, status, body)
			return
		}

		out, err := run(ctx, in)
		if err != nil {
			writeFeatureError(ctx, w, err)
			return
		}

		writeJSON(ctx, w, http.StatusOK, out)
	}
}

// decodeBody decodes a single JSON document and reports the status to use on failure.
func decodeBody(body io.Reader, target interface{}) (int, error) {
	err := json.NewDecoder(body).Decode(target)
	if err == nil {
		return http.StatusOK, nil
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge, err
	}

	if errors.Is(err, io.EOF) {
		return http.StatusBadRequest, errors.New("request body is empty")
	}

	return http.StatusBadRequest, err
}

func writeFeatureError(ctx context.Context, w http.ResponseWriter, err error) {
	logger := observability.FromContext(ctx)

	var validationErr *feature.ValidationError
	if errors.As(err, &validationErr) {
		logger.Info("request failed validation", observability.String("error", validationErr.Message))
		writeJSON(ctx, w, http.StatusBadRequest, errorResponse{
			Error:    validationErr.Message,
			Received: validationErr.Received,
		})
		return
	}

	var generationErr *feature.GenerationError
	if errors.As(err, &generationErr) {
		writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Error: generationErr.Message})
		return
	}

	logger.Error("unexpected feature error", observability.Error(err))
	writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		// Already written status, can't change it, just log.
		observability.FromContext(ctx).Error("failed to encode response", observability.Error(err))
	}
}

// HandleHealth handles health check requests.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{
		"status":   "healthy",
		"provider": h.generator.Name(),
	})
}
