package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/davidbz/ptflow/internal/auth"
	"github.com/davidbz/ptflow/internal/config"
	"github.com/davidbz/ptflow/internal/domain"
	"github.com/davidbz/ptflow/internal/feature"
	ptflowhttp "github.com/davidbz/ptflow/internal/http"
	"github.com/davidbz/ptflow/internal/http/middleware"
	"github.com/davidbz/ptflow/internal/mocks"
)

const (
	validToken = "valid-token"
	cookieName = "next-auth.session-token"
)

type testServer struct {
	handler   http.Handler
	generator *mocks.MockGenerator
	verifier  *mocks.MockSessionVerifier
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	generator := mocks.NewMockGenerator(t)
	verifier := mocks.NewMockSessionVerifier(t)

	verifier.EXPECT().Verify(mock.Anything, validToken).
		Return(&domain.Session{Subject: "therapist-1"}, nil).Maybe()
	verifier.EXPECT().Verify(mock.Anything, mock.MatchedBy(func(token string) bool { return token != validToken })).
		Return(nil, domain.ErrUnauthenticated).Maybe()

	serverConfig := &config.ServerConfig{Port: 0, MaxBodyBytes: 4096}
	corsConfig := &config.CORSConfig{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}

	server := ptflowhttp.NewServer(
		serverConfig,
		&auth.Config{CookieName: cookieName},
		verifier,
		ptflowhttp.NewHandler(feature.NewService(generator), generator),
		middleware.BuildMiddlewareChain(corsConfig, serverConfig),
	)

	return &testServer{handler: server.Routes(), generator: generator, verifier: verifier}
}

func (s *testServer) post(path, body string, authenticated bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if authenticated {
		req.Header.Set("Authorization", "Bearer "+validToken)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestFeatureEndpoints_RequireSession(t *testing.T) {
	server := newTestServer(t)

	for _, name := range []string{
		feature.FeatureSOAPNote, feature.FeatureCodeSuggestions, feature.FeatureClaimJustification,
		feature.FeatureHomePlan, feature.FeatureMessageResponse, feature.FeatureProgressAnalysis,
		feature.FeatureProgressSummary, feature.FeatureSessionSummary, feature.FeatureTreatmentPlan,
	} {
		t.Run(name, func(t *testing.T) {
			rec := server.post(ptflowhttp.RoutePrefix+name, `{}`, false)

			require.Equal(t, http.StatusUnauthorized, rec.Code)
			require.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
		})
	}
}

func TestHomePlan_EndToEnd(t *testing.T) {
	server := newTestServer(t)
	server.generator.EXPECT().
		Generate(mock.Anything, mock.MatchedBy(func(req *domain.GenerationRequest) bool {
			return strings.Contains(req.UserPrompt, "Diagnosis: Post-operative ACL reconstruction\nBody Region: knee")
		})).
		Return(domain.GenerationResult{Text: "Exercise 1: ..."}).Once()

	rec := server.post("/api/ai/home-plan",
		`{"diagnosis":"Post-operative ACL reconstruction","bodyRegion":"knee"}`, true)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.JSONEq(t, `{"exercisePlan":"Exercise 1: ..."}`, rec.Body.String())
	require.NotEmpty(t, rec.Header().Get("X-Trace-Id"))
	require.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestSessionCookieAuthenticates(t *testing.T) {
	server := newTestServer(t)
	server.generator.EXPECT().Generate(mock.Anything, mock.Anything).
		Return(domain.GenerationResult{Text: "plan"}).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/ai/treatment-plan", strings.NewReader(
		`{"diagnosis":"a","currentStatus":"b","goals":"c","limitations":"d"}`))
	req.AddCookie(&http.Cookie{Name: cookieName, Value: validToken})
	rec := httptest.NewRecorder()
	server.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"recommendation":"plan"}`, rec.Body.String())
}

func TestMissingFields_Returns400WithReceived(t *testing.T) {
	server := newTestServer(t)

	rec := server.post("/api/ai/home-plan", `{"diagnosis":"ACL"}`, true)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	require.Equal(t, "Missing required fields: bodyRegion", body["error"])
	require.Equal(t, map[string]interface{}{"diagnosis": "ACL", "bodyRegion": ""}, body["received"])
}

func TestGenerationFailure_Returns500Verbatim(t *testing.T) {
	server := newTestServer(t)
	server.generator.EXPECT().Generate(mock.Anything, mock.Anything).
		Return(domain.Failure("OpenRouter API key not configured")).Once()

	rec := server.post("/api/ai/code-suggestions", `{"diagnosis":"LBP","procedures":"TherEx"}`, true)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"error":"OpenRouter API key not configured"}`, rec.Body.String())
}

func TestInvalidBodies(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		errMsg string
	}{
		{name: "malformed json", body: `{"diagnosis":`, status: http.StatusBadRequest, errMsg: "invalid request body"},
		{name: "empty body", body: ``, status: http.StatusBadRequest, errMsg: "invalid request body"},
		{name: "wrong type", body: `{"diagnosis":42}`, status: http.StatusBadRequest, errMsg: "invalid request body"},
		{
			name:   "too large",
			body:   `{"diagnosis":"` + strings.Repeat("x", 8192) + `"}`,
			status: http.StatusRequestEntityTooLarge,
			errMsg: "request body too large",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(t)

			rec := server.post("/api/ai/home-plan", tt.body, true)

			require.Equal(t, tt.status, rec.Code)
			require.Equal(t, tt.errMsg, decode(t, rec)["error"])
		})
	}
}

func TestMalformedBody_IncludesDetails(t *testing.T) {
	server := newTestServer(t)

	rec := server.post("/api/ai/soap-note", `not json`, true)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotEmpty(t, decode(t, rec)["details"])
}

func TestWrongMethod_Returns405(t *testing.T) {
	server := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/ai/soap-note", nil)
	req.Header.Set("Authorization", "Bearer "+validToken)
	rec := httptest.NewRecorder()
	server.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	require.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
	require.JSONEq(t, `{"error":"method not allowed"}`, rec.Body.String())
}

func TestSOAPNote_ResponseShape(t *testing.T) {
	server := newTestServer(t)
	server.generator.EXPECT().Generate(mock.Anything, mock.Anything).
		Return(domain.GenerationResult{Text: "S: sore\nO: swollen\nA: acute\nP: rest"}).Once()

	rec := server.post("/api/ai/soap-note",
		`{"patientInfo":"Jane","chiefComplaint":"knee","observations":"swelling"}`, true)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t,
		`{"subjective":"sore","objective":"swollen","assessment":"acute","plan":"rest","fullText":"S: sore\nO: swollen\nA: acute\nP: rest"}`,
		rec.Body.String())
}

func TestClaimJustification_LegacyBody(t *testing.T) {
	server := newTestServer(t)
	server.generator.EXPECT().
		Generate(mock.Anything, mock.MatchedBy(func(req *domain.GenerationRequest) bool {
			return strings.Contains(req.UserPrompt, "CPT Codes: 97110, 97140") &&
				strings.Contains(req.UserPrompt, "Functional Limitations: Prior surgery")
		})).
		Return(domain.GenerationResult{Text: "Justified."}).Once()

	body, err := json.Marshal(map[string]interface{}{
		"claim":        map[string]interface{}{"cptCodes": []string{"97110", "97140"}, "icdCodes": []string{"M54.5"}},
		"patient":      map[string]interface{}{"primaryDiagnosis": "LBP", "medicalHistory": "Prior surgery"},
		"sessionNotes": []string{},
	})
	require.NoError(t, err)

	rec := server.post("/api/ai/claim-justification", string(body), true)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"justification":"Justified."}`, rec.Body.String())
}

func TestSessionSummary_PartialFailureOverHTTP(t *testing.T) {
	server := newTestServer(t)
	server.generator.EXPECT().
		Generate(mock.Anything, mock.MatchedBy(func(req *domain.GenerationRequest) bool {
			return strings.HasPrefix(req.UserPrompt, "Summarize")
		})).
		Return(domain.GenerationResult{Text: "Clinical."}).Once()
	server.generator.EXPECT().
		Generate(mock.Anything, mock.MatchedBy(func(req *domain.GenerationRequest) bool {
			return strings.HasPrefix(req.UserPrompt, "Explain")
		})).
		Return(domain.Failure("OpenRouter request timed out after 1m0s")).Once()

	var body bytes.Buffer
	require.NoError(t, json.NewEncoder(&body).Encode(map[string]interface{}{
		"sessionNote": map[string]string{"subjective": "s", "objective": "o", "assessment": "a", "plan": "p"},
		"patient":     map[string]string{"firstName": "Jane", "lastName": "Doe", "primaryDiagnosis": "OA"},
	}))

	rec := server.post("/api/ai/session-summary", body.String(), true)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t,
		`{"clinicalSummary":"Clinical.","patientFriendlySummary":"","patientFriendlyError":"OpenRouter request timed out after 1m0s"}`,
		rec.Body.String())
}

func TestHealth_NoSessionRequired(t *testing.T) {
	server := newTestServer(t)
	server.generator.EXPECT().Name().Return("echo").Once()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	server.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"healthy","provider":"echo"}`, rec.Body.String())
}

func TestCORSPreflight_SkipsAuthentication(t *testing.T) {
	server := newTestServer(t)

	req := httptest.NewRequestWithContext(context.Background(), http.MethodOptions, "/api/ai/home-plan", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	server.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	server.verifier.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
}
