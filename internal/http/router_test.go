package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/feedback360-backend/internal/data/repos"
	"github.com/yungbote/feedback360-backend/internal/data/repos/testutil"
	types "github.com/yungbote/feedback360-backend/internal/domain"
	httpH "github.com/yungbote/feedback360-backend/internal/http/handlers"
	httpMW "github.com/yungbote/feedback360-backend/internal/http/middleware"
	"github.com/yungbote/feedback360-backend/internal/modules/feedback/chart"
	"github.com/yungbote/feedback360-backend/internal/modules/feedback/seed"
	"github.com/yungbote/feedback360-backend/internal/realtime"
	"github.com/yungbote/feedback360-backend/internal/services"
)

func init() { gin.SetMode(gin.TestMode) }

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	log := testutil.Logger(t)
	tx := testutil.Tx(t, testutil.DB(t))
	reposet := repos.New(tx, log, seed.DefaultConfig)
	emitter := realtime.Nop()

	auth, err := services.NewAuthService(tx, log, reposet.RoleCredential, services.AuthConfig{
		Secret: "router-test-secret",
		Passwords: map[types.Access]string{
			types.AccessAdmin: "admin123",
			types.AccessPeer:  "peer123",
			types.AccessSelf:  "self123",
		},
	})
	require.NoError(t, err)
	require.NoError(t, auth.SeedCredentials(context.Background()))

	renderer, err := chart.NewRenderer(log, chart.Config{Scale: 1})
	require.NoError(t, err)

	submissions := services.NewSubmissionService(tx, log, reposet.Submission, emitter)
	aggregation := services.NewAggregationService(tx, log, reposet.Submission, reposet.SurveyConfig)
	reports := services.NewReportService(log, aggregation, renderer, nil, nil, emitter, services.ReportConfig{})
	t.Cleanup(reports.Wait)

	return NewRouter(RouterConfig{
		Log:                 log,
		AuthMiddleware:      httpMW.NewAuthMiddleware(log, auth),
		AuthHandler:         httpH.NewAuthHandler(auth),
		SurveyHandler:       httpH.NewSurveyHandler(services.NewSurveyConfigService(log, reposet.SurveyConfig, emitter)),
		SubmissionHandler:   httpH.NewSubmissionHandler(submissions),
		ManagerHandler:      httpH.NewManagerHandler(aggregation, submissions, reports),
		ExportHandler:       httpH.NewExportHandler(services.NewExportService(log, submissions, aggregation)),
		CustomSurveyHandler: httpH.NewCustomSurveyHandler(services.NewCustomSurveyService(tx, log, reposet.CustomSurvey, reposet.Submission, emitter)),
		HealthHandler:       httpH.NewHealthHandler(nil),
	})
}

func do(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, r *gin.Engine, access, password string) string {
	t.Helper()
	w := do(t, r, http.MethodPost, "/api/auth/login", "", map[string]string{"access": access, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var out struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.NotEmpty(t, out.AccessToken)
	return out.AccessToken
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var env struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env.Error.Code
}

func TestHealthcheck(t *testing.T) {
	r := newTestRouter(t)
	require.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/healthcheck", "", nil).Code)
	require.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/readyz", "", nil).Code)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	r := newTestRouter(t)
	w := do(t, r, http.MethodPost, "/api/auth/login", "", map[string]string{"access": "peer", "password": "nope"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, r, http.MethodPost, "/api/auth/login", "", map[string]string{"access": "janitor", "password": "x"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAccessRules(t *testing.T) {
	r := newTestRouter(t)
	peer := login(t, r, "peer", "peer123")

	require.Equal(t, http.StatusUnauthorized, do(t, r, http.MethodGet, "/api/surveys/peer", "", nil).Code)
	require.Equal(t, http.StatusUnauthorized, do(t, r, http.MethodGet, "/api/surveys/peer", "garbage", nil).Code)
	require.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/api/surveys/peer", peer, nil).Code)
	require.Equal(t, http.StatusForbidden, do(t, r, http.MethodGet, "/api/surveys/self", peer, nil).Code)
	require.Equal(t, http.StatusForbidden, do(t, r, http.MethodGet, "/api/admin/managers", peer, nil).Code)

	admin := login(t, r, "admin", "admin123")
	require.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/api/surveys/self", admin, nil).Code)
	require.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/api/admin/managers", admin, nil).Code)
}

func TestSubmitThenAggregate(t *testing.T) {
	r := newTestRouter(t)
	peer := login(t, r, "peer", "peer123")
	admin := login(t, r, "admin", "admin123")

	for _, v := range []string{"5", "5", "4"} {
		w := do(t, r, http.MethodPost, "/api/submissions", peer, map[string]any{
			"manager_name": "John Doe",
			"responses":    map[string]map[string]string{"building-trust": {"building-trust-1": v}},
			"comments":     "Clear communicator",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := do(t, r, http.MethodGet, "/api/admin/managers/John%20Doe", admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var agg struct {
		ManagerName      string         `json:"manager_name"`
		SurveyTypeCounts map[string]int `json:"survey_type_counts"`
		PeerSections     []struct {
			Questions []struct {
				Responses map[string]int `json:"responses"`
			} `json:"questions"`
		} `json:"peer_sections"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &agg))
	require.Equal(t, "John Doe", agg.ManagerName)
	require.Equal(t, 3, agg.SurveyTypeCounts["peer"])
	require.Equal(t, 2, agg.PeerSections[0].Questions[0].Responses["always"])
	require.Equal(t, 1, agg.PeerSections[0].Questions[0].Responses["often"])

	w = do(t, r, http.MethodGet, "/api/admin/managers/John%20Doe/chart.png", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "image/png", w.Header().Get("Content-Type"))

	w = do(t, r, http.MethodPost, "/api/admin/managers/John%20Doe/report", admin, nil)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	require.Contains(t, w.Body.String(), `"delivery":"skipped"`)

	w = do(t, r, http.MethodGet, "/api/admin/export/submissions?format=csv", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	require.Equal(t, 4, strings.Count(strings.TrimSpace(w.Body.String()), "\n")+1)
}

func TestSubmitValidation(t *testing.T) {
	r := newTestRouter(t)
	peer := login(t, r, "peer", "peer123")

	w := do(t, r, http.MethodPost, "/api/submissions", peer, map[string]any{"manager_name": "John Doe"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	admin := login(t, r, "admin", "admin123")
	w = do(t, r, http.MethodPost, "/api/submissions", admin, map[string]any{
		"manager_name": "John Doe",
		"responses":    map[string]map[string]string{"building-trust": {"building-trust-1": "4"}},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "invalid_role", errorCode(t, w))
}

func TestUnknownManagerHasNoData(t *testing.T) {
	r := newTestRouter(t)
	admin := login(t, r, "admin", "admin123")

	w := do(t, r, http.MethodGet, "/api/admin/managers/Nobody", admin, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "no_data", errorCode(t, w))

	w = do(t, r, http.MethodGet, "/api/admin/managers/Nobody/comparison", admin, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}
