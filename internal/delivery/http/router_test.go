package http

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"clinical-registry/config"
	"clinical-registry/internal/delivery/dto"
	"clinical-registry/internal/delivery/http/handler"
	"clinical-registry/internal/delivery/http/middleware"
	"clinical-registry/internal/infrastructure/messaging"
	"clinical-registry/internal/repository"
	"clinical-registry/internal/service"
	"clinical-registry/internal/testutil"
	"clinical-registry/internal/usecase"
	"clinical-registry/pkg/jwt"
	"clinical-registry/pkg/response"
	"clinical-registry/pkg/validator"
)

type countingTrigger struct{ count int }

func (t *countingTrigger) Trigger() { t.count++ }

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
	Meta    *response.Meta  `json:"meta"`
}

type testServer struct {
	handler http.Handler
	jwt     *jwt.JWTService
	trigger *countingTrigger
}

func newTestServer(t *testing.T, jwtSecret string) *testServer {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)

	patientRecordRepo := repository.NewPatientRecordRepository()
	auditLogRepo := repository.NewAuditLogRepository()
	trigger := &countingTrigger{}

	patientRecordUsecase := usecase.NewPatientRecordUsecase(db, log, patientRecordRepo,
		service.NewAuditService(log, auditLogRepo), service.NewStatsCache(nil, time.Minute, log),
		messaging.NopPublisher{}, trigger)
	exportUsecase := usecase.NewExportUsecase(db, log, patientRecordRepo)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)

	var jwtService *jwt.JWTService
	if jwtSecret != "" {
		jwtService = jwt.NewJWTService(config.JWTConfig{Secret: jwtSecret, AccessExpiry: time.Hour})
	}

	router := NewRouter(
		handler.NewPatientRecordHandler(patientRecordUsecase, validator.NewValidator()),
		handler.NewExportHandler(exportUsecase),
		handler.NewAuditLogHandler(auditLogUsecase),
		middleware.NewAuthMiddleware(jwtService),
		middleware.NewCORSMiddleware(nil),
		middleware.NewLoggingMiddleware(log),
		middleware.NewRecoveryMiddleware(log),
	)

	return &testServer{handler: router.Setup(), jwt: jwtService, trigger: trigger}
}

func (s *testServer) do(t *testing.T, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope %q: %v", rec.Body.String(), err)
	}
	return env
}

func (s *testServer) createPatient(t *testing.T, body string, headers ...string) dto.PatientRecordResponse {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/v1/patients", body, headers...)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status %d body %s", rec.Code, rec.Body.String())
	}
	var record dto.PatientRecordResponse
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &record); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	return record
}

func TestRouter_Health(t *testing.T) {
	s := newTestServer(t, "")
	rec := s.do(t, http.MethodGet, "/api/v1/health", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var health dto.HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &health); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if health.Status != "ok" {
		t.Errorf("status = %q", health.Status)
	}
	if _, err := time.Parse(time.RFC3339, health.Time); err != nil {
		t.Errorf("time %q is not RFC3339: %v", health.Time, err)
	}
	if rec.Header().Get(middleware.RequestIDHeader) == "" {
		t.Error("missing request id header")
	}
}

func TestRouter_PatientLifecycle(t *testing.T) {
	s := newTestServer(t, "")

	created := s.createPatient(t, `{"name":"Ana","glucose_mgdl":"132","age":"54","weight_kg":"70","height_cm":"175","has_obesity":"on"}`)
	if created.Risk != "high" || created.BMI == nil || *created.BMI != 22.9 || created.HasObesity != 1 {
		t.Fatalf("created = %+v", created)
	}

	rec := s.do(t, http.MethodGet, "/api/v1/patients?risk=HIGH&page_size=5", "")
	env := decodeEnvelope(t, rec)
	if rec.Code != http.StatusOK || env.Meta == nil {
		t.Fatalf("list: status %d body %s", rec.Code, rec.Body.String())
	}
	if env.Meta.Total != 1 || env.Meta.Page != 1 || env.Meta.PageSize != 5 || env.Meta.Pages != 1 {
		t.Errorf("meta = %+v", env.Meta)
	}

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/patients/%d", created.ID), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get: status %d", rec.Code)
	}

	rec = s.do(t, http.MethodPut, fmt.Sprintf("/api/v1/patients/%d", created.ID), `{"glucose_mgdl":95,"systolic":"150","diastolic":"85"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: status %d body %s", rec.Code, rec.Body.String())
	}
	var updated dto.PatientRecordResponse
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &updated); err != nil {
		t.Fatalf("decode updated: %v", err)
	}
	if updated.Risk != "low" || updated.HTNStage == nil || *updated.HTNStage != "stage 2" {
		t.Errorf("updated = %+v", updated)
	}

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/patients/%d/audit-logs", created.ID), "")
	var history []dto.AuditLogResponse
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &history); err != nil || len(history) != 2 {
		t.Errorf("history = %+v, err=%v", history, err)
	}

	for i := 0; i < 2; i++ {
		rec = s.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/patients/%d", created.ID), "")
		if rec.Code != http.StatusOK {
			t.Fatalf("delete #%d: status %d", i+1, rec.Code)
		}
	}

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/patients/%d", created.ID), "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete: status %d", rec.Code)
	}

	if s.trigger.count != 4 {
		t.Errorf("export refresh triggered %d times, want 4", s.trigger.count)
	}
}

func TestRouter_RejectsBadInput(t *testing.T) {
	s := newTestServer(t, "")
	created := s.createPatient(t, `{"name":"Ana","glucose_mgdl":90}`)
	path := fmt.Sprintf("/api/v1/patients/%d", created.ID)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantField  string
	}{
		{"malformed json", http.MethodPost, "/api/v1/patients", `{"name":`, http.StatusBadRequest, ""},
		{"missing name", http.MethodPost, "/api/v1/patients", `{"glucose_mgdl":90}`, http.StatusBadRequest, "name"},
		{"text glucose", http.MethodPost, "/api/v1/patients", `{"name":"Bo","glucose_mgdl":"abc"}`, http.StatusBadRequest, "glucose_mgdl"},
		{"fractional age", http.MethodPost, "/api/v1/patients", `{"name":"Bo","glucose_mgdl":90,"age":"3.5"}`, http.StatusBadRequest, "age"},
		{"unknown update field", http.MethodPut, path, `{"risk":"low"}`, http.StatusBadRequest, ""},
		{"clear glucose", http.MethodPut, path, `{"glucose_mgdl":null}`, http.StatusBadRequest, "glucose_mgdl"},
		{"update missing id", http.MethodPut, "/api/v1/patients/99999", `{"name":"Ghost"}`, http.StatusNotFound, ""},
		{"get missing id", http.MethodGet, "/api/v1/patients/99999", "", http.StatusNotFound, ""},
		{"unsupported export", http.MethodGet, "/api/v1/export/docx", "", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, tt.method, tt.path, tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			env := decodeEnvelope(t, rec)
			if env.Success {
				t.Error("success should be false")
			}
			if tt.wantField != "" {
				var fields map[string]string
				if err := json.Unmarshal(env.Error, &fields); err != nil || fields[tt.wantField] == "" {
					t.Errorf("error = %s, want entry for %s", env.Error, tt.wantField)
				}
			}
		})
	}
}

func TestRouter_NonNumericIDDoesNotRoute(t *testing.T) {
	s := newTestServer(t, "")
	if rec := s.do(t, http.MethodGet, "/api/v1/patients/abc", ""); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestRouter_StatsAndExport(t *testing.T) {
	s := newTestServer(t, "")
	s.createPatient(t, `{"name":"Ana","glucose_mgdl":130,"has_hypertension":true}`)
	s.createPatient(t, `{"name":"Bo","glucose_mgdl":60,"weight_kg":50,"height_cm":180}`)

	rec := s.do(t, http.MethodGet, "/api/v1/stats", "")
	var stats dto.PatientRecordStatsResponse
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.Total != 2 || stats.WithHypertension != 1 || stats.ByRisk["high (hypoglycemia)"] != 1 || stats.ByBMICategory["underweight"] != 1 {
		t.Errorf("stats = %+v", stats)
	}

	rec = s.do(t, http.MethodGet, "/api/v1/export/csv", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("export csv: status %d", rec.Code)
	}
	if !strings.Contains(rec.Header().Get("Content-Disposition"), "patients.csv") {
		t.Errorf("Content-Disposition = %q", rec.Header().Get("Content-Disposition"))
	}
	rows, err := csv.NewReader(bytes.NewReader(rec.Body.Bytes())).ReadAll()
	if err != nil || len(rows) != 3 {
		t.Errorf("csv rows = %d, err=%v", len(rows), err)
	}

	for _, format := range []string{"xlsx", "pdf"} {
		rec = s.do(t, http.MethodGet, "/api/v1/export/"+format, "")
		if rec.Code != http.StatusOK || rec.Body.Len() == 0 {
			t.Errorf("export %s: status %d, %d bytes", format, rec.Code, rec.Body.Len())
		}
	}

	rec = s.do(t, http.MethodGet, "/api/v1/audit-logs?page_size=1", "")
	env := decodeEnvelope(t, rec)
	if env.Meta == nil || env.Meta.Total != 2 || env.Meta.Pages != 2 {
		t.Errorf("audit log meta = %+v", env.Meta)
	}
}

func TestRouter_AuthOnMutations(t *testing.T) {
	s := newTestServer(t, "s3cret")
	token, _, err := s.jwt.GenerateAccessToken("nurse-7", time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	rec := s.do(t, http.MethodPost, "/api/v1/patients", `{"name":"Ana","glucose_mgdl":90}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: status %d", rec.Code)
	}
	rec = s.do(t, http.MethodPost, "/api/v1/patients", `{"name":"Ana","glucose_mgdl":90}`, "Authorization", "Bearer nope")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: status %d", rec.Code)
	}

	created := s.createPatient(t, `{"name":"Ana","glucose_mgdl":90}`, "Authorization", "Bearer "+token)

	if rec := s.do(t, http.MethodGet, "/api/v1/patients", ""); rec.Code != http.StatusOK {
		t.Errorf("reads should stay public, got %d", rec.Code)
	}

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/patients/%d/audit-logs", created.ID), "")
	var history []dto.AuditLogResponse
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &history); err != nil || len(history) != 1 {
		t.Fatalf("history = %+v, err=%v", history, err)
	}
	if history[0].Actor != "nurse-7" {
		t.Errorf("actor = %q, want token subject", history[0].Actor)
	}
}

func TestRouter_Preflight(t *testing.T) {
	s := newTestServer(t, "s3cret")
	rec := s.do(t, http.MethodOptions, "/api/v1/patients", "")

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS header")
	}
}
