package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/32iterations/hccg-hsinchu-pass-guardian-sub000/module/core/domain"
	"github.com/32iterations/hccg-hsinchu-pass-guardian-sub000/module/core/internal/repository/cache"
)

type mockLocationService struct {
	getLatestFn      func(ctx context.Context, patientID string) (*domain.PatientLocation, error)
	getHistoryFn     func(ctx context.Context, query *domain.HistoryQuery) ([]domain.PatientLocation, error)
	getAllPatientsFn func(ctx context.Context) ([]domain.Patient, error)
}

func (m *mockLocationService) GetLatest(ctx context.Context, patientID string) (*domain.PatientLocation, error) {
	return m.getLatestFn(ctx, patientID)
}

func (m *mockLocationService) GetHistory(ctx context.Context, query *domain.HistoryQuery) ([]domain.PatientLocation, error) {
	return m.getHistoryFn(ctx, query)
}

func (m *mockLocationService) GetAllPatients(ctx context.Context) ([]domain.Patient, error) {
	return m.getAllPatientsFn(ctx)
}

type mockStatusReader struct {
	getStatusFn func(ctx context.Context, patientID string) (*domain.PatientStatus, error)
}

func (m *mockStatusReader) GetStatus(ctx context.Context, patientID string) (*domain.PatientStatus, error) {
	return m.getStatusFn(ctx, patientID)
}

func setupPatientRouter(svc locationService, statuses statusReader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewPatientHandler(svc, statuses)
	h.Register(r.Group(""))
	return r
}

func TestGetLatestLocation_Success(t *testing.T) {
	ts := time.Unix(1715003456, 0)
	svc := &mockLocationService{
		getLatestFn: func(_ context.Context, patientID string) (*domain.PatientLocation, error) {
			if patientID != "patient-1" {
				t.Fatalf("unexpected patientID: %s", patientID)
			}
			return &domain.PatientLocation{
				PatientID: "patient-1",
				Location:  domain.Location{Lat: 24.8066, Lon: 120.9686, Timestamp: ts},
			}, nil
		},
	}

	r := setupPatientRouter(svc, &mockStatusReader{})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/patients/patient-1/location", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp locationResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.PatientID != "patient-1" {
		t.Errorf("expected patient-1, got %s", resp.PatientID)
	}
	if resp.Latitude != 24.8066 {
		t.Errorf("expected 24.8066, got %f", resp.Latitude)
	}
	if resp.Timestamp != 1715003456 {
		t.Errorf("expected 1715003456, got %d", resp.Timestamp)
	}
}

func TestGetLatestLocation_NotFound(t *testing.T) {
	svc := &mockLocationService{
		getLatestFn: func(_ context.Context, _ string) (*domain.PatientLocation, error) {
			return nil, errors.New("not found")
		},
	}

	r := setupPatientRouter(svc, &mockStatusReader{})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/patients/unknown/location", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestGetHistory_Success(t *testing.T) {
	svc := &mockLocationService{
		getHistoryFn: func(_ context.Context, query *domain.HistoryQuery) ([]domain.PatientLocation, error) {
			return []domain.PatientLocation{
				{PatientID: query.PatientID, Location: domain.Location{Lat: 24.80, Lon: 120.96, Timestamp: time.Unix(1715000000, 0)}},
				{PatientID: query.PatientID, Location: domain.Location{Lat: 24.81, Lon: 120.97, Timestamp: time.Unix(1715005000, 0)}},
			}, nil
		},
	}

	r := setupPatientRouter(svc, &mockStatusReader{})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/patients/patient-1/history?start=1715000000&end=1715009999", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp []locationResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("expected 2 results, got %d", len(resp))
	}
}

func TestGetHistory_InvalidParams(t *testing.T) {
	r := setupPatientRouter(&mockLocationService{}, &mockStatusReader{})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/patients/patient-1/history?start=abc&end=123", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestGetStatus_Success(t *testing.T) {
	statuses := &mockStatusReader{
		getStatusFn: func(_ context.Context, patientID string) (*domain.PatientStatus, error) {
			return &domain.PatientStatus{
				Status:      domain.StatusWarning,
				LastUpdate:  time.Unix(1715003456, 0),
				IsWandering: true,
			}, nil
		},
	}

	r := setupPatientRouter(&mockLocationService{}, statuses)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/patients/patient-1/status", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp domain.PatientStatus
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Status != domain.StatusWarning {
		t.Errorf("expected warning, got %s", resp.Status)
	}
	if !resp.IsWandering {
		t.Error("expected wandering flag")
	}
}

func TestGetStatus_NotFound(t *testing.T) {
	statuses := &mockStatusReader{
		getStatusFn: func(_ context.Context, _ string) (*domain.PatientStatus, error) {
			return nil, cache.ErrNotFound
		},
	}

	r := setupPatientRouter(&mockLocationService{}, statuses)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/patients/unknown/status", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestGetAllPatients_Success(t *testing.T) {
	svc := &mockLocationService{
		getAllPatientsFn: func(_ context.Context) ([]domain.Patient, error) {
			return []domain.Patient{{PatientID: "patient-1"}, {PatientID: "patient-2"}}, nil
		},
	}

	r := setupPatientRouter(svc, &mockStatusReader{})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/patients", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp []domain.Patient
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("expected 2 patients, got %d", len(resp))
	}
}
