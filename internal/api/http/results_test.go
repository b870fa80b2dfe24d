package http_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	api "github.com/classledger/classledger/internal/api/http"
	"github.com/classledger/classledger/internal/result"
	"github.com/classledger/classledger/internal/store"
)

func seedStore(t *testing.T) store.Store {
	t.Helper()
	ctx := context.Background()
	st := store.NewInMemoryStore()

	if err := st.SaveSettings(ctx, result.Settings{
		CalcMode: result.CalcBest, ScoreSource: result.SourceRaw,
		PassThreshold: 60, ExamWeight: 2,
	}); err != nil {
		t.Fatalf("settings: %v", err)
	}
	if err := st.SaveExam(ctx, result.ExamConfig{ID: "term1", Title: "Term 1", IncludeInPass: true}); err != nil {
		t.Fatalf("exam: %v", err)
	}
	if err := st.UpsertStudent(ctx, store.Student{Code: "s1", Name: "Asha"}); err != nil {
		t.Fatalf("student: %v", err)
	}
	if err := st.UpsertStudent(ctx, store.Student{Code: "s2", Name: "Biko"}); err != nil {
		t.Fatalf("student: %v", err)
	}
	if err := st.UpsertAttempt(ctx, store.Attempt{ID: "a1", ExamID: "term1", StudentCode: "s1", Score: 80}); err != nil {
		t.Fatalf("attempt: %v", err)
	}
	return st
}

func TestGetStudentResultHandler(t *testing.T) {
	st := seedStore(t)
	eng := result.NewEngine(st)

	r := chi.NewRouter()
	r.Get("/students/{code}/result", api.GetStudentResultHandler(eng))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/students/s1/result", nil))
	if rec.Code != 200 {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var res result.CalculationResult
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !res.Success || res.FinalScore == nil || *res.FinalScore != 80 {
		t.Fatalf("want final 80, got %+v", res)
	}
	if res.Passed == nil || !*res.Passed {
		t.Fatalf("80 >= 60 must pass")
	}
}

func TestBatchResultsHandlerWholeRoster(t *testing.T) {
	st := seedStore(t)
	eng := result.NewEngine(st)

	r := chi.NewRouter()
	r.Post("/results/batch", api.BatchResultsHandler(eng, st))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/results/batch", strings.NewReader(`{}`))
	r.ServeHTTP(rec, req)
	if rec.Code != 200 {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Results map[string]result.CalculationResult `json:"results"`
		Total   int                                 `json:"total"`
		Failed  int                                 `json:"failed"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// Empty codes means the whole roster: both seeded students.
	if resp.Total != 2 || resp.Failed != 0 {
		t.Fatalf("want 2 results, 0 failed; got %d/%d", resp.Total, resp.Failed)
	}
	if res := resp.Results["s2"]; !res.Success || res.FinalScore != nil {
		t.Fatalf("student with no data: success with nil score expected, got %+v", res)
	}
}

func TestPutFieldValidation(t *testing.T) {
	st := seedStore(t)

	r := chi.NewRouter()
	r.Put("/fields/{key}", api.PutFieldHandler(st))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/fields/homework", strings.NewReader(`{"type":"number","pass_weight":-2}`))
	r.ServeHTTP(rec, req)
	if rec.Code != 422 {
		t.Fatalf("negative weight must be rejected with 422, got %d: %s", rec.Code, rec.Body.String())
	}
}
