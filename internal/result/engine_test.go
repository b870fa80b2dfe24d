package result_test

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/classledger/classledger/internal/result"
)

/* ---------------- In-memory fake that satisfies result.Source ---------------- */

type fakeSource struct {
	settings result.Settings
	exams    []result.ExamConfig
	fields   []result.ExtraField
	students map[string]result.StudentData
	failFor  map[string]error
}

func (f *fakeSource) Settings(context.Context) (result.Settings, error) { return f.settings, nil }
func (f *fakeSource) Exams(context.Context) ([]result.ExamConfig, error) {
	return f.exams, nil
}
func (f *fakeSource) Fields(context.Context) ([]result.ExtraField, error) {
	return f.fields, nil
}
func (f *fakeSource) StudentData(_ context.Context, code string) (result.StudentData, error) {
	if err := f.failFor[code]; err != nil {
		return result.StudentData{}, err
	}
	return f.students[code], nil
}

func seedSource() *fakeSource {
	maxFifty := 50.0
	return &fakeSource{
		settings: result.Settings{
			CalcMode:      result.CalcBest,
			PassThreshold: 60,
			ExamWeight:    2,
			ScoreSource:   result.SourceFinal,
			MessagePass:   "Congratulations, you passed.",
			MessageFail:   "Unfortunately you did not pass.",
			MessageHidden: "Results are not available yet.",
		},
		exams: []result.ExamConfig{
			{ID: "term1", Title: "Term 1", IncludeInPass: true, OrderIndex: 1},
		},
		fields: []result.ExtraField{
			{Key: "homework", Label: "Homework", Type: result.FieldNumber, IncludeInPass: true, PassWeight: 1, MaxPoints: &maxFifty},
		},
		students: map[string]result.StudentData{
			"s-001": {
				AttemptsByExam: map[string][]result.AttemptScore{
					"term1": {{Score: 80}},
				},
				ValuesByKey: map[string]any{"homework": 25.0},
			},
			"s-002": {}, // enrolled, nothing recorded
		},
		failFor: map[string]error{},
	}
}

func TestEvaluateBlendedScenario(t *testing.T) {
	eng := result.NewEngine(seedSource())

	res, err := eng.Evaluate(context.Background(), "s-001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Success {
		t.Fatalf("expected success, got error %q", res.Error)
	}
	// homework 25/50 -> 50; (80*2 + 50*1)/3 = 70
	if res.FinalScore == nil || *res.FinalScore != 70 {
		t.Fatalf("want final 70, got %v", res.FinalScore)
	}
	if res.Passed == nil || !*res.Passed {
		t.Fatalf("70 >= 60 must pass")
	}
	if res.PassThreshold != 60 {
		t.Fatalf("threshold must be echoed, got %v", res.PassThreshold)
	}
	if res.Message != "Congratulations, you passed." {
		t.Fatalf("wrong message: %q", res.Message)
	}
	if len(res.ExtraComponent.Details) != 1 || res.ExtraComponent.Details[0].NormalizedScore != 50 {
		t.Fatalf("homework detail wrong: %+v", res.ExtraComponent.Details)
	}
}

func TestEvaluateNoDataStudent(t *testing.T) {
	eng := result.NewEngine(seedSource())

	res, err := eng.Evaluate(context.Background(), "s-002")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Success {
		t.Fatalf("empty data is not a failure")
	}
	if res.FinalScore != nil || res.Passed != nil {
		t.Fatalf("want nil score and verdict, got %v %v", res.FinalScore, res.Passed)
	}
	if res.Message != "Results are not available yet." {
		t.Fatalf("no-verdict message expected, got %q", res.Message)
	}
}

func TestEvaluateStrictFail(t *testing.T) {
	src := seedSource()
	seventy := 70.0
	src.settings.FailOnAnyExam = true
	src.exams = append(src.exams, result.ExamConfig{
		ID: "term2", Title: "Term 2", IncludeInPass: true, PassThreshold: &seventy, OrderIndex: 2,
	})
	data := src.students["s-001"]
	data.AttemptsByExam["term2"] = []result.AttemptScore{{Score: 65}} // below its own threshold
	src.students["s-001"] = data

	eng := result.NewEngine(src)
	res, err := eng.Evaluate(context.Background(), "s-001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.FinalScore == nil || *res.FinalScore < 60 {
		t.Fatalf("blended score should clear the threshold, got %v", res.FinalScore)
	}
	if res.Passed == nil || *res.Passed {
		t.Fatalf("strict override must fail the student")
	}
	if !res.FailedDueToExam {
		t.Fatalf("failure must be flagged as exam-caused")
	}
	if res.Message != "Unfortunately you did not pass." {
		t.Fatalf("fail message expected, got %q", res.Message)
	}
}

func TestEvaluateIdempotent(t *testing.T) {
	eng := result.NewEngine(seedSource())

	a, err := eng.Evaluate(context.Background(), "s-001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := eng.Evaluate(context.Background(), "s-001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("same inputs must yield identical results:\n%+v\n%+v", a, b)
	}
}

func TestEvaluateBatchIsolatesFailures(t *testing.T) {
	src := seedSource()
	src.failFor["s-404"] = errors.New("summaries backend down")
	for i := 0; i < 20; i++ {
		code := fmt.Sprintf("bulk-%02d", i)
		src.students[code] = result.StudentData{
			AttemptsByExam: map[string][]result.AttemptScore{
				"term1": {{Score: float64(40 + i*3)}},
			},
		}
	}

	codes := []string{"s-001", "s-404", "s-002"}
	for i := 0; i < 20; i++ {
		codes = append(codes, fmt.Sprintf("bulk-%02d", i))
	}

	eng := result.NewEngine(src, result.WithBatchWorkers(4))
	out, err := eng.EvaluateBatch(context.Background(), codes)
	if err != nil {
		t.Fatalf("batch must not abort on one bad student: %v", err)
	}
	if len(out) != len(codes) {
		t.Fatalf("want %d results, got %d", len(codes), len(out))
	}

	bad := out["s-404"]
	if bad.Success {
		t.Fatalf("fetch failure must be reported with success=false")
	}
	if bad.Error == "" {
		t.Fatalf("failure row should carry the error text")
	}
	good := out["s-001"]
	if !good.Success || good.FinalScore == nil || *good.FinalScore != 70 {
		t.Fatalf("other students unaffected, got %+v", good)
	}
}
