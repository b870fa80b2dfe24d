package result

import "testing"

func examSet() []ExamConfig {
	sixty := 60.0
	return []ExamConfig{
		{ID: "mid", Title: "Midterm", IncludeInPass: true, PassThreshold: &sixty, OrderIndex: 1},
		{ID: "fin", Title: "Final", IncludeInPass: true, PassThreshold: &sixty, OrderIndex: 2},
		{ID: "mock", Title: "Mock", IncludeInPass: false, OrderIndex: 0},
	}
}

func TestExamComponentBestVsAvg(t *testing.T) {
	attempts := map[string][]AttemptScore{
		"mid": {{Score: 70}},
		"fin": {{Score: 40}},
	}

	best := computeExamComponent(examSet(), attempts, Settings{CalcMode: CalcBest, ScoreSource: SourceRaw})
	if best.Score == nil || *best.Score != 70 {
		t.Fatalf("best: want 70, got %v", best.Score)
	}
	avg := computeExamComponent(examSet(), attempts, Settings{CalcMode: CalcAvg, ScoreSource: SourceRaw})
	if avg.Score == nil || *avg.Score != 55 {
		t.Fatalf("avg: want 55, got %v", avg.Score)
	}
	if *best.Score < *avg.Score {
		t.Fatalf("best (%v) must never be below avg (%v)", *best.Score, *avg.Score)
	}

	if best.ExamsTotal != 2 || best.ExamsIncluded != 2 {
		t.Fatalf("want 2/2 exams, got %d/%d", best.ExamsIncluded, best.ExamsTotal)
	}
	if best.ExamsPassed != 1 {
		t.Fatalf("want 1 exam passed, got %d", best.ExamsPassed)
	}
}

func TestExamComponentDetailRows(t *testing.T) {
	attempts := map[string][]AttemptScore{"mid": {{Score: 80}}}
	comp := computeExamComponent(examSet(), attempts, Settings{CalcMode: CalcBest, ScoreSource: SourceRaw})

	// Every configured exam gets a row, order_index order, non-included
	// and unattempted ones included for the audit trail.
	if len(comp.Details) != 3 {
		t.Fatalf("want 3 detail rows, got %d", len(comp.Details))
	}
	if comp.Details[0].ExamID != "mock" || comp.Details[0].Included {
		t.Fatalf("first row should be the excluded mock exam: %+v", comp.Details[0])
	}
	if comp.Details[1].ExamID != "mid" || !comp.Details[1].Included {
		t.Fatalf("second row should be the scored midterm: %+v", comp.Details[1])
	}
	if comp.Details[2].ExamID != "fin" || comp.Details[2].Included || comp.Details[2].Score != nil {
		t.Fatalf("unattempted final must be excluded, not zero: %+v", comp.Details[2])
	}
	if comp.ExamsIncluded != 1 || comp.ExamsTotal != 2 {
		t.Fatalf("want 1/2 exams, got %d/%d", comp.ExamsIncluded, comp.ExamsTotal)
	}
	if comp.ExamsIncluded > comp.ExamsTotal {
		t.Fatalf("included (%d) must not exceed total (%d)", comp.ExamsIncluded, comp.ExamsTotal)
	}
}

func TestExamComponentNoAttempts(t *testing.T) {
	comp := computeExamComponent(examSet(), nil, Settings{CalcMode: CalcAvg, ScoreSource: SourceFinal})
	if comp.Score != nil {
		t.Fatalf("no attempts must give nil score, got %v", *comp.Score)
	}
	if comp.ExamsIncluded != 0 || comp.ExamsTotal != 2 {
		t.Fatalf("want 0/2 exams, got %d/%d", comp.ExamsIncluded, comp.ExamsTotal)
	}
}

func TestExamComponentScoreSource(t *testing.T) {
	adjusted := 90.0
	attempts := map[string][]AttemptScore{
		"mid": {{Score: 50, FinalScore: &adjusted}},
	}
	exams := examSet()[:1]

	final := computeExamComponent(exams, attempts, Settings{CalcMode: CalcBest, ScoreSource: SourceFinal})
	if final.Score == nil || *final.Score != 90 {
		t.Fatalf("source=final: want 90, got %v", final.Score)
	}
	raw := computeExamComponent(exams, attempts, Settings{CalcMode: CalcBest, ScoreSource: SourceRaw})
	if raw.Score == nil || *raw.Score != 50 {
		t.Fatalf("source=raw: want 50, got %v", raw.Score)
	}
}

func TestExamComponentMultipleAttemptsTakeMax(t *testing.T) {
	attempts := map[string][]AttemptScore{
		"mid": {{Score: 55}, {Score: 82}, {Score: 71}},
	}
	comp := computeExamComponent(examSet()[:1], attempts, Settings{CalcMode: CalcBest, ScoreSource: SourceRaw})
	if comp.Score == nil || *comp.Score != 82 {
		t.Fatalf("want max attempt 82, got %v", comp.Score)
	}
}
