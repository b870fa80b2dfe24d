package result

import "testing"

func TestExtraComponentWeighting(t *testing.T) {
	maxFifty := 50.0
	fields := []ExtraField{
		{Key: "attendance", Label: "Attendance %", Type: FieldNumber, IncludeInPass: true, PassWeight: 2},
		{Key: "homework", Label: "Homework", Type: FieldNumber, IncludeInPass: true, PassWeight: 1, MaxPoints: &maxFifty},
		{Key: "notes", Label: "Notes", Type: FieldText, IncludeInPass: false, PassWeight: 5},
	}
	values := map[string]any{
		"attendance": 90.0,
		"homework":   25.0, // -> 50
		"notes":      "ignored",
	}

	comp := computeExtraComponent(fields, values, defaultNormalizers())
	// (90*2 + 50*1) / 3
	want := (90.0*2 + 50.0) / 3
	if comp.Score == nil || *comp.Score != want {
		t.Fatalf("want %v, got %v", want, comp.Score)
	}
	if comp.TotalWeight != 3 {
		t.Fatalf("want total weight 3, got %v", comp.TotalWeight)
	}
	if len(comp.Details) != 2 {
		t.Fatalf("non-scoring field must not appear in details, got %d rows", len(comp.Details))
	}

	sum := 0.0
	for _, d := range comp.Details {
		sum += d.Weight
	}
	if sum != comp.TotalWeight {
		t.Fatalf("total weight %v must equal sum of detail weights %v", comp.TotalWeight, sum)
	}
}

func TestExtraComponentMissingValueExcluded(t *testing.T) {
	fields := []ExtraField{
		{Key: "attendance", Type: FieldNumber, IncludeInPass: true, PassWeight: 2},
		{Key: "quiz", Type: FieldNumber, IncludeInPass: true, PassWeight: 3},
	}
	values := map[string]any{"attendance": 80.0} // no quiz value recorded

	comp := computeExtraComponent(fields, values, defaultNormalizers())
	// The missing field drops out of the denominator; it is not a zero.
	if comp.Score == nil || *comp.Score != 80 {
		t.Fatalf("want 80, got %v", comp.Score)
	}
	if comp.TotalWeight != 2 {
		t.Fatalf("want total weight 2, got %v", comp.TotalWeight)
	}
	for _, d := range comp.Details {
		if d.FieldKey == "quiz" {
			t.Fatalf("missing-value field must be absent from details")
		}
	}
}

func TestExtraComponentNoData(t *testing.T) {
	fields := []ExtraField{
		{Key: "attendance", Type: FieldNumber, IncludeInPass: true, PassWeight: 1},
	}
	comp := computeExtraComponent(fields, map[string]any{}, defaultNormalizers())
	if comp.Score != nil {
		t.Fatalf("zero total weight must give nil score, got %v", *comp.Score)
	}
	if comp.TotalWeight != 0 || len(comp.Details) != 0 {
		t.Fatalf("want empty component, got weight=%v details=%d", comp.TotalWeight, len(comp.Details))
	}
}

func TestExtraComponentHiddenStillScores(t *testing.T) {
	fields := []ExtraField{
		{Key: "conduct", Type: FieldBoolean, Hidden: true, IncludeInPass: true, PassWeight: 1},
	}
	comp := computeExtraComponent(fields, map[string]any{"conduct": true}, defaultNormalizers())
	// hidden is a display flag only; scoring eligibility is include_in_pass
	if comp.Score == nil || *comp.Score != 100 {
		t.Fatalf("hidden score-active field must contribute, got %v", comp.Score)
	}
}
