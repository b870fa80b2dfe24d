package result

import (
	"math"
	"testing"
)

func TestValidateSettings(t *testing.T) {
	ok := Settings{CalcMode: CalcAvg, ScoreSource: SourceRaw, PassThreshold: 50, ExamWeight: 0}
	if err := ValidateSettings(ok); err != nil {
		t.Fatalf("valid settings rejected: %v", err)
	}
	bad := []Settings{
		{CalcMode: "median", ScoreSource: SourceRaw, PassThreshold: 50},
		{CalcMode: CalcBest, ScoreSource: "manual", PassThreshold: 50},
		{CalcMode: CalcBest, ScoreSource: SourceRaw, PassThreshold: 101},
		{CalcMode: CalcBest, ScoreSource: SourceRaw, PassThreshold: 50, ExamWeight: -1},
		{CalcMode: CalcBest, ScoreSource: SourceRaw, PassThreshold: math.NaN()},
	}
	for i, st := range bad {
		if err := ValidateSettings(st); err == nil {
			t.Fatalf("case %d: invalid settings accepted: %+v", i, st)
		}
	}
}

func TestValidateField(t *testing.T) {
	neg := -5.0
	bad := []ExtraField{
		{Key: "", Type: FieldNumber},
		{Key: "w", Type: FieldNumber, PassWeight: -1},
		{Key: "m", Type: FieldNumber, MaxPoints: &neg},
		{Key: "t", Type: "date"},
		{Key: "s", Type: FieldText, TextScoreMap: map[string]float64{"x": 500}},
	}
	for i, f := range bad {
		if err := ValidateField(f); err == nil {
			t.Fatalf("case %d: invalid field accepted: %+v", i, f)
		}
	}
	if err := ValidateField(ExtraField{Key: "ok", Type: FieldBoolean, PassWeight: 2}); err != nil {
		t.Fatalf("valid field rejected: %v", err)
	}
}

func TestValidateExam(t *testing.T) {
	if err := ValidateExam(ExamConfig{ID: "x", Title: "X"}); err != nil {
		t.Fatalf("valid exam rejected: %v", err)
	}
	over := 120.0
	if err := ValidateExam(ExamConfig{ID: "x", PassThreshold: &over}); err == nil {
		t.Fatalf("threshold over 100 accepted")
	}
	if err := ValidateExam(ExamConfig{}); err == nil {
		t.Fatalf("empty id accepted")
	}
}
