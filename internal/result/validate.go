package result

import (
	"fmt"
	"math"
)

// Config validation runs at save time in the admin API so malformed
// rows never reach a calculation. The engine itself clamps defensively,
// keeping roster-wide evaluations resilient to a bad row that slipped
// through an older database.

func ValidateSettings(st Settings) error {
	switch st.CalcMode {
	case CalcBest, CalcAvg:
	default:
		return fmt.Errorf("calc mode %q: want best or avg", st.CalcMode)
	}
	switch st.ScoreSource {
	case SourceFinal, SourceRaw:
	default:
		return fmt.Errorf("score source %q: want final or raw", st.ScoreSource)
	}
	if !isFinite(st.PassThreshold) || st.PassThreshold < 0 || st.PassThreshold > 100 {
		return fmt.Errorf("pass threshold %v: want 0..100", st.PassThreshold)
	}
	if !isFinite(st.ExamWeight) || st.ExamWeight < 0 {
		return fmt.Errorf("exam weight %v: want >= 0", st.ExamWeight)
	}
	return nil
}

func ValidateField(f ExtraField) error {
	if f.Key == "" {
		return fmt.Errorf("field key required")
	}
	if !isFinite(f.PassWeight) || f.PassWeight < 0 {
		return fmt.Errorf("field %s: pass weight %v: want >= 0", f.Key, f.PassWeight)
	}
	switch f.Type {
	case FieldNumber:
		if f.MaxPoints != nil && (!isFinite(*f.MaxPoints) || *f.MaxPoints <= 0) {
			return fmt.Errorf("field %s: max points %v: want > 0 or unset", f.Key, *f.MaxPoints)
		}
	case FieldBoolean:
		for _, p := range []*float64{f.BoolTruePoints, f.BoolFalsePoints} {
			if p != nil && (!isFinite(*p) || *p < 0 || *p > 100) {
				return fmt.Errorf("field %s: boolean points %v: want 0..100", f.Key, *p)
			}
		}
	case FieldText:
		for k, v := range f.TextScoreMap {
			if !isFinite(v) || v < 0 || v > 100 {
				return fmt.Errorf("field %s: text score %q=%v: want 0..100", f.Key, k, v)
			}
		}
	default:
		return fmt.Errorf("field %s: type %q: want number, boolean or text", f.Key, f.Type)
	}
	return nil
}

func ValidateExam(ex ExamConfig) error {
	if ex.ID == "" {
		return fmt.Errorf("exam id required")
	}
	if ex.PassThreshold != nil && (!isFinite(*ex.PassThreshold) || *ex.PassThreshold < 0 || *ex.PassThreshold > 100) {
		return fmt.Errorf("exam %s: pass threshold %v: want 0..100", ex.ID, *ex.PassThreshold)
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
