package result

// ExamDetail is one audit row of the exam component. A row is emitted
// for every configured exam, including ones excluded from scoring.
type ExamDetail struct {
	ExamID        string   `json:"exam_id"`
	ExamTitle     string   `json:"exam_title"`
	Score         *float64 `json:"score"`
	Included      bool     `json:"included"`
	Passed        *bool    `json:"passed"`
	PassThreshold *float64 `json:"pass_threshold,omitempty"`
}

// ExamComponent is the exam side of the blended final score.
type ExamComponent struct {
	Score         *float64     `json:"score"`
	ExamsTotal    int          `json:"exams_total"`
	ExamsIncluded int          `json:"exams_included"`
	ExamsPassed   int          `json:"exams_passed"`
	Details       []ExamDetail `json:"details"`
}

// FieldDetail is one audit row of the extra component. Fields the
// student has no usable value for are omitted entirely; they never
// appear with a zero.
type FieldDetail struct {
	FieldKey             string  `json:"field_key"`
	FieldLabel           string  `json:"field_label"`
	RawValue             any     `json:"raw_value"`
	NormalizedScore      float64 `json:"normalized_score"`
	Weight               float64 `json:"weight"`
	WeightedContribution float64 `json:"weighted_contribution"`
}

// ExtraComponent is the weighted non-exam side of the final score.
// TotalWeight is the sum of the weights of the detail rows only.
type ExtraComponent struct {
	Score       *float64      `json:"score"`
	TotalWeight float64       `json:"total_weight"`
	Details     []FieldDetail `json:"details"`
}

// CalculationResult is the immutable, recomputable outcome of one
// evaluation. It is never the source of truth; settings, configs and
// raw data are, and re-evaluating always rebuilds it from those.
type CalculationResult struct {
	StudentCode     string         `json:"student_code"`
	Success         bool           `json:"success"`
	Error           string         `json:"error,omitempty"`
	FinalScore      *float64       `json:"final_score"`
	Passed          *bool          `json:"passed"`
	PassThreshold   float64        `json:"pass_threshold"`
	FailedDueToExam bool           `json:"failed_due_to_exam"`
	Message         string         `json:"message,omitempty"`
	ExamComponent   ExamComponent  `json:"exam_component"`
	ExtraComponent  ExtraComponent `json:"extra_component"`
}

// buildResult assembles the final report from both components.
func buildResult(code string, st Settings, exam ExamComponent, extra ExtraComponent) CalculationResult {
	final, passed, failedDueToExam := combine(exam, extra, st)

	res := CalculationResult{
		StudentCode:     code,
		Success:         true,
		FinalScore:      final,
		Passed:          passed,
		PassThreshold:   st.PassThreshold,
		FailedDueToExam: failedDueToExam,
		ExamComponent:   exam,
		ExtraComponent:  extra,
	}
	switch {
	case passed == nil:
		// No verdict to announce: show the "result not available" message.
		res.Message = st.MessageHidden
	case *passed:
		res.Message = st.MessagePass
	default:
		res.Message = st.MessageFail
	}
	return res
}

// failureResult marks a student whose inputs could not be fetched at
// all. Batch callers keep going and report it alongside the rest.
func failureResult(code string, st Settings, err error) CalculationResult {
	res := CalculationResult{
		StudentCode:   code,
		Success:       false,
		PassThreshold: st.PassThreshold,
	}
	if err != nil {
		res.Error = err.Error()
	}
	return res
}
