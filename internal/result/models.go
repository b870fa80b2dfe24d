package result

// CalcMode selects how multiple per-exam scores aggregate into the
// exam component.
type CalcMode string

const (
	CalcBest CalcMode = "best"
	CalcAvg  CalcMode = "avg"
)

// ScoreSource selects which attempt percentage feeds the exam component.
type ScoreSource string

const (
	SourceFinal ScoreSource = "final" // manually adjusted score, falls back to raw
	SourceRaw   ScoreSource = "raw"   // auto-graded score only
)

// FieldType is the admin-assigned value type of an extra field.
type FieldType string

const (
	FieldNumber  FieldType = "number"
	FieldBoolean FieldType = "boolean"
	FieldText    FieldType = "text"
)

// Settings is the single global scoring configuration. It is passed into
// every evaluation explicitly so the engine stays a pure function.
type Settings struct {
	CalcMode      CalcMode    `json:"result_pass_calc_mode"`
	PassThreshold float64     `json:"result_overall_pass_threshold"`
	ExamWeight    float64     `json:"result_exam_weight"`
	ScoreSource   ScoreSource `json:"result_exam_score_source"`
	FailOnAnyExam bool        `json:"result_fail_on_any_exam"`
	MessagePass   string      `json:"result_message_pass,omitempty"`
	MessageFail   string      `json:"result_message_fail,omitempty"`
	MessageHidden string      `json:"result_message_hidden,omitempty"`
}

// ExamConfig describes one exam as the administrator configured it.
// Read-only to the engine.
type ExamConfig struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	IncludeInPass bool     `json:"include_in_pass"`
	PassThreshold *float64 `json:"pass_threshold,omitempty"` // per-exam; nil = no own threshold
	OrderIndex    int      `json:"order_index"`
}

// AttemptScore is one attempt's percentages for a student on one exam.
// FinalScore is set once manual grading adjusted the raw auto-grade.
type AttemptScore struct {
	Score      float64  `json:"score_percentage"`
	FinalScore *float64 `json:"final_score_percentage,omitempty"`
}

// ExtraField describes one admin-defined non-exam signal (attendance
// percentage, homework completion, manual entries...). Hidden affects
// display only; IncludeInPass alone decides scoring eligibility.
type ExtraField struct {
	Key             string             `json:"key"`
	Label           string             `json:"label"`
	Type            FieldType          `json:"type"`
	Hidden          bool               `json:"hidden"`
	IncludeInPass   bool               `json:"include_in_pass"`
	PassWeight      float64            `json:"pass_weight"`
	MaxPoints       *float64           `json:"max_points,omitempty"`        // number: nil/<=0 means value is already a percentage
	BoolTruePoints  *float64           `json:"bool_true_points,omitempty"`  // default 100
	BoolFalsePoints *float64           `json:"bool_false_points,omitempty"` // default 0
	TextScoreMap    map[string]float64 `json:"text_score_map,omitempty"`    // exact, case-sensitive keys
}

// StudentData is everything recorded for one student that scoring reads:
// raw attempt percentages keyed by exam ID and raw extra values keyed by
// field key.
type StudentData struct {
	AttemptsByExam map[string][]AttemptScore
	ValuesByKey    map[string]any
}
