package store

import (
	"context"
	"errors"

	"github.com/classledger/classledger/internal/result"
)

// Attempt is one recorded exam sitting. Percentages arrive already
// graded; this service never sees individual questions.
type Attempt struct {
	ID          string   `json:"id"`
	ExamID      string   `json:"exam_id"`
	StudentCode string   `json:"student_code"`
	Score       float64  `json:"score_percentage"`
	FinalScore  *float64 `json:"final_score_percentage,omitempty"`
}

type Student struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

var (
	ErrNotFound = errors.New("not found")
)

// Store is the data-access layer: the engine's read surface plus the
// admin write surface. Writes validate configs before they land so a
// malformed row never reaches a calculation.
type Store interface {
	result.Source

	SaveSettings(ctx context.Context, st result.Settings) error
	SaveExam(ctx context.Context, ex result.ExamConfig) error
	SaveField(ctx context.Context, f result.ExtraField) error
	DeleteField(ctx context.Context, key string) error

	UpsertStudent(ctx context.Context, s Student) error
	ListStudents(ctx context.Context) ([]Student, error)
	UpsertAttempt(ctx context.Context, a Attempt) error
	PutValue(ctx context.Context, fieldKey, studentCode string, value any) error
}
