package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/classledger/classledger/internal/result"
)

// memoryStore backs tests and single-machine demos. Same validation
// rules as the SQL store so both reject a bad config at save time.
type memoryStore struct {
	mu       sync.RWMutex
	settings *result.Settings
	exams    map[string]result.ExamConfig
	fields   map[string]result.ExtraField
	students map[string]Student
	attempts map[string][]Attempt      // student code -> attempts
	values   map[string]map[string]any // student code -> field key -> raw
}

func NewInMemoryStore() Store {
	return &memoryStore{
		exams:    map[string]result.ExamConfig{},
		fields:   map[string]result.ExtraField{},
		students: map[string]Student{},
		attempts: map[string][]Attempt{},
		values:   map[string]map[string]any{},
	}
}

func (m *memoryStore) Settings(ctx context.Context) (result.Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.settings == nil {
		return defaultSettings(), nil
	}
	return *m.settings, nil
}

func (m *memoryStore) SaveSettings(ctx context.Context, st result.Settings) error {
	if err := result.ValidateSettings(st); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = &st
	return nil
}

func (m *memoryStore) Exams(ctx context.Context) ([]result.ExamConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]result.ExamConfig, 0, len(m.exams))
	for _, ex := range m.exams {
		out = append(out, ex)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].OrderIndex != out[j].OrderIndex {
			return out[i].OrderIndex < out[j].OrderIndex
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *memoryStore) SaveExam(ctx context.Context, ex result.ExamConfig) error {
	if err := result.ValidateExam(ex); err != nil {
		return fmt.Errorf("invalid exam: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exams[ex.ID] = ex
	return nil
}

func (m *memoryStore) Fields(ctx context.Context) ([]result.ExtraField, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]result.ExtraField, 0, len(m.fields))
	for _, f := range m.fields {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (m *memoryStore) SaveField(ctx context.Context, f result.ExtraField) error {
	if err := result.ValidateField(f); err != nil {
		return fmt.Errorf("invalid field: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fields[f.Key] = f
	return nil
}

func (m *memoryStore) DeleteField(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.fields[key]; !ok {
		return ErrNotFound
	}
	delete(m.fields, key)
	for _, vals := range m.values {
		delete(vals, key)
	}
	return nil
}

func (m *memoryStore) StudentData(ctx context.Context, code string) (result.StudentData, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data := result.StudentData{
		AttemptsByExam: map[string][]result.AttemptScore{},
		ValuesByKey:    map[string]any{},
	}
	for _, a := range m.attempts[code] {
		data.AttemptsByExam[a.ExamID] = append(data.AttemptsByExam[a.ExamID], result.AttemptScore{
			Score:      a.Score,
			FinalScore: a.FinalScore,
		})
	}
	for k, v := range m.values[code] {
		data.ValuesByKey[k] = v
	}
	return data, nil
}

func (m *memoryStore) UpsertStudent(ctx context.Context, st Student) error {
	if st.Code == "" {
		return fmt.Errorf("student code required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.students[st.Code] = st
	return nil
}

func (m *memoryStore) ListStudents(ctx context.Context) ([]Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Student, 0, len(m.students))
	for _, st := range m.students {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (m *memoryStore) UpsertAttempt(ctx context.Context, a Attempt) error {
	if a.ID == "" || a.ExamID == "" || a.StudentCode == "" {
		return fmt.Errorf("attempt id, exam_id and student_code required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.exams[a.ExamID]; !ok {
		return fmt.Errorf("exam %s: %w", a.ExamID, ErrNotFound)
	}
	list := m.attempts[a.StudentCode]
	for i, old := range list {
		if old.ID == a.ID {
			list[i] = a
			return nil
		}
	}
	m.attempts[a.StudentCode] = append(list, a)
	return nil
}

func (m *memoryStore) PutValue(ctx context.Context, fieldKey, studentCode string, value any) error {
	if fieldKey == "" || studentCode == "" {
		return fmt.Errorf("field_key and student_code required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.fields[fieldKey]; !ok {
		return fmt.Errorf("field %s: %w", fieldKey, ErrNotFound)
	}
	if m.values[studentCode] == nil {
		m.values[studentCode] = map[string]any{}
	}
	m.values[studentCode][fieldKey] = value
	return nil
}
