package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/classledger/classledger/internal/result"
)

type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

// defaultSettings mirrors the schema defaults, used until an admin
// saves the settings row for the first time.
func defaultSettings() result.Settings {
	return result.Settings{
		CalcMode:      result.CalcBest,
		PassThreshold: 50,
		ExamWeight:    1,
		ScoreSource:   result.SourceFinal,
	}
}

func (s *SQLStore) Settings(ctx context.Context) (result.Settings, error) {
	row := s.db.QueryRowContext(ctx, `SELECT calc_mode,pass_threshold,exam_weight,score_source,fail_on_any_exam,message_pass,message_fail,message_hidden FROM settings WHERE id=1`)
	var st result.Settings
	err := row.Scan(&st.CalcMode, &st.PassThreshold, &st.ExamWeight, &st.ScoreSource, &st.FailOnAnyExam, &st.MessagePass, &st.MessageFail, &st.MessageHidden)
	if errors.Is(err, sql.ErrNoRows) {
		return defaultSettings(), nil
	}
	if err != nil {
		return result.Settings{}, err
	}
	return st, nil
}

func (s *SQLStore) SaveSettings(ctx context.Context, st result.Settings) error {
	if err := result.ValidateSettings(st); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO settings (id,calc_mode,pass_threshold,exam_weight,score_source,fail_on_any_exam,message_pass,message_fail,message_hidden)
		VALUES (1,$1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (id) DO UPDATE SET calc_mode=EXCLUDED.calc_mode, pass_threshold=EXCLUDED.pass_threshold,
			exam_weight=EXCLUDED.exam_weight, score_source=EXCLUDED.score_source, fail_on_any_exam=EXCLUDED.fail_on_any_exam,
			message_pass=EXCLUDED.message_pass, message_fail=EXCLUDED.message_fail, message_hidden=EXCLUDED.message_hidden`,
		st.CalcMode, st.PassThreshold, st.ExamWeight, st.ScoreSource, st.FailOnAnyExam, st.MessagePass, st.MessageFail, st.MessageHidden)
	return err
}

func (s *SQLStore) Exams(ctx context.Context) ([]result.ExamConfig, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id,title,include_in_pass,pass_threshold,order_index FROM exams ORDER BY order_index, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []result.ExamConfig{}
	for rows.Next() {
		var ex result.ExamConfig
		var thr sql.NullFloat64
		if err := rows.Scan(&ex.ID, &ex.Title, &ex.IncludeInPass, &thr, &ex.OrderIndex); err != nil {
			return nil, err
		}
		if thr.Valid {
			ex.PassThreshold = &thr.Float64
		}
		out = append(out, ex)
	}
	return out, rows.Err()
}

func (s *SQLStore) SaveExam(ctx context.Context, ex result.ExamConfig) error {
	if err := result.ValidateExam(ex); err != nil {
		return fmt.Errorf("invalid exam: %w", err)
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO exams (id,title,include_in_pass,pass_threshold,order_index)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (id) DO UPDATE SET title=EXCLUDED.title, include_in_pass=EXCLUDED.include_in_pass,
			pass_threshold=EXCLUDED.pass_threshold, order_index=EXCLUDED.order_index`,
		ex.ID, ex.Title, ex.IncludeInPass, nullFloat(ex.PassThreshold), ex.OrderIndex)
	return err
}

func (s *SQLStore) Fields(ctx context.Context) ([]result.ExtraField, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key,label,type,hidden,include_in_pass,pass_weight,max_points,bool_true_points,bool_false_points,text_score_map FROM extra_fields ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []result.ExtraField{}
	for rows.Next() {
		var f result.ExtraField
		var maxPts, truePts, falsePts sql.NullFloat64
		var textMap string
		if err := rows.Scan(&f.Key, &f.Label, &f.Type, &f.Hidden, &f.IncludeInPass, &f.PassWeight, &maxPts, &truePts, &falsePts, &textMap); err != nil {
			return nil, err
		}
		if maxPts.Valid {
			f.MaxPoints = &maxPts.Float64
		}
		if truePts.Valid {
			f.BoolTruePoints = &truePts.Float64
		}
		if falsePts.Valid {
			f.BoolFalsePoints = &falsePts.Float64
		}
		if textMap != "" {
			if err := json.Unmarshal([]byte(textMap), &f.TextScoreMap); err != nil {
				return nil, fmt.Errorf("field %s: text_score_map: %w", f.Key, err)
			}
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (s *SQLStore) SaveField(ctx context.Context, f result.ExtraField) error {
	if err := result.ValidateField(f); err != nil {
		return fmt.Errorf("invalid field: %w", err)
	}
	tm := f.TextScoreMap
	if tm == nil {
		tm = map[string]float64{}
	}
	buf, err := json.Marshal(tm)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO extra_fields (key,label,type,hidden,include_in_pass,pass_weight,max_points,bool_true_points,bool_false_points,text_score_map)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (key) DO UPDATE SET label=EXCLUDED.label, type=EXCLUDED.type, hidden=EXCLUDED.hidden,
			include_in_pass=EXCLUDED.include_in_pass, pass_weight=EXCLUDED.pass_weight, max_points=EXCLUDED.max_points,
			bool_true_points=EXCLUDED.bool_true_points, bool_false_points=EXCLUDED.bool_false_points, text_score_map=EXCLUDED.text_score_map`,
		f.Key, f.Label, f.Type, f.Hidden, f.IncludeInPass, f.PassWeight,
		nullFloat(f.MaxPoints), nullFloat(f.BoolTruePoints), nullFloat(f.BoolFalsePoints), string(buf))
	return err
}

func (s *SQLStore) DeleteField(ctx context.Context, key string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM extra_fields WHERE key=$1`, key)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// StudentData loads one student's raw attempt percentages and raw
// extra values. Empty maps are legitimate: a student with nothing
// recorded still evaluates (to a null result), it is not an error.
func (s *SQLStore) StudentData(ctx context.Context, code string) (result.StudentData, error) {
	data := result.StudentData{
		AttemptsByExam: map[string][]result.AttemptScore{},
		ValuesByKey:    map[string]any{},
	}

	rows, err := s.db.QueryContext(ctx, `SELECT exam_id,score_percentage,final_score_percentage FROM exam_attempts WHERE student_code=$1`, code)
	if err != nil {
		return result.StudentData{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var examID string
		var a result.AttemptScore
		var final sql.NullFloat64
		if err := rows.Scan(&examID, &a.Score, &final); err != nil {
			return result.StudentData{}, err
		}
		if final.Valid {
			a.FinalScore = &final.Float64
		}
		data.AttemptsByExam[examID] = append(data.AttemptsByExam[examID], a)
	}
	if err := rows.Err(); err != nil {
		return result.StudentData{}, err
	}

	vrows, err := s.db.QueryContext(ctx, `SELECT field_key,value FROM extra_values WHERE student_code=$1`, code)
	if err != nil {
		return result.StudentData{}, err
	}
	defer vrows.Close()
	for vrows.Next() {
		var key, raw string
		if err := vrows.Scan(&key, &raw); err != nil {
			return result.StudentData{}, err
		}
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			// Legacy plain-text value; keep it as the string it is.
			v = raw
		}
		data.ValuesByKey[key] = v
	}
	return data, vrows.Err()
}

func (s *SQLStore) UpsertStudent(ctx context.Context, st Student) error {
	if st.Code == "" {
		return errors.New("student code required")
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO students (code,name,created_at) VALUES ($1,$2,$3)
		ON CONFLICT (code) DO UPDATE SET name=EXCLUDED.name`,
		st.Code, st.Name, time.Now().Unix())
	return err
}

func (s *SQLStore) ListStudents(ctx context.Context) ([]Student, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT code,name FROM students ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Student{}
	for rows.Next() {
		var st Student
		if err := rows.Scan(&st.Code, &st.Name); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *SQLStore) UpsertAttempt(ctx context.Context, a Attempt) error {
	if a.ID == "" || a.ExamID == "" || a.StudentCode == "" {
		return errors.New("attempt id, exam_id and student_code required")
	}
	var exist int
	if err := s.db.QueryRowContext(ctx, `SELECT 1 FROM exams WHERE id=$1`, a.ExamID).Scan(&exist); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("exam %s: %w", a.ExamID, ErrNotFound)
		}
		return err
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO exam_attempts (id,exam_id,student_code,score_percentage,final_score_percentage,submitted_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (id) DO UPDATE SET score_percentage=EXCLUDED.score_percentage, final_score_percentage=EXCLUDED.final_score_percentage`,
		a.ID, a.ExamID, a.StudentCode, a.Score, nullFloat(a.FinalScore), time.Now().Unix())
	return err
}

func (s *SQLStore) PutValue(ctx context.Context, fieldKey, studentCode string, value any) error {
	if fieldKey == "" || studentCode == "" {
		return errors.New("field_key and student_code required")
	}
	var exist int
	if err := s.db.QueryRowContext(ctx, `SELECT 1 FROM extra_fields WHERE key=$1`, fieldKey).Scan(&exist); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("field %s: %w", fieldKey, ErrNotFound)
		}
		return err
	}
	buf, err := json.Marshal(value)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO extra_values (field_key,student_code,value,updated_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (field_key,student_code) DO UPDATE SET value=EXCLUDED.value, updated_at=EXCLUDED.updated_at`,
		fieldKey, studentCode, string(buf), time.Now().Unix())
	return err
}

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}
