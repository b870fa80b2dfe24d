package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/classledger/classledger/internal/result"
	"github.com/classledger/classledger/internal/store"
)

// Admin surface: scoring settings, exam configs, extra-field configs,
// plus the upstream push endpoints for attempt percentages and raw
// extra values. Config writes validate before they land; a malformed
// row is the admin's error, never a mid-calculation surprise.

// GET /settings
func GetSettingsHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := st.Settings(r.Context())
		if err != nil {
			http.Error(w, "settings: "+err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(s)
	}
}

// PUT /settings
func PutSettingsHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var s result.Settings
		if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		if err := st.SaveSettings(r.Context(), s); err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		_ = json.NewEncoder(w).Encode(s)
	}
}

// GET /exams
func ListExamsHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		exams, err := st.Exams(r.Context())
		if err != nil {
			http.Error(w, "exams: "+err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(exams)
	}
}

// PUT /exams/{examID}
func PutExamHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var ex result.ExamConfig
		if err := json.NewDecoder(r.Body).Decode(&ex); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		ex.ID = strings.TrimSpace(chi.URLParam(r, "examID"))
		if err := st.SaveExam(r.Context(), ex); err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		_ = json.NewEncoder(w).Encode(ex)
	}
}

// GET /fields
func ListFieldsHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fields, err := st.Fields(r.Context())
		if err != nil {
			http.Error(w, "fields: "+err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(fields)
	}
}

// PUT /fields/{key}
func PutFieldHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var f result.ExtraField
		if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		f.Key = strings.TrimSpace(chi.URLParam(r, "key"))
		if err := st.SaveField(r.Context(), f); err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		_ = json.NewEncoder(w).Encode(f)
	}
}

// DELETE /fields/{key}
func DeleteFieldHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimSpace(chi.URLParam(r, "key"))
		if err := st.DeleteField(r.Context(), key); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				http.Error(w, "field not found", http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// PUT /students/{code}
func PutStudentHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var s store.Student
		if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		s.Code = strings.TrimSpace(chi.URLParam(r, "code"))
		if err := st.UpsertStudent(r.Context(), s); err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		_ = json.NewEncoder(w).Encode(s)
	}
}

// GET /students
func ListStudentsHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		students, err := st.ListStudents(r.Context())
		if err != nil {
			http.Error(w, "students: "+err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(students)
	}
}

// POST /attempts — upstream graders push already-computed percentages.
func PostAttemptHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var a store.Attempt
		if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		if err := st.UpsertAttempt(r.Context(), a); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		_ = json.NewEncoder(w).Encode(a)
	}
}

type putValueReq struct {
	FieldKey    string `json:"field_key"`
	StudentCode string `json:"student_code"`
	Value       any    `json:"value"`
}

// POST /values — attendance scanners and manual entry push raw values.
func PostValueHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req putValueReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		if err := st.PutValue(r.Context(), req.FieldKey, req.StudentCode, req.Value); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		_ = json.NewEncoder(w).Encode(req)
	}
}
