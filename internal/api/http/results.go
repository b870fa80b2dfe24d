package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/classledger/classledger/internal/result"
	"github.com/classledger/classledger/internal/store"
)

// GET /students/{code}/result
func GetStudentResultHandler(eng *result.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := strings.TrimSpace(chi.URLParam(r, "code"))
		if code == "" {
			http.Error(w, "student code required", http.StatusBadRequest)
			return
		}
		res, err := eng.Evaluate(r.Context(), code)
		if err != nil {
			// Still a JSON body: the success flag tells the caller what failed.
			w.WriteHeader(http.StatusInternalServerError)
		}
		_ = json.NewEncoder(w).Encode(res)
	}
}

type batchReq struct {
	Codes []string `json:"codes"`
}

type batchResp struct {
	Results map[string]result.CalculationResult `json:"results"`
	Total   int                                 `json:"total"`
	Failed  int                                 `json:"failed"`
}

// POST /results/batch  {"codes": ["s1","s2"]} — empty codes means the
// whole roster. Per-student failures land in the map with success=false;
// the batch itself only errors when shared config cannot be read.
func BatchResultsHandler(eng *result.Engine, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req batchReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		codes := req.Codes
		if len(codes) == 0 {
			students, err := st.ListStudents(r.Context())
			if err != nil {
				http.Error(w, "list students: "+err.Error(), http.StatusInternalServerError)
				return
			}
			for _, s := range students {
				codes = append(codes, s.Code)
			}
		}
		results, err := eng.EvaluateBatch(r.Context(), codes)
		if err != nil {
			http.Error(w, "evaluate batch: "+err.Error(), http.StatusInternalServerError)
			return
		}
		resp := batchResp{Results: results, Total: len(results)}
		for _, res := range results {
			if !res.Success {
				resp.Failed++
			}
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}
