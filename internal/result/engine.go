package result

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Source is the data-access layer the engine reads from. Implementations
// must not be mutated by evaluation; the engine only reads.
type Source interface {
	Settings(ctx context.Context) (Settings, error)
	Exams(ctx context.Context) ([]ExamConfig, error)
	Fields(ctx context.Context) ([]ExtraField, error)
	StudentData(ctx context.Context, code string) (StudentData, error)
}

// Engine options

type Option func(*engineConfig)

type engineConfig struct {
	BatchWorkers int
	Normalizers  map[FieldType]Normalizer
}

// WithBatchWorkers bounds the batch fan-out concurrency.
func WithBatchWorkers(n int) Option { return func(c *engineConfig) { c.BatchWorkers = n } }

// WithNormalizer overrides the normalizer for one field type.
func WithNormalizer(t FieldType, n Normalizer) Option {
	return func(c *engineConfig) { c.Normalizers[t] = n }
}

// Engine computes pass/fail results. It holds no mutable state beyond
// its configuration; every evaluation is a pure function of the source
// data, so concurrent use needs no locking.
type Engine struct {
	src          Source
	normalizers  map[FieldType]Normalizer
	batchWorkers int
}

func NewEngine(src Source, opts ...Option) *Engine {
	cfg := &engineConfig{
		BatchWorkers: 8,
		Normalizers:  defaultNormalizers(),
	}
	for _, o := range opts {
		o(cfg)
	}
	if cfg.BatchWorkers < 1 {
		cfg.BatchWorkers = 1
	}
	return &Engine{src: src, normalizers: cfg.Normalizers, batchWorkers: cfg.BatchWorkers}
}

// Evaluate computes one student's result. A student with no recorded
// data is not an error: scores come back nil and Success stays true.
// Only a failed fetch yields Success=false.
func (e *Engine) Evaluate(ctx context.Context, code string) (CalculationResult, error) {
	st, err := e.src.Settings(ctx)
	if err != nil {
		return failureResult(code, Settings{}, fmt.Errorf("settings: %w", err)), err
	}
	exams, err := e.src.Exams(ctx)
	if err != nil {
		return failureResult(code, st, fmt.Errorf("exam configs: %w", err)), err
	}
	fields, err := e.src.Fields(ctx)
	if err != nil {
		return failureResult(code, st, fmt.Errorf("field configs: %w", err)), err
	}
	data, err := e.src.StudentData(ctx, code)
	if err != nil {
		return failureResult(code, st, fmt.Errorf("student %s: %w", code, err)), err
	}
	return e.evaluateWith(code, st, exams, fields, data), nil
}

// evaluateWith is the pure core: no I/O, no side effects.
func (e *Engine) evaluateWith(code string, st Settings, exams []ExamConfig, fields []ExtraField, data StudentData) CalculationResult {
	examComp := computeExamComponent(exams, data.AttemptsByExam, st)
	extraComp := computeExtraComponent(fields, data.ValuesByKey, e.normalizers)
	return buildResult(code, st, examComp, extraComp)
}

// EvaluateBatch computes results for many students concurrently. The
// shared configuration is fetched once; per-student fan-out is bounded
// by the worker limit. One student's failure never aborts the batch:
// it lands in the map as a Success=false row.
func (e *Engine) EvaluateBatch(ctx context.Context, codes []string) (map[string]CalculationResult, error) {
	st, err := e.src.Settings(ctx)
	if err != nil {
		return nil, fmt.Errorf("settings: %w", err)
	}
	exams, err := e.src.Exams(ctx)
	if err != nil {
		return nil, fmt.Errorf("exam configs: %w", err)
	}
	fields, err := e.src.Fields(ctx)
	if err != nil {
		return nil, fmt.Errorf("field configs: %w", err)
	}

	var mu sync.Mutex
	out := make(map[string]CalculationResult, len(codes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.batchWorkers)
	for _, code := range codes {
		code := code
		g.Go(func() error {
			var res CalculationResult
			data, err := e.src.StudentData(gctx, code)
			if err != nil {
				res = failureResult(code, st, err)
			} else {
				res = e.evaluateWith(code, st, exams, fields, data)
			}
			mu.Lock()
			out[code] = res
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
