package pipeline

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
)

// ParallelConfig holds configuration for parallel processing.
type ParallelConfig struct {
	MaxWorkers       int              // number of workers, 0 = runtime.NumCPU()
	ProgressCallback ProgressCallback // optional
}

// DefaultParallelConfig returns defaults for parallel processing.
func DefaultParallelConfig() ParallelConfig {
	return ParallelConfig{MaxWorkers: runtime.NumCPU()}
}

type job struct {
	index int
	input Input
}

// ProcessParallel processes inputs with a pool of workers. Results are
// returned in input order and per-item failures are reported in
// ItemResult.Err. The returned error is ctx.Err() when ctx ended during the
// run; items that were never started carry it too.
func (p *Pipeline) ProcessParallel(ctx context.Context, inputs []Input, cfg ParallelConfig) ([]ItemResult, error) {
	if len(inputs) == 0 {
		return []ItemResult{}, nil
	}
	workers := cfg.MaxWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(inputs) {
		workers = len(inputs)
	}

	progress := cfg.ProgressCallback
	if progress == nil {
		progress = NoOpProgressCallback{}
	}
	progress.OnStart(len(inputs))
	defer progress.OnComplete()

	jobs := make(chan job)
	results := make(chan ItemResult, len(inputs))

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				res, err := p.processInput(ctx, j.input)
				results <- ItemResult{Index: j.index, Input: j.input, Result: res, Err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i, in := range inputs {
			select {
			case jobs <- job{index: i, input: in}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	ordered := make([]ItemResult, len(inputs))
	seen := make([]bool, len(inputs))
	done := 0
	for r := range results {
		ordered[r.Index] = r
		seen[r.Index] = true
		done++
		if r.Err != nil {
			progress.OnError(r.Index, r.Err)
		}
		progress.OnProgress(done, len(inputs))
	}

	if done < len(inputs) {
		for i := range ordered {
			if !seen[i] {
				ordered[i] = ItemResult{Index: i, Input: inputs[i], Err: ctx.Err()}
			}
		}
	}
	return ordered, ctx.Err()
}

func (p *Pipeline) processInput(ctx context.Context, in Input) (*ScanResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if in.Path != "" && in.Text == "" {
		return p.ProcessFile(ctx, in.Path, in.Type)
	}
	res, err := p.Process(in.Text, in.Type)
	if err != nil {
		return nil, err
	}
	res.Source = in.Name
	return res, nil
}

// ParallelStats summarizes a ProcessParallel run.
type ParallelStats struct {
	Total       int            `json:"total"        yaml:"total"`
	Succeeded   int            `json:"succeeded"    yaml:"succeeded"`
	Failed      int            `json:"failed"       yaml:"failed"`
	Unsupported int            `json:"unsupported"  yaml:"unsupported"`
	ByType      map[string]int `json:"by_type"      yaml:"by_type"`
	FieldsFound int            `json:"fields_found" yaml:"fields_found"`
	FieldsTotal int            `json:"fields_total" yaml:"fields_total"`
}

// CalculateParallelStats aggregates item results.
func CalculateParallelStats(items []ItemResult) ParallelStats {
	st := ParallelStats{Total: len(items), ByType: map[string]int{}}
	for _, it := range items {
		if it.Err != nil || it.Result == nil {
			st.Failed++
			continue
		}
		st.Succeeded++
		if !it.Result.Supported {
			st.Unsupported++
		}
		st.ByType[string(it.Result.DocumentType)]++
		st.FieldsFound += it.Result.FieldsFound
		st.FieldsTotal += it.Result.FieldsTotal
	}
	return st
}

// FirstError returns the first per-item error, annotated with its input.
func FirstError(items []ItemResult) error {
	for _, it := range items {
		if it.Err == nil {
			continue
		}
		name := it.Input.Name
		if name == "" {
			name = it.Input.Path
		}
		if name == "" {
			return fmt.Errorf("item %d: %w", it.Index, it.Err)
		}
		return fmt.Errorf("%s: %w", name, it.Err)
	}
	return nil
}

// Errors joins every per-item error.
func Errors(items []ItemResult) error {
	var errs []error
	for _, it := range items {
		if it.Err != nil {
			errs = append(errs, fmt.Errorf("item %d: %w", it.Index, it.Err))
		}
	}
	return errors.Join(errs...)
}
