package shader

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/graphics"
)

// StageSource describes one shader stage file to load.
type StageSource struct {
	// Key is the unique identifier given to the compiled shader.
	Key string

	// Type is the stage the file is compiled for.
	Type ShaderType

	// Path is the GLSL file to read.
	Path string
}

type preparedStage struct {
	source   string
	includes []AnnotationArg
	err      error
}

// LoadStages reads and pre-processes many stage files concurrently on a worker pool, then
// compiles them in order on the calling goroutine. The calling goroutine must own the GL
// context; file IO and pre-processing never touch it.
//
// On any failure every shader compiled so far is released and the joined errors are returned.
//
// Parameters:
//   - ctx: the graphics context to compile with
//   - sources: the stage files to load
//   - workers: the maximum number of concurrent file readers; values below 1 use 1
//
// Returns:
//   - []Shader: the compiled shaders, in the same order as sources
//   - error: error if any file could not be read, pre-processed or compiled
func LoadStages(ctx graphics.Context, sources []StageSource, workers int) ([]Shader, error) {
	if len(sources) == 0 {
		return nil, nil
	}
	prepared := make([]preparedStage, len(sources))

	pool := worker.NewDynamicWorkerPool(max(workers, 1), 256, 1*time.Second)
	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		idx, s := i, src
		pool.SubmitTask(worker.Task{
			ID: idx,
			Do: func() (any, error) {
				defer wg.Done()
				data, err := os.ReadFile(s.Path)
				if err != nil {
					prepared[idx].err = fmt.Errorf("failed to read shader source %q: %w", s.Path, err)
					return nil, prepared[idx].err
				}
				processed, includes, err := preprocess(string(data))
				if err != nil {
					prepared[idx].err = fmt.Errorf("failed to pre-process shader %q: %w", s.Key, err)
					return nil, prepared[idx].err
				}
				prepared[idx].source = processed
				prepared[idx].includes = includes
				return nil, nil
			},
		})
	}
	wg.Wait()

	var errs []error
	for _, p := range prepared {
		if p.err != nil {
			errs = append(errs, p.err)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	shaders := make([]Shader, 0, len(sources))
	for i, src := range sources {
		s, err := compile(ctx, src.Key, src.Type, prepared[i].source, prepared[i].includes)
		if err != nil {
			for _, done := range shaders {
				done.Release()
			}
			return nil, err
		}
		shaders = append(shaders, s)
	}
	common.Logger().Info("shader stages loaded", "count", len(shaders))
	return shaders, nil
}
