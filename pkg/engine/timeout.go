package engine

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chazu/hullgen/pkg/scene"
)

// EvalTimeout is the hard limit for a single evaluation.
const EvalTimeout = 5 * time.Second

// ErrSuperseded is returned when a newer evaluation started before this one
// finished.
var ErrSuperseded = errors.New("evaluation superseded by newer request")

// ErrTimeout is returned when an evaluation runs longer than EvalTimeout.
var ErrTimeout = errors.New("evaluation timed out")

// evalResult passes evaluation results through channels.
type evalResult struct {
	scene  *scene.Scene
	errors []EvalError
	err    error
}

// waitWithTimeout waits for a result from ch, but returns ErrTimeout if the
// evaluation exceeds EvalTimeout. Results from a generation older than
// currentGen are discarded.
//
// On timeout the goroutine may still be running; the generation check
// discards its result when it eventually completes.
func waitWithTimeout(
	ch <-chan evalResult,
	gen uint64,
	mu *sync.Mutex,
	currentGen *uint64,
) (*scene.Scene, []EvalError, error) {
	timer := time.NewTimer(EvalTimeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		mu.Lock()
		current := *currentGen
		mu.Unlock()

		if gen != current {
			return nil, nil, ErrSuperseded
		}
		return res.scene, res.errors, res.err

	case <-timer.C:
		return nil, nil, fmt.Errorf("%w after %s", ErrTimeout, EvalTimeout)
	}
}
