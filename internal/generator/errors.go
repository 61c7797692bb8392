package generator

import "fmt"

// BiasExhaustedError reports that rebalancing attempts ran out while the
// task list was still below the pre-rebalancing minimum. It is fatal for
// the whole run; the caller maps it to process exit at the outer boundary.
type BiasExhaustedError struct {
	Attempts    int
	Tasks       int
	MinRequired int
}

func (e *BiasExhaustedError) Error() string {
	return fmt.Sprintf(
		"bias rebalancing attempts exhausted: %d corrections applied with only %d tasks (minimum %d)",
		e.Attempts, e.Tasks, e.MinRequired,
	)
}
