package routing

import (
	"fmt"

	"github.com/sourcegraph/conc/pool"
)

// ConcurrencyStrategy runs a set of independent tasks and reports the first failure.
// Every task runs to completion; nothing is cancelled.
type ConcurrencyStrategy interface {
	Run(tasks ...func() error) error
}

type SequentialStrategy struct{}

// Run stops at the first failing task
func (SequentialStrategy) Run(tasks ...func() error) error {
	for _, task := range tasks {
		if err := recoverTask(task)(); err != nil {
			return err
		}
	}
	return nil
}

type ParallelStrategy struct{}

func (ParallelStrategy) Run(tasks ...func() error) error {
	p := pool.New().WithErrors().WithFirstError()

	for _, task := range tasks {
		p.Go(recoverTask(task))
	}

	return p.Wait()
}

func NewConcurrencyStrategy(parallel bool) ConcurrencyStrategy {
	if parallel {
		return ParallelStrategy{}
	}
	return SequentialStrategy{}
}

// recoverTask turns a panic inside task into its error. A panic carrying an error is
// returned as that error so validation errors keep their type.
func recoverTask(task func() error) func() error {
	return func() (err error) {
		defer func() {
			if recovered := recover(); recovered != nil {
				if recoveredErr, ok := recovered.(error); ok {
					err = recoveredErr
					return
				}
				err = fmt.Errorf("task panicked: %v", recovered)
			}
		}()

		return task()
	}
}
