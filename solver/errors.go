package solver

import (
	"errors"
	"fmt"
)

var (
	ErrNotSolved     = errors.New("solver: potential has not been solved")
	ErrNoDOF         = errors.New("solver: no degrees of freedom, every node is fixed")
	ErrNoDirichlet   = errors.New("solver: no Dirichlet nodes, the system is singular")
	ErrFloating      = errors.New("solver: mesh component without Dirichlet nodes, the system is singular")
	ErrSingular      = errors.New("solver: singular system")
	ErrNotConverged  = errors.New("solver: iterative solve did not converge")
	ErrDimension     = errors.New("solver: dimension mismatch")
	ErrIndex         = errors.New("solver: index out of range")
	ErrParameter     = errors.New("solver: invalid parameter")
	ErrUnknownSolver = errors.New("solver: unknown linear solver")
)

// Stages of a magnetostatic computation
const (
	StageAssembly    = "assembly"
	StageBoundary    = "boundary"
	StageSolve       = "solve"
	StagePostprocess = "postprocess"
)

// StageError wraps an error with the computation stage that produced it
type StageError struct {
	Stage   string
	Wrapped error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Wrapped)
}

func (e *StageError) Unwrap() error {
	return e.Wrapped
}

func stageError(stage string, err error) error {
	if err == nil {
		return nil
	}
	var se *StageError
	if errors.As(err, &se) {
		return err
	}
	return &StageError{Stage: stage, Wrapped: err}
}
