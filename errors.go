package osm2sidewalk

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Error kinds. Every one of them aborts the whole run.
var (
	ErrInvalidGeometry = errors.New("invalid geometry")
	ErrMissingLocation = errors.New("missing location")
	ErrUnionFailure    = errors.New("union failure")
)

// BuildError identifies offending road and/or node of a failed run
type BuildError struct {
	Kind   error
	WayID  int64 // external identifier of road, 0 if unknown
	NodeID NodeID
	Err    error
}

func (e *BuildError) Error() string {
	parts := []string{e.Kind.Error()}
	if e.WayID != 0 {
		parts = append(parts, fmt.Sprintf("way %d", e.WayID))
	}
	if e.NodeID != 0 {
		parts = append(parts, fmt.Sprintf("node %d", e.NodeID))
	}
	if e.Err != nil && e.Err != e.Kind {
		parts = append(parts, e.Err.Error())
	}
	return strings.Join(parts, ": ")
}

// Is matches error kind
func (e *BuildError) Is(target error) bool {
	return target == e.Kind
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

func newBuildError(kind error, wayID int64, nodeID NodeID, err error) *BuildError {
	if err == nil {
		err = kind
	}
	return &BuildError{Kind: kind, WayID: wayID, NodeID: nodeID, Err: err}
}
