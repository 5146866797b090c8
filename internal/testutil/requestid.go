package testutil

import (
	"strconv"
	"sync/atomic"
)

// SequentialRequestIDs hands out "req-1", "req-2", ... in request order.
type SequentialRequestIDs struct {
	n atomic.Int64
}

func NewSequentialRequestIDs() *SequentialRequestIDs {
	return &SequentialRequestIDs{}
}

func (s *SequentialRequestIDs) NewRequestID() string {
	return "req-" + strconv.FormatInt(s.n.Add(1), 10)
}
