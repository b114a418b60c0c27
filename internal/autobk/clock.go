package autobk

import (
	"time"

	"github.com/google/uuid"
)

// Clock stamps backup requests. Tests substitute a fixed time.
type Clock interface {
	Now() time.Time
}

// RealClock returns the actual current time.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// RequestIDGenerator names backup requests. The ID becomes the spool file
// name, the S3 object name and the handle printed to the operator, so it
// must be unique across invocations.
type RequestIDGenerator interface {
	NewRequestID() string
}

// UUIDRequestIDs issues random (version 4) UUIDs as request IDs.
type UUIDRequestIDs struct{}

func (UUIDRequestIDs) NewRequestID() string { return uuid.NewString() }
