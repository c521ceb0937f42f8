package query

import "time"

// Status is the lifecycle phase of a cached invocation. Exactly one
// status holds at a time.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// State is the observable snapshot for one request. Data is the last
// successful payload and is retained through loading and error so a
// broken refetch never blanks the screen. Err is non-nil only while the
// status is StatusError.
type State struct {
	Status    Status
	Data      any
	Err       error
	FetchedAt time.Time
}
