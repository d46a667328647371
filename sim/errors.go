package sim

import "errors"

// Construction errors. NewScheduler and NewJobCreator wrap these with the
// offending value; match with errors.Is.
var (
	// ErrArrivalRateTooSmall: the arrival rate cannot parameterize the Poisson interval distribution.
	ErrArrivalRateTooSmall = errors.New("arrival rate too small")
	// ErrServiceRateTooSmall: the execution or timeout rate cannot parameterize an exponential distribution.
	ErrServiceRateTooSmall = errors.New("service rate too small")
)
