// Package stats contains statistics calculations and reporting.
package stats

import "time"

// Summary is the final result of a practice run.
type Summary struct {
	StartedAt       time.Time
	EndedAt         time.Time
	Elapsed         time.Duration
	ElapsedMs       int64
	CharactersTyped int
	ErrorsCount     int
	// Rate is characters per minute; 0 when no whole millisecond elapsed.
	Rate     float64
	Accuracy float64
}

// Recorder measures elapsed time and keystroke counters for one run.
type Recorder struct {
	now func() time.Time

	startedAt time.Time
	running   bool

	charactersTyped int
	errorsCount     int

	summary *Summary
}

// NewRecorder returns a stopped recorder reading time from clock.
// A nil clock means time.Now.
func NewRecorder(clock func() time.Time) *Recorder {
	if clock == nil {
		clock = time.Now
	}
	return &Recorder{now: clock}
}

// Start zeroes the counters and starts a new measurement.
func (r *Recorder) Start() {
	r.startedAt = r.now()
	r.running = true
	r.charactersTyped = 0
	r.errorsCount = 0
	r.summary = nil
}

// RecordKeystroke counts a typed letter, and an error when it was wrong.
func (r *Recorder) RecordKeystroke(correct bool) {
	r.charactersTyped++
	if !correct {
		r.errorsCount++
	}
}

// Stop ends the measurement and computes the summary. Repeated calls
// return the summary from the first call.
func (r *Recorder) Stop() Summary {
	if r.summary != nil {
		return *r.summary
	}
	endedAt := r.now()
	elapsed := endedAt.Sub(r.startedAt)
	if elapsed < 0 {
		elapsed = 0
	}
	ms := elapsed.Milliseconds()
	rate, acc := Metrics(r.charactersTyped, r.errorsCount, ms)
	r.running = false
	r.summary = &Summary{
		StartedAt:       r.startedAt,
		EndedAt:         endedAt,
		Elapsed:         elapsed,
		ElapsedMs:       ms,
		CharactersTyped: r.charactersTyped,
		ErrorsCount:     r.errorsCount,
		Rate:            rate,
		Accuracy:        acc,
	}
	return *r.summary
}

// Running reports whether a measurement is in progress.
func (r *Recorder) Running() bool {
	return r.running
}

// Elapsed returns the time measured so far.
func (r *Recorder) Elapsed() time.Duration {
	if r.summary != nil {
		return r.summary.Elapsed
	}
	if !r.running {
		return 0
	}
	elapsed := r.now().Sub(r.startedAt)
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// LiveRate returns the characters-per-minute rate so far.
func (r *Recorder) LiveRate() float64 {
	rate, _ := Metrics(r.charactersTyped, r.errorsCount, r.Elapsed().Milliseconds())
	return rate
}

// CharactersTyped returns the number of letters typed since Start.
func (r *Recorder) CharactersTyped() int {
	return r.charactersTyped
}

// ErrorsCount returns the number of wrong letters since Start.
func (r *Recorder) ErrorsCount() int {
	return r.errorsCount
}
