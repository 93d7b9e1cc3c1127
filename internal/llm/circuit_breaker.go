package llm

import (
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"dev.prompt.router/internal/metrics"
)

// CircuitState is the lifecycle state of one model's breaker.
type CircuitState string

const (
	StateClosed   CircuitState = "closed"
	StateOpen     CircuitState = "open"
	StateHalfOpen CircuitState = "half_open"
)

// BreakerConfig tunes a circuit breaker.
type BreakerConfig struct {
	// FailureThreshold is the number of consecutive failures that opens a
	// closed breaker.
	FailureThreshold int
	// SuccessThreshold is the number of consecutive half-open successes
	// that closes the breaker again.
	SuccessThreshold int
	// OpenTimeout is how long an open breaker blocks requests before
	// allowing a probe.
	OpenTimeout time.Duration
}

// DefaultBreakerConfig matches the routing defaults: open after 3 failures,
// probe after 60s, close after 2 successful probes.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		FailureThreshold: 3,
		SuccessThreshold: 2,
		OpenTimeout:      60 * time.Second,
	}
}

// CircuitBreaker tracks consecutive failures for a single model. State is
// in-memory only and resets on restart.
type CircuitBreaker struct {
	modelID string
	config  BreakerConfig
	logger  *logrus.Logger
	now     func() time.Time

	mu           sync.Mutex
	state        CircuitState
	failureCount int
	successCount int
	lastFailure  time.Time
}

// NewCircuitBreaker builds a closed breaker for one model.
func NewCircuitBreaker(modelID string, config BreakerConfig, logger *logrus.Logger) *CircuitBreaker {
	return &CircuitBreaker{
		modelID: modelID,
		config:  config,
		logger:  logger,
		now:     time.Now,
		state:   StateClosed,
	}
}

// CanExecute reports whether a request may be sent to the model. An open
// breaker that has cooled down for OpenTimeout transitions to half-open and
// admits a single probe stream.
func (cb *CircuitBreaker) CanExecute() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateOpen:
		if cb.now().Sub(cb.lastFailure) >= cb.config.OpenTimeout {
			cb.transitionTo(StateHalfOpen)
			return true
		}
		return false
	default:
		return true
	}
}

// RecordSuccess notes a successful completion. Closed breakers reset their
// failure count; half-open breakers close after SuccessThreshold successes.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		cb.failureCount = 0
	case StateHalfOpen:
		cb.successCount++
		if cb.successCount >= cb.config.SuccessThreshold {
			cb.transitionTo(StateClosed)
		}
	}
}

// RecordFailure notes a failed completion. Closed breakers open at
// FailureThreshold consecutive failures; any half-open failure reopens
// immediately.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.lastFailure = cb.now()
	switch cb.state {
	case StateClosed:
		cb.failureCount++
		if cb.failureCount >= cb.config.FailureThreshold {
			cb.transitionTo(StateOpen)
		}
	case StateHalfOpen:
		cb.transitionTo(StateOpen)
	}
}

// transitionTo moves the breaker to a new state, resetting both counters.
// Self-transitions are no-ops. Callers must hold the lock.
func (cb *CircuitBreaker) transitionTo(next CircuitState) {
	if cb.state == next {
		return
	}
	prev := cb.state
	cb.state = next
	cb.failureCount = 0
	cb.successCount = 0

	metrics.SetBreakerState(cb.modelID, string(next))
	cb.logger.WithFields(logrus.Fields{
		"model": cb.modelID,
		"from":  prev,
		"to":    next,
	}).Info("Circuit breaker state changed")
}

// State returns the current state without side effects.
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// BreakerSnapshot is a point-in-time view of one breaker.
type BreakerSnapshot struct {
	Model        string       `json:"model"`
	State        CircuitState `json:"state"`
	FailureCount int          `json:"failureCount"`
	SuccessCount int          `json:"successCount"`
	LastFailure  *time.Time   `json:"lastFailure,omitempty"`
}

// Snapshot returns the breaker's current counters and state.
func (cb *CircuitBreaker) Snapshot() BreakerSnapshot {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	snap := BreakerSnapshot{
		Model:        cb.modelID,
		State:        cb.state,
		FailureCount: cb.failureCount,
		SuccessCount: cb.successCount,
	}
	if !cb.lastFailure.IsZero() {
		t := cb.lastFailure
		snap.LastFailure = &t
	}
	return snap
}

// BreakerRegistry owns the per-model breakers, creating them lazily on
// first access.
type BreakerRegistry struct {
	config BreakerConfig
	logger *logrus.Logger
	now    func() time.Time

	mu       sync.Mutex
	breakers map[string]*CircuitBreaker
}

// NewBreakerRegistry builds an empty registry.
func NewBreakerRegistry(config BreakerConfig, logger *logrus.Logger) *BreakerRegistry {
	return &BreakerRegistry{
		config:   config,
		logger:   logger,
		now:      time.Now,
		breakers: make(map[string]*CircuitBreaker),
	}
}

// Get returns the breaker for a model, creating it on first use.
func (r *BreakerRegistry) Get(modelID string) *CircuitBreaker {
	r.mu.Lock()
	defer r.mu.Unlock()

	cb, ok := r.breakers[modelID]
	if !ok {
		cb = NewCircuitBreaker(modelID, r.config, r.logger)
		cb.now = r.now
		r.breakers[modelID] = cb
	}
	return cb
}

// Snapshots returns the current state of every breaker created so far,
// ordered by model id.
func (r *BreakerRegistry) Snapshots() []BreakerSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	snaps := make([]BreakerSnapshot, 0, len(r.breakers))
	for _, cb := range r.breakers {
		snaps = append(snaps, cb.Snapshot())
	}
	sort.Slice(snaps, func(i, j int) bool { return snaps[i].Model < snaps[j].Model })
	return snaps
}
