package eventbus

import (
	"errors"
	"sync"
	"time"

	"github.com/Rorical/RoriQuery/internal/models"
)

var (
	ErrCircuitOpen = errors.New("circuit breaker is open")
	ErrChannelFull = errors.New("event channel is full")
)

// UIEvent represents events sent from UI to Core
type UIEvent interface {
	UIEvent()
}

// CoreEvent represents events sent from Core to UI
type CoreEvent interface {
	CoreEvent()
}

// SendMessageEvent - UI asks a question. While a request is in flight the
// core treats it as a cancel.
type SendMessageEvent struct {
	Message string
}

func (e SendMessageEvent) UIEvent() {}

// ConfirmationResponseEvent - UI sends the user's decision on the pending query
type ConfirmationResponseEvent struct {
	Approved bool
}

func (e ConfirmationResponseEvent) UIEvent() {}

type CancelRequestEvent struct{}

func (e CancelRequestEvent) UIEvent() {}

type NewChatEvent struct{}

func (e NewChatEvent) UIEvent() {}

type SelectConversationEvent struct {
	ID int64
}

func (e SelectConversationEvent) UIEvent() {}

type DeleteConversationEvent struct {
	ID int64
}

func (e DeleteConversationEvent) UIEvent() {}

type RefreshConversationsEvent struct{}

func (e RefreshConversationsEvent) UIEvent() {}

// StateUpdateEvent - Core pushes the full chat state to UI
type StateUpdateEvent struct {
	Snapshot models.SessionSnapshot
}

func (e StateUpdateEvent) CoreEvent() {}

// NavigateEvent - Core asks the UI to switch screens
type NavigateEvent struct {
	Path string
}

func (e NavigateEvent) CoreEvent() {}

// NoticeEvent - a one-line status message for the UI
type NoticeEvent struct {
	Text    string
	IsError bool
}

func (e NoticeEvent) CoreEvent() {}

// EventBusError represents errors in event processing
type EventBusError struct {
	Operation string
	Err       error
	Timestamp time.Time
}

func (e EventBusError) Error() string {
	return e.Operation + ": " + e.Err.Error()
}

func (e EventBusError) Unwrap() error {
	return e.Err
}

// CircuitBreakerState represents the state of circuit breaker
type CircuitBreakerState int

const (
	CircuitClosed CircuitBreakerState = iota
	CircuitOpen
	CircuitHalfOpen
)

// CircuitBreaker implements circuit breaker pattern
type CircuitBreaker struct {
	mu              sync.Mutex
	maxFailures     int
	resetTimeout    time.Duration
	failureCount    int
	lastFailureTime time.Time
	state           CircuitBreakerState
	now             func() time.Time
}

func NewCircuitBreaker(maxFailures int, resetTimeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		maxFailures:  maxFailures,
		resetTimeout: resetTimeout,
		state:        CircuitClosed,
		now:          time.Now,
	}
}

func (cb *CircuitBreaker) IsOpen() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.state == CircuitOpen && cb.now().Sub(cb.lastFailureTime) > cb.resetTimeout {
		cb.state = CircuitHalfOpen
	}
	return cb.state == CircuitOpen
}

func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failureCount = 0
	cb.state = CircuitClosed
}

func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failureCount++
	cb.lastFailureTime = cb.now()

	if cb.failureCount >= cb.maxFailures {
		cb.state = CircuitOpen
	}
}

func (cb *CircuitBreaker) State() CircuitBreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// EventBus handles communication between UI and Core with circuit breaker
type EventBus struct {
	uiToCore       chan UIEvent
	coreToUI       chan CoreEvent
	errorCallback  func(EventBusError)
	circuitBreaker *CircuitBreaker
	closeOnce      sync.Once
}

func NewEventBus() *EventBus {
	return &EventBus{
		uiToCore:       make(chan UIEvent, 100),
		coreToUI:       make(chan CoreEvent, 100),
		circuitBreaker: NewCircuitBreaker(5, 30*time.Second),
	}
}

// SetErrorCallback must be called before events flow.
func (eb *EventBus) SetErrorCallback(callback func(EventBusError)) {
	eb.errorCallback = callback
}

func (eb *EventBus) reportError(operation string, err error) {
	busError := EventBusError{
		Operation: operation,
		Err:       err,
		Timestamp: time.Now(),
	}

	eb.circuitBreaker.RecordFailure()

	if eb.errorCallback != nil {
		eb.errorCallback(busError)
	}
}

func (eb *EventBus) SendToCore(event UIEvent) error {
	if eb.circuitBreaker.IsOpen() {
		eb.reportError("SendToCore", ErrCircuitOpen)
		return ErrCircuitOpen
	}

	select {
	case eb.uiToCore <- event:
		eb.circuitBreaker.RecordSuccess()
		return nil
	default:
		eb.reportError("SendToCore", ErrChannelFull)
		return ErrChannelFull
	}
}

func (eb *EventBus) SendToUI(event CoreEvent) error {
	if eb.circuitBreaker.IsOpen() {
		eb.reportError("SendToUI", ErrCircuitOpen)
		return ErrCircuitOpen
	}

	select {
	case eb.coreToUI <- event:
		eb.circuitBreaker.RecordSuccess()
		return nil
	default:
		eb.reportError("SendToUI", ErrChannelFull)
		return ErrChannelFull
	}
}

func (eb *EventBus) UIToCore() <-chan UIEvent {
	return eb.uiToCore
}

func (eb *EventBus) CoreToUI() <-chan CoreEvent {
	return eb.coreToUI
}

func (eb *EventBus) GetCircuitBreakerState() CircuitBreakerState {
	return eb.circuitBreaker.State()
}

// Close closes both channels. Sending after Close panics, so producers must
// be stopped first.
func (eb *EventBus) Close() {
	eb.closeOnce.Do(func() {
		close(eb.uiToCore)
		close(eb.coreToUI)
	})
}
