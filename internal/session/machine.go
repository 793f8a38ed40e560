// Package session is the navigation state machine: the single owner of which
// screen is visible and the data carried between screens. Every transition
// from the table below is an exported mutator, so all phase changes are
// centrally auditable:
//
//	Splash    --timer elapsed-->        Home
//	Home      --service selected-->     Resolving   (stores the selection)
//	Resolving --resolution complete-->  Calling     (stores the resolution)
//	Resolving --back-->                 Home        (clears the selection)
//	Calling   --back-->                 Resolving   (keeps selection, re-resolves)
//
// The Resolving phase runs acquire, geo-resolve, and number resolution in a
// single flow goroutine. Flows are keyed by a generation counter; any
// outcome arriving for a stale generation is discarded, so a superseded or
// abandoned flow can never overwrite current state.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/onetapcall/emergency-resolver/internal/domain"
	"github.com/onetapcall/emergency-resolver/internal/georesolver"
	"github.com/onetapcall/emergency-resolver/internal/location"
	"github.com/onetapcall/emergency-resolver/internal/observability"
	"github.com/onetapcall/emergency-resolver/internal/resolver"
)

// Phase is the visible screen.
type Phase string

const (
	PhaseSplash    Phase = "splash"
	PhaseHome      Phase = "home"
	PhaseResolving Phase = "resolving"
	PhaseCalling   Phase = "calling"
)

// Tab is the active item of the persistent bottom tab bar. Switching to the
// Numbers or Settings tab does not disturb the phase.
type Tab string

const (
	TabHome     Tab = "home"
	TabNumbers  Tab = "numbers"
	TabSettings Tab = "settings"
)

// DefaultLocationWarning is shown when resolution proceeded without a usable
// location fix.
const DefaultLocationWarning = "Could not detect location. Using default emergency number."

// ErrInvalidTransition is returned when an event is not legal in the current
// phase.
var ErrInvalidTransition = errors.New("invalid transition")

// NavigationState is the snapshot the frontend renders from.
type NavigationState struct {
	Phase           Phase                    `json:"phase"`
	Tab             Tab                      `json:"tab"`
	SelectedService domain.ServiceType       `json:"selectedService,omitempty"`
	Resolution      *domain.ResolutionResult `json:"resolution,omitempty"`
	LocationDisplay string                   `json:"locationDisplay,omitempty"`
}

// Controller sequences the user through service selection, resolution, and
// call confirmation. It is the only mutator of NavigationState.
type Controller struct {
	acquirer    *location.Acquirer
	resolver    *resolver.Service
	dialer      domain.Dialer
	clock       clockwork.Clock
	splashDelay time.Duration
	logger      *slog.Logger
	metrics     *observability.Metrics

	mu      sync.Mutex
	state   NavigationState
	started bool
	gen     uint64             // current resolution flow; stale flows are discarded
	cancel  context.CancelFunc // cancels the in-flight flow, nil when none
}

// NewController wires the resolution pipeline into a state machine.
func NewController(
	acquirer *location.Acquirer,
	res *resolver.Service,
	dialer domain.Dialer,
	clock clockwork.Clock,
	splashDelay time.Duration,
	logger *slog.Logger,
	metrics *observability.Metrics,
) *Controller {
	return &Controller{
		acquirer:    acquirer,
		resolver:    res,
		dialer:      dialer,
		clock:       clock,
		splashDelay: splashDelay,
		logger:      logger,
		metrics:     metrics,
		state:       NavigationState{Phase: PhaseSplash, Tab: TabHome},
	}
}

// Start enters the splash phase and arms the timer that advances to Home.
// The splash screen needs no user input and exits on its own.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
		case <-c.clock.After(c.splashDelay):
			c.mu.Lock()
			defer c.mu.Unlock()
			if c.state.Phase == PhaseSplash {
				c.transitionLocked(PhaseHome)
			}
		}
	}()
}

// CheckReadiness reports whether the controller has been started.
func (c *Controller) CheckReadiness(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.started {
		return fmt.Errorf("navigation controller not started")
	}
	return nil
}

// Snapshot returns a copy of the current navigation state.
func (c *Controller) Snapshot() NavigationState {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state
	if c.state.Resolution != nil {
		r := *c.state.Resolution
		s.Resolution = &r
	}
	return s
}

// SelectService handles a service pick. Legal from Home, and from Resolving
// where the new pick supersedes the in-flight flow.
func (c *Controller) SelectService(service domain.ServiceType) error {
	if !service.Valid() {
		return fmt.Errorf("unknown service type %q", service)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state.Phase {
	case PhaseHome, PhaseResolving:
	default:
		return fmt.Errorf("%w: cannot select a service in phase %s", ErrInvalidTransition, c.state.Phase)
	}

	c.state.SelectedService = service
	c.state.Resolution = nil
	c.state.LocationDisplay = ""
	if c.state.Phase != PhaseResolving {
		c.transitionLocked(PhaseResolving)
	}
	c.startFlowLocked(service)
	return nil
}

// Back handles the back button: Calling returns to Resolving (keeping the
// selection and re-running resolution), Resolving returns to Home (clearing
// the selection and abandoning any in-flight flow).
func (c *Controller) Back() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state.Phase {
	case PhaseCalling:
		c.state.Resolution = nil
		c.transitionLocked(PhaseResolving)
		c.startFlowLocked(c.state.SelectedService)
		return nil
	case PhaseResolving:
		c.abandonFlowLocked()
		c.state.SelectedService = ""
		c.state.Resolution = nil
		c.state.LocationDisplay = ""
		c.transitionLocked(PhaseHome)
		return nil
	default:
		return fmt.Errorf("%w: cannot go back from phase %s", ErrInvalidTransition, c.state.Phase)
	}
}

// SwitchTab changes the active tab without touching the phase.
func (c *Controller) SwitchTab(tab Tab) error {
	switch tab {
	case TabHome, TabNumbers, TabSettings:
	default:
		return fmt.Errorf("unknown tab %q", tab)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Phase == PhaseSplash {
		return fmt.Errorf("%w: tab bar is not available during splash", ErrInvalidTransition)
	}
	c.state.Tab = tab
	return nil
}

// ConfirmCall invokes the dialer with the resolved number. Only legal in the
// Calling phase. Dialer failure is the one error this system surfaces.
func (c *Controller) ConfirmCall(ctx context.Context) error {
	c.mu.Lock()
	if c.state.Phase != PhaseCalling || c.state.Resolution == nil {
		c.mu.Unlock()
		return fmt.Errorf("%w: no call to confirm in phase %s", ErrInvalidTransition, c.state.Phase)
	}
	number := c.state.Resolution.DialNumber
	c.mu.Unlock()

	if !c.dialer.CanDial(number) {
		c.metrics.DialAttempts.WithLabelValues("failure").Inc()
		return fmt.Errorf("%w: %q", domain.ErrCannotDial, number)
	}
	if err := c.dialer.Dial(ctx, number); err != nil {
		c.metrics.DialAttempts.WithLabelValues("failure").Inc()
		return err
	}
	c.metrics.DialAttempts.WithLabelValues("success").Inc()
	c.logger.Info("call placed", "number", number)
	return nil
}

// startFlowLocked begins a new resolution flow, superseding any in-flight one.
func (c *Controller) startFlowLocked(service domain.ServiceType) {
	c.abandonFlowLocked()
	c.gen++

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel

	flowID := uuid.NewString()
	c.logger.Info("resolution flow started", "flow_id", flowID, "service", service)
	c.metrics.FlowsInFlight.Inc()

	go c.runFlow(ctx, c.gen, flowID, service)
}

// abandonFlowLocked cancels the in-flight flow, if any, and bumps the
// generation so its outcome can never be applied.
func (c *Controller) abandonFlowLocked() {
	if c.cancel == nil {
		return
	}
	c.cancel()
	c.cancel = nil
	c.gen++
	c.metrics.FlowsSuperseded.Inc()
}

// runFlow executes acquire, geo-resolve, and number resolution, then hands
// the outcome back under the lock.
func (c *Controller) runFlow(ctx context.Context, gen uint64, flowID string, service domain.ServiceType) {
	defer c.metrics.FlowsInFlight.Dec()
	start := c.clock.Now()

	outcome := c.acquirer.Acquire(ctx)

	var result domain.ResolutionResult
	var display string
	if outcome.Status == location.StatusGranted {
		country := georesolver.CountryFromCoordinate(outcome.Coordinate.Latitude, outcome.Coordinate.Longitude)
		result = c.resolver.Resolve(ctx, country, service)
		display = location.FormatDisplay(outcome.Coordinate, result.CountryCode)
	} else {
		result = c.resolver.Resolve(ctx, domain.UnknownCountry, service)
		result.Warning = DefaultLocationWarning
		c.logger.Info("resolving without location",
			"flow_id", flowID, "status", outcome.Status, "reason", outcome.Reason)
	}

	c.metrics.ResolutionDuration.Observe(c.clock.Since(start).Seconds())
	c.applyFlow(gen, flowID, result, display)
}

// applyFlow commits a flow outcome if it is still current.
func (c *Controller) applyFlow(gen uint64, flowID string, result domain.ResolutionResult, display string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen || c.state.Phase != PhaseResolving {
		c.logger.Debug("discarding stale resolution outcome", "flow_id", flowID)
		return
	}

	c.cancel = nil
	c.state.Resolution = &result
	c.state.LocationDisplay = display
	c.transitionLocked(PhaseCalling)
	c.logger.Info("resolution flow complete",
		"flow_id", flowID,
		"country", result.CountryCode,
		"number", result.DialNumber,
		"source", result.Source,
	)
}

func (c *Controller) transitionLocked(to Phase) {
	from := c.state.Phase
	c.state.Phase = to
	c.metrics.StateTransitions.WithLabelValues(string(from), string(to)).Inc()
	c.logger.Debug("phase transition", "from", from, "to", to)
}
