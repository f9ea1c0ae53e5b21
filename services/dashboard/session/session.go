package session

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/iulianpascalau/live-dashboard/services/dashboard/common"
	"github.com/iulianpascalau/live-dashboard/services/dashboard/ingestion"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("session")

// MinInboxSize is the minimum number of queued messages
const MinInboxSize = 1

var errNilController = errors.New("nil ingestion controller")

var errNilObserver = errors.New("nil observer")

var errNilClock = errors.New("nil clock")

// ArgsSession is the DTO used to create a new session
type ArgsSession struct {
	Name       string
	Controller IngestionController
	Observer   Observer
	InboxSize  int
	Clock      common.Clock
}

// session owns the ingestion controller and serializes all arrivals through one worker. Each message is
// decoded, appended, evicted and redrawn before the next one is taken from the inbox.
type session struct {
	name       string
	controller IngestionController
	observer   Observer
	clock      common.Clock

	inbox     chan []byte
	closing   chan struct{}
	wg        sync.WaitGroup
	startOnce sync.Once
	closeOnce sync.Once

	channelState atomic.Int32
	processed    atomic.Uint64
	lastActivity atomic.Int64
}

// NewSession creates a new session. The worker is started by Start.
func NewSession(args ArgsSession) (*session, error) {
	if check.IfNil(args.Controller) {
		return nil, errNilController
	}
	if check.IfNil(args.Observer) {
		return nil, errNilObserver
	}
	if args.Clock == nil {
		return nil, errNilClock
	}
	if args.InboxSize < MinInboxSize {
		return nil, fmt.Errorf("%w: inbox size must be at least %d, got %d", common.ErrConfiguration, MinInboxSize, args.InboxSize)
	}

	s := &session{
		name:       args.Name,
		controller: args.Controller,
		observer:   args.Observer,
		clock:      args.Clock,
		inbox:      make(chan []byte, args.InboxSize),
		closing:    make(chan struct{}),
	}
	s.channelState.Store(int32(common.ChannelConnecting))
	s.lastActivity.Store(args.Clock.Now().UnixNano())

	return s, nil
}

// Start launches the worker goroutine. Subsequent calls do nothing.
func (s *session) Start() {
	s.startOnce.Do(func() {
		s.wg.Add(1)
		go s.processLoop()
		log.Debug("session started", "name", s.name)
	})
}

func (s *session) processLoop() {
	defer s.wg.Done()

	for {
		select {
		case <-s.closing:
			return
		case raw := <-s.inbox:
			s.process(raw)
		}
	}
}

func (s *session) process(raw []byte) {
	err := s.controller.OnSnapshot(raw)
	s.processed.Add(1)
	if ingestion.IsDropped(err) {
		log.Trace("message did not advance the window", "name", s.name, "error", err)
		return
	}

	s.lastActivity.Store(s.clock.Now().UnixNano())
}

// Submit enqueues one raw message. It blocks while the inbox is full and returns false once the session is closed.
func (s *session) Submit(raw []byte) bool {
	select {
	case <-s.closing:
		return false
	default:
	}

	select {
	case s.inbox <- raw:
		return true
	case <-s.closing:
		return false
	}
}

// SetChannelState records a push channel transition. Closed is terminal.
func (s *session) SetChannelState(state common.ChannelState) {
	for {
		current := common.ChannelState(s.channelState.Load())
		if current == state || current == common.ChannelClosed {
			return
		}
		if s.channelState.CompareAndSwap(int32(current), int32(state)) {
			s.onChannelTransition(current, state)
			return
		}
	}
}

func (s *session) onChannelTransition(previous common.ChannelState, state common.ChannelState) {
	s.observer.ChannelStateChanged(state)

	switch state {
	case common.ChannelConnected:
		s.lastActivity.Store(s.clock.Now().UnixNano())
		log.Info("telemetry channel connected", "name", s.name)
	case common.ChannelLost:
		log.Error("telemetry channel lost, the chart will no longer update", "name", s.name,
			"previous state", previous.String(), "window length", s.controller.WindowLength())
	default:
		log.Debug("telemetry channel state changed", "name", s.name,
			"previous state", previous.String(), "state", state.String())
	}
}

// ChannelState returns the current push channel state
func (s *session) ChannelState() common.ChannelState {
	return common.ChannelState(s.channelState.Load())
}

// Processed returns the number of messages taken from the inbox, dropped ones included
func (s *session) Processed() uint64 {
	return s.processed.Load()
}

// Stale returns true if the channel is connected but nothing was applied for longer than the provided duration
func (s *session) Stale(after time.Duration) bool {
	if s.ChannelState() != common.ChannelConnected {
		return false
	}

	last := time.Unix(0, s.lastActivity.Load())

	return s.clock.Now().Sub(last) > after
}

// Status returns the externally observable session state
func (s *session) Status() common.SessionStatus {
	metrics := s.controller.Schema()
	if metrics == nil {
		metrics = make([]string, 0)
	}

	return common.SessionStatus{
		Name:         s.name,
		Ingestion:    s.controller.State().String(),
		Channel:      s.ChannelState().String(),
		Metrics:      metrics,
		WindowLength: s.controller.WindowLength(),
		Capacity:     s.controller.Capacity(),
		Processed:    s.Processed(),
		LastApplied:  s.controller.LastApplied(),
	}
}

// Close stops the worker after the in-flight message, terminates the controller and discards the queued messages
func (s *session) Close() error {
	s.closeOnce.Do(func() {
		s.SetChannelState(common.ChannelClosed)
		close(s.closing)
		s.wg.Wait()
		s.controller.Terminate()
		log.Debug("session closed", "name", s.name, "processed", s.Processed(), "discarded", len(s.inbox))
	})

	return nil
}

// IsInterfaceNil returns true if the value under the interface is nil
func (s *session) IsInterfaceNil() bool {
	return s == nil
}
