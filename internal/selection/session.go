// Package selection implements marquee selection on the canvas: rectangle
// and lasso gestures, the hit-test resolver, and the gesture state machine
// that ties pointer events to the scene.
//
// A Session moves through Idle -> Drawing -> Resolving -> Idle. Pointer down
// starts a marquee, pointer moves grow it while an overlay tracks it on the
// canvas, and pointer up resolves it against the scene (or hands it to the
// crop operator in crop mode). Gestures are serialized: a new gesture cannot
// start until the previous one has been fully resolved.
package selection

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/ironsheep/canvas-select-mcp/internal/geometry"
	"github.com/ironsheep/canvas-select-mcp/internal/scene"
)

var (
	// ErrBusy is returned when a gesture or mode change arrives while
	// another gesture is still being drawn or resolved.
	ErrBusy = errors.New("selection gesture in progress")

	// ErrNotDrawing is returned for move, end and cancel events outside a
	// gesture.
	ErrNotDrawing = errors.New("no selection gesture in progress")

	// ErrNoCropper is returned when crop mode is requested on a session
	// built without a crop operator.
	ErrNoCropper = errors.New("crop mode unavailable")
)

// State is the gesture state of a Session.
type State int

const (
	StateIdle      State = iota // no marquee
	StateDrawing                // pointer down, marquee following the pointer
	StateResolving              // pointer up, resolver or crop running
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDrawing:
		return "drawing"
	case StateResolving:
		return "resolving"
	default:
		return "unknown"
	}
}

// Host is the editor surface a session operates on.
type Host interface {
	Scene
	ShowOverlay(geometry.Polygon)
	HideOverlay()
}

// Cropper turns a finished crop marquee into a new image object.
type Cropper interface {
	Crop(ctx context.Context, r geometry.Rect) (*scene.Object, error)
}

// StateListener is invoked after every state transition, outside the session
// lock.
type StateListener func(prev, next State)

// Outcome describes what a finished gesture did.
type Outcome struct {
	Mode Mode
	// Marquee is the finished shape.
	Marquee Marquee
	// Degenerate is set when the marquee enclosed no area; nothing was
	// resolved and the active selection was left untouched.
	Degenerate bool
	// Selected is the new active selection (rectangle and lasso modes).
	Selected []*scene.Object
	// Cropped is the image object created in crop mode, or nil when the
	// crop was a no-op.
	Cropped *scene.Object
}

// Session is the gesture state machine. It is safe for concurrent use, but
// the host is expected to deliver one pointer's events at a time.
type Session struct {
	mu        sync.Mutex
	host      Host
	cropper   Cropper
	mode      Mode
	state     State
	marquee   Marquee
	listeners []StateListener
	logger    *log.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithCropper enables crop mode.
func WithCropper(c Cropper) Option {
	return func(s *Session) { s.cropper = c }
}

// WithLogger routes gesture diagnostics to l.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSession creates an idle session in rectangle mode.
func NewSession(host Host, opts ...Option) *Session {
	s := &Session{
		host:   host,
		mode:   ModeRectangle,
		state:  StateIdle,
		logger: log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddListener registers a listener for state transitions.
func (s *Session) AddListener(l StateListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Mode returns the mode used by the next gesture.
func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Marquee returns a copy of the in-progress marquee. ok is false when no
// gesture is being drawn.
func (s *Session) Marquee() (m Marquee, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateDrawing {
		return Marquee{}, false
	}
	return s.marquee.clone(), true
}

// SetMode switches the tool. It is only allowed while idle.
func (s *Session) SetMode(m Mode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateIdle {
		return fmt.Errorf("set mode %s: %w", m, ErrBusy)
	}
	switch m {
	case ModeRectangle, ModeLasso:
	case ModeCrop:
		if s.cropper == nil {
			return ErrNoCropper
		}
	default:
		return fmt.Errorf("unknown selection mode: %d", int(m))
	}
	s.mode = m
	return nil
}

// GestureStart handles pointer down at p and moves Idle -> Drawing.
func (s *Session) GestureStart(p geometry.Point) error {
	s.mu.Lock()
	if s.state != StateIdle {
		st := s.state
		s.mu.Unlock()
		return fmt.Errorf("gesture start while %s: %w", st, ErrBusy)
	}
	mode := s.mode
	s.marquee = NewMarquee(mode, p)
	outline := s.marquee.Outline()
	listeners := s.setState(StateDrawing)
	s.mu.Unlock()

	s.logger.Printf("selection: %s gesture started at (%.1f,%.1f)", mode, p.X, p.Y)
	s.host.ShowOverlay(outline)
	notify(listeners, StateIdle, StateDrawing)
	return nil
}

// GestureMove handles a pointer move to p while drawing and refreshes the
// overlay.
func (s *Session) GestureMove(p geometry.Point) error {
	s.mu.Lock()
	if s.state != StateDrawing {
		s.mu.Unlock()
		return ErrNotDrawing
	}
	s.marquee.Extend(p)
	outline := s.marquee.Outline()
	s.mu.Unlock()

	s.host.ShowOverlay(outline)
	return nil
}

// GestureEnd handles pointer up. The finished marquee is resolved against
// the scene's current objects (or cropped, in crop mode), the overlay is
// removed and the session returns to Idle.
//
// ctx bounds the crop operator's export round trip; selection modes do not
// block. New gestures are rejected with ErrBusy until GestureEnd returns.
// A crop failure is returned to the caller once the session is back to Idle.
func (s *Session) GestureEnd(ctx context.Context) (*Outcome, error) {
	s.mu.Lock()
	if s.state != StateDrawing {
		s.mu.Unlock()
		return nil, ErrNotDrawing
	}
	m := s.marquee
	s.marquee = Marquee{}
	listeners := s.setState(StateResolving)
	s.mu.Unlock()
	notify(listeners, StateDrawing, StateResolving)

	defer func() {
		s.mu.Lock()
		listeners := s.setState(StateIdle)
		s.mu.Unlock()
		notify(listeners, StateResolving, StateIdle)
	}()

	out, err := s.resolve(ctx, m)
	s.host.HideOverlay()
	return out, err
}

func (s *Session) resolve(ctx context.Context, m Marquee) (*Outcome, error) {
	out := &Outcome{Mode: m.Mode, Marquee: m, Degenerate: m.Degenerate()}
	if out.Degenerate {
		s.logger.Printf("selection: degenerate %s gesture ignored", m.Mode)
		return out, nil
	}

	if m.Mode == ModeCrop {
		obj, err := s.cropper.Crop(ctx, m.Rect.Normalize())
		if err != nil {
			return out, fmt.Errorf("crop: %w", err)
		}
		out.Cropped = obj
		return out, nil
	}

	out.Selected = Resolve(m, s.host.Objects())
	Apply(s.host, out.Selected)
	s.logger.Printf("selection: %s gesture selected %d object(s)", m.Mode, len(out.Selected))
	return out, nil
}

// Cancel aborts the gesture being drawn: the overlay is removed and the
// active selection is left as it was.
func (s *Session) Cancel() error {
	s.mu.Lock()
	if s.state != StateDrawing {
		s.mu.Unlock()
		return ErrNotDrawing
	}
	s.marquee = Marquee{}
	listeners := s.setState(StateIdle)
	s.mu.Unlock()

	s.host.HideOverlay()
	notify(listeners, StateDrawing, StateIdle)
	return nil
}

// setState must be called with s.mu held. It returns the listeners to
// notify once the lock is released.
func (s *Session) setState(next State) []StateListener {
	s.state = next
	if len(s.listeners) == 0 {
		return nil
	}
	ls := make([]StateListener, len(s.listeners))
	copy(ls, s.listeners)
	return ls
}

func notify(ls []StateListener, prev, next State) {
	for _, l := range ls {
		l(prev, next)
	}
}
