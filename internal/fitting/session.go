package fitting

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"fittingroom/internal/imagefile"
)

// Messages stored in Failed when no better text is available.
const (
	MsgIncomplete = "Please upload all three images."
	MsgUnexpected = "An unexpected error occurred."
)

var (
	ErrIncomplete = errors.New("fitting: all three images are required")
	ErrInFlight   = errors.New("fitting: a generation request is already in flight")
	ErrNoImage    = errors.New("fitting: generator returned no image")
)

// Generator produces a fitting image from the model, top and bottom inputs.
// The returned reference must be usable directly as an image source.
type Generator interface {
	Generate(ctx context.Context, model, top, bottom imagefile.ImageFile) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, model, top, bottom imagefile.ImageFile) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, model, top, bottom imagefile.ImageFile) (string, error) {
	return f(ctx, model, top, bottom)
}

// Snapshot is a copy of the session state at one point in time.
type Snapshot struct {
	Images     [3]imagefile.ImageFile
	Lifecycle  Lifecycle
	Generation int
}

// Image returns the image held in slot, if any.
func (s Snapshot) Image(slot Slot) (imagefile.ImageFile, bool) {
	if !slot.valid() {
		return imagefile.ImageFile{}, false
	}
	img := s.Images[slot]
	return img, !img.IsZero()
}

// Missing lists the empty slots in display order.
func (s Snapshot) Missing() []Slot {
	return lo.Filter(Slots, func(slot Slot, _ int) bool {
		return s.Images[slot].IsZero()
	})
}

// Complete reports whether all three slots are populated.
func (s Snapshot) Complete() bool {
	return len(s.Missing()) == 0
}

// Session holds the inputs and the request lifecycle of a single fitting.
type Session struct {
	generator Generator
	logger    zerolog.Logger

	mu         sync.Mutex
	images     [3]imagefile.ImageFile
	lifecycle  Lifecycle
	generation int
}

func NewSession(generator Generator, logger zerolog.Logger) *Session {
	return &Session{
		generator: generator,
		logger:    logger.With().Str("component", "fitting").Logger(),
		lifecycle: Idle{},
	}
}

// SetSlot stores img in slot, replacing any previous image. It never touches
// the other slots or an in-flight request.
func (s *Session) SetSlot(slot Slot, img imagefile.ImageFile) error {
	if !slot.valid() {
		return fmt.Errorf("%w: %d", ErrUnknownSlot, int(slot))
	}
	s.mu.Lock()
	s.images[slot] = img
	s.mu.Unlock()
	s.logger.Debug().Str("slot", slot.String()).Str("mime", img.MIMEType()).Msg("slot updated")
	return nil
}

// ClearSlot empties slot.
func (s *Session) ClearSlot(slot Slot) error {
	return s.SetSlot(slot, imagefile.ImageFile{})
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		Images:     s.images,
		Lifecycle:  s.lifecycle,
		Generation: s.generation,
	}
}

// Trigger starts a generation with the current inputs. The returned channel
// is closed once the outcome has been applied to the session.
//
// While a request is in flight Trigger returns ErrInFlight and changes
// nothing. With an incomplete input set the session moves to a validation
// failure and ErrIncomplete is returned; the generator is not called.
//
// The call runs detached from ctx's cancellation: once issued it always
// completes, and its outcome is applied even if the inputs changed meanwhile.
func (s *Session) Trigger(ctx context.Context) (<-chan struct{}, error) {
	s.mu.Lock()
	if _, busy := s.lifecycle.(Requesting); busy {
		s.mu.Unlock()
		return nil, ErrInFlight
	}
	snap := s.snapshotLocked()
	if missing := snap.Missing(); len(missing) > 0 {
		s.lifecycle = Failed{Message: MsgIncomplete, Kind: KindValidation}
		s.mu.Unlock()
		names := lo.Map(missing, func(slot Slot, _ int) string { return slot.String() })
		s.logger.Info().Strs("missing", names).Msg("generation refused: incomplete inputs")
		return nil, fmt.Errorf("%w: missing %s", ErrIncomplete, strings.Join(names, ", "))
	}
	s.generation++
	generation := s.generation
	s.lifecycle = Requesting{}
	s.mu.Unlock()

	s.logger.Info().Int("generation", generation).Msg("generation requested")

	done := make(chan struct{})
	ctx = context.WithoutCancel(ctx)
	go func() {
		defer close(done)
		ref, err := s.generate(ctx, snap)
		s.settle(generation, ref, err)
	}()
	return done, nil
}

// generate calls the generator, turning a panic into an error so the
// session still settles.
func (s *Session) generate(ctx context.Context, snap Snapshot) (ref string, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Interface("panic", r).Msg("generator panicked")
			ref, err = "", fmt.Errorf("fitting: generator panicked: %v", r)
		}
	}()
	return s.generator.Generate(ctx, snap.Images[SlotModel], snap.Images[SlotTop], snap.Images[SlotBottom])
}

func (s *Session) settle(generation int, ref string, err error) {
	if err == nil && strings.TrimSpace(ref) == "" {
		err = ErrNoImage
	}

	var next Lifecycle
	if err != nil {
		msg := strings.TrimSpace(err.Error())
		next = Failed{Message: lo.Ternary(msg != "", msg, MsgUnexpected), Kind: KindRemote}
	} else {
		next = Succeeded{Image: ref}
	}

	s.mu.Lock()
	s.lifecycle = next
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn().Err(err).Int("generation", generation).Msg("generation failed")
		return
	}
	s.logger.Info().Int("generation", generation).Int("bytes", len(ref)).Msg("generation succeeded")
}
