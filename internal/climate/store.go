// Package climate holds the reference data behind a calculation: clear-sky and
// typical irradiance datasets, the RTS coefficient table and the shading
// attenuation table. The data is loaded once and then only read.
package climate

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/chrissnell/coolingload/internal/shading"
	"github.com/chrissnell/coolingload/pkg/rts"
)

var (
	// ErrNotReady is returned while the initial load is still running
	ErrNotReady = errors.New("climate data is still loading")
	// ErrUnavailable is returned after the load failed. The load error is wrapped.
	ErrUnavailable = errors.New("climate data is unavailable")
)

// Data is the complete reference data set
type Data struct {
	// Design is the clear-sky dataset: beam, Gcs and the sun geometry
	Design Dataset
	// Typical is the global dataset: beam, G and air temperature
	Typical Dataset
	RTS     rts.Table
	Shading shading.Table
}

// State is the lifecycle state of a Store
type State int

const (
	StateLoading State = iota
	StateReady
	StateUnavailable
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateUnavailable:
		return "unavailable"
	default:
		return "loading"
	}
}

// Loader produces the reference data
type Loader interface {
	Load(ctx context.Context) (*Data, error)
}

// Store guards the reference data for concurrent readers
type Store struct {
	mu     sync.RWMutex
	state  State
	data   *Data
	err    error
	logger *zap.SugaredLogger
}

// NewStore returns an empty store in the loading state
func NewStore(logger *zap.SugaredLogger) *Store {
	return &Store{
		state:  StateLoading,
		logger: logger,
	}
}

// NewStaticStore returns a store that is ready with the given data
func NewStaticStore(d *Data) *Store {
	s := NewStore(zap.NewNop().Sugar())
	s.set(d, nil)
	return s
}

// Data returns the loaded data, ErrNotReady while loading, or an error
// wrapping both ErrUnavailable and the load failure.
func (s *Store) Data() (*Data, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch s.state {
	case StateReady:
		return s.data, nil
	case StateUnavailable:
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, s.err)
	default:
		return nil, ErrNotReady
	}
}

// State returns the current lifecycle state
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Load runs the loader synchronously and records the outcome
func (s *Store) Load(ctx context.Context, loader Loader) error {
	d, err := loader.Load(ctx)
	s.set(d, err)
	if err != nil {
		s.logger.Errorf("climate data load failed: %v", err)
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	s.logger.Infof("climate data loaded: %d design months, %d typical months", d.Design.Months(), d.Typical.Months())
	return nil
}

// LoadAsync runs the loader in the background. The returned channel is closed
// once the store has left the loading state.
func (s *Store) LoadAsync(ctx context.Context, loader Loader) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.Load(ctx, loader)
	}()
	return done
}

func (s *Store) set(d *Data, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.state = StateUnavailable
		s.data = nil
		s.err = err
		return
	}
	s.state = StateReady
	s.data = d
	s.err = nil
}
