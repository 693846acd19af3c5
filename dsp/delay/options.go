package delay

import (
	"errors"
	"fmt"
)

// Storage selects where a Delay keeps its buffers.
type Storage int

const (
	// StorageOwned allocates buffers in SetSampleRate.
	StorageOwned Storage = iota
	// StorageArena slices buffers from caller memory given with WithArena.
	StorageArena
)

// DefaultMaxLength bounds the per-channel buffer length in owned mode.
const DefaultMaxLength = 1 << 26

var (
	// ErrAllocation is returned when owned storage would exceed the
	// configured maximum length.
	ErrAllocation = errors.New("delay: buffer allocation refused")
	// ErrInsufficientMemory is returned when the arena is too small for all
	// channels.
	ErrInsufficientMemory = errors.New("delay: arena too small")
)

type config struct {
	storage   Storage
	arena     []float32
	maxLength int
}

func defaultConfig() config {
	return config{
		storage:   StorageOwned,
		maxLength: DefaultMaxLength,
	}
}

// Option configures a [Delay].
type Option func(*config) error

// WithStorage selects the storage mode (default StorageOwned). StorageArena
// also requires WithArena.
func WithStorage(storage Storage) Option {
	return func(cfg *config) error {
		if storage != StorageOwned && storage != StorageArena {
			return fmt.Errorf("delay: invalid storage mode: %d", storage)
		}
		cfg.storage = storage

		return nil
	}
}

// WithArena makes the delay use mem for the buffers of all channels.
func WithArena(mem []float32) Option {
	return func(cfg *config) error {
		if mem == nil {
			return errors.New("delay: arena must not be nil")
		}
		cfg.storage = StorageArena
		cfg.arena = mem

		return nil
	}
}

// WithMaxLength caps the per-channel buffer length in owned mode (default
// DefaultMaxLength samples).
func WithMaxLength(samples int) Option {
	return func(cfg *config) error {
		if samples < 1 {
			return fmt.Errorf("delay: max length must be > 0: %d", samples)
		}
		cfg.maxLength = samples

		return nil
	}
}
