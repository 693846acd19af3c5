package resample

import (
	"errors"
	"fmt"
	"math"

	resampling "github.com/tphakala/go-audio-resampling"
)

// Quality selects the filter of the offline resampler.
type Quality int

const (
	// QualityFast prioritizes speed, with about 54 dB of stopband rejection.
	QualityFast Quality = iota
	// QualityBalanced is the default, with about 102 dB of rejection.
	QualityBalanced
	// QualityBest targets mastering, with about 126 dB of rejection.
	QualityBest
)

// OfflineOption configures Offline.
type OfflineOption func(*offlineConfig) error

type offlineConfig struct {
	quality Quality
}

// WithQuality selects the filter quality.
func WithQuality(q Quality) OfflineOption {
	return func(cfg *offlineConfig) error {
		if q < QualityFast || q > QualityBest {
			return fmt.Errorf("resample: unknown quality %d", q)
		}
		cfg.quality = q
		return nil
	}
}

func qualitySpec(q Quality) resampling.QualitySpec {
	switch q {
	case QualityFast:
		return resampling.QualitySpec{Preset: resampling.QualityQuick}
	case QualityBest:
		return resampling.QualitySpec{Preset: resampling.QualityHigh}
	default:
		return resampling.QualitySpec{Preset: resampling.QualityMedium}
	}
}

func validRate(rate float64) bool {
	return rate > 0 && !math.IsInf(rate, 0) && !math.IsNaN(rate)
}

// Offline converts planar channels from inRate to outRate in one pass. All
// channels must have the same length. The result is freshly allocated;
// when the rates are equal it is a copy of x.
func Offline(x [][]float32, inRate, outRate float64, opts ...OfflineOption) ([][]float32, error) {
	if !validRate(inRate) || !validRate(outRate) {
		return nil, fmt.Errorf("%w: %g -> %g", ErrInvalidRate, inRate, outRate)
	}
	if len(x) == 0 {
		return nil, errors.New("resample: no channels")
	}

	cfg := offlineConfig{quality: QualityBalanced}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	channels := len(x)
	frames := len(x[0])
	for ch, buf := range x {
		if len(buf) != frames {
			return nil, fmt.Errorf("resample: channel %d has %d samples, want %d", ch, len(buf), frames)
		}
	}

	if inRate == outRate {
		out := make([][]float32, channels)
		for ch := range x {
			out[ch] = append([]float32(nil), x[ch]...)
		}
		return out, nil
	}

	out := make([][]float32, channels)
	for ch, buf := range x {
		y, err := offlineChannel(buf, inRate, outRate, cfg.quality)
		if err != nil {
			return nil, fmt.Errorf("resample: channel %d: %w", ch, err)
		}
		out[ch] = y
	}

	return out, nil
}

// offlineChannel runs one mono resampler over buf. The resampler handles a
// single stream, so every channel gets its own instance.
func offlineChannel(buf []float32, inRate, outRate float64, q Quality) ([]float32, error) {
	r, err := resampling.New(&resampling.Config{
		InputRate:  inRate,
		OutputRate: outRate,
		Channels:   1,
		Quality:    qualitySpec(q),
	})
	if err != nil {
		return nil, fmt.Errorf("create resampler: %w", err)
	}

	in := make([]float64, len(buf))
	for i, v := range buf {
		in[i] = float64(v)
	}

	body, err := r.Process(in)
	if err != nil {
		return nil, fmt.Errorf("process: %w", err)
	}

	tail, err := r.Flush()
	if err != nil {
		return nil, fmt.Errorf("flush: %w", err)
	}
	body = append(body, tail...)

	y := make([]float32, len(body))
	for i, v := range body {
		y[i] = float32(v)
	}

	return y, nil
}
