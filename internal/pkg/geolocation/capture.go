package geolocation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/location"
)

// DefaultTimeout bounds a single position query.
const DefaultTimeout = 10 * time.Second

const (
	warningUnavailable = "Location unavailable; the action was recorded without a position."
	warningOutsideSite = "You appear to be outside the work site."
)

type capturer struct {
	timeout time.Duration
	site    *location.Site
}

// NewCapturer returns a Capturer bounded by timeout. When site is set a
// position outside its radius produces a warning; it never fails the capture.
func NewCapturer(timeout time.Duration, site *location.Site) location.Capturer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &capturer{timeout: timeout, site: site}
}

type result struct {
	pos location.Position
	err error
}

// Capture implements location.Capturer.
func (c *capturer) Capture(ctx context.Context, provider location.Provider) location.Sample {
	if provider == nil {
		return location.Sample{Warning: warningUnavailable}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	// Buffered so a provider that ignores ctx can still finish and exit.
	done := make(chan result, 1)
	go func() {
		pos, err := provider.Position(ctx)
		done <- result{pos: pos, err: err}
	}()

	var res result
	select {
	case res = <-done:
	case <-ctx.Done():
		res = result{err: fmt.Errorf("%w: %v", location.ErrLocationUnavailable, ctx.Err())}
	}

	if res.err == nil && !res.pos.Valid() {
		res.err = fmt.Errorf("%w: coordinates out of range", location.ErrLocationUnavailable)
	}
	if res.err != nil {
		if !errors.Is(res.err, location.ErrLocationUnavailable) {
			res.err = fmt.Errorf("%w: %v", location.ErrLocationUnavailable, res.err)
		}
		slog.Warn("Location: capture failed", "error", res.err)
		return location.Sample{Warning: warningUnavailable}
	}

	sample := location.Sample{Position: &res.pos}
	if c.site != nil && !c.site.Contains(res.pos) {
		sample.Warning = warningOutsideSite
		slog.Warn("Location: position outside work site",
			"error", location.ErrOutsideSite,
			"distance_meters", res.pos.DistanceTo(c.site.Center),
			"radius_meters", c.site.RadiusMeters,
		)
	}
	return sample
}

// Reported is a Provider for coordinates a client sampled on its device
// and sent with the request. Missing coordinates mean the device could not
// produce a fix.
func Reported(lat, lng, accuracy *float64) location.Provider {
	return location.ProviderFunc(func(ctx context.Context) (location.Position, error) {
		if lat == nil || lng == nil {
			return location.Position{}, location.ErrLocationUnavailable
		}
		return location.Position{Latitude: *lat, Longitude: *lng, Accuracy: accuracy}, nil
	})
}
