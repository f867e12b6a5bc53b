package geolocation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/location"
)

func TestCapture_Reported(t *testing.T) {
	lat, lng, acc := -6.2, 106.8, 12.0
	sample := NewCapturer(time.Second, nil).Capture(context.Background(), Reported(&lat, &lng, &acc))

	require.NotNil(t, sample.Position)
	assert.Equal(t, lat, sample.Position.Latitude)
	assert.Equal(t, lng, sample.Position.Longitude)
	assert.Empty(t, sample.Warning)
}

func TestCapture_MissingCoordinatesWarns(t *testing.T) {
	sample := NewCapturer(time.Second, nil).Capture(context.Background(), Reported(nil, nil, nil))

	assert.Nil(t, sample.Position)
	assert.Equal(t, warningUnavailable, sample.Warning)
}

func TestCapture_TimesOut(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	slow := location.ProviderFunc(func(ctx context.Context) (location.Position, error) {
		<-release
		return location.Position{Latitude: 1, Longitude: 1}, nil
	})

	start := time.Now()
	sample := NewCapturer(20*time.Millisecond, nil).Capture(context.Background(), slow)

	assert.Nil(t, sample.Position)
	assert.Equal(t, warningUnavailable, sample.Warning)
	assert.Less(t, time.Since(start), time.Second)
}

func TestCapture_ProviderErrorIsNotFatal(t *testing.T) {
	failing := location.ProviderFunc(func(ctx context.Context) (location.Position, error) {
		return location.Position{}, errors.New("permission denied by user")
	})

	sample := NewCapturer(time.Second, nil).Capture(context.Background(), failing)

	assert.Nil(t, sample.Position)
	assert.NotEmpty(t, sample.Warning)
}

func TestCapture_OutsideSiteWarnsButKeepsPosition(t *testing.T) {
	site := &location.Site{
		Center:       location.Position{Latitude: -6.2000, Longitude: 106.8166},
		RadiusMeters: 100,
	}
	lat, lng := -6.2100, 106.8166 // roughly 1.1km south

	sample := NewCapturer(time.Second, site).Capture(context.Background(), Reported(&lat, &lng, nil))

	require.NotNil(t, sample.Position)
	assert.Equal(t, warningOutsideSite, sample.Warning)
}

func TestCapture_InvalidCoordinates(t *testing.T) {
	lat, lng := 120.0, 0.0
	sample := NewCapturer(time.Second, nil).Capture(context.Background(), Reported(&lat, &lng, nil))

	assert.Nil(t, sample.Position)
	assert.Equal(t, warningUnavailable, sample.Warning)
}
