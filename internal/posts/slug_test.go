package posts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Brent Climbs 1.8% to $78.40", "brent-climbs-1-8-to-78-40"},
		{"  Market   Brief:  OPEC  ", "market-brief-opec"},
		{"WTI Holds Steady", "wti-holds-steady"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in))
	}
}

func TestUniqueSlug_Deterministic(t *testing.T) {
	date := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	noCollision := func(context.Context, string) (bool, error) { return false, nil }

	first, err := UniqueSlug(context.Background(), noCollision, "Brent Climbs to $78.40", date)
	require.NoError(t, err)
	second, err := UniqueSlug(context.Background(), noCollision, "Brent Climbs to $78.40", date)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, "brent-climbs-to-78-40-2026-08-30", first)
}

func TestUniqueSlug_CollisionGetsSuffix(t *testing.T) {
	date := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	taken := map[string]bool{
		"wti-holds-steady-2026-08-30":   true,
		"wti-holds-steady-2026-08-30-2": true,
	}
	exists := func(_ context.Context, slug string) (bool, error) { return taken[slug], nil }

	slug, err := UniqueSlug(context.Background(), exists, "WTI Holds Steady", date)
	require.NoError(t, err)
	assert.Equal(t, "wti-holds-steady-2026-08-30-3", slug)
}
