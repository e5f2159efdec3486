package logging_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/NerdNu/mapmarkers/pkg/logging"
)

func TestFromContextDefault(t *testing.T) {
	assert.Equal(t, logging.Default(), logging.FromContext(context.Background()))
	assert.Equal(t, logging.Default(), logging.FromContext(nil)) //nolint:staticcheck // nil context is part of the contract
}

func TestWithLoggerRoundTrip(t *testing.T) {
	tl := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), tl.Logger)

	logging.FromContext(ctx).Info().Msg("via context")

	assert.True(t, tl.Contains("via context"))
}

func TestWithWorldAddsField(t *testing.T) {
	tl := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), tl.Logger)
	ctx = logging.WithWorld(ctx, "world_nether")

	logging.Ctx(ctx).Info().Msg("scoped")

	assert.True(t, tl.Contains(`"world":"world_nether"`))
}
