package eventus_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/eventus/pkg/eventus"
	"github.com/randalmurphal/eventus/pkg/eventus/config"
)

// TestFromConfig verifies the configuration key mapping.
func TestFromConfig(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want eventus.Config
	}{
		{
			"empty config uses defaults",
			"{}",
			eventus.Config{Workers: 0, DisableGC: false, DisableAsync: false},
		},
		{
			"explicit values",
			"workers: 8\ngc: false\nasync: false\n",
			eventus.Config{Workers: 8, DisableGC: true, DisableAsync: true},
		},
		{
			"gc on async off",
			"gc: true\nasync: false\n",
			eventus.Config{DisableAsync: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.FromYAML([]byte(tt.yaml))
			require.NoError(t, err)
			assert.Equal(t, tt.want, eventus.FromConfig(cfg))
		})
	}
}

// TestFromConfigBuildsWorkingBus verifies a loaded configuration produces a
// functioning bus.
func TestFromConfigBuildsWorkingBus(t *testing.T) {
	cfg, err := config.FromYAML([]byte("workers: 1\nasync: false\n"))
	require.NoError(t, err)

	bus := eventus.NewBus(eventus.FromConfig(cfg))
	defer bus.Close()

	ran := false
	eventus.Subscribe(bus, func(*tickEvent) bool {
		ran = true
		return true
	}, 0)

	require.Equal(t, eventus.StatusOK, eventus.Publish(bus, tickEvent{N: 1}))
	assert.True(t, ran)
}
