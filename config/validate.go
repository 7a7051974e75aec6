package config

import "fmt"

// ConfigurationError reports a parameter combination the trainer cannot run with.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

// Validate checks the invariants generation construction relies on.
// The first violation is returned as a *ConfigurationError.
func (c *Config) Validate() error {
	p := c.Population
	switch {
	case p.Size < 2:
		return &ConfigurationError{"population.size", fmt.Sprintf("must be at least 2, got %d", p.Size)}
	case p.Elites < 0:
		return &ConfigurationError{"population.elites", fmt.Sprintf("must not be negative, got %d", p.Elites)}
	case p.Elites > p.Size:
		return &ConfigurationError{"population.elites", fmt.Sprintf("%d elites exceed population size %d", p.Elites, p.Size)}
	case p.MaxTicks <= 0:
		return &ConfigurationError{"population.max_ticks", "must be positive"}
	}

	if len(c.Neural.LayerSizes) < 2 {
		return &ConfigurationError{"neural.layer_sizes", "need at least input and output layers"}
	}
	for i, n := range c.Neural.LayerSizes {
		if n < 1 {
			return &ConfigurationError{"neural.layer_sizes", fmt.Sprintf("layer %d has width %d", i, n)}
		}
	}
	// The bird feeds [dy, vy] and reads a single decision output.
	if c.Neural.LayerSizes[0] != 2 {
		return &ConfigurationError{"neural.layer_sizes", "input layer must have width 2"}
	}
	if c.Neural.LayerSizes[len(c.Neural.LayerSizes)-1] != 1 {
		return &ConfigurationError{"neural.layer_sizes", "output layer must have width 1"}
	}

	if c.Evolution.Eps < 0 {
		return &ConfigurationError{"evolution.eps", "must not be negative"}
	}
	if c.Evolution.DirectionalProb < 0 || c.Evolution.DirectionalProb > 1 {
		return &ConfigurationError{"evolution.directional_prob", "must be within [0, 1]"}
	}

	if c.Screen.Width <= 0 {
		return &ConfigurationError{"screen.width", "must be positive"}
	}
	if c.Physics.Speed <= 0 {
		return &ConfigurationError{"physics.speed", "must be positive"}
	}
	if c.Derived.SpawnPeriod < 1 {
		return &ConfigurationError{"pipe.spawn_every", "must be at least one tick of scroll"}
	}
	if c.Bird.Radius <= 0 || c.Bird.Radius >= 0.5 {
		return &ConfigurationError{"bird.radius", "must be within (0, 0.5)"}
	}
	if c.Reward.ProximityRef <= 0 {
		return &ConfigurationError{"reward.proximity_ref", "must be positive"}
	}
	if c.HallOfFame.Enabled && c.HallOfFame.Size < 1 {
		return &ConfigurationError{"hall_of_fame.size", "must be positive when enabled"}
	}
	return nil
}
