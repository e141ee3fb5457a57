package halite

import "fmt"

// Constants of the Halite III ruleset (December 2018 values).
// All of them can be overridden through the config file before a game is created.
type Constants struct {
	CaptureEnabled          bool    `mapstructure:"capture_enabled"`
	DropoffCost             int     `mapstructure:"dropoff_cost"`
	ExtractRatio            int     `mapstructure:"extract_ratio"`
	InitialEnergy           int     `mapstructure:"initial_energy"`
	InspirationEnabled      bool    `mapstructure:"inspiration_enabled"`
	InspirationRadius       int     `mapstructure:"inspiration_radius"`
	InspirationShipCount    int     `mapstructure:"inspiration_ship_count"`
	InspiredBonusMultiplier float64 `mapstructure:"inspired_bonus_multiplier"`
	InspiredExtractRatio    int     `mapstructure:"inspired_extract_ratio"`
	InspiredMoveCostRatio   int     `mapstructure:"inspired_move_cost_ratio"`
	MaxCellProduction       int     `mapstructure:"max_cell_production"`
	MaxEnergy               int     `mapstructure:"max_energy"`
	MaxPlayers              int     `mapstructure:"max_players"`
	MaxTurns                int     `mapstructure:"max_turns"`
	MaxTurnThreshold        int     `mapstructure:"max_turn_threshold"`
	MinCellProduction       int     `mapstructure:"min_cell_production"`
	MinTurns                int     `mapstructure:"min_turns"`
	MinTurnThreshold        int     `mapstructure:"min_turn_threshold"`
	MoveCostRatio           int     `mapstructure:"move_cost_ratio"`
	NewEntityEnergyCost     int     `mapstructure:"new_entity_energy_cost"`
	Persistence             float64 `mapstructure:"persistence"`

	// Reward shaping applied by Step on top of the game rules.
	InvalidCommandPenalty float64 `mapstructure:"invalid_command_penalty"`
	BankRewardRate        float64 `mapstructure:"bank_reward_rate"`
}

func DefaultConstants() Constants {
	return Constants{
		CaptureEnabled:          false,
		DropoffCost:             4000,
		ExtractRatio:            4,
		InitialEnergy:           5000,
		InspirationEnabled:      true,
		InspirationRadius:       4,
		InspirationShipCount:    2,
		InspiredBonusMultiplier: 2.0,
		InspiredExtractRatio:    4,
		InspiredMoveCostRatio:   10,
		MaxCellProduction:       1000,
		MaxEnergy:               1000,
		MaxPlayers:              16,
		MaxTurns:                500,
		MaxTurnThreshold:        64,
		MinCellProduction:       900,
		MinTurns:                400,
		MinTurnThreshold:        32,
		MoveCostRatio:           10,
		NewEntityEnergyCost:     1000,
		Persistence:             0.7,

		InvalidCommandPenalty: 0.1,
		BankRewardRate:        0.0005,
	}
}

// Validate checks that config overrides left the constants usable. The
// ratios divide cell halite during every step, so zero values would crash
// the engine rather than misbehave.
func (c Constants) Validate() error {
	ratios := []struct {
		name string
		val  int
	}{
		{"extract_ratio", c.ExtractRatio},
		{"inspired_extract_ratio", c.InspiredExtractRatio},
		{"move_cost_ratio", c.MoveCostRatio},
		{"inspired_move_cost_ratio", c.InspiredMoveCostRatio},
	}
	for _, r := range ratios {
		if r.val < 1 {
			return fmt.Errorf("%s must be positive, got %d", r.name, r.val)
		}
	}
	if c.MaxEnergy < 1 {
		return fmt.Errorf("max_energy must be positive, got %d", c.MaxEnergy)
	}
	if c.NewEntityEnergyCost < 1 {
		return fmt.Errorf("new_entity_energy_cost must be positive, got %d", c.NewEntityEnergyCost)
	}
	if c.DropoffCost < 1 {
		return fmt.Errorf("dropoff_cost must be positive, got %d", c.DropoffCost)
	}
	if c.MaxPlayers < 1 {
		return fmt.Errorf("max_players must be positive, got %d", c.MaxPlayers)
	}
	if c.InspirationRadius < 0 || c.InspirationShipCount < 1 {
		return fmt.Errorf("inspiration parameters out of range: radius %d, ship count %d",
			c.InspirationRadius, c.InspirationShipCount)
	}
	if c.MinCellProduction < 0 || c.MaxCellProduction < c.MinCellProduction {
		return fmt.Errorf("cell production bounds inverted: [%d,%d]",
			c.MinCellProduction, c.MaxCellProduction)
	}
	if c.MinTurnThreshold >= c.MaxTurnThreshold {
		return fmt.Errorf("turn thresholds inverted: [%d,%d]",
			c.MinTurnThreshold, c.MaxTurnThreshold)
	}
	if c.MinTurns < 1 || c.MaxTurns < c.MinTurns {
		return fmt.Errorf("turn bounds inverted: [%d,%d]", c.MinTurns, c.MaxTurns)
	}
	if c.Persistence <= 0 || c.Persistence > 1 {
		return fmt.Errorf("persistence must be in (0,1], got %f", c.Persistence)
	}
	return nil
}

// TurnLimit computes the number of turns a game lasts for the given map size.
// The limit scales linearly between MinTurns and MaxTurns as the size goes
// from MinTurnThreshold to MaxTurnThreshold.
func (c Constants) TurnLimit(size int) int {
	if size <= c.MinTurnThreshold {
		return c.MinTurns
	}
	if size >= c.MaxTurnThreshold {
		return c.MaxTurns
	}
	span := c.MaxTurnThreshold - c.MinTurnThreshold
	return c.MinTurns + (size-c.MinTurnThreshold)*(c.MaxTurns-c.MinTurns)/span
}
