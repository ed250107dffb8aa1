// Package config loads lobby configuration from HCL files
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config is the complete lobby configuration
type Config struct {
	Server ServerSettings `hcl:"server,block"`
	Games  []GameConfig   `hcl:"game,block"`
}

// ServerSettings contains process-level configuration
type ServerSettings struct {
	Addr     string `hcl:"addr,optional"`
	LogLevel string `hcl:"log_level,optional"`
	Postgres string `hcl:"postgres,optional"` // DSN; empty runs on the in-memory store
}

// GameConfig defines one autonomous game
type GameConfig struct {
	Name                   string   `hcl:"name,label"`
	Seats                  int      `hcl:"seats,optional"`
	StartingChips          int      `hcl:"starting_chips,optional"`
	SmallBlind             int      `hcl:"small_blind"`
	BigBlind               int      `hcl:"big_blind"`
	MaxHands               int      `hcl:"max_hands,optional"`
	BettingClosesAfterHand int      `hcl:"betting_closes_after_hand,optional"`
	BettingWindowSeconds   int      `hcl:"betting_window_seconds,optional"`
	DecisionTimeoutMillis  int      `hcl:"decision_timeout_ms,optional"`
	Strategies             []string `hcl:"strategies,optional"` // one per seat, built-in names
}

// Default returns the configuration used when no file exists
func Default() *Config {
	cfg := &Config{
		Server: ServerSettings{
			Addr:     "localhost:8080",
			LogLevel: "info",
		},
		Games: []GameConfig{{
			Name:       "main",
			SmallBlind: 10,
			BigBlind:   20,
		}},
	}
	for i := range cfg.Games {
		applyGameDefaults(&cfg.Games[i])
	}
	return cfg
}

// Load reads configuration from an HCL file, falling back to defaults
// when the file does not exist.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = "localhost:8080"
	}
	if cfg.Server.LogLevel == "" {
		cfg.Server.LogLevel = "info"
	}

	for i := range cfg.Games {
		applyGameDefaults(&cfg.Games[i])
	}

	return &cfg, nil
}

func applyGameDefaults(g *GameConfig) {
	if g.Seats == 0 {
		g.Seats = 4
	}
	if g.StartingChips == 0 {
		g.StartingChips = g.BigBlind * 50
	}
	if g.MaxHands == 0 {
		g.MaxHands = 50
	}
	if g.BettingClosesAfterHand == 0 {
		g.BettingClosesAfterHand = g.MaxHands / 5
	}
	if g.DecisionTimeoutMillis == 0 {
		g.DecisionTimeoutMillis = 5000
	}
	if len(g.Strategies) == 0 {
		for i := 0; i < g.Seats; i++ {
			g.Strategies = append(g.Strategies, "random")
		}
	}
}

// Validate checks the configuration for inconsistencies
func (c *Config) Validate() error {
	if len(c.Games) == 0 {
		return fmt.Errorf("at least one game must be configured")
	}

	for _, g := range c.Games {
		if g.SmallBlind <= 0 {
			return fmt.Errorf("game %s: small blind must be positive", g.Name)
		}
		if g.BigBlind <= g.SmallBlind {
			return fmt.Errorf("game %s: big blind must be greater than small blind", g.Name)
		}
		if g.Seats < 2 || g.Seats > 10 {
			return fmt.Errorf("game %s: seats must be between 2 and 10", g.Name)
		}
		if g.StartingChips < g.BigBlind {
			return fmt.Errorf("game %s: starting chips must cover the big blind", g.Name)
		}
		if len(g.Strategies) != g.Seats {
			return fmt.Errorf("game %s: %d strategies for %d seats", g.Name, len(g.Strategies), g.Seats)
		}
	}

	return nil
}
