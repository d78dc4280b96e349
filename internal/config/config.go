package config

import (
	"fmt"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/derekprior/tourney/internal/roundrobin"
	"github.com/derekprior/tourney/internal/store"
	"github.com/derekprior/tourney/internal/swiss"
	"github.com/derekprior/tourney/internal/tournament"
)

// Date is a wrapper around time.Time for YAML date parsing.
type Date struct {
	Time time.Time
}

func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	t, err := time.Parse("2006-01-02", value.Value)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", value.Value, err)
	}
	d.Time = t
	return nil
}

func (d Date) MarshalYAML() (any, error) {
	return d.Time.Format("2006-01-02"), nil
}

type BlackoutDate struct {
	Date   Date   `yaml:"date"`
	Reason string `yaml:"reason"`
}

type Calendar struct {
	StartDate         Date           `yaml:"start_date"`
	DaysBetweenRounds int            `yaml:"days_between_rounds"`
	BlackoutDates     []BlackoutDate `yaml:"blackout_dates"`
}

type PairOptions struct {
	AcceleratedRounds  int     `yaml:"accelerated_rounds"`
	AccelerationPoints float64 `yaml:"acceleration_points"`
}

type Scoring struct {
	Win  *float64 `yaml:"win"`
	Draw *float64 `yaml:"draw"`
	Loss *float64 `yaml:"loss"`
}

type Config struct {
	Name        string      `yaml:"name"`
	Format      string      `yaml:"format"`
	Teams       []string    `yaml:"teams"`
	Pairer      string      `yaml:"pairer"`
	PairOptions PairOptions `yaml:"pair_options"`
	BronzeMatch bool        `yaml:"bronze_match"`
	Rounds      int         `yaml:"rounds"`
	Workers     int         `yaml:"workers"`
	Scoring     Scoring     `yaml:"scoring"`
	Calendar    Calendar    `yaml:"calendar"`
}

// TotalRounds is the number of rounds the tournament will run: the
// configured count, or every round the format allows.
func (c *Config) TotalRounds() int {
	if c.Rounds > 0 {
		return c.Rounds
	}
	return c.maxRounds()
}

func (c *Config) maxRounds() int {
	if c.Format == tournament.FormatPagePlayoff {
		return tournament.PagePlayoffRounds
	}
	n, err := roundrobin.TotalRounds(len(c.Teams))
	if err != nil {
		return 0
	}
	return n
}

// Points returns the scoring table with unset entries at their defaults.
func (c *Config) Points() store.Scoring {
	s := store.DefaultScoring
	if c.Scoring.Win != nil {
		s.Win = *c.Scoring.Win
	}
	if c.Scoring.Draw != nil {
		s.Draw = *c.Scoring.Draw
	}
	if c.Scoring.Loss != nil {
		s.Loss = *c.Scoring.Loss
	}
	return s
}

// SwissOptions converts the pairing settings for the Swiss selector.
func (c *Config) SwissOptions() swiss.Options {
	return swiss.Options{
		AcceleratedRounds:  c.PairOptions.AcceleratedRounds,
		AccelerationPoints: c.PairOptions.AccelerationPoints,
		Workers:            c.Workers,
	}
}

// LoadFromBytes parses YAML bytes into a Config and validates it.
func LoadFromBytes(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Format == "" {
		cfg.Format = tournament.FormatRoundRobin
	}
	if cfg.Calendar.DaysBetweenRounds == 0 {
		cfg.Calendar.DaysBetweenRounds = 7
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromFile reads and parses a YAML config file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromBytes(data)
}

func (c *Config) validate() error {
	if !slices.Contains(tournament.Formats, c.Format) {
		return fmt.Errorf("unknown format %q (want one of %v)", c.Format, tournament.Formats)
	}

	if _, err := swiss.GetPairer[string](c.Pairer); err != nil {
		return err
	}

	if len(c.Teams) < roundrobin.MinCompetitors {
		return fmt.Errorf("at least %d teams are required (found %d)", roundrobin.MinCompetitors, len(c.Teams))
	}

	seen := make(map[string]bool)
	for _, team := range c.Teams {
		if team == "" {
			return fmt.Errorf("team names must not be empty")
		}
		if team == store.DrawLabel {
			return fmt.Errorf("team name %q is reserved for drawn results", team)
		}
		if seen[team] {
			return fmt.Errorf("team %q appears more than once", team)
		}
		seen[team] = true
	}

	switch c.Format {
	case tournament.FormatPagePlayoff:
		if len(c.Teams) != tournament.PagePlayoffTeams {
			return fmt.Errorf("page_playoff needs exactly %d teams (found %d)", tournament.PagePlayoffTeams, len(c.Teams))
		}
	case tournament.FormatSwiss:
		if len(c.Teams) > swiss.MaxCompetitors {
			return fmt.Errorf("swiss supports at most %d teams (found %d)", swiss.MaxCompetitors, len(c.Teams))
		}
	}

	if c.Rounds < 0 || c.Rounds > c.maxRounds() {
		return fmt.Errorf("rounds must be between 1 and %d for %s with %d teams (got %d)",
			c.maxRounds(), c.Format, len(c.Teams), c.Rounds)
	}

	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative (got %d)", c.Workers)
	}

	if c.PairOptions.AcceleratedRounds < 0 || c.PairOptions.AccelerationPoints < 0 {
		return fmt.Errorf("pair_options must not be negative")
	}

	if c.Calendar.DaysBetweenRounds < 0 {
		return fmt.Errorf("days_between_rounds must not be negative (got %d)", c.Calendar.DaysBetweenRounds)
	}

	if c.Calendar.StartDate.Time.IsZero() && len(c.Calendar.BlackoutDates) > 0 {
		return fmt.Errorf("calendar blackout dates need a start_date")
	}

	for _, b := range c.Calendar.BlackoutDates {
		if b.Date.Time.Before(c.Calendar.StartDate.Time) {
			return fmt.Errorf("blackout date %s is before start date %s",
				b.Date.Time.Format("2006-01-02"),
				c.Calendar.StartDate.Time.Format("2006-01-02"))
		}
	}

	return nil
}
