package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/nfrund/toybattle/internal/combat"
	"github.com/nfrund/toybattle/internal/match"
	"github.com/nfrund/toybattle/internal/roster"
)

// Config holds all configuration for the application.
type Config struct {
	HTTPAddr     string  `env:"HTTP_ADDR" envDefault:":8080"`
	CatalogPath  string  `env:"CATALOG_PATH" envDefault:"data/catalog.yaml" validate:"required"`
	CatalogWatch bool    `env:"CATALOG_WATCH" envDefault:"false"`
	LogLevel     string  `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	RateLimit    float64 `env:"RATE_LIMIT" envDefault:"5" validate:"gt=0"`

	BoardSlots  int `env:"BOARD_SLOTS" envDefault:"6" validate:"gte=1"`
	BoardLanes  int `env:"BOARD_LANES" envDefault:"3" validate:"gte=1,ltefield=BoardSlots"`
	DeployLimit int `env:"DEPLOY_LIMIT" envDefault:"0" validate:"gte=0"`

	TotalTurns  int     `env:"TOTAL_TURNS" envDefault:"30" validate:"gte=1"`
	BattleTurns []int   `env:"BATTLE_TURNS" envDefault:"5,10,15,20,25,30" validate:"dive,gte=1"`
	SkillTurns  []int   `env:"SKILL_TURNS" envDefault:"8,16,24" validate:"dive,gte=1"`
	ChestChance float64 `env:"CHEST_CHANCE" envDefault:"0.4" validate:"gte=0,lte=1"`

	TickSeconds    float64 `env:"TICK_SECONDS" envDefault:"0.1" validate:"gt=0"`
	StatusInterval float64 `env:"STATUS_INTERVAL" envDefault:"1.0" validate:"gt=0"`
	PoisonDamage   int     `env:"POISON_DAMAGE" envDefault:"5" validate:"gte=0"`
	ArrangeDelay   float64 `env:"ARRANGE_DELAY" envDefault:"0" validate:"gte=0"`
	TeleportDelay  float64 `env:"TELEPORT_DELAY" envDefault:"0.5" validate:"gte=0"`
	ExplosionDelay float64 `env:"EXPLOSION_DELAY" envDefault:"0.75" validate:"gte=0"`
	MaxBattleTime  float64 `env:"MAX_BATTLE_SECONDS" envDefault:"180" validate:"gte=0"`

	MatchSeed     int64  `env:"MATCH_SEED" envDefault:"0"`
	BotDifficulty string `env:"BOT_DIFFICULTY" envDefault:"normal" validate:"oneof=tutorial easy normal hard"`
	BotScript     string `env:"BOT_SCRIPT"`

	SnapshotDir string `env:"SNAPSHOT_DIR" envDefault:"snapshots"`

	DBUrl  string `env:"SURREAL_URL"`
	DBNs   string `env:"SURREAL_NS"`
	DBDb   string `env:"SURREAL_DB"`
	DBUser string `env:"SURREAL_USER"`
	DBPass string `env:"SURREAL_PASS"`
}

// New loads configuration from a .env file, if present, and the environment.
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, relying on environment variables")
	}
	return Parse()
}

// Parse reads the environment into a validated Config.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// UseSurreal reports whether the SurrealDB snapshot store is configured.
func (c *Config) UseSurreal() bool {
	return c.DBUrl != "" && c.DBNs != "" && c.DBDb != ""
}

// Board projects the roster settings.
func (c *Config) Board() roster.Config {
	b := roster.DefaultConfig()
	b.Slots = c.BoardSlots
	b.Lanes = c.BoardLanes
	b.DeployLimit = c.DeployLimit
	return b
}

// Combat projects the simulator settings.
func (c *Config) Combat() combat.Config {
	return combat.Config{
		StatusInterval: c.StatusInterval,
		PoisonDamage:   c.PoisonDamage,
		ArrangeDelay:   c.ArrangeDelay,
		TeleportDelay:  c.TeleportDelay,
		ExplosionDelay: c.ExplosionDelay,
		MaxDuration:    c.MaxBattleTime,
	}
}

// Schedule projects the turn schedule.
func (c *Config) Schedule() match.Schedule {
	s := match.DefaultSchedule()
	s.TotalTurns = c.TotalTurns
	s.BattleTurns = c.BattleTurns
	s.SkillTurns = c.SkillTurns
	s.ChestChance = c.ChestChance
	return s
}

// Match assembles the full match configuration.
func (c *Config) Match() match.Config {
	cfg := match.DefaultConfig()
	cfg.Schedule = c.Schedule()
	cfg.Board = c.Board()
	cfg.Combat = c.Combat()
	return cfg
}
