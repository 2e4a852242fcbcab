package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"guildbot/pkg/tz"
)

type Config struct {
	Token       string `env:"BOT_TOKEN" validate:"required"`
	GuildID     string `env:"GUILD_ID" validate:"omitempty,numeric"`
	DatabaseURL string `env:"DATABASE_URL" validate:"omitempty,url"`
	Locale      string `env:"LOCALE" envDefault:"en" validate:"required,bcp47_language_tag"`
	Timezone    string `env:"TIMEZONE" envDefault:"UTC" validate:"required,timezone"`

	DefaultCapacity    int             `env:"DEFAULT_CAPACITY" envDefault:"7" validate:"gt=0,lte=100"`
	ReminderOffsets    []time.Duration `env:"REMINDER_OFFSETS" envDefault:"48h,12h" envSeparator:","`
	ReminderLatePolicy string          `env:"REMINDER_LATE_POLICY" envDefault:"skip" validate:"oneof=skip fire-first"`

	AdminIDs     []string `env:"ADMIN_IDS" envSeparator:"," validate:"dive,numeric"`
	AdminRoleIDs []string `env:"ADMIN_ROLE_IDS" envSeparator:"," validate:"dive,numeric"`

	TradeSessionTTL    time.Duration `env:"TRADE_SESSION_TTL" envDefault:"0s" validate:"gte=0"`
	TradeSweepInterval time.Duration `env:"TRADE_SWEEP_INTERVAL" envDefault:"10m" validate:"gt=0"`

	HealthAddr          string        `env:"HEALTH_ADDR" envDefault:":8080" validate:"required,hostname_port|startswith=:"`
	RestartInitialDelay time.Duration `env:"RESTART_INITIAL_DELAY" envDefault:"5s" validate:"gt=0"`
	RestartMaxDelay     time.Duration `env:"RESTART_MAX_DELAY" envDefault:"5m" validate:"gt=0"`
}

// Load charge la configuration depuis les variables d'environnement et la valide.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env est optionnel lorsque les variables sont fournies par l'environnement (Docker, CI, etc.).
	}
	return Parse(env.Options{})
}

// Parse reads the configuration with opts (tests inject Environment) and validates it.
func Parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// validate applique toutes les règles métier sur la configuration chargée.
func (c *Config) validate() error {
	c.Token = strings.TrimSpace(c.Token)
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			f := verrs[0]
			return fmt.Errorf("config: %s invalide (règle %q)", f.Field(), f.Tag())
		}
		return fmt.Errorf("config: %w", err)
	}

	if len(c.ReminderOffsets) == 0 {
		return errors.New("config: REMINDER_OFFSETS doit contenir au moins une durée")
	}
	for _, off := range c.ReminderOffsets {
		if off <= 0 {
			return fmt.Errorf("config: REMINDER_OFFSETS contient une durée non positive (%s)", off)
		}
	}
	if c.RestartMaxDelay < c.RestartInitialDelay {
		return fmt.Errorf("config: RESTART_MAX_DELAY (%s) doit être >= RESTART_INITIAL_DELAY (%s)",
			c.RestartMaxDelay, c.RestartInitialDelay)
	}
	return nil
}

// Location returns the zone used to read event times typed by users.
func (c *Config) Location() *time.Location {
	return tz.Load(c.Timezone)
}
