package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Log       LogConfig       `mapstructure:"log"`
	DB        DBConfig        `mapstructure:"db"`
	Mongo     MongoConfig     `mapstructure:"mongo"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Review    ReviewConfig    `mapstructure:"review"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

type AppConfig struct {
	Port           string        `mapstructure:"port"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	AllowedOrigins string        `mapstructure:"allowed_origins"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type DBConfig struct {
	DSN string `mapstructure:"dsn"`
}

type MongoConfig struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

type StorageConfig struct {
	AccountID       string `mapstructure:"account_id"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	AccessKeySecret string `mapstructure:"access_key_secret"`
	Bucket          string `mapstructure:"bucket"`
	PublicBaseURL   string `mapstructure:"public_base_url"`
	Endpoint        string `mapstructure:"endpoint"`
}

type ReviewConfig struct {
	// PointTiers maps tier labels to the points they award. Empty means the
	// built-in scale.
	PointTiers map[string]int `mapstructure:"-"`
}

type SchedulerConfig struct {
	BacklogInterval time.Duration `mapstructure:"backlog_interval"`
}

// envAliases are the variable names used by earlier deployments.
var envAliases = map[string][]string{
	"app.port":       {"APP_PORT"},
	"db.dsn":         {"DB_DSN"},
	"mongo.uri":      {"MONGO_URI"},
	"mongo.database": {"MONGO_DATABASE", "MONGO_DB_NAME"},
	"jwt.secret":     {"JWT_SECRET"},
}

var keys = []string{
	"app.port", "app.request_timeout", "app.allowed_origins",
	"log.level",
	"db.dsn",
	"mongo.uri", "mongo.database",
	"jwt.secret",
	"storage.account_id", "storage.access_key_id", "storage.access_key_secret",
	"storage.bucket", "storage.public_base_url", "storage.endpoint",
	"review.point_tiers",
	"scheduler.backlog_interval",
}

// Load reads .env, then configFile (optional, may be empty) and the
// environment. Environment variables win over the file.
func Load(configFile string) (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("app.port", "3000")
	v.SetDefault("app.request_timeout", 10*time.Second)
	v.SetDefault("app.allowed_origins", "*")
	v.SetDefault("log.level", "info")
	v.SetDefault("mongo.database", "association")
	v.SetDefault("storage.bucket", "certificates")
	v.SetDefault("scheduler.backlog_interval", 5*time.Minute)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range keys {
		names := append([]string{strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}, envAliases[key]...)
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	tiers, err := pointTiers(v)
	if err != nil {
		return nil, err
	}
	cfg.Review.PointTiers = tiers

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.DB.DSN == "" {
		errs = append(errs, errors.New("db.dsn is required"))
	}
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("jwt.secret is required"))
	}
	if c.Mongo.URI == "" {
		errs = append(errs, errors.New("mongo.uri is required"))
	}
	if c.App.RequestTimeout < 0 {
		errs = append(errs, errors.New("app.request_timeout must not be negative"))
	}
	if c.Scheduler.BacklogInterval <= 0 {
		errs = append(errs, errors.New("scheduler.backlog_interval must be positive"))
	}
	seen := make(map[int]string, len(c.Review.PointTiers))
	for label, points := range c.Review.PointTiers {
		if points <= 0 {
			errs = append(errs, fmt.Errorf("review.point_tiers.%s must be positive", label))
		}
		if other, dup := seen[points]; dup {
			errs = append(errs, fmt.Errorf("review.point_tiers: %s and %s both award %d", label, other, points))
		}
		seen[points] = label
	}
	return errors.Join(errs...)
}

// pointTiers accepts a map from the config file or a "label=points,..."
// string from the environment.
func pointTiers(v *viper.Viper) (map[string]int, error) {
	raw := v.Get("review.point_tiers")
	if raw == nil {
		return nil, nil
	}

	if s, ok := raw.(string); ok {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, nil
		}
		tiers := map[string]int{}
		for _, pair := range strings.Split(s, ",") {
			label, value, found := strings.Cut(pair, "=")
			if !found {
				return nil, fmt.Errorf("review.point_tiers: %q is not label=points", pair)
			}
			points, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return nil, fmt.Errorf("review.point_tiers: %q: %w", pair, err)
			}
			tiers[strings.TrimSpace(label)] = points
		}
		return tiers, nil
	}

	tiers := map[string]int{}
	if err := v.UnmarshalKey("review.point_tiers", &tiers); err != nil {
		return nil, fmt.Errorf("review.point_tiers: %w", err)
	}
	return tiers, nil
}
