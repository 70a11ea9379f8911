package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App    AppConfig    `mapstructure:"app"`
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
	DB     DBConfig     `mapstructure:"db"`
	Auth   AuthConfig   `mapstructure:"auth"`
	Cron   CronConfig   `mapstructure:"cron"`
	Rates  RatesConfig  `mapstructure:"rates"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ServerConfig struct {
	HTTPAddr string `mapstructure:"http_addr"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

type DBConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Timezone        string        `mapstructure:"timezone"`
}

type AuthConfig struct {
	JWTSecret  string        `mapstructure:"jwt_secret"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
	AdminToken string        `mapstructure:"admin_token"`
}

type CronConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// DailyCommissions is a robfig/cron spec with a seconds field.
	DailyCommissions string `mapstructure:"daily_commissions"`
}

// RatesConfig seeds the first commission_rates row when the table is empty.
// Later rate changes are new rows created through the admin API.
type RatesConfig struct {
	OneTimeRewards map[string]float64 `mapstructure:"one_time_rewards"`
	Level1         float64            `mapstructure:"level1"`
	Level2         float64            `mapstructure:"level2"`
	Level3         float64            `mapstructure:"level3"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetDefault("app.env", "dev")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.conn_max_idle_time", "5m")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", "24h")
	v.SetDefault("auth.admin_token", "")
	v.SetDefault("cron.enabled", true)
	// Midnight UTC, once per day.
	v.SetDefault("cron.daily_commissions", "0 0 0 * * *")
	v.SetDefault("rates.level1", 0.10)
	v.SetDefault("rates.level2", 0.05)
	v.SetDefault("rates.level3", 0.02)
	v.SetDefault("rates.one_time_rewards", map[string]float64{
		"EUR/USD": 100,
		"GBP/USD": 300,
		"USD/JPY": 500,
		"USD/CHF": 600,
		"AUD/USD": 700,
		"EUR/GBP": 1000,
		"EUR/AUD": 1500,
		"USD/CAD": 2500,
		"NZD/USD": 5000,
	})

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
