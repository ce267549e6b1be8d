package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Mode       string        `mapstructure:"mode"`
	Port       int           `mapstructure:"port"`
	StaticPath string        `mapstructure:"static_path"`
	SongsPath  string        `mapstructure:"songs_path"`
	ReadLimit  int64         `mapstructure:"read_limit"`
	SendBuffer int           `mapstructure:"send_buffer"`
	PingPeriod time.Duration `mapstructure:"ping_period"`
	Secret     string        `mapstructure:"secret"`

	// Room lifecycle timers. Defaults match the reference behavior; tests
	// shrink them.
	CreationGrace     time.Duration `mapstructure:"creation_grace"`
	EmptyRoomGrace    time.Duration `mapstructure:"empty_room_grace"`
	IdleSweepInterval time.Duration `mapstructure:"idle_sweep_interval"`
	IdleRoomMaxAge    time.Duration `mapstructure:"idle_room_max_age"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("static_path", "./web")
	v.SetDefault("songs_path", "./data/songs.json")
	v.SetDefault("read_limit", 4096)
	v.SetDefault("send_buffer", 32)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("creation_grace", "30s")
	v.SetDefault("empty_room_grace", "10s")
	v.SetDefault("idle_sweep_interval", "5m")
	v.SetDefault("idle_room_max_age", "1h")

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("⚠️ Config file not found (%s), using defaults\n", fileName)
	} else {
		fmt.Printf("✅ Loaded config: %s\n", fileName)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
