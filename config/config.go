package config

import (
	"github.com/spf13/viper"

	"github.com/wfunc/guessjam/game"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	YouTube  YouTubeConfig  `mapstructure:"youtube"`
	Game     GameConfig     `mapstructure:"game"`
}

type ServerConfig struct {
	HTTPAddress    string `mapstructure:"http_address"`
	RPCAddress     string `mapstructure:"rpc_address"`
	MetricsAddress string `mapstructure:"metrics_address"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
}

// PostgresConfig configures the snapshot store. An empty host selects the
// in-memory store.
type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

type YouTubeConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// GameConfig carries the match rule constants.
type GameConfig struct {
	MinSongs            int `mapstructure:"min_songs"`
	MaxTeams            int `mapstructure:"max_teams"`
	WinScore            int `mapstructure:"win_score"`
	CountdownSeconds    int `mapstructure:"countdown_seconds"`
	AnswerWindowSeconds int `mapstructure:"answer_window_seconds"`
}

// Rules converts the configured constants into the reducer's rule set.
func (g GameConfig) Rules() game.Rules {
	r := game.DefaultRules()
	if g.MinSongs > 0 {
		r.MinSongs = g.MinSongs
	}
	if g.MaxTeams > 0 {
		r.MaxTeams = g.MaxTeams
	}
	if g.WinScore > 0 {
		r.WinScore = g.WinScore
	}
	if g.CountdownSeconds > 0 {
		r.CountdownSeconds = g.CountdownSeconds
	}
	if g.AnswerWindowSeconds > 0 {
		r.AnswerWindowSeconds = g.AnswerWindowSeconds
	}
	return r
}

func LoadConfig(path string) (config *Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetDefault("server.http_address", ":8080")
	viper.SetDefault("server.rpc_address", ":8081")
	viper.SetDefault("server.metrics_address", ":9100")
	viper.SetDefault("game.min_songs", 5)
	viper.SetDefault("game.max_teams", 6)
	viper.SetDefault("game.win_score", 5)
	viper.SetDefault("game.countdown_seconds", 3)
	viper.SetDefault("game.answer_window_seconds", 15)

	viper.AutomaticEnv()

	err = viper.ReadInConfig()
	if err != nil {
		// Missing file is fine, the defaults and env cover everything.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	err = viper.Unmarshal(&config)
	return
}
