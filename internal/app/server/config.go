package server

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	IdleTimeout time.Duration

	TokenSigningSecret string

	RankInterval  time.Duration
	RankBatchSize int

	RoomSweepInterval time.Duration
	RoomLinger        time.Duration
	RoomIdleTimeout   time.Duration

	BattleWinPoints int

	AwsRegion string
}

func NewConfig() Config {
	var config Config

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs/server")
	viper.AddConfigPath(".")

	viper.SetDefault("Server.Port", "7202")
	viper.SetDefault("Server.IdleTimeout", "60s")
	viper.SetDefault("Rank.Interval", "5m")
	viper.SetDefault("Rank.BatchSize", 50)
	viper.SetDefault("Rooms.SweepInterval", "1m")
	viper.SetDefault("Rooms.Linger", "1m")
	viper.SetDefault("Rooms.IdleTimeout", "10m")
	viper.SetDefault("Battle.WinPoints", 10)

	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			panic(fmt.Errorf("fatal error config file: %s", err))
		}
	}
	viper.AutomaticEnv()

	config.Port = viper.GetString("Server.Port")
	config.IdleTimeout = viper.GetDuration("Server.IdleTimeout")
	config.TokenSigningSecret = viper.GetString("TOKEN_SIGNING_SECRET")
	config.RankInterval = viper.GetDuration("Rank.Interval")
	config.RankBatchSize = viper.GetInt("Rank.BatchSize")
	config.RoomSweepInterval = viper.GetDuration("Rooms.SweepInterval")
	config.RoomLinger = viper.GetDuration("Rooms.Linger")
	config.RoomIdleTimeout = viper.GetDuration("Rooms.IdleTimeout")
	config.BattleWinPoints = viper.GetInt("Battle.WinPoints")
	config.AwsRegion = viper.GetString("AWS_REGION")

	return config
}
