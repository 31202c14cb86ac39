package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"acms/internal/config"
	"acms/internal/database"
	dbpostgres "acms/internal/database/postgres"
	"acms/internal/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const appName = "acmsctl"

var rootCmd = &cobra.Command{
	Use:           appName,
	Short:         "acmsctl manages the capacity management database",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(loadEnv)

	rootCmd.PersistentFlags().String("env-file", ".env", "dotenv file loaded before reading the environment")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("env-file", rootCmd.PersistentFlags().Lookup("env-file"))
	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func loadEnv() {
	file := viper.GetString("env-file")
	if file == "" {
		return
	}
	if err := godotenv.Load(file); err != nil && !os.IsNotExist(err) {
		log.Printf("loading %s: %v", file, err)
	}
}

// session is what every subcommand needs: configuration, a logger and an
// open database.
type session struct {
	cfg    config.Config
	logger *zap.Logger
	db     database.DB
}

func openSession(ctx context.Context) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	lg, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		return nil, fmt.Errorf("creating a logger: %w", err)
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	db, err := dbpostgres.Connect(connectCtx, cfg.Database, lg)
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, logger: lg, db: db}, nil
}

func (s *session) Close() {
	_ = s.db.Close()
	_ = s.logger.Sync()
}
