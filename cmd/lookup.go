package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/logger"
	"github.com/spigell/talentscout/internal/storage"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Show the last stored profile of a returning candidate",
	Run: func(cmd *cobra.Command, _ []string) {
		lookup(cmd)
	},
}

func init() {
	rootCmd.AddCommand(lookupCmd)

	lookupCmd.Flags().StringP("email", "e", "", "candidate email address")
	lookupCmd.MarkFlagRequired("email")
}

func lookup(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"), "stdout")
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	email, _ := cmd.Flags().GetString("email")
	hashed := storage.HashEmail(email)
	if hashed == nil {
		logger.Fatal("email is required")
	}

	store, err := newBackend(ctx, config.Storage, logger)
	if err != nil {
		logger.Fatal("creating the storage backend", zap.Error(err))
	}
	defer store.Close()

	if store.Finder == nil {
		logger.Fatal("storage driver does not support lookups", zap.String("driver", config.Storage.Driver))
	}

	found, err := store.Finder.LastProfile(ctx, *hashed)
	if errors.Is(err, storage.ErrNotFound) {
		logger.Info("no stored interview for this email")
		return
	}
	if err != nil {
		logger.Fatal("looking up the candidate", zap.Error(err))
	}

	// do not bother error since the profile has only string fields
	pretty, _ := json.MarshalIndent(found, "", "  ")
	logger.Info(string(pretty), zap.String("session_id", found.SessionID))
}
