package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/kraxler/kraxler/internal/common"
	"github.com/kraxler/kraxler/internal/config"
	"github.com/kraxler/kraxler/internal/model"
	"github.com/kraxler/kraxler/internal/service"
	"github.com/kraxler/kraxler/internal/storage"
)

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/kraxler/kraxler.db"
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// closeStorage closes the store, logging close failures instead of masking
// the command's own result with them.
func closeStorage(store service.Storage) {
	if err := store.Close(); err != nil {
		common.LogError(err, "failed to close invoice store", common.Fields{
			"database": viper.GetString("database.path"),
		})
	}
}

// loadTaxConfig loads the externally authored tax configuration file.
func loadTaxConfig() (*model.Config, error) {
	path := viper.GetString("tax_config.path")
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, ".config", "kraxler", "kraxler.yaml")
	}
	return config.Load(path)
}

// currentAccount resolves the account invoices are scoped to.
func currentAccount() (string, error) {
	account := viper.GetString("account")
	if account == "" {
		return "", fmt.Errorf("no account configured; set --account or the account key in config")
	}
	return account, nil
}
