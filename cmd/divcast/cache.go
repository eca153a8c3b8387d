package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ternarybob/divcast/internal/storage"
	"github.com/ternarybob/divcast/internal/services/research"
)

func runCache(args []string) int {
	if len(args) != 1 || args[0] != "clear" {
		fmt.Fprintln(os.Stderr, "Usage: divcast cache clear")
		return 2
	}

	// Clearing needs only storage, not an API key.
	storageManager, err := storage.NewStorageManager(logger, config)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to open storage")
		return 1
	}
	defer storageManager.Close()

	cache := research.NewCache(storageManager.KeyValueStorage(), logger, config.Cache.MemoryTTLDuration())
	deleted, err := cache.Clear(context.Background())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to clear cache")
		return 1
	}

	fmt.Printf("Cleared %d cached entries\n", deleted)
	return 0
}
