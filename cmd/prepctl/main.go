// Command prepctl runs administrative tasks against the document store.
package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"mockprep/platform/internal/config"
	"mockprep/platform/internal/store"
	"mockprep/platform/internal/store/backend"
	"mockprep/platform/internal/utils"
)

func connectFromEnv(ctx context.Context) (store.Store, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	return backend.Connect(ctx, cfg, utils.GetLogger())
}

func main() {
	utils.InitLogger(os.Getenv("PREPCTL_DEBUG") != "")
	defer utils.GetLogger().Sync()

	if err := newRootCmd(connectFromEnv, utils.GetLogger()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		utils.GetLogger().Debug("command failed", zap.Error(err))
		os.Exit(1)
	}
}
