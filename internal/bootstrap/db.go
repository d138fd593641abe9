package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/commhub/community-settings/config"
	"github.com/commhub/community-settings/internal/storage/postgres"
)

type DBOptions struct {
	Config    *config.DatabaseConfig
	ConnectTO time.Duration
	// Migrate applies the embedded schema after connecting.
	Migrate bool
}

func OpenDB(ctx context.Context, opt DBOptions) (*sql.DB, error) {
	if opt.Config == nil {
		return nil, fmt.Errorf("database config is not set")
	}
	if opt.ConnectTO == 0 {
		opt.ConnectTO = 5 * time.Second
	}

	cctx, cancel := context.WithTimeout(ctx, opt.ConnectTO)
	defer cancel()

	db, err := postgres.NewConnection(cctx, opt.Config)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}

	if opt.Migrate {
		if err := postgres.EnsureSchema(cctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("db migrate: %w", err)
		}
	}

	return db, nil
}
