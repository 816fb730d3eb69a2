package postgres

import (
	"context"
	"database/sql"

	models "github.com/dipdup-io/near-abi/internal/storage"
	"github.com/dipdup-io/near-abi/internal/storage/postgres/migrations"
	"github.com/dipdup-net/go-lib/config"
	"github.com/dipdup-net/go-lib/database"
	"github.com/dipdup-net/indexer-sdk/pkg/storage/postgres"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

// Storage -
type Storage struct {
	*postgres.Storage

	ContractABI models.IContractABI
}

// Create -
func Create(ctx context.Context, cfg config.Database) (Storage, error) {
	strg, err := postgres.Create(ctx, cfg, initDatabase)
	if err != nil {
		return Storage{}, err
	}

	s := Storage{
		Storage:     strg,
		ContractABI: NewContractABI(strg.Connection()),
	}

	return s, nil
}

func initDatabase(ctx context.Context, conn *database.Bun) error {
	for _, data := range models.Models {
		if _, err := conn.DB().NewCreateTable().IfNotExists().Model(data).Exec(ctx); err != nil {
			if err := conn.Close(); err != nil {
				return err
			}
			return err
		}
	}

	data := make([]any, len(models.Models))
	for i := range models.Models {
		data[i] = models.Models[i]
	}
	if err := database.MakeComments(ctx, conn, data...); err != nil {
		return errors.Wrap(err, "make comments")
	}

	if err := applyMigrations(ctx, conn); err != nil {
		return err
	}

	return createIndices(ctx, conn)
}

func createIndices(ctx context.Context, conn *database.Bun) error {
	log.Info().Msg("creating indexes...")
	return conn.DB().RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewCreateIndex().
			IfNotExists().
			Model((*models.ContractABI)(nil)).
			Index("contract_abi_updated_at_idx").
			Column("updated_at").
			Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewCreateIndex().
			IfNotExists().
			Model((*models.ContractABI)(nil)).
			Index("contract_abi_name_idx").
			Column("name").
			Exec(ctx); err != nil {
			return err
		}
		return nil
	})
}

func applyMigrations(ctx context.Context, conn *database.Bun) error {
	migrator := migrate.NewMigrator(conn.DB(), migrations.DbMigrations)
	if err := migrator.Init(ctx); err != nil {
		return err
	}
	_, err := migrator.Migrate(ctx)
	return err
}
