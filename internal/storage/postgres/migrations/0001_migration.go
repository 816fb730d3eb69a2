package migrations

import (
	"context"

	"github.com/dipdup-io/near-abi/internal/storage"
	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
)

// fills package name and version of rows imported before they were extracted from ABI metadata
func init() {
	DbMigrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		var rows []storage.ContractABI
		if err := db.NewSelect().
			Model(&rows).
			Where("name = '' OR name IS NULL").
			Scan(ctx); err != nil {
			return err
		}

		var updated int
		for i := range rows {
			if rows[i].ABI.Metadata == nil || rows[i].ABI.Metadata.Name == "" {
				continue
			}
			rows[i].Name = rows[i].ABI.Metadata.Name
			rows[i].Version = rows[i].ABI.Metadata.Version
			if _, err := db.NewUpdate().
				Model(&rows[i]).
				Column("name", "version").
				WherePK().
				Exec(ctx); err != nil {
				log.Err(err).Str("contract", rows[i].Contract).Msg("error updating contract abi")
				continue
			}
			updated++
		}
		log.Info().
			Int("updated contract abi amount", updated).
			Msg("migration applied")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		return nil
	})
}
