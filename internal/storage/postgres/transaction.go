package postgres

import (
	"context"

	models "github.com/dipdup-io/near-abi/internal/storage"
	"github.com/dipdup-net/indexer-sdk/pkg/storage"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// Transaction -
type Transaction struct {
	storage.Transaction
}

// BeginTransaction -
func BeginTransaction(ctx context.Context, tx storage.Transactable) (Transaction, error) {
	t, err := tx.BeginTransaction(ctx)
	return Transaction{t}, err
}

// SaveContractABI -
func (t Transaction) SaveContractABI(ctx context.Context, model *models.ContractABI) error {
	return upsertContractABI(ctx, t.Tx().NewInsert(), model)
}

// SaveContractABI - inserts ABI of the contract or replaces the stored one in its own transaction
func (s Storage) SaveContractABI(ctx context.Context, model *models.ContractABI) error {
	tx, err := BeginTransaction(ctx, s.Transactable)
	if err != nil {
		return err
	}
	defer tx.Close(ctx)

	if err := tx.SaveContractABI(ctx, model); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return errors.Wrap(rbErr, err.Error())
		}
		return err
	}
	return tx.Flush(ctx)
}

func upsertContractABI(ctx context.Context, query *bun.InsertQuery, model *models.ContractABI) error {
	_, err := query.
		Model(model).
		On("CONFLICT (contract) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("version = EXCLUDED.version").
		Set("schema_version = EXCLUDED.schema_version").
		Set("source = EXCLUDED.source").
		Set("abi = EXCLUDED.abi").
		Set("updated_at = EXCLUDED.updated_at").
		Returning("id").
		Exec(ctx)
	return err
}
