package postgres

import (
	"context"

	"github.com/dipdup-io/near-abi/internal/storage"
	"github.com/dipdup-net/go-lib/database"
	"github.com/dipdup-net/indexer-sdk/pkg/storage/postgres"
)

// ContractABI -
type ContractABI struct {
	*postgres.Table[*storage.ContractABI]
}

// NewContractABI -
func NewContractABI(db *database.Bun) *ContractABI {
	return &ContractABI{
		Table: postgres.NewTable[*storage.ContractABI](db),
	}
}

// ByContract -
func (c *ContractABI) ByContract(ctx context.Context, contract string) (model storage.ContractABI, err error) {
	err = c.DB().NewSelect().
		Model(&model).
		Where("contract = ?", contract).
		Limit(1).
		Scan(ctx)
	return
}
