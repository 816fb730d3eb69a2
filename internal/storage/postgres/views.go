package postgres

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
)

const viewContractFunction = "contract_function"

// CreateViews - creates views over stored ABI documents and returns their names
func CreateViews(ctx context.Context, s Storage) ([]string, error) {
	log.Info().Msg("creating views...")
	err := s.Connection().DB().RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.ExecContext(ctx, `CREATE OR REPLACE VIEW `+viewContractFunction+` AS
			SELECT
				contract_abi.contract,
				fn->>'name' AS name,
				COALESCE((fn->>'is_view')::boolean, false) AS is_view,
				COALESCE((fn->>'is_init')::boolean, false) AS is_init,
				COALESCE((fn->>'is_payable')::boolean, false) AS is_payable,
				jsonb_array_length(COALESCE(fn->'params', '[]'::jsonb)) AS params_count
			FROM contract_abi, jsonb_array_elements(contract_abi.abi->'abi'->'functions') AS fn`)
		return err
	})
	if err != nil {
		return nil, err
	}
	return []string{viewContractFunction}, nil
}
