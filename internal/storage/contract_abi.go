package storage

import (
	"context"
	"time"

	"github.com/dipdup-io/near-abi/pkg/abi"
	"github.com/dipdup-net/indexer-sdk/pkg/storage"
	"github.com/uptrace/bun"
)

// IContractABI -
type IContractABI interface {
	storage.Table[*ContractABI]

	ByContract(ctx context.Context, contract string) (ContractABI, error)
}

// ContractABI -
type ContractABI struct {
	bun.BaseModel `bun:"table:contract_abi" comment:"Table contains ABI documents of contracts"`

	ID            uint64  `bun:"id,pk,notnull,autoincrement" comment:"Unique internal identity"`
	CreatedAt     int64   `comment:"Time when row was created"`
	UpdatedAt     int64   `comment:"Time when row was last updated"`
	Contract      string  `bun:",unique:contract_abi_contract,notnull" comment:"Contract account id"`
	Name          string  `comment:"Package name from ABI metadata"`
	Version       string  `comment:"Package version from ABI metadata"`
	SchemaVersion string  `comment:"ABI schema version"`
	Source        string  `comment:"URI the document was imported from"`
	ABI           abi.ABI `bun:"abi,type:jsonb" comment:"ABI document"`
}

// TableName -
func (ContractABI) TableName() string {
	return "contract_abi"
}

// BeforeAppendModel -
func (c *ContractABI) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.InsertQuery:
		c.UpdatedAt = time.Now().Unix()
		c.CreatedAt = c.UpdatedAt
	case *bun.UpdateQuery:
		c.UpdatedAt = time.Now().Unix()
	}
	return nil
}

// NewContractABI - builds storage model from validated document
func NewContractABI(contract, source string, doc abi.ABI) (*ContractABI, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	model := &ContractABI{
		Contract:      contract,
		SchemaVersion: doc.SchemaVersion,
		Source:        source,
		ABI:           doc,
	}
	if doc.Metadata != nil {
		model.Name = doc.Metadata.Name
		model.Version = doc.Metadata.Version
	}
	return model, nil
}
