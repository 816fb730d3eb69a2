package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dipdup-io/near-abi/internal/batch"
	"github.com/dipdup-io/near-abi/internal/storage"
	"github.com/dipdup-io/near-abi/internal/storage/postgres"
	"github.com/dipdup-io/near-abi/pkg/abi"
	"github.com/dipdup-io/near-abi/pkg/codec"
	"github.com/dipdup-io/near-abi/pkg/contract"
	"github.com/dipdup-net/go-lib/hasura"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newMethodsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "methods",
		Short: "List functions declared by ABI document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp(Config{})
			defer a.Close()

			l, err := a.Loader(cmd.Context(), abiURI)
			if err != nil {
				return err
			}
			doc, err := l.Load(cmd.Context(), abiURI)
			if err != nil {
				return err
			}
			return printMethods(cmd.OutOrStdout(), doc)
		},
	}
	cmd.Flags().StringVar(&abiURI, "abi", "", "ABI document URI: path, file://, http(s):// or ipfs://")
	_ = cmd.MarkFlagRequired("abi")
	return cmd
}

func printMethods(w io.Writer, doc abi.ABI) error {
	for _, fn := range doc.Body.Functions {
		kind := "call"
		switch {
		case fn.IsView:
			kind = "view"
		case fn.IsInit:
			kind = "init"
		}
		if fn.IsPayable {
			kind += ",payable"
		}
		if _, err := fmt.Fprintf(w, "%s\t%s(%s)\n", kind, fn.Name, strings.Join(fn.ParamNames(), ", ")); err != nil {
			return err
		}
	}
	return nil
}

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view <contract> <method> [args...]",
		Short: "Run view function of the contract",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			a := newApp(cfg)
			defer a.Close()

			binding, err := a.Bind(cmd.Context(), args[0], abiURI)
			if err != nil {
				return err
			}
			call, err := binding.Call(args[1], parseCLIArgs(args[2:])...)
			if err != nil {
				return err
			}
			value, err := contract.View(cmd.Context(), call)
			if err != nil {
				return err
			}
			return printValue(cmd.OutOrStdout(), value)
		},
	}
	cmd.Flags().StringVar(&abiURI, "abi", "", "ABI document URI. Registry is used if it's omitted")
	return cmd
}

func newCallCmd() *cobra.Command {
	var signerID, gas, deposit string

	cmd := &cobra.Command{
		Use:   "call <contract> <method> [args...]",
		Short: "Submit change function call signed by signer",
		Long: `Submit change function call signed by signer.

Signing needs a transaction signer supplied by the program embedding the node caller
(caller.WithSigner). This binary ships without key management, so the command fails
with "transaction signer is not set" unless it is built with a signer.`,
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			a := newApp(cfg)
			defer a.Close()

			binding, err := a.Bind(cmd.Context(), args[0], abiURI)
			if err != nil {
				return err
			}
			call, err := binding.Call(args[1], parseCLIArgs(args[2:])...)
			if err != nil {
				return err
			}
			opts := contract.CallOptions{}
			if gas != "" {
				opts.Gas = gas
			}
			if deposit != "" {
				opts.AttachedDeposit = deposit
			}
			outcome, err := contract.Submit(cmd.Context(), call, signerID, &opts)
			if err != nil {
				return err
			}
			return printValue(cmd.OutOrStdout(), outcome)
		},
	}
	cmd.Flags().StringVar(&abiURI, "abi", "", "ABI document URI. Registry is used if it's omitted")
	cmd.Flags().StringVar(&signerID, "signer", "", "signer account id")
	cmd.Flags().StringVar(&gas, "gas", "", "gas attached to the call")
	cmd.Flags().StringVar(&deposit, "deposit", "", "deposit attached to the call in yoctoNEAR")
	_ = cmd.MarkFlagRequired("signer")
	return cmd
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <contract> <uri>",
		Short: "Load ABI document and save it to the registry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			a := newApp(cfg)
			defer a.Close()

			doc, err := a.ResolveABI(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			model, err := storage.NewContractABI(args[0], args[1], doc)
			if err != nil {
				return err
			}
			pg, err := a.Storage(cmd.Context())
			if err != nil {
				return err
			}
			if err := pg.SaveContractABI(cmd.Context(), model); err != nil {
				return errors.Wrap(err, "saving contract abi")
			}

			log.Info().
				Str("contract", model.Contract).
				Uint64("id", model.ID).
				Int("functions", len(doc.Body.Functions)).
				Msg("ABI imported")
			return nil
		},
	}
}

type batchOutput struct {
	Contract string `json:"contract"`
	Method   string `json:"method"`
	Value    any    `json:"value,omitempty"`
	Error    string `json:"error,omitempty"`
}

func newBatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "batch <file>",
		Short: "Run views listed in YAML or JSON file concurrently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			a := newApp(cfg)
			defer a.Close()

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			tasks, err := batch.ReadTasks(f)
			if err != nil {
				return err
			}

			runner := batch.NewRunner(func(ctx context.Context, contractID string) (*contract.Contract, error) {
				return a.Bind(ctx, contractID, "")
			}, cfg.Batch.WorkersCount)

			results := runner.Run(cmd.Context(), tasks)

			encoder := json.NewEncoder(cmd.OutOrStdout())
			for i := range results {
				output := batchOutput{
					Contract: results[i].Task.Contract,
					Method:   results[i].Task.Method,
				}
				if results[i].Err != nil {
					output.Error = results[i].Err.Error()
				} else if !codec.IsNoValue(results[i].Value) {
					output.Value = results[i].Value
				}
				if err := encoder.Encode(output); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create registry database schema and hasura metadata",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			a := newApp(cfg)
			defer a.Close()

			pg, err := a.Storage(cmd.Context())
			if err != nil {
				return err
			}

			views, err := postgres.CreateViews(cmd.Context(), *pg)
			if err != nil {
				return errors.Wrap(err, "create views")
			}

			if cfg.Hasura != nil {
				if err := hasura.Create(cmd.Context(), hasura.GenerateArgs{
					Config:         cfg.Hasura,
					DatabaseConfig: cfg.Database,
					Views:          views,
					Models:         []any{new(storage.ContractABI)},
				}); err != nil {
					return errors.Wrap(err, "hasura.Create")
				}
			}
			log.Info().Strs("views", views).Msg("registry initialized")
			return nil
		},
	}
}

// parseCLIArgs - every argument is decoded as JSON, anything else is passed as a plain string
func parseCLIArgs(args []string) []any {
	values := make([]any, len(args))
	for i := range args {
		value, err := codec.ParseArgs([]byte(args[i]))
		if err != nil {
			values[i] = args[i]
			continue
		}
		values[i] = value
	}
	return values
}

func printValue(w io.Writer, value any) error {
	if codec.IsNoValue(value) {
		return nil
	}
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
