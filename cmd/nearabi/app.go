package main

import (
	"context"
	"strings"
	"time"

	ipfs "github.com/dipdup-io/ipfs-tools"
	"github.com/dipdup-io/near-abi/internal/caller"
	"github.com/dipdup-io/near-abi/internal/loader"
	"github.com/dipdup-io/near-abi/internal/storage/postgres"
	"github.com/dipdup-io/near-abi/pkg/abi"
	"github.com/dipdup-io/near-abi/pkg/codec"
	"github.com/dipdup-io/near-abi/pkg/contract"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// errors
var (
	ErrUnknownDatasource = errors.New("unknown datasource")
	ErrABINotImported    = errors.New("ABI is not imported")
)

// app - lazily created dependencies of one command run
type app struct {
	cfg      Config
	ipfsNode *ipfs.Node
	loader   *loader.Loader
	caller   *caller.CachedCaller
	pg       *postgres.Storage
}

func newApp(cfg Config) *app {
	return &app{cfg: cfg}
}

func (a *app) Loader(ctx context.Context, uri string) (*loader.Loader, error) {
	if a.loader != nil {
		return a.loader, nil
	}

	opts := []loader.Option{
		loader.WithTimeout(a.cfg.ABI.HTTPTimeout),
	}
	if strings.HasPrefix(uri, "ipfs://") && a.cfg.ABI.IPFS.Dir != "" {
		node, err := ipfs.NewNode(ctx, a.cfg.ABI.IPFS.Dir, 1024*1024, a.cfg.ABI.IPFS.Blacklist, a.cfg.ABI.IPFS.Providers)
		if err != nil {
			return nil, errors.Wrap(err, "ipfs.NewNode")
		}
		if err := node.Start(ctx); err != nil {
			return nil, errors.Wrap(err, "ipfs.Start")
		}
		a.ipfsNode = node
		opts = append(opts, loader.WithIpfs(node))
	}

	a.loader = loader.New(opts...)
	return a.loader, nil
}

func (a *app) Caller() (*caller.CachedCaller, error) {
	if a.caller != nil {
		return a.caller, nil
	}

	name := a.cfg.nodeName()
	ds, ok := a.cfg.DataSources[name]
	if !ok {
		return nil, errors.Wrap(ErrUnknownDatasource, name)
	}

	a.caller = caller.NewCachedCaller(
		caller.NewNodeRpcCaller(ds),
		a.cfg.ABI.CacheSize,
		time.Second*time.Duration(a.cfg.ABI.CacheTTL),
	)
	return a.caller, nil
}

func (a *app) Storage(ctx context.Context) (*postgres.Storage, error) {
	if a.pg != nil {
		return a.pg, nil
	}
	pg, err := postgres.Create(ctx, a.cfg.Database)
	if err != nil {
		return nil, errors.Wrap(err, "database creation")
	}
	a.pg = &pg
	return a.pg, nil
}

// ResolveABI - reads ABI from uri if it is set and from the registry otherwise
func (a *app) ResolveABI(ctx context.Context, contractID, uri string) (abi.ABI, error) {
	if uri != "" {
		l, err := a.Loader(ctx, uri)
		if err != nil {
			return abi.ABI{}, err
		}
		return l.Load(ctx, uri)
	}

	pg, err := a.Storage(ctx)
	if err != nil {
		return abi.ABI{}, err
	}
	model, err := pg.ContractABI.ByContract(ctx, contractID)
	if err != nil {
		if pg.ContractABI.IsNoRows(err) {
			return abi.ABI{}, errors.Wrap(ErrABINotImported, contractID)
		}
		return abi.ABI{}, err
	}
	return model.ABI, nil
}

// Bind - creates contract binding over the node transport
func (a *app) Bind(ctx context.Context, contractID, uri string) (*contract.Contract, error) {
	doc, err := a.ResolveABI(ctx, contractID, uri)
	if err != nil {
		return nil, err
	}
	transport, err := a.Caller()
	if err != nil {
		return nil, err
	}

	var codecOpts []codec.Option
	if a.cfg.ABI.Strict {
		codecOpts = append(codecOpts, codec.WithStrictPresence())
	}
	return contract.New(transport, contractID, doc,
		contract.WithLogger(log.Logger),
		contract.WithCodecOptions(codecOpts...),
	)
}

func (a *app) Close() {
	if a.caller != nil {
		if err := a.caller.Close(); err != nil {
			log.Err(err).Msg("closing caller")
		}
	}
	if a.pg != nil {
		if err := a.pg.Close(); err != nil {
			log.Err(err).Msg("closing database connection")
		}
	}
	if a.ipfsNode != nil {
		if err := a.ipfsNode.Close(); err != nil {
			log.Err(err).Msg("ipfsNode.Close()")
		}
	}
}
