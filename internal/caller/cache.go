package caller

import (
	"context"
	"fmt"
	"time"

	"github.com/dipdup-io/near-abi/pkg/contract"
	"github.com/karlseguin/ccache/v2"
)

// CachedCaller - memoizes view results of the underlying caller. Submit is never cached.
type CachedCaller struct {
	caller Caller
	cache  *ccache.Cache
	ttl    time.Duration
}

// NewCachedCaller -
func NewCachedCaller(caller Caller, size int64, ttl time.Duration) *CachedCaller {
	if size <= 0 {
		size = 1000
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &CachedCaller{
		caller: caller,
		cache:  ccache.New(ccache.Configure().MaxSize(size)),
		ttl:    ttl,
	}
}

// Query -
func (cc *CachedCaller) Query(ctx context.Context, req contract.QueryRequest) (contract.QueryResult, error) {
	cacheKey := fmt.Sprintf("%s:%s:%s:%s", req.ContractID, req.MethodName, req.ArgsBase64, req.Finality)
	item, err := cc.cache.Fetch(cacheKey, cc.ttl, func() (interface{}, error) {
		return cc.caller.Query(ctx, req)
	})
	if err != nil {
		return contract.QueryResult{}, err
	}
	return item.Value().(contract.QueryResult), nil
}

// Submit -
func (cc *CachedCaller) Submit(ctx context.Context, signerID string, call contract.FunctionCall) (any, error) {
	return cc.caller.Submit(ctx, signerID, call)
}

// Close -
func (cc *CachedCaller) Close() error {
	cc.cache.Stop()
	return nil
}
