package loader

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	ipfs "github.com/dipdup-io/ipfs-tools"
	"github.com/dipdup-io/near-abi/pkg/abi"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// 20 MB limit for ABI documents
const maxDocumentSize = 20971520

// errors
var (
	ErrInvalidUri = errors.New("invalid URI")
	ErrNoIpfs     = errors.New("ipfs node is not configured")
	ErrTooBig     = errors.New("ABI document too big")
)

// Loader - receives ABI documents from local files, http(s) and ipfs
type Loader struct {
	ipfsNode   *ipfs.Node
	httpClient *http.Client
	timeout    time.Duration
}

// Option -
type Option func(*Loader)

// WithIpfs -
func WithIpfs(node *ipfs.Node) Option {
	return func(l *Loader) {
		l.ipfsNode = node
	}
}

// WithTimeout - timeout of one remote request in seconds
func WithTimeout(seconds uint64) Option {
	return func(l *Loader) {
		if seconds > 0 {
			l.timeout = time.Second * time.Duration(seconds)
		}
	}
}

// WithHttpClient -
func WithHttpClient(client *http.Client) Option {
	return func(l *Loader) {
		if client != nil {
			l.httpClient = client
		}
	}
}

// New -
func New(opts ...Option) *Loader {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 100
	t.MaxConnsPerHost = 100
	t.MaxIdleConnsPerHost = 100

	l := &Loader{
		httpClient: &http.Client{
			Transport: t,
		},
		timeout: time.Second * 30,
	}
	for i := range opts {
		opts[i](l)
	}
	return l
}

// Load - receives ABI document by URI and parses it
func (l *Loader) Load(ctx context.Context, uri string) (abi.ABI, error) {
	data, err := l.Raw(ctx, uri)
	if err != nil {
		return abi.ABI{}, err
	}
	doc, err := abi.Parse(data)
	if err != nil {
		return abi.ABI{}, errors.Wrap(err, uri)
	}
	log.Debug().Str("uri", uri).Int("functions", len(doc.Body.Functions)).Msg("ABI loaded")
	return doc, nil
}

// Raw - receives ABI document bytes by URI
func (l *Loader) Raw(ctx context.Context, uri string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	switch {
	case strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://"):
		return l.httpRequest(timeoutCtx, uri)
	case strings.HasPrefix(uri, "ipfs://"):
		return l.ipfsRequest(timeoutCtx, uri)
	case strings.HasPrefix(uri, "file://"):
		return readFile(strings.TrimPrefix(uri, "file://"))
	case strings.Contains(uri, "://"):
		return nil, errors.Wrap(ErrInvalidUri, uri)
	default:
		return readFile(uri)
	}
}

func readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return readLimited(f)
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxDocumentSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxDocumentSize {
		return nil, ErrTooBig
	}
	return data, nil
}

func (l *Loader) httpRequest(ctx context.Context, link string) ([]byte, error) {
	parsed, err := url.ParseRequestURI(link)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidUri, link)
	}
	if err := ValidateURL(parsed); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, err
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("invalid status code: %d", resp.StatusCode)
	}
	return readLimited(resp.Body)
}

func (l *Loader) ipfsRequest(ctx context.Context, uri string) ([]byte, error) {
	if l.ipfsNode == nil {
		return nil, ErrNoIpfs
	}
	data, err := l.ipfsNode.Get(ctx, strings.TrimPrefix(uri, "ipfs://"))
	if err != nil {
		return nil, err
	}
	if len(data.Raw) > maxDocumentSize {
		return nil, ErrTooBig
	}
	return data.Raw, nil
}

// ValidateURL - rejects loopback and private network hosts
func ValidateURL(link *url.URL) error {
	host := link.Host
	if strings.Contains(host, ":") {
		newHost, _, err := net.SplitHostPort(link.Host)
		if err != nil {
			return err
		}
		host = newHost
	}
	if host == "localhost" || host == "127.0.0.1" {
		return errors.Wrap(ErrInvalidUri, fmt.Sprintf("invalid host: %s", host))
	}

	for _, mask := range []string{
		"10.0.0.0/8",
		"100.64.0.0/10",
		"169.254.0.0/16",
		"172.16.0.0/12",
		"192.0.0.0/24",
		"192.0.2.0/24",
		"192.168.0.0/16",
		"198.18.0.0/15",
		"198.51.100.0/24",
		"203.0.113.0/24",
		"240.0.0.0/4",
	} {
		_, cidr, err := net.ParseCIDR(mask)
		if err != nil {
			return err
		}

		ip := net.ParseIP(host)
		if ip != nil && cidr.Contains(ip) {
			return errors.Wrap(ErrInvalidUri, fmt.Sprintf("restricted subnet: %s", mask))
		}
	}
	return nil
}
