package source

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/matzehuels/spotlight/pkg/cache"
	"github.com/matzehuels/spotlight/pkg/errors"
)

const httpTimeout = 10 * time.Second

// Remote pages over items served by an HTTP endpoint. Page n is fetched
// with GET <url>?page=n&size=<size> and must decode as a [Page]:
//
//	{"items": [{"id": "a", "aspect_ratio": 1.5}], "next": 1, "previous": null}
//
// Transient failures (connection errors, 5xx responses) are retried with
// backoff. With a page cache, fetched pages are reused until they expire.
type Remote struct {
	url     *url.URL
	size    int
	http    *http.Client
	headers map[string]string
	cache   cache.Cache
	ttl     time.Duration
	refresh bool
}

// RemoteOption configures a Remote.
type RemoteOption func(*Remote)

// WithHTTPClient sets the client used for requests.
func WithHTTPClient(c *http.Client) RemoteOption {
	return func(r *Remote) {
		if c != nil {
			r.http = c
		}
	}
}

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) RemoteOption {
	return func(r *Remote) { r.headers[key] = value }
}

// WithPageCache stores fetched pages in c for ttl. When refresh is set,
// cached pages are ignored but still written.
func WithPageCache(c cache.Cache, ttl time.Duration, refresh bool) RemoteOption {
	return func(r *Remote) {
		r.cache, r.ttl, r.refresh = c, ttl, refresh
	}
}

// NewRemote returns a pager over the endpoint at rawURL. A non-positive size
// uses DefaultPageSize.
func NewRemote(rawURL string, size int, opts ...RemoteOption) (*Remote, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid source URL %q (want http or https)", rawURL)
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	r := &Remote{
		url:     u,
		size:    size,
		http:    &http.Client{Timeout: httpTimeout},
		headers: map[string]string{"Accept": "application/json"},
		cache:   cache.NewNullCache(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// IsRemote reports whether path names an HTTP endpoint rather than a file.
func IsRemote(path string) bool {
	u, err := url.Parse(path)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https")
}

// pageURL returns the request URL for page.
func (r *Remote) pageURL(page int) string {
	u := *r.url
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(r.size))
	u.RawQuery = q.Encode()
	return u.String()
}

// Page fetches page number page.
func (r *Remote) Page(ctx context.Context, page int) (Page, error) {
	if page < 0 {
		return Page{}, errors.New(errors.ErrCodeInvalidInput, "page must not be negative, received %d", page)
	}

	target := r.pageURL(page)
	key := "page:" + cache.Hash([]byte(target))

	var p Page
	if !r.refresh {
		if data, hit, err := r.cache.Get(ctx, key); err == nil && hit {
			if err := json.Unmarshal(data, &p); err == nil {
				return p, nil
			}
		}
	}

	err := cache.RetryWithBackoff(ctx, func() error {
		p = Page{}
		return r.fetch(ctx, target, &p)
	})
	if err != nil {
		return Page{}, err
	}

	if data, err := json.Marshal(p); err == nil {
		_ = r.cache.Set(ctx, key, data, r.ttl)
	}
	return p, nil
}

func (r *Remote) fetch(ctx context.Context, target string, p *Page) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}

	resp, err := r.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return cache.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", target))
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode, target); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(p); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode page from %s", target)
	}
	return nil
}

func checkStatus(code int, target string) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "%s: not found", target)
	case code == http.StatusTooManyRequests || code >= 500:
		return cache.Retryable(errors.New(errors.ErrCodeNetwork, "%s: status %d", target, code))
	default:
		return errors.New(errors.ErrCodeNetwork, "%s: status %d", target, code)
	}
}
