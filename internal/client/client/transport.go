package client

import (
	"net/http"
	"sync"

	"github.com/dmitrijs2005/orderdesk/internal/common"
)

// bearerTransport injects "Authorization: Bearer <token>" from a
// TokenSource. A request that already carries the header is sent as is, so
// callers can present a token the session has not adopted yet.
type bearerTransport struct {
	base http.RoundTripper

	mu     sync.RWMutex
	tokens TokenSource
}

func (t *bearerTransport) setTokenSource(ts TokenSource) {
	t.mu.Lock()
	t.tokens = ts
	t.mu.Unlock()
}

func (t *bearerTransport) token() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.tokens == nil {
		return ""
	}
	return t.tokens.Token()
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get(common.AuthorizationHeaderName) == "" {
		if token := t.token(); token != "" {
			req = req.Clone(req.Context())
			req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
		}
	}
	return t.base.RoundTrip(req)
}
