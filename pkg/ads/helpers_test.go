package ads_test

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/ads-client/pkg/ads"
)

// recordedCall is one request seen by fakeDoer, with its expanded path.
type recordedCall struct {
	Method string
	Path   string
	Query  string
	Req    *ads.Request
}

// fakeDoer answers requests from a handler and classifies failures the same
// way the HTTP transport does.
type fakeDoer struct {
	mu      sync.Mutex
	calls   []recordedCall
	handler func(call recordedCall) (int, string)
}

func newFakeDoer(handler func(call recordedCall) (int, string)) *fakeDoer {
	return &fakeDoer{handler: handler}
}

func (f *fakeDoer) Do(_ context.Context, req *ads.Request) (*ads.Response, error) {
	err := req.Validate()
	if err != nil {
		return nil, err
	}

	path, err := req.URLPath()
	if err != nil {
		return nil, err
	}

	call := recordedCall{Method: req.Method, Path: path, Query: req.Query(), Req: req.Clone()}

	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()

	status, body := f.handler(call)

	resp := ads.NewResponse(status, http.Header{"Content-Type": {"application/json"}}, []byte(body))
	if status >= http.StatusBadRequest {
		return nil, ads.Classify(resp)
	}

	return resp, nil
}

func (f *fakeDoer) Calls() []recordedCall {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]recordedCall(nil), f.calls...)
}

// loadedAccount returns an account with an id bound to doer.
func loadedAccount(t *testing.T, doer ads.Doer, id string) *ads.Account {
	t.Helper()

	account := ads.NewAccount(doer)
	account.Hydrate(map[string]any{"id": id, "name": "Test Account"})
	require.Equal(t, id, account.ID())

	return account
}

func unexpected(call recordedCall) (int, string) {
	return http.StatusInternalServerError, `{"errors":[{"code":131,"message":"unexpected ` + call.Method + " " + call.Path + `"}]}`
}
