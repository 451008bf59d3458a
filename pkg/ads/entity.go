package ads

import (
	"context"
	"fmt"
	"net/http"
)

// endpoints holds the URL templates of an account-scoped resource.
type endpoints struct {
	collection string
	resource   string
}

// resource is implemented by every account-scoped resource type.
type resource interface {
	base() *entity
}

// entity is the shared state of an account-scoped resource.
type entity struct {
	Object

	account  *Account
	paths    endpoints
	toDelete bool
}

func newEntity(schema *Schema, account *Account, paths endpoints) entity {
	return entity{
		Object:  NewObject(schema),
		account: account,
		paths:   paths,
	}
}

func (e *entity) base() *entity {
	return e
}

// Account returns the owning account.
func (e *entity) Account() *Account {
	return e.account
}

func (e *entity) accountParams() (map[string]string, error) {
	if e.account == nil {
		return nil, fmt.Errorf("%w: %s has no account", ErrNotLoaded, e.schema.name)
	}

	accountID, err := e.account.RequireID()
	if err != nil {
		return nil, err
	}

	return map[string]string{"account_id": accountID}, nil
}

func (e *entity) resourceParams() (map[string]string, error) {
	params, err := e.accountParams()
	if err != nil {
		return nil, err
	}

	id, err := e.RequireID()
	if err != nil {
		return nil, err
	}

	params["id"] = id

	return params, nil
}

// hydrateFrom replaces the object state with the data member of resp.
func (e *entity) hydrateFrom(resp *Response) error {
	data, err := resp.DataObject()
	if err != nil {
		return fmt.Errorf("reading %s: %w", e.schema.name, err)
	}

	e.Hydrate(data)

	return nil
}

// Reload refreshes every property from the API.
func (e *entity) Reload(ctx context.Context, params Params) error {
	pathParams, err := e.resourceParams()
	if err != nil {
		return err
	}

	req := NewRequest(http.MethodGet, e.paths.resource,
		WithPathParams(pathParams), WithParams(params))

	resp, err := req.Perform(ctx, e.account.client)
	if err != nil {
		return err
	}

	return e.hydrateFrom(resp)
}

// save creates the resource when it has no id and updates it otherwise.
func (e *entity) save(ctx context.Context) error {
	pathParams, err := e.accountParams()
	if err != nil {
		return err
	}

	method, path := http.MethodPost, e.paths.collection

	if id := e.ID(); id != "" {
		method, path = http.MethodPut, e.paths.resource
		pathParams["id"] = id
	}

	req := NewRequest(method, path,
		WithPathParams(pathParams), WithParams(e.SerializeWritable()))

	resp, err := req.Perform(ctx, e.account.client)
	if err != nil {
		return err
	}

	return e.hydrateFrom(resp)
}

// delete removes the resource and hydrates the returned tombstone.
func (e *entity) delete(ctx context.Context) error {
	pathParams, err := e.resourceParams()
	if err != nil {
		return err
	}

	req := NewRequest(http.MethodDelete, e.paths.resource, WithPathParams(pathParams))

	resp, err := req.Perform(ctx, e.account.client)
	if err != nil {
		return err
	}

	return e.hydrateFrom(resp)
}

// loadResource fetches one resource by id.
func loadResource[T resource](ctx context.Context, account *Account, build func(*Account) T, id string, params Params) (T, error) {
	res := build(account)
	e := res.base()

	if id == "" {
		var zero T

		return zero, fmt.Errorf("%w: %s id is empty", ErrNotLoaded, e.schema.name)
	}

	e.set("id", id)

	if err := e.Reload(ctx, params); err != nil {
		var zero T

		return zero, err
	}

	return res, nil
}

// listResources returns a cursor over a resource collection.
func listResources[T resource](ctx context.Context, account *Account, build func(*Account) T, params Params) *Cursor[T] {
	e := build(account).base()

	pathParams, err := e.accountParams()
	if err != nil {
		return failedCursor[T](err)
	}

	req := NewRequest(http.MethodGet, e.paths.collection,
		WithPathParams(pathParams), WithParams(params))

	return NewCursor(ctx, account.client, req, func(item map[string]any) (T, error) {
		res := build(account)
		res.base().Hydrate(item)

		return res, nil
	})
}

// failedCursor returns a cursor whose every advance reports err without
// sending a request, including after Reset.
func failedCursor[T any](err error) *Cursor[T] {
	return &Cursor[T]{initErr: err, req: &Request{}}
}
