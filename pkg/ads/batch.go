package ads

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Static errors for err113 compliance.
var (
	ErrEmptyBatch         = errors.New("batch has no items")
	ErrBatchTooLarge      = errors.New("batch exceeds the maximum size")
	ErrMixedBatchAccounts = errors.New("batch items belong to different accounts")
)

// MaxBatchSize is the largest batch the API accepts.
const MaxBatchSize = 40

// BatchOperation is the operation_type of one batch entry.
type BatchOperation string

// Batch operations.
const (
	BatchCreate BatchOperation = "Create"
	BatchUpdate BatchOperation = "Update"
	BatchDelete BatchOperation = "Delete"
)

const batchScope = "/" + APIVersion + "/batch/accounts/%{account_id}"

// Batchable is a resource that can be saved through the batch endpoint.
type Batchable interface {
	resource
	batchPath() string
}

func (c *Campaign) batchPath() string { return batchScope + "/campaigns" }

func (l *LineItem) batchPath() string { return batchScope + "/line_items" }

// MarkForDeletion flags the resource so the next batch save deletes it.
func (e *entity) MarkForDeletion() {
	e.toDelete = true
}

type batchEntry struct {
	OperationType BatchOperation `json:"operation_type"`
	Params        map[string]any `json:"params"`
}

func batchEntryFor(e *entity) batchEntry {
	id := e.ID()

	switch {
	case id == "":
		return batchEntry{OperationType: BatchCreate, Params: e.SerializeWritable()}
	case e.toDelete:
		return batchEntry{OperationType: BatchDelete, Params: map[string]any{e.schema.name + "_id": id}}
	default:
		params := e.SerializeWritable()
		params[e.schema.name+"_id"] = id

		return batchEntry{OperationType: BatchUpdate, Params: params}
	}
}

// BatchSave creates, updates or deletes up to MaxBatchSize resources of one
// type in a single request. Resources without an id are created, resources
// marked for deletion are deleted and the rest are updated. Each resource is
// hydrated from its entry in the response.
func BatchSave[T Batchable](ctx context.Context, items ...T) error {
	if len(items) == 0 {
		return ErrEmptyBatch
	}

	if len(items) > MaxBatchSize {
		return fmt.Errorf("%w: %d > %d", ErrBatchTooLarge, len(items), MaxBatchSize)
	}

	first := items[0].base()

	pathParams, err := first.accountParams()
	if err != nil {
		return err
	}

	entries := make([]batchEntry, len(items))

	for i, item := range items {
		e := item.base()
		if e.account != first.account {
			return ErrMixedBatchAccounts
		}

		entries[i] = batchEntryFor(e)
	}

	body, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encoding batch: %w", err)
	}

	req := NewRequest(http.MethodPost, items[0].batchPath(),
		WithPathParams(pathParams),
		WithBody(body),
		WithHeaders(map[string]string{"Content-Type": "application/json"}))

	resp, err := req.Perform(ctx, first.account.client)
	if err != nil {
		return err
	}

	data, err := resp.Data()
	if err != nil {
		return fmt.Errorf("reading batch response: %w", err)
	}

	results, _ := data.([]any)

	for i, item := range items {
		if i >= len(results) {
			break
		}

		if obj, ok := results[i].(map[string]any); ok {
			e := item.base()
			e.Hydrate(obj)
			e.toDelete = false
		}
	}

	return nil
}
