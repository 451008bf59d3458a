package ads

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrInvalidAudienceOperation is returned for unknown change operations.
var ErrInvalidAudienceOperation = errors.New("invalid tailored audience operation")

// TailoredAudienceSchema declares the tailored audience properties.
var TailoredAudienceSchema = RegisterSchema(NewSchema("tailored_audience",
	Plain("id").Immutable(),
	Time("created_at").Immutable(),
	Time("updated_at").Immutable(),
	Bool("deleted").Immutable(),
	Plain("name"),
	Plain("list_type"),
	Plain("audience_size").Immutable(),
	Plain("audience_type").Immutable(),
	Plain("metadata").Immutable(),
	Plain("partner_source").Immutable(),
	Plain("reasons_not_targetable").Immutable(),
	Bool("targetable").Immutable(),
	Plain("targetable_types").Immutable(),
))

var tailoredAudiencePaths = endpoints{
	collection: accountScope + "/tailored_audiences",
	resource:   accountScope + "/tailored_audiences/%{id}",
}

const (
	tailoredAudienceChangesPath = accountScope + "/tailored_audience_changes"
	tailoredAudienceOptOutPath  = accountScope + "/tailored_audiences/global_opt_out"
)

// TailoredAudience is an uploaded list of users to target.
type TailoredAudience struct {
	entity
}

// NewTailoredAudience returns an empty audience owned by account.
func NewTailoredAudience(account *Account) *TailoredAudience {
	return &TailoredAudience{entity: newEntity(TailoredAudienceSchema, account, tailoredAudiencePaths)}
}

// Name returns the audience name.
func (t *TailoredAudience) Name() string { return t.String("name") }

// ListType returns the audience list type.
func (t *TailoredAudience) ListType() string { return t.String("list_type") }

// Targetable reports whether the audience can be targeted.
func (t *TailoredAudience) Targetable() bool { return t.Bool("targetable") }

// CreateTailoredAudience creates an audience and seeds it with the list at
// inputFilePath, a location returned by a prior upload. When seeding fails
// with a 4xx error the new audience is deleted and the error returned.
func CreateTailoredAudience(ctx context.Context, account *Account, inputFilePath, name, listType string) (*TailoredAudience, error) {
	audience := NewTailoredAudience(account)

	pathParams, err := audience.accountParams()
	if err != nil {
		return nil, err
	}

	req := NewRequest(http.MethodPost, audience.paths.collection,
		WithPathParams(pathParams),
		WithParams(Params{"name": name, "list_type": listType}))

	resp, err := req.Perform(ctx, account.client)
	if err != nil {
		return nil, err
	}

	if err := audience.hydrateFrom(resp); err != nil {
		return nil, err
	}

	err = audience.change(ctx, inputFilePath, listType, TAOperationAdd)
	if err == nil {
		err = audience.Reload(ctx, nil)
	}

	if err != nil {
		if isRequestError(err) {
			// The seeding error wins over a failed cleanup.
			_ = audience.Delete(ctx)
		}

		return nil, err
	}

	return audience, nil
}

// Update applies a change operation with the list at inputFilePath and
// reloads the audience.
func (t *TailoredAudience) Update(ctx context.Context, inputFilePath, listType, operation string) error {
	if err := t.change(ctx, inputFilePath, listType, operation); err != nil {
		return err
	}

	return t.Reload(ctx, nil)
}

// Delete deletes the audience.
func (t *TailoredAudience) Delete(ctx context.Context) error { return t.delete(ctx) }

// Status returns the change records of this audience.
func (t *TailoredAudience) Status(ctx context.Context) ([]map[string]any, error) {
	id, err := t.RequireID()
	if err != nil {
		return nil, err
	}

	pathParams, err := t.accountParams()
	if err != nil {
		return nil, err
	}

	req := NewRequest(http.MethodGet, tailoredAudienceChangesPath, WithPathParams(pathParams))

	var changes []map[string]any

	err = NewRawCursor(ctx, t.account.client, req).ForEach(func(change map[string]any) error {
		if stringify(change["tailored_audience_id"]) == id {
			changes = append(changes, change)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return changes, nil
}

func (t *TailoredAudience) change(ctx context.Context, inputFilePath, listType, operation string) error {
	if !validTAOperation(operation) {
		return fmt.Errorf("%w: %q", ErrInvalidAudienceOperation, operation)
	}

	id, err := t.RequireID()
	if err != nil {
		return err
	}

	pathParams, err := t.accountParams()
	if err != nil {
		return err
	}

	req := NewRequest(http.MethodPost, tailoredAudienceChangesPath,
		WithPathParams(pathParams),
		WithParams(Params{
			"tailored_audience_id": id,
			"input_file_path":      inputFilePath,
			"list_type":            listType,
			"operation":            operation,
		}))

	_, err = req.Perform(ctx, t.account.client)

	return err
}

// OptOut updates the account's global opt-out list with the list at
// inputFilePath.
func OptOut(ctx context.Context, account *Account, inputFilePath, listType string) error {
	accountID, err := account.RequireID()
	if err != nil {
		return err
	}

	req := NewRequest(http.MethodPut, tailoredAudienceOptOutPath,
		WithPathParams(map[string]string{"account_id": accountID}),
		WithParams(Params{"input_file_path": inputFilePath, "list_type": listType}))

	_, err = req.Perform(ctx, account.client)

	return err
}

// isRequestError reports 4xx classifications.
func isRequestError(err error) bool {
	apiErr := &Error{}
	if !errors.As(err, &apiErr) {
		return false
	}

	return apiErr.StatusCode >= 400 && apiErr.StatusCode < 500
}
