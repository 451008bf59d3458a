package ads

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
)

// ErrUnknownTargetingKind is returned for an unregistered catalog name.
var ErrUnknownTargetingKind = errors.New("unknown targeting kind")

// TargetingCriterionSchema declares the targeting criterion properties.
var TargetingCriterionSchema = RegisterSchema(NewSchema("targeting_criterion",
	Plain("id").Immutable(),
	Plain("name").Immutable(),
	Plain("localized_name").Immutable(),
	Time("created_at").Immutable(),
	Time("updated_at").Immutable(),
	Bool("deleted").Immutable(),
	Plain("line_item_id"),
	Plain("targeting_type"),
	Plain("targeting_value"),
	Plain("tailored_audience_expansion"),
	Plain("tailored_audience_type"),
	Plain("operator_type"),
))

var targetingCriterionPaths = endpoints{
	collection: accountScope + "/targeting_criteria",
	resource:   accountScope + "/targeting_criteria/%{id}",
}

// TargetingCriterion restricts the audience of a line item.
type TargetingCriterion struct {
	entity
}

// NewTargetingCriterion returns an unsaved criterion owned by account.
func NewTargetingCriterion(account *Account) *TargetingCriterion {
	return &TargetingCriterion{entity: newEntity(TargetingCriterionSchema, account, targetingCriterionPaths)}
}

// LineItemID returns the targeted line item.
func (t *TargetingCriterion) LineItemID() string { return t.String("line_item_id") }

// SetLineItemID sets the targeted line item.
func (t *TargetingCriterion) SetLineItemID(id string) { t.set("line_item_id", id) }

// TargetingType returns the criterion type, e.g. LOCATION or DEVICE.
func (t *TargetingCriterion) TargetingType() string { return t.String("targeting_type") }

// SetTargeting sets the criterion type and value.
func (t *TargetingCriterion) SetTargeting(targetingType, value string) {
	t.set("targeting_type", targetingType)
	t.set("targeting_value", value)
}

// Save creates or updates the criterion.
func (t *TargetingCriterion) Save(ctx context.Context) error { return t.save(ctx) }

// Delete deletes the criterion.
func (t *TargetingCriterion) Delete(ctx context.Context) error { return t.delete(ctx) }

// TargetingKind is a read-only catalog of targeting values.
type TargetingKind struct {
	Name   string
	Path   string
	Schema *Schema
}

const targetingScope = "/" + APIVersion + "/targeting_criteria"

// Targeting catalogs.
var (
	TargetingDevices = registerTargetingKind("devices", NewSchema("device",
		Plain("id").Immutable(),
		Plain("name").Immutable(),
		Plain("targeting_type").Immutable(),
		Plain("targeting_value").Immutable(),
		Plain("platform").Immutable(),
		Plain("manufacturer").Immutable(),
	))
	TargetingNetworkOperators = registerTargetingKind("network_operators", NewSchema("network_operator",
		Plain("name").Immutable(),
		Plain("targeting_type").Immutable(),
		Plain("targeting_value").Immutable(),
		Plain("country_code").Immutable(),
	))
	TargetingPlatformVersions = registerTargetingKind("platform_versions", NewSchema("platform_version",
		Plain("name").Immutable(),
		Plain("targeting_type").Immutable(),
		Plain("targeting_value").Immutable(),
		Plain("number").Immutable(),
		Plain("platform").Immutable(),
	))
	TargetingTVChannels = registerTargetingKind("tv_channels", NewSchema("tv_channel",
		Plain("id").Immutable(),
		Plain("name").Immutable(),
	))
	TargetingAppStoreCategories = registerTargetingKind("app_store_categories", NewSchema("app_store_category",
		Plain("name").Immutable(),
		Plain("os_type").Immutable(),
		Plain("targeting_type").Immutable(),
		Plain("targeting_value").Immutable(),
	))
	TargetingLocations = registerTargetingKind("locations", NewSchema("location",
		Plain("name").Immutable(),
		Plain("country_code").Immutable(),
		Plain("location_type").Immutable(),
		Plain("targeting_type").Immutable(),
		Plain("targeting_value").Immutable(),
	))
)

var targetingKinds = map[string]*TargetingKind{}

func registerTargetingKind(name string, schema *Schema) *TargetingKind {
	kind := &TargetingKind{
		Name:   name,
		Path:   targetingScope + "/" + name,
		Schema: RegisterSchema(schema),
	}
	targetingKinds[name] = kind

	return kind
}

// LookupTargetingKind returns a catalog by its path name, e.g. "devices".
func LookupTargetingKind(name string) (*TargetingKind, error) {
	kind, ok := targetingKinds[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTargetingKind, name)
	}

	return kind, nil
}

// TargetingKinds returns the catalog names in sorted order.
func TargetingKinds() []string {
	names := make([]string, 0, len(targetingKinds))
	for name := range targetingKinds {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// TargetingOption is one entry of a targeting catalog.
type TargetingOption struct {
	Object
}

// Name returns the option name.
func (t *TargetingOption) Name() string { return t.String("name") }

// TargetingValue returns the value to use in a targeting criterion.
func (t *TargetingOption) TargetingValue() string { return t.String("targeting_value") }

// TargetingOptions lists a targeting catalog.
func TargetingOptions(ctx context.Context, client Doer, kind *TargetingKind, params Params) *Cursor[*TargetingOption] {
	req := NewRequest(http.MethodGet, kind.Path, WithParams(params))

	return NewCursor(ctx, client, req, func(item map[string]any) (*TargetingOption, error) {
		option := &TargetingOption{Object: NewObject(kind.Schema)}
		option.Hydrate(item)

		return option, nil
	})
}
