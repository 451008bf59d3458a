package ads_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/ads-client/pkg/ads"
)

func TestTargetingKinds(t *testing.T) {
	t.Parallel()

	names := ads.TargetingKinds()
	assert.IsIncreasing(t, names)
	assert.Contains(t, names, "devices")
	assert.Contains(t, names, "locations")

	kind, err := ads.LookupTargetingKind("devices")
	require.NoError(t, err)
	assert.Same(t, ads.TargetingDevices, kind)
	assert.Equal(t, "/12/targeting_criteria/devices", kind.Path)

	_, err = ads.LookupTargetingKind("planets")
	require.ErrorIs(t, err, ads.ErrUnknownTargetingKind)
}

func TestTargetingOptions(t *testing.T) {
	t.Parallel()

	doer := newFakeDoer(func(call recordedCall) (int, string) {
		if call.Path == "/12/targeting_criteria/locations" {
			return http.StatusOK, `{"data":[
				{"name":"Boston","country_code":"US","location_type":"CITIES","targeting_value":"b1"},
				{"name":"Berlin","country_code":"DE","location_type":"CITIES","targeting_value":"b2"}
			],"next_cursor":null}`
		}

		return unexpected(call)
	})

	options, err := ads.TargetingOptions(context.Background(), doer, ads.TargetingLocations,
		ads.Params{"q": "b", "location_type": "CITIES"}).All()
	require.NoError(t, err)
	require.Len(t, options, 2)
	assert.Equal(t, "Berlin", options[1].Name())
	assert.Equal(t, "b2", options[1].TargetingValue())
	assert.Equal(t, "DE", options[1].String("country_code"))
	assert.Equal(t, "location_type=CITIES&q=b", doer.Calls()[0].Query)
}

func TestTargetingCriterion_Save(t *testing.T) {
	t.Parallel()

	doer := newFakeDoer(func(call recordedCall) (int, string) {
		if call.Method == http.MethodPost && call.Path == "/12/accounts/a1/targeting_criteria" {
			return http.StatusOK, `{"data":{"id":"tc1","line_item_id":"l1","targeting_type":"LOCATION","targeting_value":"b1"}}`
		}

		return unexpected(call)
	})

	criterion := ads.NewTargetingCriterion(loadedAccount(t, doer, "a1"))
	criterion.SetLineItemID("l1")
	criterion.SetTargeting("LOCATION", "b1")

	require.NoError(t, criterion.Save(context.Background()))
	assert.Equal(t, "tc1", criterion.ID())
	assert.Equal(t, "l1", criterion.LineItemID())
	assert.Equal(t, "line_item_id=l1&targeting_type=LOCATION&targeting_value=b1", doer.Calls()[0].Query)
}
