package ads_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/ads-client/pkg/ads"
)

func widgetSchema() *ads.Schema {
	return ads.NewSchema("widget",
		ads.Plain("id").Immutable(),
		ads.Bool("deleted").Immutable(),
		ads.Time("created_at").Immutable(),
		ads.Plain("name"),
		ads.Plain("tags"),
		ads.Bool("paused"),
		ads.Time("start_time"),
	)
}

func TestSchema(t *testing.T) {
	t.Parallel()

	schema := widgetSchema()

	assert.Equal(t, "widget", schema.Name())
	assert.Equal(t, []string{"id", "deleted", "created_at", "name", "tags", "paused", "start_time"}, schema.Names())

	writable := schema.Writable()
	require.Len(t, writable, 4)
	assert.Equal(t, "name", writable[0].Name)

	prop, ok := schema.Lookup("created_at")
	require.True(t, ok)
	assert.Equal(t, ads.KindTime, prop.Kind)
	assert.True(t, prop.ReadOnly)

	_, ok = schema.Lookup("missing")
	assert.False(t, ok)

	schema.Declare(ads.Plain("name").Immutable())
	prop, _ = schema.Lookup("name")
	assert.True(t, prop.ReadOnly)
	assert.Len(t, schema.Properties(), 7)
}

func TestSchemaRegistry(t *testing.T) {
	t.Parallel()

	campaign, ok := ads.LookupSchema("campaign")
	require.True(t, ok)
	assert.Same(t, ads.CampaignSchema, campaign)

	names := make([]string, 0)
	for _, schema := range ads.Schemas() {
		names = append(names, schema.Name())
	}

	assert.Contains(t, names, "account")
	assert.Contains(t, names, "line_item")
	assert.IsIncreasing(t, names)
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestObject_Hydrate(t *testing.T) {
	t.Parallel()

	t.Run("coerces declared kinds", func(t *testing.T) {
		t.Parallel()

		obj := ads.NewObject(widgetSchema())
		obj.Hydrate(map[string]any{
			"id":         "42",
			"deleted":    "true",
			"created_at": "2019-01-01T00:00:00Z",
		})

		assert.Equal(t, "42", obj.ID())

		deleted, ok := obj.Get("deleted")
		require.True(t, ok)
		assert.Equal(t, true, deleted)

		created, ok := obj.Get("created_at")
		require.True(t, ok)
		require.IsType(t, time.Time{}, created)
		assert.True(t, obj.Time("created_at").Equal(time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("numeric and native booleans", func(t *testing.T) {
		t.Parallel()

		obj := ads.NewObject(widgetSchema())
		obj.Hydrate(map[string]any{"deleted": json.Number("0"), "paused": true})

		assert.False(t, obj.Bool("deleted"))
		assert.True(t, obj.Bool("paused"))
	})

	t.Run("ignores unknown and tolerates missing fields", func(t *testing.T) {
		t.Parallel()

		obj := ads.NewObject(widgetSchema())
		obj.Hydrate(map[string]any{"name": "w", "color": "red"})

		_, ok := obj.Get("color")
		assert.False(t, ok)

		_, ok = obj.Get("id")
		assert.False(t, ok)
		assert.Equal(t, "w", obj.String("name"))
	})

	t.Run("keeps raw values that do not coerce", func(t *testing.T) {
		t.Parallel()

		obj := ads.NewObject(widgetSchema())
		obj.Hydrate(map[string]any{"created_at": "not a time", "deleted": "maybe", "start_time": ""})

		raw, _ := obj.Get("created_at")
		assert.Equal(t, "not a time", raw)

		raw, _ = obj.Get("deleted")
		assert.Equal(t, "maybe", raw)

		raw, ok := obj.Get("start_time")
		assert.True(t, ok)
		assert.Equal(t, "", raw)
	})

	t.Run("rehydration drops absent fields", func(t *testing.T) {
		t.Parallel()

		obj := ads.NewObject(widgetSchema())
		obj.Hydrate(map[string]any{"id": "1", "name": "first"})
		obj.Hydrate(map[string]any{"id": "1"})

		_, ok := obj.Get("name")
		assert.False(t, ok)
	})

	t.Run("null ids fail the loaded guard", func(t *testing.T) {
		t.Parallel()

		obj := ads.NewObject(widgetSchema())
		obj.Hydrate(map[string]any{"id": nil})

		_, err := obj.RequireID()
		require.ErrorIs(t, err, ads.ErrNotLoaded)
	})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestObject_Serialize(t *testing.T) {
	t.Parallel()

	t.Run("formats times, booleans and sequences", func(t *testing.T) {
		t.Parallel()

		obj := ads.NewObject(widgetSchema())
		require.NoError(t, obj.Set("name", "w"))
		require.NoError(t, obj.Set("tags", []string{"a", "b"}))
		require.NoError(t, obj.Set("paused", false))
		require.NoError(t, obj.Set("start_time", time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)))

		params := obj.Serialize()
		assert.Equal(t, map[string]any{
			"name":       "w",
			"tags":       "a,b",
			"paused":     false,
			"start_time": "2024-05-01T12:00:00Z",
		}, params)
	})

	t.Run("skips empty values", func(t *testing.T) {
		t.Parallel()

		obj := ads.NewObject(widgetSchema())
		require.NoError(t, obj.Set("name", ""))
		require.NoError(t, obj.Set("tags", []string{}))

		assert.Empty(t, obj.Serialize())
	})

	t.Run("writable subset", func(t *testing.T) {
		t.Parallel()

		obj := ads.NewObject(widgetSchema())
		obj.Hydrate(map[string]any{"id": "9", "name": "w", "created_at": "2019-01-01T00:00:00Z"})

		assert.Equal(t, map[string]any{"name": "w"}, obj.SerializeWritable())
		assert.Equal(t, "9", obj.Serialize()["id"])
		assert.Equal(t, "2019-01-01T00:00:00Z", obj.Serialize()["created_at"])
	})

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		source := ads.NewObject(widgetSchema())
		source.Hydrate(map[string]any{
			"id":         "7",
			"deleted":    false,
			"created_at": "2020-02-02T10:00:00Z",
			"name":       "round",
		})

		copied := ads.NewObject(widgetSchema())
		copied.Hydrate(source.Serialize())

		assert.Equal(t, source.Values(), copied.Values())
	})

	t.Run("round trip keeps fractional seconds", func(t *testing.T) {
		t.Parallel()

		source := ads.NewObject(widgetSchema())
		source.Hydrate(map[string]any{"id": "8", "created_at": "2020-02-02T10:00:00.750Z"})

		params := source.Serialize()
		assert.Equal(t, "2020-02-02T10:00:00.75Z", params["created_at"])

		copied := ads.NewObject(widgetSchema())
		copied.Hydrate(params)

		assert.True(t, source.Time("created_at").Equal(copied.Time("created_at")))
		assert.Equal(t, 750*time.Millisecond, time.Duration(copied.Time("created_at").Nanosecond()))
	})
}

func TestObject_Set(t *testing.T) {
	t.Parallel()

	obj := ads.NewObject(widgetSchema())

	require.ErrorIs(t, obj.Set("id", "1"), ads.ErrReadOnlyProperty)
	require.ErrorIs(t, obj.Set("nope", "1"), ads.ErrUnknownProperty)
	require.NoError(t, obj.Set("tags", "x,y"))
	assert.Equal(t, []string{"x", "y"}, obj.Strings("tags"))
}

func TestObject_Marshal(t *testing.T) {
	t.Parallel()

	obj := ads.NewObject(widgetSchema())
	obj.Hydrate(map[string]any{"id": "5", "name": "m"})

	data, err := json.Marshal(obj)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"5","name":"m"}`, string(data))

	out, err := yaml.Marshal(obj)
	require.NoError(t, err)
	assert.Contains(t, string(out), "name: m")
}
