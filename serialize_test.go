package wiremodel_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wm "github.com/reoring/wiremodel"
)

func TestSerialize_UnsetVersusExplicitNull(t *testing.T) {
	m, _ := fixtureMapper(t)
	x := m.MustNew("Connection")
	require.NoError(t, x.Set("id", "a"))
	require.NoError(t, x.Set("compartment_id", nil))

	out, err := m.Serialize(x)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"id": "a", "compartmentId": nil, "vendor": "ORACLE"}, out)
	assert.NotContains(t, out, "port")
}

func TestRoundTrip_ConstructedInstanceKeepsDefaults(t *testing.T) {
	m, _ := fixtureMapper(t)
	x := m.MustNew("Connection").MustSet("id", "a")
	assert.Equal(t, wm.PresenceDefaultApplied, x.Presence("vendor"))

	out, err := m.Serialize(x)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"id": "a", "vendor": "ORACLE"}, out)

	back, err := m.Decode(out, "Connection")
	require.NoError(t, err)
	assert.True(t, x.Equal(back), "%s != %s", x, back)

	require.NoError(t, x.Unset("vendor"))
	out, err = m.Serialize(x)
	require.NoError(t, err)
	assert.NotContains(t, out, "vendor")
}

func TestMarshal_DeclarationOrder(t *testing.T) {
	m, _ := fixtureMapper(t)
	x := m.MustNew("Connection")
	x.MustSet("port", 22).MustSet("compartment_id", nil).MustSet("id", "a")

	b, err := m.Marshal(x)
	require.NoError(t, err)
	assert.Equal(t, `{"id":"a","compartmentId":null,"vendor":"ORACLE","port":22}`, string(b))

	b, err = m.MarshalIndent(x, "", "  ")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"id\": \"a\",\n  \"compartmentId\": null,\n  \"vendor\": \"ORACLE\",\n  \"port\": 22\n}", string(b))
}

func TestSerialize_Collections(t *testing.T) {
	m, _ := fixtureMapper(t)
	x := m.MustNew("Connection")
	require.NoError(t, x.Set("nsg_ids", []any{"a", nil, "b"}))
	require.NoError(t, x.Set("freeform_tags", map[string]any{"k": "v", "gone": nil}))

	out, err := m.Serialize(x)
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b"}, out["nsgIds"], "sequences drop null elements")
	assert.Equal(t, map[string]any{"k": "v", "gone": nil}, out["freeformTags"], "maps keep keys")
}

func TestSerialize_TimestampsAreCanonicalUTC(t *testing.T) {
	m, _ := fixtureMapper(t)
	x := m.MustNew("Connection")
	tokyo := time.FixedZone("JST", 9*60*60)
	require.NoError(t, x.Set("time_created", time.Date(2024, 3, 1, 9, 0, 0, 120_000_000, tokyo)))

	out, err := m.Serialize(x)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01T00:00:00.12Z", out["timeCreated"])
}

func TestSerialize_NestedAndPolymorphic(t *testing.T) {
	m, _ := fixtureMapper(t)
	rx := m.MustNew("RuleX")
	rx.MustSet("threshold", 0.75)
	rc := m.MustNew("RuleCase").MustSet("case_condition", "c").MustSet("weight", 2)
	rx.MustSet("cases", []*wm.Instance{rc})

	p := m.MustNew("RulePolicy")
	p.MustSet("name", "p").MustSet("rules", []*wm.Instance{rx})

	out, err := m.Serialize(p)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"name": "p",
		"rules": []any{map[string]any{
			"kind":      "X",
			"threshold": 0.75,
			"cases":     []any{map[string]any{"caseCondition": "c", "weight": int64(2)}},
		}},
	}, out)
}

func TestSerializeValue(t *testing.T) {
	m, _ := fixtureMapper(t)
	v, err := m.SerializeValue([]any{time.Unix(0, 0)}, wm.ArrayOf(wm.DateTimeType))
	require.NoError(t, err)
	assert.Equal(t, []any{"1970-01-01T00:00:00Z"}, v)

	_, err = m.SerializeValue("x", wm.ObjectType("Connection"))
	assert.ErrorIs(t, err, wm.ErrTypeMismatch)

	_, err = m.Serialize(nil)
	assert.Error(t, err)
}

func TestRoundTrip_DecodeSerializeDecode(t *testing.T) {
	m, _ := fixtureMapper(t)
	cases := []struct {
		typ  string
		wire string
	}{
		{"Connection", `{"id":"a","compartmentId":null,"databaseType":"AUTONOMOUS","lifecycleState":"ACTIVE",
			"supportedStates":["ACTIVE","DELETED"],"timeCreated":"2024-05-06T07:08:09.123456789Z","port":1521,
			"ratio":1.5,"isDedicated":false,"nsgIds":[],"freeformTags":{"a":"b"},"definedTags":{"ns":{"k":[1,"x"]}},
			"adminCredentials":{"username":"u"}}`},
		{"Connection", `{"vendor":null}`},
		{"Connection", `{}`},
		{"CreateConnectionDetails", `{"compartment_id":"c","databaseType":"MANUAL","displayName":"n"}`},
		{"Rule", `{"kind":"Z","labels":{"x":"y"}}`},
		{"Rule", `{"kind":"unmapped","description":"fallback"}`},
		{"RulePolicy", `{"rules":[{"kind":"X","cases":[{"weight":1}]}],"rulesByZone":{"w":{"kind":"Z"}}}`},
		{"TreeNode", `{"name":"r","children":[{"name":"c","parentNode":{"name":"r"}}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.typ, func(t *testing.T) {
			x, err := m.Decode(wireJSON(t, tc.wire), tc.typ)
			require.NoError(t, err)

			out, err := m.Serialize(x)
			require.NoError(t, err)
			back, err := m.Decode(out, tc.typ)
			require.NoError(t, err)
			assert.True(t, x.Equal(back), "serialize: %s != %s", x, back)

			b, err := m.Marshal(x)
			require.NoError(t, err)
			again, err := m.Unmarshal(b, tc.typ)
			require.NoError(t, err)
			assert.True(t, x.Equal(again), "marshal: %s != %s", x, again)
		})
	}
}

func TestRoundTrip_ConstructedInstance(t *testing.T) {
	m, _ := fixtureMapper(t)
	x := m.MustNew("Connection")
	x.MustSet("id", "ocid1").
		MustSet("database_type", "USER_MANAGED_OCI").
		MustSet("time_created", "2024-01-02T03:04:05+01:00").
		MustSet("port", int32(8080)).
		MustSet("nsg_ids", []string{"n1", "n2"}).
		MustSet("freeform_tags", map[string]string{"team": "db"}).
		MustSet("admin_credentials", m.MustNew("AdminCredentials").MustSet("username", "root")).
		MustSet("vendor", nil)

	out, err := m.Serialize(x)
	require.NoError(t, err)
	back, err := m.Decode(out, "Connection")
	require.NoError(t, err)
	assert.True(t, x.Equal(back))
	assert.True(t, back.IsNull("vendor"), "explicit null survives instead of the default")
}

func TestRoundTrip_PassthroughKeys(t *testing.T) {
	m, _ := fixtureMapper(t, wm.WithUnknownPolicy(wm.UnknownPassthrough))
	x, err := m.Unmarshal([]byte(`{"id":"a","futureField":{"nested":[1,2]}}`), "Connection")
	require.NoError(t, err)
	b, err := m.Marshal(x)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"a","vendor":"ORACLE","futureField":{"nested":[1,2]}}`, string(b))
}
