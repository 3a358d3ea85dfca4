package wiremodel_test

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wm "github.com/reoring/wiremodel"
	js "github.com/reoring/wiremodel/jsonschema"
)

func TestJSONSchema_Connection(t *testing.T) {
	reg := fixtureRegistry(t)
	doc, err := wm.JSONSchema(reg, "Connection")
	require.NoError(t, err)

	assert.Equal(t, js.Draft, doc.Dialect)
	assert.Equal(t, "#/$defs/Connection", doc.Ref)
	require.Contains(t, doc.Defs, "Connection")
	require.Contains(t, doc.Defs, "AdminCredentials")
	assert.NotContains(t, doc.Defs, "Rule", "only reachable schemas are exported")

	conn := doc.Defs["Connection"]
	assert.Equal(t, "object", conn.Type)
	assert.Equal(t, &js.Schema{Type: "string", Enum: []string{"MANUAL", "AUTONOMOUS", "USER_MANAGED_OCI", "UNKNOWN_ENUM_VALUE"}}, conn.Properties["databaseType"])
	assert.Equal(t, "ORACLE", conn.Properties["vendor"].Default)
	assert.Equal(t, "date-time", conn.Properties["timeCreated"].Format)
	assert.Equal(t, "#/$defs/AdminCredentials", conn.Properties["adminCredentials"].Ref)
	assert.Equal(t, "array", conn.Properties["supportedStates"].Type)
	assert.Contains(t, conn.Properties["supportedStates"].Items.Enum, "DELETED")
	assert.Equal(t, &js.Schema{Type: "string"}, conn.Properties["freeformTags"].AdditionalProperties)

	b, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"$defs"`)
}

func TestJSONSchema_StrictEnumOmitsSentinel(t *testing.T) {
	doc, err := wm.JSONSchema(fixtureRegistry(t), "CreateConnectionDetails")
	require.NoError(t, err)
	assert.Equal(t, []string{"MANUAL", "AUTONOMOUS", "USER_MANAGED_OCI"}, doc.Defs["CreateConnectionDetails"].Properties["databaseType"].Enum)
}

func TestJSONSchema_Polymorphic(t *testing.T) {
	doc, err := wm.JSONSchema(fixtureRegistry(t), "RulePolicy")
	require.NoError(t, err)
	for _, name := range []string{"RulePolicy", "Rule", "RuleX", "RuleZ", "RuleCase"} {
		assert.Contains(t, doc.Defs, name)
	}
	rule := doc.Defs["Rule"]
	require.NotNil(t, rule.Discriminator)
	assert.Equal(t, "kind", rule.Discriminator.PropertyName)
	assert.Equal(t, map[string]string{"X": "#/$defs/RuleX", "Z": "#/$defs/RuleZ"}, rule.Discriminator.Mapping)
	assert.Len(t, rule.OneOf, 2)
	assert.Equal(t, "X", doc.Defs["RuleX"].Properties["kind"].Const)
}

func TestJSONSchema_Recursive(t *testing.T) {
	doc, err := wm.JSONSchema(fixtureRegistry(t), "TreeNode")
	require.NoError(t, err)
	assert.Len(t, doc.Defs, 1)
	assert.Equal(t, "#/$defs/TreeNode", doc.Defs["TreeNode"].Properties["children"].Items.Ref)
}

func TestJSONSchema_UnknownType(t *testing.T) {
	_, err := wm.JSONSchema(fixtureRegistry(t), "Nope")
	assert.ErrorIs(t, err, wm.ErrUnknownSchema)
}
