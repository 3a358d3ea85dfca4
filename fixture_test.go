package wiremodel_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	wm "github.com/reoring/wiremodel"
)

var (
	databaseTypes   = wm.MustEnum("DatabaseType", "", "MANUAL", "AUTONOMOUS", "USER_MANAGED_OCI")
	lifecycleStates = wm.MustEnum("LifecycleState", "", "ACTIVE", "DELETED")
)

// fixtureSchemas covers every type shape: primitives, defaults, enums on
// scalars and on array leaves, nested objects, polymorphic bases reached
// directly and through arrays, and a self-referencing type.
func fixtureSchemas() []*wm.Schema {
	return []*wm.Schema{
		{Name: "Connection", Fields: []wm.Field{
			{Name: "id", Type: wm.StringType},
			{Name: "compartment_id", Type: wm.StringType},
			{Name: "database_type", Type: wm.StringType, Enum: databaseTypes},
			{Name: "lifecycle_state", Type: wm.StringType, Enum: lifecycleStates},
			{Name: "supported_states", Type: wm.ArrayOf(wm.StringType), Enum: lifecycleStates},
			{Name: "time_created", Type: wm.DateTimeType},
			{Name: "vendor", Type: wm.StringType, Default: "ORACLE", HasDefault: true},
			{Name: "port", Type: wm.IntegerType},
			{Name: "ratio", Type: wm.FloatType},
			{Name: "is_dedicated", Type: wm.BooleanType},
			{Name: "nsg_ids", Type: wm.ArrayOf(wm.StringType)},
			{Name: "freeform_tags", Type: wm.MapOf(wm.StringType)},
			{Name: "defined_tags", Type: wm.MapOf(wm.MapOf(wm.AnyType))},
			{Name: "admin_credentials", Type: wm.ObjectType("AdminCredentials")},
		}},
		{Name: "AdminCredentials", Fields: []wm.Field{
			{Name: "username", Type: wm.StringType},
		}},
		{Name: "CreateConnectionDetails", Role: wm.RoleRequest, Fields: []wm.Field{
			{Name: "compartment_id", Type: wm.StringType},
			{Name: "database_type", Type: wm.StringType, Enum: databaseTypes},
			{Name: "display_name", Type: wm.StringType},
		}},
		{Name: "Rule", Discriminator: "kind", Subtypes: map[string]string{"X": "RuleX", "Z": "RuleZ"}, Fields: []wm.Field{
			{Name: "kind", Type: wm.StringType},
			{Name: "description", Type: wm.StringType},
		}},
		{Name: "RuleX", Extends: "Rule", Fields: []wm.Field{
			{Name: "threshold", Type: wm.FloatType},
			{Name: "cases", Type: wm.ArrayOf(wm.ObjectType("RuleCase"))},
		}},
		{Name: "RuleZ", Extends: "Rule", Fields: []wm.Field{
			{Name: "labels", Type: wm.MapOf(wm.StringType)},
		}},
		{Name: "RuleCase", Fields: []wm.Field{
			{Name: "case_condition", Type: wm.StringType},
			{Name: "weight", Type: wm.IntegerType},
		}},
		{Name: "RulePolicy", Fields: []wm.Field{
			{Name: "name", Type: wm.StringType},
			{Name: "primary_rule", Type: wm.ObjectType("Rule")},
			{Name: "rules", Type: wm.ArrayOf(wm.ObjectType("Rule"))},
			{Name: "rules_by_zone", Type: wm.MapOf(wm.ObjectType("Rule"))},
		}},
		{Name: "TreeNode", Fields: []wm.Field{
			{Name: "name", Type: wm.StringType},
			{Name: "children", Type: wm.ArrayOf(wm.ObjectType("TreeNode"))},
			{Name: "parent_node", Type: wm.ObjectType("TreeNode")},
		}},
	}
}

func fixtureRegistry(t *testing.T) *wm.Registry {
	t.Helper()
	reg := wm.NewRegistry()
	for _, s := range fixtureSchemas() {
		require.NoError(t, reg.Register(s), s.Name)
	}
	require.NoError(t, reg.Seal())
	return reg
}

func fixtureMapper(t *testing.T, opts ...wm.Option) (*wm.Mapper, *wm.Collector) {
	t.Helper()
	c := &wm.Collector{}
	m, err := wm.NewMapper(fixtureRegistry(t), append([]wm.Option{wm.WithDiagnostics(c)}, opts...)...)
	require.NoError(t, err)
	return m, c
}

// wireJSON decodes a JSON literal the way the transport collaborator would.
func wireJSON(t *testing.T, s string) any {
	t.Helper()
	v, err := wm.ReadWire(wm.JSONBytes([]byte(s)), wm.ReadOpt{})
	require.NoError(t, err)
	return v
}
