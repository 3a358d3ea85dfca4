package wiremodel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wm "github.com/reoring/wiremodel"
)

func TestResolve_SelectsSubtype(t *testing.T) {
	m, diag := fixtureMapper(t)
	x, err := m.Decode(wireJSON(t, `{"kind":"X","description":"d","threshold":0.5,"cases":[{"caseCondition":"c","weight":3}]}`), "Rule")
	require.NoError(t, err)
	assert.Equal(t, "RuleX", x.TypeName())
	assert.True(t, x.Schema().IsA("Rule"))
	th, _ := x.Get("threshold")
	assert.Equal(t, 0.5, th)
	d, _ := x.Get("description")
	assert.Equal(t, "d", d)
	assert.Zero(t, diag.Len())
}

func TestResolve_FallsBackToBase(t *testing.T) {
	m, diag := fixtureMapper(t)

	x, err := m.Decode(map[string]any{"kind": "Y", "description": "d"}, "Rule")
	require.NoError(t, err)
	assert.Equal(t, "Rule", x.TypeName())
	kind, _ := x.Get("kind")
	assert.Equal(t, "Y", kind)

	events := diag.Events()
	require.Len(t, events, 1)
	assert.Equal(t, wm.EventDiscriminatorFallback, events[0].Kind)
	assert.Equal(t, "Rule", events[0].Schema)
	assert.Equal(t, "kind", events[0].Field)
	assert.Equal(t, "/kind", events[0].Path)
	assert.Equal(t, "Y", events[0].Value)

	diag.Reset()
	x, err = m.Decode(map[string]any{"description": "d"}, "Rule")
	require.NoError(t, err)
	assert.Equal(t, "Rule", x.TypeName())
	events = diag.Events()
	require.Len(t, events, 1)
	assert.Nil(t, events[0].Value)
	assert.Contains(t, events[0].Message, "missing")
}

func TestResolve_Direct(t *testing.T) {
	m, diag := fixtureMapper(t)
	reg := m.Registry()
	rule, err := reg.Lookup("Rule")
	require.NoError(t, err)

	assert.Equal(t, "RuleZ", m.Resolve(rule, map[string]any{"kind": "Z"}).Name)
	assert.Equal(t, "Rule", m.Resolve(rule, map[string]any{"kind": 5}).Name)
	assert.Equal(t, "Rule", m.Resolve(rule, map[string]any{"kind": nil}).Name)
	assert.Equal(t, 2, diag.Len())

	diag.Reset()
	conn, err := reg.Lookup("Connection")
	require.NoError(t, err)
	assert.Same(t, conn, m.Resolve(conn, map[string]any{"kind": "X"}))
	assert.Zero(t, diag.Len(), "non-polymorphic schemas resolve silently")
}

func TestResolve_InsideCollections(t *testing.T) {
	m, diag := fixtureMapper(t)
	x, err := m.Decode(wireJSON(t, `{
		"name": "p",
		"primaryRule": {"kind": "Z", "labels": {"a": "b"}},
		"rules": [{"kind": "X"}, {"kind": "Z"}, {"kind": "Q"}],
		"rulesByZone": {"east": {"kind": "X", "threshold": 1}}
	}`), "RulePolicy")
	require.NoError(t, err)

	primary, _ := x.Get("primary_rule")
	assert.Equal(t, "RuleZ", primary.(*wm.Instance).TypeName())

	rules, _ := x.Get("rules")
	var names []string
	for _, r := range rules.([]any) {
		names = append(names, r.(*wm.Instance).TypeName())
	}
	assert.Equal(t, []string{"RuleX", "RuleZ", "Rule"}, names)

	byZone, _ := x.Get("rules_by_zone")
	assert.Equal(t, "RuleX", byZone.(map[string]any)["east"].(*wm.Instance).TypeName())

	events := diag.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "/rules/2/kind", events[0].Path)
}

func TestResolve_SubtypeKeysAreUnknownOnOtherSubtypes(t *testing.T) {
	m, _ := fixtureMapper(t, wm.WithUnknownPolicy(wm.UnknownStrict))
	_, err := m.Decode(map[string]any{"kind": "Z", "threshold": 1}, "Rule")
	var ue *wm.UnknownKeyError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "RuleZ", ue.Schema)
	assert.Equal(t, "threshold", ue.Key)
}

func TestNew_PresetsDiscriminator(t *testing.T) {
	m, _ := fixtureMapper(t)
	x, err := m.New("RuleX")
	require.NoError(t, err)
	kind, ok := x.Get("kind")
	require.True(t, ok)
	assert.Equal(t, "X", kind)

	out, err := m.Serialize(x)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"kind": "X"}, out)

	back, err := m.Decode(out, "Rule")
	require.NoError(t, err)
	assert.Equal(t, "RuleX", back.TypeName())
	assert.True(t, x.Equal(back))

	base, err := m.New("Rule")
	require.NoError(t, err)
	assert.False(t, base.IsSet("kind"))

	_, err = m.New("Nope")
	assert.ErrorIs(t, err, wm.ErrUnknownSchema)
}
