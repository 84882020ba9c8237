package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validPlanJSON = `{
  "planDetails": "Two drops, one pickup",
  "items": [
    {"name": "Post for Alpha", "volumeM3": 8.5, "destinationName": "Alpha Kft", "dropOffOrder": 2},
    {"name": "Post for Beta", "volumeM3": "4", "destinationName": "Beta Bt", "dropOffOrder": "1", "demandId": 17}
  ],
  "capacityUsed": "50%",
  "waypoints": [
    {"name": "Gyarto Zrt - Pickup", "type": "pickup", "order": 0},
    {"name": "Beta Bt", "type": "dropoff", "order": 1}
  ],
  "optimizedRouteDescription": "Debrecen -> Budapest"
}`

var planTime = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

func TestParsePlanResponse(t *testing.T) {
	plan, err := ParsePlanResponse(validPlanJSON, planTime)
	require.NoError(t, err)

	assert.Equal(t, "SIM-1772352000000", plan.ID)
	assert.Equal(t, "Two drops, one pickup", plan.PlanDetails)
	assert.Equal(t, "50%", plan.CapacityUsed.String())
	require.Len(t, plan.Items, 2)
	require.Len(t, plan.Waypoints, 2)

	assert.Equal(t, "8.5", plan.Items[0].VolumeM3.String())
	assert.Equal(t, 1, plan.Items[1].DropOffOrder.Value)
	assert.True(t, plan.Items[1].DropOffOrder.Valid)
	assert.Equal(t, "17", plan.Items[1].DemandID.String())
	assert.Equal(t, "pickup", string(plan.Waypoints[0].Kind))
}

func TestParsePlanResponseStripsCodeFence(t *testing.T) {
	for _, raw := range []string{
		"```json\n" + validPlanJSON + "\n```",
		"```\n" + validPlanJSON + "\n```",
		"  ```JSON\n" + validPlanJSON + "```  ",
	} {
		plan, err := ParsePlanResponse(raw, planTime)
		require.NoError(t, err)
		assert.Len(t, plan.Items, 2)
	}
}

func TestParsePlanResponseEmptyArraysAreValid(t *testing.T) {
	plan, err := ParsePlanResponse(`{"items": [], "waypoints": []}`, planTime)
	require.NoError(t, err)

	assert.NotNil(t, plan.Items)
	assert.NotNil(t, plan.Waypoints)
	assert.Empty(t, plan.Items)
}

func TestParsePlanResponseErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want ErrorKind
	}{
		{"not json", "Sorry, I cannot help with that.", KindMalformedPlan},
		{"truncated", `{"items": [`, KindMalformedPlan},
		{"empty", "", KindMalformedPlan},
		{"array root", `[1, 2]`, KindInvalidPlanShape},
		{"missing waypoints", `{"items": []}`, KindInvalidPlanShape},
		{"missing items", `{"waypoints": []}`, KindInvalidPlanShape},
		{"items not array", `{"items": {}, "waypoints": []}`, KindInvalidPlanShape},
		{"null waypoints", `{"items": [], "waypoints": null}`, KindInvalidPlanShape},
		{"item not object", `{"items": ["post"], "waypoints": []}`, KindInvalidPlanShape},
		{"waypoint not object", `{"items": [], "waypoints": [3]}`, KindInvalidPlanShape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := ParsePlanResponse(tt.raw, planTime)
			require.Error(t, err)
			assert.Nil(t, plan)

			kind, ok := KindOf(err)
			require.True(t, ok)
			assert.Equal(t, tt.want, kind)
		})
	}
}

func TestParsePlanResponseAcceptsNonStringFields(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		item string
		wp   string
	}{
		{"numeric quality", `{"items":[{"name":"Post","volumeM3":"5","destinationName":"A","quality":1}],"waypoints":[]}`, "Post", ""},
		{"numeric name", `{"items":[{"name":123,"volumeM3":"5"}],"waypoints":[]}`, "123", ""},
		{"boolean notes", `{"items":[{"name":"Post","notesOnItem":true,"loadingSuggestion":{}}],"waypoints":[]}`, "Post", ""},
		{"numeric waypoint name", `{"items":[],"waypoints":[{"name":7,"type":"dropoff","order":1}]}`, "", "7"},
		{"waypoint type object", `{"items":[],"waypoints":[{"name":"Alpha","type":{"x":1}}]}`, "", "Alpha"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := ParsePlanResponse(tt.raw, planTime)
			require.NoError(t, err)

			if tt.item != "" {
				require.Len(t, plan.Items, 1)
				assert.Equal(t, tt.item, plan.Items[0].Name)
			}
			if tt.wp != "" {
				require.Len(t, plan.Waypoints, 1)
				assert.Equal(t, tt.wp, plan.Waypoints[0].Name)
			}
		})
	}
}

func TestParsePlanResponseDropsOutOfRangeOrders(t *testing.T) {
	plan, err := ParsePlanResponse(`{"items":[{"name":"a","dropOffOrder":9e18},{"name":"b","dropOffOrder":-3e10},{"name":"c","dropOffOrder":4}],"waypoints":[]}`, planTime)
	require.NoError(t, err)

	require.Len(t, plan.Items, 3)
	assert.False(t, plan.Items[0].DropOffOrder.Valid)
	assert.False(t, plan.Items[1].DropOffOrder.Valid)
	assert.Equal(t, 4, plan.Items[2].DropOffOrder.Value)
}

func TestParsePlanResponseExcerptIsBounded(t *testing.T) {
	raw := "not json " + strings.Repeat("x", 1000)

	_, err := ParsePlanResponse(raw, planTime)
	require.Error(t, err)

	var pe *PlanError
	require.ErrorAs(t, err, &pe)
	assert.Less(t, len(pe.Detail), 400)
	assert.Contains(t, pe.Detail, "not json")
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, StripCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripCodeFence("  {\"a\":1}  "))
	assert.Equal(t, "text with ``` inside", StripCodeFence("text with ``` inside"))
}
