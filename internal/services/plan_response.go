package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"load-planning-service/internal/domain"
)

// rawExcerptLen bounds the raw oracle text echoed back in parse errors.
const rawExcerptLen = 300

// Matches a whole answer wrapped in a fenced code block with an optional
// language tag on the opening line.
var fenceRe = regexp.MustCompile("(?s)^```(\\w*)?\\s*\\n?(.*?)\\n?\\s*```$")

// StripCodeFence removes one fenced code block wrapping the whole text.
// Text without a fence is returned trimmed.
func StripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if m := fenceRe.FindStringSubmatch(text); m != nil && m[2] != "" {
		return strings.TrimSpace(m[2])
	}
	return text
}

// ParsePlanResponse turns the oracle's raw answer into a LoadingPlan.
//
// The answer may be wrapped in a fenced code block. A body that is not JSON
// fails with KindMalformedPlan; JSON without "items" and "waypoints" arrays of
// objects fails with KindInvalidPlanShape. Other fields are optional and are
// not validated further.
func ParsePlanResponse(raw string, now time.Time) (*domain.LoadingPlan, error) {
	body := []byte(StripCodeFence(raw))

	var parsed any
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, newPlanError(KindMalformedPlan, err,
			"oracle answer is not valid JSON (raw: %q)", excerpt(raw, rawExcerptLen))
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return nil, newPlanError(KindInvalidPlanShape, nil, "plan must be a JSON object, got %s", jsonType(body))
	}

	itemsRaw, err := requireArray(top, "items")
	if err != nil {
		return nil, err
	}
	waypointsRaw, err := requireArray(top, "waypoints")
	if err != nil {
		return nil, err
	}

	items := make([]domain.PlanItem, 0, len(itemsRaw))
	for i, r := range itemsRaw {
		var it domain.PlanItem
		if err := decodeElement(r, &it); err != nil {
			return nil, newPlanError(KindInvalidPlanShape, err, "items[%d] is not a valid item object", i)
		}
		items = append(items, it)
	}

	waypoints := make([]domain.Waypoint, 0, len(waypointsRaw))
	for i, r := range waypointsRaw {
		var wp domain.Waypoint
		if err := decodeElement(r, &wp); err != nil {
			return nil, newPlanError(KindInvalidPlanShape, err, "waypoints[%d] is not a valid waypoint object", i)
		}
		waypoints = append(waypoints, wp)
	}

	return &domain.LoadingPlan{
		ID:                        fmt.Sprintf("SIM-%d", now.UnixMilli()),
		PlanDetails:               optionalText(top, "planDetails"),
		Items:                     items,
		CapacityUsed:              domain.LooseString(optionalText(top, "capacityUsed")),
		Waypoints:                 waypoints,
		OptimizedRouteDescription: optionalText(top, "optimizedRouteDescription"),
	}, nil
}

func requireArray(top map[string]json.RawMessage, field string) ([]json.RawMessage, error) {
	raw, ok := top[field]
	if !ok {
		return nil, newPlanError(KindInvalidPlanShape, nil, "plan is missing %q", field)
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, newPlanError(KindInvalidPlanShape, nil, "plan field %q must be an array, got %s", field, jsonType(raw))
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, newPlanError(KindInvalidPlanShape, err, "plan field %q is not a valid array", field)
	}
	return elems, nil
}

func decodeElement(raw json.RawMessage, v any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return fmt.Errorf("expected object, got %s", jsonType(raw))
	}
	return json.Unmarshal(raw, v)
}

// optionalText reads a string or number field, treating anything else as absent.
func optionalText(top map[string]json.RawMessage, field string) string {
	raw, ok := top[field]
	if !ok {
		return ""
	}
	var s domain.LooseString
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s.String())
}

func jsonType(raw []byte) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "nothing"
	}
	switch raw[0] {
	case '{':
		return "object"
	case '[':
		return "array"
	case '"':
		return "string"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	default:
		return "number"
	}
}

func excerpt(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
