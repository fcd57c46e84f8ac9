package usecase

import (
	"card-assist/internal/domain/entity"
	"encoding/json"
	"strings"
)

// InterpretPlan decodes a planner reply. It tries the whole text as a JSON
// object, then the span from the first '{' to the last '}', and finally
// treats the raw text as a direct answer. It never fails.
func InterpretPlan(raw string) entity.Plan {
	if obj, ok := decodeObject(raw); ok {
		return planFromObject(obj)
	}
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		if obj, ok := decodeObject(raw[start : end+1]); ok {
			return planFromObject(obj)
		}
	}
	return entity.Plan{Kind: entity.PlanAnswer, Answer: raw}
}

func decodeObject(s string) (map[string]any, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

func planFromObject(obj map[string]any) entity.Plan {
	if t, _ := obj["type"].(string); t != string(entity.PlanAction) {
		answer, _ := obj["answer"].(string)
		return entity.Plan{Kind: entity.PlanAnswer, Answer: answer}
	}

	action, _ := obj["action"].(string)
	params, _ := obj["parameters"].(map[string]any)
	if params == nil {
		params = map[string]any{}
	}
	return entity.Plan{Kind: entity.PlanAction, Action: action, Parameters: params}
}
