package entity

type PlanKind string

const (
	PlanAnswer PlanKind = "answer"
	PlanAction PlanKind = "action"
)

// Plan is the planner's decision for a single turn: answer directly, or run
// the named action with the given parameters.
type Plan struct {
	Kind       PlanKind
	Answer     string
	Action     string
	Parameters map[string]any
}

func (p Plan) IsAction() bool {
	return p.Kind == PlanAction
}
