package adapter

// Strategy is one named way of finding the entity list inside a collection payload.
type Strategy struct {
	Name    string
	extract func(v any) ([]any, bool)
}

// Extract reports whether the strategy matches v and, if so, the raw list it found.
func (s Strategy) Extract(v any) ([]any, bool) {
	return s.extract(v)
}

// FieldStrategy matches an object carrying an array under key. With nullIsEmpty, a
// present-but-null key also matches and yields an empty list.
func FieldStrategy(key string, nullIsEmpty bool) Strategy {
	return Strategy{
		Name: key,
		extract: func(v any) ([]any, bool) {
			obj, ok := v.(map[string]any)
			if !ok {
				return nil, false
			}
			val, present := obj[key]
			if !present {
				return nil, false
			}
			if val == nil {
				if nullIsEmpty {
					return []any{}, true
				}
				return nil, false
			}
			list, ok := val.([]any)
			return list, ok
		},
	}
}

// ArrayStrategy matches a payload that is already a bare array.
var ArrayStrategy = Strategy{
	Name: "array",
	extract: func(v any) ([]any, bool) {
		list, ok := v.([]any)
		return list, ok
	},
}

// Match tries strategies in order and returns the first that matches.
func Match(strategies []Strategy, v any) (Strategy, []any, bool) {
	for _, s := range strategies {
		if list, ok := s.Extract(v); ok {
			return s, list, true
		}
	}
	return Strategy{}, nil, false
}

// ChecklistStrategies is the preference order for checklist collections.
var ChecklistStrategies = []Strategy{
	FieldStrategy("checklistElements", true),
	FieldStrategy("elements", false),
	FieldStrategy("items", false),
	ArrayStrategy,
}

// RouteStrategies is the preference order for route collections.
var RouteStrategies = []Strategy{
	FieldStrategy("routes", true),
	FieldStrategy("items", false),
	ArrayStrategy,
}
