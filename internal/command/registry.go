package command

import (
	"strings"
)

// handler runs one validated command.
type handler func(s *step) error

// AlgorithmMetadata describes one action: its parameter schema and what it
// returns. It is independent of any drawing.
type AlgorithmMetadata struct {
	Action      string  `json:"action"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Params      []Param `json:"params"`
	Returns     string  `json:"returns"`

	run handler
}

// Param returns the schema entry for name.
func (m AlgorithmMetadata) Param(name string) (Param, bool) {
	for _, p := range m.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// Registry maps action names to their metadata. Lookups ignore case.
type Registry struct {
	actions map[string]*AlgorithmMetadata
	order   []string
}

// NewRegistry returns a registry holding every built-in action.
func NewRegistry() *Registry {
	r := &Registry{actions: make(map[string]*AlgorithmMetadata)}
	for _, m := range builtins() {
		r.register(m)
	}
	return r
}

func (r *Registry) register(m AlgorithmMetadata) {
	key := strings.ToUpper(m.Action)
	if _, exists := r.actions[key]; !exists {
		r.order = append(r.order, key)
	}
	r.actions[key] = &m
}

// Lookup returns the metadata for action.
func (r *Registry) Lookup(action string) (*AlgorithmMetadata, bool) {
	m, ok := r.actions[strings.ToUpper(strings.TrimSpace(action))]
	return m, ok
}

// Describe lists every action in registration order.
func (r *Registry) Describe() []AlgorithmMetadata {
	out := make([]AlgorithmMetadata, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, *r.actions[key])
	}
	return out
}

// Validate checks a command against its action's schema without running it.
func (r *Registry) Validate(cmd Command) (Args, error) {
	m, ok := r.Lookup(cmd.Action)
	if !ok {
		return nil, &Error{Kind: KindUnknownAction, Action: cmd.Action, Err: ErrUnknownAction}
	}
	args, verr := validate(m.Params, cmd.Params)
	if verr != nil {
		verr.Action = m.Action
		return nil, verr
	}
	return args, nil
}
