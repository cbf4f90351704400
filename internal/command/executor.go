package command

import (
	"errors"
	"log/slog"

	"github.com/inamate/draft/internal/document"
	"github.com/inamate/draft/internal/geom"
	"github.com/inamate/draft/internal/transform"
)

// Executor runs command batches against an element set.
type Executor struct {
	registry *Registry
	ids      document.IDGenerator
	logger   *slog.Logger
}

// NewExecutor returns an executor over reg. New elements get ids from ids.
func NewExecutor(reg *Registry, ids document.IDGenerator, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{registry: reg, ids: ids, logger: logger}
}

// Registry returns the action registry the executor validates against.
func (x *Executor) Registry() *Registry {
	return x.registry
}

// batch is the state shared by the commands of one Execute call.
type batch struct {
	ids       document.IDGenerator
	elements  []document.Element
	selection document.Selection
	results   map[string][]string
}

// step is one command being run.
type step struct {
	batch        *batch
	index        int
	cmd          Command
	args         Args
	produced     []document.Element
	measurements []Measurement
}

// Execute runs cmds in order against els. The first failing command halts the
// batch; the result then holds everything produced before it and the error.
// Neither els nor sel is modified.
func (x *Executor) Execute(cmds []Command, els []document.Element, sel document.Selection) Result {
	b := &batch{
		ids:       x.ids,
		elements:  document.Append(els),
		selection: sel,
		results:   make(map[string][]string),
	}
	res := Result{Elements: b.elements, Produced: []document.Element{}, Measurements: []Measurement{}}

	for i, cmd := range cmds {
		s, err := x.run(b, i, cmd)
		if s != nil {
			res.Produced = append(res.Produced, s.produced...)
			res.Measurements = append(res.Measurements, s.measurements...)
		}
		res.Elements = b.elements
		if err != nil {
			res.Error = err
			x.logger.Info("command batch halted",
				"index", i,
				"action", cmd.Action,
				"kind", err.Kind,
				"param", err.Param,
				"error", err.Err,
			)
			return res
		}
		x.logger.Debug("command executed",
			"index", i,
			"action", cmd.Action,
			"produced", len(s.produced),
			"measurements", len(s.measurements),
		)
	}
	res.Success = true
	return res
}

func (x *Executor) run(b *batch, i int, cmd Command) (*step, *Error) {
	meta, ok := x.registry.Lookup(cmd.Action)
	if !ok {
		return nil, &Error{Kind: KindUnknownAction, Index: i, Action: cmd.Action, Err: ErrUnknownAction}
	}
	args, verr := validate(meta.Params, cmd.Params)
	if verr != nil {
		verr.Index, verr.Action = i, meta.Action
		return nil, verr
	}

	cmd.Action = meta.Action
	s := &step{batch: b, index: i, cmd: cmd, args: args}
	if err := meta.run(s); err != nil {
		e := classify(err)
		e.Index, e.Action = i, meta.Action
		return s, e
	}
	if cmd.ResultID != "" {
		b.results[cmd.ResultID] = document.IDs(s.produced)
	}
	return s, nil
}

// classify turns a handler error into a structured Error.
func classify(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	switch {
	case errors.Is(err, transform.ErrEmptyTarget):
		return &Error{Kind: KindEmptyTarget, Err: err}
	case errors.Is(err, ErrUnresolvedReference):
		return &Error{Kind: KindUnresolvedReference, Err: err}
	case errors.Is(err, ErrValidation):
		return &Error{Kind: KindValidation, Err: err}
	default:
		return &Error{Kind: KindInvalidGeometry, Err: err}
	}
}

// create adds a new element with a fresh id to the working set.
func (s *step) create(g document.Geometry) {
	el := document.New(s.batch.ids, s.args.String("layer"), s.args.String("color"), g)
	s.add([]document.Element{el})
}

// add appends new elements to the working set.
func (s *step) add(els []document.Element) {
	s.batch.elements = document.Append(s.batch.elements, els...)
	s.produced = append(s.produced, els...)
}

// update replaces existing elements in the working set.
func (s *step) update(els []document.Element) {
	s.batch.elements = document.Replace(s.batch.elements, els)
	s.produced = append(s.produced, els...)
}

func (s *step) remove(ids []string) {
	s.batch.elements = document.Remove(s.batch.elements, ids)
}

func (s *step) measure(v float64, pts []geom.Point, elementIDs ...string) {
	s.measurements = append(s.measurements, Measurement{
		Index:      s.index,
		Action:     s.cmd.Action,
		ResultID:   s.cmd.ResultID,
		ElementIDs: elementIDs,
		Value:      v,
		Points:     pts,
	})
}
