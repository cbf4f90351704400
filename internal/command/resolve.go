package command

import (
	"strconv"
	"strings"

	"github.com/inamate/draft/internal/document"
	"github.com/inamate/draft/internal/transform"
)

const (
	refSelected = "selected"
	refAll      = "all"
	refResult   = "result:"
)

// resolve turns a target into elements of the working set, in reference
// order with duplicates dropped.
func (s *step) resolve(param string) ([]document.Element, error) {
	var out []document.Element
	seen := map[string]bool{}
	add := func(els []document.Element) {
		for _, e := range els {
			if !seen[e.ID] {
				seen[e.ID] = true
				out = append(out, e)
			}
		}
	}

	for _, ref := range s.args.Target(param) {
		els, err := s.resolveOne(param, strings.TrimSpace(ref))
		if err != nil {
			return nil, err
		}
		add(els)
	}
	if len(out) == 0 {
		return nil, &Error{Kind: KindEmptyTarget, Param: param, Err: transform.ErrEmptyTarget}
	}
	return out, nil
}

func (s *step) resolveOne(param, ref string) ([]document.Element, error) {
	working := s.batch.elements
	sel := s.batch.selection.Prune(working)

	switch {
	case ref == refSelected:
		return sel.Elements(working), nil

	case ref == refAll:
		return working, nil

	case strings.HasPrefix(ref, refSelected+"[") && strings.HasSuffix(ref, "]"):
		i, err := strconv.Atoi(ref[len(refSelected)+1 : len(ref)-1])
		ids := sel.IDs()
		if err != nil || i < 0 || i >= len(ids) {
			return nil, unresolved(param, ref)
		}
		e, _ := document.Find(working, ids[i])
		return []document.Element{e}, nil

	case strings.HasPrefix(ref, refResult):
		ids, ok := s.batch.results[strings.TrimPrefix(ref, refResult)]
		if !ok {
			return nil, unresolved(param, ref)
		}
		els := document.Filter(working, ids)
		if len(ids) > 0 && len(els) == 0 {
			// Every element the earlier command produced has since been removed.
			return nil, unresolved(param, ref)
		}
		return orderBy(els, ids), nil

	default:
		e, ok := document.Find(working, ref)
		if !ok {
			return nil, unresolved(param, ref)
		}
		return []document.Element{e}, nil
	}
}

// orderBy returns els sorted in the order of ids.
func orderBy(els []document.Element, ids []string) []document.Element {
	out := make([]document.Element, 0, len(els))
	for _, id := range ids {
		if e, ok := document.Find(els, id); ok {
			out = append(out, e)
		}
	}
	return out
}
