package io

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/BurntSushi/toml"

	pqerrors "github.com/matzehuels/pathquery/pkg/errors"
	"github.com/matzehuels/pathquery/pkg/graph"
	"github.com/matzehuels/pathquery/pkg/network"
	"github.com/matzehuels/pathquery/pkg/pattern"
	"github.com/matzehuels/pathquery/pkg/pattern/constraint"
	"github.com/matzehuels/pathquery/pkg/query"
)

// PatternFile is a decoded pattern description.
type PatternFile struct {
	Name        string
	Description string
	Pattern     *pattern.Pattern
	// Seeds are the labels of the seed variables in the order Search
	// expects their values.
	Seeds []string
}

type patternDoc struct {
	Name        string          `toml:"name"`
	Description string          `toml:"description"`
	Vars        []varDoc        `toml:"var"`
	Constraints []constraintDoc `toml:"constraint"`
}

type varDoc struct {
	Label string `toml:"label"`
	Kind  string `toml:"kind"`
	Type  string `toml:"type"`
	Seed  bool   `toml:"seed"`
}

type constraintDoc struct {
	Type     string          `toml:"type"`
	Vars     []string        `toml:"vars"`
	Slots    []int           `toml:"slots"`
	Args     args            `toml:"args"`
	Children []constraintDoc `toml:"children"`
}

// ReadPattern decodes a TOML pattern description and builds it.
// Construction errors carry ErrCodeInvalidPattern.
func ReadPattern(r io.Reader) (*PatternFile, error) {
	var doc patternDoc
	md, err := toml.NewDecoder(r).Decode(&doc)
	if err != nil {
		return nil, pqerrors.Wrap(pqerrors.ErrCodeInvalidFormat, err, "decode pattern")
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return nil, pqerrors.New(pqerrors.ErrCodeInvalidFormat, "unknown pattern keys: %v", undec)
	}

	b := pattern.NewBuilder()
	var seeds []string
	for _, v := range doc.Vars {
		kind := graph.KindNode
		if v.Kind != "" {
			k, err := graph.ParseElementKind(v.Kind)
			if err != nil {
				return nil, pqerrors.Wrap(pqerrors.ErrCodeInvalidPattern, err, "variable %q", v.Label)
			}
			kind = k
		}
		b.Var(v.Label, kind, v.Type)
		if v.Seed {
			b.Seed(v.Label)
			seeds = append(seeds, v.Label)
		}
	}
	for i, cd := range doc.Constraints {
		if len(cd.Slots) > 0 {
			return nil, pqerrors.New(pqerrors.ErrCodeInvalidPattern, "constraint %d (%s): slots are only valid on children", i, cd.Type)
		}
		c, err := buildConstraint(cd)
		if err != nil {
			return nil, pqerrors.Wrap(pqerrors.ErrCodeInvalidPattern, err, "constraint %d (%s)", i, cd.Type)
		}
		b.Add(c, cd.Vars...)
	}

	p, err := b.Build()
	if err != nil {
		return nil, err
	}
	return &PatternFile{
		Name:        doc.Name,
		Description: doc.Description,
		Pattern:     p,
		Seeds:       seeds,
	}, nil
}

// ImportPattern reads a pattern file from path.
func ImportPattern(path string) (*PatternFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	pf, err := ReadPattern(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return pf, nil
}

// ConstraintTypes returns the constraint names accepted in pattern files.
func ConstraintTypes() []string {
	names := make([]string, 0, len(atomicConstraints)+3)
	for name := range atomicConstraints {
		names = append(names, name)
	}
	names = append(names, "and", "or", "not")
	slices.Sort(names)
	return names
}

var atomicConstraints = map[string]func(args) (pattern.Constraint, error){
	"type": func(a args) (pattern.Constraint, error) {
		t, err := a.str("type")
		if err != nil {
			return nil, err
		}
		typ, err := network.ParseType(t)
		if err != nil {
			return nil, err
		}
		return constraint.Type(string(typ)), nil
	},
	"any-node":    static(constraint.AnyNode()),
	"any-edge":    static(constraint.AnyEdge()),
	"successor":   static(constraint.Successor()),
	"predecessor": static(constraint.Predecessor()),
	"neighbor":    static(constraint.Neighbor()),
	"out-edge":    static(constraint.OutEdge()),
	"in-edge":     static(constraint.InEdge()),
	"edge-source": static(constraint.EdgeSource()),
	"edge-target": static(constraint.EdgeTarget()),
	"member":      static(constraint.Member()),
	"container":   static(constraint.Container()),
	"edge-sign": func(a args) (pattern.Constraint, error) {
		s, err := a.str("sign")
		if err != nil {
			return nil, err
		}
		sign, err := graph.ParseSign(s)
		if err != nil {
			return nil, err
		}
		return constraint.EdgeSign(sign), nil
	},
	"edge-type": func(a args) (pattern.Constraint, error) {
		types, err := a.strs("types")
		if err != nil {
			return nil, err
		}
		return constraint.EdgeType(types...), nil
	},
	"equality": func(a args) (pattern.Constraint, error) {
		eq, err := a.boolean("equal", true)
		if err != nil {
			return nil, err
		}
		return constraint.Equality(eq), nil
	},
	"attr": func(a args) (pattern.Constraint, error) {
		name, err := a.str("name")
		if err != nil {
			return nil, err
		}
		v, ok := a["value"]
		if !ok {
			return nil, fmt.Errorf("missing argument %q", "value")
		}
		return constraint.Attr(name, v), nil
	},
	"reachable": func(a args) (pattern.Constraint, error) {
		limit, err := a.integer("limit")
		if err != nil {
			return nil, err
		}
		if limit < 0 {
			return nil, fmt.Errorf("limit must be >= 0, got %d", limit)
		}
		dir := query.Downstream
		if _, ok := a["direction"]; ok {
			s, err := a.str("direction")
			if err != nil {
				return nil, err
			}
			if dir, err = query.ParseDirection(s); err != nil {
				return nil, err
			}
		}
		return constraint.Reachable(limit, dir), nil
	},
}

func static(c pattern.Constraint) func(args) (pattern.Constraint, error) {
	return func(args) (pattern.Constraint, error) { return c, nil }
}

func buildConstraint(cd constraintDoc) (pattern.Constraint, error) {
	var c pattern.Constraint
	switch cd.Type {
	case "and", "or", "not":
		if len(cd.Args) > 0 {
			return nil, fmt.Errorf("%s takes no args", cd.Type)
		}
		children := make([]pattern.Constraint, 0, len(cd.Children))
		for i, child := range cd.Children {
			cc, err := buildConstraint(child)
			if err != nil {
				return nil, fmt.Errorf("child %d (%s): %w", i, child.Type, err)
			}
			if len(child.Slots) > 0 {
				if len(child.Slots) != cc.VarCount() {
					return nil, fmt.Errorf("child %d (%s): %d slots for %d variables", i, child.Type, len(child.Slots), cc.VarCount())
				}
				if slices.ContainsFunc(child.Slots, func(s int) bool { return s < 0 }) {
					return nil, fmt.Errorf("child %d (%s): negative slot", i, child.Type)
				}
				cc = constraint.Map(cc, child.Slots...)
			}
			children = append(children, cc)
		}
		switch {
		case len(children) == 0:
			return nil, fmt.Errorf("%s needs at least one child", cd.Type)
		case cd.Type == "and":
			c = constraint.And(children...)
		case cd.Type == "or":
			c = constraint.Or(children...)
		case len(children) != 1:
			return nil, fmt.Errorf("not takes exactly one child, got %d", len(children))
		default:
			c = constraint.Not(children[0])
		}
	default:
		if len(cd.Children) > 0 {
			return nil, fmt.Errorf("%s takes no children", cd.Type)
		}
		factory, ok := atomicConstraints[cd.Type]
		if !ok {
			return nil, fmt.Errorf("unknown constraint type %q", cd.Type)
		}
		var err error
		if c, err = factory(cd.Args); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// args holds constraint arguments decoded from TOML.
type args map[string]any

func (a args) str(key string) (string, error) {
	v, ok := a[key]
	if !ok {
		return "", fmt.Errorf("missing argument %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("argument %q must be a string, got %T", key, v)
	}
	return s, nil
}

func (a args) strs(key string) ([]string, error) {
	v, ok := a[key]
	if !ok {
		return nil, fmt.Errorf("missing argument %q", key)
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("argument %q must be a list of strings, got %T", key, v)
	}
	out := make([]string, len(list))
	for i, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("argument %q[%d] must be a string, got %T", key, i, item)
		}
		out[i] = s
	}
	return out, nil
}

func (a args) integer(key string) (int, error) {
	v, ok := a[key]
	if !ok {
		return 0, fmt.Errorf("missing argument %q", key)
	}
	switch n := v.(type) {
	case int64:
		return int(n), nil
	case int:
		return n, nil
	}
	return 0, fmt.Errorf("argument %q must be an integer, got %T", key, v)
}

func (a args) boolean(key string, def bool) (bool, error) {
	v, ok := a[key]
	if !ok {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("argument %q must be a boolean, got %T", key, v)
	}
	return b, nil
}
