package constraint

import (
	"reflect"

	"github.com/matzehuels/pathquery/pkg/graph"
	"github.com/matzehuels/pathquery/pkg/pattern"
	"github.com/matzehuels/pathquery/pkg/query"
)

type attr struct {
	name  string
	value any
}

// Attr matches nodes whose object exposes the named attribute with the
// given value. Numbers compare by value regardless of their Go type, so an
// attribute decoded from JSON as float64 matches an int. It generates every
// matching node.
func Attr(name string, value any) pattern.Constraint { return attr{name: name, value: value} }

func (attr) VarCount() int     { return 1 }
func (attr) CanGenerate() bool { return true }

func (c attr) Satisfies(m pattern.Match, ind ...int) bool {
	id, ok := node(m, ind[0])
	return ok && c.match(m.Graph(), id)
}

func (c attr) Generate(m pattern.Match, _ ...int) []graph.Element {
	g := m.Graph()
	return filterNodes(g, func(id graph.NodeID) bool { return c.match(g, id) })
}

func (c attr) match(g *graph.Graph, id graph.NodeID) bool {
	v, ok := g.Attr(id, c.name)
	return ok && Equal(v, c.value)
}

// Equal compares attribute values. Numeric values of any kind compare as
// float64; everything else uses reflect.DeepEqual.
func Equal(a, b any) bool {
	fa, aNum := number(a)
	fb, bNum := number(b)
	if aNum && bNum {
		return fa == fb
	}
	return reflect.DeepEqual(a, b)
}

func number(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

type reachable struct {
	limit int
	dir   query.Direction
}

// Reachable matches (a, b) when b is within limit hops of a following dir,
// b != a. It generates a's neighborhood without a itself.
//
// A negative limit matches nothing.
func Reachable(limit int, dir query.Direction) pattern.Constraint {
	return reachable{limit: limit, dir: dir}
}

func (reachable) VarCount() int     { return 2 }
func (reachable) CanGenerate() bool { return true }

func (c reachable) dist(m pattern.Match, a graph.NodeID) map[graph.NodeID]int {
	d, err := query.Distances(m.Graph(), graph.NewNodeSet(a), c.limit, c.dir)
	if err != nil {
		return nil
	}
	return d
}

func (c reachable) Satisfies(m pattern.Match, ind ...int) bool {
	a, ok := node(m, ind[0])
	if !ok {
		return false
	}
	b, ok := node(m, ind[1])
	if !ok || a == b {
		return false
	}
	_, found := c.dist(m, a)[b]
	return found
}

func (c reachable) Generate(m pattern.Match, ind ...int) []graph.Element {
	a, ok := node(m, ind[0])
	if !ok {
		return nil
	}
	d := c.dist(m, a)
	delete(d, a)
	var layers []graph.NodeID
	for _, layer := range query.Layers(d) {
		layers = append(layers, layer...)
	}
	return nodeElements(layers)
}
