package feedforward

import (
	"fmt"

	"github.com/awalterschulze/gographviz"
)

// ToDot renders the network as a graphviz digraph, one node per layer.
func (f FeedforwardNetwork) ToDot() string {
	g := gographviz.NewGraph()
	if err := g.SetName("G"); err != nil {
		panic(err)
	}
	if err := g.SetDir(true); err != nil {
		panic(err)
	}

	node := func(id, label, shape string) {
		attrs := map[string]string{
			"fontname": "Monaco",
			"shape":    shape,
			"label":    fmt.Sprintf("%q", label),
		}
		if err := g.AddNode("G", id, attrs); err != nil {
			panic(err)
		}
	}
	edge := func(src, dst string, width int) {
		attrs := map[string]string{"label": fmt.Sprintf("%q", fmt.Sprint(width))}
		if err := g.AddEdge(src, dst, true, attrs); err != nil {
			panic(err)
		}
	}

	node("input", "input", "ellipse")
	prev := "input"
	for i, l := range f.layers {
		id := fmt.Sprintf("layer%d", i)
		node(id, fmt.Sprintf("%d: %s\nfan in %d, fan out %d\nconnections %d",
			i, l.Type(), l.FanIn(), l.FanOut(), l.ConnectionSize()), "box")
		edge(prev, id, l.InSize())
		prev = id
	}
	node("output", "output", "ellipse")
	edge(prev, "output", f.OutSize())
	return g.String()
}
