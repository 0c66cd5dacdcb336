package mutation

import (
	"strings"

	"github.com/specialistvlad/nodegraph/internal/graph"
	"github.com/specialistvlad/nodegraph/internal/pinpath"
)

// childPath appends a graph or node name to a graph path.
func childPath(graphPath, name string) string {
	if graphPath == "" {
		return name
	}
	return graphPath + pinpath.GraphSeparator + name
}

// parentPath splits `A/B/C` into `A/B` and `C`.
func parentPath(path string) (string, string) {
	i := strings.LastIndex(path, pinpath.GraphSeparator)
	if i < 0 {
		return "", path
	}
	return path[:i], path[i+1:]
}

// rootPinPath returns the path of n's root pin called name.
func rootPinPath(n *graph.Node, name string) string {
	return n.Address().Child(name).String()
}

// parentGraph resolves a graph path, with the empty path meaning the
// collection root.
func parentGraph(c *graph.Collection, path string) (*graph.Graph, error) {
	if path == "" {
		return nil, nil
	}
	return c.ResolveGraph(path)
}

func graphPath(g *graph.Graph) string {
	if g == nil {
		return ""
	}
	return g.Path()
}
