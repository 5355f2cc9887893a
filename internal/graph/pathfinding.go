package graph

// Path represents a sequence of cells, each referencing the next.
type Path []string

// defaultMaxDepth bounds AllPaths when the caller passes maxDepth <= 0.
const defaultMaxDepth = 10

// AllPaths finds every reference chain from start to end using DFS with a
// maximum depth limit: start's formula references the second cell, whose
// formula references the third, and so on until end. Paths are returned in
// lexical order of their cells.
// If maxDepth <= 0, defaults to 10 to prevent exponential exploration.
func AllPaths(g *DependencyGraph, start, end string, maxDepth int) []Path {
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}

	if start == end {
		return []Path{{start}}
	}

	var paths []Path
	visited := map[string]bool{start: true}
	findAllPathsDFS(g, start, end, visited, []string{start}, maxDepth, &paths)

	return paths
}

// findAllPathsDFS is a helper function for AllPaths that performs DFS exploration.
func findAllPathsDFS(g *DependencyGraph, current, end string, visited map[string]bool, currentPath []string, maxDepth int, paths *[]Path) {
	if len(currentPath) > maxDepth {
		return
	}

	for _, neighbor := range g.Dependees(current) {
		if neighbor == end {
			newPath := make(Path, len(currentPath)+1)
			copy(newPath, currentPath)
			newPath[len(currentPath)] = end
			*paths = append(*paths, newPath)
			continue
		}

		if visited[neighbor] {
			continue
		}

		visited[neighbor] = true
		next := append(currentPath[:len(currentPath):len(currentPath)], neighbor)
		findAllPathsDFS(g, neighbor, end, visited, next, maxDepth, paths)
		visited[neighbor] = false
	}
}

// ShortestPath returns the shortest reference chain from start to end, or
// nil if start does not depend on end.
func ShortestPath(g *DependencyGraph, start, end string) Path {
	if start == end {
		return Path{start}
	}

	parent := map[string]string{start: ""}
	queue := []string{start}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, neighbor := range g.Dependees(current) {
			if _, seen := parent[neighbor]; seen {
				continue
			}
			parent[neighbor] = current
			if neighbor == end {
				return buildPath(parent, start, end)
			}
			queue = append(queue, neighbor)
		}
	}

	return nil
}

func buildPath(parent map[string]string, start, end string) Path {
	var reversed Path
	for node := end; node != start; node = parent[node] {
		reversed = append(reversed, node)
	}
	reversed = append(reversed, start)

	path := make(Path, len(reversed))
	for i, node := range reversed {
		path[len(reversed)-1-i] = node
	}
	return path
}
