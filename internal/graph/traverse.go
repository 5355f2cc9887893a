package graph

import (
	"errors"
	"strings"
)

// ErrCycle is returned when a traversal closes a loop of dependencies.
var ErrCycle = errors.New("dependency cycle")

// CycleError reports the loop found by RecalculationOrder.
// Path starts and ends with the same cell.
type CycleError struct {
	Path []string
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	return "dependency cycle: " + strings.Join(e.Path, " -> ")
}

// Is makes errors.Is(err, ErrCycle) match.
func (e *CycleError) Is(target error) bool {
	return target == ErrCycle
}

// visit states
const (
	white = 0 // unvisited
	gray  = 1 // in progress
	black = 2 // finished
)

type frame struct {
	node      string
	neighbors []string
	next      int
}

// RecalculationOrder returns start and every cell that transitively depends
// on it, ordered so that each cell comes after every cell of the result it
// depends on. Duplicate start cells are visited once.
//
// The walk follows the dependents direction with an explicit stack, so its
// depth is bounded by the number of cells rather than the goroutine stack.
// Reaching a cell that is still in progress aborts with a *CycleError.
func RecalculationOrder(g *DependencyGraph, start ...string) ([]string, error) {
	color := make(map[string]int)
	var postOrder []string

	for _, root := range start {
		if color[root] != white {
			continue
		}

		color[root] = gray
		stack := []*frame{{node: root, neighbors: g.Dependents(root)}}

		for len(stack) > 0 {
			top := stack[len(stack)-1]

			if top.next == len(top.neighbors) {
				color[top.node] = black
				postOrder = append(postOrder, top.node)
				stack = stack[:len(stack)-1]
				continue
			}

			neighbor := top.neighbors[top.next]
			top.next++

			switch color[neighbor] {
			case gray:
				return nil, &CycleError{Path: cyclePath(stack, neighbor)}
			case white:
				color[neighbor] = gray
				stack = append(stack, &frame{node: neighbor, neighbors: g.Dependents(neighbor)})
			}
		}
	}

	// Reverse post-order: a cell is finished only after all of its dependents.
	order := make([]string, len(postOrder))
	for i, node := range postOrder {
		order[len(postOrder)-1-i] = node
	}
	return order, nil
}

// cyclePath rebuilds the loop from the stack frame holding target down to
// the top of the stack.
func cyclePath(stack []*frame, target string) []string {
	start := 0
	for i, f := range stack {
		if f.node == target {
			start = i
			break
		}
	}

	path := make([]string, 0, len(stack)-start+1)
	for _, f := range stack[start:] {
		path = append(path, f.node)
	}
	return append(path, target)
}

// Reachable returns every cell that transitively depends on start,
// excluding start itself, in breadth-first order.
func Reachable(g *DependencyGraph, start string) []string {
	visited := map[string]struct{}{start: {}}
	result := []string{}
	queue := []string{start}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, neighbor := range g.Dependents(current) {
			if _, seen := visited[neighbor]; seen {
				continue
			}
			visited[neighbor] = struct{}{}
			result = append(result, neighbor)
			queue = append(queue, neighbor)
		}
	}

	return result
}
