package graph

import (
	"context"
	"fmt"
)

// StateGraph represents a state-based graph similar to LangGraph's StateGraph.
// Nodes receive the current state and return an updated state; routing between
// nodes is expressed with plain edges or runtime conditional edges.
type StateGraph struct {
	// nodes is a map of node names to their corresponding Node objects
	nodes map[string]Node

	// edges is a slice of Edge objects representing the connections between nodes
	edges []Edge

	// conditionalEdges maps a "From" node to a function deriving the "To" node from state
	conditionalEdges map[string]func(ctx context.Context, state any) string

	// entryPoint is the name of the entry point node in the graph
	entryPoint string
}

// NewStateGraph creates a new instance of StateGraph.
func NewStateGraph() *StateGraph {
	return &StateGraph{
		nodes:            make(map[string]Node),
		conditionalEdges: make(map[string]func(ctx context.Context, state any) string),
	}
}

// AddNode adds a new node to the state graph with the given name, description and function.
func (g *StateGraph) AddNode(name string, description string, fn NodeFunc) {
	g.nodes[name] = Node{
		Name:        name,
		Description: description,
		Function:    fn,
	}
}

// AddEdge adds a new edge to the state graph between the "from" and "to" nodes.
func (g *StateGraph) AddEdge(from, to string) {
	g.edges = append(g.edges, Edge{
		From: from,
		To:   to,
	})
}

// AddConditionalEdge adds a conditional edge where the target node is determined at runtime.
func (g *StateGraph) AddConditionalEdge(from string, condition func(ctx context.Context, state any) string) {
	g.conditionalEdges[from] = condition
}

// SetEntryPoint sets the entry point node name for the state graph.
func (g *StateGraph) SetEntryPoint(name string) {
	g.entryPoint = name
}

// Runnable represents a compiled state graph that can be invoked.
// A Runnable is immutable and safe for concurrent Invoke calls; each
// invocation carries its own state.
type Runnable struct {
	graph  *StateGraph
	tracer *Tracer
}

// Compile compiles the state graph and returns a Runnable instance.
func (g *StateGraph) Compile() (*Runnable, error) {
	if g.entryPoint == "" {
		return nil, ErrEntryPointNotSet
	}
	if _, ok := g.nodes[g.entryPoint]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, g.entryPoint)
	}

	return &Runnable{graph: g}, nil
}

// WithTracer returns a new Runnable that emits trace spans to the given tracer.
func (r *Runnable) WithTracer(tracer *Tracer) *Runnable {
	return &Runnable{
		graph:  r.graph,
		tracer: tracer,
	}
}

// Invoke executes the compiled state graph with the given input state and
// returns the state produced by the last node before END.
func (r *Runnable) Invoke(ctx context.Context, initialState any) (any, error) {
	state := initialState
	current := r.graph.entryPoint

	var graphSpan *TraceSpan
	if r.tracer != nil {
		graphSpan = r.tracer.StartSpan(ctx, TraceEventGraphStart, "graph")
	}

	for current != END {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		node, ok := r.graph.nodes[current]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, current)
		}

		var nodeSpan *TraceSpan
		if r.tracer != nil {
			nodeSpan = r.tracer.StartSpan(ctx, TraceEventNodeStart, node.Name)
		}

		newState, err := node.Function(ctx, state)
		if r.tracer != nil {
			r.tracer.EndSpan(ctx, nodeSpan, err)
		}
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", node.Name, err)
		}
		state = newState

		next, err := r.nextNode(ctx, current, state)
		if err != nil {
			return nil, err
		}
		current = next
	}

	if r.tracer != nil {
		r.tracer.EndSpan(ctx, graphSpan, nil)
	}

	return state, nil
}

// nextNode determines the successor of a node, preferring a conditional edge
// over plain edges.
func (r *Runnable) nextNode(ctx context.Context, current string, state any) (string, error) {
	if condition, ok := r.graph.conditionalEdges[current]; ok {
		return condition(ctx, state), nil
	}
	for _, edge := range r.graph.edges {
		if edge.From == current {
			return edge.To, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNoOutgoingEdge, current)
}
