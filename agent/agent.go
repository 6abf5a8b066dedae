package agent

import (
	"context"
	"fmt"

	"research-agent/graph"
	"research-agent/search"
)

// Node names of the pipeline stages.
const (
	NodeGenerate   = "generate"
	NodeSearch     = "search"
	NodeReflect    = "reflect"
	NodeSynthesize = "synthesize"
)

// Agent runs the research pipeline: generate queries, search, reflect on
// the evidence, loop back if needed, then synthesize a cited answer.
//
// The compiled graph is built once; concurrent AnswerQuestion calls are safe
// because each invocation carries its own ResearchState.
type Agent struct {
	llm       LLM
	retriever search.Retriever

	maxIterations int
	runnable      *graph.Runnable
}

// Config holds the agent's collaborators. Every field has a safe zero
// default: a nil LLM selects the offline stub, a nil Retriever the
// credential-free provider chain.
type Config struct {
	// LLM is the answer-generation backend, nil for offline-stub mode.
	LLM LLM

	// Retriever fetches documents for search queries.
	Retriever search.Retriever

	// MaxIterations overrides the reflect-round cap, default MaxIterations.
	MaxIterations int

	// Tracer, when set, receives spans for every node execution.
	Tracer *graph.Tracer
}

// New builds an agent and compiles its pipeline graph.
func New(cfg Config) (*Agent, error) {
	a := &Agent{
		llm:           cfg.LLM,
		retriever:     cfg.Retriever,
		maxIterations: cfg.MaxIterations,
	}
	if a.retriever == nil {
		a.retriever = search.NewWebSearcher(search.Config{})
	}
	if a.maxIterations <= 0 {
		a.maxIterations = MaxIterations
	}

	runnable, err := a.buildGraph()
	if err != nil {
		return nil, fmt.Errorf("compile pipeline: %w", err)
	}
	if cfg.Tracer != nil {
		runnable = runnable.WithTracer(cfg.Tracer)
	}
	a.runnable = runnable

	return a, nil
}

// buildGraph wires the four stages with the reflect -> search back-edge.
func (a *Agent) buildGraph() (*graph.Runnable, error) {
	g := graph.NewStateGraph()

	g.AddNode(NodeGenerate, "decompose the question into search queries", a.generateNode)
	g.AddNode(NodeSearch, "fetch and merge documents for the current queries", a.searchNode)
	g.AddNode(NodeReflect, "decide whether the evidence suffices", a.reflectNode)
	g.AddNode(NodeSynthesize, "produce the final answer with citations", a.synthesizeNode)

	g.AddEdge(NodeGenerate, NodeSearch)
	g.AddEdge(NodeSearch, NodeReflect)
	g.AddConditionalEdge(NodeReflect, func(ctx context.Context, state any) string {
		s := state.(ResearchState)
		if s.NeedMore && s.Iteration < a.maxIterations {
			return NodeSearch
		}
		return NodeSynthesize
	})
	g.AddEdge(NodeSynthesize, graph.END)

	g.SetEntryPoint(NodeGenerate)
	return g.Compile()
}

// AnswerQuestion runs the pipeline for one question. It terminates within
// the iteration bound for any combination of provider or backend failures.
func (a *Agent) AnswerQuestion(ctx context.Context, question string) (AnswerResult, error) {
	final, err := a.runnable.Invoke(ctx, ResearchState{Question: question})
	if err != nil {
		return AnswerResult{}, err
	}

	s := final.(ResearchState)
	return AnswerResult{Answer: s.Answer, Citations: s.Citations}, nil
}

// AnswerSync is a convenience wrapper around AnswerQuestion with a
// background context.
func (a *Agent) AnswerSync(question string) (AnswerResult, error) {
	return a.AnswerQuestion(context.Background(), question)
}
