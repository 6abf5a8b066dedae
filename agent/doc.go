// Package agent implements the research pipeline: a question is decomposed
// into web search queries, documents are retrieved concurrently, a bounded
// reflection loop decides when the evidence suffices, and a final stage
// synthesizes an answer with numeric citations.
//
// The pipeline is total. Backend and provider failures degrade to
// deterministic offline behavior, so it always terminates with a
// well-formed AnswerResult.
package agent
