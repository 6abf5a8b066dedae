package agent

import "research-agent/search"

// Pipeline bounds. MaxIterations caps reflect rounds; the remaining limits
// keep prompt sizes and citation lists small.
const (
	// MaxIterations is the hard cap on reflect evaluations per question.
	MaxIterations = 2

	maxQueries      = 5
	maxDocuments    = 5
	maxNewQueries   = 3
	maxEvidence     = 3
	maxContextChars = 4000
)

// ResearchState is the record threaded through the pipeline. Nodes receive
// it by value and return an updated copy; no node mutates another node's
// view in place.
type ResearchState struct {
	// Question is immutable once set and is the origin of all queries.
	Question string

	// Queries is the current batch of search queries.
	Queries []string

	// Docs holds accumulated evidence, deduplicated by URL, capped at
	// maxDocuments after each search round.
	Docs []search.Document

	// Iteration counts completed reflect evaluations.
	Iteration int

	// NeedMore gates the reflect -> search back-edge.
	NeedMore bool

	// Slots and Filled are advisory fact lists produced by reflect. They
	// feed only the reflect prompt, nothing enforces them structurally.
	Slots  []string
	Filled []string

	// Answer and Citations are set by synthesize.
	Answer    string
	Citations []Citation
}

// Citation points one answer marker at its source document. Title is null
// in JSON when the document had none.
type Citation struct {
	ID    int     `json:"id"`
	Title *string `json:"title"`
	URL   string  `json:"url"`
}

// AnswerResult is the terminal output of the pipeline. Citation IDs are
// contiguous from 1 and correspond positionally to the evidence documents.
type AnswerResult struct {
	Answer    string     `json:"answer"`
	Citations []Citation `json:"citations"`
}
