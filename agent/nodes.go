package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"research-agent/search"
)

// placeholderDocument keeps citation generation total when a search round
// produced nothing at all.
var placeholderDocument = search.Document{
	Content: "No evidence was retrieved for this question.",
	Title:   "No results",
	URL:     "about:blank",
}

// generateNode decomposes the question into at most maxQueries web search
// queries. It never fails: unparseable backend output degrades to one query
// per non-blank line.
func (a *Agent) generateNode(ctx context.Context, state any) (any, error) {
	s := state.(ResearchState)

	raw := a.complete(ctx,
		generateSystemPrompt,
		fmt.Sprintf(generateUserTemplate, s.Question),
		generateStub(s.Question))

	s.Queries = parseQueries(raw)
	return s, nil
}

// searchNode fans one retrieval out per query, waits for all of them, and
// merges the results by URL with last-write-wins semantics.
func (a *Agent) searchNode(ctx context.Context, state any) (any, error) {
	s := state.(ResearchState)

	docsLists := make([][]search.Document, len(s.Queries))
	var wg sync.WaitGroup
	for i, query := range s.Queries {
		wg.Add(1)
		go func(idx int, q string) {
			defer wg.Done()
			docsLists[idx] = a.retriever.Retrieve(ctx, q)
		}(i, query)
	}
	wg.Wait()

	s.Docs = mergeDocuments(docsLists)
	return s, nil
}

// reflectNode asks the backend whether the evidence suffices. On any parse
// failure it conservatively terminates the loop and leaves queries and docs
// untouched. The iteration counter enforces the hard cap regardless of what
// the backend claims.
func (a *Agent) reflectNode(ctx context.Context, state any) (any, error) {
	s := state.(ResearchState)

	var b strings.Builder
	for _, d := range s.Docs {
		b.WriteString(d.Content)
		b.WriteString("\n")
	}
	docsText := truncate(b.String(), maxContextChars)

	raw := a.complete(ctx,
		reflectSystemPrompt,
		fmt.Sprintf(reflectUserTemplate, s.Question, docsText),
		reflectStub)

	var out struct {
		Slots      []string `json:"slots"`
		Filled     []string `json:"filled"`
		NeedMore   bool     `json:"need_more"`
		NewQueries []string `json:"new_queries"`
	}
	if err := json.Unmarshal([]byte(stripFences(raw)), &out); err != nil {
		s.NeedMore = false
	} else {
		s.Slots = out.Slots
		s.Filled = out.Filled
		s.NeedMore = out.NeedMore
		if len(out.NewQueries) > 0 {
			s.Queries = clamp(out.NewQueries, maxNewQueries)
		}
	}

	// Force termination once the final allowed round has run.
	if s.Iteration >= a.maxIterations-1 {
		s.NeedMore = false
	}
	s.Iteration++

	return s, nil
}

// synthesizeNode builds the evidence block from at most maxEvidence
// documents and produces the final answer with contiguous citations.
func (a *Agent) synthesizeNode(ctx context.Context, state any) (any, error) {
	s := state.(ResearchState)

	evidence := s.Docs
	if len(evidence) == 0 {
		evidence = []search.Document{placeholderDocument}
	}
	if len(evidence) > maxEvidence {
		evidence = evidence[:maxEvidence]
	}

	var b strings.Builder
	for i, d := range evidence {
		fmt.Fprintf(&b, "[%d] %s\n", i+1, d.Content)
	}

	answer := a.complete(ctx,
		synthesizeSystemPrompt,
		fmt.Sprintf(synthesizeUserTemplate, s.Question, b.String()),
		synthesizeStub(s.Question))

	s.Answer = stripRoleLabels(strings.TrimSpace(answer))

	citations := make([]Citation, 0, len(evidence))
	for i, d := range evidence {
		var title *string
		if d.Title != "" {
			t := d.Title
			title = &t
		}
		citations = append(citations, Citation{ID: i + 1, Title: title, URL: d.URL})
	}
	s.Citations = citations

	return s, nil
}

// parseQueries applies the layered parsing policy: JSON array, then a
// {"queries": [...]} object, then one query per non-blank line.
func parseQueries(raw string) []string {
	trimmed := stripFences(raw)

	var arr []string
	if err := json.Unmarshal([]byte(trimmed), &arr); err == nil {
		return clamp(arr, maxQueries)
	}

	if strings.HasPrefix(trimmed, "{") {
		var obj struct {
			Queries []string `json:"queries"`
		}
		if err := json.Unmarshal([]byte(trimmed), &obj); err == nil {
			return clamp(obj.Queries, maxQueries)
		}
	}

	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if l := strings.TrimSpace(line); l != "" {
			lines = append(lines, l)
		}
	}
	return clamp(lines, maxQueries)
}

// mergeDocuments flattens per-query result lists into one list keyed by URL.
// Later duplicates overwrite earlier ones in place, preserving first-seen
// order, and the merged list is capped at maxDocuments.
func mergeDocuments(docsLists [][]search.Document) []search.Document {
	merged := make([]search.Document, 0)
	index := make(map[string]int)
	for _, docs := range docsLists {
		for _, d := range docs {
			if pos, seen := index[d.URL]; seen {
				merged[pos] = d
				continue
			}
			index[d.URL] = len(merged)
			merged = append(merged, d)
		}
	}
	if len(merged) > maxDocuments {
		merged = merged[:maxDocuments]
	}
	return merged
}

// stripRoleLabels removes leading chat-role artifacts a backend may echo.
func stripRoleLabels(answer string) string {
	for {
		trimmed := strings.TrimSpace(answer)
		switch {
		case strings.HasPrefix(trimmed, "Human:"):
			answer = strings.TrimPrefix(trimmed, "Human:")
		case strings.HasPrefix(trimmed, "Assistant:"):
			answer = strings.TrimPrefix(trimmed, "Assistant:")
		default:
			return trimmed
		}
	}
}

// stripFences drops markdown code fences some backends wrap JSON in.
func stripFences(raw string) string {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	return strings.TrimSpace(trimmed)
}

func clamp(items []string, max int) []string {
	if len(items) > max {
		return items[:max]
	}
	return items
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}
