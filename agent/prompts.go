package agent

import (
	"encoding/json"
	"fmt"
)

const (
	generateSystemPrompt = "You are a helpful research assistant."
	generateUserTemplate = "Break the question into 3-5 web search queries as a JSON list.\n%s"

	reflectSystemPrompt = "Decide if the docs fully answer the question."
	reflectUserTemplate = "Reply with JSON {\"slots\":list,\"filled\":list,\"need_more\":bool,\"new_queries\":list}.\n" +
		"Question:%s\nDocs:\n%s"

	synthesizeSystemPrompt = "Answer in at most 80 English words and end with numeric citations."
	synthesizeUserTemplate = "Question:%s\nEvidence:\n%s"
)

// reflectStub conservatively terminates the loop when no backend is available.
const reflectStub = `{"need_more":false,"new_queries":[]}`

// generateStub echoes the question as the single search query.
func generateStub(question string) string {
	out, err := json.Marshal([]string{question})
	if err != nil {
		return "[]"
	}
	return string(out)
}

// synthesizeStub produces a fixed templated answer with one citation marker.
func synthesizeStub(question string) string {
	return fmt.Sprintf("Stub answer for: %s [1]", question)
}
