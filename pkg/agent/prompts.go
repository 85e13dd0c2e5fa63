package agent

import (
	"fmt"
	"strings"
	"time"

	"ai-docflow-be/pkg/vectorindex"
)

// NoSessionFoundMessage is returned when no record matches the session.
const NoSessionFoundMessage = "We couldn't find any document processing session matching your request."

// NothingRelevantMessage is returned when search yields no usable chunks.
const NothingRelevantMessage = "We couldn't find anything relevant in your uploaded documents."

func statusInstruction(sessionId string, now time.Time, records []JobRecord) string {
	var sb strings.Builder
	for _, r := range records {
		fmt.Fprintf(&sb, "- status: %s, chunk_count: %d, updated_at: %s",
			r.Status, r.ChunkCount, r.UpdatedAt.UTC().Format("2006-01-02 15:04:05"))
		if r.ErrorMessage != "" {
			fmt.Fprintf(&sb, ", error: %s", r.ErrorMessage)
		}
		sb.WriteString("\n")
	}

	return fmt.Sprintf(`You are the official status checker for a document processing service.
Report the current processing status for session %s using ONLY the records below.

Current UTC time: %s
Records (most recent first):
%s
For each record, show its status (completed, in_progress, failed), include the
chunk count if available, include the error message if available, and mention
how long ago it was updated relative to the current time. Do not guess or make
up results.

Respond with a single JSON object: {"job_status_summary": "<one clear paragraph>"}`,
		sessionId, now.UTC().Format("2006-01-02 15:04:05"), sb.String())
}

func queryInstruction(userQuery string, matches []vectorindex.Match) string {
	var sb strings.Builder
	for i, m := range matches {
		fmt.Fprintf(&sb, "[%d] (file: %s)\n%s\n\n", i+1, m.FileName, strings.TrimSpace(m.Text))
	}

	return fmt.Sprintf(`A user submitted the following natural language question:

"%s"

The following document chunks were retrieved by semantic search over the user's
uploaded documents:

%s
Instructions:
1. Analyze all retrieved chunks. Extract relevant facts, numbers, clauses and definitions.
2. If any file names, links, or document references are included, preserve and cite them.
3. If no chunks are relevant, clearly say: "%s"

Your final answer must be written in natural, professional language, as a single
standalone message grounded strictly in the retrieved content. Never invent facts.

Respond with a single JSON object: {"final_message": "<your answer>"}`,
		userQuery, sb.String(), NothingRelevantMessage)
}

func analysisInstruction(mergedContent string) string {
	return fmt.Sprintf(`You are a document intelligence analyst. Classify, extract, and map
intelligence across the uploaded documents below. Treat them as one unit.

Documents:
%s

Respond with a single JSON object with exactly these keys:
{
  "classification": "<inferred document type, e.g. Contract, Privacy Policy, Report>",
  "key_entities": ["<people, organizations, dates, terms, clauses>"],
  "critical_clauses": ["<key clauses, obligations, requirements, risks>"],
  "cross_doc_relationships": "<relationships, contradictions or dependencies between documents>",
  "summary": "<concise multi-paragraph summary of what the documents collectively reveal>"
}`, mergedContent)
}
