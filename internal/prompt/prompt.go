package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shahtaz/medusa/internal/models"
)

// NoContextMarker keeps the prompt shape stable when retrieval comes back
// empty, so the model sees the same structure either way.
const NoContextMarker = "No specific context available."

const DefaultSystemPrompt = "You are Era, a friendly and professional AI assistant for Shahtaz's portfolio. " +
	"Answer visitor questions about Shahtaz's skills, projects, services, or expertise based only on the provided context. " +
	"Use a warm, engaging tone to attract potential clients. " +
	"If a query is outside Shahtaz's domain, politely redirect to his expertise or suggest contacting him."

const DefaultSummarizePrompt = "Summarize the conversation between the visitor and the AI assistant in 50-150 words. " +
	"Focus on key topics discussed, visitor intent, and the relevant skills or projects mentioned. " +
	"If a previous summary exists, merge it with the current exchange, prioritizing new information and avoiding redundancy. " +
	"Keep the summary concise, factual, and neutral. Reply with a single paragraph."

// Builder assembles model inputs from fixed instruction text, retrieved
// context, the rolling summary, and the new visitor query.
type Builder struct {
	systemPrompt    string
	summarizePrompt string
}

func NewBuilder(systemPrompt, summarizePrompt string) *Builder {
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}
	if summarizePrompt == "" {
		summarizePrompt = DefaultSummarizePrompt
	}
	return &Builder{systemPrompt: systemPrompt, summarizePrompt: summarizePrompt}
}

// Chat renders: system instructions, context blocks, previous summary (if
// any), visitor query. Ordering is fixed.
func (b *Builder) Chat(query, previousSummary string, snippets []models.ContextSnippet) string {
	var sb strings.Builder
	sb.WriteString(b.systemPrompt)
	sb.WriteString("\n\nContext:\n")
	sb.WriteString(FormatSnippets(snippets))
	if previousSummary != "" {
		sb.WriteString("\n\nPrevious Summary: ")
		sb.WriteString(previousSummary)
	}
	sb.WriteString("\n\nVisitor Query: ")
	sb.WriteString(query)
	return sb.String()
}

// Summarize renders the merge-style summarization input.
func (b *Builder) Summarize(previousSummary, userQuery, aiResponse string) string {
	var sb strings.Builder
	sb.WriteString(b.summarizePrompt)
	sb.WriteString("\n\nVisitor Query: ")
	sb.WriteString(userQuery)
	sb.WriteString("\n\nAI Response: ")
	sb.WriteString(aiResponse)
	if previousSummary != "" {
		sb.WriteString("\n\nPrevious Summary: ")
		sb.WriteString(previousSummary)
	}
	return sb.String()
}

// FormatSnippets renders labeled context blocks joined by blank lines.
// Metadata is included only when non-empty.
func FormatSnippets(snippets []models.ContextSnippet) string {
	if len(snippets) == 0 {
		return NoContextMarker
	}

	blocks := make([]string, 0, len(snippets))
	for i, s := range snippets {
		var sb strings.Builder
		fmt.Fprintf(&sb, "[%d] %s (%s)\n%s", i+1, s.Title, s.CollectionType, s.Content)
		if len(s.Metadata) > 0 {
			if md, err := json.Marshal(s.Metadata); err == nil {
				sb.WriteString("\nMetadata: ")
				sb.Write(md)
			}
		}
		blocks = append(blocks, sb.String())
	}
	return strings.Join(blocks, "\n\n")
}
