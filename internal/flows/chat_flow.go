package flows

import (
	"context"
	"strings"

	"github.com/justicebot/justicebot-backend/internal/flows/prompts"
)

// maxChatHistory bounds how many prior turns are replayed into the prompt.
const maxChatHistory = 20

func (r *Runner) ConversationalChat(ctx context.Context, in ChatInput) (ChatOutput, error) {
	history := in.ChatHistory
	if len(history) > maxChatHistory {
		history = history[len(history)-maxChatHistory:]
	}
	turns := make([]prompts.ChatTurn, 0, len(history))
	for _, t := range history {
		c := strings.TrimSpace(t.Content)
		if c == "" {
			continue
		}
		turns = append(turns, prompts.ChatTurn{Role: strings.ToLower(strings.TrimSpace(t.Role)), Content: c})
	}

	var cc *prompts.CaseContext
	if in.CaseContext != nil {
		cc = &prompts.CaseContext{
			CaseName:           in.CaseContext.CaseName,
			CaseClassification: in.CaseContext.CaseClassification,
			MeritScore:         in.CaseContext.MeritScore,
			SuggestedAvenues:   in.CaseContext.SuggestedAvenues,
			Analysis:           in.CaseContext.Analysis,
		}
	}

	return run(ctx, r, prompts.PromptConversationalChat, prompts.Input{
		Question:    strings.TrimSpace(in.Question),
		CaseContext: cc,
		ChatHistory: turns,
	}, func(o *ChatOutput) { o.Answer = strings.TrimSpace(o.Answer) })
}
