package app

import (
	"context"
	"fmt"
	"strings"

	"pdflingua/internal/ai"
)

// PromptConfig is the fully resolved system/user instruction pair for one
// completion call. Callers resolve it once (request override, else the
// newest stored prompt of the operation's type) so prompt selection is
// explicit rather than an implicit query inside the call.
type PromptConfig struct {
	SystemMessage string
	UserMessage   string
}

const (
	defaultTranslationSystem = "Translate the given text into Bulgarian language."
	defaultEditingSystem     = "Act as a proficient editor in Bulgarian language."
)

// TranslateText sends text through the completion provider under the given
// prompt configuration and returns the Bulgarian translation.
func TranslateText(ctx context.Context, provider ai.CompletionProvider, chat ai.ChatConfig, prompt PromptConfig, text string) (string, ai.Usage, error) {
	userMessage := fmt.Sprintf("Text for translation: %s. Translate the whole given text.", text)
	return complete(ctx, provider, chat, prompt, defaultTranslationSystem, userMessage, text)
}

// EditText sends previously translated text through the provider for an
// editing pass.
func EditText(ctx context.Context, provider ai.CompletionProvider, chat ai.ChatConfig, prompt PromptConfig, text string) (string, ai.Usage, error) {
	userMessage := fmt.Sprintf("Text for editing: %s. Edit the text as needed.", text)
	return complete(ctx, provider, chat, prompt, defaultEditingSystem, userMessage, text)
}

func complete(ctx context.Context, provider ai.CompletionProvider, chat ai.ChatConfig, prompt PromptConfig, fallbackSystem, fallbackUser, text string) (string, ai.Usage, error) {
	system := strings.TrimSpace(prompt.SystemMessage)
	if system == "" {
		system = fallbackSystem
	}
	user := fallbackUser
	if strings.TrimSpace(prompt.UserMessage) != "" {
		user = strings.TrimSpace(prompt.UserMessage) + " " + text
	}

	messages := []ai.ChatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}
	return provider.Complete(ctx, chat, messages)
}
