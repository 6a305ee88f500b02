package llm

import (
	"fmt"
	"strings"

	"hensgen-helper/internal/config"
)

// Clients is the pair of backends the app needs: one that accepts images for
// valuations and one for the chat coach. They are the same client unless the
// chat provider is text-only.
type Clients struct {
	Vision Client
	Chat   Client
}

// NewClients builds the configured providers. Missing credentials never fail:
// the affected client is Disabled and the screens show a notice instead.
func NewClients(cfg *config.Config) (Clients, error) {
	var vision Client = Disabled()
	if cfg.OpenAIAPIKey != "" {
		vision = NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, cfg.HTTPTimeout)
	}

	switch config.LLMProvider(strings.ToLower(string(cfg.LLMProvider))) {
	case config.ProviderOpenAI, "":
		return Clients{Vision: vision, Chat: vision}, nil
	case config.ProviderYandex:
		if cfg.YandexOAuthToken == "" || cfg.YandexFolderID == "" {
			return Clients{Vision: vision, Chat: Disabled()}, nil
		}
		ya, err := NewYandex(cfg.YandexOAuthToken, cfg.YandexFolderID)
		if err != nil {
			return Clients{}, err
		}
		return Clients{Vision: vision, Chat: ya}, nil
	default:
		return Clients{}, fmt.Errorf("unknown llm provider: %s", cfg.LLMProvider)
	}
}
