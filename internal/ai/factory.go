package ai

import (
	"context"
	"os"
	"strconv"

	"github.com/drewhammond/folio-api/internal/credentials"
	"github.com/drewhammond/folio-api/internal/types"
)

// Secret names resolved through the credential resolver. The derived
// environment variables are OPENAI_API_KEY and GEMINI_API_KEY.
const (
	openAISecretName = "openai-api-key"
	geminiSecretName = "gemini-api-key"
)

// Mock-mode flags. When set ("true"/"1"), the matching provider makes no
// outbound network calls and an API key is not required.
const (
	openAIMockEnv = "OPENAI_MOCK_MODE"
	geminiMockEnv = "GEMINI_MOCK_MODE"
)

// Factory maps provider identifiers to concrete providers, resolving
// credentials through an injected resolver so tests can isolate caches.
type Factory struct {
	resolver *credentials.Resolver
}

// NewFactory creates a provider factory.
func NewFactory(resolver *credentials.Resolver) *Factory {
	return &Factory{resolver: resolver}
}

// CreateProvider dispatches on the provider type, resolves the matching
// credential (environment variable first, then secret store), and
// constructs the provider. An unknown type is a configuration error.
func (f *Factory) CreateProvider(ctx context.Context, providerType ProviderType) (Provider, error) {
	switch providerType {
	case ProviderOpenAI:
		mock := mockFlagSet(openAIMockEnv)
		apiKey, err := f.resolveKey(ctx, openAISecretName, mock)
		if err != nil {
			return nil, err
		}
		return NewOpenAIProvider(apiKey, WithOpenAIMockMode(mock))
	case ProviderGemini:
		mock := mockFlagSet(geminiMockEnv)
		apiKey, err := f.resolveKey(ctx, geminiSecretName, mock)
		if err != nil {
			return nil, err
		}
		return NewGeminiProvider(apiKey, WithGeminiMockMode(mock))
	default:
		return nil, &UnknownProviderError{Type: string(providerType)}
	}
}

// resolveKey resolves a provider credential. In mock mode a missing key
// is tolerated since no network call will be made.
func (f *Factory) resolveKey(ctx context.Context, secretName string, mock bool) (string, error) {
	apiKey, err := f.resolver.APIKey(ctx, secretName)
	if err != nil {
		if mock {
			return "", nil
		}
		return "", err
	}
	return apiKey, nil
}

// PricingFor returns a provider's rate table without instantiating it,
// for cost estimation prior to generation.
func PricingFor(providerType ProviderType) (types.Pricing, error) {
	switch providerType {
	case ProviderOpenAI:
		return openAIPricing, nil
	case ProviderGemini:
		return geminiPricing, nil
	default:
		return types.Pricing{}, &UnknownProviderError{Type: string(providerType)}
	}
}

// DefaultProviderType is the backend used when a request does not name
// one: the lower-cost of the two rate tables.
func DefaultProviderType() ProviderType {
	if geminiPricing.InputCostPer1M+geminiPricing.OutputCostPer1M <=
		openAIPricing.InputCostPer1M+openAIPricing.OutputCostPer1M {
		return ProviderGemini
	}
	return ProviderOpenAI
}

func mockFlagSet(envName string) bool {
	v, err := strconv.ParseBool(os.Getenv(envName))
	return err == nil && v
}
