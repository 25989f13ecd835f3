// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make
// network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "deepresearch/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for the multi-source search stage.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// ResultsPerQuery is the number of results requested from each
	// provider per expanded query (default 5).
	ResultsPerQuery int `json:"results_per_query" yaml:"results_per_query"`

	// TavilyAPIKey enables the Tavily adapter when set.
	TavilyAPIKey string `json:"tavily_api_key,omitempty" yaml:"tavily_api_key,omitempty"`

	// SerperAPIKey enables the Serper adapter when set.
	SerperAPIKey string `json:"serper_api_key,omitempty" yaml:"serper_api_key,omitempty"`

	// JinaAPIKey enables the Jina adapter and hybrid content enrichment
	// when set.
	JinaAPIKey string `json:"jina_api_key,omitempty" yaml:"jina_api_key,omitempty"`

	// EnrichContent controls whether the hybrid adapter fetches full page
	// text for discovered URLs.
	EnrichContent bool `json:"enrich_content" yaml:"enrich_content"`

	// MaxRetries bounds transient-failure retries per provider call
	// (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// LLMConfig holds settings for the text-generation dispatch layer. Exactly
// one backend is selected at construction time from the Model identifier.
type LLMConfig struct {
	HTTPConfig `yaml:",inline"`

	// Model is the model identifier the pipeline was asked to use
	// (e.g. "gpt-4o", "typhoon-v2.5-30b-a3b-instruct", "gemini-2.5-pro").
	Model string `json:"model" yaml:"model"`

	OpenAIAPIKey  string `json:"openai_api_key,omitempty" yaml:"openai_api_key,omitempty"`
	TyphoonAPIKey string `json:"typhoon_api_key,omitempty" yaml:"typhoon_api_key,omitempty"`
	GeminiAPIKey  string `json:"gemini_api_key,omitempty" yaml:"gemini_api_key,omitempty"`

	// AzureAPIKey and AzureEndpoint configure the Azure OpenAI backend.
	AzureAPIKey   string `json:"azure_api_key,omitempty" yaml:"azure_api_key,omitempty"`
	AzureEndpoint string `json:"azure_endpoint,omitempty" yaml:"azure_endpoint,omitempty"`

	// MaxRetries bounds transient-failure retries per model call (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// StoreConfig holds settings for the usage/audit store.
type StoreConfig struct {
	// Path is the SQLite database file (default "data/deepresearch.db").
	Path string `json:"path" yaml:"path"`
}

// ExportConfig holds settings for the optional export stage.
type ExportConfig struct {
	// Dir is the directory for JSON export artifacts (default "exports").
	Dir string `json:"dir" yaml:"dir"`
}

// PipelineConfig groups all component configurations for one engine.
type PipelineConfig struct {
	Search SearchConfig `json:"search" yaml:"search"`
	LLM    LLMConfig    `json:"llm" yaml:"llm"`
	Store  StoreConfig  `json:"store" yaml:"store"`
	Export ExportConfig `json:"export" yaml:"export"`
}
