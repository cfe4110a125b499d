package model

// ================ Config ================
type ConversationConfig struct {
	StateTTL string `envconfig:"CONVERSATION_STATE_TTL" default:"1h"`
	Graph    struct {
		MaxHops int `envconfig:"GRAPH_MAX_HOPS" default:"50"`
	}
	Cache struct {
		SearchTTL string `envconfig:"SEARCH_CACHE_TTL" default:"3h"`
	}
}

type ClassifierModelConfig struct {
	Model       string  `envconfig:"CLASSIFIER_MODEL" default:"gemini-2.5-flash-lite"`
	MaxTokens   int     `envconfig:"CLASSIFIER_MAX_TOKENS" default:"1000"`
	Temperature float32 `envconfig:"CLASSIFIER_TEMPERATURE" default:"0.1"`
	Timeout     string  `envconfig:"CLASSIFIER_TIMEOUT" default:"8s"`
}

type GeneratorModelConfig struct {
	Model       string  `envconfig:"GENERATOR_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"GENERATOR_MAX_TOKENS" default:"4000"`
	Temperature float32 `envconfig:"GENERATOR_TEMPERATURE" default:"0.6"`
	Timeout     string  `envconfig:"GENERATOR_TIMEOUT" default:"45s"`
}

type SearchProviderConfig struct {
	SerpAPIKey     string `envconfig:"SERPAPI_API_KEY" required:"true"`
	WeatherAPIKey  string `envconfig:"OPENWEATHERMAP_API_KEY" required:"true"`
	Currency       string `envconfig:"SEARCH_CURRENCY" default:"INR"`
	RequestTimeout string `envconfig:"SEARCH_REQUEST_TIMEOUT" default:"30s"`
}
