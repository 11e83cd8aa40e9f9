package model

// LLM providers understood by the classifier.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Config is the process-wide configuration. It is built once at startup
// and never mutated afterwards.
type Config struct {
	APIKey         string `yaml:"api_key"` // shared secret checked on every request
	ListenAddr     string `yaml:"listen_addr"`
	Verbose        bool   `yaml:"verbose"`
	LogFormat      string `yaml:"log_format"` // json or text
	OutboundProxy  string `yaml:"outbound_proxy"`
	TimeoutSeconds int    `yaml:"timeout_seconds"` // 0 means no client timeout

	LLM      LLMConfig      `yaml:"llm"`
	Search   SearchConfig   `yaml:"search"`
	Registry RegistryConfig `yaml:"registry"`
}

// LLMConfig selects and configures the text-generation backend.
type LLMConfig struct {
	Provider string `yaml:"provider"`
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
}

// SearchConfig configures the evidence gatherer.
type SearchConfig struct {
	BaseURL    string `yaml:"base_url"`
	MaxResults int    `yaml:"max_results"`
	UserAgent  string `yaml:"user_agent"`
}

// RegistryConfig configures the ASN and RDAP lookups.
type RegistryConfig struct {
	RDAPBaseURL  string `yaml:"rdap_base_url"` // overrides the per-RIR endpoints
	DNSServer    string `yaml:"dns_server"`    // host:port used for Team Cymru queries
	GeoIPASNPath string `yaml:"geoip_asn_path"`
}
