package vectorgov

import (
	"net/http"
	"time"
)

// Version is the SDK release, sent in the User-Agent header.
const Version = "0.15.1"

// DefaultBaseURL is the production API endpoint including the versioned
// path prefix.
const DefaultBaseURL = "https://vectorgov.io/api/v1"

// EnvAPIKey is the environment variable consulted when no API key is
// passed to New. It is read exactly once, at construction.
const EnvAPIKey = "VECTORGOV_API_KEY"

// apiKeyPrefix is the fixed prefix every valid VectorGov key carries.
const apiKeyPrefix = "vg_"

// SearchMode selects the server-side quality/latency tradeoff.
type SearchMode string

const (
	ModeFast     SearchMode = "fast"
	ModeBalanced SearchMode = "balanced"
	ModePrecise  SearchMode = "precise"
)

func (m SearchMode) valid() bool {
	switch m {
	case ModeFast, ModeBalanced, ModePrecise:
		return true
	}
	return false
}

// modeSettings is the per-mode pipeline configuration sent with each search
// request. Cache stays off in every mode; callers opt in per call.
type modeSettings struct {
	UseHyDE     bool
	UseReranker bool
	UseCache    bool
}

var modeConfig = map[SearchMode]modeSettings{
	ModeFast:     {UseHyDE: false, UseReranker: false, UseCache: false},
	ModeBalanced: {UseHyDE: false, UseReranker: true, UseCache: false},
	ModePrecise:  {UseHyDE: true, UseReranker: true, UseCache: false},
}

// clientConfig is fixed at construction and never mutated afterwards, which
// is what makes a Client safe for concurrent use.
type clientConfig struct {
	apiKey      string
	baseURL     string
	timeout     time.Duration
	defaultTopK int
	defaultMode SearchMode
	maxRetries  int
	retryDelay  time.Duration
	httpClient  *http.Client
}

func defaultConfig() clientConfig {
	return clientConfig{
		baseURL:     DefaultBaseURL,
		timeout:     30 * time.Second,
		defaultTopK: 5,
		defaultMode: ModeBalanced,
		maxRetries:  3,
		retryDelay:  time.Second,
	}
}

// Option configures a Client at construction time.
type Option func(*clientConfig)

// WithAPIKey sets the API key explicitly instead of reading EnvAPIKey.
func WithAPIKey(key string) Option {
	return func(c *clientConfig) { c.apiKey = key }
}

// WithBaseURL overrides the API endpoint, mainly for staging and tests.
func WithBaseURL(url string) Option {
	return func(c *clientConfig) { c.baseURL = url }
}

// WithTimeout sets the per-request deadline. Default 30s.
func WithTimeout(d time.Duration) Option {
	return func(c *clientConfig) { c.timeout = d }
}

// WithDefaultTopK sets the result count used when a search does not
// specify one. Default 5.
func WithDefaultTopK(k int) Option {
	return func(c *clientConfig) { c.defaultTopK = k }
}

// WithDefaultMode sets the search mode used when a search does not specify
// one. Default ModeBalanced.
func WithDefaultMode(m SearchMode) Option {
	return func(c *clientConfig) { c.defaultMode = m }
}

// WithMaxRetries sets how many attempts a retryable request makes before
// the last failure is surfaced. Default 3.
func WithMaxRetries(n int) Option {
	return func(c *clientConfig) { c.maxRetries = n }
}

// WithRetryDelay sets the base backoff delay. Default 1s.
func WithRetryDelay(d time.Duration) Option {
	return func(c *clientConfig) { c.retryDelay = d }
}

// WithHTTPClient substitutes the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *clientConfig) { c.httpClient = hc }
}

// SystemPrompts are the canned system prompts shipped with the SDK, keyed
// by style. They match the prompts the hosted playground uses.
var SystemPrompts = map[string]string{
	"default": "Você é um assistente especializado em legislação brasileira de " +
		"licitações e contratos públicos. Responda com base exclusivamente no " +
		"contexto fornecido, citando os dispositivos legais no formato " +
		"[Lei 14.133/2021, Art. 33]. Se a informação não estiver no contexto, " +
		"diga que não encontrou fundamentação.",
	"concise": "Você é um assistente jurídico objetivo. Responda em no máximo " +
		"três frases, sempre citando o dispositivo legal que fundamenta a resposta. " +
		"Use apenas o contexto fornecido.",
	"detailed": "Você é um consultor especializado em direito administrativo e " +
		"na Lei 14.133/2021. Responda de forma estruturada: fundamentação legal, " +
		"explicação prática e observações relevantes. Cite cada dispositivo usado " +
		"no formato [Lei 14.133/2021, Art. 33, Inc. III]. Use apenas o contexto " +
		"fornecido e aponte explicitamente lacunas quando existirem.",
	"chatbot": "Você é um atendente virtual amigável que ajuda servidores " +
		"públicos com dúvidas sobre licitações e contratos. Responda em linguagem " +
		"acessível, sem jargão desnecessário, citando a base legal ao final. " +
		"Baseie-se apenas no contexto fornecido.",
}

// AvailablePrompts lists the SystemPrompts styles in a stable order.
func AvailablePrompts() []string {
	return []string{"default", "concise", "detailed", "chatbot"}
}
