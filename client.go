// Package vectorgov is the Go client for the VectorGov semantic-search API
// for Brazilian legal documents.
//
// Basic usage:
//
//	vg, err := vectorgov.New(vectorgov.WithAPIKey("vg_xxx"))
//	if err != nil { ... }
//	result, err := vg.Search(ctx, "O que é ETP?")
//	if err != nil { ... }
//	fmt.Println(result.ToContext(0))
//
// The client performs no search, ranking, or caching of its own: it builds
// requests, parses responses into typed models, retries transient HTTP
// failures, and converts results into the calling conventions of the
// major LLM providers (see the integrations subpackages and the MCP server
// under cmd/vectorgov-mcp).
package vectorgov

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Client is the entry point to the VectorGov API. Its configuration is
// fixed at construction, so a single Client is safe for concurrent use.
type Client struct {
	cfg       clientConfig
	transport transport
}

// New builds a Client. The API key comes from WithAPIKey or, failing that,
// the VECTORGOV_API_KEY environment variable, resolved once here and never
// re-read.
func New(opts ...Option) (*Client, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.apiKey == "" {
		cfg.apiKey = os.Getenv(EnvAPIKey)
	}
	if cfg.apiKey == "" {
		return nil, newAuthError("API key missing: pass WithAPIKey or set " + EnvAPIKey)
	}
	if !strings.HasPrefix(cfg.apiKey, apiKeyPrefix) {
		return nil, newAuthError("invalid API key format: keys start with " + apiKeyPrefix)
	}
	return &Client{cfg: cfg, transport: newHTTPTransport(cfg)}, nil
}

// Filters narrows a search to a document type, year, or issuing body.
type Filters struct {
	Type        string
	Year        int
	IssuingBody string
}

type searchParams struct {
	topK     int
	mode     SearchMode
	filters  *Filters
	useCache bool
}

// SearchOption tunes a single Search or AskStream call.
type SearchOption func(*searchParams)

// WithTopK sets the number of results for this call (1-50).
func WithTopK(k int) SearchOption {
	return func(p *searchParams) { p.topK = k }
}

// WithMode sets the search mode for this call.
func WithMode(m SearchMode) SearchOption {
	return func(p *searchParams) { p.mode = m }
}

// WithFilters narrows this call to matching documents.
func WithFilters(f Filters) SearchOption {
	return func(p *searchParams) { p.filters = &f }
}

// WithCache opts this call into the shared server-side cache. Off by
// default for privacy: cached entries are visible across clients.
func WithCache(use bool) SearchOption {
	return func(p *searchParams) { p.useCache = use }
}

func (c *Client) resolveSearchParams(query string, opts []SearchOption) (string, searchParams, error) {
	p := searchParams{topK: c.cfg.defaultTopK, mode: c.cfg.defaultMode}
	for _, opt := range opts {
		opt(&p)
	}

	query = strings.TrimSpace(query)
	if len([]rune(query)) < 3 {
		return "", p, newValidationError("query must be at least 3 characters", "query")
	}
	if len([]rune(query)) > 1000 {
		return "", p, newValidationError("query must be at most 1000 characters", "query")
	}
	if p.topK < 1 || p.topK > 50 {
		return "", p, newValidationError("top_k must be between 1 and 50", "top_k")
	}
	if !p.mode.valid() {
		return "", p, newValidationError(
			fmt.Sprintf("invalid mode %q: use fast, balanced or precise", p.mode), "mode")
	}
	return query, p, nil
}

func (p searchParams) requestBody(query string) map[string]any {
	settings := modeConfig[p.mode]
	body := map[string]any{
		"query":        query,
		"top_k":        p.topK,
		"mode":         string(p.mode),
		"use_hyde":     settings.UseHyDE,
		"use_reranker": settings.UseReranker,
		"use_cache":    p.useCache || settings.UseCache,
	}
	if p.filters != nil {
		if p.filters.Type != "" {
			body["tipo_documento"] = p.filters.Type
		}
		if p.filters.Year != 0 {
			body["ano"] = p.filters.Year
		}
		if p.filters.IssuingBody != "" {
			body["orgao"] = p.filters.IssuingBody
		}
	}
	return body
}

// Search queries the knowledge base. All validation happens before any
// network call; the search POST is marked retryable because the server
// treats it as idempotent.
func (c *Client) Search(ctx context.Context, query string, opts ...SearchOption) (*SearchResult, error) {
	query, p, err := c.resolveSearchParams(query, opts)
	if err != nil {
		return nil, err
	}
	body, err := c.transport.request(ctx, http.MethodPost, "/sdk/search", nil, p.requestBody(query), requestOpts{retryable: true})
	if err != nil {
		return nil, err
	}
	return parseSearchResult(query, p.mode, body)
}

// AskStream asks the question and streams the generated answer as SSE
// events: start, retrieval, token fragments, then a complete event
// carrying citations and a query hash usable with Feedback.
func (c *Client) AskStream(ctx context.Context, query string, opts ...SearchOption) (*EventStream, error) {
	query, p, err := c.resolveSearchParams(query, opts)
	if err != nil {
		return nil, err
	}
	return c.transport.stream(ctx, "/sdk/ask/stream", p.requestBody(query))
}

// Feedback posts a like/dislike signal for a prior result. queryID must
// come from SearchResult.QueryID or StoreResponseResult.QueryHash; its
// structure is opaque here and the server owns the correlation.
func (c *Client) Feedback(ctx context.Context, queryID string, like bool) (bool, error) {
	if strings.TrimSpace(queryID) == "" {
		return false, newValidationError("query_id must not be empty", "query_id")
	}
	body, err := c.transport.request(ctx, http.MethodPost, "/sdk/feedback", nil,
		map[string]any{"query_id": queryID, "is_like": like}, requestOpts{})
	if err != nil {
		return false, err
	}
	var resp struct {
		Success bool `json:"success"`
	}
	if err := decodeJSON(body, &resp); err != nil {
		return false, err
	}
	return resp.Success, nil
}

type lookupParams struct {
	collection      string
	includeParent   bool
	includeSiblings bool
}

// LookupOption tunes a Lookup call.
type LookupOption func(*lookupParams)

// WithCollection selects the collection to resolve against.
func WithCollection(name string) LookupOption {
	return func(p *lookupParams) { p.collection = name }
}

// WithoutHierarchy drops the parent and sibling provisions from the
// response.
func WithoutHierarchy() LookupOption {
	return func(p *lookupParams) { p.includeParent, p.includeSiblings = false, false }
}

// Lookup resolves a textual reference such as "Art. 33 da Lei 14.133" to
// the exact provision, including its parent and siblings by default.
func (c *Client) Lookup(ctx context.Context, reference string, opts ...LookupOption) (*LookupResult, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, newValidationError("reference must not be empty", "reference")
	}
	p := lookupParams{collection: "leis_v4", includeParent: true, includeSiblings: true}
	for _, opt := range opts {
		opt(&p)
	}
	body, err := c.transport.request(ctx, http.MethodPost, "/sdk/lookup", nil, map[string]any{
		"reference":        reference,
		"collection":       p.collection,
		"include_parent":   p.includeParent,
		"include_siblings": p.includeSiblings,
	}, requestOpts{retryable: true})
	if err != nil {
		return nil, err
	}
	return parseLookupResult(reference, body)
}

// StoreResponseRequest registers an answer generated by an external LLM so
// the feedback loop covers it.
type StoreResponseRequest struct {
	Query        string
	Answer       string
	Provider     string
	Model        string
	ChunksUsed   int
	LatencyMS    float64
	RetrievalMS  float64
	GenerationMS float64
}

// StoreResponse stores an externally generated answer and returns the
// query hash to use with Feedback.
func (c *Client) StoreResponse(ctx context.Context, req StoreResponseRequest) (*StoreResponseResult, error) {
	for field, value := range map[string]string{
		"query":    req.Query,
		"answer":   req.Answer,
		"provider": req.Provider,
		"model":    req.Model,
	} {
		if strings.TrimSpace(value) == "" {
			return nil, newValidationError(field+" must not be empty", field)
		}
	}
	body, err := c.transport.request(ctx, http.MethodPost, "/cache/store", nil, map[string]any{
		"query":         strings.TrimSpace(req.Query),
		"answer":        strings.TrimSpace(req.Answer),
		"provider":      strings.TrimSpace(req.Provider),
		"model":         strings.TrimSpace(req.Model),
		"chunks_used":   req.ChunksUsed,
		"latency_ms":    req.LatencyMS,
		"retrieval_ms":  req.RetrievalMS,
		"generation_ms": req.GenerationMS,
	}, requestOpts{})
	if err != nil {
		return nil, err
	}
	var resp struct {
		Success   bool   `json:"success"`
		QueryHash string `json:"query_hash"`
		Message   string `json:"message"`
	}
	if err := decodeJSON(body, &resp); err != nil {
		return nil, err
	}
	return &StoreResponseResult{Success: resp.Success, QueryHash: resp.QueryHash, Message: resp.Message}, nil
}

// EstimateTokens counts tokens server-side for an arbitrary text.
func (c *Client) EstimateTokens(ctx context.Context, content string) (*TokenStats, error) {
	if strings.TrimSpace(content) == "" {
		return nil, newValidationError("content must not be empty", "content")
	}
	return c.estimateTokens(ctx, content, "", "", 0)
}

// EstimateResultTokens counts tokens for the full prompt a SearchResult
// would produce via ToMessages. query and systemPrompt default the same
// way ToMessages defaults them.
func (c *Client) EstimateResultTokens(ctx context.Context, result *SearchResult, query, systemPrompt string) (*TokenStats, error) {
	if result == nil {
		return nil, newValidationError("result must not be nil", "result")
	}
	if query == "" {
		query = result.Query
	}
	return c.estimateTokens(ctx, result.ToContext(0), query, systemPrompt, len(result.Hits))
}

func (c *Client) estimateTokens(ctx context.Context, contextText, query, systemPrompt string, hitsCount int) (*TokenStats, error) {
	body, err := c.transport.request(ctx, http.MethodPost, "/sdk/tokens", nil, map[string]any{
		"context":       contextText,
		"query":         query,
		"system_prompt": systemPrompt,
	}, requestOpts{retryable: true})
	if err != nil {
		return nil, err
	}
	var resp struct {
		ContextTokens int    `json:"context_tokens"`
		SystemTokens  int    `json:"system_tokens"`
		QueryTokens   int    `json:"query_tokens"`
		TotalTokens   int    `json:"total_tokens"`
		CharCount     int    `json:"char_count"`
		Encoding      string `json:"encoding"`
	}
	if err := decodeJSON(body, &resp); err != nil {
		return nil, err
	}
	encoding := resp.Encoding
	if encoding == "" {
		encoding = "cl100k_base"
	}
	return &TokenStats{
		ContextTokens: resp.ContextTokens,
		SystemTokens:  resp.SystemTokens,
		QueryTokens:   resp.QueryTokens,
		TotalTokens:   resp.TotalTokens,
		HitsCount:     hitsCount,
		CharCount:     resp.CharCount,
		Encoding:      encoding,
	}, nil
}

// SystemPrompt returns a canned system prompt by style, falling back to
// the default style for unknown names.
func (c *Client) SystemPrompt(style string) string {
	if p, ok := SystemPrompts[style]; ok {
		return p
	}
	return SystemPrompts["default"]
}

// ---------------------------------------------------------------------------
// Document management
// ---------------------------------------------------------------------------

// ListDocuments returns one page of the knowledge base listing. page
// defaults to 1 and limit to 20 when zero.
func (c *Client) ListDocuments(ctx context.Context, page, limit int) (*DocumentsResponse, error) {
	if page == 0 {
		page = 1
	}
	if limit == 0 {
		limit = 20
	}
	if limit < 1 || limit > 100 {
		return nil, newValidationError("limit must be between 1 and 100", "limit")
	}
	if page < 1 {
		return nil, newValidationError("page must be positive", "page")
	}
	query := url.Values{"page": {strconv.Itoa(page)}, "limit": {strconv.Itoa(limit)}}
	body, err := c.transport.request(ctx, http.MethodGet, "/sdk/documents", query, nil, requestOpts{})
	if err != nil {
		return nil, err
	}
	var w wireDocumentsResponse
	if err := decodeJSON(body, &w); err != nil {
		return nil, err
	}
	docs := make([]DocumentSummary, 0, len(w.Documents))
	for _, d := range w.Documents {
		docs = append(docs, d.toSummary())
	}
	total := len(docs)
	if w.Total != nil {
		total = *w.Total
	}
	pages := w.Pages
	if pages == 0 {
		pages = 1
	}
	resp := &DocumentsResponse{Documents: docs, Total: total, Page: w.Page, Pages: pages}
	if resp.Page == 0 {
		resp.Page = page
	}
	return resp, nil
}

// GetDocument fetches one document summary by ID.
func (c *Client) GetDocument(ctx context.Context, documentID string) (*DocumentSummary, error) {
	if strings.TrimSpace(documentID) == "" {
		return nil, newValidationError("document_id must not be empty", "document_id")
	}
	body, err := c.transport.request(ctx, http.MethodGet, "/sdk/documents/"+url.PathEscape(documentID), nil, nil, requestOpts{})
	if err != nil {
		return nil, err
	}
	var w wireDocument
	if err := decodeJSON(body, &w); err != nil {
		return nil, err
	}
	doc := w.toSummary()
	return &doc, nil
}

var validDocumentTypes = map[string]bool{
	"LEI": true, "DECRETO": true, "IN": true, "PORTARIA": true, "RESOLUCAO": true,
}

// UploadPDF uploads a PDF for ingestion. Ingestion is asynchronous: the
// response carries a task ID to poll with GetIngestStatus; this client
// never polls on the caller's behalf.
func (c *Client) UploadPDF(ctx context.Context, filePath, documentType, number string, year int) (*UploadResponse, error) {
	if !strings.EqualFold(filepath.Ext(filePath), ".pdf") {
		return nil, newValidationError("only PDF files are accepted", "file_path")
	}
	documentType = strings.ToUpper(documentType)
	if !validDocumentTypes[documentType] {
		return nil, newValidationError("document type must be one of LEI, DECRETO, IN, PORTARIA, RESOLUCAO", "tipo_documento")
	}
	if number == "" {
		return nil, newValidationError("number must not be empty", "numero")
	}
	if year < 1900 || year > 2100 {
		return nil, newValidationError("year out of range", "ano")
	}

	f, err := os.Open(filePath)
	if err != nil {
		return nil, newValidationError("cannot open file: "+err.Error(), "file_path")
	}
	defer f.Close()

	fields := map[string]string{
		"tipo_documento": documentType,
		"numero":         number,
		"ano":            strconv.Itoa(year),
	}
	body, err := c.transport.upload(ctx, "/sdk/documents/upload", fields, "file", filepath.Base(filePath), f)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Success    *bool  `json:"success"`
		Message    string `json:"message"`
		DocumentID string `json:"document_id"`
		TaskID     string `json:"task_id"`
	}
	if err := decodeJSON(body, &resp); err != nil {
		return nil, err
	}
	success := true
	if resp.Success != nil {
		success = *resp.Success
	}
	return &UploadResponse{Success: success, Message: resp.Message, DocumentID: resp.DocumentID, TaskID: resp.TaskID}, nil
}

// GetIngestStatus returns a snapshot of an ingestion task.
func (c *Client) GetIngestStatus(ctx context.Context, taskID string) (*IngestStatus, error) {
	if strings.TrimSpace(taskID) == "" {
		return nil, newValidationError("task_id must not be empty", "task_id")
	}
	body, err := c.transport.request(ctx, http.MethodGet, "/sdk/ingest/status/"+url.PathEscape(taskID), nil, nil, requestOpts{})
	if err != nil {
		return nil, err
	}
	var resp struct {
		Status        string `json:"status"`
		Progress      int    `json:"progress"`
		Message       string `json:"message"`
		DocumentID    string `json:"document_id"`
		ChunksCreated int    `json:"chunks_created"`
	}
	if err := decodeJSON(body, &resp); err != nil {
		return nil, err
	}
	return &IngestStatus{
		TaskID:        taskID,
		Status:        TaskState(resp.Status),
		Progress:      resp.Progress,
		Message:       resp.Message,
		DocumentID:    resp.DocumentID,
		ChunksCreated: resp.ChunksCreated,
	}, nil
}

// StartEnrichment kicks off server-side enrichment of a document and
// returns the task ID to poll with GetEnrichmentStatus.
func (c *Client) StartEnrichment(ctx context.Context, documentID string) (string, error) {
	if strings.TrimSpace(documentID) == "" {
		return "", newValidationError("document_id must not be empty", "document_id")
	}
	body, err := c.transport.request(ctx, http.MethodPost,
		"/sdk/documents/"+url.PathEscape(documentID)+"/enrich", nil, nil, requestOpts{})
	if err != nil {
		return "", err
	}
	var resp struct {
		TaskID string `json:"task_id"`
	}
	if err := decodeJSON(body, &resp); err != nil {
		return "", err
	}
	return resp.TaskID, nil
}

// GetEnrichmentStatus returns a snapshot of an enrichment task.
func (c *Client) GetEnrichmentStatus(ctx context.Context, taskID string) (*EnrichStatus, error) {
	if strings.TrimSpace(taskID) == "" {
		return nil, newValidationError("task_id must not be empty", "task_id")
	}
	body, err := c.transport.request(ctx, http.MethodGet, "/sdk/enrich/status/"+url.PathEscape(taskID), nil, nil, requestOpts{})
	if err != nil {
		return nil, err
	}
	var resp struct {
		Status         string   `json:"status"`
		Progress       float64  `json:"progress"`
		ChunksEnriched int      `json:"chunks_enriched"`
		ChunksPending  int      `json:"chunks_pending"`
		ChunksFailed   int      `json:"chunks_failed"`
		Errors         []string `json:"errors"`
	}
	if err := decodeJSON(body, &resp); err != nil {
		return nil, err
	}
	return &EnrichStatus{
		TaskID:         taskID,
		Status:         TaskState(resp.Status),
		Progress:       resp.Progress,
		ChunksEnriched: resp.ChunksEnriched,
		ChunksPending:  resp.ChunksPending,
		ChunksFailed:   resp.ChunksFailed,
		Errors:         resp.Errors,
	}, nil
}

// DeleteDocument removes a document and its chunks from the knowledge
// base.
func (c *Client) DeleteDocument(ctx context.Context, documentID string) (*DeleteResponse, error) {
	if strings.TrimSpace(documentID) == "" {
		return nil, newValidationError("document_id must not be empty", "document_id")
	}
	body, err := c.transport.request(ctx, http.MethodDelete, "/sdk/documents/"+url.PathEscape(documentID), nil, nil, requestOpts{})
	if err != nil {
		return nil, err
	}
	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := decodeJSON(body, &resp); err != nil {
		return nil, err
	}
	return &DeleteResponse{Success: resp.Success, Message: resp.Message}, nil
}

// ---------------------------------------------------------------------------
// Audit
// ---------------------------------------------------------------------------

// AuditLogsQuery filters GetAuditLogs. Zero values mean defaults: limit
// 50, page 1, no filters.
type AuditLogsQuery struct {
	Limit         int
	Page          int
	Severity      string
	EventType     string
	EventCategory string
	StartDate     string
	EndDate       string
}

var validSeverities = map[string]bool{"info": true, "warning": true, "critical": true}
var validCategories = map[string]bool{"security": true, "performance": true, "validation": true}

// GetAuditLogs returns the caller's own audit events, paginated. All
// aggregation and access control is server-side.
func (c *Client) GetAuditLogs(ctx context.Context, q AuditLogsQuery) (*AuditLogsResponse, error) {
	if q.Limit == 0 {
		q.Limit = 50
	}
	if q.Page == 0 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > 100 {
		return nil, newValidationError("limit must be between 1 and 100", "limit")
	}
	if q.Page < 1 {
		return nil, newValidationError("page must be positive", "page")
	}
	if q.Severity != "" && !validSeverities[q.Severity] {
		return nil, newValidationError("severity must be info, warning or critical", "severity")
	}
	if q.EventCategory != "" && !validCategories[q.EventCategory] {
		return nil, newValidationError("event_category must be security, performance or validation", "event_category")
	}

	params := url.Values{"limit": {strconv.Itoa(q.Limit)}, "page": {strconv.Itoa(q.Page)}}
	for key, value := range map[string]string{
		"severity":       q.Severity,
		"event_type":     q.EventType,
		"event_category": q.EventCategory,
		"start_date":     q.StartDate,
		"end_date":       q.EndDate,
	} {
		if value != "" {
			params.Set(key, value)
		}
	}
	body, err := c.transport.request(ctx, http.MethodGet, "/sdk/audit/logs", params, nil, requestOpts{})
	if err != nil {
		return nil, err
	}
	resp, err := parseAuditLogs(body)
	if err != nil {
		return nil, err
	}
	if resp.Page == 0 {
		resp.Page = q.Page
	}
	if resp.Limit == 0 {
		resp.Limit = q.Limit
	}
	return resp, nil
}

// GetAuditStats returns aggregate audit counters over the last days
// (1-90, default 30 when zero).
func (c *Client) GetAuditStats(ctx context.Context, days int) (*AuditStats, error) {
	if days == 0 {
		days = 30
	}
	if days < 1 || days > 90 {
		return nil, newValidationError("days must be between 1 and 90", "days")
	}
	body, err := c.transport.request(ctx, http.MethodGet, "/sdk/audit/stats",
		url.Values{"days": {strconv.Itoa(days)}}, nil, requestOpts{})
	if err != nil {
		return nil, err
	}
	var resp struct {
		TotalEvents      int            `json:"total_events"`
		EventsByType     map[string]int `json:"events_by_type"`
		EventsBySeverity map[string]int `json:"events_by_severity"`
		EventsByCategory map[string]int `json:"events_by_category"`
		BlockedCount     int            `json:"blocked_count"`
		WarningCount     int            `json:"warning_count"`
		PeriodDays       int            `json:"period_days"`
	}
	if err := decodeJSON(body, &resp); err != nil {
		return nil, err
	}
	period := resp.PeriodDays
	if period == 0 {
		period = days
	}
	return &AuditStats{
		TotalEvents:      resp.TotalEvents,
		EventsByType:     resp.EventsByType,
		EventsBySeverity: resp.EventsBySeverity,
		EventsByCategory: resp.EventsByCategory,
		BlockedCount:     resp.BlockedCount,
		WarningCount:     resp.WarningCount,
		PeriodDays:       period,
	}, nil
}

// GetAuditEventTypes lists the audit event types the server can emit.
func (c *Client) GetAuditEventTypes(ctx context.Context) ([]string, error) {
	body, err := c.transport.request(ctx, http.MethodGet, "/sdk/audit/event-types", nil, nil, requestOpts{})
	if err != nil {
		return nil, err
	}
	var resp struct {
		Types []string `json:"types"`
	}
	if err := decodeJSON(body, &resp); err != nil {
		return nil, err
	}
	return resp.Types, nil
}
