package vectorgov

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Metadata describes where a retrieved chunk came from in the normative
// hierarchy. Extra carries wire fields not yet promoted to first-class
// attributes.
type Metadata struct {
	DocumentType   string
	DocumentNumber string
	Year           int
	Article        string
	Paragraph      string
	Item           string
	IssuingBody    string
	Extra          map[string]any
}

// String renders a human-readable citation, e.g.
// "LEI 14.133/2021, Art. 33, §1, inciso III".
func (m Metadata) String() string {
	parts := []string{fmt.Sprintf("%s %s/%d", strings.ToUpper(m.DocumentType), m.DocumentNumber, m.Year)}
	if m.Article != "" {
		parts = append(parts, "Art. "+m.Article)
	}
	if m.Paragraph != "" {
		parts = append(parts, "§"+m.Paragraph)
	}
	if m.Item != "" {
		parts = append(parts, "inciso "+m.Item)
	}
	return strings.Join(parts, ", ")
}

// Hit is one retrieved text chunk. Hits have no lifecycle of their own;
// they are owned by the result that contains them.
type Hit struct {
	Text     string
	Score    float64
	Source   string
	Metadata Metadata
	ChunkID  string
	Context  string

	// Curation fields, present only on curated chunks.
	ExpertNote   string
	TCUCaseLaw   string
	TCURulingKey string
	TCURulingURL string

	// Graph retrieval fields, delivered since API v0.15. PureRerankScore
	// is only set when the server ran the reranker stage.
	StitchedText         string
	PureRerankScore      *float64
	NodeID               string
	DocumentID           string
	DeviceType           string
	ParentNodeID         string
	IsParent             bool
	IsSibling            bool
	IsChildOfSeed        bool
	GraphBoostApplied    bool
	CurationBoostApplied bool
	EvidenceURL          string
	DocumentURL          string
	SHA256Source         string

	// Provenance for material pulled in from outside the seed corpus.
	OriginType          string
	OriginReference     string
	OriginReferenceName string
	IsExternalMaterial  bool
	Theme               string
}

// ExpandedChunk is a provision pulled into the result because a direct hit
// cites it. It rides along with the search hits but never displaces them.
type ExpandedChunk struct {
	ChunkID           string
	NodeID            string
	Text              string
	DocumentID        string
	SpanID            string
	DeviceType        string
	SourceChunkID     string
	SourceCitationRaw string
}

// CitationExpansionStats summarizes the server-side citation expansion
// pass that produced the expanded chunks.
type CitationExpansionStats struct {
	ExpandedChunksCount   int
	CitationsScannedCount int
	CitationsResolved     int
	ExpansionTimeMS       float64
	SkippedSelfReferences int
	SkippedDuplicates     int
	SkippedTokenBudget    int
}

// SearchResult is the parsed response of a search call. It is immutable
// once constructed; all conversion methods are read-only.
type SearchResult struct {
	Query     string
	Hits      []Hit
	Total     int
	LatencyMS int
	Cached    bool
	QueryID   string
	Mode      SearchMode
	Timestamp time.Time

	// Citation expansion output, present only when the server ran the
	// expansion pass for this query.
	ExpandedChunks []ExpandedChunk
	ExpansionStats *CitationExpansionStats
}

// Len reports the number of hits.
func (r *SearchResult) Len() int { return len(r.Hits) }

// At returns the hit at index i.
func (r *SearchResult) At(i int) Hit { return r.Hits[i] }

// Message is one entry of a chat-completion conversation in the common
// role/content shape.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ToContext concatenates the hit texts into one context block. Each hit is
// prefixed with a "[n] source" citation header. When maxChars > 0 the
// output never exceeds it: a citation header is never cut, body text is
// truncated instead, and a hit whose header leaves no room for any body
// text is dropped along with everything after it. maxChars <= 0 means
// unlimited.
//
// When the result carries citation-expanded chunks, the output is split
// into a direct evidence section and a "TRECHOS CITADOS" section so the
// model can tell search hits from provisions pulled in by citation.
// Expanded chunks are appended whole or not at all.
func (r *SearchResult) ToContext(maxChars int) string {
	var out []rune
	remaining := func() int {
		if maxChars <= 0 {
			return int(^uint(0) >> 1)
		}
		return maxChars - len(out)
	}

	expanded := len(r.ExpandedChunks) > 0
	if expanded {
		header := []rune("=== EVIDÊNCIA DIRETA (resultados da busca) ===\n")
		if len(header) > remaining() {
			return ""
		}
		out = append(out, header...)
	}

	for i, hit := range r.Hits {
		entry := []rune(fmt.Sprintf("[%d] %s\n", i+1, hit.Source))
		body := hit.Text
		if hit.ExpertNote != "" {
			body += "\n[Nota do Especialista]: " + hit.ExpertNote
		}
		if hit.TCUCaseLaw != "" {
			body += "\n[Jurisprudência TCU]: " + hit.TCUCaseLaw
			if hit.TCURulingURL != "" {
				body += "\n[Link Acórdão]: " + hit.TCURulingURL
			}
		}
		bodyRunes := []rune(body)

		sep := 0
		if i > 0 {
			sep = 1 // "\n" between entries
		}
		// The header only goes in if at least one rune of body fits after it.
		if len(entry)+sep+1 > remaining() {
			break
		}
		if sep == 1 {
			out = append(out, '\n')
		}
		out = append(out, entry...)
		if len(bodyRunes) > remaining() {
			bodyRunes = bodyRunes[:remaining()]
		}
		out = append(out, bodyRunes...)
	}

	if expanded {
		sep := []rune("\n\n=== TRECHOS CITADOS (expansão por citação) ===")
		if len(sep) > remaining() {
			return string(out)
		}
		out = append(out, sep...)
		for j, ec := range r.ExpandedChunks {
			block := []rune("\n" + ec.format(j+1))
			if len(block) > remaining() {
				return string(out)
			}
			out = append(out, block...)
		}
		if r.ExpansionStats != nil {
			s := r.ExpansionStats
			line := []rune(fmt.Sprintf("\n[Expansão: encontradas=%d, resolvidas=%d, expandidas=%d, tempo=%.0fms]",
				s.CitationsScannedCount, s.CitationsResolved, s.ExpandedChunksCount, s.ExpansionTimeMS))
			if len(line) <= remaining() {
				out = append(out, line...)
			}
		}
	}
	return string(out)
}

// format renders one expanded chunk with its traceability lines. j is the
// 1-based position in the expansion section.
func (ec ExpandedChunk) format(j int) string {
	sourceChunk := ec.SourceChunkID
	if sourceChunk == "" {
		sourceChunk = "(origem não informada)"
	}
	citationRaw := ec.SourceCitationRaw
	if citationRaw == "" {
		citationRaw = "(citação não informada)"
	}
	nodeID := ec.NodeID
	if nodeID == "" {
		nodeID = "(node_id não informado)"
	}
	deviceType := ec.DeviceType
	if deviceType == "" {
		deviceType = "unknown"
	}
	return fmt.Sprintf("[XC-%d] TRECHO CITADO (expansão por citação)\n  CITADO POR: %s\n  CITAÇÃO ORIGINAL: %s\n  ALVO (node_id): %s\n  FONTE: %s, %s (%s)\n%s",
		j, sourceChunk, citationRaw, nodeID, ec.DocumentID, ec.SpanID, deviceType, ec.Text)
}

// ToMessages builds the two-message system/user sequence most chat
// completion APIs accept. query defaults to the original search query,
// systemPrompt to SystemPrompts["default"], maxContextChars <= 0 to
// unlimited.
func (r *SearchResult) ToMessages(query, systemPrompt string, maxContextChars int) []Message {
	if query == "" {
		query = r.Query
	}
	if systemPrompt == "" {
		systemPrompt = SystemPrompts["default"]
	}
	context := r.ToContext(maxContextChars)
	return []Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: fmt.Sprintf("Contexto:\n%s\n\nPergunta: %s", context, query)},
	}
}

// ToPrompt concatenates system prompt, context, and question into a single
// string for single-prompt APIs.
func (r *SearchResult) ToPrompt(query, systemPrompt string, maxContextChars int) string {
	if query == "" {
		query = r.Query
	}
	if systemPrompt == "" {
		systemPrompt = SystemPrompts["default"]
	}
	context := r.ToContext(maxContextChars)
	return fmt.Sprintf("%s\n\nContexto:\n%s\n\nPergunta: %s\n\nResposta:", systemPrompt, context, query)
}

// ToDict converts the result into a plain JSON-serializable map, mirroring
// the shape the other VectorGov SDKs emit.
func (r *SearchResult) ToDict() map[string]any {
	hits := make([]map[string]any, 0, len(r.Hits))
	for _, hit := range r.Hits {
		h := map[string]any{
			"text":   hit.Text,
			"score":  hit.Score,
			"source": hit.Source,
			"metadata": map[string]any{
				"document_type":   hit.Metadata.DocumentType,
				"document_number": hit.Metadata.DocumentNumber,
				"year":            hit.Metadata.Year,
				"article":         hit.Metadata.Article,
				"paragraph":       hit.Metadata.Paragraph,
				"item":            hit.Metadata.Item,
			},
		}
		if hit.ExpertNote != "" {
			h["nota_especialista"] = hit.ExpertNote
		}
		if hit.TCUCaseLaw != "" {
			h["jurisprudencia_tcu"] = hit.TCUCaseLaw
		}
		if hit.TCURulingKey != "" {
			h["acordao_tcu_key"] = hit.TCURulingKey
		}
		if hit.TCURulingURL != "" {
			h["acordao_tcu_link"] = hit.TCURulingURL
		}
		hits = append(hits, h)
	}
	out := map[string]any{
		"query":      r.Query,
		"hits":       hits,
		"total":      r.Total,
		"latency_ms": r.LatencyMS,
		"cached":     r.Cached,
		"query_id":   r.QueryID,
		"mode":       string(r.Mode),
	}
	if len(r.ExpandedChunks) > 0 {
		chunks := make([]map[string]any, 0, len(r.ExpandedChunks))
		for _, ec := range r.ExpandedChunks {
			chunks = append(chunks, map[string]any{
				"chunk_id":            ec.ChunkID,
				"node_id":             ec.NodeID,
				"text":                ec.Text,
				"document_id":         ec.DocumentID,
				"span_id":             ec.SpanID,
				"device_type":         ec.DeviceType,
				"source_chunk_id":     ec.SourceChunkID,
				"source_citation_raw": ec.SourceCitationRaw,
			})
		}
		out["expanded_chunks"] = chunks
	}
	if r.ExpansionStats != nil {
		s := r.ExpansionStats
		out["expansion_stats"] = map[string]any{
			"expanded_chunks_count":    s.ExpandedChunksCount,
			"citations_scanned_count":  s.CitationsScannedCount,
			"citations_resolved_count": s.CitationsResolved,
			"expansion_time_ms":        s.ExpansionTimeMS,
			"skipped_self_references":  s.SkippedSelfReferences,
			"skipped_duplicates":       s.SkippedDuplicates,
			"skipped_token_budget":     s.SkippedTokenBudget,
		}
	}
	return out
}

// DocumentSummary describes one document in the knowledge base.
type DocumentSummary struct {
	DocumentID    string
	DocumentType  string
	Number        string
	Year          int
	Title         string
	Description   string
	ChunksCount   int
	EnrichedCount int
}

// Enriched reports whether every chunk of the document has been enriched.
func (d DocumentSummary) Enriched() bool {
	return d.ChunksCount > 0 && d.EnrichedCount >= d.ChunksCount
}

// EnrichmentProgress is the enriched fraction in [0,1].
func (d DocumentSummary) EnrichmentProgress() float64 {
	if d.ChunksCount == 0 {
		return 0
	}
	return float64(d.EnrichedCount) / float64(d.ChunksCount)
}

// DocumentsResponse is one page of the document listing.
type DocumentsResponse struct {
	Documents []DocumentSummary
	Total     int
	Page      int
	Pages     int
}

// UploadResponse acknowledges a document upload. Ingestion continues
// server-side; poll GetIngestStatus with TaskID.
type UploadResponse struct {
	Success    bool
	Message    string
	DocumentID string
	TaskID     string
}

// TaskState is the lifecycle of a server-side ingestion or enrichment
// task: pending -> processing -> completed|failed. The client only
// observes snapshots.
type TaskState string

const (
	TaskPending    TaskState = "pending"
	TaskProcessing TaskState = "processing"
	TaskCompleted  TaskState = "completed"
	TaskFailed     TaskState = "failed"
)

// IngestStatus is a snapshot of a document ingestion task.
type IngestStatus struct {
	TaskID        string
	Status        TaskState
	Progress      int
	Message       string
	DocumentID    string
	ChunksCreated int
}

// EnrichStatus is a snapshot of a document enrichment task.
type EnrichStatus struct {
	TaskID         string
	Status         TaskState
	Progress       float64
	ChunksEnriched int
	ChunksPending  int
	ChunksFailed   int
	Errors         []string
}

// DeleteResponse acknowledges a document deletion.
type DeleteResponse struct {
	Success bool
	Message string
}

// StoreResponseResult is the acknowledgement of StoreResponse. QueryHash
// is the correlation token to pass to Feedback.
type StoreResponseResult struct {
	Success   bool
	QueryHash string
	Message   string
}

// TokenStats is the server-side token count for a prompt assembled from a
// search result.
type TokenStats struct {
	ContextTokens int
	SystemTokens  int
	QueryTokens   int
	TotalTokens   int
	HitsCount     int
	CharCount     int
	Encoding      string
}

// LookupResult resolves a textual normative reference ("Art. 33 da Lei
// 14.133") to the exact provision with its hierarchical context.
type LookupResult struct {
	Reference  string
	Status     string
	LatencyMS  float64
	Message    string
	Match      *Hit
	Parent     *Hit
	Siblings   []Hit
	Candidates []LookupCandidate
}

// Found reports whether the reference resolved to a provision.
func (r *LookupResult) Found() bool { return r.Status == "found" }

// LookupCandidate is an alternative match offered when a reference is
// ambiguous.
type LookupCandidate struct {
	DocumentID   string
	NodeID       string
	Text         string
	DocumentType string
}

// AuditLog is one server-recorded security or compliance event.
type AuditLog struct {
	ID             string
	EventType      string
	EventCategory  string
	Severity       string
	QueryText      string
	DetectionTypes []string
	RiskScore      float64
	ActionTaken    string
	Endpoint       string
	ClientIP       string
	CreatedAt      string
	Details        map[string]any
}

// AuditLogsResponse is one page of audit events.
type AuditLogsResponse struct {
	Logs  []AuditLog
	Total int
	Page  int
	Pages int
	Limit int
}

// AuditStats aggregates audit events over a period. All aggregation is
// server-side.
type AuditStats struct {
	TotalEvents      int
	EventsByType     map[string]int
	EventsBySeverity map[string]int
	EventsByCategory map[string]int
	BlockedCount     int
	WarningCount     int
	PeriodDays       int
}

// ---------------------------------------------------------------------------
// Wire structs. Responses decode into these first; a decode failure leaves
// no half-built model behind.
// ---------------------------------------------------------------------------

type wireHit struct {
	Text          string         `json:"text"`
	Score         float64        `json:"score"`
	Source        string         `json:"source"`
	ChunkID       string         `json:"chunk_id"`
	ContextHeader string         `json:"context_header"`
	DocumentType  string         `json:"tipo_documento"`
	Number        string         `json:"numero"`
	Year          int            `json:"ano"`
	Article       string         `json:"article_number"`
	Paragraph     string         `json:"paragraph"`
	Item          string         `json:"inciso"`
	IssuingBody   string         `json:"orgao"`
	ExpertNote    string         `json:"nota_especialista"`
	TCUCaseLaw    string         `json:"jurisprudencia_tcu"`
	TCURulingKey  string         `json:"acordao_tcu_key"`
	TCURulingURL  string         `json:"acordao_tcu_link"`
	Extra         map[string]any `json:"extra"`

	StitchedText         string   `json:"stitched_text"`
	PureRerankScore      *float64 `json:"pure_rerank_score"`
	NodeID               string   `json:"node_id"`
	DocumentID           string   `json:"document_id"`
	DeviceType           string   `json:"device_type"`
	ParentNodeID         string   `json:"parent_node_id"`
	IsParent             bool     `json:"is_parent"`
	IsSibling            bool     `json:"is_sibling"`
	IsChildOfSeed        bool     `json:"is_child_of_seed"`
	GraphBoostApplied    bool     `json:"graph_boost_applied"`
	CurationBoostApplied bool     `json:"curation_boost_applied"`
	EvidenceURL          string   `json:"evidence_url"`
	DocumentURL          string   `json:"document_url"`
	SHA256Source         string   `json:"sha256_source"`
	OriginType           string   `json:"origin_type"`
	OriginReference      string   `json:"origin_reference"`
	OriginReferenceName  string   `json:"origin_reference_name"`
	IsExternalMaterial   bool     `json:"is_external_material"`
	Theme                string   `json:"theme"`
}

func (w wireHit) toHit() Hit {
	meta := Metadata{
		DocumentType:   w.DocumentType,
		DocumentNumber: w.Number,
		Year:           w.Year,
		Article:        w.Article,
		Paragraph:      w.Paragraph,
		Item:           w.Item,
		IssuingBody:    w.IssuingBody,
		Extra:          w.Extra,
	}
	source := w.Source
	if source == "" {
		source = meta.String()
	}
	return Hit{
		Text:         w.Text,
		Score:        w.Score,
		Source:       source,
		Metadata:     meta,
		ChunkID:      w.ChunkID,
		Context:      w.ContextHeader,
		ExpertNote:   w.ExpertNote,
		TCUCaseLaw:   w.TCUCaseLaw,
		TCURulingKey: w.TCURulingKey,
		TCURulingURL: w.TCURulingURL,

		StitchedText:         w.StitchedText,
		PureRerankScore:      w.PureRerankScore,
		NodeID:               w.NodeID,
		DocumentID:           w.DocumentID,
		DeviceType:           w.DeviceType,
		ParentNodeID:         w.ParentNodeID,
		IsParent:             w.IsParent,
		IsSibling:            w.IsSibling,
		IsChildOfSeed:        w.IsChildOfSeed,
		GraphBoostApplied:    w.GraphBoostApplied,
		CurationBoostApplied: w.CurationBoostApplied,
		EvidenceURL:          w.EvidenceURL,
		DocumentURL:          w.DocumentURL,
		SHA256Source:         w.SHA256Source,
		OriginType:           w.OriginType,
		OriginReference:      w.OriginReference,
		OriginReferenceName:  w.OriginReferenceName,
		IsExternalMaterial:   w.IsExternalMaterial,
		Theme:                w.Theme,
	}
}

type wireSearchResponse struct {
	Hits           []wireHit           `json:"hits"`
	Total          *int                `json:"total"`
	LatencyMS      int                 `json:"latency_ms"`
	Cached         bool                `json:"cached"`
	QueryID        string              `json:"query_id"`
	ExpandedChunks []wireExpandedChunk `json:"expanded_chunks"`
	ExpansionStats *wireExpansionStats `json:"expansion_stats"`
}

type wireExpandedChunk struct {
	ChunkID           string `json:"chunk_id"`
	NodeID            string `json:"node_id"`
	Text              string `json:"text"`
	DocumentID        string `json:"document_id"`
	SpanID            string `json:"span_id"`
	DeviceType        string `json:"device_type"`
	SourceChunkID     string `json:"source_chunk_id"`
	SourceCitationRaw string `json:"source_citation_raw"`
}

type wireExpansionStats struct {
	ExpandedChunksCount   int     `json:"expanded_chunks_count"`
	CitationsScannedCount int     `json:"citations_scanned_count"`
	CitationsResolved     int     `json:"citations_resolved_count"`
	ExpansionTimeMS       float64 `json:"expansion_time_ms"`
	SkippedSelfReferences int     `json:"skipped_self_references"`
	SkippedDuplicates     int     `json:"skipped_duplicates"`
	SkippedTokenBudget    int     `json:"skipped_token_budget"`
}

func parseSearchResult(query string, mode SearchMode, body []byte) (*SearchResult, error) {
	var w wireSearchResponse
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, &APIError{Message: "invalid search response payload: " + err.Error()}
	}
	hits := make([]Hit, 0, len(w.Hits))
	for _, wh := range w.Hits {
		hits = append(hits, wh.toHit())
	}
	total := len(hits)
	if w.Total != nil {
		total = *w.Total
	}
	var chunks []ExpandedChunk
	for _, ec := range w.ExpandedChunks {
		c := ExpandedChunk(ec)
		if c.DeviceType == "" {
			c.DeviceType = "article"
		}
		chunks = append(chunks, c)
	}
	var stats *CitationExpansionStats
	if w.ExpansionStats != nil {
		s := CitationExpansionStats(*w.ExpansionStats)
		stats = &s
	}
	return &SearchResult{
		Query:          query,
		Hits:           hits,
		Total:          total,
		LatencyMS:      w.LatencyMS,
		Cached:         w.Cached,
		QueryID:        w.QueryID,
		Mode:           mode,
		Timestamp:      time.Now(),
		ExpandedChunks: chunks,
		ExpansionStats: stats,
	}, nil
}

type wireDocument struct {
	DocumentID    string `json:"document_id"`
	DocumentType  string `json:"tipo_documento"`
	Number        string `json:"numero"`
	Year          int    `json:"ano"`
	Title         string `json:"titulo"`
	Description   string `json:"descricao"`
	ChunksCount   int    `json:"chunks_count"`
	EnrichedCount int    `json:"enriched_count"`
}

func (w wireDocument) toSummary() DocumentSummary {
	return DocumentSummary{
		DocumentID:    w.DocumentID,
		DocumentType:  w.DocumentType,
		Number:        w.Number,
		Year:          w.Year,
		Title:         w.Title,
		Description:   w.Description,
		ChunksCount:   w.ChunksCount,
		EnrichedCount: w.EnrichedCount,
	}
}

type wireDocumentsResponse struct {
	Documents []wireDocument `json:"documents"`
	Total     *int           `json:"total"`
	Page      int            `json:"page"`
	Pages     int            `json:"pages"`
}

type wireLookupResponse struct {
	Status    string    `json:"status"`
	ElapsedMS float64   `json:"elapsed_ms"`
	Message   string    `json:"message"`
	Match     *wireHit  `json:"match"`
	Parent    *wireHit  `json:"parent"`
	Siblings  []wireHit `json:"siblings"`
	Candidates []struct {
		DocumentID   string `json:"document_id"`
		NodeID       string `json:"node_id"`
		Text         string `json:"text"`
		DocumentType string `json:"tipo_documento"`
	} `json:"candidates"`
}

func parseLookupResult(reference string, body []byte) (*LookupResult, error) {
	var w wireLookupResponse
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, &APIError{Message: "invalid lookup response payload: " + err.Error()}
	}
	out := &LookupResult{
		Reference: reference,
		Status:    w.Status,
		LatencyMS: w.ElapsedMS,
		Message:   w.Message,
	}
	if out.Status == "" {
		out.Status = "not_found"
	}
	if w.Match != nil {
		h := w.Match.toHit()
		out.Match = &h
	}
	if w.Parent != nil {
		h := w.Parent.toHit()
		out.Parent = &h
	}
	for _, s := range w.Siblings {
		out.Siblings = append(out.Siblings, s.toHit())
	}
	for _, c := range w.Candidates {
		out.Candidates = append(out.Candidates, LookupCandidate(c))
	}
	return out, nil
}

type wireAuditLog struct {
	ID             string         `json:"id"`
	EventType      string         `json:"event_type"`
	EventCategory  string         `json:"event_category"`
	Severity       string         `json:"severity"`
	QueryText      string         `json:"query_text"`
	DetectionTypes []string       `json:"detection_types"`
	RiskScore      float64        `json:"risk_score"`
	ActionTaken    string         `json:"action_taken"`
	Endpoint       string         `json:"endpoint"`
	ClientIP       string         `json:"client_ip"`
	CreatedAt      string         `json:"created_at"`
	Details        map[string]any `json:"details"`
}

type wireAuditLogsResponse struct {
	Logs  []wireAuditLog `json:"logs"`
	Total *int           `json:"total"`
	Page  int            `json:"page"`
	Pages int            `json:"pages"`
	Limit int            `json:"limit"`
}

func parseAuditLogs(body []byte) (*AuditLogsResponse, error) {
	var w wireAuditLogsResponse
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, &APIError{Message: "invalid audit logs payload: " + err.Error()}
	}
	logs := make([]AuditLog, 0, len(w.Logs))
	for _, l := range w.Logs {
		logs = append(logs, AuditLog(l))
	}
	total := len(logs)
	if w.Total != nil {
		total = *w.Total
	}
	return &AuditLogsResponse{Logs: logs, Total: total, Page: w.Page, Pages: w.Pages, Limit: w.Limit}, nil
}
