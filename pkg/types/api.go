package types

// Metadata carries per-document facts alongside an extraction result.
type Metadata struct {
	// Original filename of the uploaded document.
	// example: report.pdf
	Filename string `json:"filename" example:"report.pdf"`
	// Number of pages in the converted document.
	// example: 3
	PageCount int `json:"page_count" example:"3"`
}

// ExtractionResponse is returned by POST /api/v1/extract.
type ExtractionResponse struct {
	// Assembled markdown with page headings between pages.
	Markdown string `json:"markdown"`
	// Recognized tables in document order.
	Tables []Table `json:"tables"`
	// Document metadata.
	Metadata Metadata `json:"metadata"`
}

// SaveResponse is returned by POST /api/v1/extract-and-save.
type SaveResponse struct {
	// Human-readable outcome message.
	// example: Extraction successful and file saved.
	Message string `json:"message" example:"Extraction successful and file saved."`
	// Absolute path of the saved markdown file.
	// example: /data/storage/report_20250101_120000.md
	SavedPath string `json:"saved_path" example:"/data/storage/report_20250101_120000.md"`
	// Full extraction result.
	Extraction ExtractionResponse `json:"extraction"`
}

// JSONContent is the content body of an extract-json response.
type JSONContent struct {
	Markdown string  `json:"markdown"`
	Tables   []Table `json:"tables"`
}

// JSONExtractionResponse is returned by POST /api/v1/extract-json.
type JSONExtractionResponse struct {
	Content  JSONContent `json:"content"`
	Metadata Metadata    `json:"metadata"`
}

// BatchFileResult reports the outcome for a single file of a batch.
type BatchFileResult struct {
	// Original filename this outcome belongs to.
	// example: report.pdf
	Filename string `json:"filename" example:"report.pdf"`
	// "success" or "error".
	// example: success
	Status string `json:"status" example:"success"`
	// Present on success.
	Markdown string `json:"markdown,omitempty"`
	Tables   []Table `json:"tables,omitempty"`
	Metadata *Metadata `json:"metadata,omitempty"`
	// Present on error.
	Error string `json:"error,omitempty"`
}

// BatchExtractionResponse is returned by POST /api/v1/batch-extract.
type BatchExtractionResponse struct {
	// Per-file outcomes in the order the files were submitted.
	Results []BatchFileResult `json:"results"`
	// example: 3
	TotalFiles int `json:"total_files" example:"3"`
	// example: 2
	Successful int `json:"successful" example:"2"`
	// example: 1
	Failed int `json:"failed" example:"1"`
}

// WarmupResponse is returned by POST /api/v1/warmup.
type WarmupResponse struct {
	// example: Warmup completed successfully
	Message string `json:"message" example:"Warmup completed successfully"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: no filename provided
	Error string `json:"error" example:"no filename provided"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

// ResourceStatus summarizes one resident cache entry for GET /status.
type ResourceStatus struct {
	// Cache key of the entry.
	// example: ocr=true|tables=true
	Key string `json:"key" example:"ocr=true|tables=true"`
	// "engine" or "local_vlm".
	// example: engine
	Kind string `json:"kind" example:"engine"`
	// Last time this entry served a request (unix seconds).
	// example: 1700000000
	LastUsed int64 `json:"last_used_unix" example:"1700000000"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Resident resources owned by the lifecycle manager.
	Resources []ResourceStatus `json:"resources"`
	// Configured engine cache capacity.
	// example: 4
	EngineCacheCapacity int `json:"engine_cache_capacity" example:"4"`
	// Currently resident local VLM model id, empty when none.
	// example: HuggingFaceTB/SmolVLM-256M-Instruct
	LocalVLMModel string `json:"local_vlm_model,omitempty" example:"HuggingFaceTB/SmolVLM-256M-Instruct"`
	// Total engine/model constructions performed.
	// example: 12
	LoadsTotal uint64 `json:"loads_total" example:"12"`
	// Total evictions performed.
	// example: 5
	EvictionsTotal uint64 `json:"evictions_total" example:"5"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}
