package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldSuccess    = "success"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldBackend    = "backend"
	FieldRows       = "rows"
	FieldWarnings   = "warnings"
	FieldRate       = "rate"
	FieldTotalARS   = "total_ars_cents"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentStore    = "store"
	ComponentRate     = "rate"
	ComponentPipeline = "pipeline"
	ComponentAMQP     = "amqp"
	ComponentCache    = "cache"
)
