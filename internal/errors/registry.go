package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

const docBase = "https://pagekit.vango.dev/docs/errors/"

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Absence (E001-E009)
	// ============================================

	"E001": {
		Category: CategoryAbsence,
		Message:  "Element not found",
		Detail:   "No element with the requested id exists in the document.",
		DocURL:   docBase + "E001",
	},
	"E002": {
		Category: CategoryAbsence,
		Message:  "Storage key not found",
		Detail:   "The storage surface holds no value under the requested key.",
		DocURL:   docBase + "E002",
	},

	// ============================================
	// Malformed data (E010-E019)
	// ============================================

	"E010": {
		Category: CategoryMalformed,
		Message:  "Stored value is not valid JSON",
		Detail:   "The value under this key could not be decoded. It was probably written by something other than pagekit.",
		DocURL:   docBase + "E010",
	},
	"E011": {
		Category: CategoryMalformed,
		Message:  "Response body is not valid JSON",
		DocURL:   docBase + "E011",
	},
	"E012": {
		Category: CategoryMalformed,
		Message:  "Invalid query update",
		Detail:   "Query updates are written as name=value. An empty value removes the parameter.",
		DocURL:   docBase + "E012",
	},

	// ============================================
	// Transport (E020-E024)
	// ============================================

	"E020": {
		Category: CategoryTransport,
		Message:  "Request failed",
		Detail:   "The request did not reach the server or the connection broke before a response arrived.",
		DocURL:   docBase + "E020",
	},
	"E021": {
		Category: CategoryTransport,
		Message:  "Server returned an error status",
		DocURL:   docBase + "E021",
	},

	// ============================================
	// Storage (E025-E029)
	// ============================================

	"E025": {
		Category: CategoryStorage,
		Message:  "Storage write failed",
		DocURL:   docBase + "E025",
	},
	"E026": {
		Category: CategoryStorage,
		Message:  "Storage backend unavailable",
		Detail:   "The configured storage backend could not be opened.",
		DocURL:   docBase + "E026",
	},

	// ============================================
	// Config (E030-E039)
	// ============================================

	"E030": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		DocURL:   docBase + "E030",
	},
	"E031": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		DocURL:   docBase + "E031",
	},
	"E032": {
		Category: CategoryConfig,
		Message:  "Unknown storage backend",
		Detail:   "storage.backend must be one of memory, file, redis or s3.",
		DocURL:   docBase + "E032",
	},
	"E033": {
		Category: CategoryConfig,
		Message:  "Invalid port",
		Detail:   "Port must be between 0 and 65535.",
		DocURL:   docBase + "E033",
	},

	// ============================================
	// CLI (E040-E049)
	// ============================================

	"E040": {
		Category: CategoryCLI,
		Message:  "Missing argument",
		DocURL:   docBase + "E040",
	},
	"E041": {
		Category: CategoryCLI,
		Message:  "Invalid JSON argument",
		DocURL:   docBase + "E041",
	},
}
