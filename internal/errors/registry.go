package errors

import "sort"

// Template defines a registered error type.
type Template struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]Template{
	// Configuration (E100-E199)

	"E101": {
		Category:   CategoryConfig,
		Message:    "Config file not readable",
		Detail:     "The configuration file could not be opened or parsed as YAML.",
		Suggestion: "Check the --config path, or run `landing config init` to write a default file.",
	},
	"E102": {
		Category:   CategoryConfig,
		Message:    "Invalid configuration",
		Detail:     "A configuration value is out of range or malformed.",
		Suggestion: "Fix the value in landing.yaml or the matching LANDING_* environment variable.",
	},
	"E103": {
		Category:   CategoryConfig,
		Message:    "Content file not readable",
		Detail:     "The site content file could not be read or has unknown keys.",
		Suggestion: "Compare the file with the default content written by `landing config init`.",
	},
	"E104": {
		Category: CategoryConfig,
		Message:  "Cannot write config file",
		Detail:   "The default configuration could not be written.",
	},

	// Server (E200-E299)

	"E201": {
		Category:   CategoryServer,
		Message:    "Cannot listen on address",
		Detail:     "The HTTP server could not bind its address.",
		Suggestion: "Pick a free port with --addr or stop the process using it.",
	},
	"E202": {
		Category: CategoryServer,
		Message:  "Server stopped unexpectedly",
	},
	"E203": {
		Category: CategoryServer,
		Message:  "Shutdown timed out",
		Detail:   "Open sessions did not close within the shutdown timeout.",
	},
	"E204": {
		Category: CategoryServer,
		Message:  "Page render failed",
	},

	// Publish (E300-E399)

	"E301": {
		Category:   CategoryPublish,
		Message:    "Bucket not configured",
		Detail:     "Publishing needs a target S3 bucket.",
		Suggestion: "Pass --bucket or set publish.bucket in landing.yaml.",
	},
	"E302": {
		Category: CategoryPublish,
		Message:  "Upload failed",
		Detail:   "An object could not be uploaded to the bucket.",
	},
	"E303": {
		Category: CategoryPublish,
		Message:  "Export failed",
		Detail:   "The rendered site could not be written to the output directory.",
	},

	// Protocol (E400-E499)

	"E401": {
		Category: CategoryProtocol,
		Message:  "Malformed client frame",
	},
	"E402": {
		Category: CategoryProtocol,
		Message:  "Event before hello",
	},
	"E403": {
		Category: CategoryProtocol,
		Message:  "Unknown event target",
	},
}

// Lookup returns the template registered for code.
func Lookup(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}

// Codes returns all registered codes in order.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for c := range registry {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}
