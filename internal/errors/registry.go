package errors

// Registered error codes.
const (
	CodeUndeclaredFile = "H001"
	CodeNonTableHead   = "H002"
	CodeUnknownHead    = "H003"
	CodeNonStrTitle    = "H004"

	CodeUntypedElement = "H020"
	CodeUnknownElement = "H021"
	CodeUnknownContent = "H022"
	CodeNoContent      = "H023"
	CodeAWithoutHref   = "H024"
	CodeNonStrLang     = "H025"

	CodeInvalidToml = "H040"

	CodeReadFile  = "H060"
	CodeWriteFile = "H061"

	CodeNoCommand      = "H080"
	CodeUnknownCommand = "H081"
	CodeNoFileGiven    = "H082"
	CodeUnknownStarter = "H083"
	CodeProjectExists  = "H084"

	CodeInvalidConfig = "H100"
	CodeNoBucket      = "H101"

	CodePublishFailed = "H120"
)

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
	DocURL     string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Document Errors (H001-H019)
	// ============================================

	CodeUndeclaredFile: {
		Category:   CategoryDocument,
		Message:    "Missing doctype version",
		Detail:     "Every document must declare its HTML version with a top-level string key named html.",
		Suggestion: `Add html = "5" at the top of the file`,
		DocURL:     "https://htoml.dev/docs/errors/H001",
	},
	CodeNonTableHead: {
		Category:   CategoryDocument,
		Message:    "Head is not a table",
		Detail:     "The head key must be a TOML table.",
		Suggestion: `Use a [head] section or an inline table: head = { title = "Home" }`,
		DocURL:     "https://htoml.dev/docs/errors/H002",
	},
	CodeUnknownHead: {
		Category: CategoryDocument,
		Message:  "Unknown head key",
		Detail:   "The only key supported inside head is title.",
		DocURL:   "https://htoml.dev/docs/errors/H003",
	},
	CodeNonStrTitle: {
		Category: CategoryDocument,
		Message:  "Title is not a string",
		Detail:   "head.title must be a string.",
		DocURL:   "https://htoml.dev/docs/errors/H004",
	},

	// ============================================
	// Element Errors (H020-H039)
	// ============================================

	CodeUntypedElement: {
		Category:   CategoryElement,
		Message:    "Element has no type",
		Detail:     "Every element table needs a string key named type holding the tag name.",
		Suggestion: `Add type = "p" (or br, hr, b, i, strong, mark, u, s, small, a)`,
		DocURL:     "https://htoml.dev/docs/errors/H020",
	},
	CodeUnknownElement: {
		Category: CategoryElement,
		Message:  "Unknown element type",
		Detail:   "Supported element types are br, hr, p, b, i, strong, mark, u, s, small and a.",
		DocURL:   "https://htoml.dev/docs/errors/H021",
	},
	CodeUnknownContent: {
		Category: CategoryElement,
		Message:  "Unsupported content value",
		Detail:   "Content must be a string, an element table or an array of those.",
		DocURL:   "https://htoml.dev/docs/errors/H022",
	},
	CodeNoContent: {
		Category:   CategoryElement,
		Message:    "Element has no content",
		Detail:     "Every element except br and hr needs a cont key.",
		Suggestion: `Add cont = "..." to the element`,
		DocURL:     "https://htoml.dev/docs/errors/H023",
	},
	CodeAWithoutHref: {
		Category:   CategoryElement,
		Message:    "Anchor without href",
		Detail:     "Elements of type a need a string href attribute.",
		Suggestion: `Add href = "https://example.com" to the element`,
		DocURL:     "https://htoml.dev/docs/errors/H024",
	},
	CodeNonStrLang: {
		Category: CategoryElement,
		Message:  "Language is not a string",
		Detail:   "The top-level lang key must be a string such as \"en\".",
		DocURL:   "https://htoml.dev/docs/errors/H025",
	},

	// ============================================
	// Syntax Errors (H040-H059)
	// ============================================

	CodeInvalidToml: {
		Category: CategorySyntax,
		Message:  "Invalid TOML",
		Detail:   "The input could not be parsed as TOML.",
		DocURL:   "https://htoml.dev/docs/errors/H040",
	},

	// ============================================
	// I/O Errors (H060-H079)
	// ============================================

	CodeReadFile: {
		Category: CategoryIO,
		Message:  "Cannot read file",
		DocURL:   "https://htoml.dev/docs/errors/H060",
	},
	CodeWriteFile: {
		Category: CategoryIO,
		Message:  "Cannot write file",
		DocURL:   "https://htoml.dev/docs/errors/H061",
	},

	// ============================================
	// CLI Errors (H080-H099)
	// ============================================

	CodeNoCommand: {
		Category:   CategoryCLI,
		Message:    "No command given",
		Suggestion: "Run 'htoml help' to list the available commands",
		DocURL:     "https://htoml.dev/docs/errors/H080",
	},
	CodeUnknownCommand: {
		Category:   CategoryCLI,
		Message:    "Unknown command",
		Suggestion: "Run 'htoml help' to list the available commands",
		DocURL:     "https://htoml.dev/docs/errors/H081",
	},
	CodeNoFileGiven: {
		Category:   CategoryCLI,
		Message:    "No file given",
		Suggestion: "Pass the TOML file to compile: htoml compile index.toml",
		DocURL:     "https://htoml.dev/docs/errors/H082",
	},
	CodeUnknownStarter: {
		Category:   CategoryCLI,
		Message:    "Unknown starter",
		Detail:     "Available starters are minimal and site.",
		Suggestion: "Run htoml init --starter=minimal",
		DocURL:     "https://htoml.dev/docs/errors/H083",
	},
	CodeProjectExists: {
		Category:   CategoryCLI,
		Message:    "File already exists",
		Detail:     "htoml init never overwrites existing files.",
		Suggestion: "Choose an empty directory or remove the file",
		DocURL:     "https://htoml.dev/docs/errors/H084",
	},

	// ============================================
	// Configuration Errors (H100-H119)
	// ============================================

	CodeInvalidConfig: {
		Category: CategoryConfig,
		Message:  "Invalid htoml.json",
		DocURL:   "https://htoml.dev/docs/errors/H100",
	},
	CodeNoBucket: {
		Category:   CategoryConfig,
		Message:    "No publish bucket configured",
		Suggestion: "Set publish.bucket in htoml.json or pass --bucket",
		DocURL:     "https://htoml.dev/docs/errors/H101",
	},

	// ============================================
	// Publish Errors (H120-H139)
	// ============================================

	CodePublishFailed: {
		Category: CategoryPublish,
		Message:  "Upload failed",
		DocURL:   "https://htoml.dev/docs/errors/H120",
	},
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
