package models

type ApplicationMethod string

const (
	MethodAPI     ApplicationMethod = "API"
	MethodBrowser ApplicationMethod = "Browser"
	MethodManual  ApplicationMethod = "Manual"
)

type ErrorCategory string

const (
	ErrCategoryNetwork     ErrorCategory = "network"
	ErrCategoryFormChanged ErrorCategory = "form_changed"
	ErrCategoryLoginWall   ErrorCategory = "login_wall"
	ErrCategoryUnsupported ErrorCategory = "unsupported"
)

// ApplicationResult is produced by the auto-apply collaborator for one
// ready-to-apply row and merged back into the persisted record by URL.
type ApplicationResult struct {
	URL           string            `json:"url"`
	Success       bool              `json:"success"`
	Method        ApplicationMethod `json:"method"`
	Error         string            `json:"error,omitempty"`
	ErrorCategory ErrorCategory     `json:"error_category,omitempty"`
	Message       string            `json:"message"`
}

// Status values written to the persisted record after an apply attempt.
const (
	StatusNotApplied  = "Not Applied"
	StatusApplied     = "Applied"
	StatusFailed      = "Failed"
	StatusNeedsManual = "Needs Manual"
)
