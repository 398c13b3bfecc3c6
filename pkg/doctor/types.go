// Package doctor provides preflight checks for the Proxmox tooling
// pveforge depends on.
package doctor

// CheckStatus represents the status of a preflight check.
type CheckStatus int

const (
	// StatusOK indicates the dependency is present and answering.
	StatusOK CheckStatus = iota
	// StatusMissing indicates the dependency is not installed.
	StatusMissing
	// StatusError indicates an error occurred during the check.
	StatusError
	// StatusWarning indicates the dependency has issues but may work.
	StatusWarning
)

// String returns the string representation of the status.
func (s CheckStatus) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusMissing:
		return "missing"
	case StatusError:
		return "error"
	case StatusWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// Check represents a single preflight check result.
type Check struct {
	ID          string      // Unique identifier, e.g. "pct"
	Name        string      // Display name
	Description string      // What this tool does
	Status      CheckStatus // Current status
	Message     string      // Status message (version info, error, etc.)
}

// CheckID constants.
const (
	IDPct         = "pct"
	IDQm          = "qm"
	IDPvesm       = "pvesm"
	IDPveam       = "pveam"
	IDPvesh       = "pvesh"
	IDRootStorage = "root-storage"
	IDTmplStorage = "template-storage"
)
