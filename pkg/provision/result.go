package provision

import "time"

// Result represents the outcome of one provisioning run.
type Result struct {
	ID       int
	Hostname string
	Kind     Kind

	// Address is the discovered IP, or UnknownAddress.
	Address string

	// Username/Password for the guest's administrative account.
	Username string
	Password string

	// Reused is true when an existing instance was adopted instead of
	// created.
	Reused bool

	Duration time.Duration

	// Warnings collected after the start step; none of these aborted
	// the run.
	Warnings []string

	// AccessNotes from the application installer: URLs, ports, hints.
	AccessNotes []string
}
