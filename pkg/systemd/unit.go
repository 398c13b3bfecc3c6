// Package systemd renders systemd service unit files for application
// installers.
package systemd

import (
	"fmt"
	"strings"
)

// Unit describes a systemd service to render.
type Unit struct {
	Description string
	After       string // defaults to network-online.target
	User        string // defaults to root
	WorkingDir  string
	Environment []string // KEY=VALUE pairs
	ExecStart   string
	Restart     string // defaults to on-failure
	Hardening   bool   // add the standard hardening directives
}

// unitTemplate is the fixed service file shape; fields are substituted
// by name.
const unitTemplate = `[Unit]
Description=${DESCRIPTION}
After=${AFTER}
Wants=${AFTER}

[Service]
Type=simple
User=${USER}
${WORKING_DIR}${ENVIRONMENT}ExecStart=${EXEC_START}
Restart=${RESTART}
RestartSec=5
${HARDENING}
[Install]
WantedBy=multi-user.target
`

// hardeningDirectives are applied when Unit.Hardening is set.
const hardeningDirectives = `NoNewPrivileges=true
ProtectSystem=full
ProtectHome=true
PrivateTmp=true
`

// Render produces the unit file content.
func (u *Unit) Render() (string, error) {
	if u.Description == "" {
		return "", fmt.Errorf("unit description is required")
	}
	if u.ExecStart == "" {
		return "", fmt.Errorf("unit ExecStart is required")
	}

	after := u.After
	if after == "" {
		after = "network-online.target"
	}
	user := u.User
	if user == "" {
		user = "root"
	}
	restart := u.Restart
	if restart == "" {
		restart = "on-failure"
	}

	var workingDir string
	if u.WorkingDir != "" {
		workingDir = "WorkingDirectory=" + u.WorkingDir + "\n"
	}

	var env strings.Builder
	for _, kv := range u.Environment {
		env.WriteString("Environment=" + kv + "\n")
	}

	var hardening string
	if u.Hardening {
		hardening = hardeningDirectives
	}

	vars := map[string]string{
		"DESCRIPTION": u.Description,
		"AFTER":       after,
		"USER":        user,
		"WORKING_DIR": workingDir,
		"ENVIRONMENT": env.String(),
		"EXEC_START":  u.ExecStart,
		"RESTART":     restart,
		"HARDENING":   hardening,
	}

	result := unitTemplate
	for name, value := range vars {
		result = strings.ReplaceAll(result, "${"+name+"}", value)
	}

	return result, nil
}
