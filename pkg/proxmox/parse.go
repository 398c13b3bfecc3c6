package proxmox

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Instance represents one row of pct list / qm list output.
type Instance struct {
	ID     int
	Name   string
	Status string
}

// Pool represents one row of pvesm status output.
type Pool struct {
	Name   string
	Type   string
	Active bool
}

// ParseStatus extracts the status word from "status: running" output.
func ParseStatus(output string) string {
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if rest, ok := strings.CutPrefix(line, "status:"); ok {
			return strings.TrimSpace(rest)
		}
	}
	return strings.TrimSpace(output)
}

// ParseKeyValue parses "key: value" lines into a map. Used for both
// pct config and qm config output.
func ParseKeyValue(output string) map[string]string {
	result := make(map[string]string)
	for _, line := range strings.Split(output, "\n") {
		parts := strings.SplitN(line, ":", 2)
		if len(parts) == 2 {
			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])
			if key != "" {
				result[key] = value
			}
		}
	}
	return result
}

// ParseInstanceList parses pct list / qm list tables.
//
//	VMID       Status     Lock         Name
//	100        running                 metabase
func ParseInstanceList(output string) []Instance {
	var instances []Instance

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "VMID") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}

		id, err := strconv.Atoi(fields[0])
		if err != nil {
			continue
		}

		inst := Instance{ID: id, Status: fields[1]}
		// Name is the last column; the Lock column is usually empty.
		if len(fields) >= 3 {
			inst.Name = fields[len(fields)-1]
		}
		instances = append(instances, inst)
	}

	return instances
}

// ParsePools parses pvesm status tables.
//
//	Name        Type     Status           Total     Used     Available        %
//	local        dir     active        98497780  1295422      80493340   13.15%
func ParsePools(output string) []Pool {
	var pools []Pool

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "Name") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}

		pools = append(pools, Pool{
			Name:   fields[0],
			Type:   fields[1],
			Active: fields[2] == "active",
		})
	}

	return pools
}

// ParseTemplateList parses pveam list output into "pool:path" references.
//
//	NAME                                                    SIZE
//	local:vztmpl/debian-12-standard_12.7-1_amd64.tar.zst    120.21MB
func ParseTemplateList(output string) []string {
	var refs []string

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "NAME") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) == 0 || !strings.Contains(fields[0], ":") {
			continue
		}
		refs = append(refs, fields[0])
	}

	return refs
}

// ParseAvailable parses pveam available output into template file names.
//
//	system          debian-12-standard_12.7-1_amd64.tar.zst
func ParseAvailable(output string) []string {
	var names []string

	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		names = append(names, fields[1])
	}

	return names
}

// guestExecResult is the JSON document qm guest exec prints.
type guestExecResult struct {
	ExitCode int    `json:"exitcode"`
	OutData  string `json:"out-data"`
	ErrData  string `json:"err-data"`
}

// ParseGuestExecOutput extracts the guest's stdout from qm guest exec
// JSON output. Non-JSON output is returned unchanged so plain pct exec
// style output still works.
func ParseGuestExecOutput(output string) string {
	trimmed := strings.TrimSpace(output)
	if !strings.HasPrefix(trimmed, "{") {
		return output
	}

	var result guestExecResult
	if err := json.Unmarshal([]byte(trimmed), &result); err != nil {
		return output
	}
	return result.OutData
}
