package provision

import (
	"context"
	"strings"
	"time"
)

// UnknownAddress marks an instance whose IP could not be discovered
// within the poll ceiling. Connectivity is advisory, not gating.
const UnknownAddress = "unknown"

// Poll ceilings match the intervals the guests actually need: loopback
// answers within seconds of init starting, DHCP can take a little longer.
const (
	defaultLoopbackAttempts = 30
	defaultLoopbackInterval = time.Second
	defaultIPAttempts       = 5
	defaultIPInterval       = 3 * time.Second
)

// waitReady polls the guest for liveness, then for an assigned IPv4
// address. It always returns control after the attempt ceilings; a
// guest that never answered yields UnknownAddress and a warning, never
// an error.
func (s *Sequencer) waitReady(ctx context.Context, id int, progress ProgressCallback) (string, []string) {
	var warnings []string

	alive := false
	for attempt := 1; attempt <= s.loopbackAttempts; attempt++ {
		if ctx.Err() != nil {
			return UnknownAddress, append(warnings, "readiness poll interrupted")
		}

		if _, err := s.backend.Exec(ctx, id, "ping", "-c", "1", "-W", "1", "127.0.0.1"); err == nil {
			alive = true
			break
		}

		progress(NewProgressEventWithDetail(StageWaiting,
			"Waiting for guest to become ready...",
			"no loopback response yet", 60))
		time.Sleep(s.loopbackInterval)
	}
	if !alive {
		warnings = append(warnings, "guest never answered a loopback ping; it may still be booting")
	}

	for attempt := 1; attempt <= s.ipAttempts; attempt++ {
		if ctx.Err() != nil {
			return UnknownAddress, append(warnings, "readiness poll interrupted")
		}

		out, err := s.backend.Exec(ctx, id, "ip", "-4", "addr", "show", "dev", "eth0")
		if err == nil {
			if ip := parseIPv4(out); ip != "" {
				return ip, warnings
			}
		}

		progress(NewProgressEventWithDetail(StageWaiting,
			"Waiting for IP address...",
			"no address assigned yet", 75))
		time.Sleep(s.ipInterval)
	}

	warnings = append(warnings,
		"no IP address discovered; check the guest console and DHCP server")
	return UnknownAddress, warnings
}

// parseIPv4 extracts the first global IPv4 address from ip -4 addr output.
//
//	2: eth0: <BROADCAST,MULTICAST,UP,LOWER_UP> mtu 1500 ...
//	    inet 192.168.1.50/24 brd 192.168.1.255 scope global dynamic eth0
func parseIPv4(output string) string {
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(strings.TrimSpace(line))
		if len(fields) < 2 || fields[0] != "inet" {
			continue
		}
		addr := fields[1]
		if i := strings.Index(addr, "/"); i > 0 {
			addr = addr[:i]
		}
		if addr == "127.0.0.1" {
			continue
		}
		return addr
	}
	return ""
}
