package provision

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hostfolk/pveforge/pkg/credentials"
)

// Sentinel errors for the fail-fast phase.
var (
	// ErrInstanceExists is returned when the ID is taken and the reuse
	// policy forbids adoption.
	ErrInstanceExists = errors.New("instance ID already exists")
	// ErrReuseDeclined is returned when the operator declined to adopt
	// an existing instance. The existing instance is left untouched.
	ErrReuseDeclined = errors.New("reuse of existing instance declined")
	// ErrNestingRequired is returned before creation when the selected
	// installer needs a nested container runtime but the request does
	// not enable nesting.
	ErrNestingRequired = errors.New("installer requires nesting; enable it explicitly")
)

// ConfirmFunc asks the operator whether to reuse an existing instance.
type ConfirmFunc func(id int) (bool, error)

// Sequencer runs the linear provisioning pipeline: validate, check,
// resolve, create, start, poll, install, report. Every step before
// start is fail-fast; after start it degrades to warnings, on the
// reasoning that a half-configured running instance is more useful than
// a destroyed one.
type Sequencer struct {
	backend  Backend
	resolver ImageResolver
	confirm  ConfirmFunc // nil means non-interactive

	loopbackAttempts int
	loopbackInterval time.Duration
	ipAttempts       int
	ipInterval       time.Duration
}

// NewSequencer creates a sequencer for one backend and image resolver.
func NewSequencer(backend Backend, resolver ImageResolver) *Sequencer {
	return &Sequencer{
		backend:          backend,
		resolver:         resolver,
		loopbackAttempts: defaultLoopbackAttempts,
		loopbackInterval: defaultLoopbackInterval,
		ipAttempts:       defaultIPAttempts,
		ipInterval:       defaultIPInterval,
	}
}

// SetConfirm installs the interactive reuse prompt. Without one, an
// existing ID under ReusePrompt fails instead of blocking on input.
func (s *Sequencer) SetConfirm(fn ConfirmFunc) {
	s.confirm = fn
}

// SetPollLimits overrides the readiness poll ceilings (used by tests
// and by operators with slow storage).
func (s *Sequencer) SetPollLimits(loopbackAttempts int, loopbackInterval time.Duration, ipAttempts int, ipInterval time.Duration) {
	s.loopbackAttempts = loopbackAttempts
	s.loopbackInterval = loopbackInterval
	s.ipAttempts = ipAttempts
	s.ipInterval = ipInterval
}

// Run executes the pipeline. The request is consumed exactly once; a
// second call needs a fresh request.
func (s *Sequencer) Run(ctx context.Context, req Request, installer Installer, progress ProgressCallback) (*Result, error) {
	if progress == nil {
		progress = NoOpProgress
	}
	start := time.Now()

	result := &Result{
		ID:       req.ID,
		Hostname: req.Hostname,
		Kind:     s.backend.Kind(),
		Address:  UnknownAddress,
		Username: "root",
	}

	// Step 1: validate and default. Nothing has touched the hypervisor
	// yet, so every failure here is clean.
	progress(NewProgressEvent(StageValidating, "Validating configuration...", 5))
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if installer != nil && installer.NeedsNesting() && !req.Nesting {
		return nil, fmt.Errorf("%w: %s runs containers inside the guest", ErrNestingRequired, installer.Name())
	}
	if req.StaticWithoutGateway() {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("static IP %s has no gateway; routing is undefined", req.IPCIDR))
	}

	// Step 2: existence check.
	progress(NewProgressEventWithCommand(StageChecking,
		fmt.Sprintf("Checking instance ID %d...", req.ID),
		fmt.Sprintf("%s status %d", cliName(s.backend.Kind()), req.ID), 12))
	exists, err := s.backend.Exists(ctx, req.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check instance %d: %w", req.ID, err)
	}

	reuse := false
	if exists {
		reuse, err = s.decideReuse(req)
		if err != nil {
			return nil, err
		}
	}

	if !reuse {
		// A password applies only to an instance this run creates; an
		// adopted one keeps whatever credentials it already has.
		if req.Password == "" {
			pw, err := credentials.GeneratePassword(credentials.DefaultPasswordLength)
			if err != nil {
				return nil, fmt.Errorf("failed to generate password: %w", err)
			}
			req.Password = pw
			progress(NewProgressEventWithDetail(StageChecking,
				"Generated root password", "no password supplied", 15))
		}
		result.Password = req.Password

		// Step 3: image resolution.
		progress(NewProgressEvent(StageResolving, "Resolving template image...", 20))
		template, err := s.resolver.Resolve(ctx, &req)
		if err != nil {
			return nil, err
		}
		progress(NewProgressEventWithDetail(StageResolving, "Template resolved", template, 25))

		// Step 4: create.
		progress(NewProgressEventWithCommand(StageCreating,
			fmt.Sprintf("Creating %s %d...", s.backend.Kind(), req.ID),
			fmt.Sprintf("%s create %d %s ...", cliName(s.backend.Kind()), req.ID, template), 35))
		if err := s.backend.Create(ctx, &req, template); err != nil {
			s.rollback(ctx, &req, progress)
			return nil, fmt.Errorf("failed to create instance %d: %w", req.ID, err)
		}
	} else if req.Password != "" {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("password not applied to reused instance %d; set one with %s set",
				req.ID, cliName(s.backend.Kind())))
	}

	// Step 5: start. Fatal, except that an adopted instance is usually
	// already up and the hypervisor refuses to start it again; rollback
	// only covers instances this run created.
	progress(NewProgressEventWithCommand(StageStarting,
		fmt.Sprintf("Starting %s %d...", s.backend.Kind(), req.ID),
		fmt.Sprintf("%s start %d", cliName(s.backend.Kind()), req.ID), 50))
	if err := s.backend.Start(ctx, req.ID); err != nil {
		if reuse && isAlreadyRunning(err) {
			progress(NewProgressEvent(StageStarting, "Instance already running", 52))
		} else {
			if !reuse {
				s.rollback(ctx, &req, progress)
			}
			return nil, fmt.Errorf("failed to start instance %d: %w", req.ID, err)
		}
	}

	// Step 6: readiness poll. Advisory from here on.
	progress(NewProgressEvent(StageWaiting, "Waiting for network readiness...", 55))
	addr, warnings := s.waitReady(ctx, req.ID, progress)
	result.Address = addr
	result.Warnings = append(result.Warnings, warnings...)
	result.Reused = reuse

	// Step 7: install handoff.
	if installer != nil {
		guest := &Guest{ID: req.ID, Hostname: req.Hostname, Address: addr, backend: s.backend}
		progress(NewProgressEvent(StageInstalling,
			fmt.Sprintf("Installing %s...", installer.Name()), 85))
		if err := installer.Install(ctx, guest); err != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s install failed: %v; the instance is running, finish manually", installer.Name(), err))
		} else {
			result.AccessNotes = installer.AccessNotes(guest)
		}
	}

	progress(NewProgressEvent(StageComplete, "Provisioning complete", 100))
	result.Duration = time.Since(start)
	return result, nil
}

// decideReuse applies the reuse policy for an already existing ID.
func (s *Sequencer) decideReuse(req Request) (bool, error) {
	switch req.Reuse {
	case ReuseAlways:
		return true, nil
	case ReuseNever:
		return false, fmt.Errorf("%w: %d", ErrInstanceExists, req.ID)
	default: // ReusePrompt
		if s.confirm == nil {
			return false, fmt.Errorf("%w: %d (non-interactive run, pass an explicit reuse policy)",
				ErrInstanceExists, req.ID)
		}
		ok, err := s.confirm(req.ID)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, fmt.Errorf("%w: %d", ErrReuseDeclined, req.ID)
		}
		return true, nil
	}
}

// rollback destroys a partially created instance when the request opted
// in. Best effort: the original error is what the caller sees.
func (s *Sequencer) rollback(ctx context.Context, req *Request, progress ProgressCallback) {
	if !req.Rollback {
		return
	}
	progress(NewProgressEvent(StageCleanup,
		fmt.Sprintf("Rolling back partially created instance %d...", req.ID), -1))
	if err := s.backend.Destroy(ctx, req.ID); err != nil {
		progress(NewErrorEvent(fmt.Sprintf("rollback failed: %v", err)))
	}
}

// isAlreadyRunning recognizes the pct/qm error for starting an
// instance that is already up.
func isAlreadyRunning(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "already running")
}

// cliName maps the instance kind to its control CLI, for display only.
func cliName(k Kind) string {
	if k == KindVM {
		return "qm"
	}
	return "pct"
}
