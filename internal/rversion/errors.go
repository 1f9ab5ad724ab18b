package rversion

import "errors"

var (
	// ErrCandidateRejected marks a directory that is not a usable R installation.
	// Discover never returns it; rejected candidates are logged and skipped.
	ErrCandidateRejected = errors.New("not a valid R installation")

	// ErrNoEvidence means a strategy's evidence (file or executable) does not exist
	ErrNoEvidence = errors.New("version evidence not found")

	// ErrProbeExhausted means a platform with a canonical install location had no installations
	ErrProbeExhausted = errors.New("failed to detect any R versions")

	// ErrDefaultUnresolvable means the R on PATH could not be mapped to an installation
	ErrDefaultUnresolvable = errors.New("default R installation could not be resolved")

	// ErrNotOnPath means no R executable was found on the command search path
	ErrNotOnPath = errors.New("R executable not found on PATH")

	// ErrNoParent means the resolved executable is too close to the filesystem root
	ErrNoParent = errors.New("executable has no install root above it")

	// ErrUnsupportedPlatform means no probe exists for the running OS
	ErrUnsupportedPlatform = errors.New("unsupported platform")
)
