// Package governor samples process host resources and signals when configured
// ceilings are exceeded. A breach is fatal for the whole run, not just the
// subject being processed.
package governor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// BreachKind identifies which ceiling was exceeded.
type BreachKind string

const (
	BreachMemory BreachKind = "memory"
	BreachCPU    BreachKind = "cpu"
)

// BreachError reports a resource ceiling violation.
type BreachError struct {
	Kind     BreachKind
	Observed float64
	Limit    float64
}

func (e *BreachError) Error() string {
	unit := "MB"
	if e.Kind == BreachCPU {
		unit = "%"
	}
	return fmt.Sprintf("resource limit breached: %s %.1f%s exceeds %.1f%s", e.Kind, e.Observed, unit, e.Limit, unit)
}

// defaultCPUSampleInterval is the window for CPU utilization sampling.
// Kept short since Check blocks the caller for its duration.
const defaultCPUSampleInterval = 100 * time.Millisecond

// Config configures a Governor.
type Config struct {
	MaxMemoryMB   float64 // 0 disables the memory check
	MaxCPUPercent float64 // 0 disables the CPU check
	Logger        *slog.Logger
	// CPUSampleInterval overrides the CPU sampling window (tests).
	CPUSampleInterval time.Duration
}

// Governor checks sampled memory and CPU usage against configured ceilings.
type Governor struct {
	maxMemoryMB   float64
	maxCPUPercent float64
	interval      time.Duration
	logger        *slog.Logger
}

// New creates a Governor. With both ceilings unset every Check succeeds
// without sampling.
func New(cfg Config) *Governor {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	interval := cfg.CPUSampleInterval
	if interval <= 0 {
		interval = defaultCPUSampleInterval
	}
	return &Governor{
		maxMemoryMB:   cfg.MaxMemoryMB,
		maxCPUPercent: cfg.MaxCPUPercent,
		interval:      interval,
		logger:        logger,
	}
}

// Enabled reports whether any ceiling is configured.
func (g *Governor) Enabled() bool {
	return g.maxMemoryMB > 0 || g.maxCPUPercent > 0
}

// Check samples current usage and returns a *BreachError if a ceiling is
// exceeded. Sampling failures are logged and treated as ok: a broken stats
// source must not kill an otherwise healthy run.
func (g *Governor) Check(ctx context.Context) error {
	if !g.Enabled() {
		return nil
	}

	var usedMB, cpuPct float64

	if g.maxMemoryMB > 0 {
		vm, err := mem.VirtualMemoryWithContext(ctx)
		if err != nil {
			g.logger.Warn("memory sampling failed", "error", err)
		} else {
			usedMB = float64(vm.Total-vm.Available) / (1024 * 1024)
		}
	}

	if g.maxCPUPercent > 0 {
		pcts, err := cpu.PercentWithContext(ctx, g.interval, false)
		if err != nil || len(pcts) == 0 {
			g.logger.Warn("cpu sampling failed", "error", err)
		} else {
			cpuPct = pcts[0]
		}
	}

	return g.evaluate(usedMB, cpuPct)
}

// evaluate compares observed usage against the ceilings. Split out from
// Check so the comparison logic is testable without real sampling.
func (g *Governor) evaluate(usedMB, cpuPct float64) error {
	if g.maxMemoryMB > 0 && usedMB > g.maxMemoryMB {
		return &BreachError{Kind: BreachMemory, Observed: usedMB, Limit: g.maxMemoryMB}
	}
	if g.maxCPUPercent > 0 && cpuPct > g.maxCPUPercent {
		return &BreachError{Kind: BreachCPU, Observed: cpuPct, Limit: g.maxCPUPercent}
	}
	return nil
}
