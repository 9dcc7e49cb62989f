// Package doctor reports whether the external media tools a run needs are
// installed, together with basic host capacity.
package doctor

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"sort"
	"strings"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

type Tool struct {
	Name     string
	Path     string
	Resolved string
	Err      error
}

func (t Tool) Found() bool { return t.Err == nil }

type Report struct {
	Tools []Tool

	CPUs            int
	TotalMemory     uint64
	AvailableMemory uint64

	// HostErr is set when host stats could not be read. It never fails a check.
	HostErr error
}

// Missing lists the names of tools that could not be resolved.
func (r Report) Missing() []string {
	var out []string
	for _, t := range r.Tools {
		if !t.Found() {
			out = append(out, t.Name)
		}
	}
	return out
}

// Check resolves every tool, keyed by name, to an executable. Tools are
// reported in name order.
func Check(ctx context.Context, tools map[string]string) Report {
	names := make([]string, 0, len(tools))
	for name := range tools {
		names = append(names, name)
	}
	sort.Strings(names)

	var r Report
	for _, name := range names {
		t := Tool{Name: name, Path: tools[name]}
		t.Resolved, t.Err = exec.LookPath(t.Path)
		r.Tools = append(r.Tools, t)
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		r.HostErr = fmt.Errorf("memory: %w", err)
		return r
	}
	r.TotalMemory = vm.Total
	r.AvailableMemory = vm.Available

	n, err := cpu.CountsWithContext(ctx, true)
	if err != nil {
		r.HostErr = fmt.Errorf("cpu: %w", err)
		return r
	}
	r.CPUs = n
	return r
}

func (r Report) Write(w io.Writer) error {
	var b strings.Builder
	for _, t := range r.Tools {
		if t.Found() {
			fmt.Fprintf(&b, "ok       %-8s %s\n", t.Name, t.Resolved)
		} else {
			fmt.Fprintf(&b, "missing  %-8s %s (%v)\n", t.Name, t.Path, t.Err)
		}
	}
	if r.HostErr != nil {
		fmt.Fprintf(&b, "host     unavailable: %v\n", r.HostErr)
	} else {
		fmt.Fprintf(&b, "host     %d cpus, %s free of %s\n", r.CPUs, humanBytes(r.AvailableMemory), humanBytes(r.TotalMemory))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func humanBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
