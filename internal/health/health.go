// Package health runs the doctor checks: the external tools mtatools drives
// and the Cloud Foundry login state.
package health

import (
	"context"
	"fmt"
	"strings"

	"github.com/mtatools/mtatools/internal/messages"
	"github.com/mtatools/mtatools/internal/tools"
)

// Tools is the detection the checks rely on. *tools.Detector implements it.
type Tools interface {
	DetectMbt(ctx context.Context) tools.Status
	DetectCF(ctx context.Context) tools.Status
	MultiappsInstalled(ctx context.Context) bool
	CFAuth() tools.CFAuthStatus
}

// CheckResult represents the result of a single health check
type CheckResult struct {
	Name    string `json:"name"`
	Passed  bool   `json:"passed"`
	Message string `json:"message"`
}

// HealthReport contains all health check results
type HealthReport struct {
	Checks []CheckResult `json:"checks"`
	Passed bool          `json:"passed"`
}

func (r *HealthReport) add(check CheckResult) {
	r.Checks = append(r.Checks, check)
	if !check.Passed {
		r.Passed = false
	}
}

// RunHealthChecks runs all health checks and returns a report. The plugin and
// login checks are skipped when cf itself is missing.
func RunHealthChecks(ctx context.Context, t Tools) *HealthReport {
	report := &HealthReport{
		Checks: make([]CheckResult, 0, 4),
		Passed: true,
	}

	report.add(CheckMbt(ctx, t))

	cf := CheckCF(ctx, t)
	report.add(cf)
	if !cf.Passed {
		return report
	}

	report.add(CheckMultiapps(ctx, t))
	report.add(CheckLogin(t))
	return report
}

// CheckMbt checks if the Cloud MTA Build Tool is available
func CheckMbt(ctx context.Context, t Tools) CheckResult {
	return toolResult("mbt", t.DetectMbt(ctx), "Cloud MTA Build Tool not found, see "+messages.MbtInstallURL)
}

// CheckCF checks if the Cloud Foundry CLI is available
func CheckCF(ctx context.Context, t Tools) CheckResult {
	return toolResult("cf", t.DetectCF(ctx), "Cloud Foundry CLI not found, see "+messages.CFInstallURL)
}

func toolResult(name string, status tools.Status, missing string) CheckResult {
	if !status.Installed {
		return CheckResult{Name: name, Passed: false, Message: missing}
	}
	msg := "found"
	if status.Version != "" {
		msg = status.Version
	}
	return CheckResult{Name: name, Passed: true, Message: msg}
}

// CheckMultiapps checks if the MultiApps cf plugin is installed
func CheckMultiapps(ctx context.Context, t Tools) CheckResult {
	if !t.MultiappsInstalled(ctx) {
		return CheckResult{
			Name:    "multiapps plugin",
			Passed:  false,
			Message: "MultiApps CF CLI plugin not installed, run 'cf install-plugin multiapps'",
		}
	}
	return CheckResult{Name: "multiapps plugin", Passed: true, Message: "installed"}
}

// CheckLogin checks that an org and space are targeted
func CheckLogin(t Tools) CheckResult {
	auth := t.CFAuth()
	if !auth.IsLoggedIn() {
		return CheckResult{Name: "cf login", Passed: false, Message: auth.RecommendedSetup()}
	}
	return CheckResult{
		Name:    "cf login",
		Passed:  true,
		Message: fmt.Sprintf("org %q, space %q", auth.Org, auth.Space),
	}
}

// FormatReport formats the health report for console output
func FormatReport(report *HealthReport) string {
	var sb strings.Builder
	for _, check := range report.Checks {
		if check.Passed {
			fmt.Fprintf(&sb, "✓ %s: %s\n", check.Name, check.Message)
		} else {
			fmt.Fprintf(&sb, "✗ %s: %s\n", check.Name, check.Message)
		}
	}
	return sb.String()
}
