// Package tui renders operation reports, workspace status and tool checks for
// the terminal.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/imamik/tfslot/internal/lifecycle"
	"github.com/imamik/tfslot/internal/util/prerequisites"
)

// RenderReport formats the outcome of a bring-up or bring-down.
func RenderReport(rep *lifecycle.Report, styled bool) string {
	th := newTheme(styled)
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", th.title(fmt.Sprintf("tfslot %s: %s", rep.Operation, rep.Target)))

	if rep.Skipped {
		fmt.Fprintf(&b, "  %s %s\n", th.warning(skipMark), "cluster not found, nothing to do")
		renderClusters(&b, th, rep.Clusters)
		return b.String()
	}

	if len(rep.Steps) > 0 {
		b.WriteString(th.section("  Steps"))
		b.WriteString("\n")
		for _, s := range rep.Steps {
			icon, style := checkMark, th.ready
			if s.Result == nil || s.Result.ExitCode != 0 {
				icon, style = crossMark, th.failed
			}
			dur := ""
			if s.Result != nil {
				dur = formatDuration(s.Result.Duration)
			}
			fmt.Fprintf(&b, "    %s %-20s %s\n", style(icon), s.Step, th.dim(dur))
		}
	}

	b.WriteString(th.section("  Workspace"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "    %-20s %s\n", "prior occupant", orNone(rep.PriorOccupant))
	fmt.Fprintf(&b, "    %-20s %t\n", "archived state", rep.StateFound)
	if rep.Operation == lifecycle.OpBringDown {
		fmt.Fprintf(&b, "    %-20s %t\n", "destroyed", rep.Destroyed)
	}
	fmt.Fprintf(&b, "    %-20s %s\n", "final occupant", orNone(rep.FinalOccupant))

	renderClusters(&b, th, rep.Clusters)
	b.WriteString(th.dim(fmt.Sprintf("  elapsed: %s", formatDuration(rep.Duration))))
	b.WriteString("\n")
	return b.String()
}

// RenderStatus formats a workspace status.
func RenderStatus(st *lifecycle.Status, styled bool) string {
	th := newTheme(styled)
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", th.title("tfslot workspace: "+st.Workspace))
	fmt.Fprintf(&b, "    %-20s %s\n", "declared", orNone(st.Declared))

	occupant := orNone(st.Occupant)
	if st.Occupant == "" && len(st.OccupantFiles) > 0 {
		occupant = th.warning("unknown (" + strings.Join(st.OccupantFiles, ", ") + ")")
	}
	fmt.Fprintf(&b, "    %-20s %s\n", "active state", occupant)
	if st.Drifted() {
		fmt.Fprintf(&b, "    %s %s\n", th.warning(warnMark), "declaration does not match the active state")
	}
	if st.KubeContext != nil {
		fmt.Fprintf(&b, "    %-20s %s\n", "kube context", st.KubeContext.EKSClusterName())
	}

	b.WriteString(th.section("  Archives"))
	b.WriteString("\n")
	if len(st.Archives) == 0 {
		fmt.Fprintf(&b, "    %s\n", th.dim("none"))
	}
	for _, a := range st.Archives {
		modified := ""
		if !a.Modified.IsZero() {
			modified = a.Modified.Local().Format(time.DateTime)
		}
		fmt.Fprintf(&b, "    %-20s %-40s %s\n", a.Identity, strings.Join(a.Files, ", "), th.dim(modified))
	}
	return b.String()
}

// RenderChecks formats a tool check.
func RenderChecks(results *prerequisites.CheckResults, styled bool) string {
	th := newTheme(styled)
	var b strings.Builder

	b.WriteString(th.section("  Tools"))
	b.WriteString("\n")
	for _, r := range results.Results {
		switch {
		case r.Found:
			fmt.Fprintf(&b, "    %s %-12s %s\n", th.ready(checkMark), r.Tool.Name, th.dim(r.Version))
		case r.Tool.Required:
			fmt.Fprintf(&b, "    %s %-12s %s\n", th.failed(crossMark), r.Tool.Name, "missing, see "+r.Tool.InstallURL)
		default:
			fmt.Fprintf(&b, "    %s %-12s %s\n", th.warning(skipMark), r.Tool.Name, th.dim("optional, "+r.Tool.Description))
		}
	}
	return b.String()
}

func renderClusters(b *strings.Builder, th theme, clusters []string) {
	b.WriteString(th.section("  Clusters"))
	b.WriteString("\n")
	if len(clusters) == 0 {
		fmt.Fprintf(b, "    %s\n", th.dim("none"))
		return
	}
	for _, c := range clusters {
		fmt.Fprintf(b, "    %s\n", c)
	}
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
