package main

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/okian/edumetrics/internal/domain/grading"
	"github.com/okian/edumetrics/internal/domain/report"
)

const barWidth = 20

// Palette
var (
	success = lipgloss.Color("#22C55E")
	warning = lipgloss.Color("#F59E0B")
	danger  = lipgloss.Color("#F43F5E")
	dim     = lipgloss.Color("#94A3B8")
	border  = lipgloss.Color("#334155")
)

var (
	heading = lipgloss.NewStyle().Bold(true)
	muted   = lipgloss.NewStyle().Foreground(dim)
	caveat  = lipgloss.NewStyle().Foreground(warning).Bold(true)
	card    = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)
)

func tierStyle(s grading.Severity) lipgloss.Style {
	st := lipgloss.NewStyle().Bold(true)
	switch s {
	case grading.SeveritySuccess:
		return st.Foreground(success)
	case grading.SeverityWarning:
		return st.Foreground(warning)
	default:
		return st.Foreground(danger)
	}
}

// renderReport lays a report out for a terminal.
func renderReport(r report.Report) string {
	ts := tierStyle(r.Tier.Severity)

	var b strings.Builder
	b.WriteString(ts.Render(fmt.Sprintf("%s %s  %.1f / 100", r.Tier.Icon, r.Tier.Label, r.Score)))
	b.WriteString("\n")
	b.WriteString(heading.Render(r.Tier.Headline))
	b.WriteString("\n")
	b.WriteString(muted.Render(r.Tier.Summary))
	if r.Degraded {
		b.WriteString("\n\n")
		b.WriteString(caveat.Render(fmt.Sprintf("Estimated score (%s): the model did not produce this forecast.", r.DegradedReason)))
	}

	sections := []string{
		card.Render(b.String()),
		card.Render(renderMetrics(r.Metrics)),
		card.Render(renderSignals(r.Signals)),
		card.Render(renderAdvice(r)),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func renderMetrics(m report.Metrics) string {
	return strings.Join([]string{
		heading.Render("Metrics"),
		fmt.Sprintf("Study efficiency  %d%%", m.StudyEfficiencyPct),
		fmt.Sprintf("Sleep quality     %s", m.SleepQualityLabel),
		fmt.Sprintf("Engagement        %d", m.EngagementScore),
	}, "\n")
}

func renderSignals(signals []report.Signal) string {
	width := 0
	for _, s := range signals {
		width = max(width, lipgloss.Width(s.Label))
	}

	lines := []string{heading.Render("Signals")}
	for _, s := range signals {
		filled := min(max(s.Percent, 0), 100) * barWidth / 100
		bar := strings.Repeat("█", filled) + muted.Render(strings.Repeat("░", barWidth-filled))
		lines = append(lines, fmt.Sprintf("%-*s %s %3d%% %s", width, s.Label, bar, s.Percent, muted.Render(s.Band)))
	}
	return strings.Join(lines, "\n")
}

func renderAdvice(r report.Report) string {
	lines := []string{heading.Render("Action plan")}
	for i, item := range r.Advice {
		lines = append(lines,
			fmt.Sprintf("%d. %s %s", i+1, item.Icon, heading.Render(item.Title)),
			"   "+muted.Render(item.Body),
		)
	}
	if r.ID != "" {
		lines = append(lines, "", muted.Render("report "+r.ID))
	}
	return strings.Join(lines, "\n")
}
