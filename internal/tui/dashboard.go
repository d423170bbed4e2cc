package tui

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/janekbaraniewski/gateusage/internal/api"
	"github.com/janekbaraniewski/gateusage/internal/appupdate"
	"github.com/janekbaraniewski/gateusage/internal/config"
	"github.com/janekbaraniewski/gateusage/internal/console"
	"github.com/janekbaraniewski/gateusage/internal/core"
	"github.com/janekbaraniewski/gateusage/internal/history"
	"github.com/janekbaraniewski/gateusage/internal/series"
)

const refreshTimeout = 20 * time.Second

// Options wires the dashboard to the data layer. Store may be nil when
// local history could not be opened; the dashboard then simply has no
// trend line.
type Options struct {
	Console         *console.Console
	Store           *history.Store
	BaseURL         func() string
	Window          core.TimeWindow
	RefreshInterval time.Duration
	WarnThreshold   float64
	CritThreshold   float64
	Version         string
}

type refreshResult struct {
	user    core.User
	userErr error

	agg     series.Result
	dropped int
	dataErr error

	trend []history.Sample
	at    time.Time
}

type refreshMsg refreshResult

type tickMsg time.Time

type updateHintMsg string

type Model struct {
	opts   Options
	window core.TimeWindow

	width  int
	height int

	loading    bool
	result     *refreshResult
	updateHint string
}

func NewModel(opts Options) Model {
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = 30 * time.Second
	}
	if opts.WarnThreshold <= 0 {
		opts.WarnThreshold = 0.20
	}
	if opts.CritThreshold <= 0 {
		opts.CritThreshold = 0.05
	}
	window := opts.Window
	if window == "" {
		window = core.TimeWindow7d
	}
	return Model{opts: opts, window: window, loading: true}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.refreshCmd(), m.tickCmd(), m.updateCheckCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			m.loading = true
			return m, m.refreshCmd()
		case "w":
			return m.withWindow(core.NextTimeWindow(m.window))
		case "1", "2", "3", "4":
			index := int(msg.String()[0] - '1')
			return m.withWindow(core.ValidTimeWindows[index])
		}
		return m, nil

	case tickMsg:
		m.loading = true
		return m, tea.Batch(m.refreshCmd(), m.tickCmd())

	case refreshMsg:
		result := refreshResult(msg)
		m.result = &result
		m.loading = false
		return m, nil

	case updateHintMsg:
		m.updateHint = string(msg)
		return m, nil
	}

	return m, nil
}

func (m Model) withWindow(window core.TimeWindow) (tea.Model, tea.Cmd) {
	if window == m.window {
		return m, nil
	}
	m.window = window
	m.loading = true
	if err := config.SaveTimeWindow(window); err != nil {
		log.Printf("tui: saving time window: %v", err)
	}
	return m, m.refreshCmd()
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.opts.RefreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) updateCheckCmd() tea.Cmd {
	version := m.opts.Version
	return func() tea.Msg {
		result, err := appupdate.Check(context.Background(), appupdate.CheckOptions{
			CurrentVersion: version,
		})
		if err != nil || !result.UpdateAvailable {
			return updateHintMsg("")
		}
		return updateHintMsg(fmt.Sprintf("update available: %s", result.LatestVersion))
	}
}

func (m Model) refreshCmd() tea.Cmd {
	c := m.opts.Console
	store := m.opts.Store
	window := m.window

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()

		now := time.Now()
		result := refreshResult{at: now}

		result.user, result.userErr = c.Self(ctx)

		startSec, endSec := window.Range(now)
		rows, dropped, err := c.QuotaData(ctx, startSec, endSec)
		result.dropped = dropped
		result.dataErr = err
		if err == nil {
			result.agg = series.Aggregate(rows, time.Unix(startSec, 0), time.Unix(endSec, 0))
		}

		if store != nil && err == nil {
			sample := history.Sample{
				TakenAt:  now,
				Window:   string(window),
				Quota:    result.agg.TotalQuota,
				Tokens:   result.agg.TotalToken,
				Requests: result.agg.TotalCount,
			}
			if err := store.Append(ctx, sample); err != nil {
				log.Printf("tui: recording history: %v", err)
			}
			trend, err := store.Recent(ctx, 48)
			if err != nil {
				log.Printf("tui: loading history: %v", err)
			} else {
				result.trend = trend
			}
		}

		return refreshMsg(result)
	}
}

func (m Model) View() string {
	var b strings.Builder

	title := headerBrandStyle.Render("gateusage")
	baseURL := ""
	if m.opts.BaseURL != nil {
		baseURL = m.opts.BaseURL()
	}
	header := title + "  " + subtextStyle.Render(baseURL) + "  " +
		dimStyle.Render(m.window.Label())
	if m.updateHint != "" {
		header += "  " + lipgloss.NewStyle().Foreground(colorYellow).Render(m.updateHint)
	}
	b.WriteString(header + "\n\n")

	if m.result == nil {
		b.WriteString(dimStyle.Render("Loading…") + "\n")
		return b.String()
	}

	b.WriteString(m.renderAccount())
	b.WriteString(m.renderUsage())

	status := ""
	if m.loading {
		status = dimStyle.Render("refreshing…")
	} else if !m.result.at.IsZero() {
		status = dimStyle.Render("updated " + m.result.at.Format("15:04:05"))
	}
	help := helpStyle.Render("r refresh · w window · 1-4 range · q quit")
	b.WriteString("\n" + help + "  " + status + "\n")

	return b.String()
}

func (m Model) renderAccount() string {
	result := m.result

	if result.userErr != nil {
		return cardStyle.Render(errorStyle.Render(errorLine(result.userErr))) + "\n"
	}

	user := result.user
	name := user.Username
	if user.DisplayName != nil && *user.DisplayName != "" {
		name = *user.DisplayName
	}

	var lines []string
	lines = append(lines, headerStyle.Render(name)+dimStyle.Render(fmt.Sprintf("  #%d", user.ID)))

	gauge := RenderGauge(user.QuotaRemainingPercent(), 30, m.opts.WarnThreshold, m.opts.CritThreshold)
	lines = append(lines, subtextStyle.Render("quota ")+gauge)

	if user.Quota != nil {
		detail := fmt.Sprintf("remaining %s", formatQuota(*user.Quota))
		if user.UsedQuota != nil {
			detail += dimStyle.Render(fmt.Sprintf(" · used %s", formatQuota(*user.UsedQuota)))
		}
		if user.RequestCount != nil {
			detail += dimStyle.Render(fmt.Sprintf(" · %d requests", *user.RequestCount))
		}
		lines = append(lines, textStyle.Render(detail))
	}

	return cardStyle.Render(strings.Join(lines, "\n")) + "\n"
}

func (m Model) renderUsage() string {
	result := m.result

	if result.dataErr != nil {
		return cardStyle.Render(errorStyle.Render(errorLine(result.dataErr))) + "\n"
	}

	agg := result.agg
	sparkWidth := 40
	if m.width > 0 && m.width-20 < sparkWidth {
		sparkWidth = m.width - 20
	}

	var lines []string
	lines = append(lines, sectionHeaderStyle.Render("Usage · "+m.window.Label()))
	lines = append(lines, fmt.Sprintf("%s %s  %s",
		subtextStyle.Render("rpm"),
		RenderSparkline(result.agg.RPM, sparkWidth, colorTeal),
		textStyle.Render(fmt.Sprintf("avg %.2f", agg.AvgRPM))))
	lines = append(lines, fmt.Sprintf("%s %s  %s",
		subtextStyle.Render("tpm"),
		RenderSparkline(result.agg.TPM, sparkWidth, colorPeach),
		textStyle.Render(fmt.Sprintf("avg %.1f", agg.AvgTPM))))
	lines = append(lines, dimStyle.Render(fmt.Sprintf(
		"totals: %.0f requests · %.0f tokens · %s quota",
		agg.TotalCount, agg.TotalToken, formatQuota(agg.TotalQuota))))

	if result.dropped > 0 {
		lines = append(lines, dimStyle.Render(fmt.Sprintf("%d malformed rows ignored", result.dropped)))
	}

	if len(result.trend) > 1 {
		values := lo.Map(result.trend, func(s history.Sample, _ int) float64 { return s.Requests })
		lines = append(lines, "")
		lines = append(lines, subtextStyle.Render("trend ")+RenderSparkline(values, sparkWidth, colorBlue))
	}

	return cardStyle.Render(strings.Join(lines, "\n")) + "\n"
}

// errorLine turns a data-layer error into the line shown on the card. A
// declared gateway failure keeps its message; configuration problems get
// an actionable hint.
func errorLine(err error) string {
	if errors.Is(err, api.ErrNoBaseURL) {
		return "no gateway configured, run `gateusage login`"
	}
	var apiErr *console.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	return "request failed: " + err.Error()
}

// formatQuota renders gateway quota units compactly.
func formatQuota(quota float64) string {
	switch {
	case quota >= 1e9:
		return fmt.Sprintf("%.2fB", quota/1e9)
	case quota >= 1e6:
		return fmt.Sprintf("%.2fM", quota/1e6)
	case quota >= 1e3:
		return fmt.Sprintf("%.1fk", quota/1e3)
	default:
		return fmt.Sprintf("%.0f", quota)
	}
}
