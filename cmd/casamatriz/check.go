package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/dm/casamatriz/internal/client"
	"github.com/dm/casamatriz/internal/config"
	"github.com/dm/casamatriz/internal/engine"
	"github.com/dm/casamatriz/internal/format"
	"github.com/dm/casamatriz/internal/logging"
	"github.com/dm/casamatriz/internal/model"
	"github.com/dm/casamatriz/internal/tui"
)

var errUnhealthy = errors.New("middleware is unhealthy")

var (
	styleLabel = lipgloss.NewStyle().Width(20)
	styleOK    = lipgloss.NewStyle().Foreground(lipgloss.Color("#10b981"))
	styleFail  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444")).Bold(true)
)

func newCheckCmd(cfg func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check every middleware endpoint once and print a summary",
		Long: "Fetches the status, health, purchase and hospital endpoints concurrently.\n" +
			"Exits 1 if any service is down or any request fails.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return runCheck(cmd.Context(), cfg(), cmd.OutOrStdout())
		},
	}
}

func runCheck(ctx context.Context, cfg *config.Config, out io.Writer) error {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := logging.NewLogger(os.Stderr, level)

	c, err := client.NewDefaultClient(client.ClientConfig{
		BaseURL:            cfg.MiddlewareURL,
		InsecureSkipVerify: cfg.Insecure,
	})
	if err != nil {
		return err
	}

	if cfg.LoadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.LoadTimeout)
		defer cancel()
	}

	logger.Debug("checking middleware", "url", c.BaseURL())
	report := engine.CheckAll(ctx, c, cfg.StatusTimeout)
	for name, err := range map[string]error{
		"status":       report.StatusErr,
		"health":       report.HealthErr,
		"lists":        report.ListsErr,
		"items":        report.ItemsErr,
		"appointments": report.AppointmentsErr,
	} {
		if err != nil {
			logger.Warn("endpoint check failed", "endpoint", name, "err", err)
		}
	}

	printReport(out, c.BaseURL(), report)
	if !report.Healthy() {
		return errUnhealthy
	}
	return nil
}

// printReport writes one line per service indicator and per checked endpoint.
func printReport(w io.Writer, baseURL string, r *engine.CheckReport) {
	fmt.Fprintf(w, "Middleware: %s\n\n", baseURL)

	board := model.NewStatusBoard()
	if r.StatusErr == nil {
		board.Apply(r.Status, r.FetchedAt)
	}
	for _, svc := range model.Services {
		state := board.State(svc.Key)
		fmt.Fprintf(w, "%s %s %s\n",
			tui.IndicatorStyle(state).Render("●"), styleLabel.Render(svc.Label), state)
	}
	fmt.Fprintln(w)

	line := func(name string, err error, detail string) {
		if err != nil {
			fmt.Fprintf(w, "%s %s\n", styleLabel.Render(name), styleFail.Render("FAIL "+err.Error()))
			return
		}
		fmt.Fprintf(w, "%s %s\n", styleLabel.Render(name), styleOK.Render("ok")+"  "+detail)
	}

	line("status", r.StatusErr, "")
	health := ""
	if r.Health != nil {
		health = fmt.Sprintf("%s (%s)", r.Health.Status, r.Health.Database)
	}
	line("health", r.HealthErr, health)
	line("lists", r.ListsErr, count(len(r.Lists), "lists"))
	if r.ListsErr == nil && len(r.Lists) > 0 {
		line("items", r.ItemsErr, count(len(r.Items), "items in list "+r.Lists[0].ID.String()))
	}
	line("appointments", r.AppointmentsErr, count(len(r.Appointments), "appointments"))
}

func count(n int, noun string) string {
	return format.FormatNumber(int64(n)) + " " + noun
}
