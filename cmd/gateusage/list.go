package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/janekbaraniewski/gateusage/internal/config"
	"github.com/janekbaraniewski/gateusage/internal/console"
	"github.com/janekbaraniewski/gateusage/internal/core"
	"github.com/janekbaraniewski/gateusage/internal/pager"
)

const listTimeout = 15 * time.Second

type listFlags struct {
	page     int
	pageSize int
}

func (f *listFlags) register(cmd *cobra.Command, defaultSize int) {
	cmd.Flags().IntVarP(&f.page, "page", "p", 1, "1-based page to fetch")
	cmd.Flags().IntVar(&f.pageSize, "page-size", defaultSize, "rows per page")
}

// runListing drives one page load through the pagination controller and
// prints the shared footer (page position, has-more, dropped rows).
func runListing[T any](p *pager.Pager[T], page int, print func(w *tabwriter.Writer, items []T)) error {
	ctx, cancel := context.WithTimeout(context.Background(), listTimeout)
	defer cancel()

	if err := p.Load(ctx, page); err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	print(w, p.Items())
	w.Flush()

	footer := fmt.Sprintf("page %d", p.Page())
	if p.Total() > 0 {
		footer += fmt.Sprintf(" · %d total", p.Total())
	} else if p.CanNext() {
		footer += " · more available"
	}
	if p.Dropped() > 0 {
		footer += fmt.Sprintf(" · %d malformed rows ignored", p.Dropped())
	}
	fmt.Println(footer)
	return nil
}

func NewTokensCommand(cfg config.Config) *cobra.Command {
	var flags listFlags
	cmd := &cobra.Command{
		Use:   "tokens",
		Short: "List API tokens.",
		RunE: func(_ *cobra.Command, _ []string) error {
			_, _, gateway, err := newConsole()
			if err != nil {
				return err
			}
			return runListing(gateway.TokensPager(flags.pageSize), flags.page,
				func(w *tabwriter.Writer, items []core.Token) {
					fmt.Fprintln(w, "ID\tNAME\tSTATUS\tREMAIN\tUSED\tEXPIRES")
					for _, t := range items {
						remain := numCell(t.RemainQuota)
						if t.UnlimitedQuota != nil && *t.UnlimitedQuota {
							remain = "unlimited"
						}
						fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
							t.ID, strCell(t.Name), intCell(t.Status),
							remain, numCell(t.UsedQuota), timeCell(t.ExpiresAt))
					}
				})
		},
	}
	flags.register(cmd, cfg.PageSize)
	return cmd
}

func NewLogsCommand(cfg config.Config) *cobra.Command {
	var (
		flags     listFlags
		logType   int64
		tokenName string
		modelName string
		window    string
	)
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "List usage log entries.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, _, gateway, err := newConsole()
			if err != nil {
				return err
			}

			filter := console.LogFilter{}
			if cmd.Flags().Changed("type") {
				filter.Type = core.Int64Ptr(logType)
			}
			if tokenName != "" {
				filter.TokenName = core.StringPtr(tokenName)
			}
			if modelName != "" {
				filter.ModelName = core.StringPtr(modelName)
			}
			if window != "" {
				start, end := core.ParseTimeWindow(window).Range(time.Now())
				filter.StartTimestamp = core.Int64Ptr(start)
				filter.EndTimestamp = core.Int64Ptr(end)
			}

			return runListing(gateway.LogsPager(flags.pageSize, filter), flags.page,
				func(w *tabwriter.Writer, items []core.LogItem) {
					fmt.Fprintln(w, "ID\tTIME\tMODEL\tTOKEN\tPROMPT\tCOMPLETION\tQUOTA")
					for _, l := range items {
						fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
							l.ID, timeCell(l.CreatedAt), strCell(l.ModelName), strCell(l.TokenName),
							intCell(l.PromptTokens), intCell(l.CompletionTokens), numCell(l.Quota))
					}
				})
		},
	}
	flags.register(cmd, cfg.PageSize)
	cmd.Flags().Int64Var(&logType, "type", 0, "log type filter")
	cmd.Flags().StringVar(&tokenName, "token-name", "", "filter by token name")
	cmd.Flags().StringVar(&modelName, "model-name", "", "filter by model name")
	cmd.Flags().StringVar(&window, "window", "", "time window (1d, 3d, 7d, 30d)")
	return cmd
}

func NewChannelsCommand(cfg config.Config) *cobra.Command {
	var flags listFlags
	cmd := &cobra.Command{
		Use:   "channels",
		Short: "List upstream channels (admin only).",
		RunE: func(_ *cobra.Command, _ []string) error {
			_, _, gateway, err := newConsole()
			if err != nil {
				return err
			}
			return runListing(gateway.ChannelsPager(flags.pageSize), flags.page,
				func(w *tabwriter.Writer, items []core.Channel) {
					fmt.Fprintln(w, "ID\tNAME\tTYPE\tSTATUS\tPRIORITY\tUSED\tBALANCE")
					for _, c := range items {
						fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
							c.ID, strCell(c.Name), intCell(c.Type), intCell(c.Status),
							intCell(c.Priority), numCell(c.UsedQuota), numCell(c.Balance))
					}
				})
		},
	}
	flags.register(cmd, cfg.PageSize)
	return cmd
}

func NewRedemptionsCommand(cfg config.Config) *cobra.Command {
	var flags listFlags
	cmd := &cobra.Command{
		Use:   "redemptions",
		Short: "List redemption codes.",
		RunE: func(_ *cobra.Command, _ []string) error {
			_, _, gateway, err := newConsole()
			if err != nil {
				return err
			}
			return runListing(gateway.RedemptionsPager(flags.pageSize), flags.page,
				func(w *tabwriter.Writer, items []core.Redemption) {
					fmt.Fprintln(w, "ID\tNAME\tSTATUS\tQUOTA\tCREATED\tREDEEMED")
					for _, r := range items {
						fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
							r.ID, strCell(r.Name), intCell(r.Status),
							numCell(r.Quota), timeCell(r.CreatedAt), timeCell(r.RedeemedAt))
					}
				})
		},
	}
	flags.register(cmd, cfg.PageSize)
	return cmd
}

func NewTopupCommand(cfg config.Config) *cobra.Command {
	var flags listFlags
	cmd := &cobra.Command{
		Use:   "topup",
		Short: "Show top-up offer, payment methods and past orders.",
		RunE: func(_ *cobra.Command, _ []string) error {
			_, _, gateway, err := newConsole()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), listTimeout)
			defer cancel()

			if info, err := gateway.TopupInfo(ctx); err == nil {
				fmt.Printf("Minimum top-up: %d", info.MinTopup)
				if info.Price != nil {
					fmt.Printf(" · price %.2f per unit", *info.Price)
				}
				if info.TopupLink != nil {
					fmt.Printf(" · %s", *info.TopupLink)
				}
				fmt.Println()
			} else {
				fmt.Printf("Top-up offer unavailable: %v\n", err)
			}

			if methods, _, err := gateway.PayMethods(ctx); err == nil && len(methods) > 0 {
				fmt.Print("Payment methods:")
				for _, m := range methods {
					name := m.Type
					if m.Name != nil && *m.Name != "" {
						name = *m.Name
					}
					fmt.Printf(" %s", name)
				}
				fmt.Println()
			}

			fmt.Println()
			return runListing(gateway.TopupRecordsPager(flags.pageSize), flags.page,
				func(w *tabwriter.Writer, items []core.TopupRecord) {
					fmt.Fprintln(w, "ID\tTRADE NO\tAMOUNT\tQUOTA\tSTATUS\tTIME")
					for _, r := range items {
						fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
							r.ID, strCell(r.TradeNo), numCell(r.Amount),
							numCell(r.Quota), strCell(r.Status), timeCell(r.CreatedAt))
					}
				})
		},
	}
	flags.register(cmd, cfg.PageSize)
	return cmd
}

func NewProductsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "products",
		Short: "List storefront products.",
		RunE: func(_ *cobra.Command, _ []string) error {
			_, _, gateway, err := newConsole()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), listTimeout)
			defer cancel()

			products, dropped, err := gateway.CreemProducts(ctx)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tPRICE\tQUOTA\tCURRENCY")
			for _, p := range products {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					p.ID, strCell(p.Name), numCell(p.Price), numCell(p.Quota), strCell(p.Currency))
			}
			w.Flush()
			if dropped > 0 {
				fmt.Printf("%d malformed rows ignored\n", dropped)
			}
			return nil
		},
	}
}

func strCell(v *string) string {
	if v == nil {
		return "-"
	}
	return *v
}

func intCell(v *int64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}

func numCell(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.0f", *v)
}

func timeCell(v *time.Time) string {
	if v == nil {
		return "-"
	}
	return v.Local().Format("2006-01-02 15:04")
}
