package cmd

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/bnema/storefront-cli/internal/application"
	"github.com/bnema/storefront-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newOrderCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Follow, cancel and pick up orders",
	}

	cmd.AddCommand(
		newOrderStatusCmd(app),
		newOrderCancelCmd(app),
		newOrderReceiveCmd(app),
		newOrderQRCmd(app),
		newOrderWatchCmd(app),
		newOrderConfigCmd(app),
	)

	return cmd
}

type orderStatusOutput struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status,omitempty"`
	Error   string `json:"error,omitempty"`
}

func newOrderStatusCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status <order-id>...",
		Short: "Show the status of one or more orders",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := app.orders.StatusMany(cmd.Context(), args)
			if err != nil {
				return app.explain(err)
			}

			if asJSON {
				out := make([]orderStatusOutput, 0, len(results))
				for _, result := range results {
					entry := orderStatusOutput{OrderID: result.OrderID, Status: string(result.Status)}
					if result.Err != nil {
						entry.Error = result.Err.Error()
					}
					out = append(out, entry)
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}

			w := cmd.OutOrStdout()
			failed := 0
			for _, result := range results {
				if result.Err != nil {
					failed++
					_, _ = fmt.Fprintf(w, "%s\terror: %v\n", result.OrderID, result.Err)
					continue
				}
				_, _ = fmt.Fprintf(w, "%s\t%s\n", result.OrderID, result.Status)
			}
			if failed == len(results) {
				return fmt.Errorf("no order status could be fetched")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print statuses as JSON")

	return cmd
}

func newOrderCancelCmd(app *app) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "cancel <order-id>",
		Short: "Cancel an order that has not been prepared yet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.orders.Cancel(cmd.Context(), args[0], reason); err != nil {
				return app.explain(fmt.Errorf("cancel order %s: %w", args[0], err))
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Order %s cancelled\n", args[0])
			return err
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "Why the order is cancelled")
	_ = cmd.MarkFlagRequired("reason")

	return cmd
}

func newOrderReceiveCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "receive <order-id>",
		Short: "Confirm pickup of a prepared order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.orders.Receive(cmd.Context(), args[0]); err != nil {
				return app.explain(fmt.Errorf("receive order %s: %w", args[0], err))
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Order %s received\n", args[0])
			return err
		},
	}
}

func newOrderQRCmd(app *app) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "qr <order-id>",
		Short: "Fetch the pickup QR code of an order",
		Long:  "Fetch the pickup QR code of an order. Prints the base64 image unless --out is given.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			encoded, err := app.orders.QR(cmd.Context(), args[0])
			if err != nil {
				return app.explain(fmt.Errorf("fetch qr for order %s: %w", args[0], err))
			}

			if outPath == "" {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), encoded)
				return err
			}

			image, err := base64.StdEncoding.DecodeString(encoded)
			if err != nil {
				return fmt.Errorf("decode qr image: %w", err)
			}
			if err := os.WriteFile(outPath, image, 0o600); err != nil {
				return fmt.Errorf("write qr image: %w", err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "QR code written to %s\n", outPath)
			return err
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the decoded image to this file")

	return cmd
}

func newOrderWatchCmd(app *app) *cobra.Command {
	var (
		interval time.Duration
		until    string
	)

	cmd := &cobra.Command{
		Use:   "watch <order-id>",
		Short: "Poll an order until it reaches a final status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := application.WatchOptions{Interval: interval}
			if strings.TrimSpace(until) != "" {
				stopAt, err := domain.ParseOrderStatus(until)
				if err != nil {
					return err
				}
				opts.StopAt = stopAt
			}

			w := cmd.OutOrStdout()
			final, err := app.orders.Watch(cmd.Context(), args[0], opts, func(update application.WatchUpdate) {
				line := fmt.Sprintf("%s\t%s", update.At.Format(time.TimeOnly), update.Status)
				if update.Unexpected {
					line += fmt.Sprintf("\t(unexpected after %s)", update.Previous)
				}
				_, _ = fmt.Fprintln(w, line)
			})
			if err != nil {
				return app.explain(err)
			}

			if final == domain.OrderPrepared {
				_, err = fmt.Fprintf(w, "Order %s is ready for pickup\n", args[0])
			}
			return err
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", application.DefaultWatchInterval, "Polling interval")
	cmd.Flags().StringVar(&until, "until", "", "Stop once this status is reached (e.g. PREPARED)")

	return cmd
}

func newOrderConfigCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the payment configuration of the store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.orders.PaymentConfig(cmd.Context())
			if err != nil {
				return app.explain(err)
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(cfg)
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "Store: %d\n", cfg.StoreID)
			methods := make([]string, 0, len(cfg.ChannelKeys))
			for method := range cfg.ChannelKeys {
				methods = append(methods, string(method))
			}
			sort.Strings(methods)
			for _, method := range methods {
				_, _ = fmt.Fprintf(w, "%s\t%s\n", method, cfg.ChannelKeys[domain.PayMethod(method)])
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the configuration as JSON")

	return cmd
}
