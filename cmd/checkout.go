package cmd

import (
	"errors"
	"fmt"

	cartrender "github.com/bnema/storefront-cli/internal/adapters/render/cart"
	"github.com/bnema/storefront-cli/internal/application"
	"github.com/bnema/storefront-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newCheckoutCmd(app *app) *cobra.Command {
	var recipient, payMethod string

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Create an order from the cart and pay for it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			method, err := domain.ParsePayMethod(payMethod)
			if err != nil {
				return err
			}

			checkout, err := app.checkoutService(cmd.Context())
			if err != nil {
				return err
			}

			result, err := runCheckoutProgress(cmd.Context(), cmd.ErrOrStderr(), checkout.Checkout, application.CheckoutCommand{
				RecipientName: recipient,
				PayMethod:     method,
			})

			w := cmd.OutOrStdout()
			if errors.Is(err, domain.ErrPaymentFailed) {
				_, _ = fmt.Fprintf(w, "Order %s was created but payment did not complete. Your cart was kept.\n", result.Order.OrderID)
				_, _ = fmt.Fprintf(w, "Retry with `sf checkout` or cancel it with `sf order cancel %s`.\n", result.Order.OrderID)
				return err
			}
			if err != nil {
				return app.explain(fmt.Errorf("checkout: %w", err))
			}

			_, _ = fmt.Fprintf(w, "Order %s paid\n", result.Order.OrderID)
			_, _ = fmt.Fprintf(w, "Amount: %s\n", cartrender.FormatWon(result.Order.Amount))
			if result.Totals.TotalDiscountAmount > 0 {
				_, _ = fmt.Fprintf(w, "Saved: %s\n", cartrender.FormatWon(result.Totals.TotalDiscountAmount))
			}
			_, err = fmt.Fprintf(w, "Transaction: %s\n", valueOr(result.Payment.TxID, "n/a"))
			return err
		},
	}

	cmd.Flags().StringVar(&recipient, "recipient", "", "Name of the person picking up the order")
	cmd.Flags().StringVar(&payMethod, "pay-method", string(domain.PayMethodCard), "CARD, EASY_PAY, TRANSFER, VIRTUAL_ACCOUNT or MOBILE")
	_ = cmd.MarkFlagRequired("recipient")

	return cmd
}
