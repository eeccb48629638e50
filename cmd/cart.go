package cmd

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bnema/storefront-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newCartCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Build the single-store cart",
	}

	cmd.AddCommand(
		newCartShowCmd(app),
		newCartAddCmd(app),
		newCartProductCmd(app, "remove", "Remove a product from the cart", domain.RemoveItem),
		newCartProductCmd(app, "inc", "Increase a product quantity by one", domain.IncreaseQuantity),
		newCartProductCmd(app, "dec", "Decrease a product quantity by one (removes it at 1)", domain.DecreaseQuantity),
		newCartClearCmd(app),
		newCartHotdealCmd(app),
	)

	return cmd
}

type cartOutput struct {
	Items   []domain.OrderLine `json:"items"`
	StoreID *int64             `json:"storeId"`
	Hotdeal *domain.Hotdeal    `json:"hotdeal,omitempty"`

	TotalOriginPrice    int64 `json:"totalOriginPrice"`
	TotalSalePrice      int64 `json:"totalSalePrice"`
	TotalQuantity       int   `json:"totalQuantity"`
	ItemDiscount        int64 `json:"itemDiscount"`
	HotdealDiscount     int64 `json:"hotdealDiscount"`
	TotalDiscountAmount int64 `json:"totalDiscountAmount"`
	FinalAmount         int64 `json:"finalAmount"`
}

func writeCart(cmd *cobra.Command, app *app, state domain.CartState, asJSON bool) error {
	if asJSON {
		totals := domain.ComputeTotals(state)
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(cartOutput{
			Items:               state.Items,
			StoreID:             state.StoreID,
			Hotdeal:             state.Hotdeal,
			TotalOriginPrice:    state.TotalOriginPrice,
			TotalSalePrice:      state.TotalSalePrice,
			TotalQuantity:       state.TotalQuantity,
			ItemDiscount:        totals.ItemDiscount,
			HotdealDiscount:     totals.HotdealDiscount,
			TotalDiscountAmount: totals.TotalDiscountAmount,
			FinalAmount:         totals.FinalAmount,
		})
	}

	rendered, err := app.renderCart(state)
	if err != nil {
		return fmt.Errorf("render cart: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}

func newCartShowCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the cart and its totals",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cart, err := app.cartService(cmd.Context())
			if err != nil {
				return err
			}
			state, err := cart.State(cmd.Context())
			if err != nil {
				return err
			}
			return writeCart(cmd, app, state, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the cart as JSON")

	return cmd
}

func newCartAddCmd(app *app) *cobra.Command {
	var (
		line    domain.OrderLine
		replace bool
		yes     bool
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a product to the cart",
		Long:  "Add a product to the cart. Adding a product from another store asks before replacing the cart, unless --replace or --yes is given.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cart, err := app.cartService(cmd.Context())
			if err != nil {
				return err
			}

			action := domain.AddItem(line)
			if replace {
				action = domain.ReplaceCart(line)
			}

			state, err := cart.Dispatch(cmd.Context(), action)
			var conflict *domain.StoreConflictError
			if errors.As(err, &conflict) {
				confirmed := yes
				if !confirmed {
					confirmed, err = confirm(cmd, fmt.Sprintf(
						"Your cart holds items from store %d. Empty it and add this product from store %d? [y/N] ",
						conflict.CartStoreID, conflict.ItemStoreID,
					))
					if err != nil {
						return err
					}
				}
				if !confirmed {
					_, err := fmt.Fprintln(cmd.OutOrStdout(), "Cart unchanged")
					return err
				}
				state, err = cart.Dispatch(cmd.Context(), domain.ReplaceCart(line))
			}
			if err != nil {
				return err
			}

			return writeCart(cmd, app, state, asJSON)
		},
	}

	flags := cmd.Flags()
	flags.Int64Var(&line.ProductID, "product-id", 0, "Product ID")
	flags.StringVar(&line.ProductName, "name", "", "Product name")
	flags.StringVar(&line.Description, "description", "", "Product description")
	flags.StringVar(&line.ImageURL, "image-url", "", "Product image URL")
	flags.Int64Var(&line.OriginPrice, "origin-price", 0, "List price per unit")
	flags.Int64Var(&line.SalePrice, "sale-price", 0, "Sale price per unit (defaults to the list price)")
	flags.IntVar(&line.Quantity, "quantity", 1, "Quantity to add")
	flags.Int64Var(&line.StoreID, "store-id", 0, "Store the product belongs to")
	flags.IntVar(&line.Stock, "stock", 0, "Available stock (0 when unknown)")
	flags.BoolVar(&replace, "replace", false, "Replace the whole cart with this product")
	flags.BoolVarP(&yes, "yes", "y", false, "Replace the cart without asking when the store differs")
	flags.BoolVar(&asJSON, "json", false, "Print the resulting cart as JSON")
	_ = cmd.MarkFlagRequired("product-id")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("origin-price")
	_ = cmd.MarkFlagRequired("store-id")

	cmd.PreRunE = func(cmd *cobra.Command, _ []string) error {
		if !cmd.Flags().Changed("sale-price") {
			line.SalePrice = line.OriginPrice
		}
		if line.SalePrice > line.OriginPrice {
			return fmt.Errorf("sale price %d is above the list price %d", line.SalePrice, line.OriginPrice)
		}
		return nil
	}

	return cmd
}

func newCartProductCmd(app *app, use, short string, action func(int64) domain.CartAction) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   use + " <product-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			productID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid product id %q: %w", args[0], err)
			}

			cart, err := app.cartService(cmd.Context())
			if err != nil {
				return err
			}
			state, err := cart.Dispatch(cmd.Context(), action(productID))
			if err != nil {
				return err
			}

			return writeCart(cmd, app, state, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the resulting cart as JSON")

	return cmd
}

func newCartClearCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cart, err := app.cartService(cmd.Context())
			if err != nil {
				return err
			}
			if _, err := cart.Dispatch(cmd.Context(), domain.ClearCart()); err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), "Cart cleared")
			return err
		},
	}
}

func newCartHotdealCmd(app *app) *cobra.Command {
	var (
		status      string
		rate        float64
		maxDiscount int64
		clear       bool
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "hotdeal",
		Short: "Set or clear the store promotion applied to the cart",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var hotdeal *domain.Hotdeal
			if !clear {
				hotdeal = &domain.Hotdeal{
					Status:      domain.HotdealStatus(strings.ToUpper(strings.TrimSpace(status))),
					SaleRate:    rate,
					MaxDiscount: maxDiscount,
				}
			}

			cart, err := app.cartService(cmd.Context())
			if err != nil {
				return err
			}
			state, err := cart.Dispatch(cmd.Context(), domain.SetHotdeal(hotdeal))
			if err != nil {
				return err
			}

			return writeCart(cmd, app, state, asJSON)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&status, "status", string(domain.HotdealActive), "ACTIVE or INACTIVE")
	flags.Float64Var(&rate, "rate", 0, "Discount rate between 0 and 1")
	flags.Int64Var(&maxDiscount, "max", 0, "Maximum discount")
	flags.BoolVar(&clear, "clear", false, "Remove the promotion")
	flags.BoolVar(&asJSON, "json", false, "Print the resulting cart as JSON")
	cmd.MarkFlagsMutuallyExclusive("clear", "rate")

	return cmd
}

func confirm(cmd *cobra.Command, prompt string) (bool, error) {
	if _, err := fmt.Fprint(cmd.OutOrStdout(), prompt); err != nil {
		return false, err
	}

	answer, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && answer == "" {
		return false, nil
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
