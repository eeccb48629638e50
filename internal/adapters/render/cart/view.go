package cart

import (
	"fmt"
	"math"
	"strings"

	"github.com/bnema/storefront-cli/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

const hotdealBarWidth = 20

func renderView(state domain.CartState, totals domain.CartTotals, s styles) string {
	lines := []string{s.title.Render("Cart")}

	if state.IsEmpty() {
		lines = append(lines, s.empty.Render("Your cart is empty."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	lines = append(lines, s.header.Render(fmt.Sprintf("store: %d  items: %d", *state.StoreID, state.TotalQuantity)))

	for _, line := range state.Items {
		lines = append(lines, s.section.Render(renderLine(line, s)))
	}

	lines = append(lines, s.section.Render(renderTotals(state, totals, s)))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderLine(line domain.OrderLine, s styles) string {
	title := s.product.Render(fmt.Sprintf("%s (#%d)", strings.TrimSpace(line.ProductName), line.ProductID))

	price := s.detail.Render(fmt.Sprintf("%d x %s", line.Quantity, FormatWon(line.SalePrice)))
	if line.OriginPrice > line.SalePrice {
		price = lipgloss.JoinHorizontal(lipgloss.Top, price, " ", s.strike.Render(FormatWon(line.OriginPrice)))
	}

	parts := []string{title, price}
	if line.Stock > 0 {
		stock := fmt.Sprintf("stock: %d", line.Stock)
		if line.Quantity >= line.Stock {
			stock = s.warning.Render(stock + " (max reached)")
		} else {
			stock = s.header.Render(stock)
		}
		parts = append(parts, stock)
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderTotals(state domain.CartState, totals domain.CartTotals, s styles) string {
	row := func(key, value string, valueStyle lipgloss.Style) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, s.totalKey.Render(fmt.Sprintf("%-18s", key)), valueStyle.Render(value))
	}

	rows := []string{
		row("subtotal:", FormatWon(state.TotalOriginPrice), s.detail),
		row("item discount:", "-"+FormatWon(totals.ItemDiscount), s.discount),
	}
	if state.Hotdeal != nil {
		rows = append(rows, hotdealRow(*state.Hotdeal, totals.HotdealDiscount, s))
	}
	rows = append(rows,
		row("total discount:", "-"+FormatWon(totals.TotalDiscountAmount), s.discount),
		row("to pay:", FormatWon(totals.FinalAmount), s.total),
	)

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func hotdealRow(hotdeal domain.Hotdeal, discount int64, s styles) string {
	label := s.totalKey.Render(fmt.Sprintf("%-18s", "hotdeal:"))
	if hotdeal.Status != domain.HotdealActive {
		return lipgloss.JoinHorizontal(lipgloss.Top, label, s.empty.Render("inactive"))
	}

	meta := s.header.Render(fmt.Sprintf("(%.0f%%, cap %s)", hotdeal.SaleRate*100, FormatWon(hotdeal.MaxDiscount)))
	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		label,
		s.discount.Render("-"+FormatWon(discount)),
		" ",
		renderCapBar(discount, hotdeal.MaxDiscount, hotdealBarWidth, s),
		" ",
		meta,
	)
}

// renderCapBar shows how much of the hotdeal cap the cart already uses.
func renderCapBar(used, limit int64, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	fraction := 1.0
	if limit > 0 {
		fraction = float64(used) / float64(limit)
	}
	filled := int(math.Round(float64(width) * fraction))
	filled = max(0, min(filled, width))

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", width-filled)),
		s.barBracket.Render("]"),
	)
}

// FormatWon prints an amount with thousands separators, e.g. 12,500 KRW.
func FormatWon(amount int64) string {
	return humanize.Comma(amount) + " " + domain.PaymentCurrency
}
