package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/bnema/storefront-cli/internal/application"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type checkoutFunc func(context.Context, application.CheckoutCommand) (application.CheckoutResult, error)

type checkoutStepMsg application.CheckoutStep

type checkoutDoneMsg struct {
	result application.CheckoutResult
	err    error
}

// checkoutProgressModel follows a checkout through its phases until the
// payment settles.
type checkoutProgressModel struct {
	spinner spinner.Model
	step    application.CheckoutStep
	task    tea.Cmd
	result  application.CheckoutResult
	err     error
	done    bool
}

func newCheckoutProgressModel(task tea.Cmd) checkoutProgressModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return checkoutProgressModel{spinner: s, task: task}
}

func (m checkoutProgressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.task)
}

func (m checkoutProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case checkoutStepMsg:
		m.step = application.CheckoutStep(msg)
		return m, nil
	case checkoutDoneMsg:
		m.done = true
		m.result = msg.result
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m checkoutProgressModel) View() string {
	if m.done {
		return ""
	}

	return fmt.Sprintf("%s %s", m.spinner.View(), checkoutStepLabel(m.step))
}

func checkoutStepLabel(step application.CheckoutStep) string {
	switch step.Phase {
	case application.PhaseLoadingConfig:
		return "Loading payment configuration..."
	case application.PhaseCreatingOrder:
		return "Creating order..."
	case application.PhasePreparingPayment:
		return fmt.Sprintf("Preparing payment for order %s...", step.OrderID)
	case application.PhasePaying:
		return fmt.Sprintf("Paying for order %s...", step.OrderID)
	case application.PhaseClearingCart:
		return fmt.Sprintf("Order %s paid, clearing cart...", step.OrderID)
	default:
		return "Checking cart..."
	}
}

// runCheckoutProgress runs checkout while rendering its current phase on
// output.
func runCheckoutProgress(ctx context.Context, output io.Writer, checkout checkoutFunc, command application.CheckoutCommand) (application.CheckoutResult, error) {
	var p *tea.Program
	command.Progress = func(step application.CheckoutStep) {
		p.Send(checkoutStepMsg(step))
	}

	task := func() tea.Msg {
		result, err := checkout(ctx, command)
		return checkoutDoneMsg{result: result, err: err}
	}

	p = tea.NewProgram(
		newCheckoutProgressModel(task),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil {
		return application.CheckoutResult{}, err
	}

	result, ok := finalModel.(checkoutProgressModel)
	if !ok {
		return application.CheckoutResult{}, fmt.Errorf("unexpected final checkout model type %T", finalModel)
	}

	return result.result, result.err
}
