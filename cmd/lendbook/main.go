package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/segyhp/lendbook/internal/calculator"
	"github.com/segyhp/lendbook/internal/domain"
	"github.com/segyhp/lendbook/internal/service"
	"github.com/segyhp/lendbook/pkg/utils"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "lendbook",
		Short:        "Lendbook CLI tool",
		Long:         `Loan calculator and portfolio tools for the lendbook API.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newCalcCmd(), newSummaryCmd())
	return rootCmd
}

func newCalcCmd() *cobra.Command {
	var (
		principal string
		rate      string
		term      int
		unit      string
		rows      int
		symbol    string
	)

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Compute the monthly payment and amortization schedule of a loan",
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := utils.DecimalFromString(principal)
			if err != nil {
				return fmt.Errorf("invalid --principal %q", principal)
			}
			annualRate, err := utils.DecimalFromString(rate)
			if err != nil {
				return fmt.Errorf("invalid --rate %q", rate)
			}

			svc := service.NewCalculatorService(calculator.DefaultScheduleRows, symbol)
			resp, err := svc.Calculate(cmd.Context(), &domain.CalculateRequest{
				Principal:         amount,
				AnnualRatePercent: annualRate,
				Term:              term,
				TermUnit:          domain.TermUnit(unit),
				Rows:              rows,
			})
			if err != nil {
				return err
			}

			printCalculation(cmd.OutOrStdout(), resp)
			return nil
		},
	}

	cmd.Flags().StringVar(&principal, "principal", "", "Loan amount")
	cmd.Flags().StringVar(&rate, "rate", "0", "Annual interest rate in percent")
	cmd.Flags().IntVar(&term, "term", 1, "Loan term")
	cmd.Flags().StringVar(&unit, "unit", string(domain.TermUnitYears), "Term unit: months or years")
	cmd.Flags().IntVar(&rows, "rows", calculator.DefaultScheduleRows, "Schedule rows to print")
	cmd.Flags().StringVar(&symbol, "symbol", "PHP", "Currency symbol")
	_ = cmd.MarkFlagRequired("principal")

	return cmd
}

func printCalculation(out io.Writer, resp *domain.CalculateResponse) {
	fmt.Fprintf(out, "Monthly payment: %s\n", resp.Formatted.MonthlyPayment)
	fmt.Fprintf(out, "Total payment:   %s\n", resp.Formatted.TotalPayment)
	fmt.Fprintf(out, "Total interest:  %s\n", resp.Formatted.TotalInterest)
	fmt.Fprintf(out, "Term:            %d months\n", resp.Result.TotalMonths)

	if len(resp.Schedule) == 0 {
		return
	}

	fmt.Fprintln(out)
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Month\tPayment\tPrincipal\tInterest\tBalance\t")
	for _, e := range resp.Schedule {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t\n",
			e.Month,
			utils.FormatCurrency(e.Payment, ""),
			utils.FormatCurrency(e.Principal, ""),
			utils.FormatCurrency(e.Interest, ""),
			utils.FormatCurrency(e.Balance, ""),
		)
	}
	_ = tw.Flush()
}

func newSummaryCmd() *cobra.Command {
	var (
		baseURL string
		timeout time.Duration
		symbol  string
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the portfolio summary from a running server",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := &http.Client{Timeout: timeout}
			resp, err := client.Get(baseURL + "/api/v1/summary")
			if err != nil {
				return fmt.Errorf("error making request: %w", err)
			}
			defer resp.Body.Close()

			body, _ := io.ReadAll(resp.Body)
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("summary request failed (status %d): %s", resp.StatusCode, string(body))
			}

			var envelope struct {
				Data domain.PortfolioSummary `json:"data"`
			}
			if err := json.Unmarshal(body, &envelope); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			s := envelope.Data
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Active loans:        %d\n", s.ActiveLoans)
			fmt.Fprintf(out, "Overdue loans:       %d\n", s.OverdueLoans)
			fmt.Fprintf(out, "Total lent:          %s\n", utils.FormatCurrency(s.TotalLent, symbol))
			fmt.Fprintf(out, "Total outstanding:   %s\n", utils.FormatCurrency(s.TotalOutstanding, symbol))
			fmt.Fprintf(out, "Payments this month: %d\n", s.PaymentsThisMonth)
			fmt.Fprintf(out, "Amount received:     %s\n", utils.FormatCurrency(s.TotalPaymentsThisMonth, symbol))
			return nil
		},
	}

	cmd.Flags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the lendbook API")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	cmd.Flags().StringVar(&symbol, "symbol", "PHP", "Currency symbol")

	return cmd
}
