package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iho/cashforecast/internal/adapter/codec"
	"github.com/iho/cashforecast/internal/adapter/pricefeed"
	"github.com/iho/cashforecast/internal/domain"
	"github.com/iho/cashforecast/internal/usecase"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cashforecast",
		Short: "Cash-flow forecasting from recurring declarations",
		Long:  `Expands a declaration sheet into a dated balance ledger, valuing equity holdings at their last close.`,
	}

	rootCmd.AddCommand(forecastCmd(), shareCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func forecastCmd() *cobra.Command {
	var (
		file         string
		end          string
		prices       []string
		quoteURL     string
		quoteTimeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Run a forecast over a declaration sheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			decls, err := loadSheet(file)
			if err != nil {
				return err
			}

			pinned, err := parsePrices(prices)
			if err != nil {
				return err
			}

			var endDate domain.Date
			if end != "" {
				endDate, err = domain.ParseDate(end)
				if err != nil {
					return fmt.Errorf("--end: %w", err)
				}
			}

			logger := zerolog.New(os.Stderr).Level(zerolog.WarnLevel)
			source := pricefeed.NewClient(quoteURL, quoteTimeout, logger)
			uc := usecase.NewForecastUseCase(source, logger)

			result, err := uc.Forecast(cmd.Context(), usecase.ForecastInput{
				Declarations: decls,
				End:          endDate,
				Prices:       pinned,
			})
			if err != nil {
				return err
			}

			for _, w := range result.Warnings {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", w)
			}

			printLedger(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "sheet CSV file or share token file (default stdin)")
	cmd.Flags().StringVar(&end, "end", "", "forecast end date (YYYY-MM-DD, default two years after start)")
	cmd.Flags().StringArrayVar(&prices, "price", nil, "pin a ticker price, e.g. GOOG=150 (repeatable)")
	cmd.Flags().StringVar(&quoteURL, "quote-url", "https://query1.finance.yahoo.com", "quote service base URL")
	cmd.Flags().DurationVar(&quoteTimeout, "quote-timeout", 10*time.Second, "quote request timeout")

	return cmd
}

func shareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "share",
		Short: "Encode and decode sheet share tokens",
	}

	var encodeFile string
	encodeCmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode a sheet CSV as a share token",
		RunE: func(cmd *cobra.Command, args []string) error {
			decls, err := loadSheet(encodeFile)
			if err != nil {
				return err
			}

			token, err := codec.EncodeToken(decls)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	encodeCmd.Flags().StringVarP(&encodeFile, "file", "f", "", "sheet CSV file (default stdin)")

	decodeCmd := &cobra.Command{
		Use:   "decode <token>",
		Short: "Decode a share token back to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			decls, err := codec.DecodeToken(args[0])
			if err != nil {
				return err
			}

			raw, err := codec.EncodeCSV(decls)
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), string(raw))
			return nil
		},
	}

	cmd.AddCommand(encodeCmd, decodeCmd)
	return cmd
}

// loadSheet reads a declaration sheet from a file or stdin. Both plain CSV
// and share tokens are accepted.
func loadSheet(file string) ([]domain.Declaration, error) {
	var (
		data []byte
		err  error
	)

	if file == "" || file == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}

	return codec.DecodeToken(string(data))
}

// parsePrices parses repeated TICKER=PRICE flags.
func parsePrices(flags []string) (map[string]decimal.Decimal, error) {
	if len(flags) == 0 {
		return nil, nil
	}

	prices := make(map[string]decimal.Decimal, len(flags))
	for _, flag := range flags {
		ticker, value, ok := strings.Cut(flag, "=")
		if !ok || ticker == "" {
			return nil, fmt.Errorf("--price %q: want TICKER=PRICE", flag)
		}
		price, err := decimal.NewFromString(value)
		if err != nil {
			return nil, fmt.Errorf("--price %q: %w", flag, err)
		}
		prices[ticker] = price
	}

	return prices, nil
}

func printLedger(out io.Writer, result *usecase.ForecastResult) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	header := append([]string{"date"}, result.Accounts...)
	header = append(header, "activity")
	fmt.Fprintln(w, strings.Join(header, "\t"))

	for _, row := range result.Rows {
		cells := make([]string, 0, len(header))
		cells = append(cells, row.Date.String())
		for _, account := range result.Accounts {
			cells = append(cells, row.Balances[account].StringFixed(2))
		}
		cells = append(cells, row.Activity)
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}

	w.Flush()
}
