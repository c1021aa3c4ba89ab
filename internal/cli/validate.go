package cli

import (
	"fmt"

	"katalog/internal/models"

	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	var (
		id    int
		name  string
		price float64
		stock int
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the fields of a product",
		Long:  "Run the id, name, price and stock validators and print one line per field. Exits non-zero if any field is invalid.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			product := models.NewProduct(id, name, price, stock)
			failed := 0
			for _, r := range product.Validate() {
				printResult(cmd, r)
				if !r.Outcome.Valid() {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("product is not valid: %d field(s) failed", failed)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&id, "id", 0, "product id")
	cmd.Flags().StringVar(&name, "name", "", "product name")
	cmd.Flags().Float64Var(&price, "price", 0, "item price")
	cmd.Flags().IntVar(&stock, "stock", 0, "stock amount")
	return cmd
}

func newValidateStockCmd() *cobra.Command {
	var current, amount int

	cmd := &cobra.Command{
		Use:       "validate-stock increase|decrease",
		Short:     "Check a stock increase or decrease against the stock limits",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(models.StockIncreased), string(models.StockDecreased)},
		RunE: func(cmd *cobra.Command, args []string) error {
			var outcome models.Outcome
			switch models.StockEventKind(args[0]) {
			case models.StockIncreased:
				outcome = models.ValidateIncrease(current, amount)
			case models.StockDecreased:
				outcome = models.ValidateDecrease(current, amount)
			}
			printResult(cmd, models.FieldResult{Field: models.FieldAmount, Outcome: outcome})
			if !outcome.Valid() {
				return fmt.Errorf("stock %s refused: %s", args[0], outcome.Code())
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&current, "current", 0, "current stock")
	cmd.Flags().IntVar(&amount, "amount", 0, "amount to add or remove")
	cmd.MarkFlagRequired("current") //nolint:errcheck
	cmd.MarkFlagRequired("amount")  //nolint:errcheck
	return cmd
}

func printResult(cmd *cobra.Command, r models.FieldResult) {
	status := "ok"
	if !r.Outcome.Valid() {
		status = "FAIL"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%-4s %-6s %s\n", status, r.Field, r.Outcome)
}
