package cli

import "github.com/spf13/cobra"

var (
	version = "dev"
	commit  = "none"
)

func newRootCmd() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:           "katalog",
		Short:         "Product catalog service",
		Long:          "katalog validates catalog products and stock movements, and serves them over HTTP.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "use a development logger")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newServeCmd(&debug))
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newValidateStockCmd())
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute() error {
	return newRootCmd().Execute()
}
