package commands

import (
	"os"

	"github.com/spf13/cobra"

	"ledgerbank/internal/console"
)

// consoleCmd 執行互動式主控台
var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Run the interactive console",
	Long: `Read commands from standard input, one per line, until EOF or 'exit'.

Examples:
  bank console
  echo "login 00000000 9999" | bank console --data /tmp/bank`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		b, be, err := openBank(ctx, cfg)
		if err != nil {
			return err
		}
		defer be.Close()

		if err := recoverTransfers(ctx, b); err != nil {
			return err
		}
		return console.New(b, os.Stdout).Run(ctx, os.Stdin)
	},
}

func init() {
	rootCmd.AddCommand(consoleCmd)
}
