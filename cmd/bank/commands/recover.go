package commands

import (
	"github.com/spf13/cobra"

	"ledgerbank/cmd/bank/output"
)

// recoverCmd 補齊中斷的轉帳
var recoverCmd = &cobra.Command{
	Use:   "recover",
	Short: "Complete transfers interrupted by a crash",
	Long: `Scan the transfer journal and roll every pending transfer forward.
serve and console already do this on startup; run it by hand after restoring a backup.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		b, be, err := openBank(ctx, cfg)
		if err != nil {
			return err
		}
		defer be.Close()

		n, err := b.Recover(ctx)
		if err != nil {
			return err
		}
		if n == 0 {
			output.Info("No interrupted transfers")
			return nil
		}
		output.Success("Completed %d interrupted transfer(s)", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(recoverCmd)
}
