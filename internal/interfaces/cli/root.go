package cli

import (
	"github.com/spf13/cobra"
)

func NewRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "concierge",
		Short:        "Dining concierge: chat-driven restaurant suggestions by email",
		SilenceUsage: true,
	}
	cmd.AddCommand(NewServerCmd())
	cmd.AddCommand(NewWorkerCmd())
	cmd.AddCommand(NewSeedCmd())
	cmd.AddCommand(NewVersionCmd())
	return cmd
}
