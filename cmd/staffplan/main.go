package main

import (
	"os"

	"github.com/arnavshah/staffing-planner-go/pkg/config"
	"github.com/spf13/cobra"
)

func main() {
	config.LoadEnvFile()
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "staffplan",
		Short:        "Staffing and financial planning tools",
		SilenceUsage: true,
	}
	root.AddCommand(keygenCmd())
	root.AddCommand(reportCmd())
	root.AddCommand(validateCmd())
	return root
}

func keygenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen <userID>",
		Short: "Generate an HMAC-signed API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeygen(cmd.OutOrStdout(), config.Load().APIMasterSecret, args[0])
		},
	}
}

func reportCmd() *cobra.Command {
	var opts reportOptions
	cmd := &cobra.Command{
		Use:   "report <snapshot>",
		Short: "Print project totals, the calendar rollup and utilization for a snapshot file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd.OutOrStdout(), args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.Start, "start", "", "first month to include (YYYY-MM)")
	cmd.Flags().StringVar(&opts.End, "end", "", "last month to include (YYYY-MM)")
	cmd.Flags().StringVar(&opts.Group, "group", "person", "utilization rows: person or department")
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <snapshot>",
		Short: "Check a snapshot file for errors and warnings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.OutOrStdout(), args[0])
		},
	}
}
