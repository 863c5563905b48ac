// Package cli implements queuectl, the operator tool for bulk uploads and digests.
package cli

import (
	"github.com/nguyentantai21042004/caption-queue/internal/logger"
	"github.com/spf13/cobra"
)

var logLevel string

// NewRootCmd returns the queuectl root command.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "queuectl",
		Short:         "Operator tool for the caption queue",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug|info|warn|error")

	root.AddCommand(newIngestCmd())
	root.AddCommand(newReportCmd())
	return root
}

func newLogger() logger.Logger {
	return logger.New(logLevel)
}
