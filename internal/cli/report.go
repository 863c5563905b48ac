package cli

import (
	"fmt"
	"os"

	"github.com/nguyentantai21042004/caption-queue/internal/config"
	"github.com/nguyentantai21042004/caption-queue/internal/models"
	"github.com/nguyentantai21042004/caption-queue/internal/report"
	"github.com/nguyentantai21042004/caption-queue/internal/store"
	"github.com/spf13/cobra"
)

func newReportCmd() *cobra.Command {
	var (
		dbPath string
		status string
		out    string
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write a .docx digest of submissions from the SQLite store",
		RunE: func(cmd *cobra.Command, args []string) error {
			st := models.Status(status)
			if st != "" && !st.Valid() {
				return fmt.Errorf("unknown status %q", status)
			}

			db, err := store.Open(dbPath)
			if err != nil {
				return err
			}
			s, err := store.NewSQLite(db)
			if err != nil {
				_ = db.Close()
				return err
			}
			defer s.Close()

			n, err := report.New(s, newLogger()).Generate(cmd.Context(), models.Filter{Status: st}, out)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d submission(s) to %s\n", n, out)
			return nil
		},
	}

	defaultDB := os.Getenv(config.EnvDBPath)
	if defaultDB == "" {
		defaultDB = "data/captionq.db"
	}
	cmd.Flags().StringVar(&dbPath, "db", defaultDB, "SQLite database path, defaults to $"+config.EnvDBPath)
	cmd.Flags().StringVar(&status, "status", "", "only include this status")
	cmd.Flags().StringVarP(&out, "out", "o", "reports/digest.docx", "output file")
	return cmd
}
