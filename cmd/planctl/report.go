package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"einsatzplan/internal/dto"
	"einsatzplan/internal/repository"
	"einsatzplan/internal/service"
)

func newReportCmd(configPath *string) *cobra.Command {
	var (
		year, month int
		out         string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the monthly hours summary and write it as XLSX",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, logger, err := openDB(*configPath)
			if err != nil {
				return err
			}
			defer logger.Sync()
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}

			reports := service.NewReportService(repository.NewRepository(db), logger)
			report, err := reports.MonthlyReport(cmd.Context(), year, month)
			if err != nil {
				return err
			}
			printSummary(cmd, report)

			if out == "" {
				return nil
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := service.WriteReportXLSX(f, report); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			cmd.Printf("written %s\n", out)
			return nil
		},
	}

	now := time.Now()
	cmd.Flags().IntVar(&year, "year", now.Year(), "report year")
	cmd.Flags().IntVar(&month, "month", int(now.Month()), "report month 1-12")
	cmd.Flags().StringVar(&out, "out", "", "write the report workbook to this file")
	return cmd
}

func printSummary(cmd *cobra.Command, report *dto.MonthlyReportResponse) {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprint(tw, "Mitarbeiter\tStunden\tTage")
	for _, s := range report.AbsenceStatuses {
		fmt.Fprintf(tw, "\t%s", s)
	}
	fmt.Fprintln(tw)

	for _, row := range report.Summary {
		fmt.Fprintf(tw, "%s\t%s\t%d", row.EmployeeName, germanDecimal(row.WorkHours), row.WorkDays)
		for _, s := range report.AbsenceStatuses {
			fmt.Fprintf(tw, "\t%d", row.AbsenceCounts[s])
		}
		fmt.Fprintln(tw)
	}
	tw.Flush()
}
