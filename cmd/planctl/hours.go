package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"einsatzplan/pkg/shifttime"
)

func newHoursCmd() *cobra.Command {
	var startStr, endStr, breakStr string

	cmd := &cobra.Command{
		Use:   "hours",
		Short: "Compute worked hours of one shift",
		Example: "  planctl hours --start 22:00 --end 06:00 --break 0,5\n" +
			"  planctl hours --start 1830 --end 2330",
		RunE: func(cmd *cobra.Command, args []string) error {
			brk, err := parseBreak(breakStr)
			if err != nil {
				return err
			}

			start, end := shifttime.ParseTime(startStr), shifttime.ParseTime(endStr)
			hours := shifttime.ComputeHours(start, end, brk)

			fmt.Fprintf(cmd.OutOrStdout(), "%s  Pause %s h  =  %s h\n",
				shifttime.FormatRange(start, end), germanDecimal(brk), germanDecimal(hours))
			return nil
		},
	}

	cmd.Flags().StringVar(&startStr, "start", "", "shift start (18:30, 1830, 18)")
	cmd.Flags().StringVar(&endStr, "end", "", "shift end; before start means past midnight")
	cmd.Flags().StringVar(&breakStr, "break", "0", "break in hours (0,5 or 0.5)")
	return cmd
}

func parseBreak(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || v > 24 {
		return 0, fmt.Errorf("--break: invalid value %q", s)
	}
	return v, nil
}

func germanDecimal(v float64) string {
	return strings.ReplaceAll(strconv.FormatFloat(v, 'f', -1, 64), ".", ",")
}
