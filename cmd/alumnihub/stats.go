package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/Alumni-Hub/Alumni-Hub-Backend/attendance"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/store"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats EVENT_ID",
	Short: "Print attendance statistics of an event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil || id == 0 {
			return fmt.Errorf("invalid event id %q", args[0])
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		dm, err := openDatabase(ctx, cfg)
		if err != nil {
			return err
		}
		defer dm.Close()

		r := attendance.NewReconciler(
			store.NewEventRepository(dm.DB),
			store.NewBatchmateRepository(dm.DB),
			store.NewAttendanceRepository(dm.DB),
		)
		event, stats, err := r.EventStatistics(ctx, uint(id))
		if err != nil {
			return err
		}

		color.Cyan("\n=== %s ===", event.Name)
		if event.EventDate != nil {
			fmt.Printf("Date:  %s\n", event.EventDate.Format("2006-01-02"))
		}
		if event.Venue != "" {
			fmt.Printf("Venue: %s\n", event.Venue)
		}
		printStatistics(stats)
		return nil
	},
}

func printStatistics(s attendance.Statistics) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Metric", "Count"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	rows := []struct {
		label string
		count int
	}{
		{"Total", s.Total},
		{"Present", s.Present},
		{"Absent", s.Absent},
		{"Pending", s.Pending},
		{"QR scanned", s.QRScanned},
		{"Manual", s.Manual},
		{"Not marked", s.NotMarked},
	}
	for _, row := range rows {
		table.Append([]string{row.label, strconv.Itoa(row.count)})
	}
	table.Render()

	if s.Total > 0 {
		color.Green("Turnout: %.1f%%", float64(s.Present)*100/float64(s.Total))
	} else {
		color.Yellow("No attendance recorded yet")
	}
}
