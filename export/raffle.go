package export

import (
	"fmt"

	"github.com/Alumni-Hub/Alumni-Hub-Backend/model"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/utils"
	"github.com/xuri/excelize/v2"
)

const (
	RaffleSheet     = "Raffle"
	TicketsPerRow   = 3
	ticketHeight    = 3 // number, name, field
	ticketRowGap    = 1
	ticketColumnGap = 1
)

// TicketNumber formats the n-th ticket label.
func TicketNumber(n int) string {
	return fmt.Sprintf("No. %03d", n)
}

// Raffle lays out one cut-out ticket per batchmate, TicketsPerRow across.
// Only batchmates marked Present are included unless all is set.
func Raffle(batchmates []model.Batchmate, all bool) (*excelize.File, error) {
	tickets := batchmates
	if !all {
		tickets = utils.Filter(batchmates, func(b model.Batchmate) bool {
			return b.Attendance == model.BatchmatePresent
		})
	}
	tickets = append([]model.Batchmate(nil), tickets...)
	byCallingName(tickets)

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", RaffleSheet); err != nil {
		f.Close()
		return nil, err
	}

	border := []excelize.Border{
		{Type: "left", Color: "999999", Style: 3},
		{Type: "right", Color: "999999", Style: 3},
		{Type: "top", Color: "999999", Style: 3},
		{Type: "bottom", Color: "999999", Style: 3},
	}
	numberStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    border,
	})
	if err != nil {
		f.Close()
		return nil, err
	}
	textStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", WrapText: true},
		Border:    border,
	})
	if err != nil {
		f.Close()
		return nil, err
	}

	for i, b := range tickets {
		col, row := TicketCell(i)
		lines := []string{TicketNumber(i + 1), b.CallingName, fieldOf(b)}
		for offset, value := range lines {
			cell, err := excelize.CoordinatesToCellName(col, row+offset)
			if err != nil {
				f.Close()
				return nil, err
			}
			f.SetCellValue(RaffleSheet, cell, value)
			style := textStyle
			if offset == 0 {
				style = numberStyle
			}
			f.SetCellStyle(RaffleSheet, cell, cell, style)
		}
	}

	for c := 0; c < TicketsPerRow; c++ {
		name, _ := excelize.ColumnNumberToName(1 + c*(1+ticketColumnGap))
		f.SetColWidth(RaffleSheet, name, name, 28)
	}
	return f, nil
}

// TicketCell returns the 1-based column and top row of the i-th ticket.
func TicketCell(i int) (col, row int) {
	col = 1 + (i%TicketsPerRow)*(1+ticketColumnGap)
	row = 1 + (i/TicketsPerRow)*(ticketHeight+ticketRowGap)
	return col, row
}
