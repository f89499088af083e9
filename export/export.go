// Package export renders batchmate spreadsheets with excelize.
package export

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Alumni-Hub/Alumni-Hub-Backend/model"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/utils"
	"github.com/xuri/excelize/v2"
)

const (
	KindFieldwise = "fieldwise"
	KindRaffle    = "raffle-cut-sheet"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	UnassignedField = "Unassigned"
	SummarySheet    = "Summary"
)

// maxSheetName is excelize's sheet name limit in runes.
const maxSheetName = 31

var sheetNameCleaner = strings.NewReplacer(
	"[", "", "]", "", ":", "", "*", "", "?", "", "/", "-", "\\", "-",
)

// SheetName makes a field usable as a worksheet name.
func SheetName(field string) string {
	name := strings.TrimSpace(sheetNameCleaner.Replace(field))
	name = strings.Trim(name, "'")
	if name == "" {
		return UnassignedField
	}
	if strings.EqualFold(name, SummarySheet) {
		name += " Field"
	}
	if r := []rune(name); len(r) > maxSheetName {
		name = string(r[:maxSheetName])
	}
	return name
}

// Filename is the attachment name for a workbook generated at t.
func Filename(kind string, t time.Time) string {
	return fmt.Sprintf("batchmates-%s-%s.xlsx", kind, t.Format("20060102-150405"))
}

// ArchiveKey is the object key an export is archived under.
func ArchiveKey(kind string, t time.Time) string {
	return fmt.Sprintf("exports/%s/%s.xlsx", kind, t.UTC().Format("20060102T150405Z"))
}

func fieldOf(b model.Batchmate) string {
	if f := strings.TrimSpace(b.Field); f != "" {
		return f
	}
	return UnassignedField
}

func byCallingName(items []model.Batchmate) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := strings.ToLower(items[i].CallingName), strings.ToLower(items[j].CallingName)
		if a == b {
			return items[i].ID < items[j].ID
		}
		return a < b
	})
}

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"1F4E78"}, Pattern: 1},
	})
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

var fieldwiseHeader = []interface{}{
	"No.", "Calling Name", "Full Name", "Nick Name", "Mobile", "WhatsApp",
	"Email", "Country", "Working Place", "Address", "Attendance",
}

// Fieldwise builds a workbook with a Summary sheet followed by one sheet per field.
func Fieldwise(batchmates []model.Batchmate) (*excelize.File, error) {
	// excelize compares sheet names case-insensitively
	groups := utils.GroupBy(batchmates, func(b model.Batchmate) string {
		return strings.ToLower(SheetName(fieldOf(b)))
	})
	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		f.Close()
		return nil, err
	}
	style, err := headerStyle(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	if err := writeRow(f, SummarySheet, 1, []interface{}{"Field", "Total", "Present", "Absent"}); err != nil {
		f.Close()
		return nil, err
	}
	f.SetCellStyle(SummarySheet, "A1", "D1", style)

	row := 2
	var total, present int
	for _, key := range keys {
		members := groups[key]
		field := sheetTitle(members)
		p := utils.Count(members, func(b model.Batchmate) bool { return b.Attendance == model.BatchmatePresent })
		if err := writeRow(f, SummarySheet, row, []interface{}{field, len(members), p, len(members) - p}); err != nil {
			f.Close()
			return nil, err
		}
		total += len(members)
		present += p
		row++

		if err := writeFieldSheet(f, field, members, style); err != nil {
			f.Close()
			return nil, err
		}
	}
	if err := writeRow(f, SummarySheet, row, []interface{}{"Total", total, present, total - present}); err != nil {
		f.Close()
		return nil, err
	}
	f.SetColWidth(SummarySheet, "A", "A", 30)

	return f, nil
}

// sheetTitle picks one display name for members whose sheet names differ only by case.
func sheetTitle(members []model.Batchmate) string {
	title := SheetName(fieldOf(members[0]))
	for _, b := range members[1:] {
		if name := SheetName(fieldOf(b)); name < title {
			title = name
		}
	}
	return title
}

func writeFieldSheet(f *excelize.File, sheet string, members []model.Batchmate, style int) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := writeRow(f, sheet, 1, fieldwiseHeader); err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(fieldwiseHeader), 1)
	f.SetCellStyle(sheet, "A1", last, style)

	byCallingName(members)
	for i, b := range members {
		err := writeRow(f, sheet, i+2, []interface{}{
			i + 1, b.CallingName, b.FullName, b.NickName, b.Mobile, b.WhatsappMobile,
			b.Email, b.Country, b.WorkingPlace, b.Address, b.Attendance,
		})
		if err != nil {
			return err
		}
	}
	f.SetColWidth(sheet, "B", "D", 24)
	f.SetColWidth(sheet, "E", "G", 18)
	return f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}
