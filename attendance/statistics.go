package attendance

import "github.com/Alumni-Hub/Alumni-Hub-Backend/model"

type Statistics struct {
	Total     int `json:"total"`
	Present   int `json:"present"`
	Absent    int `json:"absent"`
	Pending   int `json:"pending"`
	QRScanned int `json:"qrScanned"`
	Manual    int `json:"manual"`
	NotMarked int `json:"notMarked"`
}

// ComputeStatistics counts rows per status and per method. Values outside the
// enumerations only contribute to Total.
func ComputeStatistics(rows []model.EventAttendance) Statistics {
	stats := Statistics{Total: len(rows)}
	for _, row := range rows {
		switch row.Status {
		case model.StatusPresent:
			stats.Present++
		case model.StatusAbsent:
			stats.Absent++
		case model.StatusPending:
			stats.Pending++
		}
		switch row.AttendanceMethod {
		case model.MethodQRScan:
			stats.QRScanned++
		case model.MethodManual:
			stats.Manual++
		case model.MethodNotMarked:
			stats.NotMarked++
		}
	}
	return stats
}
