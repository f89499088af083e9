package model

// Batchmate attendance flag values.
const (
	BatchmatePresent = "Present"
	BatchmateAbsent  = "Absent"
)

// DefaultField is applied when a batchmate registers without choosing a field.
const DefaultField = "Computer Engineering"

type Batchmate struct {
	Base
	CallingName    string `gorm:"size:255" json:"callingName"`
	FullName       string `gorm:"size:255" json:"fullName"`
	NickName       string `gorm:"size:255" json:"nickName"`
	Address        string `gorm:"type:text" json:"address"`
	Country        string `gorm:"size:100" json:"country"`
	WorkingPlace   string `gorm:"size:255" json:"workingPlace"`
	Mobile         string `gorm:"size:32;index" json:"mobile"`
	WhatsappMobile string `gorm:"size:32;index" json:"whatsappMobile"`
	Email          string `gorm:"size:255" json:"email"`
	Field          string `gorm:"size:100;index" json:"field"`
	Attendance     string `gorm:"size:20;default:Absent" json:"attendance"`

	Attendances []EventAttendance `gorm:"foreignKey:BatchmateID" json:"eventAttendances,omitempty"`
}

func (Batchmate) TableName() string {
	return "batchmates"
}
