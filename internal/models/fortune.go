package models

// Fortune is a short text message handed out to clients
type Fortune struct {
	ID   uint   `json:"id" gorm:"primaryKey" db:"id"`
	Text string `json:"text" gorm:"not null" db:"text"`
}

// TableName returns the table name for the Fortune model
func (Fortune) TableName() string {
	return "fortunes"
}

// Page bounds a query to a window of records. Pages are zero-based.
type Page struct {
	Number int `json:"page"`
	Size   int `json:"size"`
}

// Offset returns the number of records to skip before the page starts
func (p Page) Offset() int {
	if p.Number <= 0 || p.Size <= 0 {
		return 0
	}
	return p.Number * p.Size
}

// FirstPage returns the first page holding at most size records
func FirstPage(size int) Page {
	return Page{Number: 0, Size: size}
}
