package models

// Lead column headers.
const (
	ColumnLeadCompany = "Firma"
	ColumnLeadContact = "Yetkili"
	ColumnLeadPhone   = "Telefon"
	ColumnLeadEmail   = "E-posta"
	ColumnLeadNote    = "Not"
)

// LeadColumns is the fixed layout of the sales leads table.
var LeadColumns = []string{
	ColumnDate, ColumnRequester, ColumnLeadCompany, ColumnLeadContact, ColumnLeadPhone, ColumnLeadEmail, ColumnLeadNote,
}

// Lead is a sales lead captured by an employee.
type Lead struct {
	Position int    `json:"position"`
	Date     string `json:"date"`
	Owner    string `json:"owner"`
	Company  string `json:"company"`
	Contact  string `json:"contact"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Note     string `json:"note"`
}
