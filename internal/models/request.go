package models

import "strings"

// RequestStatus is the decision state stored in a queue's status column.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "Bekliyor"
	RequestStatusApproved RequestStatus = "Onaylandı"
	RequestStatusRejected RequestStatus = "Reddedildi"
)

// IsTerminal reports whether no further decision may be taken on the status.
func (s RequestStatus) IsTerminal() bool {
	return s == RequestStatusApproved || s == RequestStatusRejected
}

// Field is one subject column of a request row.
type Field struct {
	Name  string `json:"name" validate:"required"`
	Value string `json:"value"`
}

// RequestRecord is a decoded data row of a queue table.
//
// Position is the 1-based data row index (header excluded) inside the snapshot the record was read
// from. Rows inserted or removed by other writers shift it, so it only addresses the same logical
// request while that snapshot is current.
type RequestRecord struct {
	Position    int           `json:"position"`
	Fields      []Field       `json:"fields"`
	Status      RequestStatus `json:"status"`
	ManagerNote string        `json:"manager_note"`
}

// Field returns the value of the named subject column.
func (r RequestRecord) Field(name string) (string, bool) {
	for _, f := range r.Fields {
		if strings.EqualFold(f.Name, name) {
			return f.Value, true
		}
	}
	return "", false
}

// IsPending reports whether the record still awaits a decision.
func (r RequestRecord) IsPending() bool {
	return r.Status == RequestStatusPending
}
