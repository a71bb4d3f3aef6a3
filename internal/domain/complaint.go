package domain

import "time"

// ComplaintStatus enumerates lifecycle states for complaints.
type ComplaintStatus string

const (
	ComplaintStatusOpen       ComplaintStatus = "OPEN"
	ComplaintStatusInProgress ComplaintStatus = "IN_PROGRESS"
	ComplaintStatusAccepted   ComplaintStatus = "ACCEPTED"
	ComplaintStatusRejected   ComplaintStatus = "REJECTED"
	ComplaintStatusCanceled   ComplaintStatus = "CANCELED"
)

// ComplaintStatuses lists every valid status value.
var ComplaintStatuses = []ComplaintStatus{
	ComplaintStatusOpen,
	ComplaintStatusInProgress,
	ComplaintStatusAccepted,
	ComplaintStatusRejected,
	ComplaintStatusCanceled,
}

// IsModifiable reports whether a complaint in the given status accepts updates.
func IsModifiable(status ComplaintStatus) bool {
	switch status {
	case ComplaintStatusOpen, ComplaintStatusInProgress:
		return true
	default:
		return false
	}
}

// Valid reports whether s is one of the known statuses.
func (s ComplaintStatus) Valid() bool {
	for _, candidate := range ComplaintStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// Complaint is a customer-filed record against a product.
type Complaint struct {
	ID          int64
	ProductID   int64
	Customer    Customer
	Date        *time.Time
	Description string
	Status      ComplaintStatus
}

// OwnedBy reports whether the complaint belongs to the given customer id.
func (c *Complaint) OwnedBy(customerID int64) bool {
	return c.Customer.ID == customerID
}

// ComplaintSortColumns maps sortable API field names to storage columns.
var ComplaintSortColumns = map[string]string{
	"id":          "id",
	"productId":   "product_id",
	"date":        "date",
	"description": "description",
	"status":      "status",
}
