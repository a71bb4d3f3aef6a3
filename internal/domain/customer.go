package domain

import "time"

// Customer is the account that files complaints.
type Customer struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}

// Identity returns the public identity of the customer.
func (c *Customer) Identity() Identity {
	return Identity{CustomerID: c.ID, Email: c.Email, Name: c.Name}
}

// Identity is the authenticated caller resolved for a request.
type Identity struct {
	CustomerID int64
	Email      string
	Name       string
}

// Owner converts the identity into the customer reference stored on complaints.
func (i Identity) Owner() Customer {
	return Customer{ID: i.CustomerID, Email: i.Email, Name: i.Name}
}
