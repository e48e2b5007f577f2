package models

import "time"

// Customer is one CRM customer row. Contact fields are optional and stay
// empty strings when absent; opt-in flags are 0/1 in the exported CSV.
type Customer struct {
	ID        int64     `db:"customer_id" json:"customer_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`

	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
	Email     string `db:"email" json:"email"`
	Phone     string `db:"phone" json:"phone"`

	EmailOptIn bool `db:"email_opt_in" json:"email_opt_in"`
	SMSOptIn   bool `db:"sms_opt_in" json:"sms_opt_in"`
	CallOptIn  bool `db:"call_opt_in" json:"call_opt_in"`
}

// CustomerRef is the slice of a customer the sales simulator needs
type CustomerRef struct {
	ID        int64
	CreatedAt time.Time
}

// Ref extracts the simulator-facing view of the customer
func (c *Customer) Ref() CustomerRef {
	return CustomerRef{ID: c.ID, CreatedAt: c.CreatedAt}
}
