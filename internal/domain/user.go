package domain

// User is a registered rider or driver.
// ID and Mobile never change once assigned; Name is refreshed on re-login.
//
// Trips and notifications embed a copy of the User as it was when they were
// created. Those copies are snapshots and are not updated on rename.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Mobile string `json:"mobile"`
}
