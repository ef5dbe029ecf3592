// Package models defines the data structures used throughout the application
package models

import "fmt"

// User represents a single user record returned by the users endpoint
// Username is used as the report filename key and must be unique
type User struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Address  Address `json:"address"`
	Phone    string  `json:"phone"`
	Website  string  `json:"website"`
	Company  Company `json:"company"`
}

// Address is the postal address nested in a User
type Address struct {
	Street  string `json:"street"`
	Suite   string `json:"suite"`
	City    string `json:"city"`
	Zipcode string `json:"zipcode"`
	Geo     Geo    `json:"geo"`
}

// Geo holds coordinates as the API returns them (strings)
type Geo struct {
	Lat string `json:"lat"`
	Lng string `json:"lng"`
}

// Company describes the employer of a User
type Company struct {
	Name        string `json:"name"`
	CatchPhrase string `json:"catchPhrase"`
	BS          string `json:"bs"`
}

// String returns a human-readable representation of the user
func (u User) String() string {
	return fmt.Sprintf("%d: %s <%s> (%s)", u.ID, u.Name, u.Email, u.Username)
}
