package model

type User struct {
	ID         int64  `json:"id" db:"id"`
	Active     bool   `json:"active" db:"active"`
	FirstName  string `json:"first_name" db:"first_name"`
	LastName   string `json:"last_name" db:"last_name"`
	Street     string `json:"street" db:"street"`
	City       string `json:"city" db:"city"`
	Region     string `json:"region" db:"region"`
	PostalCode string `json:"postal_code" db:"postal_code"`
	Phone      string `json:"phone" db:"phone"`
	Email      string `json:"email" db:"email"`

	PasswordHash string `json:"-" db:"password_hash"`
}

// Owner is a user together with the products they list.
type Owner struct {
	User     User
	Products []Product
}
