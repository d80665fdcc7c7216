package models

import "time"

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

type AccountStatus string

const (
	AccountActive              AccountStatus = "active"
	AccountSuspended           AccountStatus = "suspended"
	AccountPendingVerification AccountStatus = "pending_verification"
)

type User struct {
	ID            string        `gorm:"primaryKey;type:varchar(128)" json:"uid"`
	Email         string        `gorm:"uniqueIndex;not null" json:"email"`
	FirstName     string        `json:"firstName"`
	LastName      string        `json:"lastName"`
	DisplayName   string        `json:"displayName"`
	PhoneNumber   string        `json:"phoneNumber,omitempty"`
	PhotoURL      string        `json:"photoURL,omitempty"`
	Role          string        `gorm:"default:customer" json:"role"`
	EmailVerified bool          `json:"emailVerified"`
	AccountStatus AccountStatus `gorm:"type:varchar(32)" json:"accountStatus"`
	Address       Address       `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	Preferences   Preferences   `gorm:"embedded;embeddedPrefix:pref_" json:"preferences"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
	LastLogin     *time.Time    `json:"lastLogin,omitempty"`
}

// Address is embedded in User and Order.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

type Preferences struct {
	EmailNotifications bool `json:"emailNotifications"`
	OrderUpdates       bool `json:"orderUpdates"`
	MarketingEmails    bool `json:"marketingEmails"`
}

// DefaultPreferences are applied to every new profile.
func DefaultPreferences() Preferences {
	return Preferences{EmailNotifications: true, OrderUpdates: true}
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

func (u *User) Validate() error {
	if u.Email == "" {
		return &DeserializationError{Kind: "user", ID: u.ID, Reason: "missing email"}
	}
	switch u.AccountStatus {
	case AccountActive, AccountSuspended, AccountPendingVerification:
	default:
		return &DeserializationError{Kind: "user", ID: u.ID, Reason: "unknown account status " + string(u.AccountStatus)}
	}
	return nil
}
