package model

// UserTypeCustomer is the recipient type for customer-facing notifications.
const UserTypeCustomer = "customer"

// Notification is a push message handed to the notification dispatcher.
type Notification struct {
	UserType string
	UserID   int64
	Title    string
	Body     string
	Data     map[string]string
}
