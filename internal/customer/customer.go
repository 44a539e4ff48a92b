package customer

// Customer is the authenticated storefront user driving a booking wizard.
type Customer struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}
