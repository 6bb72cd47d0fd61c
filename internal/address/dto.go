package address

// Input carries the writable address fields from controllers.
type Input struct {
	Title        string `json:"title" validate:"required,max=100"`
	FirstName    string `json:"first_name" validate:"required,max=100"`
	LastName     string `json:"last_name" validate:"required,max=100"`
	Company      string `json:"company" validate:"max=200"`
	AddressLine1 string `json:"address_line_1" validate:"required,max=255"`
	AddressLine2 string `json:"address_line_2" validate:"max=255"`
	City         string `json:"city" validate:"required,max=100"`
	State        string `json:"state" validate:"required,max=100"`
	PostalCode   string `json:"postal_code" validate:"required,max=20"`
	Country      string `json:"country" validate:"max=100"`
	Phone        string `json:"phone" validate:"max=30"`
	IsDefault    bool   `json:"is_default"`
}
