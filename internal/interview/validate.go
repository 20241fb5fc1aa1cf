package interview

import (
	"github.com/go-playground/validator/v10"
)

// FieldErrors maps a contact field name to a user-facing message.
type FieldErrors map[string]string

type contactInfo struct {
	Name  string `validate:"required,min=2"`
	Email string `validate:"required,email"`
	Phone string `validate:"required,min=10"`
}

var validate = validator.New()

// ValidateContact checks the confirmation-step rules: name at least two
// characters, a syntactically valid email, phone at least ten characters.
// An empty map means the fields passed.
func ValidateContact(name, email, phone string) FieldErrors {
	err := validate.Struct(contactInfo{Name: name, Email: email, Phone: phone})
	if err == nil {
		return nil
	}

	errs := FieldErrors{}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errs["form"] = err.Error()
		return errs
	}
	for _, fe := range verrs {
		switch fe.Field() {
		case "Name":
			errs["name"] = "Name must be at least 2 characters."
		case "Email":
			errs["email"] = "Invalid email address."
		case "Phone":
			errs["phone"] = "Phone number seems too short."
		}
	}
	return errs
}
