package session

import (
	"github.com/pqd/pqd-sdk/pkg/validation"
)

// RegisterForm - the fields of a registration, RepeatPassword has to match Password
type RegisterForm struct {
	Username       string
	FirstName      string
	LastName       string
	Email          string
	Password       string
	RepeatPassword string
}

// RepeatPasswordValid - an empty repetition is not flagged until the form is submitted
func (f *RegisterForm) RepeatPasswordValid() bool {
	return f.RepeatPassword == "" || f.RepeatPassword == f.Password
}

// Validate - checks the form before anything is sent
func (f *RegisterForm) Validate() error {
	if f.Username == "" || f.Email == "" || f.Password == "" || f.Password != f.RepeatPassword {
		return ErrFormIncomplete
	}

	fields := []struct {
		name  string
		valid bool
	}{
		{"username", validation.UsernameValid(f.Username)},
		{"email", validation.EmailValid(f.Email)},
		{"password", validation.PasswordValid(f.Password)},
	}
	for _, field := range fields {
		if !field.valid {
			return ErrInvalidField.FormatError(field.name)
		}
	}
	return nil
}

// Request - the body sent to the registration endpoint, the form is validated first
func (f *RegisterForm) Request() (*RegisterRequest, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &RegisterRequest{
		Username:  f.Username,
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Email:     f.Email,
		Password:  f.Password,
	}, nil
}
