package validation

import "strings"

const MsgPasswordMismatch = "The two password fields didn't match."

// RegistrationInput is the sign-up form
type RegistrationInput struct {
	Name      string `form:"name" json:"name" validate:"required,max=100"`
	Email     string `form:"email" json:"email" validate:"required,email,max=254"`
	Password  string `form:"password" json:"password" validate:"required,min=8,max=128"`
	Password2 string `form:"password2" json:"password2"`
}

// LoginInput is the sign-in form
type LoginInput struct {
	Email    string `form:"email" json:"email" validate:"required"`
	Password string `form:"password" json:"password" validate:"required"`
	Next     string `form:"next" json:"next"`
}

// ValidateRegistration normalizes the email and checks the form
func ValidateRegistration(in RegistrationInput) (RegistrationInput, Result) {
	res := newResult()
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	checkStruct(in, &res)
	if in.Password2 != "" && in.Password2 != in.Password {
		res.Add("password2", MsgPasswordMismatch)
	}
	return in, res
}

func ValidateLogin(in LoginInput) (LoginInput, Result) {
	res := newResult()
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	checkStruct(in, &res)
	return in, res
}
