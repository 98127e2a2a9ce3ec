package validate

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"donaciones/pkg/types"
)

var usernameReg = regexp.MustCompile(`^[\w.@+-]+$`)

// Signup checks a new account request. Usernames may hold letters, digits
// and @/./+/-/_.
func (v *Validator) Signup(in *types.SignupForm) (*types.SignupForm, error) {
	var errs types.ValidationErrors

	username := strings.TrimSpace(in.Username)
	switch {
	case username == "":
		errs.Add("username", types.KindRequired, "Este campo es obligatorio.")
	case utf8.RuneCountInString(username) > 150:
		errs.Add("username", types.KindInvalidRange, "Asegúrese de que este valor tenga como máximo 150 caracteres.")
	case !usernameReg.MatchString(username):
		errs.Add("username", types.KindInvalidFormat, "Introduzca un nombre de usuario válido. Solo letras, números y los caracteres @/./+/-/_.")
	}

	email := strings.TrimSpace(in.Email)
	if email == "" {
		errs.Add("email", types.KindRequired, "Este campo es obligatorio.")
	} else if err := v.fields.Var(email, "email"); err != nil {
		errs.Add("email", types.KindInvalidFormat, "Introduzca una dirección de correo electrónico válida.")
	}

	if utf8.RuneCountInString(in.TemporaryPassword) < 8 {
		errs.Add("password", types.KindInvalidRange, "La contraseña debe contener al menos 8 caracteres.")
	}

	if len(errs) > 0 {
		return nil, errs
	}

	return &types.SignupForm{Username: username, Email: email, TemporaryPassword: in.TemporaryPassword}, nil
}
