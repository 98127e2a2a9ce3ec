package server

import (
	"errors"
	"net/http"

	"donaciones/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	ctypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
)

func (s *Service) handleGetSignup(w http.ResponseWriter, r *http.Request) {
	data := &types.SignupPageData{
		BasePageData: types.BasePageData{Title: "Crear Nuevo Usuario"},
	}

	s.renderPage(w, r, "page.signup", data)
}

// handlePostSignup creates a regular user account. The account is removed
// again when it cannot be put into the user group.
func (s *Service) handlePostSignup(w http.ResponseWriter, r *http.Request) {

	var ctx = r.Context()

	data := &types.SignupPageData{
		BasePageData: types.BasePageData{Title: "Crear Nuevo Usuario"},
	}

	if err := r.ParseForm(); err != nil {
		s.redirectWithError(w, r, "/signup", "Hubo un error en el registro. Por favor, revisa los datos.")
		return
	}
	if err := decoder.Decode(&data.Form, r.PostForm); err != nil {
		s.logger.WithError(err).Error("failed to decode signup form")
		s.internalServerError(w)
		return
	}

	in, err := s.validator.Signup(&data.Form)
	if err != nil {
		verrs, _ := types.AsValidationErrors(err)
		data.ApplyErrors(verrs)
		data.Form.TemporaryPassword = ""
		data.Flash.Error = "Hubo un error en el registro. Por favor, revisa los datos."
		s.renderPage(w, r, "page.signup", data)
		return
	}

	_, err = s.cognitoClient.AdminCreateUser(ctx, &cognitoidentityprovider.AdminCreateUserInput{
		UserPoolId:        aws.String(s.config.CognitoUserPoolID),
		Username:          aws.String(in.Username),
		TemporaryPassword: aws.String(in.TemporaryPassword),
		UserAttributes: []ctypes.AttributeType{
			{Name: aws.String("email"), Value: aws.String(in.Email)},
			{Name: aws.String("email_verified"), Value: aws.String("true")},
		},
	})
	if err != nil {
		data.Flash.Error, data.FieldErrors = s.mapCognitoSignupError(err)
		data.Form.TemporaryPassword = ""
		s.renderPage(w, r, "page.signup", data)
		return
	}

	_, err = s.cognitoClient.AdminAddUserToGroup(ctx, &cognitoidentityprovider.AdminAddUserToGroupInput{
		UserPoolId: aws.String(s.config.CognitoUserPoolID),
		Username:   aws.String(in.Username),
		GroupName:  aws.String(s.config.CognitoUserGroup),
	})
	if err != nil {
		s.logger.WithError(err).WithField("group", s.config.CognitoUserGroup).Error("failed to add new user to group")

		_, delErr := s.cognitoClient.AdminDeleteUser(ctx, &cognitoidentityprovider.AdminDeleteUserInput{
			UserPoolId: aws.String(s.config.CognitoUserPoolID),
			Username:   aws.String(in.Username),
		})
		if delErr != nil {
			s.logger.WithError(delErr).WithField("username", in.Username).Error("failed to roll back user without group")
		}

		s.redirectWithError(w, r, "/signup", `Error: El rol "Usuario" no existe. Contacta al administrador.`)
		return
	}

	s.logger.WithField("username", in.Username).Info("user account created")

	s.redirectWithNotice(w, r, "/", `¡Cuenta de usuario para "`+in.Username+`" creada con éxito!`)
}

func (s *Service) mapCognitoSignupError(err error) (string, map[string]string) {
	fieldErrs := map[string]string{}

	var invalidPw *ctypes.InvalidPasswordException
	if errors.As(err, &invalidPw) {
		fieldErrs["password"] = "La contraseña no cumple la política de seguridad."
		return formErrorMessage, fieldErrs
	}

	var userExists *ctypes.UsernameExistsException
	if errors.As(err, &userExists) {
		fieldErrs["username"] = "Ya existe un usuario con este nombre."
		return formErrorMessage, fieldErrs
	}

	var invalidParam *ctypes.InvalidParameterException
	if errors.As(err, &invalidParam) {
		return "Hubo un error en el registro. Por favor, revisa los datos.", fieldErrs
	}

	s.logger.WithError(err).Error("unhandled cognito signup error")

	return "No se pudo crear la cuenta en este momento. Inténtalo de nuevo.", fieldErrs
}
