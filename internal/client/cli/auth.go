package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/avencello/inkfeed/internal/client/api"
	"github.com/avencello/inkfeed/internal/client/recovery"
	"github.com/avencello/inkfeed/internal/common"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Login authenticates against the server and installs the session.
func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := GetPassword(os.Stdout, "Enter password")
	if err != nil {
		return err
	}

	res, err := a.client.Login(ctx, email, password)
	if err != nil {
		printlnFn("Login failed:", errText(err))
		return err
	}

	a.sessions.Login(res.User, res.Token)
	printlnFn("Signed in as", res.User.Email)
	return nil
}

// Register creates an account. The form is validated locally before dispatch
// so obviously bad input never reaches the network.
func (a *App) Register(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Enter display name", os.Stdout)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := GetPassword(os.Stdout, "Enter password (min 8 chars)")
	if err != nil {
		return err
	}
	dob, err := GetSimpleText(a.reader, "Date of birth (YYYY-MM-DD, optional)", os.Stdout)
	if err != nil {
		return err
	}

	req := api.RegisterRequest{Name: name, Email: email, Password: password, DateOfBirth: dob}
	if err := validate.Struct(req); err != nil {
		printlnFn("Invalid input:", err.Error())
		return fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	res, err := a.client.Register(ctx, req)
	if err != nil {
		printlnFn("Registration failed:", errText(err))
		return err
	}

	a.sessions.Register(res.User, res.Token)
	printlnFn("Welcome,", res.User.Name)
	return nil
}

// Forgot walks the user through the password-recovery flow: request an OTP,
// verify it, set a new password. An empty answer at any step cancels the
// flow and discards the recovery context.
func (a *App) Forgot(ctx context.Context) error {
	machine := recovery.NewMachine(a.client, a.sessions)

	email, err := GetSimpleText(a.reader, "Enter account email (empty to cancel)", os.Stdout)
	if err != nil || email == "" {
		machine.Cancel()
		return err
	}
	if err := machine.RequestOTP(ctx, email); err != nil {
		printlnFn("Could not send code:", errText(err))
		return err
	}
	printlnFn("A one-time code was sent to", email)

	for machine.State() == recovery.StateOtpRequested {
		code, err := GetSimpleText(a.reader, "Enter the code (empty to cancel)", os.Stdout)
		if err != nil || code == "" {
			machine.Cancel()
			return err
		}
		if err := machine.VerifyOTP(ctx, code); err != nil {
			if errors.Is(err, common.ErrConflict) {
				printlnFn("Invalid code, try again.")
				continue
			}
			printlnFn("Could not verify code:", errText(err))
			return err
		}
	}

	password, err := GetPassword(os.Stdout, "Enter new password")
	if err != nil || password == "" {
		machine.Cancel()
		return err
	}
	if err := machine.SubmitNewPassword(ctx, password); err != nil {
		printlnFn("Could not reset password:", errText(err))
		return err
	}

	printlnFn("Password reset.")
	if a.isLoggedIn() {
		printlnFn("You are now signed in as", a.sessions.Current().Identity.Email)
	}
	return nil
}

// Logout clears the session. In-flight requests keep their old token but can
// no longer re-authenticate the store.
func (a *App) Logout(ctx context.Context) error {
	a.sessions.Logout()
	printlnFn("Signed out.")
	return nil
}

// WhoAmI prints the current identity and token expiry.
func (a *App) WhoAmI(ctx context.Context) error {
	sess := a.sessions.Current()
	if !sess.Authenticated() {
		printlnFn("Not signed in.")
		return nil
	}
	printlnFn(fmt.Sprintf("%s <%s>", sess.Identity.Name, sess.Identity.Email))
	if exp := a.sessions.TokenExpiry(); !exp.IsZero() {
		printlnFn("Session valid until", exp.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

// errText strips the classification prefix into a user-facing message.
func errText(err error) string {
	switch {
	case errors.Is(err, common.ErrNetwork):
		return "network problem, please try again"
	case errors.Is(err, common.ErrServer):
		return "the server had a problem, please try again"
	case errors.Is(err, common.ErrUnauthorized):
		return "not authorized"
	default:
		return err.Error()
	}
}
