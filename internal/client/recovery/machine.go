// Package recovery drives the forgot-password flow:
//
//	Idle → OtpRequested → OtpVerified → Completed
//
// Completed is transient: it only exists to install the fresh session and
// signal the UI, after which the machine resets itself to Idle and discards
// the recovery context. Cancel returns to Idle from any state without a
// network call.
package recovery

import (
	"context"
	"fmt"
	"strings"

	"github.com/avencello/inkfeed/internal/client/api"
	"github.com/avencello/inkfeed/internal/client/session"
	"github.com/avencello/inkfeed/internal/common"
)

type State int

const (
	StateIdle State = iota
	StateOtpRequested
	StateOtpVerified
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateOtpRequested:
		return "otp-requested"
	case StateOtpVerified:
		return "otp-verified"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// context carried between steps while the flow is active.
type recoveryContext struct {
	email        string
	verifiedCode string
}

// Machine is the recovery state machine. One machine serves one recovery
// attempt at a time; tear it down (or Cancel) when the UI closes.
type Machine struct {
	client   api.Client
	sessions *session.Store

	state State
	rctx  recoveryContext
}

func NewMachine(client api.Client, sessions *session.Store) *Machine {
	return &Machine{client: client, sessions: sessions}
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// RequestOTP asks the server to send a one-time code to email. Only valid in
// Idle. An empty email is rejected before dispatch. On any gateway error the
// machine stays Idle.
func (m *Machine) RequestOTP(ctx context.Context, email string) error {
	if m.state != StateIdle {
		return fmt.Errorf("request otp in state %s: %w", m.state, common.ErrInvalidState)
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("%w: email is required", common.ErrValidation)
	}

	if err := m.client.ForgotPassword(ctx, email); err != nil {
		return err
	}

	m.rctx = recoveryContext{email: email}
	m.state = StateOtpRequested
	return nil
}

// VerifyOTP submits the code the user received. Only valid in OtpRequested.
// A 200 response with a negative verified flag is a semantic rejection
// (common.ErrConflict), distinct from transport failure; in both cases the
// machine stays in OtpRequested so the user may retry.
func (m *Machine) VerifyOTP(ctx context.Context, code string) error {
	if m.state != StateOtpRequested {
		return fmt.Errorf("verify otp in state %s: %w", m.state, common.ErrInvalidState)
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return fmt.Errorf("%w: code is required", common.ErrValidation)
	}

	ok, err := m.client.VerifyOTP(ctx, m.rctx.email, code)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: invalid code", common.ErrConflict)
	}

	m.rctx.verifiedCode = code
	m.state = StateOtpVerified
	return nil
}

// SubmitNewPassword finishes the flow. Only valid in OtpVerified. On success
// the machine passes through Completed, forwards any fresh session to the
// session store, and resets itself to Idle with the context discarded.
func (m *Machine) SubmitNewPassword(ctx context.Context, password string) error {
	if m.state != StateOtpVerified {
		return fmt.Errorf("submit password in state %s: %w", m.state, common.ErrInvalidState)
	}
	if password == "" {
		return fmt.Errorf("%w: password is required", common.ErrValidation)
	}

	res, err := m.client.ResetPassword(ctx, m.rctx.email, m.rctx.verifiedCode, password)
	if err != nil {
		return err
	}

	m.state = StateCompleted
	if res != nil && res.Token != "" {
		m.sessions.Login(res.User, res.Token)
	}

	m.state = StateIdle
	m.rctx = recoveryContext{}
	return nil
}

// Cancel discards the recovery context and returns to Idle. Valid in any
// state; never makes a network call.
func (m *Machine) Cancel() {
	m.state = StateIdle
	m.rctx = recoveryContext{}
}
