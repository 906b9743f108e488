package usecase

import (
	"context"
	"errors"

	"alartmed/internal/converter"
	"alartmed/internal/delivery/dto"
	"alartmed/internal/domain/entity"
	"alartmed/internal/gateway"
	"alartmed/internal/service"
	"alartmed/internal/session"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const MsgResetEmailSent = "Email de recuperação enviado! Verifique sua caixa de entrada."

var (
	ErrPasswordMismatch     = errors.New("As senhas não coincidem")
	ErrLoginFailed          = errors.New("Erro ao fazer login")
	ErrSignupFailed         = errors.New("Erro ao criar conta")
	ErrResetFailed          = errors.New("Erro ao enviar email de recuperação")
	ErrPasswordUpdateFailed = errors.New("Erro ao redefinir senha")
	ErrLogoutFailed         = errors.New("Erro ao sair")
)

// SessionHolder is the client session an auth action is applied to.
type SessionHolder interface {
	Login(ctx context.Context, email, password string) error
	Signup(ctx context.Context, email, password, name, phone string) error
	Logout(ctx context.Context) error
	ResetPassword(ctx context.Context, email string) error
	WaitSettled(ctx context.Context) (session.State, error)
	Session() *gateway.Session
}

// PasswordRecovery completes a password reset started by email.
type PasswordRecovery interface {
	UpdatePasswordWithRecovery(ctx context.Context, token, newPassword string) (uuid.UUID, error)
}

type AuthUsecase interface {
	Signup(ctx context.Context, holder SessionHolder, req *dto.SignupRequest) error
	Login(ctx context.Context, holder SessionHolder, req *dto.LoginRequest) error
	Logout(ctx context.Context, holder SessionHolder) error
	ResetPassword(ctx context.Context, holder SessionHolder, req *dto.ResetPasswordRequest) error
	ConfirmPasswordReset(ctx context.Context, req *dto.ConfirmResetPasswordRequest) error
	GetSession(ctx context.Context, holder SessionHolder) (*dto.SessionResponse, error)
}

type authUsecase struct {
	log          *logrus.Logger
	recovery     PasswordRecovery
	auditService service.AuditService
}

func NewAuthUsecase(
	log *logrus.Logger,
	recovery PasswordRecovery,
	auditService service.AuditService,
) AuthUsecase {
	return &authUsecase{
		log:          log,
		recovery:     recovery,
		auditService: auditService,
	}
}

// authFailure keeps gateway messages intact and hides anything else behind fallback
func (u *authUsecase) authFailure(err error, fallback error) error {
	if authErr, ok := gateway.AsAuthError(err); ok {
		return authErr
	}
	u.log.Warnf("%s: %+v", fallback.Error(), err)
	return fallback
}

func (u *authUsecase) Signup(ctx context.Context, holder SessionHolder, req *dto.SignupRequest) error {
	if req.Password != req.ConfirmPassword {
		return ErrPasswordMismatch
	}

	if err := holder.Signup(ctx, req.Email, req.Password, req.Name, req.Phone); err != nil {
		return u.authFailure(err, ErrSignupFailed)
	}

	if current := holder.Session(); current != nil {
		u.auditService.LogEvent(ctx, current.User.ID, entity.AuditActionUserRegister, entity.JSON{"email": current.User.Email})
	}
	return nil
}

func (u *authUsecase) Login(ctx context.Context, holder SessionHolder, req *dto.LoginRequest) error {
	if err := holder.Login(ctx, req.Email, req.Password); err != nil {
		return u.authFailure(err, ErrLoginFailed)
	}

	if current := holder.Session(); current != nil {
		u.auditService.LogEvent(ctx, current.User.ID, entity.AuditActionUserLogin, nil)
	}
	return nil
}

func (u *authUsecase) Logout(ctx context.Context, holder SessionHolder) error {
	current := holder.Session()

	if err := holder.Logout(ctx); err != nil {
		return u.authFailure(err, ErrLogoutFailed)
	}

	if current != nil {
		u.auditService.LogEvent(ctx, current.User.ID, entity.AuditActionUserLogout, nil)
	}
	return nil
}

func (u *authUsecase) ResetPassword(ctx context.Context, holder SessionHolder, req *dto.ResetPasswordRequest) error {
	if err := holder.ResetPassword(ctx, req.Email); err != nil {
		return u.authFailure(err, ErrResetFailed)
	}
	return nil
}

func (u *authUsecase) ConfirmPasswordReset(ctx context.Context, req *dto.ConfirmResetPasswordRequest) error {
	userID, err := u.recovery.UpdatePasswordWithRecovery(ctx, req.Token, req.Password)
	if err != nil {
		return u.authFailure(err, ErrPasswordUpdateFailed)
	}

	u.auditService.LogEvent(ctx, userID, entity.AuditActionPasswordReset, nil)
	return nil
}

// GetSession waits for the holder to settle and reports its state
func (u *authUsecase) GetSession(ctx context.Context, holder SessionHolder) (*dto.SessionResponse, error) {
	state, err := holder.WaitSettled(ctx)
	if err != nil {
		return nil, err
	}
	return converter.StateToResponse(state), nil
}
