package user

import (
	"context"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/VenusCh001/studytracker/core"
)

var (
	NowFunc = time.Now // mockable

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDeactivated = errors.New("account deactivated")
	ErrUsernameExists     = errors.Wrap(core.ErrConflict, "a user with this username already exists")
	ErrEmailExists        = errors.Wrap(core.ErrConflict, "a user with this email already exists")

	passwordResetTemplate = "password_reset"
)

type (
	Repository = core.Collection[Account]

	Service interface {
		Register(ctx context.Context, nu NewUser) (User, error)
		// Authenticate checks the credentials of the user identified by username or email and stamps its last login.
		Authenticate(ctx context.Context, login, pwd string) (User, error)
		GetByID(ctx context.Context, id string) (User, error)
		GetByUsernameOrEmail(ctx context.Context, login string) (User, error)
		QueryActive(ctx context.Context) ([]User, error)
		RequestPasswordReset(ctx context.Context, email string) error
		ResetPassword(ctx context.Context, rp ResetUserPassword) error
		// SetPassword replaces the password of a user without any token check (admin only).
		SetPassword(ctx context.Context, login, pwd string) error
	}

	service struct {
		repo    Repository
		mailSvc core.EmailService
		tokens  tokenGenerator
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, mailSvc core.EmailService, conf *core.Config) Service {
	return &service{
		repo:    repo,
		mailSvc: mailSvc,
		tokens: tokenGenerator{
			secretKey: []byte(conf.SecretKey),
			timeout:   conf.Server.PasswordResetTimeoutDelta,
		},
	}
}

func (svc *service) checkUniqueness(ctx context.Context, uname, email string) error {
	if n, err := svc.repo.Count(ctx, core.Unscoped().Where("username", core.OpEq, uname)); err != nil {
		return errors.Wrap(err, "counting users by username")
	} else if n > 0 {
		return core.NewValidationError(ErrUsernameExists, core.FieldError{Field: "username", Error: "a user with this username already exists"})
	}
	if n, err := svc.repo.Count(ctx, core.Unscoped().Where("email", core.OpEq, email)); err != nil {
		return errors.Wrap(err, "counting users by email")
	} else if n > 0 {
		return core.NewValidationError(ErrEmailExists, core.FieldError{Field: "email", Error: "a user with this email already exists"})
	}
	return nil
}

func (svc *service) Register(ctx context.Context, nu NewUser) (User, error) {
	if err := svc.checkUniqueness(ctx, nu.Username, nu.Email); err != nil {
		return User{}, err
	}

	now := NowFunc().UTC()
	acc := Account{User: User{
		ID:        uuid.NewString(),
		Name:      nu.Name,
		Username:  nu.Username,
		Email:     nu.Email,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}}
	if err := acc.SetPassword(nu.Password); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}

	acc, err := svc.repo.Insert(ctx, acc)
	if err != nil {
		return User{}, errors.Wrap(err, "inserting user")
	}
	return acc.User, nil
}

func (svc *service) findAccount(ctx context.Context, login string) (Account, error) {
	login = core.CleanString(login, true /* lower */)
	acc, err := svc.repo.FindOne(ctx, core.Unscoped().Where("username", core.OpEq, login))
	if core.IsNotFound(err) {
		acc, err = svc.repo.FindOne(ctx, core.Unscoped().Where("email", core.OpEq, login))
	}
	return acc, errors.Wrap(err, "finding user by username or email")
}

func (svc *service) Authenticate(ctx context.Context, login, pwd string) (User, error) {
	acc, err := svc.findAccount(ctx, login)
	if err != nil {
		if core.IsNotFound(err) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if err = acc.CheckPassword(pwd); err != nil {
		return User{}, ErrInvalidCredentials
	}
	if !acc.IsActive {
		return User{}, ErrAccountDeactivated
	}

	now := NowFunc().UTC()
	acc.LastLogin = &now
	acc, err = svc.repo.Replace(ctx, core.Unscoped().ByID(acc.ID), acc)
	if err != nil {
		return User{}, errors.Wrap(err, "setting lastLogin")
	}
	return acc.User, nil
}

func (svc *service) GetByID(ctx context.Context, id string) (User, error) {
	acc, err := svc.repo.FindOne(ctx, core.Unscoped().ByID(id))
	return acc.User, errors.Wrap(err, "finding user by ID")
}

func (svc *service) GetByUsernameOrEmail(ctx context.Context, login string) (User, error) {
	acc, err := svc.findAccount(ctx, login)
	return acc.User, err
}

func (svc *service) QueryActive(ctx context.Context) ([]User, error) {
	accs, err := svc.repo.Find(ctx, core.Unscoped().Where("isActive", core.OpEq, true), core.DBOrdering{Field: "createdAt", Ascending: true})
	if err != nil {
		return nil, errors.Wrap(err, "finding active users")
	}
	users := make([]User, 0, len(accs))
	for _, acc := range accs {
		users = append(users, acc.User)
	}
	return users, nil
}

type passwordResetData struct {
	Name     string
	Username string
	UID      string
	Token    string
}

func (svc *service) RequestPasswordReset(ctx context.Context, email string) error {
	acc, err := svc.repo.FindOne(ctx, core.Unscoped().
		Where("email", core.OpEq, core.CleanString(email, true /* lower */)).
		Where("isActive", core.OpEq, true))
	if err != nil {
		return errors.Wrap(err, "finding user by email")
	}

	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{acc.Address()},
		Subject:      "Password reset",
		TemplateName: passwordResetTemplate,
		TemplateData: passwordResetData{
			Name:     acc.Address().Name,
			Username: acc.Username,
			UID:      EncodeUID(acc.User),
			Token:    svc.tokens.makeToken(acc, NowFunc()),
		},
	})
	return nil
}

func (svc *service) ResetPassword(ctx context.Context, rp ResetUserPassword) error {
	invalid := core.NewValidationError(errInvalidToken, core.FieldError{Field: "token", Error: "invalid or expired token"})

	id, err := decodeUID(rp.UID)
	if err != nil {
		return invalid
	}
	acc, err := svc.repo.FindOne(ctx, core.Unscoped().ByID(id))
	if err != nil {
		if core.IsNotFound(err) {
			return invalid
		}
		return errors.Wrap(err, "finding user by ID")
	}
	if err = svc.tokens.verifyToken(acc, rp.Token, NowFunc()); err != nil {
		return invalid
	}
	return svc.savePassword(ctx, acc, rp.Password)
}

func (svc *service) SetPassword(ctx context.Context, login, pwd string) error {
	if tag := checkPassword(pwd); tag != "" {
		return core.NewFieldError("password", policyTexts[tag])
	}
	acc, err := svc.findAccount(ctx, login)
	if err != nil {
		return err
	}
	return svc.savePassword(ctx, acc, pwd)
}

func (svc *service) savePassword(ctx context.Context, acc Account, pwd string) error {
	if err := acc.SetPassword(pwd); err != nil {
		return errors.Wrap(err, "hashing password")
	}
	acc.UpdatedAt = NowFunc().UTC()
	_, err := svc.repo.Replace(ctx, core.Unscoped().ByID(acc.ID), acc)
	return errors.Wrap(err, "saving password")
}
