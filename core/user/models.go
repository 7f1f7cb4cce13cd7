package user

import (
	"net/mail"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/VenusCh001/studytracker/core"
)

type User struct {
	ID        string     `json:"id" bson:"_id"`
	Name      string     `json:"name" bson:"name"`
	Username  string     `json:"username" bson:"username"`
	Email     string     `json:"email" bson:"email"`
	IsActive  bool       `json:"isActive" bson:"isActive"`
	CreatedAt time.Time  `json:"createdAt" bson:"createdAt"` // UTC
	UpdatedAt time.Time  `json:"updatedAt" bson:"updatedAt"` // UTC
	LastLogin *time.Time `json:"lastLogin,omitempty" bson:"lastLogin,omitempty"`
}

func (u User) DocID() string { return u.ID }

// Address returns the mailbox emails to the user are sent to.
func (u User) Address() mail.Address {
	name := u.Name
	if name == "" {
		name = u.Username
	}
	return mail.Address{Name: name, Address: u.Email}
}

// Account is the persisted form of a User. It never leaves the service.
type Account struct {
	User         `bson:",inline"`
	PasswordHash []byte `json:"passwordHash" bson:"passwordHash"`
}

func (a *Account) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = hash
	return nil
}

func (a *Account) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(a.PasswordHash, []byte(pwd))
}

// NewUser contains information needed to create a new User.
type NewUser struct {
	Name            string `json:"name" validate:"max=100"`
	Username        string `json:"username" validate:"required,min=3,max=30,alphanum_"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"passwordConfirm" validate:"omitempty,eqfield=Password"`
}

func (nu *NewUser) Validate(validate *validator.Validate) error {
	nu.Name = core.CleanString(nu.Name)
	nu.Username = core.CleanString(nu.Username, true /* lower */)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	return validate.Struct(nu)
}

type ResetUserPassword struct {
	Token           string `json:"token,omitempty" validate:"required"`
	UID             string `json:"uid,omitempty" validate:"required"`
	Password        string `json:"password,omitempty" validate:"required"`
	PasswordConfirm string `json:"passwordConfirm,omitempty" validate:"required,eqfield=Password"`
}

func (rp *ResetUserPassword) Validate(validate *validator.Validate) error {
	return validate.Struct(rp)
}
