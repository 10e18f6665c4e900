package directory

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/lfg/internal/dependencies/mocks"
	"github.com/mcoot/lfg/internal/model"
	"github.com/mcoot/lfg/internal/services/credentials"
	"github.com/mcoot/lfg/internal/storage/memory"
	"github.com/mcoot/lfg/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, credentials.NewBcrypt(bcrypt.MinCost), s.clock, DefaultConfig(), testutil.NopLogger())
	s.ctx = context.Background()
}

func validRegistration() Registration {
	return Registration{
		Username: "alice",
		Password: "secret123",
		Email:    "alice@gmail.com",
		Role:     "Tank",
		Rating:   1600,
	}
}

// Register tests

func (s *ServiceSuite) TestRegisterSucceeds() {
	account, err := s.service.Register(s.ctx, validRegistration())
	s.Require().NoError(err)

	s.Equal(model.Username("alice"), account.Username)
	s.Equal(model.RoleTank, account.Role)
	s.Equal(1600, account.Rating)
	s.Equal(s.clock.Now(), account.CreatedAt)
}

func (s *ServiceSuite) TestRegisterPersistsHashedPassword() {
	_, err := s.service.Register(s.ctx, validRegistration())
	s.Require().NoError(err)

	accounts, err := s.storage.LoadAccounts(s.ctx)
	s.Require().NoError(err)
	s.Require().Contains(accounts, model.Username("alice"))
	s.NotEmpty(accounts["alice"].PasswordHash)
	s.NotEqual("secret123", accounts["alice"].PasswordHash)
}

func (s *ServiceSuite) TestRegisterTrimsInput() {
	reg := validRegistration()
	reg.Username = "  alice "
	reg.Email = " alice@gmail.com "

	account, err := s.service.Register(s.ctx, reg)
	s.Require().NoError(err)
	s.Equal(model.Username("alice"), account.Username)
	s.Equal("alice@gmail.com", account.Email)
}

func (s *ServiceSuite) TestRegisterRequiresFields() {
	for _, mutate := range []func(*Registration){
		func(r *Registration) { r.Username = " " },
		func(r *Registration) { r.Password = "" },
		func(r *Registration) { r.Email = "" },
		func(r *Registration) { r.Role = "" },
	} {
		reg := validRegistration()
		mutate(&reg)
		_, err := s.service.Register(s.ctx, reg)
		s.ErrorIs(err, model.ErrMissingField)
	}
}

func (s *ServiceSuite) TestRegisterRejectsOtherEmailDomains() {
	reg := validRegistration()
	reg.Email = "alice@example.com"

	_, err := s.service.Register(s.ctx, reg)
	s.ErrorIs(err, model.ErrInvalidEmail)
}

func (s *ServiceSuite) TestRegisterHonoursConfiguredDomain() {
	svc := New(s.storage, credentials.NewBcrypt(bcrypt.MinCost), s.clock, Config{EmailDomain: "@guild.gg"}, testutil.NopLogger())
	reg := validRegistration()
	reg.Email = "alice@guild.gg"

	_, err := svc.Register(s.ctx, reg)
	s.NoError(err)
}

func (s *ServiceSuite) TestRegisterRejectsInvalidRole() {
	reg := validRegistration()
	reg.Role = "Bard"

	_, err := s.service.Register(s.ctx, reg)
	s.ErrorIs(err, model.ErrInvalidRole)
}

func (s *ServiceSuite) TestRegisterRejectsRatingOutOfRange() {
	for _, rating := range []int{-1, 4001} {
		reg := validRegistration()
		reg.Rating = rating
		_, err := s.service.Register(s.ctx, reg)
		s.ErrorIs(err, model.ErrRatingOutOfRange)
	}
}

func (s *ServiceSuite) TestRegisterRejectsOverlongPassword() {
	reg := validRegistration()
	reg.Password = strings.Repeat("p", MaxPasswordBytes+8)

	_, err := s.service.Register(s.ctx, reg)
	s.ErrorIs(err, model.ErrPasswordTooLong)

	accounts, err := s.storage.LoadAccounts(s.ctx)
	s.Require().NoError(err)
	s.Empty(accounts)
}

func (s *ServiceSuite) TestRegisterAcceptsLongestPassword() {
	reg := validRegistration()
	reg.Password = strings.Repeat("p", MaxPasswordBytes)

	_, err := s.service.Register(s.ctx, reg)
	s.Require().NoError(err)

	_, err = s.service.Authenticate(s.ctx, "alice", reg.Password)
	s.NoError(err)
}

func (s *ServiceSuite) TestRegisterRejectsDuplicateUsername() {
	_, err := s.service.Register(s.ctx, validRegistration())
	s.Require().NoError(err)

	_, err = s.service.Register(s.ctx, validRegistration())
	s.ErrorIs(err, model.ErrUsernameTaken)
}

func (s *ServiceSuite) TestUsernamesAreCaseSensitive() {
	_, err := s.service.Register(s.ctx, validRegistration())
	s.Require().NoError(err)

	reg := validRegistration()
	reg.Username = "Alice"
	_, err = s.service.Register(s.ctx, reg)
	s.NoError(err)
}

// Authenticate tests

func (s *ServiceSuite) TestAuthenticateSucceeds() {
	_, _ = s.service.Register(s.ctx, validRegistration())

	account, err := s.service.Authenticate(s.ctx, "alice", "secret123")
	s.Require().NoError(err)
	s.Equal(model.Username("alice"), account.Username)
}

func (s *ServiceSuite) TestAuthenticateWrongPassword() {
	_, _ = s.service.Register(s.ctx, validRegistration())

	_, err := s.service.Authenticate(s.ctx, "alice", "wrong")
	s.ErrorIs(err, model.ErrInvalidCredentials)
}

func (s *ServiceSuite) TestAuthenticateUnknownUser() {
	_, err := s.service.Authenticate(s.ctx, "ghost", "secret123")
	s.ErrorIs(err, model.ErrInvalidCredentials)
}

func (s *ServiceSuite) TestAuthenticateRequiresBothFields() {
	_, err := s.service.Authenticate(s.ctx, "", "secret123")
	s.ErrorIs(err, model.ErrMissingField)
}

// GetAccount tests

func (s *ServiceSuite) TestGetAccount() {
	_, _ = s.service.Register(s.ctx, validRegistration())

	account, err := s.service.GetAccount(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal("alice@gmail.com", account.Email)

	_, err = s.service.GetAccount(s.ctx, "ghost")
	s.ErrorIs(err, model.ErrAccountNotFound)
}
