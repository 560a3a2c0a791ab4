package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/google/uuid"
	"github.com/rbroggi/oneclick/internal/core/model"
	"github.com/rbroggi/oneclick/internal/core/ports"
	log "github.com/sirupsen/logrus"
)

// signupRequiredFields are checked in order; the first missing one is reported.
var signupRequiredFields = []string{
	"coordinates",
	"description",
	"name",
	"password",
	"confirmPassword",
	"languages",
	"topics",
	"email",
	"phone",
	"organization",
	"status",
	"industry",
	"age",
	"gender",
	"discoverable",
}

var (
	whitespaceRe = regexp.MustCompile(`\s`)
	lowerRe      = regexp.MustCompile(`[a-z]`)
	upperRe      = regexp.MustCompile(`[A-Z]`)
	digitRe      = regexp.MustCompile(`[0-9]`)
)

// UserServiceArgs contains the mandatory arguments for the UserService.
type UserServiceArgs struct {
	// Repository is the repository for persistence operations.
	Repository ports.Repository

	// Sender publishes outbound mail events.
	Sender ports.Sender
}

// UserServiceOptArgs are the optional arguments for building a UserService.
type UserServiceOptArgs = func(*UserService)

// WithNowFunc can be used to override the nowFunc. Useful for testing.
func WithNowFunc(nowFunc func() time.Time) UserServiceOptArgs {
	return func(s *UserService) {
		s.nowFunc = nowFunc
	}
}

// NewUserService creates a new UserService.
func NewUserService(args UserServiceArgs, optArgs ...UserServiceOptArgs) *UserService {
	s := &UserService{
		repository: args.Repository,
		sender:     args.Sender,
		nowFunc:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range optArgs {
		opt(s)
	}
	return s
}

// UserService gathers the functionality around the user lifecycle.
type UserService struct {
	repository ports.Repository
	sender     ports.Sender
	nowFunc    func() time.Time
}

// Signup creates a user from the raw signup payload. Every required profile
// field must be present; the password must satisfy the policy and match its
// confirmation. On success a welcome mail-event is published.
func (s *UserService) Signup(ctx context.Context, args model.SignupArgs) (*model.SignupResponse, error) {
	if field := firstMissing(args.Payload, signupRequiredFields); field != "" {
		return nil, model.MissingField(field)
	}

	password := asString(args.Payload["password"])
	if !validPassword(password) {
		return nil, &model.ValidationError{
			Field:  "password",
			Reason: "must contain at least 8 characters, 1 uppercase, 1 lowercase and 1 number, without whitespace",
		}
	}
	if password != asString(args.Payload["confirmPassword"]) {
		return nil, &model.ValidationError{Field: "confirmPassword", Reason: "passwords do not match"}
	}

	email := asString(args.Payload["email"])
	if _, err := s.repository.GetUserByEmail(ctx, email); err == nil {
		return nil, model.ErrDuplicate
	} else if !errors.Is(err, model.ErrNotFound) {
		return nil, fmt.Errorf("error checking for existing user: %w", err)
	}

	hash, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		return nil, fmt.Errorf("error creating password hash: %w", err)
	}

	discoverable, _ := asBool(args.Payload["discoverable"])
	user := &model.User{
		Name:         asString(args.Payload["name"]),
		Description:  asString(args.Payload["description"]),
		Coordinates:  asFloats(args.Payload["coordinates"]),
		Languages:    asStrings(args.Payload["languages"]),
		Topics:       asStrings(args.Payload["topics"]),
		Email:        email,
		Phone:        asString(args.Payload["phone"]),
		Organization: asString(args.Payload["organization"]),
		Status:       asString(args.Payload["status"]),
		Industry:     asString(args.Payload["industry"]),
		Age:          asInt(args.Payload["age"]),
		Gender:       asString(args.Payload["gender"]),
		Discoverable: discoverable,
		PasswordHash: hash,
		CreatedAt:    s.nowFunc(),
	}

	if err := s.repository.SaveUser(ctx, user); err != nil {
		if errors.Is(err, model.ErrDuplicate) {
			return nil, model.ErrDuplicate
		}
		return nil, fmt.Errorf("error saving user in repository: %w", err)
	}

	// Mail delivery is asynchronous and must not lose the account on failure.
	if err := s.sender.Send(ctx, model.MailEvent{
		ID:        uuid.NewString(),
		Kind:      model.MailKindWelcome,
		To:        user.Email,
		Name:      user.Name,
		CreatedAt: s.nowFunc(),
	}); err != nil {
		log.WithError(err).Warn("could not publish welcome mail event")
	}

	created := *user
	created.PasswordHash = ""
	return &model.SignupResponse{User: created}, nil
}

// Authenticate verifies the credentials and returns the matching user. It
// returns model.ErrNotFound when the email is unknown and
// model.ErrUnauthorized when the password does not match.
func (s *UserService) Authenticate(ctx context.Context, args model.AuthenticateArgs) (*model.AuthenticateResponse, error) {
	user, err := s.repository.GetUserByEmail(ctx, args.Email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("error fetching user from repository: %w", err)
	}

	match, err := argon2id.ComparePasswordAndHash(args.Password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("error comparing password and hash: %w", err)
	}
	if !match {
		return nil, model.ErrUnauthorized
	}

	authenticated := *user
	authenticated.PasswordHash = ""
	return &model.AuthenticateResponse{User: authenticated}, nil
}

// ForgotPassword publishes a password-reset mail event for the account. It
// returns model.ErrNotFound when the email is unknown.
func (s *UserService) ForgotPassword(ctx context.Context, args model.ForgotPasswordArgs) error {
	user, err := s.repository.GetUserByEmail(ctx, args.Email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.ErrNotFound
		}
		return fmt.Errorf("error fetching user from repository: %w", err)
	}

	if err := s.sender.Send(ctx, model.MailEvent{
		ID:        uuid.NewString(),
		Kind:      model.MailKindPasswordReset,
		To:        user.Email,
		Name:      user.Name,
		CreatedAt: s.nowFunc(),
	}); err != nil {
		return fmt.Errorf("error publishing password-reset mail event: %w", err)
	}
	return nil
}

// Profile returns the caller's own user record.
func (s *UserService) Profile(ctx context.Context, args model.ProfileArgs) (*model.ProfileResponse, error) {
	if args.Caller == nil {
		return nil, model.ErrUnauthorized
	}

	user, err := s.repository.GetUserByEmail(ctx, args.Caller.Email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("error fetching user from repository: %w", err)
	}

	profile := *user
	profile.PasswordHash = ""
	return &model.ProfileResponse{User: profile}, nil
}

// ListNetwork returns all discoverable users excluding the caller itself.
func (s *UserService) ListNetwork(ctx context.Context, args model.ListNetworkArgs) (*model.ListNetworkResponse, error) {
	if args.Caller == nil {
		return nil, model.ErrUnauthorized
	}

	res, err := s.repository.ListUsers(ctx, ports.ListUsersQuery{
		Discoverable: true,
		ExcludeEmail: args.Caller.Email,
	})
	if err != nil {
		return nil, fmt.Errorf("error listing users on the repository: %w", err)
	}

	users := make([]model.User, len(res.Users))
	for i, u := range res.Users {
		u.PasswordHash = ""
		users[i] = u
	}
	return &model.ListNetworkResponse{Users: users}, nil
}

func validPassword(password string) bool {
	if len(password) < 8 || whitespaceRe.MatchString(password) {
		return false
	}
	return lowerRe.MatchString(password) && upperRe.MatchString(password) && digitRe.MatchString(password)
}
