// Package auth signs customers in with Firebase ID tokens and registers new
// accounts. Sessions are HS256 tokens issued by this backend.
package auth

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	fbauth "firebase.google.com/go/auth"
	"github.com/vTempo/afroditis-delicacies/models"
	"github.com/vTempo/afroditis-delicacies/notify"
	"github.com/vTempo/afroditis-delicacies/store"
	"gorm.io/gorm"
)

// ErrInvalidToken is returned by Login for an unverifiable or foreign ID token.
var ErrInvalidToken = &models.PermissionError{Action: "sign in with this token"}

type Service struct {
	db        *gorm.DB
	identity  Identity
	issuer    *Issuer
	projectID string
	notifier  notify.Notifier
	now       func() time.Time
}

type Option func(*Service)

// WithProjectID makes Login reject tokens minted for another Firebase project.
func WithProjectID(id string) Option {
	return func(s *Service) { s.projectID = id }
}

func WithNotifier(n notify.Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(db *gorm.DB, identity Identity, issuer *Issuer, opts ...Option) *Service {
	s := &Service{db: db, identity: identity, issuer: issuer, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Session is returned by Login.
type Session struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Login verifies a Firebase ID token, creates the profile on first sign-in
// (or refreshes it) and issues a session token.
func (s *Service) Login(ctx context.Context, idToken string) (*Session, error) {
	if strings.TrimSpace(idToken) == "" {
		return nil, models.Invalid("idToken", "idToken is required")
	}

	token, err := s.identity.VerifyIDTokenAndCheckRevoked(ctx, idToken)
	if err != nil {
		log.Printf("❌ ID token verification failed: %v", err)
		return nil, ErrInvalidToken
	}
	if s.projectID != "" && token.Audience != s.projectID {
		log.Printf("❌ Token audience mismatch: got %q", token.Audience)
		return nil, ErrInvalidToken
	}

	email, _ := token.Claims["email"].(string)
	if email == "" {
		return nil, models.Invalid("idToken", "email not found in token")
	}
	name, _ := token.Claims["name"].(string)
	picture, _ := token.Claims["picture"].(string)
	verified, _ := token.Claims["email_verified"].(bool)

	now := s.now()
	var user models.User
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", token.UID).Limit(1).Find(&user)
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			first, last := splitName(name)
			user = models.User{
				ID:            token.UID,
				Email:         email,
				FirstName:     first,
				LastName:      last,
				DisplayName:   name,
				PhotoURL:      picture,
				Role:          models.RoleCustomer,
				EmailVerified: verified,
				AccountStatus: statusFor(verified),
				Preferences:   models.DefaultPreferences(),
				LastLogin:     &now,
			}
			return tx.Create(&user).Error
		}

		if err := user.Validate(); err != nil {
			return err
		}
		if user.AccountStatus == models.AccountSuspended {
			return &models.PermissionError{Action: "sign in to a suspended account"}
		}
		// Firebase owns the sign-in email; the profile copy follows it.
		updates := map[string]interface{}{
			"last_login":     now,
			"email":          email,
			"email_verified": verified || user.EmailVerified,
		}
		if !strings.EqualFold(user.Email, email) {
			log.Printf("📧 Syncing email of %s from sign-in token", user.ID)
			updates["email_verified"] = verified
		}
		if verified && user.AccountStatus == models.AccountPendingVerification {
			updates["account_status"] = models.AccountActive
		}
		if user.PhotoURL == "" && picture != "" {
			updates["photo_url"] = picture
		}
		if err := tx.Model(&user).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&user, "id = ?", user.ID).Error
	})
	if err != nil {
		return nil, s.fail("login", token.UID, err)
	}

	signed, err := s.issuer.Issue(&user)
	if err != nil {
		return nil, err
	}
	log.Printf("✅ %s signed in (%s)", user.Email, user.Role)
	return &Session{Token: signed, User: &user}, nil
}

// RegisterInput is the sign-up form.
type RegisterInput struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
}

// Register creates the Firebase account and its profile. The profile starts
// in pending_verification; a verification notice is sent best effort.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)

	if in.Email == "" {
		return nil, models.Invalid("email", "Email is required")
	}
	if err := ValidatePassword(in.Password); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.PhoneNumber) == "" {
		return nil, models.Invalid("phoneNumber", "Phone number is required")
	}
	if err := ValidatePhoneNumber(in.PhoneNumber); err != nil {
		return nil, err
	}

	displayName := strings.TrimSpace(in.FirstName + " " + in.LastName)
	params := (&fbauth.UserToCreate{}).
		Email(in.Email).
		Password(in.Password).
		PhoneNumber(E164(in.PhoneNumber)).
		EmailVerified(false)
	if displayName != "" {
		params = params.DisplayName(displayName)
	}

	record, err := s.identity.CreateUser(ctx, params)
	if err != nil {
		log.Printf("❌ Firebase user creation failed for %s: %v", in.Email, err)
		return nil, IdentityError("create account", err)
	}

	user := models.User{
		ID:            record.UID,
		Email:         in.Email,
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		DisplayName:   displayName,
		PhoneNumber:   in.PhoneNumber,
		Role:          models.RoleCustomer,
		AccountStatus: models.AccountPendingVerification,
		Preferences:   models.DefaultPreferences(),
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		// The Firebase account stays; the first Login creates its profile.
		log.Printf("⚠️ Firebase account %s (%s) has no profile: %v", record.UID, in.Email, err)
		return nil, s.fail("register", record.UID, err)
	}

	notify.BestEffort(ctx, s.notifier, notify.VerifyEmail(user.ID, user.Email))
	log.Printf("📝 New customer registered: %s", user.Email)
	return &user, nil
}

func (s *Service) fail(op, key string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return models.Invalid("email", "This email is already registered. Please sign in or use a different email.")
	}
	err = store.Wrap(op, "user", key, err)
	var pe *models.PermissionError
	if !errors.As(err, &pe) && !models.IsValidation(err) {
		log.Printf("❌ %s failed: %v", op, err)
	}
	return err
}

func statusFor(verified bool) models.AccountStatus {
	if verified {
		return models.AccountActive
	}
	return models.AccountPendingVerification
}

func splitName(name string) (first, last string) {
	name = strings.TrimSpace(name)
	if i := strings.LastIndex(name, " "); i > 0 {
		return name[:i], strings.TrimSpace(name[i+1:])
	}
	return name, ""
}
