// Package account manages customer profiles, credential changes and order
// history.
package account

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	fbauth "firebase.google.com/go/auth"
	"github.com/vTempo/afroditis-delicacies/auth"
	"github.com/vTempo/afroditis-delicacies/models"
	"github.com/vTempo/afroditis-delicacies/notify"
	"github.com/vTempo/afroditis-delicacies/store"
	"gorm.io/gorm"
)

type Service struct {
	db       *gorm.DB
	users    auth.UserManager
	notifier notify.Notifier
	now      func() time.Time
}

type Option func(*Service)

func WithNotifier(n notify.Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(db *gorm.DB, users auth.UserManager, opts ...Option) *Service {
	s := &Service{db: db, users: users, notifier: notify.LogNotifier{}, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProfileUpdate carries the editable profile fields. Nil fields are left alone.
type ProfileUpdate struct {
	FirstName   *string             `json:"firstName"`
	LastName    *string             `json:"lastName"`
	DisplayName *string             `json:"displayName"`
	PhoneNumber *string             `json:"phoneNumber"`
	PhotoURL    *string             `json:"photoURL"`
	Address     *models.Address     `json:"address"`
	Preferences *models.Preferences `json:"preferences"`
}

func (s *Service) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return nil, s.fail("get profile", userID, err)
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile applies the non-nil fields. A phone number, when given, must
// be a valid US number.
func (s *Service) UpdateProfile(ctx context.Context, userID string, in ProfileUpdate) (*models.User, error) {
	updates := map[string]interface{}{}
	if in.FirstName != nil {
		updates["first_name"] = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		updates["last_name"] = strings.TrimSpace(*in.LastName)
	}
	if in.DisplayName != nil {
		updates["display_name"] = strings.TrimSpace(*in.DisplayName)
	}
	if in.PhoneNumber != nil && *in.PhoneNumber != "" {
		if err := auth.ValidatePhoneNumber(*in.PhoneNumber); err != nil {
			return nil, err
		}
		updates["phone_number"] = *in.PhoneNumber
	}
	if in.PhotoURL != nil {
		updates["photo_url"] = *in.PhotoURL
	}
	if a := in.Address; a != nil {
		updates["address_street"] = a.Street
		updates["address_city"] = a.City
		updates["address_state"] = a.State
		updates["address_zip_code"] = a.ZipCode
		updates["address_country"] = a.Country
	}
	if p := in.Preferences; p != nil {
		updates["pref_email_notifications"] = p.EmailNotifications
		updates["pref_order_updates"] = p.OrderUpdates
		updates["pref_marketing_emails"] = p.MarketingEmails
	}
	updates["updated_at"] = s.now()

	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Updates(updates)
	if res.Error != nil {
		return nil, s.fail("update profile", userID, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, models.NotFound("user", userID)
	}
	return s.GetProfile(ctx, userID)
}

// ChangePassword sets a new password in Firebase and then notifies the
// account owner. A failed notification does not fail the change.
func (s *Service) ChangePassword(ctx context.Context, userID, newPassword string) error {
	if err := auth.ValidatePassword(newPassword); err != nil {
		return err
	}
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}

	if _, err := s.users.UpdateUser(ctx, userID, (&fbauth.UserToUpdate{}).Password(newPassword)); err != nil {
		log.Printf("❌ Password change failed for %s: %v", userID, err)
		return auth.IdentityError("change password", err)
	}

	notify.BestEffort(ctx, s.notifier, notify.PasswordChanged(userID, user.Email))
	return nil
}

// ChangeEmail updates the sign-in email in Firebase and on the profile, then
// notifies both the old and the new address.
func (s *Service) ChangeEmail(ctx context.Context, userID, newEmail string) error {
	newEmail = strings.TrimSpace(newEmail)
	if newEmail == "" || !strings.Contains(newEmail, "@") {
		return models.Invalid("email", "Invalid email address. Please check and try again.")
	}
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	if strings.EqualFold(user.Email, newEmail) {
		return nil
	}

	if _, err := s.users.UpdateUser(ctx, userID, (&fbauth.UserToUpdate{}).Email(newEmail).EmailVerified(false)); err != nil {
		log.Printf("❌ Email change failed for %s: %v", userID, err)
		return auth.IdentityError("change email", err)
	}

	err = s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).
		Updates(map[string]interface{}{"email": newEmail, "email_verified": false, "updated_at": s.now()}).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.Invalid("email", "This email is already registered. Please sign in or use a different email.")
		}
		return s.fail("change email", userID, err)
	}

	notify.BestEffort(ctx, s.notifier, notify.EmailChanged(userID, user.Email, newEmail)...)
	return nil
}

// ListOrders returns the user's past orders, newest first.
func (s *Service) ListOrders(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("order_date DESC").Find(&orders).Error; err != nil {
		return nil, s.fail("list orders", userID, err)
	}
	for i := range orders {
		if err := orders[i].Validate(); err != nil {
			return nil, err
		}
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

// EmailExists reports whether a profile already uses email.
func (s *Service) EmailExists(ctx context.Context, email string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.User{}).Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).Count(&n).Error
	if err != nil {
		return false, s.fail("check email", email, err)
	}
	return n > 0, nil
}

// ListUsers returns every profile, newest first.
func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, s.fail("list users", "", err)
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

func (s *Service) fail(op, key string, err error) error {
	err = store.Wrap(op, "user", key, err)
	if !models.IsNotFound(err) && !models.IsValidation(err) {
		log.Printf("❌ %s failed: %v", op, err)
	}
	return err
}
