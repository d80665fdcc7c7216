package account_test

import (
	"context"
	"errors"
	"testing"
	"time"

	fbauth "firebase.google.com/go/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vTempo/afroditis-delicacies/models"
	"github.com/vTempo/afroditis-delicacies/notify"
	"github.com/vTempo/afroditis-delicacies/services/account"
	"github.com/vTempo/afroditis-delicacies/store/storetest"
	"gorm.io/gorm"
)

type fakeUsers struct {
	updated []string
	err     error
}

func (f *fakeUsers) CreateUser(context.Context, *fbauth.UserToCreate) (*fbauth.UserRecord, error) {
	return nil, errors.New("not used")
}

func (f *fakeUsers) UpdateUser(_ context.Context, uid string, _ *fbauth.UserToUpdate) (*fbauth.UserRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.updated = append(f.updated, uid)
	return &fbauth.UserRecord{UserInfo: &fbauth.UserInfo{UID: uid}}, nil
}

type notices struct {
	msgs []notify.Message
	err  error
}

func (n *notices) Notify(_ context.Context, m notify.Message) error {
	n.msgs = append(n.msgs, m)
	return n.err
}

func setup(t *testing.T) (*account.Service, *gorm.DB, *fakeUsers, *notices) {
	t.Helper()
	db := storetest.Open(t)
	users := &fakeUsers{}
	n := &notices{}
	svc := account.New(db, users, account.WithNotifier(n))
	require.NoError(t, db.Create(&models.User{
		ID:            "u1",
		Email:         "eleni@example.com",
		FirstName:     "Eleni",
		Role:          models.RoleCustomer,
		AccountStatus: models.AccountActive,
		Preferences:   models.DefaultPreferences(),
	}).Error)
	return svc, db, users, n
}

func ptr[T any](v T) *T { return &v }

func TestGetProfile(t *testing.T) {
	svc, db, _, _ := setup(t)
	ctx := context.Background()

	user, err := svc.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Eleni", user.FirstName)

	_, err = svc.GetProfile(ctx, "missing")
	assert.True(t, models.IsNotFound(err))

	require.NoError(t, db.Create(&models.User{ID: "u2", Email: "x@example.com", AccountStatus: "frozen"}).Error)
	_, err = svc.GetProfile(ctx, "u2")
	var de *models.DeserializationError
	assert.ErrorAs(t, err, &de)
}

func TestUpdateProfile(t *testing.T) {
	svc, _, _, _ := setup(t)
	ctx := context.Background()

	user, err := svc.UpdateProfile(ctx, "u1", account.ProfileUpdate{
		LastName:    ptr(" Papadopoulou "),
		PhoneNumber: ptr("(555) 123-4567"),
		Address:     &models.Address{Street: "1 Main St", City: "Tarpon Springs", State: "FL", ZipCode: "34689", Country: "United States"},
		Preferences: &models.Preferences{MarketingEmails: true},
	})
	require.NoError(t, err)
	assert.Equal(t, "Eleni", user.FirstName)
	assert.Equal(t, "Papadopoulou", user.LastName)
	assert.Equal(t, "(555) 123-4567", user.PhoneNumber)
	assert.Equal(t, "Tarpon Springs", user.Address.City)
	assert.True(t, user.Preferences.MarketingEmails)
	assert.False(t, user.Preferences.EmailNotifications)

	_, err = svc.UpdateProfile(ctx, "u1", account.ProfileUpdate{PhoneNumber: ptr("123")})
	assert.True(t, models.IsValidation(err))

	_, err = svc.UpdateProfile(ctx, "missing", account.ProfileUpdate{FirstName: ptr("X")})
	assert.True(t, models.IsNotFound(err))
}

func TestChangePassword(t *testing.T) {
	svc, _, users, n := setup(t)
	ctx := context.Background()

	assert.True(t, models.IsValidation(svc.ChangePassword(ctx, "u1", "weak")))
	assert.Empty(t, users.updated)

	require.NoError(t, svc.ChangePassword(ctx, "u1", "Stronger1!"))
	assert.Equal(t, []string{"u1"}, users.updated)
	require.Len(t, n.msgs, 1)
	assert.Equal(t, notify.KindPasswordChange, n.msgs[0].Type)
	assert.Equal(t, "eleni@example.com", n.msgs[0].To)
}

func TestChangePasswordSurvivesNotificationFailure(t *testing.T) {
	svc, _, _, n := setup(t)
	n.err = errors.New("queue unavailable")

	assert.NoError(t, svc.ChangePassword(context.Background(), "u1", "Stronger1!"))
	assert.Len(t, n.msgs, 1)
}

func TestChangePasswordIdentityFailure(t *testing.T) {
	svc, _, users, n := setup(t)
	users.err = errors.New("firebase down")

	err := svc.ChangePassword(context.Background(), "u1", "Stronger1!")
	var se *models.RemoteStoreError
	assert.ErrorAs(t, err, &se)
	assert.Empty(t, n.msgs)
}

func TestChangeEmail(t *testing.T) {
	svc, db, users, n := setup(t)
	ctx := context.Background()

	require.NoError(t, svc.ChangeEmail(ctx, "u1", "eleni.p@example.com"))
	assert.Equal(t, []string{"u1"}, users.updated)

	var user models.User
	require.NoError(t, db.First(&user, "id = ?", "u1").Error)
	assert.Equal(t, "eleni.p@example.com", user.Email)

	require.Len(t, n.msgs, 2)
	assert.Equal(t, "eleni@example.com", n.msgs[0].To)
	assert.Equal(t, "eleni.p@example.com", n.msgs[1].To)

	assert.True(t, models.IsValidation(svc.ChangeEmail(ctx, "u1", "not-an-email")))
	require.NoError(t, svc.ChangeEmail(ctx, "u1", "ELENI.P@example.com"))
	assert.Len(t, users.updated, 1)
}

func TestListOrdersNewestFirst(t *testing.T) {
	svc, db, _, _ := setup(t)
	ctx := context.Background()
	day := time.Date(2026, 4, 1, 18, 0, 0, 0, time.UTC)

	for i, id := range []string{"o1", "o2", "o3"} {
		require.NoError(t, db.Create(&models.Order{
			ID:            id,
			UserID:        "u1",
			Items:         []models.OrderLine{{ItemID: "d1", Name: "Pastitsio", Quantity: 1, Size: models.SizeLarge, Price: 18}},
			TotalAmount:   18,
			Status:        models.OrderStatusDelivered,
			OrderDate:     day.AddDate(0, 0, i),
			PaymentMethod: models.PaymentCash,
		}).Error)
	}
	require.NoError(t, db.Create(&models.Order{ID: "other", UserID: "u2", Status: models.OrderStatusPending, PaymentMethod: models.PaymentVenmo, OrderDate: day}).Error)

	orders, err := svc.ListOrders(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, "o3", orders[0].ID)
	assert.Equal(t, "o1", orders[2].ID)
	assert.Equal(t, "Pastitsio", orders[0].Items[0].Name)

	none, err := svc.ListOrders(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestEmailExists(t *testing.T) {
	svc, _, _, _ := setup(t)
	ctx := context.Background()

	ok, err := svc.EmailExists(ctx, "Eleni@Example.com ")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.EmailExists(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.False(t, ok)
}
