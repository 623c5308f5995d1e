package notification

import (
	"context"
	"testing"

	"tastebook/domain"
	"tastebook/entities"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&entities.User{}, &entities.Notification{}))
	return db
}

func newService(t *testing.T) (NotificationService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewNotificationService(NewNotificationRepository(db)), db
}

func seedUser(t *testing.T, db *gorm.DB, handle string) *entities.User {
	t.Helper()
	u := &entities.User{
		ID:       uuid.New(),
		Handle:   handle,
		Email:    handle[1:] + "@example.com",
		Password: "irrelevant",
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func TestEmitAndList(t *testing.T) {
	service, db := newService(t)
	ctx := context.Background()

	alice := seedUser(t, db, "@alice")
	bob := seedUser(t, db, "@bob")

	service.Emit(ctx, NewGeneralNotification(alice.ID, "First", "one"))
	service.Emit(ctx, NewGeneralNotification(alice.ID, "Second", "two"))
	service.Emit(ctx, NewGeneralNotification(bob.ID, "Other inbox", "three"))

	list, total, err := service.GetNotifications(ctx, alice.ID.String(), 1, 20)
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Len(t, list, 2)
	// Newest first.
	require.Equal(t, "Second", list[0].Title)
	require.Equal(t, "First", list[1].Title)
	require.False(t, list[0].IsRead)
}

func TestUnreadCountAndMarkRead(t *testing.T) {
	service, db := newService(t)
	ctx := context.Background()

	alice := seedUser(t, db, "@alice")
	bob := seedUser(t, db, "@bob")

	service.Emit(ctx, NewGeneralNotification(alice.ID, "First", "one"))
	service.Emit(ctx, NewGeneralNotification(alice.ID, "Second", "two"))

	count, err := service.UnreadCount(ctx, alice.ID.String())
	require.NoError(t, err)
	require.EqualValues(t, 2, count)

	list, _, err := service.GetNotifications(ctx, alice.ID.String(), 1, 20)
	require.NoError(t, err)

	// Another user cannot mark it, and the miss looks like a missing row.
	err = service.MarkRead(ctx, bob.ID.String(), list[0].ID)
	require.ErrorIs(t, err, domain.ErrNotificationNotFound)

	require.NoError(t, service.MarkRead(ctx, alice.ID.String(), list[0].ID))
	count, err = service.UnreadCount(ctx, alice.ID.String())
	require.NoError(t, err)
	require.EqualValues(t, 1, count)

	err = service.MarkRead(ctx, alice.ID.String(), uuid.NewString())
	require.ErrorIs(t, err, domain.ErrNotificationNotFound)
}

func TestMarkAllRead(t *testing.T) {
	service, db := newService(t)
	ctx := context.Background()

	alice := seedUser(t, db, "@alice")
	bob := seedUser(t, db, "@bob")

	service.Emit(ctx, NewGeneralNotification(alice.ID, "First", "one"))
	service.Emit(ctx, NewGeneralNotification(alice.ID, "Second", "two"))
	service.Emit(ctx, NewGeneralNotification(bob.ID, "Untouched", "three"))

	require.NoError(t, service.MarkAllRead(ctx, alice.ID.String()))

	count, err := service.UnreadCount(ctx, alice.ID.String())
	require.NoError(t, err)
	require.Zero(t, count)

	count, err = service.UnreadCount(ctx, bob.ID.String())
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}
