package social

import (
	"context"
	"testing"

	"tastebook/domain"
	"tastebook/entities"
	"tastebook/pkg/notification"

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
	require.NoError(t, db.AutoMigrate(
		&entities.User{},
		&entities.Follow{},
		&entities.FollowRequest{},
		&entities.Notification{},
	))
	return db
}

// gormUserDirectory avoids pulling pkg/user into this package's test binary.
type gormUserDirectory struct{ db *gorm.DB }

func (d gormUserDirectory) GetByID(ctx context.Context, id string) (*entities.User, error) {
	var u entities.User
	if err := d.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func newService(t *testing.T) (SocialService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	notificationService := notification.NewNotificationService(notification.NewNotificationRepository(db))
	service := NewSocialService(NewSocialRepository(db), gormUserDirectory{db}, notificationService)
	return service, db
}

func seedUser(t *testing.T, db *gorm.DB, handle string, private bool) *entities.User {
	t.Helper()
	u := &entities.User{
		ID:        uuid.New(),
		Handle:    handle,
		Email:     handle[1:] + "@example.com",
		Password:  "irrelevant",
		IsPrivate: private,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func countNotifications(t *testing.T, db *gorm.DB, recipient uuid.UUID, kind string) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&entities.Notification{}).
		Where("recipient_id = ? AND type = ?", recipient, kind).
		Count(&count).Error)
	return count
}

func TestFollowPublicTarget(t *testing.T) {
	service, db := newService(t)
	ctx := context.Background()

	alice := seedUser(t, db, "@alice", false)
	bob := seedUser(t, db, "@bob", false)

	res, err := service.Follow(ctx, alice.ID.String(), bob.ID.String())
	require.NoError(t, err)
	require.Equal(t, domain.FollowOutcomeFollowed, res.Outcome)

	// Repeat is a no-op.
	res, err = service.Follow(ctx, alice.ID.String(), bob.ID.String())
	require.NoError(t, err)
	require.Equal(t, domain.FollowOutcomeAlreadyRelated, res.Outcome)

	var count int64
	require.NoError(t, db.Model(&entities.Follow{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestFollowSelf(t *testing.T) {
	service, db := newService(t)
	alice := seedUser(t, db, "@alice", false)

	_, err := service.Follow(context.Background(), alice.ID.String(), alice.ID.String())
	require.ErrorIs(t, err, domain.ErrSelfFollow)
}

func TestFollowPrivateTargetCreatesRequest(t *testing.T) {
	service, db := newService(t)
	ctx := context.Background()

	alice := seedUser(t, db, "@alice", false)
	bob := seedUser(t, db, "@bob", true)

	res, err := service.Follow(ctx, alice.ID.String(), bob.ID.String())
	require.NoError(t, err)
	require.Equal(t, domain.FollowOutcomeRequestSent, res.Outcome)
	require.EqualValues(t, 1, countNotifications(t, db, bob.ID, domain.NotificationFollowRequest))

	// The notification points at the pending request itself.
	var request entities.FollowRequest
	require.NoError(t, db.First(&request, "from_user_id = ?", alice.ID).Error)
	var note entities.Notification
	require.NoError(t, db.First(&note, "recipient_id = ? AND type = ?", bob.ID, domain.NotificationFollowRequest).Error)
	require.Equal(t, domain.TargetFollowRequest, note.TargetType)
	require.NotNil(t, note.TargetID)
	require.Equal(t, request.ID, *note.TargetID)

	// Second attempt neither duplicates the request nor re-notifies.
	res, err = service.Follow(ctx, alice.ID.String(), bob.ID.String())
	require.NoError(t, err)
	require.Equal(t, domain.FollowOutcomeAlreadyRelated, res.Outcome)
	require.EqualValues(t, 1, countNotifications(t, db, bob.ID, domain.NotificationFollowRequest))

	var follows int64
	require.NoError(t, db.Model(&entities.Follow{}).Count(&follows).Error)
	require.Zero(t, follows)
}

func TestAcceptRequest(t *testing.T) {
	service, db := newService(t)
	ctx := context.Background()

	alice := seedUser(t, db, "@alice", false)
	bob := seedUser(t, db, "@bob", true)

	_, err := service.Follow(ctx, alice.ID.String(), bob.ID.String())
	require.NoError(t, err)

	requests, err := service.GetRequests(ctx, bob.ID.String())
	require.NoError(t, err)
	require.Len(t, requests, 1)
	require.Equal(t, "@alice", requests[0].FromHandle)

	// Only the recipient may accept.
	err = service.AcceptRequest(ctx, alice.ID.String(), requests[0].ID)
	require.ErrorIs(t, err, domain.ErrNotRecipient)

	require.NoError(t, service.AcceptRequest(ctx, bob.ID.String(), requests[0].ID))

	var follows, pending int64
	require.NoError(t, db.Model(&entities.Follow{}).
		Where("follower_id = ? AND following_id = ?", alice.ID, bob.ID).
		Count(&follows).Error)
	require.NoError(t, db.Model(&entities.FollowRequest{}).Count(&pending).Error)
	require.EqualValues(t, 1, follows)
	require.Zero(t, pending)
}

func TestRejectRequest(t *testing.T) {
	service, db := newService(t)
	ctx := context.Background()

	alice := seedUser(t, db, "@alice", false)
	bob := seedUser(t, db, "@bob", true)

	_, err := service.Follow(ctx, alice.ID.String(), bob.ID.String())
	require.NoError(t, err)

	requests, err := service.GetRequests(ctx, bob.ID.String())
	require.NoError(t, err)
	require.NoError(t, service.RejectRequest(ctx, bob.ID.String(), requests[0].ID))

	var follows, pending int64
	require.NoError(t, db.Model(&entities.Follow{}).Count(&follows).Error)
	require.NoError(t, db.Model(&entities.FollowRequest{}).Count(&pending).Error)
	require.Zero(t, follows)
	require.Zero(t, pending)
}

func TestPromoteToPublicConvertsAllRequests(t *testing.T) {
	service, db := newService(t)
	ctx := context.Background()

	bob := seedUser(t, db, "@bob", true)
	alice := seedUser(t, db, "@alice", false)
	carol := seedUser(t, db, "@carol", false)

	for _, follower := range []*entities.User{alice, carol} {
		_, err := service.Follow(ctx, follower.ID.String(), bob.ID.String())
		require.NoError(t, err)
	}
	// A stray self-request must be discarded, not converted.
	require.NoError(t, db.Create(&entities.FollowRequest{
		ID:         uuid.New(),
		FromUserID: bob.ID,
		ToUserID:   bob.ID,
	}).Error)

	converted, err := service.PromoteToPublic(ctx, bob.ID.String())
	require.NoError(t, err)
	require.EqualValues(t, 2, converted)

	var pending, selfFollows, follows int64
	require.NoError(t, db.Model(&entities.FollowRequest{}).Where("to_user_id = ?", bob.ID).Count(&pending).Error)
	require.NoError(t, db.Model(&entities.Follow{}).
		Where("follower_id = ? AND following_id = ?", bob.ID, bob.ID).
		Count(&selfFollows).Error)
	require.NoError(t, db.Model(&entities.Follow{}).Where("following_id = ?", bob.ID).Count(&follows).Error)
	require.Zero(t, pending)
	require.Zero(t, selfFollows)
	require.EqualValues(t, 2, follows)
}

func TestUnfollowIsIdempotent(t *testing.T) {
	service, db := newService(t)
	ctx := context.Background()

	alice := seedUser(t, db, "@alice", false)
	bob := seedUser(t, db, "@bob", false)

	_, err := service.Follow(ctx, alice.ID.String(), bob.ID.String())
	require.NoError(t, err)

	require.NoError(t, service.Unfollow(ctx, alice.ID.String(), bob.ID.String()))
	require.NoError(t, service.Unfollow(ctx, alice.ID.String(), bob.ID.String()))
}

func TestCancelRequest(t *testing.T) {
	service, db := newService(t)
	ctx := context.Background()

	alice := seedUser(t, db, "@alice", false)
	bob := seedUser(t, db, "@bob", true)

	_, err := service.Follow(ctx, alice.ID.String(), bob.ID.String())
	require.NoError(t, err)

	require.NoError(t, service.CancelRequest(ctx, alice.ID.String(), bob.ID.String()))
	err = service.CancelRequest(ctx, alice.ID.String(), bob.ID.String())
	require.ErrorIs(t, err, domain.ErrRequestNotFound)
}
