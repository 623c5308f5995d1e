package comment

import (
	"context"
	"testing"

	"tastebook/domain"
	"tastebook/entities"
	"tastebook/pkg/notification"
	"tastebook/pkg/recipe"
	"tastebook/pkg/user"

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
		&entities.Recipe{},
		&entities.Comment{},
		&entities.Notification{},
	))
	return db
}

func newService(t *testing.T) (CommentService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	notificationService := notification.NewNotificationService(notification.NewNotificationRepository(db))
	service := NewCommentService(NewCommentRepository(db), recipe.NewRecipeRepository(db), user.NewUserRepository(db), notificationService)
	return service, db
}

func seedUser(t *testing.T, db *gorm.DB, handle string, staff bool) *entities.User {
	t.Helper()
	u := &entities.User{
		ID:       uuid.New(),
		Handle:   handle,
		Email:    handle[1:] + "@example.com",
		Password: "irrelevant",
		IsStaff:  staff,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedRecipe(t *testing.T, db *gorm.DB, author *entities.User) *entities.Recipe {
	t.Helper()
	r := &entities.Recipe{
		ID:          uuid.New(),
		AuthorID:    author.ID,
		Title:       "Pancakes",
		TimeMinutes: 30,
	}
	require.NoError(t, db.Create(r).Error)
	return r
}

func TestAddCommentEmptyAfterSanitize(t *testing.T) {
	service, db := newService(t)

	author := seedUser(t, db, "@author", false)
	commenter := seedUser(t, db, "@commenter", false)
	target := seedRecipe(t, db, author)

	for _, text := range []string{"", "   ", "<b></b>"} {
		_, err := service.AddComment(context.Background(), commenter.ID.String(),
			domain.AddCommentRequest{RecipeID: target.ID.String(), Text: text})
		require.ErrorIs(t, err, domain.ErrEmptyComment)
	}
}

func TestAddCommentStripsMarkup(t *testing.T) {
	service, db := newService(t)

	author := seedUser(t, db, "@author", false)
	commenter := seedUser(t, db, "@commenter", false)
	target := seedRecipe(t, db, author)

	res, err := service.AddComment(context.Background(), commenter.ID.String(),
		domain.AddCommentRequest{RecipeID: target.ID.String(), Text: "<b>Great</b> recipe"})
	require.NoError(t, err)
	require.Equal(t, "Great recipe", res.Text)
}

func TestAddCommentNotifiesAuthorOnce(t *testing.T) {
	service, db := newService(t)
	ctx := context.Background()

	author := seedUser(t, db, "@author", false)
	commenter := seedUser(t, db, "@commenter", false)
	target := seedRecipe(t, db, author)

	_, err := service.AddComment(ctx, commenter.ID.String(),
		domain.AddCommentRequest{RecipeID: target.ID.String(), Text: "Tasty"})
	require.NoError(t, err)

	// Commenting on your own recipe stays silent.
	_, err = service.AddComment(ctx, author.ID.String(),
		domain.AddCommentRequest{RecipeID: target.ID.String(), Text: "Thanks!"})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&entities.Notification{}).
		Where("recipient_id = ? AND type = ?", author.ID, domain.NotificationCommentReply).
		Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestReplyParentMismatch(t *testing.T) {
	service, db := newService(t)
	ctx := context.Background()

	author := seedUser(t, db, "@author", false)
	commenter := seedUser(t, db, "@commenter", false)
	first := seedRecipe(t, db, author)
	second := seedRecipe(t, db, author)

	root, err := service.AddComment(ctx, commenter.ID.String(),
		domain.AddCommentRequest{RecipeID: first.ID.String(), Text: "On the first"})
	require.NoError(t, err)

	_, err = service.AddComment(ctx, commenter.ID.String(),
		domain.AddCommentRequest{RecipeID: second.ID.String(), Text: "Wrong thread", ParentID: root.ID})
	require.ErrorIs(t, err, domain.ErrParentMismatch)
}

func TestCommentTreeOrderAndDepth(t *testing.T) {
	service, db := newService(t)
	ctx := context.Background()

	author := seedUser(t, db, "@author", false)
	commenter := seedUser(t, db, "@commenter", false)
	target := seedRecipe(t, db, author)

	first, err := service.AddComment(ctx, commenter.ID.String(),
		domain.AddCommentRequest{RecipeID: target.ID.String(), Text: "First"})
	require.NoError(t, err)
	_, err = service.AddComment(ctx, author.ID.String(),
		domain.AddCommentRequest{RecipeID: target.ID.String(), Text: "Reply", ParentID: first.ID})
	require.NoError(t, err)
	_, err = service.AddComment(ctx, commenter.ID.String(),
		domain.AddCommentRequest{RecipeID: target.ID.String(), Text: "Second"})
	require.NoError(t, err)

	tree, err := service.GetComments(ctx, target.ID.String(), recipe.ViewerFromID(commenter.ID, false))
	require.NoError(t, err)
	require.Len(t, tree, 2)
	require.Equal(t, "First", tree[0].Text)
	require.Equal(t, "Second", tree[1].Text)
	require.Zero(t, tree[0].Depth)
	require.Len(t, tree[0].Replies, 1)
	require.Equal(t, "Reply", tree[0].Replies[0].Text)
	require.Equal(t, 1, tree[0].Replies[0].Depth)
}

func TestAddCommentReplyDepthFollowsChain(t *testing.T) {
	service, db := newService(t)
	ctx := context.Background()

	author := seedUser(t, db, "@author", false)
	commenter := seedUser(t, db, "@commenter", false)
	target := seedRecipe(t, db, author)

	root, err := service.AddComment(ctx, commenter.ID.String(),
		domain.AddCommentRequest{RecipeID: target.ID.String(), Text: "Root"})
	require.NoError(t, err)
	require.Zero(t, root.Depth)

	reply, err := service.AddComment(ctx, author.ID.String(),
		domain.AddCommentRequest{RecipeID: target.ID.String(), Text: "Reply", ParentID: root.ID})
	require.NoError(t, err)
	require.Equal(t, 1, reply.Depth)

	// A reply to a reply reports the same depth the tree read computes.
	nested, err := service.AddComment(ctx, commenter.ID.String(),
		domain.AddCommentRequest{RecipeID: target.ID.String(), Text: "Nested", ParentID: reply.ID})
	require.NoError(t, err)
	require.Equal(t, 2, nested.Depth)

	tree, err := service.GetComments(ctx, target.ID.String(), recipe.ViewerFromID(commenter.ID, false))
	require.NoError(t, err)
	require.Equal(t, 2, tree[0].Replies[0].Replies[0].Depth)
}

func TestHiddenCommentMasking(t *testing.T) {
	service, db := newService(t)
	ctx := context.Background()

	author := seedUser(t, db, "@author", false)
	commenter := seedUser(t, db, "@commenter", false)
	staff := seedUser(t, db, "@staff", true)
	target := seedRecipe(t, db, author)

	posted, err := service.AddComment(ctx, commenter.ID.String(),
		domain.AddCommentRequest{RecipeID: target.ID.String(), Text: "Rude remark"})
	require.NoError(t, err)
	require.NoError(t, db.Model(&entities.Comment{}).
		Where("id = ?", posted.ID).
		Update("is_hidden", true).Error)

	// Everyone else sees the placeholder in place.
	tree, err := service.GetComments(ctx, target.ID.String(), recipe.ViewerFromID(author.ID, false))
	require.NoError(t, err)
	require.Len(t, tree, 1)
	require.Equal(t, domain.HiddenCommentPlaceholder, tree[0].Text)

	// The comment author and staff still see the text.
	tree, err = service.GetComments(ctx, target.ID.String(), recipe.ViewerFromID(commenter.ID, false))
	require.NoError(t, err)
	require.Equal(t, "Rude remark", tree[0].Text)

	tree, err = service.GetComments(ctx, target.ID.String(), recipe.ViewerFromID(staff.ID, true))
	require.NoError(t, err)
	require.Equal(t, "Rude remark", tree[0].Text)
}

func TestDeleteCommentCascadesToReplies(t *testing.T) {
	service, db := newService(t)
	ctx := context.Background()

	author := seedUser(t, db, "@author", false)
	commenter := seedUser(t, db, "@commenter", false)
	other := seedUser(t, db, "@other", false)
	target := seedRecipe(t, db, author)

	root, err := service.AddComment(ctx, commenter.ID.String(),
		domain.AddCommentRequest{RecipeID: target.ID.String(), Text: "Root"})
	require.NoError(t, err)
	reply, err := service.AddComment(ctx, other.ID.String(),
		domain.AddCommentRequest{RecipeID: target.ID.String(), Text: "Reply", ParentID: root.ID})
	require.NoError(t, err)
	_, err = service.AddComment(ctx, commenter.ID.String(),
		domain.AddCommentRequest{RecipeID: target.ID.String(), Text: "Nested", ParentID: reply.ID})
	require.NoError(t, err)

	// Neither a stranger nor the reply author may delete the root.
	err = service.DeleteComment(ctx, other.ID.String(), root.ID, false)
	require.ErrorIs(t, err, domain.ErrUserNotAllowed)

	require.NoError(t, service.DeleteComment(ctx, commenter.ID.String(), root.ID, false))

	var remaining int64
	require.NoError(t, db.Model(&entities.Comment{}).Count(&remaining).Error)
	require.Zero(t, remaining)
}

func TestDeleteCommentByStaff(t *testing.T) {
	service, db := newService(t)
	ctx := context.Background()

	author := seedUser(t, db, "@author", false)
	commenter := seedUser(t, db, "@commenter", false)
	staff := seedUser(t, db, "@staff", true)
	target := seedRecipe(t, db, author)

	posted, err := service.AddComment(ctx, commenter.ID.String(),
		domain.AddCommentRequest{RecipeID: target.ID.String(), Text: "Spam"})
	require.NoError(t, err)

	require.NoError(t, service.DeleteComment(ctx, staff.ID.String(), posted.ID, true))

	err = service.DeleteComment(ctx, staff.ID.String(), posted.ID, true)
	require.ErrorIs(t, err, domain.ErrCommentNotFound)
}
