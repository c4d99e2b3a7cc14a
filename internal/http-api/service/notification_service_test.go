package service

import (
	"context"
	"testing"

	"manahub/internal/http-api/models"

	"github.com/stretchr/testify/assert"
)

// fakeNotificationStore enforces the dedup index in memory: one row per
// (recipient, type, context type, context id).
type fakeNotificationStore struct {
	rows []models.Notification
}

func notificationKey(n *models.Notification) [4]any {
	return [4]any{n.UserID, n.Type, n.ContextType, n.ContextID}
}

func (f *fakeNotificationStore) exists(n *models.Notification) bool {
	key := notificationKey(n)
	for i := range f.rows {
		if notificationKey(&f.rows[i]) == key {
			return true
		}
	}
	return false
}

func (f *fakeNotificationStore) Create(ctx context.Context, notification *models.Notification) error {
	f.rows = append(f.rows, *notification)
	return nil
}

func (f *fakeNotificationStore) CreateSkipDuplicates(ctx context.Context, notifications []models.Notification) error {
	for i := range notifications {
		if f.exists(&notifications[i]) {
			continue
		}
		f.rows = append(f.rows, notifications[i])
	}
	return nil
}

func (f *fakeNotificationStore) GetByUser(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range f.rows {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeNotificationStore) GetUnreadByUser(ctx context.Context, userID string) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range f.rows {
		if n.UserID == userID && !n.Read {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNotificationStore) MarkAsRead(ctx context.Context, userID string, notificationID int64) (bool, error) {
	for i := range f.rows {
		if f.rows[i].ID == notificationID && f.rows[i].UserID == userID {
			f.rows[i].Read = true
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeNotificationStore) MarkAllAsRead(ctx context.Context, userID string) error {
	for i := range f.rows {
		if f.rows[i].UserID == userID {
			f.rows[i].Read = true
		}
	}
	return nil
}

func displayUser(id, name string) models.User {
	return models.User{ID: id, Username: id, DisplayName: &name}
}

func commentContext(id int64, slug string) NotificationContext {
	return NotificationContext{Type: models.ContextComment, ID: id, ArticleSlug: &slug}
}

func TestNotifyMentions_ResolvedHandles(t *testing.T) {
	store := &fakeNotificationStore{}
	mockUserRepo := new(MockUserRepository)
	notificationService := NewNotificationService(store, mockUserRepo)

	mockUserRepo.On("FindByDisplayNames", []string{"bob", "carol"}).
		Return([]models.User{displayUser("bob-id", "Bob"), displayUser("carol-id", "Carol")}, nil)

	count, err := notificationService.NotifyMentions(context.Background(),
		"great points @Bob and @Carol!",
		Actor{ID: "ana-id", Name: "Ana"},
		commentContext(7, "go-generics"))

	assert.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Len(t, store.rows, 2)
	assert.Equal(t, models.NotificationTypeMention, store.rows[0].Type)
	assert.Equal(t, "ana-id", store.rows[0].ActorID)
	assert.Equal(t, "Ana", store.rows[0].ActorName)
	assert.Equal(t, "go-generics", *store.rows[0].ArticleSlug)
	mockUserRepo.AssertExpectations(t)
}

func TestNotifyMentions_SelfMentionSuppressed(t *testing.T) {
	store := &fakeNotificationStore{}
	mockUserRepo := new(MockUserRepository)
	notificationService := NewNotificationService(store, mockUserRepo)

	mockUserRepo.On("FindByDisplayNames", []string{"ana"}).
		Return([]models.User{displayUser("ana-id", "Ana")}, nil)

	count, err := notificationService.NotifyMentions(context.Background(),
		"note to self: @ana fix this",
		Actor{ID: "ana-id", Name: "Ana"},
		commentContext(7, "go-generics"))

	assert.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Empty(t, store.rows)
}

func TestNotifyMentions_RepeatedHandleNotifiesOnce(t *testing.T) {
	store := &fakeNotificationStore{}
	mockUserRepo := new(MockUserRepository)
	notificationService := NewNotificationService(store, mockUserRepo)

	mockUserRepo.On("FindByDisplayNames", []string{"bob"}).
		Return([]models.User{displayUser("bob-id", "Bob")}, nil)

	count, err := notificationService.NotifyMentions(context.Background(),
		"@bob @Bob @BOB",
		Actor{ID: "ana-id", Name: "Ana"},
		commentContext(7, "go-generics"))

	assert.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Len(t, store.rows, 1)
}

func TestNotifyMentions_NoHandlesSkipsLookup(t *testing.T) {
	store := &fakeNotificationStore{}
	mockUserRepo := new(MockUserRepository)
	notificationService := NewNotificationService(store, mockUserRepo)

	count, err := notificationService.NotifyMentions(context.Background(),
		"no handles here",
		Actor{ID: "ana-id", Name: "Ana"},
		commentContext(7, "go-generics"))

	assert.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Empty(t, store.rows)
	mockUserRepo.AssertNotCalled(t, "FindByDisplayNames")
}

func TestNotifyMentions_ReEmitCannotDoubleNotify(t *testing.T) {
	store := &fakeNotificationStore{}
	mockUserRepo := new(MockUserRepository)
	notificationService := NewNotificationService(store, mockUserRepo)

	mockUserRepo.On("FindByDisplayNames", []string{"bob"}).
		Return([]models.User{displayUser("bob-id", "Bob")}, nil)

	ctx := context.Background()
	actor := Actor{ID: "ana-id", Name: "Ana"}
	nctx := commentContext(7, "go-generics")

	// Same content emitted twice, e.g. after an edit that keeps the mention.
	_, err := notificationService.NotifyMentions(ctx, "hi @bob", actor, nctx)
	assert.NoError(t, err)
	_, err = notificationService.NotifyMentions(ctx, "hi again @bob", actor, nctx)
	assert.NoError(t, err)

	assert.Len(t, store.rows, 1)
}

func TestNotifyMentions_UnresolvedHandlesDropped(t *testing.T) {
	store := &fakeNotificationStore{}
	mockUserRepo := new(MockUserRepository)
	notificationService := NewNotificationService(store, mockUserRepo)

	// Only one of the two handles matches an account.
	mockUserRepo.On("FindByDisplayNames", []string{"bob", "nobody"}).
		Return([]models.User{displayUser("bob-id", "Bob")}, nil)

	count, err := notificationService.NotifyMentions(context.Background(),
		"@bob and @nobody",
		Actor{ID: "ana-id", Name: "Ana"},
		commentContext(7, "go-generics"))

	assert.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Len(t, store.rows, 1)
	assert.Equal(t, "bob-id", store.rows[0].UserID)
}

func TestNotifyReply(t *testing.T) {
	store := &fakeNotificationStore{}
	notificationService := NewNotificationService(store, new(MockUserRepository))

	topicID := int64(12)
	err := notificationService.NotifyReply(context.Background(), "owner-id",
		Actor{ID: "ana-id", Name: "Ana"},
		NotificationContext{Type: models.ContextForumReply, ID: 55, TopicID: &topicID})

	assert.NoError(t, err)
	assert.Len(t, store.rows, 1)
	assert.Equal(t, "owner-id", store.rows[0].UserID)
	assert.Equal(t, models.NotificationTypeReply, store.rows[0].Type)
	assert.Equal(t, int64(12), *store.rows[0].TopicID)
}

func TestNotifyReply_SelfReplySuppressed(t *testing.T) {
	store := &fakeNotificationStore{}
	notificationService := NewNotificationService(store, new(MockUserRepository))

	err := notificationService.NotifyReply(context.Background(), "ana-id",
		Actor{ID: "ana-id", Name: "Ana"},
		NotificationContext{Type: models.ContextForumReply, ID: 55})

	assert.NoError(t, err)
	assert.Empty(t, store.rows)
}

func TestMarkAsRead_OtherUsersNotification(t *testing.T) {
	store := &fakeNotificationStore{rows: []models.Notification{
		{ID: 1, UserID: "bob-id", Type: models.NotificationTypeMention},
	}}
	notificationService := NewNotificationService(store, new(MockUserRepository))

	err := notificationService.MarkAsRead(context.Background(), "ana-id", 1)

	assert.Error(t, err)
	assert.Equal(t, ErrNotificationNotFound, err)
	assert.False(t, store.rows[0].Read)
}

func TestMarkAllAsRead(t *testing.T) {
	store := &fakeNotificationStore{rows: []models.Notification{
		{ID: 1, UserID: "ana-id", Type: models.NotificationTypeMention},
		{ID: 2, UserID: "ana-id", Type: models.NotificationTypeReply},
		{ID: 3, UserID: "bob-id", Type: models.NotificationTypeMention},
	}}
	notificationService := NewNotificationService(store, new(MockUserRepository))

	err := notificationService.MarkAllAsRead(context.Background(), "ana-id")
	assert.NoError(t, err)

	unread, err := notificationService.GetUnread(context.Background(), "ana-id")
	assert.NoError(t, err)
	assert.Empty(t, unread)
	assert.False(t, store.rows[2].Read)
}
