package store

import (
	"errors"
	"testing"
	"time"

	"marketplace-service/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// Single connection so the in-memory database survives pooling
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Influencer{}, &model.Campaign{}, &model.Follower{}))

	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func createUser(t *testing.T, db *gorm.DB, name, email string) *model.User {
	t.Helper()
	user := &model.User{FullName: name, Email: email, Password: "x"}
	require.NoError(t, CreateUser(db, user))
	return user
}

func createInfluencer(t *testing.T, db *gorm.DB, ownerID uint, name string, followers int) *model.Influencer {
	t.Helper()
	inf := &model.Influencer{UserID: &ownerID, Name: name, Followers: followers}
	require.NoError(t, CreateInfluencer(db, inf))
	return inf
}

func followerCount(t *testing.T, db *gorm.DB, influencerID uint) int {
	t.Helper()
	inf, err := InfluencerByID(db, influencerID)
	require.NoError(t, err)
	return inf.Followers
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	createUser(t, db, "Alice", "alice@example.com")

	err := CreateUser(db, &model.User{FullName: "Imposter", Email: "alice@example.com", Password: "y"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	var count int64
	require.NoError(t, db.Model(&model.User{}).Where("email = ?", "alice@example.com").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestFollowUnfollowRoundTrip(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "Alice", "alice@example.com")
	fan := createUser(t, db, "Bob", "bob@example.com")
	jane := createInfluencer(t, db, owner.ID, "Jane", 0)

	require.NoError(t, FollowInfluencer(db, fan.ID, jane.ID))
	assert.Equal(t, 1, followerCount(t, db, jane.ID))

	ids, err := FollowedInfluencerIDs(db, fan.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{jane.ID}, ids)

	require.NoError(t, UnfollowInfluencer(db, fan.ID, jane.ID))
	assert.Equal(t, 0, followerCount(t, db, jane.ID))

	ids, err = FollowedInfluencerIDs(db, fan.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestFollowDuplicateDoesNotDoubleIncrement(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "Alice", "alice@example.com")
	fan := createUser(t, db, "Bob", "bob@example.com")
	jane := createInfluencer(t, db, owner.ID, "Jane", 0)

	require.NoError(t, FollowInfluencer(db, fan.ID, jane.ID))
	err := FollowInfluencer(db, fan.ID, jane.ID)
	assert.ErrorIs(t, err, ErrAlreadyFollowing)
	assert.Equal(t, 1, followerCount(t, db, jane.ID))
}

func TestFollowConcurrentDuplicateHitsUniqueIndex(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "Alice", "alice@example.com")
	fan := createUser(t, db, "Bob", "bob@example.com")
	jane := createInfluencer(t, db, owner.ID, "Jane", 0)

	// Insert the conflicting row after the existence check has already
	// passed, as a concurrent follow of the same pair would
	var raced bool
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("race_follow", func(d *gorm.DB) {
		if d.Statement.Table == "followers" && !raced {
			raced = true
			d.AddError(d.Session(&gorm.Session{NewDB: true}).Exec(
				"INSERT INTO followers (user_id, influencer_id, created_at) VALUES (?, ?, ?)",
				fan.ID, jane.ID, time.Now()).Error)
		}
	}))
	t.Cleanup(func() { db.Callback().Create().Remove("race_follow") })

	err := FollowInfluencer(db, fan.ID, jane.ID)
	assert.ErrorIs(t, err, ErrAlreadyFollowing)
}

func TestFollowSelfRejected(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "Alice", "alice@example.com")
	jane := createInfluencer(t, db, owner.ID, "Jane", 0)

	err := FollowInfluencer(db, owner.ID, jane.ID)
	assert.ErrorIs(t, err, ErrSelfFollow)
	assert.Equal(t, 0, followerCount(t, db, jane.ID))
}

func TestFollowMissingInfluencer(t *testing.T) {
	db := newTestDB(t)
	fan := createUser(t, db, "Bob", "bob@example.com")

	err := FollowInfluencer(db, fan.ID, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUnfollowNotFollowing(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "Alice", "alice@example.com")
	fan := createUser(t, db, "Bob", "bob@example.com")
	jane := createInfluencer(t, db, owner.ID, "Jane", 3)

	err := UnfollowInfluencer(db, fan.ID, jane.ID)
	assert.ErrorIs(t, err, ErrNotFollowing)
	assert.Equal(t, 3, followerCount(t, db, jane.ID))
}

func TestUnfollowCounterFlooredAtZero(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "Alice", "alice@example.com")
	fan := createUser(t, db, "Bob", "bob@example.com")
	jane := createInfluencer(t, db, owner.ID, "Jane", 0)

	// A relationship row exists but the counter already reads zero,
	// as after a concurrent double-unfollow race.
	require.NoError(t, db.Create(&model.Follower{UserID: fan.ID, InfluencerID: jane.ID}).Error)

	require.NoError(t, UnfollowInfluencer(db, fan.ID, jane.ID))
	assert.Equal(t, 0, followerCount(t, db, jane.ID))
}

func TestFollowRollsBackOnCounterFailure(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "Alice", "alice@example.com")
	fan := createUser(t, db, "Bob", "bob@example.com")
	jane := createInfluencer(t, db, owner.ID, "Jane", 0)

	// Fail the counter update after the relationship insert succeeded
	failCounter := errors.New("counter update failed")
	require.NoError(t, db.Callback().Update().Before("gorm:update").Register("fail_counter", func(d *gorm.DB) {
		if d.Statement.Table == "influencers" {
			d.AddError(failCounter)
		}
	}))
	t.Cleanup(func() { db.Callback().Update().Remove("fail_counter") })

	err := FollowInfluencer(db, fan.ID, jane.ID)
	assert.ErrorIs(t, err, failCounter)

	// The relationship insert must have been rolled back with it
	var count int64
	require.NoError(t, db.Model(&model.Follower{}).Where("user_id = ?", fan.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestListInfluencersNewestFirst(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "Alice", "alice@example.com")
	first := createInfluencer(t, db, owner.ID, "First", 0)
	second := createInfluencer(t, db, owner.ID, "Second", 0)

	influencers, err := ListInfluencers(db)
	require.NoError(t, err)
	require.Len(t, influencers, 2)
	assert.Equal(t, second.ID, influencers[0].ID)
	assert.Equal(t, first.ID, influencers[1].ID)
}

func TestUpdateInfluencerOwnership(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "Alice", "alice@example.com")
	other := createUser(t, db, "Bob", "bob@example.com")
	jane := createInfluencer(t, db, owner.ID, "Jane", 0)

	in := model.Influencer{Name: "Jane Updated", Niche: "tech"}

	err := UpdateInfluencer(db, jane.ID, other.ID, false, &in)
	assert.ErrorIs(t, err, ErrForbidden)

	got, err := InfluencerByID(db, jane.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane", got.Name)

	require.NoError(t, UpdateInfluencer(db, jane.ID, owner.ID, false, &in))
	got, err = InfluencerByID(db, jane.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Updated", got.Name)

	err = UpdateInfluencer(db, 9999, owner.ID, false, &in)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateInfluencerFullReplaceNullsOmittedFields(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "Alice", "alice@example.com")
	bio := "the original bio"
	link := "https://social.example/jane"
	price := "$100"
	inf := &model.Influencer{
		UserID:     &owner.ID,
		Name:       "Jane",
		Bio:        bio,
		SocialLink: &link,
		PricePost:  &price,
	}
	require.NoError(t, CreateInfluencer(db, inf))

	// Update without the optional fields: they must become NULL, not
	// keep their previous values.
	require.NoError(t, UpdateInfluencer(db, inf.ID, owner.ID, false, &model.Influencer{Name: "Jane"}))

	got, err := InfluencerByID(db, inf.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane", got.Name)
	assert.Empty(t, got.Bio)
	assert.Nil(t, got.SocialLink)
	assert.Nil(t, got.PricePost)
}

func TestUpdateInfluencerAdminBypass(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "Alice", "alice@example.com")
	admin := createUser(t, db, "Admin", "admin@marketplace.local")
	jane := createInfluencer(t, db, owner.ID, "Jane", 0)

	in := model.Influencer{Name: "Curated"}
	require.NoError(t, UpdateInfluencer(db, jane.ID, admin.ID, true, &in))

	got, err := InfluencerByID(db, jane.ID)
	require.NoError(t, err)
	assert.Equal(t, "Curated", got.Name)
}

func TestDeleteInfluencerRemovesFollowRows(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "Alice", "alice@example.com")
	fan := createUser(t, db, "Bob", "bob@example.com")
	jane := createInfluencer(t, db, owner.ID, "Jane", 0)
	require.NoError(t, FollowInfluencer(db, fan.ID, jane.ID))

	require.NoError(t, DeleteInfluencer(db, jane.ID, owner.ID, false))

	_, err := InfluencerByID(db, jane.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var count int64
	require.NoError(t, db.Model(&model.Follower{}).Where("influencer_id = ?", jane.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestCampaignOwnership(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "Alice", "alice@example.com")
	other := createUser(t, db, "Bob", "bob@example.com")

	campaign := &model.Campaign{UserID: owner.ID, Title: "Spring Launch", Budget: 500}
	require.NoError(t, CreateCampaign(db, campaign))

	in := model.Campaign{Title: "Hijacked", Budget: 1}
	err := UpdateCampaign(db, campaign.ID, other.ID, false, &in)
	assert.ErrorIs(t, err, ErrForbidden)

	got, err := CampaignByID(db, campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, "Spring Launch", got.Title)
	assert.Equal(t, float64(500), got.Budget)

	err = DeleteCampaign(db, campaign.ID, other.ID, false)
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, DeleteCampaign(db, campaign.ID, other.ID, true))
	_, err = CampaignByID(db, campaign.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEnsureInfluencerOwnersBackfillsSentinel(t *testing.T) {
	db := newTestDB(t)

	orphan := &model.Influencer{Name: "Orphan"}
	require.NoError(t, CreateInfluencer(db, orphan))

	require.NoError(t, EnsureInfluencerOwners(db))

	sentinel, err := UserByEmail(db, model.DeletedUserEmail)
	require.NoError(t, err)

	got, err := InfluencerByID(db, orphan.ID)
	require.NoError(t, err)
	require.NotNil(t, got.UserID)
	assert.Equal(t, sentinel.ID, *got.UserID)

	// Idempotent: a second run creates no second sentinel
	require.NoError(t, EnsureInfluencerOwners(db))
	var count int64
	require.NoError(t, db.Model(&model.User{}).Where("email = ?", model.DeletedUserEmail).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
