package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hudumahub/hudumahub/internal/database/testutil"
	"github.com/hudumahub/hudumahub/internal/models"
	apperrors "github.com/hudumahub/hudumahub/pkg/errors"
)

func TestUserRegisterAndAuthenticate(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	users, err := NewUserService(db)
	require.NoError(t, err)

	user, err := users.Register(context.Background(), RegisterInput{
		Username: "wanjiku",
		Email:    "Wanjiku@Example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	require.Equal(t, models.RoleClient, user.Role)
	require.Equal(t, "wanjiku@example.com", user.Email)
	require.NotEqual(t, "correct horse", user.Password)

	// Duplicate username conflicts.
	_, err = users.Register(context.Background(), RegisterInput{
		Username: "wanjiku",
		Email:    "other@example.com",
		Password: "another pass",
	})
	require.ErrorIs(t, err, apperrors.ErrConflict)

	// Admin roles cannot be self-assigned.
	_, err = users.Register(context.Background(), RegisterInput{
		Username: "sneaky",
		Email:    "sneaky@example.com",
		Password: "password1",
		Role:     models.RoleAdmin,
	})
	require.Error(t, err)

	authed, err := users.Authenticate(context.Background(), "wanjiku", "correct horse")
	require.NoError(t, err)
	require.Equal(t, user.ID, authed.ID)

	// Email works as the identifier too.
	_, err = users.Authenticate(context.Background(), "wanjiku@example.com", "correct horse")
	require.NoError(t, err)

	_, err = users.Authenticate(context.Background(), "wanjiku", "wrong")
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	require.NoError(t, users.SetActive(context.Background(), user.ID, false))
	_, err = users.Authenticate(context.Background(), "wanjiku", "correct horse")
	require.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestProviderProfileLifecycle(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	providers, err := NewProviderService(db)
	require.NoError(t, err)

	owner := createTestUser(t, db, "fundi", models.RoleProvider)
	stranger := createTestUser(t, db, "stranger", models.RoleClient)

	name := "Fundi Electricals"
	lat, lng := -1.28, 36.82
	profile, err := providers.CreateProfile(context.Background(), owner.ID, ProfileInput{
		BusinessName: &name,
		Latitude:     &lat,
		Longitude:    &lng,
	})
	require.NoError(t, err)
	require.True(t, profile.HasCoordinate())
	require.Equal(t, models.TierFree, profile.MembershipTier)

	// One profile per user.
	_, err = providers.CreateProfile(context.Background(), owner.ID, ProfileInput{})
	require.ErrorIs(t, err, apperrors.ErrConflict)

	// Latitude without longitude is rejected.
	badLat := 1.0
	_, err = providers.CreateProfile(context.Background(), stranger.ID, ProfileInput{Latitude: &badLat})
	require.Error(t, err)

	// Only the owner edits.
	newName := "Fundi Electrical Works"
	_, err = providers.UpdateProfile(context.Background(), stranger.ID, profile.ID, ProfileInput{BusinessName: &newName})
	require.ErrorIs(t, err, apperrors.ErrForbidden)

	updated, err := providers.UpdateProfile(context.Background(), owner.ID, profile.ID, ProfileInput{BusinessName: &newName})
	require.NoError(t, err)
	require.Equal(t, newName, updated.BusinessName)

	media, err := providers.AddMedia(context.Background(), owner.ID, profile.ID, models.MediaImage, "https://cdn.example.com/1.jpg", "workshop")
	require.NoError(t, err)

	_, err = providers.AddMedia(context.Background(), stranger.ID, profile.ID, models.MediaImage, "https://cdn.example.com/2.jpg", "")
	require.ErrorIs(t, err, apperrors.ErrForbidden)

	require.ErrorIs(t, providers.RemoveMedia(context.Background(), stranger.ID, media.ID), apperrors.ErrForbidden)
	require.NoError(t, providers.RemoveMedia(context.Background(), owner.ID, media.ID))

	require.NoError(t, providers.SetVerified(context.Background(), profile.ID, true))
	require.NoError(t, providers.SetMembershipTier(context.Background(), profile.ID, models.TierPremium))
	require.Error(t, providers.SetMembershipTier(context.Background(), profile.ID, "platinum"))
}

func TestReviewLifecycle(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	reviews, err := NewReviewService(db)
	require.NoError(t, err)

	client := createTestUser(t, db, "client", models.RoleClient)
	providerUser, profile := createTestProvider(t, db, "fundi")

	_, err = reviews.Create(context.Background(), client.ID, profile.ID, 6, "too good")
	require.Error(t, err)
	_, err = reviews.Create(context.Background(), client.ID, profile.ID, 0, "too bad")
	require.Error(t, err)
	_, err = reviews.Create(context.Background(), providerUser.ID, profile.ID, 5, "self praise")
	require.Error(t, err)

	review, err := reviews.Create(context.Background(), client.ID, profile.ID, 4, "solid work")
	require.NoError(t, err)
	require.False(t, review.IsApproved)

	// Unapproved reviews stay hidden from the public listing.
	public, err := reviews.ListForProvider(context.Background(), profile.ID, false)
	require.NoError(t, err)
	require.Empty(t, public)

	require.NoError(t, reviews.SetApproved(context.Background(), review.ID, true))
	public, err = reviews.ListForProvider(context.Background(), profile.ID, false)
	require.NoError(t, err)
	require.Len(t, public, 1)

	// Author edits send the review back through moderation.
	_, err = reviews.Update(context.Background(), providerUser.ID, review.ID, 3, "tampering")
	require.ErrorIs(t, err, apperrors.ErrForbidden)

	updated, err := reviews.Update(context.Background(), client.ID, review.ID, 5, "even better on a second look")
	require.NoError(t, err)
	require.Equal(t, 5, updated.Rating)
	require.False(t, updated.IsApproved)

	require.NoError(t, reviews.SetApproved(context.Background(), review.ID, true))

	// Only the reviewed provider's owner may respond.
	_, err = reviews.Respond(context.Background(), client.ID, review.ID, "thanks")
	require.ErrorIs(t, err, apperrors.ErrForbidden)

	responded, err := reviews.Respond(context.Background(), providerUser.ID, review.ID, "thank you")
	require.NoError(t, err)
	require.Equal(t, "thank you", responded.ProviderResponse)

	require.NoError(t, reviews.Vote(context.Background(), review.ID, true))
	require.NoError(t, reviews.Vote(context.Background(), review.ID, true))
	require.NoError(t, reviews.Vote(context.Background(), review.ID, false))

	var stored models.Review
	require.NoError(t, db.First(&stored, "id = ?", review.ID).Error)
	require.Equal(t, 2, stored.Upvotes)
	require.Equal(t, 1, stored.Downvotes)

	// A bystander cannot delete; the author can.
	bystander := createTestUser(t, db, "bystander", models.RoleClient)
	require.ErrorIs(t, reviews.Delete(context.Background(), bystander.ID, models.RoleClient, review.ID), apperrors.ErrForbidden)
	require.NoError(t, reviews.Delete(context.Background(), client.ID, models.RoleClient, review.ID))
}

func TestSectorTaxonomy(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	sectors, err := NewSectorService(db)
	require.NoError(t, err)

	plumbing, err := sectors.Create(context.Background(), SectorInput{Name: "Plumbing"})
	require.NoError(t, err)

	_, err = sectors.Create(context.Background(), SectorInput{Name: "Plumbing"})
	require.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = sectors.AddSubcategory(context.Background(), plumbing.ID, SectorInput{Name: "Drainage"})
	require.NoError(t, err)
	_, err = sectors.AddSubcategory(context.Background(), plumbing.ID, SectorInput{Name: "Drainage"})
	require.ErrorIs(t, err, apperrors.ErrConflict)

	created, err := sectors.BulkCreate(context.Background(), []SeedSector{
		{Name: "Catering", Subcategories: []string{"Weddings", "Corporate"}},
		{Name: "Plumbing"}, // already exists, skipped
	})
	require.NoError(t, err)
	require.Equal(t, 1, created)

	all, err := sectors.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)

	require.NoError(t, sectors.Delete(context.Background(), plumbing.ID))
	var subCount int64
	require.NoError(t, db.Model(&models.Subcategory{}).
		Where("sector_id = ?", plumbing.ID).Count(&subCount).Error)
	require.Zero(t, subCount)
}

func TestBookingLifecycle(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	bookings, err := NewBookingService(db)
	require.NoError(t, err)

	client := createTestUser(t, db, "client", models.RoleClient)
	providerUser, profile := createTestProvider(t, db, "fundi")

	_, err = bookings.Create(context.Background(), client.ID, profile.ID, time.Now().Add(-time.Hour))
	require.Error(t, err)

	booking, err := bookings.Create(context.Background(), client.ID, profile.ID, time.Now().Add(48*time.Hour))
	require.NoError(t, err)
	require.Equal(t, models.BookingPending, booking.Status)

	// Client cannot confirm, only cancel.
	_, err = bookings.UpdateStatus(context.Background(), client.ID, booking.ID, models.BookingConfirmed)
	require.ErrorIs(t, err, apperrors.ErrForbidden)

	confirmed, err := bookings.UpdateStatus(context.Background(), providerUser.ID, booking.ID, models.BookingConfirmed)
	require.NoError(t, err)
	require.Equal(t, models.BookingConfirmed, confirmed.Status)

	cancelled, err := bookings.UpdateStatus(context.Background(), client.ID, booking.ID, models.BookingCancelled)
	require.NoError(t, err)
	require.Equal(t, models.BookingCancelled, cancelled.Status)

	// Cancelled is terminal.
	_, err = bookings.UpdateStatus(context.Background(), providerUser.ID, booking.ID, models.BookingConfirmed)
	require.Error(t, err)
}

func TestFavoriteUniquePair(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	favorites, err := NewFavoriteService(db)
	require.NoError(t, err)

	client := createTestUser(t, db, "client", models.RoleClient)
	_, profile := createTestProvider(t, db, "fundi")

	_, err = favorites.Add(context.Background(), client.ID, profile.ID)
	require.NoError(t, err)

	_, err = favorites.Add(context.Background(), client.ID, profile.ID)
	require.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = favorites.Add(context.Background(), client.ID, "no-such-provider")
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	mine, err := favorites.List(context.Background(), client.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	require.NoError(t, favorites.Remove(context.Background(), client.ID, profile.ID))
	require.ErrorIs(t, favorites.Remove(context.Background(), client.ID, profile.ID), apperrors.ErrNotFound)
}

func TestReportResolution(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	reports, err := NewReportService(db)
	require.NoError(t, err)

	client := createTestUser(t, db, "client", models.RoleClient)
	_, profile := createTestProvider(t, db, "fundi")

	_, err = reports.Create(context.Background(), client.ID, profile.ID, "   ")
	require.Error(t, err)

	report, err := reports.Create(context.Background(), client.ID, profile.ID, "no-show twice")
	require.NoError(t, err)
	require.False(t, report.IsResolved)

	open, err := reports.ListOpen(context.Background())
	require.NoError(t, err)
	require.Len(t, open, 1)

	require.NoError(t, reports.Resolve(context.Background(), report.ID))
	open, err = reports.ListOpen(context.Background())
	require.NoError(t, err)
	require.Empty(t, open)

	require.ErrorIs(t, reports.Resolve(context.Background(), "missing"), apperrors.ErrNotFound)
}
