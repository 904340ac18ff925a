package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hk-arcade-map/api-go/models"
	"github.com/hk-arcade-map/api-go/testutil"
	"github.com/hk-arcade-map/api-go/types"
	"gorm.io/gorm"
)

func setup(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := testutil.NewSQLite(t)
	return New(db, NewViewDeduper(nil, 0)), db
}

func reloadVenue(t *testing.T, db *gorm.DB, id uint) models.Venue {
	t.Helper()
	var v models.Venue
	if err := db.First(&v, id).Error; err != nil {
		t.Fatalf("reload venue: %v", err)
	}
	return v
}

func reloadUser(t *testing.T, db *gorm.DB, id uint) models.User {
	t.Helper()
	var u models.User
	if err := db.First(&u, id).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	return u
}

func assertVenuePopularity(t *testing.T, v models.Venue) {
	t.Helper()
	if want := types.VenuePopularity(&v.Analytics); v.Popularity != want {
		t.Errorf("stored popularity = %d, formula gives %d for %+v", v.Popularity, want, v.Analytics)
	}
}

func TestRecordVenueView(t *testing.T) {
	svc, db := setup(t)
	venue := testutil.CreateVenue(t, db, "Game Zone", "旺角朗豪坊13樓", 0, 0)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		counted, err := svc.RecordVenueView(ctx, venue.ID, "viewer")
		if err != nil {
			t.Fatalf("RecordVenueView: %v", err)
		}
		if !counted {
			t.Fatal("without redis every view should count")
		}
	}

	got := reloadVenue(t, db, venue.ID)
	if got.Analytics.Views != 10 || got.Popularity != 2 {
		t.Errorf("views = %d popularity = %d, want 10 and 2", got.Analytics.Views, got.Popularity)
	}
	assertVenuePopularity(t, got)
}

func TestRecordVenueView_NotFound(t *testing.T) {
	svc, _ := setup(t)
	if _, err := svc.RecordVenueView(context.Background(), 999, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestRecordMachineView(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()
	venue := testutil.CreateVenue(t, db, "Game Zone", "旺角", 0, 0)
	machine := &models.Machine{VenueID: venue.ID, Name: "maimai DX"}
	if err := svc.CreateMachine(ctx, machine); err != nil {
		t.Fatalf("CreateMachine: %v", err)
	}

	for i := 0; i < 10; i++ {
		if _, err := svc.RecordMachineView(ctx, machine.ID, ""); err != nil {
			t.Fatalf("RecordMachineView: %v", err)
		}
	}
	var got models.Machine
	db.First(&got, machine.ID)
	if got.Analytics.Views != 10 || got.Popularity != 3 {
		t.Errorf("views = %d popularity = %d, want 10 and 3", got.Analytics.Views, got.Popularity)
	}
}

func TestRecordCheckIn(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "player1", models.RoleUser)
	venue := testutil.CreateVenue(t, db, "Game Zone", "旺角朗豪坊", 22.3185, 114.1687)

	if _, err := svc.RecordCheckIn(ctx, user.ID, venue.ID, 22.3186, 114.1688); err != nil {
		t.Fatalf("RecordCheckIn: %v", err)
	}

	got := reloadVenue(t, db, venue.ID)
	if got.Analytics.CheckIns != 1 {
		t.Errorf("checkIns = %d, want 1", got.Analytics.CheckIns)
	}
	assertVenuePopularity(t, got)

	u := reloadUser(t, db, user.ID)
	if u.Points != types.CHECK_IN_POINTS {
		t.Errorf("points = %d, want %d", u.Points, types.CHECK_IN_POINTS)
	}

	var logs int64
	db.Model(&models.PointLog{}).Where("user_id = ? AND action = ?", user.ID, types.ActionCheckIn).Count(&logs)
	if logs != 1 {
		t.Errorf("point logs = %d, want 1", logs)
	}

	if _, err := svc.RecordCheckIn(ctx, user.ID, venue.ID, 0, 0); !errors.Is(err, ErrCheckInTooSoon) {
		t.Errorf("second check-in err = %v, want ErrCheckInTooSoon", err)
	}
}

func TestRecordCheckIn_AfterCooldown(t *testing.T) {
	svc, db := setup(t)
	user := testutil.CreateUser(t, db, "player1", models.RoleUser)
	venue := testutil.CreateVenue(t, db, "Jump Park", "沙田", 0, 0)

	old := models.CheckIn{UserID: user.ID, VenueID: venue.ID, CreatedAt: time.Now().Add(-25 * time.Hour)}
	if err := db.Create(&old).Error; err != nil {
		t.Fatalf("seed check-in: %v", err)
	}

	if _, err := svc.RecordCheckIn(context.Background(), user.ID, venue.ID, 0, 0); err != nil {
		t.Fatalf("RecordCheckIn after cooldown: %v", err)
	}
	if got := reloadVenue(t, db, venue.ID); got.Analytics.CheckIns != 2 {
		t.Errorf("checkIns = %d, want 2 (recounted)", got.Analytics.CheckIns)
	}
}

func TestRecordCheckIn_TooFar(t *testing.T) {
	svc, db := setup(t)
	user := testutil.CreateUser(t, db, "player1", models.RoleUser)
	venue := testutil.CreateVenue(t, db, "Game Zone", "旺角", 22.3185, 114.1687)

	// Causeway Bay is several kilometres away
	_, err := svc.RecordCheckIn(context.Background(), user.ID, venue.ID, 22.2800, 114.1840)
	if !errors.Is(err, ErrTooFar) {
		t.Fatalf("err = %v, want ErrTooFar", err)
	}
	if got := reloadVenue(t, db, venue.ID); got.Analytics.CheckIns != 0 {
		t.Errorf("checkIns = %d after rejected check-in", got.Analytics.CheckIns)
	}
	if u := reloadUser(t, db, user.ID); u.Points != 0 {
		t.Errorf("points = %d after rejected check-in", u.Points)
	}
}

func TestAddAndRemovePhoto(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "owner", models.RoleUser)
	other := testutil.CreateUser(t, db, "other", models.RoleUser)
	venue := testutil.CreateVenue(t, db, "Game Zone", "太古城中心", 0, 0)

	for i, key := range []string{"a.jpg", "b.jpg"} {
		photo := &models.Photo{TargetType: types.TargetVenue, TargetID: venue.ID, UserID: owner.ID, StorageKey: key, URL: "https://cdn/" + key}
		if err := svc.AddPhoto(ctx, photo); err != nil {
			t.Fatalf("AddPhoto %d: %v", i, err)
		}
	}

	got := reloadVenue(t, db, venue.ID)
	if got.Analytics.PhotoCount != 2 || got.Popularity != 6 {
		t.Errorf("photoCount = %d popularity = %d, want 2 and 6", got.Analytics.PhotoCount, got.Popularity)
	}
	if u := reloadUser(t, db, owner.ID); u.Points != 2*types.PHOTO_UPLOAD_POINTS {
		t.Errorf("points = %d, want %d", u.Points, 2*types.PHOTO_UPLOAD_POINTS)
	}

	var photo models.Photo
	db.Where("storage_key = ?", "a.jpg").First(&photo)

	if _, err := svc.RemovePhoto(ctx, photo.ID, other.ID, false); !errors.Is(err, ErrForbidden) {
		t.Errorf("RemovePhoto by stranger err = %v, want ErrForbidden", err)
	}
	removed, err := svc.RemovePhoto(ctx, photo.ID, owner.ID, false)
	if err != nil {
		t.Fatalf("RemovePhoto: %v", err)
	}
	if removed.StorageKey != "a.jpg" {
		t.Errorf("removed key = %q", removed.StorageKey)
	}

	got = reloadVenue(t, db, venue.ID)
	if got.Analytics.PhotoCount != 1 {
		t.Errorf("photoCount = %d after removal, want 1", got.Analytics.PhotoCount)
	}
	assertVenuePopularity(t, got)
}

func TestAddPhoto_UnknownTarget(t *testing.T) {
	svc, db := setup(t)
	owner := testutil.CreateUser(t, db, "owner", models.RoleUser)

	err := svc.AddPhoto(context.Background(), &models.Photo{TargetType: types.TargetVenue, TargetID: 42, UserID: owner.ID, StorageKey: "x", URL: "x"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	err = svc.AddPhoto(context.Background(), &models.Photo{TargetType: "post", TargetID: 1, UserID: owner.ID, StorageKey: "y", URL: "y"})
	if !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("err = %v, want ErrInvalidTarget", err)
	}
}

func TestMachineCount(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()
	venue := testutil.CreateVenue(t, db, "Game Zone", "旺角", 0, 0)

	var ids []uint
	for _, name := range []string{"maimai", "Taiko", "Tekken 8"} {
		m := &models.Machine{VenueID: venue.ID, Name: name}
		if err := svc.CreateMachine(ctx, m); err != nil {
			t.Fatalf("CreateMachine: %v", err)
		}
		ids = append(ids, m.ID)
	}
	if got := reloadVenue(t, db, venue.ID); got.Analytics.MachineCount != 3 {
		t.Errorf("machineCount = %d, want 3", got.Analytics.MachineCount)
	}

	if err := svc.DeleteMachine(ctx, ids[0]); err != nil {
		t.Fatalf("DeleteMachine: %v", err)
	}
	got := reloadVenue(t, db, venue.ID)
	if got.Analytics.MachineCount != 2 {
		t.Errorf("machineCount = %d, want 2", got.Analytics.MachineCount)
	}
	// machineCount does not feed popularity
	if got.Popularity != 0 {
		t.Errorf("popularity = %d, want 0", got.Popularity)
	}

	if err := svc.CreateMachine(ctx, &models.Machine{VenueID: 999, Name: "ghost"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("CreateMachine on missing venue err = %v, want ErrNotFound", err)
	}
}
