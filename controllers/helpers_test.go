package controllers

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hk-arcade-map/api-go/models"
	"github.com/hk-arcade-map/api-go/testutil"
	"github.com/hk-arcade-map/api-go/utils"
)

func TestPhotoKeyRoundTrip(t *testing.T) {
	key := generatePhotoKey("machine", 42, 7, "IMG_0001.PNG", "image/png")
	if !strings.HasPrefix(key, "photos/machine/42/7/") || !strings.HasSuffix(key, ".png") {
		t.Fatalf("generatePhotoKey = %q", key)
	}
	target, targetID, userID, ok := parsePhotoKey(key)
	if !ok || target != "machine" || targetID != 42 || userID != 7 {
		t.Errorf("parsePhotoKey(%q) = %q %d %d %v", key, target, targetID, userID, ok)
	}
}

func TestParsePhotoKey_Rejects(t *testing.T) {
	for _, key := range []string{
		"",
		"avatars/7/a.jpg",
		"photos/post/1/7/a.jpg",
		"photos/venue/0/7/a.jpg",
		"photos/venue/1/x/a.jpg",
		"photos/venue/1/7/",
		"photos/venue/1/7/a/b.jpg",
	} {
		if _, _, _, ok := parsePhotoKey(key); ok {
			t.Errorf("parsePhotoKey(%q) accepted", key)
		}
	}
}

func TestFileExtension(t *testing.T) {
	tests := []struct {
		name, contentType, want string
	}{
		{"a.JPG", "image/jpeg", ".jpg"},
		{"noext", "image/webp", ".webp"},
		{"weird.extension", "image/png", ".png"},
	}
	for _, tt := range tests {
		if got := fileExtension(tt.name, tt.contentType); got != tt.want {
			t.Errorf("fileExtension(%q, %q) = %q, want %q", tt.name, tt.contentType, got, tt.want)
		}
	}
}

func TestWindowStart(t *testing.T) {
	// Wednesday
	now := time.Date(2024, 5, 15, 18, 30, 0, 0, time.UTC)

	if got := windowStart("weekly", now); !got.Equal(time.Date(2024, 5, 12, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("weekly = %v", got)
	}
	if got := windowStart("monthly", now); !got.Equal(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("monthly = %v", got)
	}
	if got := windowStart("all_time", now); !got.IsZero() {
		t.Errorf("all_time = %v", got)
	}
}

func TestClaimRefreshToken_OnlyOnce(t *testing.T) {
	db := testutil.NewSQLite(t)
	user := testutil.CreateUser(t, db, "player", models.RoleUser)
	stored := models.RefreshToken{UserID: user.ID, Token: "refresh-abc", ExpiresAt: time.Now().Add(time.Hour)}
	if err := db.Create(&stored).Error; err != nil {
		t.Fatal(err)
	}

	// both requests loaded the row before either deleted it
	var first, second models.RefreshToken
	db.Where("token = ?", stored.Token).First(&first)
	db.Where("token = ?", stored.Token).First(&second)

	if err := claimRefreshToken(db, &first); err != nil {
		t.Fatalf("first claim: %v", err)
	}
	if err := claimRefreshToken(db, &second); !errors.Is(err, utils.ErrInvalidToken) {
		t.Errorf("second claim err = %v, want ErrInvalidToken", err)
	}
}
