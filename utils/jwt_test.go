package utils

import (
	"testing"
	"time"
)

const testSecret = "test-secret-0123456789"

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken(testSecret, 42, "moderator", time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	claims, err := ParseAccessToken(testSecret, token)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.UserID != 42 || claims.Role != "moderator" {
		t.Errorf("claims = %+v", claims)
	}
	if !claims.IsModerator() {
		t.Error("moderator role not recognised")
	}
}

func TestParseAccessToken_Rejects(t *testing.T) {
	expired, _ := GenerateAccessToken(testSecret, 1, "user", -time.Minute)
	otherKey, _ := GenerateAccessToken("another-secret-abcdef", 1, "user", time.Hour)

	tests := map[string]string{
		"expired":      expired,
		"wrong secret": otherKey,
		"garbage":      "not.a.token",
		"empty":        "",
	}
	for name, tok := range tests {
		if _, err := ParseAccessToken(testSecret, tok); err != ErrInvalidToken {
			t.Errorf("%s: err = %v, want ErrInvalidToken", name, err)
		}
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total    int64
		pageSize int
		want     int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{5, 0, 0},
	}
	for _, tt := range tests {
		if got := TotalPages(tt.total, tt.pageSize); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.total, tt.pageSize, got, tt.want)
		}
	}
}
