package utils

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestTokenRoundTrip(t *testing.T) {
	userID := primitive.NewObjectID()
	storeID := primitive.NewObjectID().Hex()

	token, err := GenerateToken(userID, "clerk", []string{"importer"}, []string{storeID})
	if err != nil {
		t.Fatal(err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.UserID != userID.Hex() || claims.Username != "clerk" {
		t.Errorf("claims = %+v", claims)
	}
	if len(claims.Roles) != 1 || claims.Roles[0] != "importer" {
		t.Errorf("roles = %v", claims.Roles)
	}
	if len(claims.Stores) != 1 || claims.Stores[0] != storeID {
		t.Errorf("stores = %v", claims.Stores)
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	if _, err := ValidateToken("not-a-token"); err == nil {
		t.Error("garbage token should not validate")
	}
}

func TestAllowsStore(t *testing.T) {
	a := primitive.NewObjectID().Hex()
	b := primitive.NewObjectID().Hex()

	tests := []struct {
		name   string
		stores []string
		target string
		want   bool
	}{
		{"chain-wide", nil, a, true},
		{"listed store", []string{a, b}, a, true},
		{"unlisted store", []string{a}, b, false},
	}

	for _, tt := range tests {
		claims := &UserClaims{Stores: tt.stores}
		if got := claims.AllowsStore(tt.target); got != tt.want {
			t.Errorf("%s: AllowsStore(%s) = %v, want %v", tt.name, tt.target, got, tt.want)
		}
	}
}
