package user

import (
	"testing"
	"time"
)

func TestMakeVerifyToken(t *testing.T) {
	gen := tokenGenerator{secret: []byte("secret"), timeout: 3 * 24 * time.Hour}

	now := time.Now()
	usr := User{
		ID:        "4f1c7b8e-6a0b-4a53-9c1e-2d8f1a9b7c31",
		Name:      "T",
		Email:     "t@test.test",
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
		LastLogin: now,
	}
	_ = usr.SetPassword("pwd")

	validToken := gen.makeToken(usr)

	// generate an expired token
	dayLate := gen.timeout + (24 * time.Hour)
	nowFunc = func() time.Time { return time.Now().Add(-dayLate) }
	expiredToken := gen.makeToken(usr)
	nowFunc = time.Now // reset

	loggedIn := usr
	loggedIn.LastLogin = now.Add(time.Minute)

	otherSecret := tokenGenerator{secret: []byte("other"), timeout: gen.timeout}

	tests := []struct {
		name    string
		gen     tokenGenerator
		usr     User
		token   string
		wantErr error
	}{
		{name: "no token", gen: gen, usr: usr, wantErr: errInvalidToken},
		{name: "invalid parts len", gen: gen, usr: usr, token: "lmaooolol", wantErr: errInvalidToken},
		{name: "invalid base32", gen: gen, usr: usr, token: "hahaha-sigsig-sig", wantErr: errInvalidToken},
		{name: "invalid timestamp", gen: gen, usr: usr, token: "NRXWY-sigsig-sig", wantErr: errInvalidToken},
		{name: "invalid token", gen: gen, usr: usr, token: "HE4TS-sigsig-sig", wantErr: errInvalidToken},
		{name: "expired token", gen: gen, usr: usr, token: expiredToken, wantErr: errTokenExpired},
		{name: "user logged in since", gen: gen, usr: loggedIn, token: validToken, wantErr: errInvalidToken},
		{name: "other secret", gen: otherSecret, usr: usr, token: validToken, wantErr: errInvalidToken},
		{name: "valid token", gen: gen, usr: usr, token: validToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.gen.verifyToken(tt.usr, tt.token); err != tt.wantErr {
				t.Errorf("verifyToken() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEncodeUID(t *testing.T) {
	usr := User{ID: "4f1c7b8e-6a0b-4a53-9c1e-2d8f1a9b7c31"}
	id, err := decodeUID(EncodeUID(usr))
	if err != nil {
		t.Fatalf("decodeUID() error = %v", err)
	}
	if id != usr.ID {
		t.Errorf("decodeUID() = %q, want %q", id, usr.ID)
	}
}
