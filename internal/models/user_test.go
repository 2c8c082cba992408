package models

import (
	"reflect"
	"testing"
	"time"
)

func TestNewUser(t *testing.T) {
	type args struct {
		username     string
		passwordHash string
	}
	tests := []struct {
		name string
		args args
		want *User
	}{
		{
			name: "Create new user with username and hash",
			args: args{
				username:     "testuser",
				passwordHash: "$2a$10$abc",
			},
			want: &User{
				Username:     "testuser",
				PasswordHash: "$2a$10$abc",
			},
		},
		{
			name: "Create new user with empty username and hash",
			args: args{},
			want: &User{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewUser(tt.args.username, tt.args.passwordHash); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NewUser() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSession_State(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	sess := NewSession("tok", now, time.Hour)

	if sess.Authenticated() {
		t.Error("new session should be anonymous")
	}
	if sess.Expired(now.Add(59 * time.Minute)) {
		t.Error("session expired before its lifetime")
	}
	if !sess.Expired(now.Add(time.Hour)) {
		t.Error("session should be expired at the end of its lifetime")
	}

	sess.Username = "alice"
	if !sess.Authenticated() {
		t.Error("session with username should be authenticated")
	}

	var nilSession *Session
	if nilSession.Authenticated() {
		t.Error("nil session should be anonymous")
	}
}
