package postgres

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/haguru/gatekeeper/config"
)

func TestNewPostgresDatabaseClient_Defaults(t *testing.T) {
	client := NewPostgresDatabaseClient(config.PostgresServerOptions{})
	if client.MaxOpenConns != DefaultMaxOpenConns || client.MaxIdleConns != DefaultMaxIdleConns || client.ConnMaxLifetime != DefaultConnMaxLifetime {
		t.Errorf("unexpected defaults: %+v", client)
	}

	client = NewPostgresDatabaseClient(config.PostgresServerOptions{MaxOpenConns: 3, MaxIdleConns: 1, ConnMaxLifetime: time.Minute})
	if client.MaxOpenConns != 3 || client.MaxIdleConns != 1 || client.ConnMaxLifetime != time.Minute {
		t.Errorf("options not applied: %+v", client)
	}
}

func TestPostgresDatabaseClient_NotConnected(t *testing.T) {
	client := NewPostgresDatabaseClient(config.PostgresServerOptions{})
	ctx := context.Background()

	if err := client.Ping(ctx); err == nil {
		t.Error("Ping() expected error when not connected")
	}
	if err := client.InsertOne(ctx, "users", map[string]interface{}{"username": "a"}); err == nil {
		t.Error("InsertOne() expected error when not connected")
	}
	if err := client.Disconnect(ctx); err != nil {
		t.Errorf("Disconnect() error = %v", err)
	}
}

func TestBuildInsertQuery(t *testing.T) {
	tests := []struct {
		name       string
		table      string
		document   map[string]interface{}
		wantQuery  string
		wantValues []interface{}
		wantErr    bool
	}{
		{
			name:       "users row",
			table:      "users",
			document:   map[string]interface{}{"username": "alice", "password_hash": "$2a$04$x"},
			wantQuery:  "INSERT INTO users (password_hash, username) VALUES ($1, $2)",
			wantValues: []interface{}{"$2a$04$x", "alice"},
		},
		{
			name:     "injected table name",
			table:    "users; DROP TABLE users",
			document: map[string]interface{}{"username": "alice"},
			wantErr:  true,
		},
		{
			name:     "injected column name",
			table:    "users",
			document: map[string]interface{}{"username) VALUES ('x'); --": "alice"},
			wantErr:  true,
		},
		{
			name:     "empty document",
			table:    "users",
			document: map[string]interface{}{},
			wantErr:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotQuery, gotValues, err := BuildInsertQuery(tt.table, tt.document)
			if (err != nil) != tt.wantErr {
				t.Fatalf("BuildInsertQuery() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if gotQuery != tt.wantQuery {
				t.Errorf("BuildInsertQuery() query = %q, want %q", gotQuery, tt.wantQuery)
			}
			if !reflect.DeepEqual(gotValues, tt.wantValues) {
				t.Errorf("BuildInsertQuery() values = %v, want %v", gotValues, tt.wantValues)
			}
		})
	}
}

func TestBuildSelectQuery(t *testing.T) {
	got, err := BuildSelectQuery("users", []string{"username", "password_hash"})
	if err != nil {
		t.Fatalf("BuildSelectQuery() error = %v", err)
	}
	if want := "SELECT username, password_hash FROM users"; got != want {
		t.Errorf("BuildSelectQuery() = %q, want %q", got, want)
	}

	if _, err := BuildSelectQuery("users", nil); err == nil {
		t.Error("BuildSelectQuery() expected error for no columns")
	}
	if _, err := BuildSelectQuery("1users", []string{"username"}); err == nil {
		t.Error("BuildSelectQuery() expected error for invalid table")
	}
}
