package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vovakirdan/skillhub/internal/api"
)

type fakeFetcher struct {
	getUser func(ctx context.Context, id int64) (*api.User, error)
	calls   int
}

func (f *fakeFetcher) GetUser(ctx context.Context, id int64) (*api.User, error) {
	f.calls++
	return f.getUser(ctx, id)
}

type fakeCreds struct {
	token string
}

func (f *fakeCreds) Credential(context.Context) (string, bool) {
	return f.token, f.token != ""
}

func TestResolverResolves(t *testing.T) {
	token := signClaims(t, jwt.MapClaims{"sub": "42"})
	fetcher := &fakeFetcher{getUser: func(_ context.Context, id int64) (*api.User, error) {
		return &api.User{ID: id, Firstname: "Ada", Lastname: "Lovelace"}, nil
	}}
	r := NewResolver(fetcher, &fakeCreds{token: token}, nil)

	user, err := r.Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if user.ID != 42 || user.DisplayName() != "Ada Lovelace" {
		t.Fatalf("unexpected user %+v", user)
	}
}

func TestResolverNoIdentity(t *testing.T) {
	fetcher := &fakeFetcher{getUser: func(context.Context, int64) (*api.User, error) {
		t.Fatal("fetch must not run without an id")
		return nil, nil
	}}
	r := NewResolver(fetcher, nil, nil)

	if _, err := r.Resolve(context.Background(), "garbage"); !errors.Is(err, ErrNoIdentity) {
		t.Fatalf("expected ErrNoIdentity, got %v", err)
	}
}

func TestResolverFetchFailureIsStrict(t *testing.T) {
	token := signClaims(t, jwt.MapClaims{"sub": "42"})
	notFound := &api.HTTPError{StatusCode: 404, Method: "GET", Path: "/auth/users/42"}
	fetcher := &fakeFetcher{getUser: func(context.Context, int64) (*api.User, error) {
		return nil, notFound
	}}
	r := NewResolver(fetcher, &fakeCreds{token: token}, nil)

	_, err := r.Resolve(context.Background(), token)
	if !errors.Is(err, ErrProfileUnavailable) {
		t.Fatalf("expected ErrProfileUnavailable, got %v", err)
	}
	if !api.IsNotFound(err) {
		t.Fatalf("expected the HTTP cause to be kept, got %v", err)
	}
}

func TestResolverCredentialClearedDuringFetch(t *testing.T) {
	token := signClaims(t, jwt.MapClaims{"sub": "42"})
	creds := &fakeCreds{token: token}
	fetcher := &fakeFetcher{getUser: func(_ context.Context, id int64) (*api.User, error) {
		// A 401 elsewhere clears the credential while the fetch is in flight.
		creds.token = ""
		return &api.User{ID: id}, nil
	}}
	r := NewResolver(fetcher, creds, nil)

	if _, err := r.Resolve(context.Background(), token); !errors.Is(err, ErrCredentialRevoked) {
		t.Fatalf("expected ErrCredentialRevoked, got %v", err)
	}
}
