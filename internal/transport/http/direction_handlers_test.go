package http

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/vovakirdan/skillhub/internal/api"
)

func TestDirections(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.register(t, "admin@example.com")

	var created api.Direction
	if code := s.do(t, http.MethodPost, "/api/directions", token, api.DirectionInput{Name: "Design", Description: "UI"}, &created); code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", code)
	}

	var directions []api.Direction
	if code := s.do(t, http.MethodGet, "/api/directions", "", nil, &directions); code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", code)
	}
	if len(directions) != 1 || directions[0].Name != "Design" {
		t.Errorf("unexpected directions: %+v", directions)
	}

	if code := s.do(t, http.MethodPost, "/api/directions", token, api.DirectionInput{Name: "   "}, nil); code != http.StatusBadRequest {
		t.Errorf("blank name: expected 400, got %d", code)
	}

	path := fmt.Sprintf("/api/directions/%d", created.ID)
	if code := s.do(t, http.MethodDelete, path, token, nil, nil); code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", code)
	}
	if code := s.do(t, http.MethodDelete, path, token, nil, nil); code != http.StatusNotFound {
		t.Errorf("second delete: expected 404, got %d", code)
	}
}
