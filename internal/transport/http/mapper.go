package http

import (
	"time"

	"github.com/vovakirdan/skillhub/internal/api"
	"github.com/vovakirdan/skillhub/internal/store"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

func userResponse(u *store.User) *api.User {
	if u == nil {
		return nil
	}
	user := &api.User{
		ID:         u.ID,
		Firstname:  u.Firstname,
		Lastname:   u.Lastname,
		Email:      u.Email,
		Universite: u.Universite,
		Bio:        u.Bio,
		Role:       u.Role,
		Status:     u.Status,
		Avatar:     u.Avatar,
		IsMentor:   u.IsMentor,
	}
	if u.SelectedDirectionID != nil {
		id := *u.SelectedDirectionID
		user.SelectedDirectionID = &id
	}
	user.Name = user.DisplayName()
	return user
}

func userUpdateFromRequest(in api.UserUpdate) store.UserUpdate {
	return store.UserUpdate{
		Firstname:           in.Firstname,
		Lastname:            in.Lastname,
		Email:               in.Email,
		Universite:          in.Universite,
		Bio:                 in.Bio,
		Avatar:              in.Avatar,
		Status:              in.Status,
		IsMentor:            in.IsMentor,
		SelectedDirectionID: in.SelectedDirectionID,
	}
}

func roomResponse(r *store.Room) api.Room {
	return api.Room{
		ID:          r.ID,
		DirectionID: r.DirectionID,
		Name:        r.Name,
		Description: r.Description,
		IsPrivate:   r.IsPrivate,
		CreatedAt:   formatTime(r.CreatedAt),
	}
}

func roomsResponse(rooms []*store.Room) []api.Room {
	out := make([]api.Room, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, roomResponse(r))
	}
	return out
}

func memberResponse(m *store.RoomMember) api.UserRoom {
	return api.UserRoom{
		UserID: m.UserID,
		RoomID: m.RoomID,
		Name:   m.Name,
		Role:   api.RoomRole(m.Role),
	}
}

func directionResponse(d *store.Direction) api.Direction {
	return api.Direction{ID: d.ID, Name: d.Name, Description: d.Description}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timeLayout)
}
