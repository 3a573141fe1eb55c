package api

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

type fakeRooms struct {
	err   error
	rooms []Room
	calls int
}

func (f *fakeRooms) GetRoom(context.Context, int64) (*Room, error) {
	f.calls++
	return nil, f.err
}

func (f *fakeRooms) RoomsByDirection(context.Context, int64) ([]Room, error) {
	f.calls++
	return f.rooms, f.err
}

func (f *fakeRooms) UserRooms(context.Context, int64) ([]Room, error) {
	f.calls++
	return f.rooms, f.err
}

func (f *fakeRooms) CreateRoom(context.Context, RoomInput) (*Room, error) {
	f.calls++
	return nil, f.err
}

func (f *fakeRooms) DeleteRoom(context.Context, int64) error {
	f.calls++
	return f.err
}

func (f *fakeRooms) JoinRoom(_ context.Context, roomID, userID int64, role RoomRole) (*UserRoom, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &UserRoom{RoomID: roomID, UserID: userID, Role: role}, nil
}

func (f *fakeRooms) LeaveRoom(context.Context, int64, int64) error {
	f.calls++
	return f.err
}

func (f *fakeRooms) Members(context.Context, int64) ([]UserRoom, error) {
	f.calls++
	return nil, f.err
}

func TestRoomFallback(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name          string
		primaryErr    error
		wantFallback  bool
		wantErrStatus int
	}{
		{name: "primary succeeds", primaryErr: nil, wantFallback: false},
		{name: "offline uses dataset", primaryErr: fmt.Errorf("%w: dial", ErrOffline), wantFallback: true},
		{name: "http error surfaces", primaryErr: &HTTPError{StatusCode: 500}, wantFallback: false, wantErrStatus: 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			primary := &fakeRooms{err: tt.primaryErr, rooms: []Room{{ID: 1}}}
			secondary := &fakeRooms{rooms: []Room{{ID: 2}}}
			f := NewRoomFallback(primary, secondary, nil)

			rooms, err := f.UserRooms(ctx, 7)
			if tt.wantErrStatus != 0 {
				if StatusCode(err) != tt.wantErrStatus {
					t.Fatalf("expected status %d, got %v", tt.wantErrStatus, err)
				}
				if secondary.calls != 0 {
					t.Fatalf("fallback must not run on HTTP errors")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			if tt.wantFallback != (secondary.calls == 1) {
				t.Fatalf("fallback calls = %d, want fallback %v", secondary.calls, tt.wantFallback)
			}
			wantID := int64(1)
			if tt.wantFallback {
				wantID = 2
			}
			if len(rooms) != 1 || rooms[0].ID != wantID {
				t.Fatalf("expected room %d, got %+v", wantID, rooms)
			}
		})
	}
}

func TestRoomFallbackJoinLeave(t *testing.T) {
	ctx := context.Background()
	primary := &fakeRooms{err: ErrOffline}
	secondary := &fakeRooms{}
	f := NewRoomFallback(primary, secondary, nil)

	membership, err := f.JoinRoom(ctx, 101, 7, RoomRoleMember)
	if err != nil || membership.RoomID != 101 {
		t.Fatalf("expected offline join to be served locally, got %+v %v", membership, err)
	}
	if err := f.LeaveRoom(ctx, 101, 7); err != nil {
		t.Fatalf("expected offline leave to be served locally, got %v", err)
	}

	secondary.err = errors.New("dataset broken")
	if err := f.DeleteRoom(ctx, 101); err == nil || err.Error() != "dataset broken" {
		t.Fatalf("expected fallback error to surface, got %v", err)
	}
}

func TestRoomFallbackRoutesEveryCall(t *testing.T) {
	ctx := context.Background()
	calls := []struct {
		name string
		call func(RoomService) error
	}{
		{name: "get", call: func(s RoomService) error {
			_, err := s.GetRoom(ctx, 101)
			return err
		}},
		{name: "create", call: func(s RoomService) error {
			_, err := s.CreateRoom(ctx, RoomInput{Name: "x"})
			return err
		}},
		{name: "delete", call: func(s RoomService) error {
			return s.DeleteRoom(ctx, 101)
		}},
		{name: "leave", call: func(s RoomService) error {
			return s.LeaveRoom(ctx, 101, 7)
		}},
		{name: "members", call: func(s RoomService) error {
			_, err := s.Members(ctx, 101)
			return err
		}},
	}

	for _, c := range calls {
		t.Run(c.name+" offline", func(t *testing.T) {
			primary := &fakeRooms{err: ErrOffline}
			secondary := &fakeRooms{}
			_ = c.call(NewRoomFallback(primary, secondary, nil))
			if primary.calls != 1 || secondary.calls != 1 {
				t.Fatalf("primary=%d secondary=%d, want 1 and 1", primary.calls, secondary.calls)
			}
		})
		t.Run(c.name+" rejected", func(t *testing.T) {
			primary := &fakeRooms{err: &HTTPError{StatusCode: 403}}
			secondary := &fakeRooms{}
			err := c.call(NewRoomFallback(primary, secondary, nil))
			if StatusCode(err) != 403 || secondary.calls != 0 {
				t.Fatalf("expected 403 without fallback, got %v after %d fallback calls", err, secondary.calls)
			}
		})
	}
}

func TestUserUpdateApply(t *testing.T) {
	first := "Grace"
	bio := "admiral"
	dir := int64(3)
	user := &User{ID: 1, Name: "Old Name", Firstname: "Old", Lastname: "Hopper"}

	update := UserUpdate{Firstname: &first}.Merge(UserUpdate{Bio: &bio, SelectedDirectionID: &dir})
	if update.Empty() {
		t.Fatalf("merged update should not be empty")
	}
	update.ApplyTo(user)

	if user.Name != "Grace Hopper" {
		t.Errorf("expected recomputed name, got %q", user.Name)
	}
	if user.Bio != bio || user.SelectedDirectionID == nil || *user.SelectedDirectionID != 3 {
		t.Errorf("unexpected user %+v", user)
	}

	dir = 5
	if *user.SelectedDirectionID != 3 {
		t.Errorf("apply must copy pointer values")
	}

	clone := user.Clone()
	*clone.SelectedDirectionID = 8
	if *user.SelectedDirectionID != 3 {
		t.Errorf("clone must not share direction pointer")
	}
}
