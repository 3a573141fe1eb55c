package api

import (
	"strings"
)

// SkillLevel is one axis of a user's skills chart.
type SkillLevel struct {
	Subject string `json:"subject"`
	Value   int    `json:"value"`
}

// UserStats are the counters shown on a profile.
type UserStats struct {
	RoomsJoined      int `json:"roomsJoined"`
	SessionsAttended int `json:"sessionsAttended"`
	Points           int `json:"points"`
}

// User is a user profile as served by the user service.
type User struct {
	ID                  int64        `json:"id"`
	Name                string       `json:"name,omitempty"`
	Firstname           string       `json:"firstname,omitempty"`
	Lastname            string       `json:"lastname,omitempty"`
	Email               string       `json:"email,omitempty"`
	Universite          string       `json:"universite,omitempty"`
	Bio                 string       `json:"bio,omitempty"`
	Role                string       `json:"role,omitempty"`
	Status              string       `json:"status,omitempty"`
	Skills              []string     `json:"skills,omitempty"`
	SkillLevels         []SkillLevel `json:"skillLevels,omitempty"`
	Avatar              string       `json:"avatar,omitempty"`
	IsMentor            bool         `json:"isMentor"`
	SelectedDirectionID *int64       `json:"selectedDirectionId,omitempty"`
	Stats               *UserStats   `json:"stats,omitempty"`
}

// DisplayName returns Name, or the first and last name joined when Name is empty.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if name := strings.TrimSpace(u.Name); name != "" {
		return name
	}
	return strings.TrimSpace(strings.TrimSpace(u.Firstname) + " " + strings.TrimSpace(u.Lastname))
}

// Clone returns a deep copy of u.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.Skills != nil {
		c.Skills = append([]string(nil), u.Skills...)
	}
	if u.SkillLevels != nil {
		c.SkillLevels = append([]SkillLevel(nil), u.SkillLevels...)
	}
	if u.SelectedDirectionID != nil {
		id := *u.SelectedDirectionID
		c.SelectedDirectionID = &id
	}
	if u.Stats != nil {
		stats := *u.Stats
		c.Stats = &stats
	}
	return &c
}

// UserUpdate is the body of PUT /auth/users/{id}. Nil fields are not sent.
type UserUpdate struct {
	Firstname           *string  `json:"firstname,omitempty"`
	Lastname            *string  `json:"lastname,omitempty"`
	Email               *string  `json:"email,omitempty"`
	Password            *string  `json:"password,omitempty"`
	Universite          *string  `json:"universite,omitempty"`
	Bio                 *string  `json:"bio,omitempty"`
	Avatar              *string  `json:"avatar,omitempty"`
	Status              *string  `json:"status,omitempty"`
	IsMentor            *bool    `json:"isMentor,omitempty"`
	Skills              []string `json:"skills,omitempty"`
	SelectedDirectionID *int64   `json:"selectedDirectionId,omitempty"`
}

// Empty reports whether the update carries no field.
func (u UserUpdate) Empty() bool {
	return u.Firstname == nil && u.Lastname == nil && u.Email == nil && u.Password == nil &&
		u.Universite == nil && u.Bio == nil && u.Avatar == nil && u.Status == nil &&
		u.IsMentor == nil && u.Skills == nil && u.SelectedDirectionID == nil
}

// Merge returns u with the non-nil fields of other applied on top.
func (u UserUpdate) Merge(other UserUpdate) UserUpdate {
	if other.Firstname != nil {
		u.Firstname = other.Firstname
	}
	if other.Lastname != nil {
		u.Lastname = other.Lastname
	}
	if other.Email != nil {
		u.Email = other.Email
	}
	if other.Password != nil {
		u.Password = other.Password
	}
	if other.Universite != nil {
		u.Universite = other.Universite
	}
	if other.Bio != nil {
		u.Bio = other.Bio
	}
	if other.Avatar != nil {
		u.Avatar = other.Avatar
	}
	if other.Status != nil {
		u.Status = other.Status
	}
	if other.IsMentor != nil {
		u.IsMentor = other.IsMentor
	}
	if other.Skills != nil {
		u.Skills = other.Skills
	}
	if other.SelectedDirectionID != nil {
		u.SelectedDirectionID = other.SelectedDirectionID
	}
	return u
}

// ApplyTo shallow-merges the update into user. The password never lands on
// the profile. Name is recomputed when first or last name change.
func (u UserUpdate) ApplyTo(user *User) {
	if user == nil {
		return
	}
	renamed := false
	if u.Firstname != nil {
		user.Firstname = *u.Firstname
		renamed = true
	}
	if u.Lastname != nil {
		user.Lastname = *u.Lastname
		renamed = true
	}
	if u.Email != nil {
		user.Email = *u.Email
	}
	if u.Universite != nil {
		user.Universite = *u.Universite
	}
	if u.Bio != nil {
		user.Bio = *u.Bio
	}
	if u.Avatar != nil {
		user.Avatar = *u.Avatar
	}
	if u.Status != nil {
		user.Status = *u.Status
	}
	if u.IsMentor != nil {
		user.IsMentor = *u.IsMentor
	}
	if u.Skills != nil {
		user.Skills = append([]string(nil), u.Skills...)
	}
	if u.SelectedDirectionID != nil {
		id := *u.SelectedDirectionID
		user.SelectedDirectionID = &id
	}
	if renamed {
		user.Name = ""
		user.Name = user.DisplayName()
	}
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Firstname  string `json:"firstname"`
	Lastname   string `json:"lastname"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Universite string `json:"universite"`
	Bio        string `json:"bio"`
}

// AuthResponse is returned by login and register. User is optional.
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user,omitempty"`
}

// Direction is a top-level topic category.
type Direction struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// DirectionInput is the body of POST /directions.
type DirectionInput struct {
	ID          int64  `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Room is a community space nested under a direction.
type Room struct {
	ID          int64  `json:"id"`
	DirectionID int64  `json:"directionId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPrivate   bool   `json:"isPrivate"`
	CreatedAt   string `json:"createdAt,omitempty"`
}

// RoomInput is the body of POST /rooms. A non-zero ID updates an existing room.
type RoomInput struct {
	ID          int64  `json:"id,omitempty"`
	DirectionID int64  `json:"directionId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPrivate   bool   `json:"isPrivate"`
}

// RoomRole is the role of a member inside a room.
type RoomRole string

const (
	RoomRoleOwner  RoomRole = "OWNER"
	RoomRoleAdmin  RoomRole = "ADMIN"
	RoomRoleMember RoomRole = "MEMBER"
)

// UserRoom is a membership record.
type UserRoom struct {
	UserID int64    `json:"userId"`
	RoomID int64    `json:"roomId"`
	Name   string   `json:"name,omitempty"`
	Role   RoomRole `json:"role"`
}

// DifficultyLevel grades an article.
type DifficultyLevel string

const (
	DifficultyBeginner     DifficultyLevel = "BEGINNER"
	DifficultyIntermediate DifficultyLevel = "INTERMEDIATE"
	DifficultyAdvanced     DifficultyLevel = "ADVANCED"
)

// AIStatus is the moderation verdict attached to content.
type AIStatus string

const (
	AIStatusPending  AIStatus = "PENDING"
	AIStatusApproved AIStatus = "APPROVED"
	AIStatusRejected AIStatus = "REJECTED"
)

// PostType classifies discussions.
type PostType string

const (
	PostTypeQuestion     PostType = "QUESTION"
	PostTypeDiscussion   PostType = "DISCUSSION"
	PostTypeAnnouncement PostType = "ANNOUNCEMENT"
)

// Article is a long-form piece published in a room.
type Article struct {
	ID              int64           `json:"id,omitempty"`
	RoomID          int64           `json:"roomId"`
	UserID          int64           `json:"userId"`
	Title           string          `json:"title"`
	Content         string          `json:"content"`
	DifficultyLevel DifficultyLevel `json:"difficultyLevel,omitempty"`
	CreatedAt       string          `json:"createdAt,omitempty"`
	UpdatedAt       string          `json:"updatedAt,omitempty"`
	AIScore         *float64        `json:"aiScore,omitempty"`
	AIReviewStatus  AIStatus        `json:"aiReviewStatus,omitempty"`
}

// Post is a discussion entry in a room.
type Post struct {
	ID        int64    `json:"id,omitempty"`
	RoomID    int64    `json:"roomId"`
	UserID    int64    `json:"userId"`
	Title     string   `json:"title,omitempty"`
	Content   string   `json:"content"`
	PostType  PostType `json:"postType"`
	CreatedAt string   `json:"createdAt,omitempty"`
	UpdatedAt string   `json:"updatedAt,omitempty"`
	AIStatus  AIStatus `json:"aiStatus,omitempty"`
}

// Comment is a reply to a post.
type Comment struct {
	ID         int64  `json:"id,omitempty"`
	PostID     int64  `json:"postId"`
	UserID     int64  `json:"userId"`
	AuthorName string `json:"authorName,omitempty"`
	Content    string `json:"content"`
	IsAccepted bool   `json:"isAccepted"`
	CreatedAt  string `json:"createdAt,omitempty"`
	UpdatedAt  string `json:"updatedAt,omitempty"`
}

// WikiEntry is a curated page of a room.
type WikiEntry struct {
	ID        int64  `json:"id"`
	RoomID    int64  `json:"roomId"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	UpdatedAt string `json:"updatedAt"`
}
