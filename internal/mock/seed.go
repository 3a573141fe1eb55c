package mock

import "github.com/vovakirdan/skillhub/internal/api"

// DefaultDirections is the seed list of directions.
func DefaultDirections() []api.Direction {
	return []api.Direction{
		{ID: 1, Name: "Technology", Description: "Software, data and infrastructure"},
		{ID: 2, Name: "Medicine", Description: "Clinical practice and research"},
		{ID: 3, Name: "Law", Description: "Legal practice and policy"},
		{ID: 4, Name: "Business", Description: "Management, finance and entrepreneurship"},
		{ID: 5, Name: "Architecture", Description: "Design of buildings and spaces"},
		{ID: 6, Name: "Engineering", Description: "Mechanical, electrical and civil engineering"},
		{ID: 7, Name: "Psychology", Description: "Mind, behaviour and therapy"},
		{ID: 8, Name: "Linguistics", Description: "Languages and translation"},
	}
}

// DefaultRooms is the seed list of rooms; IDs are grouped by direction.
func DefaultRooms() []api.Room {
	return []api.Room{
		{ID: 101, DirectionID: 1, Name: "Web Development", Description: "Frontend and backend craft"},
		{ID: 102, DirectionID: 1, Name: "Data Science", Description: "Statistics and machine learning"},
		{ID: 103, DirectionID: 1, Name: "Security", Description: "Offensive and defensive security", IsPrivate: true},
		{ID: 201, DirectionID: 2, Name: "Cardiology", Description: "Heart health"},
		{ID: 202, DirectionID: 2, Name: "Neurology", Description: "Brain and nervous system"},
		{ID: 203, DirectionID: 2, Name: "Pediatrics", Description: "Child healthcare"},
		{ID: 301, DirectionID: 3, Name: "Corporate Law", Description: "Companies and contracts", IsPrivate: true},
		{ID: 302, DirectionID: 3, Name: "Criminal Law", Description: "Defense and prosecution"},
		{ID: 303, DirectionID: 3, Name: "IP Law", Description: "Patents and copyright"},
		{ID: 401, DirectionID: 4, Name: "Startups", Description: "Founding and scaling"},
		{ID: 402, DirectionID: 4, Name: "Marketing", Description: "Brands and growth"},
		{ID: 403, DirectionID: 4, Name: "Finance", Description: "Markets and accounting"},
		{ID: 501, DirectionID: 5, Name: "Urban Design", Description: "Cities and public space"},
		{ID: 502, DirectionID: 5, Name: "Interior Design", Description: "Inside spaces"},
		{ID: 503, DirectionID: 5, Name: "Landscape", Description: "Outdoor design"},
		{ID: 601, DirectionID: 6, Name: "Robotics", Description: "Machines that move"},
		{ID: 602, DirectionID: 6, Name: "Electronics", Description: "Circuits and embedded systems", IsPrivate: true},
		{ID: 603, DirectionID: 6, Name: "Civil Engineering", Description: "Structures and materials"},
		{ID: 701, DirectionID: 7, Name: "Clinical Psychology", Description: "Assessment and therapy"},
		{ID: 702, DirectionID: 7, Name: "Cognitive Science", Description: "How we think"},
		{ID: 801, DirectionID: 8, Name: "Translation", Description: "Between languages"},
		{ID: 802, DirectionID: 8, Name: "Language Learning", Description: "Acquiring new languages"},
	}
}

// DefaultMembers is the seed membership, keyed by room ID.
func DefaultMembers() map[int64][]api.UserRoom {
	member := func(roomID, userID int64, name string, role api.RoomRole) api.UserRoom {
		return api.UserRoom{UserID: userID, RoomID: roomID, Name: name, Role: role}
	}
	return map[int64][]api.UserRoom{
		101: {
			member(101, 1, "Demo User", api.RoomRoleOwner),
			member(101, 2, "Dr. Alice", api.RoomRoleAdmin),
			member(101, 4, "Charlie Developer", api.RoomRoleMember),
		},
		201: {
			member(201, 2, "Dr. Alice", api.RoomRoleOwner),
			member(201, 1, "Demo User", api.RoomRoleMember),
			member(201, 3, "Dr. Bob", api.RoomRoleAdmin),
		},
		301: {
			member(301, 3, "Elena Lawyer", api.RoomRoleOwner),
			member(301, 1, "Demo User", api.RoomRoleMember),
		},
		401: {
			member(401, 5, "Mark Business", api.RoomRoleOwner),
			member(401, 1, "Demo User", api.RoomRoleMember),
		},
		501: {
			member(501, 6, "Sarah Architect", api.RoomRoleOwner),
			member(501, 4, "Charlie Developer", api.RoomRoleMember),
		},
		602: {
			member(602, 7, "Eng. Tom", api.RoomRoleOwner),
			member(602, 1, "Demo User", api.RoomRoleMember),
		},
		701: {
			member(701, 8, "Dr. Freud", api.RoomRoleOwner),
			member(701, 9, "Anna Psychologist", api.RoomRoleMember),
		},
	}
}
