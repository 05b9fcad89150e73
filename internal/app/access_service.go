package app

import "sort"

// AccessService decides who may use the bot. The allow-list is fixed at startup.
type AccessService struct {
	teachers map[int64]struct{}
}

func NewAccessService(teacherIDs []int64) *AccessService {
	teachers := make(map[int64]struct{}, len(teacherIDs))
	for _, id := range teacherIDs {
		teachers[id] = struct{}{}
	}
	return &AccessService{teachers: teachers}
}

// HasAccess reports whether the Telegram user is one of the teachers.
func (s *AccessService) HasAccess(userID int64) bool {
	_, ok := s.teachers[userID]
	return ok
}

// TeacherIDs returns the allow-list in ascending order.
func (s *AccessService) TeacherIDs() []int64 {
	ids := make([]int64, 0, len(s.teachers))
	for id := range s.teachers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
