package store

import (
	"context"

	"github.com/intern-hub/intern-portal-hub/internal/domain/entity"
	"github.com/intern-hub/intern-portal-hub/internal/domain/shared"
)

func studentID(s entity.Student) int { return s.ID }

// CreateStudent appends a new student profile with an engine-assigned id
// and creation timestamp.
func (s *Store) CreateStudent(ctx context.Context, stu entity.Student) (entity.Student, error) {
	event, err := s.mutate(ctx, "CreateStudent", func(st *State) (shared.Event, error) {
		stu.ID = nextID(st.Students, studentID)
		stu.CreatedAt = s.now()
		st.Students = append(st.Students, stu)
		return s.newEvent(shared.KindStudent, shared.OpCreated, stu), nil
	})
	if err != nil {
		return entity.Student{}, err
	}
	return event.Record.(entity.Student), nil
}

// GetStudentByID returns the student with the given id, or ErrStudentNotFound.
func (s *Store) GetStudentByID(ctx context.Context, id int) (entity.Student, error) {
	var (
		out   entity.Student
		found bool
	)
	if err := s.read("GetStudentByID", func(st *State) {
		if i := indexByID(st.Students, studentID, id); i >= 0 {
			out, found = st.Students[i], true
		}
	}); err != nil {
		return entity.Student{}, err
	}
	if !found {
		return entity.Student{}, ErrStudentNotFound
	}
	return out, nil
}

// GetStudentByUserID returns the student profile behind a user account.
func (s *Store) GetStudentByUserID(ctx context.Context, userID int) (entity.Student, error) {
	var (
		out   entity.Student
		found bool
	)
	if err := s.read("GetStudentByUserID", func(st *State) {
		for _, stu := range st.Students {
			if stu.UserID == userID {
				out, found = stu, true
				return
			}
		}
	}); err != nil {
		return entity.Student{}, err
	}
	if !found {
		return entity.Student{}, ErrStudentNotFound
	}
	return out, nil
}

// UpdateStudent shallow-merges the patch over the stored student.
func (s *Store) UpdateStudent(ctx context.Context, id int, patch entity.StudentPatch) (entity.Student, error) {
	event, err := s.mutate(ctx, "UpdateStudent", func(st *State) (shared.Event, error) {
		i := indexByID(st.Students, studentID, id)
		if i < 0 {
			return shared.Event{}, ErrStudentNotFound
		}
		stu := st.Students[i]
		if patch.UserID != nil {
			stu.UserID = *patch.UserID
		}
		if patch.Name != nil {
			stu.Name = *patch.Name
		}
		if patch.RollNumber != nil {
			stu.RollNumber = *patch.RollNumber
		}
		if patch.Department != nil {
			stu.Department = *patch.Department
		}
		if patch.TeacherID != nil {
			stu.TeacherID = *patch.TeacherID
		}
		if patch.Company != nil {
			stu.Company = *patch.Company
		}
		st.Students[i] = stu
		return s.newEvent(shared.KindStudent, shared.OpUpdated, stu), nil
	})
	if err != nil {
		return entity.Student{}, err
	}
	return event.Record.(entity.Student), nil
}

// ListStudents returns every student profile.
func (s *Store) ListStudents(ctx context.Context) ([]entity.Student, error) {
	var out []entity.Student
	err := s.read("ListStudents", func(st *State) {
		out = filterCopy(st.Students, func(entity.Student) bool { return true })
	})
	return out, err
}

// ListStudentsByTeacher returns the students supervised by a teacher.
func (s *Store) ListStudentsByTeacher(ctx context.Context, teacherID int) ([]entity.Student, error) {
	var out []entity.Student
	err := s.read("ListStudentsByTeacher", func(st *State) {
		out = filterCopy(st.Students, func(stu entity.Student) bool { return stu.TeacherID == teacherID })
	})
	return out, err
}
