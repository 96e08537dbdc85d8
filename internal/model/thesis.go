package model

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// ThesisStatus is the lifecycle stage of a thesis.
type ThesisStatus string

const (
	ThesisProposal   ThesisStatus = "PROPOSAL"
	ThesisInProgress ThesisStatus = "IN_PROGRESS"
	ThesisRevision   ThesisStatus = "REVISION"
	ThesisCompleted  ThesisStatus = "COMPLETED"
)

func (s ThesisStatus) Valid() bool {
	switch s {
	case ThesisProposal, ThesisInProgress, ThesisRevision, ThesisCompleted:
		return true
	}
	return false
}

// Thesis belongs to one student and is supervised by one or more lecturers.
type Thesis struct {
	ID          uint64       `db:"id" json:"id"`
	StudentID   uint64       `db:"student_id" json:"student_id"`
	Title       string       `db:"title" json:"title"`
	Description null.String  `db:"description" json:"description"`
	Status      ThesisStatus `db:"status" json:"status"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at" json:"updated_at"`
}

// ThesisLecturer links a thesis to a supervising lecturer. The first lecturer
// given at thesis creation is marked primary.
type ThesisLecturer struct {
	ID         uint64    `db:"id" json:"id"`
	ThesisID   uint64    `db:"thesis_id" json:"thesis_id"`
	LecturerID uint64    `db:"lecturer_id" json:"lecturer_id"`
	IsPrimary  bool      `db:"is_primary" json:"is_primary"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// ThesisExportRow is a denormalized thesis line used for spreadsheet export.
type ThesisExportRow struct {
	ThesisID        uint64       `db:"thesis_id"`
	Title           string       `db:"title"`
	Status          ThesisStatus `db:"status"`
	StudentNumber   string       `db:"student_number"`
	StudentName     string       `db:"student_name"`
	PrimaryLecturer null.String  `db:"primary_lecturer"`
	SessionCount    int64        `db:"session_count"`
	UpdatedAt       time.Time    `db:"updated_at"`
}

// ThesisDetail is a thesis together with its supervisor links.
type ThesisDetail struct {
	Thesis
	Lecturers []ThesisLecturer `json:"lecturers"`
}
