package model

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// Student is the 1:1 student profile of a STUDENT user.
//
// Fields:
//  UserID    – owning users.id (unique).
//  StudentID – external student number, globally unique.
type Student struct {
	ID        uint64      `db:"id" json:"id"`
	UserID    uint64      `db:"user_id" json:"user_id"`
	StudentID string      `db:"student_id" json:"student_id"`
	FullName  string      `db:"full_name" json:"full_name"`
	Phone     null.String `db:"phone" json:"phone"`
	Address   null.String `db:"address" json:"address"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt time.Time   `db:"updated_at" json:"updated_at"`
}

// Lecturer is the 1:1 lecturer profile of a LECTURER user.
type Lecturer struct {
	ID             uint64      `db:"id" json:"id"`
	UserID         uint64      `db:"user_id" json:"user_id"`
	LecturerID     string      `db:"lecturer_id" json:"lecturer_id"`
	FullName       string      `db:"full_name" json:"full_name"`
	Phone          null.String `db:"phone" json:"phone"`
	Specialization null.String `db:"specialization" json:"specialization"`
	CreatedAt      time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time   `db:"updated_at" json:"updated_at"`
}
