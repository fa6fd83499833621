package model

import "time"

type Course struct {
	ID       int64  `json:"id" db:"id"`
	Code     string `json:"code" db:"code"`
	Name     string `json:"name" db:"name"`
	Workload int    `json:"workload" db:"workload"`
}

// Class is a section of a Course offered in a given semester. ClassID is the
// natural key from the source document (<Turma><Id>).
type Class struct {
	ID       int64  `json:"id" db:"id"`
	ClassID  string `json:"class_id" db:"class_id"`
	CourseID int64  `json:"course_id" db:"course_id"`
	Semester string `json:"semester" db:"semester"`
}

type Student struct {
	ID   int64  `json:"id" db:"id"`
	RA   string `json:"ra" db:"ra"`
	Name string `json:"name" db:"name"`
}

// Enrollment ties a student to a class with a grade. One row per
// (student, class); re-import overwrites the grade.
type Enrollment struct {
	ID        int64   `json:"id" db:"id"`
	StudentID int64   `json:"student_id" db:"student_id"`
	ClassID   int64   `json:"class_id" db:"class_id"`
	Grade     float64 `json:"grade" db:"grade"`
}

type ImportStatus string

const (
	ImportStatusSuccess ImportStatus = "success"
	ImportStatusFailure ImportStatus = "failure"
)

// ImportLog is the append-only audit record, one per import attempt.
type ImportLog struct {
	ID              int64        `json:"id" db:"id"`
	UserID          *int64       `json:"user_id,omitempty" db:"user_id"`
	FileName        string       `json:"file_name" db:"file_name"`
	FileHash        string       `json:"file_hash" db:"file_hash"`
	RecordsImported int          `json:"records_imported" db:"records_imported"`
	Status          ImportStatus `json:"status" db:"status"`
	ErrorMessage    *string      `json:"error_message,omitempty" db:"error_message"`
	ProcessingTime  int64        `json:"processing_time_ms" db:"processing_time_ms"`
	CreatedAt       time.Time    `json:"created_at" db:"created_at"`
}

// ClassWithCourse is the read model for class listings and reports.
type ClassWithCourse struct {
	ID         int64  `json:"id"`
	ClassID    string `json:"classId"`
	CourseCode string `json:"courseCode"`
	CourseName string `json:"courseName"`
	Semester   string `json:"semester"`
}
