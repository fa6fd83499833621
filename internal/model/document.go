package model

// Document is the strongly-typed form of a parsed import file. All XML
// unwrapping happens in the xmldoc package; downstream code only sees these
// rows.
type Document struct {
	Courses  []CourseRow
	Classes  []ClassRow
	Students []StudentRow
	Grades   []GradeRow
}

type CourseRow struct {
	Code     string
	Name     string
	Workload int
}

type ClassRow struct {
	ID         string
	CourseCode string
	Semester   string
}

type StudentRow struct {
	RA   string
	Name string
}

type GradeRow struct {
	RA      string
	ClassID string
	Value   float64
}

type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// ImportResult is the success payload of one import attempt.
type ImportResult struct {
	ImportLogID         int64 `json:"importLogId"`
	StudentsImported    int   `json:"studentsImported"`
	CoursesImported     int   `json:"coursesImported"`
	ClassesImported     int   `json:"classesImported"`
	EnrollmentsImported int   `json:"enrollmentsImported"`
}

// ImportJob is the queue message for asynchronous imports. The file bytes are
// already in object storage under StorageKey when the job is enqueued.
type ImportJob struct {
	StorageKey string `json:"storage_key"`
	FileName   string `json:"file_name"`
	UserID     *int64 `json:"user_id,omitempty"`
}
