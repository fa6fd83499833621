package model

// Status labels follow the source documents' language.
const (
	StatusApproved      = "Aprovado"
	StatusFailed        = "Reprovado"
	StatusNotApplicable = "N/A"
)

type Discipline struct {
	CourseCode string  `json:"courseCode"`
	CourseName string  `json:"courseName"`
	Grade      float64 `json:"grade"`
	Status     string  `json:"status"`
	Semester   string  `json:"semester"`
	Workload   int     `json:"workload"`
}

type StudentMetrics struct {
	GPA           float64      `json:"gpa"`
	OverallStatus string       `json:"overallStatus"`
	Disciplines   []Discipline `json:"disciplines"`
}

// GradeStats are the descriptive statistics shared by class and course
// metrics. StandardDeviation is the population deviation (divide by N).
type GradeStats struct {
	Average           float64 `json:"average"`
	StandardDeviation float64 `json:"standardDeviation"`
	ApprovalRate      float64 `json:"approvalRate"`
	TotalStudents     int     `json:"totalStudents"`
}

type OverallMetrics struct {
	TotalStudents       int     `json:"totalStudents"`
	OverallGPA          float64 `json:"overallGPA"`
	OverallApprovalRate float64 `json:"overallApprovalRate"`
}

type Dashboard struct {
	OverallMetrics
	TotalCourses int `json:"totalCourses"`
	TotalClasses int `json:"totalClasses"`
	TotalImports int `json:"totalImports"`
}

// StudentEnrollment is the read model joining an enrollment with its class
// and course, as needed by the metrics engine.
type StudentEnrollment struct {
	Grade      float64
	CourseCode string
	CourseName string
	Workload   int
	Semester   string
}

type StudentReport struct {
	Student
	StudentMetrics
}

type ClassReport struct {
	ClassWithCourse
	GradeStats
}

type CourseReport struct {
	Course
	GradeStats
}
