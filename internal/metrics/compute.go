package metrics

import (
	"math"

	"academic-records-db/internal/model"
)

// ApprovalThreshold is the sole pass mark: a grade passes iff grade >= 6,
// with no rounding before the comparison.
const ApprovalThreshold = 6.0

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func StatusFor(grade float64) string {
	if grade >= ApprovalThreshold {
		return model.StatusApproved
	}
	return model.StatusFailed
}

// StudentFromEnrollments derives the weighted GPA and per-discipline detail
// for one student. GPA weights each grade by the course workload; a zero
// total workload yields GPA 0. The overall status is Aprovado only when the
// GPA passes and no single discipline is failed.
func StudentFromEnrollments(enrollments []model.StudentEnrollment) *model.StudentMetrics {
	if len(enrollments) == 0 {
		return &model.StudentMetrics{
			GPA:           0,
			OverallStatus: model.StatusNotApplicable,
			Disciplines:   []model.Discipline{},
		}
	}

	var totalWeighted, totalWorkload float64
	hasFailed := false
	disciplines := make([]model.Discipline, 0, len(enrollments))

	for _, e := range enrollments {
		status := StatusFor(e.Grade)
		if status == model.StatusFailed {
			hasFailed = true
		}

		totalWeighted += e.Grade * float64(e.Workload)
		totalWorkload += float64(e.Workload)

		disciplines = append(disciplines, model.Discipline{
			CourseCode: e.CourseCode,
			CourseName: e.CourseName,
			Grade:      e.Grade,
			Status:     status,
			Semester:   e.Semester,
			Workload:   e.Workload,
		})
	}

	gpa := 0.0
	if totalWorkload > 0 {
		gpa = totalWeighted / totalWorkload
	}

	overall := model.StatusFailed
	if gpa >= ApprovalThreshold && !hasFailed {
		overall = model.StatusApproved
	}

	return &model.StudentMetrics{
		GPA:           Round2(gpa),
		OverallStatus: overall,
		Disciplines:   disciplines,
	}
}

// Describe computes mean, population standard deviation and approval rate
// over a grade set. Rounding happens here, at the presentation boundary.
func Describe(grades []float64) *model.GradeStats {
	if len(grades) == 0 {
		return &model.GradeStats{}
	}

	n := float64(len(grades))
	sum := 0.0
	approved := 0
	for _, g := range grades {
		sum += g
		if g >= ApprovalThreshold {
			approved++
		}
	}
	mean := sum / n

	variance := 0.0
	for _, g := range grades {
		variance += (g - mean) * (g - mean)
	}
	variance /= n

	return &model.GradeStats{
		Average:           Round2(mean),
		StandardDeviation: Round2(math.Sqrt(variance)),
		ApprovalRate:      Round2(float64(approved) / n * 100),
		TotalStudents:     len(grades),
	}
}
