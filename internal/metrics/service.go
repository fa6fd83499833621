package metrics

import (
	"context"

	"academic-records-db/internal/db"
	"academic-records-db/internal/logger"
	"academic-records-db/internal/model"

	"github.com/rs/zerolog"
)

// Service recomputes every metric from current persisted state on each call.
// Nothing is cached: the dataset is upsert-only and reads are not
// latency-sensitive, so recomputation avoids invalidation entirely.
type Service struct {
	repo db.Repository
	log  zerolog.Logger
}

func NewService(repo db.Repository) *Service {
	return &Service{
		repo: repo,
		log:  logger.Get(),
	}
}

func (s *Service) Student(ctx context.Context, studentID int64) (*model.StudentMetrics, error) {
	enrollments, err := s.repo.GetStudentEnrollments(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return StudentFromEnrollments(enrollments), nil
}

func (s *Service) Class(ctx context.Context, classID int64) (*model.GradeStats, error) {
	grades, err := s.repo.GetClassGrades(ctx, classID)
	if err != nil {
		return nil, err
	}
	return Describe(grades), nil
}

// Course pools the grades of every class under the course. An unknown course
// code simply has no grades and yields all zeros.
func (s *Service) Course(ctx context.Context, courseCode string) (*model.GradeStats, error) {
	grades, err := s.repo.GetCourseGrades(ctx, courseCode)
	if err != nil {
		return nil, err
	}
	return Describe(grades), nil
}

// Overall reports system-wide aggregates. The overall GPA averages each
// student's own GPA, counting only students whose GPA is positive; students
// without enrollments or with zero-workload-only enrollments are excluded.
// That mirrors the historical behavior and is kept deliberately.
func (s *Service) Overall(ctx context.Context) (*model.OverallMetrics, error) {
	allGrades, err := s.repo.GetAllGrades(ctx)
	if err != nil {
		return nil, err
	}
	if len(allGrades) == 0 {
		return &model.OverallMetrics{}, nil
	}

	students, err := s.repo.ListStudents(ctx, "")
	if err != nil {
		return nil, err
	}

	var gpaSum float64
	gpaCount := 0
	for _, student := range students {
		m, err := s.Student(ctx, student.ID)
		if err != nil {
			return nil, err
		}
		if m.GPA > 0 {
			gpaSum += m.GPA
			gpaCount++
		}
	}

	overallGPA := 0.0
	if gpaCount > 0 {
		overallGPA = gpaSum / float64(gpaCount)
	}

	approved := 0
	for _, g := range allGrades {
		if g >= ApprovalThreshold {
			approved++
		}
	}

	return &model.OverallMetrics{
		TotalStudents:       len(students),
		OverallGPA:          Round2(overallGPA),
		OverallApprovalRate: Round2(float64(approved) / float64(len(allGrades)) * 100),
	}, nil
}

// Refresh is the post-import recalculation hook. Metrics are computed on
// read, so there is nothing to precompute yet; the import pipeline calls it
// after every successful commit.
func (s *Service) Refresh(ctx context.Context) error {
	s.log.Debug().Msg("Metrics refresh hook invoked")
	return nil
}
