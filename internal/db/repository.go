package db

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	"academic-records-db/internal/model"
	"academic-records-db/pkg/errors"
)

type Repository interface {
	// SaveDocument runs the whole multi-entity upsert plus the success audit
	// row in one transaction. Referential failures roll everything back.
	SaveDocument(ctx context.Context, doc *model.Document, log *model.ImportLog) (*model.ImportResult, error)

	InsertImportLog(ctx context.Context, log *model.ImportLog) (int64, error)
	GetImportLog(ctx context.Context, id int64) (*model.ImportLog, error)
	ListImportLogs(ctx context.Context, userID *int64) ([]model.ImportLog, error)

	GetStudent(ctx context.Context, id int64) (*model.Student, error)
	ListStudents(ctx context.Context, courseCode string) ([]model.Student, error)
	GetStudentEnrollments(ctx context.Context, studentID int64) ([]model.StudentEnrollment, error)
	GetClassGrades(ctx context.Context, classID int64) ([]float64, error)
	GetCourseGrades(ctx context.Context, courseCode string) ([]float64, error)
	GetAllGrades(ctx context.Context) ([]float64, error)

	ListCourses(ctx context.Context) ([]model.Course, error)
	ListClasses(ctx context.Context, courseCode, semester string) ([]model.ClassWithCourse, error)
	CountStudents(ctx context.Context) (int, error)
	CountCourses(ctx context.Context) (int, error)
	CountClasses(ctx context.Context) (int, error)
	CountImports(ctx context.Context, status model.ImportStatus) (int, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) SaveDocument(ctx context.Context, doc *model.Document, log *model.ImportLog) (*model.ImportResult, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	courseIDs, err := r.upsertCourses(ctx, tx, doc.Courses)
	if err != nil {
		return nil, err
	}

	classIDs, err := r.upsertClasses(ctx, tx, doc.Classes, courseIDs)
	if err != nil {
		return nil, err
	}

	studentIDs, err := r.upsertStudents(ctx, tx, doc.Students)
	if err != nil {
		return nil, err
	}

	if err := r.upsertEnrollments(ctx, tx, doc.Grades, studentIDs, classIDs); err != nil {
		return nil, err
	}

	logID, err := insertImportLog(ctx, tx, log)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	// Counts report document rows, not distinct keys, matching the audit
	// convention of RecordsImported.
	return &model.ImportResult{
		ImportLogID:         logID,
		StudentsImported:    len(doc.Students),
		CoursesImported:     len(doc.Courses),
		ClassesImported:     len(doc.Classes),
		EnrollmentsImported: len(doc.Grades),
	}, nil
}

// The LAST_INSERT_ID(id) trick makes the upsert hand back the surrogate id on
// both the insert and the update path.
func (r *repository) upsertCourses(ctx context.Context, tx *sql.Tx, courses []model.CourseRow) (map[string]int64, error) {
	query := `INSERT INTO courses (code, name, workload) VALUES (?, ?, ?)
			  ON DUPLICATE KEY UPDATE id = LAST_INSERT_ID(id), name = VALUES(name), workload = VALUES(workload)`

	ids := make(map[string]int64, len(courses))
	for _, course := range courses {
		res, err := tx.ExecContext(ctx, query, course.Code, course.Name, course.Workload)
		if err != nil {
			return nil, fmt.Errorf("failed to upsert course %s: %w", course.Code, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		ids[course.Code] = id
	}
	return ids, nil
}

func (r *repository) upsertClasses(ctx context.Context, tx *sql.Tx, classes []model.ClassRow, courseIDs map[string]int64) (map[string]int64, error) {
	query := `INSERT INTO classes (class_id, course_id, semester) VALUES (?, ?, ?)
			  ON DUPLICATE KEY UPDATE id = LAST_INSERT_ID(id), course_id = VALUES(course_id), semester = VALUES(semester)`

	ids := make(map[string]int64, len(classes))
	for _, class := range classes {
		courseID, ok := courseIDs[class.CourseCode]
		if !ok {
			return nil, errors.NewInputError("Curso não encontrado: %s para turma %s", class.CourseCode, class.ID)
		}

		res, err := tx.ExecContext(ctx, query, class.ID, courseID, class.Semester)
		if err != nil {
			return nil, fmt.Errorf("failed to upsert class %s: %w", class.ID, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		ids[class.ID] = id
	}
	return ids, nil
}

func (r *repository) upsertStudents(ctx context.Context, tx *sql.Tx, students []model.StudentRow) (map[string]int64, error) {
	query := `INSERT INTO students (ra, name) VALUES (?, ?)
			  ON DUPLICATE KEY UPDATE id = LAST_INSERT_ID(id), name = VALUES(name)`

	ids := make(map[string]int64, len(students))
	for _, student := range students {
		res, err := tx.ExecContext(ctx, query, student.RA, student.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to upsert student %s: %w", student.RA, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		ids[student.RA] = id
	}
	return ids, nil
}

func (r *repository) upsertEnrollments(ctx context.Context, tx *sql.Tx, grades []model.GradeRow, studentIDs, classIDs map[string]int64) error {
	query := `INSERT INTO enrollments (student_id, class_id, grade) VALUES (?, ?, ?)
			  ON DUPLICATE KEY UPDATE grade = VALUES(grade)`

	for _, grade := range grades {
		studentID, ok := studentIDs[grade.RA]
		if !ok {
			return errors.NewInputError("Aluno não encontrado: %s", grade.RA)
		}
		classID, ok := classIDs[grade.ClassID]
		if !ok {
			return errors.NewInputError("Turma não encontrada: %s", grade.ClassID)
		}

		if _, err := tx.ExecContext(ctx, query, studentID, classID, grade.Value); err != nil {
			return fmt.Errorf("failed to upsert enrollment %s/%s: %w", grade.RA, grade.ClassID, err)
		}
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func insertImportLog(ctx context.Context, ex execer, log *model.ImportLog) (int64, error) {
	query := `INSERT INTO import_logs (user_id, file_name, file_hash, records_imported, status, error_message, processing_time_ms)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	res, err := ex.ExecContext(ctx, query, log.UserID, log.FileName, log.FileHash,
		log.RecordsImported, log.Status, log.ErrorMessage, log.ProcessingTime)
	if err != nil {
		return 0, fmt.Errorf("failed to insert import log: %w", err)
	}
	return res.LastInsertId()
}

func (r *repository) InsertImportLog(ctx context.Context, log *model.ImportLog) (int64, error) {
	return insertImportLog(ctx, r.db, log)
}

func (r *repository) GetImportLog(ctx context.Context, id int64) (*model.ImportLog, error) {
	query := `SELECT id, user_id, file_name, file_hash, records_imported, status, error_message, processing_time_ms, created_at
			  FROM import_logs WHERE id = ?`

	var log model.ImportLog
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&log.ID, &log.UserID, &log.FileName, &log.FileHash, &log.RecordsImported,
		&log.Status, &log.ErrorMessage, &log.ProcessingTime, &log.CreatedAt,
	)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.ErrImportNotFound
	}
	if err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *repository) ListImportLogs(ctx context.Context, userID *int64) ([]model.ImportLog, error) {
	query := `SELECT id, user_id, file_name, file_hash, records_imported, status, error_message, processing_time_ms, created_at
			  FROM import_logs`
	args := []interface{}{}
	if userID != nil {
		query += ` WHERE user_id = ?`
		args = append(args, *userID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []model.ImportLog
	for rows.Next() {
		var log model.ImportLog
		if err := rows.Scan(&log.ID, &log.UserID, &log.FileName, &log.FileHash,
			&log.RecordsImported, &log.Status, &log.ErrorMessage,
			&log.ProcessingTime, &log.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}

func (r *repository) GetStudent(ctx context.Context, id int64) (*model.Student, error) {
	var student model.Student
	err := r.db.QueryRowContext(ctx, `SELECT id, ra, name FROM students WHERE id = ?`, id).
		Scan(&student.ID, &student.RA, &student.Name)
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *repository) ListStudents(ctx context.Context, courseCode string) ([]model.Student, error) {
	query := `SELECT id, ra, name FROM students ORDER BY name ASC`
	args := []interface{}{}
	if courseCode != "" {
		query = `SELECT DISTINCT s.id, s.ra, s.name FROM students s
				 JOIN enrollments e ON e.student_id = s.id
				 JOIN classes cl ON cl.id = e.class_id
				 JOIN courses c ON c.id = cl.course_id
				 WHERE c.code = ? ORDER BY s.name ASC`
		args = append(args, courseCode)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []model.Student
	for rows.Next() {
		var student model.Student
		if err := rows.Scan(&student.ID, &student.RA, &student.Name); err != nil {
			return nil, err
		}
		students = append(students, student)
	}
	return students, rows.Err()
}

func (r *repository) GetStudentEnrollments(ctx context.Context, studentID int64) ([]model.StudentEnrollment, error) {
	query := `SELECT e.grade, c.code, c.name, c.workload, cl.semester
			  FROM enrollments e
			  JOIN classes cl ON cl.id = e.class_id
			  JOIN courses c ON c.id = cl.course_id
			  WHERE e.student_id = ?`

	rows, err := r.db.QueryContext(ctx, query, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enrollments []model.StudentEnrollment
	for rows.Next() {
		var e model.StudentEnrollment
		if err := rows.Scan(&e.Grade, &e.CourseCode, &e.CourseName, &e.Workload, &e.Semester); err != nil {
			return nil, err
		}
		enrollments = append(enrollments, e)
	}
	return enrollments, rows.Err()
}

func (r *repository) GetClassGrades(ctx context.Context, classID int64) ([]float64, error) {
	return r.queryGrades(ctx, `SELECT grade FROM enrollments WHERE class_id = ?`, classID)
}

func (r *repository) GetCourseGrades(ctx context.Context, courseCode string) ([]float64, error) {
	query := `SELECT e.grade FROM enrollments e
			  JOIN classes cl ON cl.id = e.class_id
			  JOIN courses c ON c.id = cl.course_id
			  WHERE c.code = ?`
	return r.queryGrades(ctx, query, courseCode)
}

func (r *repository) GetAllGrades(ctx context.Context) ([]float64, error) {
	return r.queryGrades(ctx, `SELECT grade FROM enrollments`)
}

func (r *repository) queryGrades(ctx context.Context, query string, args ...interface{}) ([]float64, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grades []float64
	for rows.Next() {
		var grade float64
		if err := rows.Scan(&grade); err != nil {
			return nil, err
		}
		grades = append(grades, grade)
	}
	return grades, rows.Err()
}

func (r *repository) ListCourses(ctx context.Context) ([]model.Course, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, code, name, workload FROM courses ORDER BY code ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		var course model.Course
		if err := rows.Scan(&course.ID, &course.Code, &course.Name, &course.Workload); err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}
	return courses, rows.Err()
}

func (r *repository) ListClasses(ctx context.Context, courseCode, semester string) ([]model.ClassWithCourse, error) {
	query := `SELECT cl.id, cl.class_id, c.code, c.name, cl.semester
			  FROM classes cl
			  JOIN courses c ON c.id = cl.course_id`
	args := []interface{}{}
	where := ""
	if courseCode != "" {
		where = ` WHERE c.code = ?`
		args = append(args, courseCode)
	}
	if semester != "" {
		if where == "" {
			where = ` WHERE cl.semester = ?`
		} else {
			where += ` AND cl.semester = ?`
		}
		args = append(args, semester)
	}
	query += where + ` ORDER BY c.code ASC, cl.semester DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []model.ClassWithCourse
	for rows.Next() {
		var class model.ClassWithCourse
		if err := rows.Scan(&class.ID, &class.ClassID, &class.CourseCode, &class.CourseName, &class.Semester); err != nil {
			return nil, err
		}
		classes = append(classes, class)
	}
	return classes, rows.Err()
}

func (r *repository) CountStudents(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM students`)
}

func (r *repository) CountCourses(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM courses`)
}

func (r *repository) CountClasses(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM classes`)
}

func (r *repository) CountImports(ctx context.Context, status model.ImportStatus) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM import_logs WHERE status = ?`, status)
}

func (r *repository) count(ctx context.Context, query string, args ...interface{}) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
