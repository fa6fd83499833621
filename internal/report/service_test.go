package report

import (
	"context"
	stderrors "errors"
	"io"
	"strings"
	"testing"

	"academic-records-db/internal/metrics"
	"academic-records-db/internal/model"
	"academic-records-db/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRepository is a mock implementation of the db.Repository interface.
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) SaveDocument(ctx context.Context, doc *model.Document, log *model.ImportLog) (*model.ImportResult, error) {
	args := m.Called(ctx, doc, log)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ImportResult), args.Error(1)
}

func (m *MockRepository) InsertImportLog(ctx context.Context, log *model.ImportLog) (int64, error) {
	args := m.Called(ctx, log)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) GetImportLog(ctx context.Context, id int64) (*model.ImportLog, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ImportLog), args.Error(1)
}

func (m *MockRepository) ListImportLogs(ctx context.Context, userID *int64) ([]model.ImportLog, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ImportLog), args.Error(1)
}

func (m *MockRepository) GetStudent(ctx context.Context, id int64) (*model.Student, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Student), args.Error(1)
}

func (m *MockRepository) ListStudents(ctx context.Context, courseCode string) ([]model.Student, error) {
	args := m.Called(ctx, courseCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Student), args.Error(1)
}

func (m *MockRepository) GetStudentEnrollments(ctx context.Context, studentID int64) ([]model.StudentEnrollment, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.StudentEnrollment), args.Error(1)
}

func (m *MockRepository) GetClassGrades(ctx context.Context, classID int64) ([]float64, error) {
	args := m.Called(ctx, classID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float64), args.Error(1)
}

func (m *MockRepository) GetCourseGrades(ctx context.Context, courseCode string) ([]float64, error) {
	args := m.Called(ctx, courseCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float64), args.Error(1)
}

func (m *MockRepository) GetAllGrades(ctx context.Context) ([]float64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float64), args.Error(1)
}

func (m *MockRepository) ListCourses(ctx context.Context) ([]model.Course, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Course), args.Error(1)
}

func (m *MockRepository) ListClasses(ctx context.Context, courseCode, semester string) ([]model.ClassWithCourse, error) {
	args := m.Called(ctx, courseCode, semester)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ClassWithCourse), args.Error(1)
}

func (m *MockRepository) CountStudents(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) CountCourses(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) CountClasses(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) CountImports(ctx context.Context, status model.ImportStatus) (int, error) {
	args := m.Called(ctx, status)
	return args.Int(0), args.Error(1)
}

// MockStorage is a mock implementation of the storage.Storage interface.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockStorage) Upload(ctx context.Context, key string, data io.Reader) error {
	args := m.Called(ctx, key, data)
	return args.Error(0)
}

func (m *MockStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockStorage) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func importLog(hash string) *model.ImportLog {
	return &model.ImportLog{ID: 1, FileName: "notas.xml", FileHash: hash, Status: model.ImportStatusSuccess}
}

func TestConsolidatedGeneratesAndCachesOnFirstRequest(t *testing.T) {
	repo := new(MockRepository)
	store := new(MockStorage)

	repo.On("GetImportLog", mock.Anything, int64(1)).Return(importLog("abc123"), nil)
	repo.On("ListStudents", mock.Anything, "").Return([]model.Student{}, nil)
	store.On("Exists", mock.Anything, "consolidated/abc123.json").Return(false, nil)
	store.On("Upload", mock.Anything, "consolidated/abc123.json", mock.Anything).Return(nil)

	svc := NewService(repo, metrics.NewService(repo), store)
	content, err := svc.Consolidated(context.Background(), 1, "json")
	require.NoError(t, err)

	assert.Contains(t, string(content), "alunos")
	store.AssertCalled(t, "Upload", mock.Anything, "consolidated/abc123.json", mock.Anything)
}

func TestConsolidatedServesCachedArtifact(t *testing.T) {
	repo := new(MockRepository)
	store := new(MockStorage)

	cached := `{"geradoEm":"2024-03-01T12:00:00Z","alunos":[]}`
	repo.On("GetImportLog", mock.Anything, int64(1)).Return(importLog("abc123"), nil)
	store.On("Exists", mock.Anything, "consolidated/abc123.json").Return(true, nil)
	store.On("Download", mock.Anything, "consolidated/abc123.json").
		Return(io.NopCloser(strings.NewReader(cached)), nil)

	svc := NewService(repo, metrics.NewService(repo), store)
	content, err := svc.Consolidated(context.Background(), 1, "json")
	require.NoError(t, err)

	assert.Equal(t, cached, string(content))
	repo.AssertNotCalled(t, "ListStudents", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
}

// A storage outage during the cache lookup must not fail the request; the
// export is regenerated instead.
func TestConsolidatedRegeneratesWhenCacheLookupFails(t *testing.T) {
	repo := new(MockRepository)
	store := new(MockStorage)

	repo.On("GetImportLog", mock.Anything, int64(1)).Return(importLog("abc123"), nil)
	repo.On("ListStudents", mock.Anything, "").Return([]model.Student{}, nil)
	store.On("Exists", mock.Anything, "consolidated/abc123.json").
		Return(false, stderrors.New("connection refused"))
	store.On("Upload", mock.Anything, "consolidated/abc123.json", mock.Anything).Return(nil)

	svc := NewService(repo, metrics.NewService(repo), store)
	content, err := svc.Consolidated(context.Background(), 1, "json")
	require.NoError(t, err)

	assert.Contains(t, string(content), "alunos")
	store.AssertNotCalled(t, "Download", mock.Anything, mock.Anything)
}

func TestConsolidatedRejectsUnknownFormat(t *testing.T) {
	svc := NewService(new(MockRepository), metrics.NewService(new(MockRepository)), new(MockStorage))

	_, err := svc.Consolidated(context.Background(), 1, "xlsx")
	assert.ErrorIs(t, err, errors.ErrUnsupportedFormat)
}

func TestOriginalFileReturnsStoredBytes(t *testing.T) {
	repo := new(MockRepository)
	store := new(MockStorage)

	repo.On("GetImportLog", mock.Anything, int64(1)).Return(importLog("abc123"), nil)
	store.On("Download", mock.Anything, "uploads/abc123.xml").
		Return(io.NopCloser(strings.NewReader("<Importacao/>")), nil)

	svc := NewService(repo, metrics.NewService(repo), store)
	data, fileName, err := svc.OriginalFile(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, "<Importacao/>", string(data))
	assert.Equal(t, "notas.xml", fileName)
}

func TestOriginalFileMissingFromStorage(t *testing.T) {
	repo := new(MockRepository)
	store := new(MockStorage)

	repo.On("GetImportLog", mock.Anything, int64(1)).Return(importLog("abc123"), nil)
	store.On("Download", mock.Anything, "uploads/abc123.xml").Return(nil, errors.ErrOriginalFileMissing)

	svc := NewService(repo, metrics.NewService(repo), store)
	_, _, err := svc.OriginalFile(context.Background(), 1)
	assert.ErrorIs(t, err, errors.ErrOriginalFileMissing)
}
