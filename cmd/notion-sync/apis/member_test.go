package apis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"notion-sync-backend/cmd/notion-sync/model"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockMemberRepo implements IMemberRepo interface for testing
type MockMemberRepo struct {
	mock.Mock
}

func (m *MockMemberRepo) ListMembers(ctx context.Context) ([]model.Member, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Member), args.Error(1)
}

func (m *MockMemberRepo) CreateMember(ctx context.Context, member model.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func multipartCSV(t *testing.T, content string) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	csvField, err := writer.CreateFormFile("csvfile", "members.csv")
	assert.NoError(t, err)
	_, err = csvField.Write([]byte(content))
	assert.NoError(t, err)

	assert.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func TestMemberAPI_ImportMembers_ValidCSV(t *testing.T) {
	e := echo.New()

	body, contentType := multipartCSV(t, `student_number,first_name,last_name,preferred_name,email,status,faculty,college,program,year_of_study,country,registration_date,last_update
202400123,Amina,Haddad,,amina@example.edu,Active,Engineering,Main Campus,Computer Science,3,Lebanon,2023-05-01 12:00:00,
202400456,Omar,Khalil,Oz,omar@example.edu,Alumni,Business,City Campus,Finance,4,Jordan,2022-09-15 09:30:00,2024-01-10 18:00:00`)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/members", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mockRepo := new(MockMemberRepo)
	api := NewMemberAPI(mockRepo)

	mockRepo.On("CreateMember", mock.Anything, mock.MatchedBy(func(m model.Member) bool {
		return m.StudentNumber == 202400123 && m.RegistrationDate.Valid
	})).Return(nil)
	mockRepo.On("CreateMember", mock.Anything, mock.MatchedBy(func(m model.Member) bool {
		return m.StudentNumber == 202400456 && m.LastUpdate.Valid
	})).Return(nil)

	err := api.importMembers(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var response model.BaseResponse
	err = json.Unmarshal(rec.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "success", response.Message)

	mockRepo.AssertExpectations(t)
}

func TestMemberAPI_ImportMembers_MissingFile(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/members", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mockRepo := new(MockMemberRepo)
	api := NewMemberAPI(mockRepo)

	err := api.importMembers(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMemberAPI_ImportMembers_RowError(t *testing.T) {
	e := echo.New()

	body, contentType := multipartCSV(t, `student_number,first_name,last_name,preferred_name,email,status,faculty,college,program,year_of_study,country,registration_date,last_update
202400123,Amina,Haddad,,amina@example.edu,Active,Engineering,Main Campus,Computer Science,3,Lebanon,2023-05-01 12:00:00,`)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/members", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mockRepo := new(MockMemberRepo)
	api := NewMemberAPI(mockRepo)

	mockRepo.On("CreateMember", mock.Anything, mock.Anything).Return(errors.New("duplicate key value"))

	err := api.importMembers(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var response model.BaseResponse
	err = json.Unmarshal(rec.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Contains(t, response.Message, "duplicate key value")
	assert.Contains(t, response.Message, "202400123")

	mockRepo.AssertExpectations(t)
}

func TestMemberAPI_ListMembers_Success(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/members", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mockRepo := new(MockMemberRepo)
	api := NewMemberAPI(mockRepo)

	mockRepo.On("ListMembers", mock.Anything).Return([]model.Member{
		{ID: 1, StudentNumber: 202400123, FirstName: "Amina"},
	}, nil)

	err := api.listMembers(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	mockRepo.AssertExpectations(t)
}
