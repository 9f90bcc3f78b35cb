package leaverequest_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-leaveflow/internal/leaverequest"
	leaverequesterrors "go-leaveflow/internal/leaverequest/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeService struct {
	submitFn        func(ctx context.Context, applicantID, applicantName string, req leaverequest.SubmitLeaveRequest) (leaverequest.LeaveRequestResponse, error)
	getAllFn        func(ctx context.Context, page, pageSize int) ([]leaverequest.LeaveRequestResponse, int64, error)
	getByIdentityFn func(ctx context.Context, identity string) (leaverequest.LeaveRequestResponse, error)
}

func (f *fakeService) Submit(ctx context.Context, applicantID, applicantName string, req leaverequest.SubmitLeaveRequest) (leaverequest.LeaveRequestResponse, error) {
	return f.submitFn(ctx, applicantID, applicantName, req)
}
func (f *fakeService) GetAll(ctx context.Context, page, pageSize int) ([]leaverequest.LeaveRequestResponse, int64, error) {
	return f.getAllFn(ctx, page, pageSize)
}
func (f *fakeService) GetByIdentity(ctx context.Context, identity string) (leaverequest.LeaveRequestResponse, error) {
	return f.getByIdentityFn(ctx, identity)
}

func TestHandler_Submit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeService{
		submitFn: func(ctx context.Context, applicantID, applicantName string, req leaverequest.SubmitLeaveRequest) (leaverequest.LeaveRequestResponse, error) {
			assert.Equal(t, "emp-1", applicantID)
			assert.Equal(t, "Ada Lovelace", applicantName)
			assert.Equal(t, "2026-03-10", req.FromDate)
			return leaverequest.LeaveRequestResponse{
				Identity: "abc", ApplicantID: applicantID, Status: leaverequest.StatusPending,
			}, nil
		},
	}
	h := leaverequest.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("user_id", "emp-1")
	c.Set("user_name", "Ada Lovelace")
	c.Request = httptest.NewRequest(http.MethodPost, "/leaves",
		strings.NewReader(`{"from_date":"2026-03-10","to_date":"2026-03-12"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Submit(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"PENDING"`)
}

func TestHandler_Submit_MissingIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := leaverequest.NewHandler(&fakeService{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(`{}`))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Submit(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandler_Submit_DuplicateConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeService{
		submitFn: func(ctx context.Context, applicantID, applicantName string, req leaverequest.SubmitLeaveRequest) (leaverequest.LeaveRequestResponse, error) {
			return leaverequest.LeaveRequestResponse{}, leaverequesterrors.ErrDuplicatePending
		},
	}
	h := leaverequest.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("user_id", "emp-1")
	c.Set("user_name", "Ada Lovelace")
	c.Request = httptest.NewRequest(http.MethodPost, "/leaves",
		strings.NewReader(`{"from_date":"2026-03-10","to_date":"2026-03-12"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Submit(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "CONFLICT")
}

func TestHandler_GetAllAndGetByIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeService{
		getAllFn: func(ctx context.Context, page, pageSize int) ([]leaverequest.LeaveRequestResponse, int64, error) {
			assert.Equal(t, 1, page)
			assert.Equal(t, 2, pageSize)
			return []leaverequest.LeaveRequestResponse{{Identity: "a"}, {Identity: "b"}}, 3, nil
		},
		getByIdentityFn: func(ctx context.Context, identity string) (leaverequest.LeaveRequestResponse, error) {
			return leaverequest.LeaveRequestResponse{Identity: identity, Status: leaverequest.StatusAccepted}, nil
		},
	}
	h := leaverequest.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/leaves?page=1&page_size=2", nil)
	h.GetAll(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "\"meta\"")
	assert.Contains(t, w.Body.String(), "\"total\":3")

	w2 := httptest.NewRecorder()
	c2, _ := gin.CreateTestContext(w2)
	c2.Params = gin.Params{{Key: "identity", Value: "a"}}
	c2.Request = httptest.NewRequest(http.MethodGet, "/leaves/a", nil)
	h.GetByIdentity(c2)
	assert.Equal(t, http.StatusOK, w2.Code)
	assert.Contains(t, w2.Body.String(), `"status":"ACCEPTED"`)
}
