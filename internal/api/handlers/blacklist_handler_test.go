package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/textforge/smshub/internal/api/response"
	"github.com/textforge/smshub/internal/models"
	"github.com/textforge/smshub/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// BlacklistHandlerTestSuite is the test suite for BlacklistHandler
type BlacklistHandlerTestSuite struct {
	suite.Suite
	echo    *echo.Echo
	db      *gorm.DB
	handler *BlacklistHandler
	repo    repository.BlacklistRepository
}

// SetupSuite runs once before all tests
func (s *BlacklistHandlerTestSuite) SetupSuite() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(s.T(), err)
	require.NoError(s.T(), db.AutoMigrate(&models.BlacklistEntry{}))

	s.db = db
	s.echo = echo.New()
	s.repo = repository.NewBlacklistRepository(db)
	s.handler = NewBlacklistHandler(s.repo)
}

// TearDownSuite runs once after all tests
func (s *BlacklistHandlerTestSuite) TearDownSuite() {
	sqlDB, _ := s.db.DB()
	if sqlDB != nil {
		sqlDB.Close()
	}
}

// SetupTest runs before each test
func (s *BlacklistHandlerTestSuite) SetupTest() {
	s.db.Exec("DELETE FROM blacklist")
}

// TestBlacklistHandlerTestSuite runs the test suite
func TestBlacklistHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(BlacklistHandlerTestSuite))
}

func (s *BlacklistHandlerTestSuite) createContext(method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)
	return c, rec
}

func (s *BlacklistHandlerTestSuite) TestCreate_BlockedNumber() {
	// Act
	c, rec := s.createContext(http.MethodPost, "/api/blacklist", `{"phone_number": "+1 (555) 123-4567"}`)
	err := s.handler.Create(c)

	// Assert
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), http.StatusCreated, rec.Code)

	blocked, err := s.repo.IsBlacklisted(context.Background(), "5551234567")
	require.NoError(s.T(), err)
	assert.True(s.T(), blocked)
}

func (s *BlacklistHandlerTestSuite) TestCreate_BlockedPhrase() {
	// Act
	c, rec := s.createContext(http.MethodPost, "/api/blacklist", `{"phrase": "free money"}`)
	err := s.handler.Create(c)

	// Assert
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), http.StatusCreated, rec.Code)

	blocked, err := s.repo.ContainsBlockedPhrase(context.Background(), "get FREE MONEY here")
	require.NoError(s.T(), err)
	assert.True(s.T(), blocked)
}

func (s *BlacklistHandlerTestSuite) TestCreate_EmptyRejected() {
	// Act
	c, rec := s.createContext(http.MethodPost, "/api/blacklist", `{}`)
	err := s.handler.Create(c)

	// Assert
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), http.StatusBadRequest, rec.Code)
}

func (s *BlacklistHandlerTestSuite) TestCreate_InvalidNumberRejected() {
	// Act
	c, rec := s.createContext(http.MethodPost, "/api/blacklist", `{"phone_number": "not a number"}`)
	err := s.handler.Create(c)

	// Assert
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), http.StatusBadRequest, rec.Code)
}

func (s *BlacklistHandlerTestSuite) TestList() {
	// Arrange
	require.NoError(s.T(), s.repo.Create(context.Background(), &models.BlacklistEntry{PhoneNumber: "5551234567"}))

	// Act
	c, rec := s.createContext(http.MethodGet, "/api/blacklist", "")
	err := s.handler.List(c)

	// Assert
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), http.StatusOK, rec.Code)

	var resp response.APIResponse
	require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(s.T(), resp.Success)
}

func (s *BlacklistHandlerTestSuite) TestDelete_NotFound() {
	// Act
	c, rec := s.createContext(http.MethodDelete, "/", "")
	c.SetParamNames("id")
	c.SetParamValues("99999")
	err := s.handler.Delete(c)

	// Assert
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), http.StatusNotFound, rec.Code)
}
