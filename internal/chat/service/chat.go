// Package service maps chat-gateway JSON onto the dialog engine and
// hands the engine's reply directives back to the message renderer.
// The renderer itself (keyboards, media, date-picker widgets) lives
// outside this process.
package service

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ViacheslavGolubkov/hotelscout/internal/criteria"
	historybiz "github.com/ViacheslavGolubkov/hotelscout/internal/history/biz"
	"github.com/ViacheslavGolubkov/hotelscout/internal/photos"
	apperrors "github.com/ViacheslavGolubkov/hotelscout/internal/pkg/errors"
	sessionbiz "github.com/ViacheslavGolubkov/hotelscout/internal/session/biz"
	userbiz "github.com/ViacheslavGolubkov/hotelscout/internal/user/biz"
)

// respondError maps a coded error onto the HTTP response. Errors
// without a code count as internal.
func respondError(c *gin.Context, err error) {
	appErr := apperrors.Wrap(err, apperrors.ErrInternalServer)
	c.JSON(appErr.HTTPStatus(), gin.H{
		"code":  appErr.Code,
		"error": appErr.Message,
	})
}

type ChatService struct {
	engine  *sessionbiz.Engine
	history *historybiz.HistoryUseCase
	users   *userbiz.UserUseCase
	photos  *photos.PhotoUseCase
	logger  *zap.Logger
}

func NewChatService(
	engine *sessionbiz.Engine,
	history *historybiz.HistoryUseCase,
	users *userbiz.UserUseCase,
	photos *photos.PhotoUseCase,
	logger *zap.Logger,
) *ChatService {
	return &ChatService{
		engine:  engine,
		history: history,
		users:   users,
		photos:  photos,
		logger:  logger,
	}
}

type BeginRequest struct {
	UserID    int64  `json:"user_id" binding:"required"`
	Mode      string `json:"mode" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
}

func (s *ChatService) Begin(c *gin.Context) {
	var req BeginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// First contact registers the user; duplicates are a no-op.
	if _, err := s.users.Register(c.Request.Context(), req.UserID, req.FirstName, req.LastName, req.Username); err != nil {
		s.logger.Warn("failed to register user", zap.Int64("user_id", req.UserID), zap.Error(err))
	}

	reply, err := s.engine.Begin(c.Request.Context(), req.UserID, criteria.Mode(req.Mode))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reply)
}

type TextRequest struct {
	UserID int64  `json:"user_id" binding:"required"`
	Text   string `json:"text" binding:"required"`
}

func (s *ChatService) Text(c *gin.Context) {
	var req TextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply, err := s.engine.OnText(c.Request.Context(), req.UserID, req.Text)
	if err != nil {
		s.logger.Error("text update failed", zap.Int64("user_id", req.UserID), zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reply)
}

type SelectionRequest struct {
	UserID  int64                `json:"user_id" binding:"required"`
	Payload sessionbiz.Selection `json:"payload" binding:"required"`
}

func (s *ChatService) Selection(c *gin.Context) {
	var req SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply, err := s.engine.OnSelection(c.Request.Context(), req.UserID, req.Payload)
	if err != nil {
		s.logger.Error("selection update failed", zap.Int64("user_id", req.UserID), zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reply)
}

type DateRequest struct {
	UserID     int64  `json:"user_id" binding:"required"`
	CalendarID int    `json:"calendar_id" binding:"required"`
	Date       string `json:"date" binding:"required"` // YYYY-MM-DD
}

func (s *ChatService) Date(c *gin.Context) {
	var req DateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, want YYYY-MM-DD"})
		return
	}

	reply, err := s.engine.OnDateSelected(c.Request.Context(), req.UserID, req.CalendarID, date)
	if err != nil {
		s.logger.Error("date update failed", zap.Int64("user_id", req.UserID), zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reply)
}

func (s *ChatService) History(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	records, err := s.history.List(c.Request.Context(), userID)
	if err != nil {
		s.logger.Error("failed to load history", zap.Int64("user_id", userID), zap.Error(err))
		respondError(c, apperrors.NewPersistenceError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"records": records})
}

type PhotosRequest struct {
	HotelID int64 `json:"hotel_id" binding:"required"`
	Count   int   `json:"count" binding:"required"`
}

func (s *ChatService) Photos(c *gin.Context) {
	var req PhotosRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	urls, err := s.photos.Pick(c.Request.Context(), req.HotelID, req.Count)
	if err != nil {
		s.logger.Error("failed to fetch photos", zap.Int64("hotel_id", req.HotelID), zap.Error(err))
		respondError(c, apperrors.Wrap(err, apperrors.ErrProvider))
		return
	}

	c.JSON(http.StatusOK, gin.H{"photos": urls})
}

func (s *ChatService) RegisterRoutes(r *gin.RouterGroup) {
	chat := r.Group("/chat")
	{
		chat.POST("/begin", s.Begin)
		chat.POST("/text", s.Text)
		chat.POST("/selection", s.Selection)
		chat.POST("/date", s.Date)
		chat.GET("/history/:user_id", s.History)
		chat.POST("/photos", s.Photos)
	}
}
