package logic

import (
	"errors"
	"fmt"
	"strconv"

	"ubicomp-backend/internal/logger"
	"ubicomp-backend/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var logx *logger.Logger

// SetupRouter wires every route.
func SetupRouter(log *logger.Logger) *gin.Engine {
	logx = log
	r := gin.Default()

	// the dashboard frontend is served from anywhere
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept"},
	}))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	r.GET("/api/users", ListUsersHandler)
	r.GET("/api/test-gemini", TestGeminiHandler)
	r.POST("/api/chat", ChatHandler)
	r.GET("/api/:user/weeks", ListWeeksHandler)
	r.GET("/api/:user/emotions", EmotionsHandler)
	r.GET("/api/:user/profile", ProfileHandler)
	r.GET("/api/:user/status/:kind", StatusHandler)
	r.GET("/api/:user/week/:week/days", ListDaysHandler)
	r.GET("/api/:user/week/:week/locations", LocationsHandler)
	r.GET("/api/:user/week/:week/summary", WeekSummaryHandler)

	return r
}

// abortWithError maps the store error taxonomy onto HTTP statuses.
// Schema violations land in the default branch: they mean the data
// contract broke, not that the client did anything wrong.
func abortWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(404, gin.H{"detail": err.Error()})
	case errors.Is(err, store.ErrInvalidArgument):
		c.JSON(400, gin.H{"detail": err.Error()})
	default:
		if logx != nil {
			logx.Error("internal error", "path", c.FullPath(), "error", err)
		}
		c.JSON(500, gin.H{"detail": err.Error()})
	}
}

func weekParam(c *gin.Context) (int, bool) {
	week, err := strconv.Atoi(c.Param("week"))
	if err != nil {
		c.JSON(400, gin.H{"detail": "week must be an integer"})
		return 0, false
	}
	return week, true
}

// ListUsersHandler lists every user directory under the data root.
func ListUsersHandler(c *gin.Context) {
	users, err := store.Get().ListUsers()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(200, gin.H{"users": users})
}

// ListWeeksHandler lists the weeks a user has activity data for.
func ListWeeksHandler(c *gin.Context) {
	s := store.Get()
	userID := c.Param("user")
	if _, err := s.ResolveUser(userID); err != nil {
		abortWithError(c, err)
		return
	}
	weeks, err := s.ListWeeks(userID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(200, gin.H{"weeks": weeks})
}

// ListDaysHandler lists the calendar dates present in one week's table.
func ListDaysHandler(c *gin.Context) {
	s := store.Get()
	userID := c.Param("user")
	if _, err := s.ResolveUser(userID); err != nil {
		abortWithError(c, err)
		return
	}
	week, ok := weekParam(c)
	if !ok {
		return
	}
	days, err := s.ListDays(userID, week)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(200, gin.H{"days": days})
}

// LocationsHandler returns one week's activity records, optionally
// filtered by ?day=YYYY-MM-DD.
func LocationsHandler(c *gin.Context) {
	s := store.Get()
	userID := c.Param("user")
	if _, err := s.ResolveUser(userID); err != nil {
		abortWithError(c, err)
		return
	}
	week, ok := weekParam(c)
	if !ok {
		return
	}
	records, err := s.Locations(userID, week, c.Query("day"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(200, gin.H{"records": records})
}

// StatusHandler returns sleep/social/stress samples with optional
// ?week= and ?day= filters. Kind is validated before the user lookup so
// a bad kind is always a 400.
func StatusHandler(c *gin.Context) {
	kind := c.Param("kind")
	if !store.ValidStatusKind(kind) {
		c.JSON(400, gin.H{"detail": "kind must be one of sleep|social|stress"})
		return
	}
	s := store.Get()
	userID := c.Param("user")
	if _, err := s.ResolveUser(userID); err != nil {
		abortWithError(c, err)
		return
	}
	var week *int
	if wq := c.Query("week"); wq != "" {
		n, err := strconv.Atoi(wq)
		if err != nil {
			c.JSON(400, gin.H{"detail": "week must be an integer"})
			return
		}
		week = &n
	}
	records, err := s.Status(userID, kind, week, c.Query("day"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(200, gin.H{"records": records})
}

// EmotionsHandler returns the user's full emotion history. It keys off
// the history file itself, so no directory check here.
func EmotionsHandler(c *gin.Context) {
	entries, err := store.Get().Emotions(c.Param("user"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(200, gin.H{"entries": entries})
}

// ProfileHandler joins personality scores with the enrollment table.
func ProfileHandler(c *gin.Context) {
	s := store.Get()
	userID := c.Param("user")
	if _, err := s.ResolveUser(userID); err != nil {
		abortWithError(c, err)
		return
	}
	profile, err := s.Profile(userID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(200, profile)
}

// WeekSummaryHandler returns one week's emotion entry plus its days.
func WeekSummaryHandler(c *gin.Context) {
	week, ok := weekParam(c)
	if !ok {
		return
	}
	summary, err := store.Get().WeekSummary(c.Param("user"), week)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(200, summary)
}

// ChatRequest is the /api/chat body. The API key comes from the client
// on every request; there is no server-side default.
type ChatRequest struct {
	Message    string         `json:"message"`
	APIKey     string         `json:"apiKey"`
	StudentID  string         `json:"studentId"`
	BigFive    map[string]int `json:"bigFive"`
	WeeklyDesc string         `json:"weeklyDesc"`
	Week       int            `json:"week"`
}

// ChatHandler builds the persona prompt and forwards one user turn to
// Gemini. Every failure of the outbound call surfaces as a 500 with the
// cause embedded, never as an unhandled fault.
func ChatHandler(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" || req.StudentID == "" {
		c.JSON(400, gin.H{"detail": "message and studentId required"})
		return
	}
	prompt := BuildPersonaPrompt(req.StudentID, req.BigFive, req.Week, req.WeeklyDesc)
	resp, err := ChatWithGemini(c.Request.Context(), req.APIKey, prompt, req.Message)
	if err != nil {
		if logx != nil {
			logx.Error("chat failed", "student", req.StudentID, "error", err)
		}
		c.JSON(500, gin.H{"detail": fmt.Sprintf("Chat error: %v", err)})
		return
	}
	c.JSON(200, gin.H{"response": resp})
}

// TestGeminiHandler probes Gemini connectivity. It never errors outward;
// failure is reported in-band via the success flag.
func TestGeminiHandler(c *gin.Context) {
	c.JSON(200, TestGeminiConnection(c.Request.Context(), c.Query("api_key")))
}
