package api

import (
	"github.com/gin-gonic/gin"

	"github.com/WesleyFreitsz/FitMindAI/internal/auth"
)

// NewRouter wires every route. Chat and parse are reachable without a token
// (they fall back to the guest profile); everything that writes user data
// requires authentication.
func NewRouter(app App) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/register", PostRegister(app))
		authGroup.POST("/login", PostLogin(app))
		authGroup.GET("/me", auth.Middleware(app.Auth(), app.Users()), GetMe(app))
	}

	public := r.Group("/api")
	public.Use(auth.OptionalMiddleware(app.Auth(), app.Users()))
	{
		public.POST("/chat", PostChat(app))
		public.POST("/chat/parse", PostChatParse(app))
		public.GET("/foods", GetFoods(app))
	}

	protected := r.Group("/api")
	protected.Use(auth.Middleware(app.Auth(), app.Users()))
	{
		protected.GET("/user", GetUser(app))
		protected.PUT("/user", PutUser(app))

		protected.POST("/chat/commit", PostChatCommit(app))

		protected.GET("/food-logs", GetFoodLogs(app))
		protected.POST("/food-logs", PostFoodLog(app))
		protected.GET("/food-logs/range", GetFoodLogRange(app))
		protected.DELETE("/food-logs/:id", DeleteFoodLog(app))

		protected.GET("/exercises", GetExercises(app))
		protected.POST("/exercises", PostExercise(app))
		protected.GET("/exercises/range", GetExerciseRange(app))

		protected.GET("/alarms", GetAlarms(app))
		protected.POST("/alarms", PostAlarm(app))
		protected.PUT("/alarms/:id", PutAlarm(app))
		protected.DELETE("/alarms/:id", DeleteAlarm(app))

		protected.GET("/stats/daily", GetDailyStats(app))
		protected.GET("/goals", GetGoals(app))
	}

	return r
}
