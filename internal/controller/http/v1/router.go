package v1

import "github.com/gin-gonic/gin"

// RegisterRoutes wires the video and public route groups. The public group
// optionally carries the rate limiter; rankings are read-heavy and served
// from cache, votes require authentication.
func RegisterRoutes(r *gin.Engine, videos *VideoHandler, public *PublicHandler, auth gin.HandlerFunc, rateLimiter gin.HandlerFunc) {
	api := r.Group("/api")

	v := api.Group("/videos", auth)
	{
		v.POST("/upload", videos.Upload)
		v.GET("", videos.List)
		v.GET("/:video_id", videos.Get)
		v.DELETE("/:video_id", videos.Delete)
	}

	p := api.Group("/public")
	if rateLimiter != nil {
		p.Use(rateLimiter)
	}
	{
		p.GET("/videos", videos.ListPublished)
		p.GET("/rankings", public.Rankings)
		p.GET("/rankings/top", public.Top)
		p.GET("/rankings/stats", public.Stats)
		p.POST("/videos/:video_id/vote", auth, public.Vote)
		p.GET("/videos/:video_id/vote", auth, public.HasVoted)
		p.GET("/votes", auth, public.MyVotes)
	}
}
