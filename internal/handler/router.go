package handler

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter wires the run and file endpoints. allowedOrigins configures CORS
// and may be empty.
func NewRouter(runs *RunHandler, files *FileHandler, allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	if len(allowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins: allowedOrigins,
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type"},
		}))
	}

	r.POST("/runs", runs.StartRun)
	r.GET("/status", runs.GetStatus)
	r.POST("/reset", runs.Reset)
	r.GET("/files", files.GetFiles)
	r.GET("/files/:name", files.DownloadFile)
	r.GET("/health", runs.GetHealth)

	return r
}
