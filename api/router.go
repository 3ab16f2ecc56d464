package api

import (
	"context"
	"net/http"
	"path/filepath"
	"time"

	"github.com/Domenick1991/staybooking/internal/logger"
	"github.com/Domenick1991/staybooking/internal/service/booking"
	"github.com/Domenick1991/staybooking/internal/service/comments"
	"github.com/Domenick1991/staybooking/internal/service/places"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	httpSwagger "github.com/swaggo/http-swagger"
)

// HealthCheck reports the state of one dependency on /healthz.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type RouterConfig struct {
	Bookings                  booking.BookingUseCase
	Places                    places.PlaceUseCase
	Comments                  comments.CommentUseCase
	JWTSecret                 string
	StrictAuthorizationStatus bool
	RequestTimeout            time.Duration
	SwaggerDir                string
	HealthChecks              []HealthCheck
	Log                       logrus.FieldLogger
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Log
	if log == nil {
		log = logger.Discard()
	}
	errs := errorWriter{strictAuthorization: cfg.StrictAuthorizationStatus, log: log}

	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), AccessLog(log), Timeout(cfg.RequestTimeout))

	router.GET("/healthz", healthHandler(cfg.HealthChecks))
	if cfg.SwaggerDir != "" {
		router.StaticFile("/openapi.json", filepath.Join(cfg.SwaggerDir, "openapi.json"))
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/openapi.json"))))
	}

	public := router.Group("/api")
	private := router.Group("/api", Authenticate([]byte(cfg.JWTSecret)))

	NewBookingHandler(cfg.Bookings, errs).Register(private.Group("/bookings"))
	NewPlaceHandler(cfg.Places, errs).Register(public.Group("/places"), private.Group("/places"))
	NewCommentHandler(cfg.Comments, errs).Register(public.Group("/comments"), private.Group("/comments"))

	return router
}

func healthHandler(checks []HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		failed := make(map[string]string)
		for _, hc := range checks {
			if err := hc.Check(c.Request.Context()); err != nil {
				failed[hc.Name] = err.Error()
			}
		}
		if len(failed) > 0 {
			fail(c, http.StatusServiceUnavailable, failed)
			return
		}
		respond(c, http.StatusOK, "ok")
	}
}
