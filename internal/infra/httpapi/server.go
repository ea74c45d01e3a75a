package httpapi

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"time"

	"deal_deadline_notifier/internal/app"
	"deal_deadline_notifier/internal/domain/alert"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

const DDAlertsPath = "/api/cron/dd-alerts"

type Server struct {
	Echo *echo.Echo

	alertService app.AlertService
	cronSecret   string
	configErr    error
	logger       *logrus.Entry
	now          func() time.Time
}

type errorResponse struct {
	Error string            `json:"error"`
	Sent  []alert.SentAlert `json:"sent,omitempty"`
}

// NewServer builds the trigger server. A non-nil configErr is answered to
// every authorised trigger call before the alert service is touched, so
// alertService may be nil in that case.
func NewServer(alertService app.AlertService, cronSecret string, configErr error, logger *logrus.Entry) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(requestLogger(logger))

	s := &Server{
		Echo:         e,
		alertService: alertService,
		cronSecret:   cronSecret,
		configErr:    configErr,
		logger:       logger,
		now:          time.Now,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.Echo.GET("/healthz", s.handleHealth)
	s.Echo.Match([]string{http.MethodGet, http.MethodPost}, DDAlertsPath, s.handleDDAlerts, s.cronAuthMiddleware)
}

func (s *Server) Start(addr string) error {
	s.logger.WithField("addr", addr).Info("HTTP trigger server listening")
	return s.Echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.Echo.Shutdown(ctx)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// cronAuthMiddleware accepts the request when no secret is configured or
// when the Authorization header is exactly "Bearer <secret>".
func (s *Server) cronAuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if s.cronSecret == "" {
			return next(c)
		}
		got := c.Request().Header.Get(echo.HeaderAuthorization)
		want := "Bearer " + s.cronSecret
		if subtle.ConstantTimeCompare([]byte(got), []byte(want)) != 1 {
			s.logger.WithField("remote_ip", c.RealIP()).Warn("Rejected DD alert trigger with bad credentials")
			return s.writeError(c, alert.ErrUnauthorized)
		}
		return next(c)
	}
}

func (s *Server) handleDDAlerts(c echo.Context) error {
	if s.configErr != nil {
		return s.writeError(c, s.configErr)
	}

	summary, err := s.alertService.RunDeadlineAlerts(c.Request().Context(), s.now())
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}

func (s *Server) writeError(c echo.Context, err error) error {
	resp := errorResponse{Error: err.Error()}

	var queryErr *alert.QueryError
	var deliveryErr *alert.DeliveryError
	switch {
	case errors.Is(err, alert.ErrUnauthorized):
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: "Unauthorized"})
	case errors.Is(err, alert.ErrConfiguration):
		s.logger.WithError(err).Error("DD alert trigger called with incomplete configuration")
	case errors.As(err, &queryErr):
		s.logger.WithError(err).WithField("query", queryErr.Query).Error("DD alert run failed on store query")
	case errors.As(err, &deliveryErr):
		s.logger.WithError(err).WithField("deal_id", deliveryErr.DealID).Error("DD alert run aborted on delivery failure")
		resp.Sent = deliveryErr.Sent
	default:
		s.logger.WithError(err).Error("DD alert run failed")
	}
	return c.JSON(http.StatusInternalServerError, resp)
}

func requestLogger(logger *logrus.Entry) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			logger.WithFields(logrus.Fields{
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency_ms": v.Latency.Milliseconds(),
			}).Info("request")
			return nil
		},
	})
}
