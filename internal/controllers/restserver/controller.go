package restserver

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/chrissnell/coolingload/internal/calc"
	"github.com/chrissnell/coolingload/internal/climate"
	"github.com/chrissnell/coolingload/internal/metrics"
	"github.com/chrissnell/coolingload/internal/project"
	"github.com/chrissnell/coolingload/internal/types"
	"github.com/chrissnell/coolingload/pkg/config"
)

const (
	apiPrefix          = "/api/v1"
	maxBodyBytes       = 4 << 20
	limiterSweepPeriod = time.Minute
)

// SummaryPublisher receives the peak summary of every calculation
type SummaryPublisher interface {
	PublishSummary(project string, s calc.Summary)
}

// Dependencies are the services the API serves from
type Dependencies struct {
	Climate  *climate.Store
	Projects project.Store
	Engine   *calc.Engine
	Metrics  *metrics.Metrics
	// Publisher is optional
	Publisher SummaryPublisher
	// Accumulation is applied to newly created projects
	Accumulation types.AccumulationSettings
}

// Controller represents the REST server controller
type Controller struct {
	ctx        context.Context
	wg         *sync.WaitGroup
	restConfig config.RESTServerData
	Server     http.Server
	deps       Dependencies
	limiter    *ipRateLimiter
	logger     *zap.SugaredLogger
	handlers   *Handlers
}

// NewController creates a new REST server controller
func NewController(ctx context.Context, wg *sync.WaitGroup, rc config.RESTServerData, deps Dependencies, logger *zap.SugaredLogger) (*Controller, error) {
	if deps.Climate == nil {
		return nil, fmt.Errorf("REST server requires a climate store")
	}
	if deps.Projects == nil {
		return nil, fmt.Errorf("REST server requires a project store")
	}
	if deps.Engine == nil {
		deps.Engine = calc.NewEngine(logger)
	}

	ctrl := &Controller{
		ctx:        ctx,
		wg:         wg,
		restConfig: rc,
		deps:       deps,
		logger:     logger,
	}

	if rc.ListenAddr == "" {
		logger.Infof("rest.listen_addr not provided; defaulting to %s (all interfaces)", config.DefaultRESTAddr)
		ctrl.restConfig.ListenAddr = config.DefaultRESTAddr
	}
	if rc.Port == 0 {
		logger.Infof("rest.port not provided; defaulting to %d", config.DefaultRESTPort)
		ctrl.restConfig.Port = config.DefaultRESTPort
	}
	if rc.RateLimit > 0 {
		burst := rc.RateBurst
		if burst == 0 {
			burst = config.DefaultRateBurst
		}
		logger.Infof("rate limiting API clients to %.1f requests/s (burst %d)", rc.RateLimit, burst)
		ctrl.limiter = newIPRateLimiter(rc.RateLimit, burst)
	}

	ctrl.handlers = NewHandlers(ctrl)

	router := ctrl.setupRouter()
	ctrl.Server.Addr = fmt.Sprintf("%v:%v", ctrl.restConfig.ListenAddr, ctrl.restConfig.Port)
	ctrl.Server.Handler = router
	ctrl.Server.ReadHeaderTimeout = 10 * time.Second

	return ctrl, nil
}

// StartController starts the REST server
func (c *Controller) StartController() error {
	c.logger.Info("Starting REST server controller...")
	c.wg.Add(1)

	go func() {
		defer c.wg.Done()

		c.logger.Infof("REST server listening on %s", c.Server.Addr)

		var err error
		if c.restConfig.Cert != "" && c.restConfig.Key != "" {
			err = c.Server.ListenAndServeTLS(c.restConfig.Cert, c.restConfig.Key)
		} else {
			err = c.Server.ListenAndServe()
		}
		if err != http.ErrServerClosed {
			c.logger.Errorf("REST server error: %v", err)
		}
	}()

	go func() {
		<-c.ctx.Done()
		c.logger.Info("Shutting down the REST server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		c.Server.Shutdown(shutdownCtx)
	}()

	if c.limiter != nil {
		go c.sweepLimiter()
	}

	return nil
}

func (c *Controller) sweepLimiter() {
	ticker := time.NewTicker(limiterSweepPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.limiter.sweep()
		case <-c.ctx.Done():
			return
		}
	}
}

// setupRouter configures the HTTP router with all endpoints
func (c *Controller) setupRouter() *mux.Router {
	router := mux.NewRouter()
	router.Use(c.loggingMiddleware, c.corsMiddleware)
	if c.limiter != nil {
		router.Use(c.rateLimitMiddleware)
	}

	h := c.handlers
	c.route(router, "/healthz", "healthz", h.Health, http.MethodGet)
	if c.restConfig.EnableMetrics {
		router.Handle("/metrics", c.deps.Metrics.Handler()).Methods(http.MethodGet)
	}

	api := router.PathPrefix(apiPrefix).Subrouter()
	c.route(api, "/calculate", "calculate", h.Calculate, http.MethodPost)
	c.route(api, "/worst-month", "worst_month", h.WorstMonth, http.MethodPost)
	c.route(api, "/temperature-profile", "temperature_profile", h.TemperatureProfile, http.MethodPost)
	c.route(api, "/presets", "presets", h.Presets, http.MethodGet)

	c.route(api, "/projects", "projects_list", h.ListProjects, http.MethodGet)
	c.route(api, "/projects", "projects_create", h.CreateProject, http.MethodPost)
	c.route(api, "/projects/{id}", "project_get", h.GetProject, http.MethodGet)
	c.route(api, "/projects/{id}", "project_update", h.UpdateProject, http.MethodPut)
	c.route(api, "/projects/{id}", "project_delete", h.DeleteProject, http.MethodDelete)
	c.route(api, "/projects/{id}/reset", "project_reset", h.ResetProject, http.MethodPost)

	c.route(api, "/projects/{id}/windows", "window_add", h.AddWindow, http.MethodPost)
	c.route(api, "/projects/{id}/windows/import", "window_import", h.ImportWindows, http.MethodPost)
	c.route(api, "/projects/{id}/windows/{wid:[0-9]+}", "window_update", h.UpdateWindow, http.MethodPut)
	c.route(api, "/projects/{id}/windows/{wid:[0-9]+}", "window_delete", h.DeleteWindow, http.MethodDelete)
	c.route(api, "/projects/{id}/windows/{wid:[0-9]+}/duplicate", "window_duplicate", h.DuplicateWindow, http.MethodPost)
	c.route(api, "/projects/{id}/shading", "shading_update", h.UpdateShading, http.MethodPut)
	c.route(api, "/projects/{id}/equipment", "equipment_add", h.AddEquipment, http.MethodPost)
	c.route(api, "/projects/{id}/equipment/{eid:[0-9]+}", "equipment_delete", h.DeleteEquipment, http.MethodDelete)

	c.route(api, "/projects/{id}/calculate", "project_calculate", h.CalculateProject, http.MethodPost)
	c.route(api, "/projects/{id}/report.pdf", "report_pdf", h.ReportPDF, http.MethodGet)
	c.route(api, "/projects/{id}/report.xlsx", "report_xlsx", h.ReportXLSX, http.MethodGet)

	return router
}

// route registers fn under path with request metrics. OPTIONS is accepted on
// every route so that CORS preflight requests reach corsMiddleware.
func (c *Controller) route(r *mux.Router, path, name string, fn http.HandlerFunc, method string) {
	r.Handle(path, c.deps.Metrics.WrapHandler(name, fn)).Methods(method, http.MethodOptions)
}

// loggingMiddleware logs all requests except health probes
func (c *Controller) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)

		if r.URL.Path != "/healthz" {
			c.logger.Infof("%s %s %s %v", r.Method, r.RequestURI, r.RemoteAddr, time.Since(start))
		}
	})
}

// corsMiddleware adds CORS headers
func (c *Controller) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// rateLimitMiddleware rejects clients that exceed their token bucket
func (c *Controller) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !c.limiter.allow(clientAddr(r)) {
			c.handlers.sendError(w, r, http.StatusTooManyRequests, "too many requests", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
