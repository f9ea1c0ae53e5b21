package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var log = logger.GetOrCreate("api")

const shutdownTimeout = 5 * time.Second

type server struct {
	router         *gin.Engine
	httpServer     *http.Server
	chart          ChartProvider
	readouts       ReadoutProvider
	status         StatusProvider
	gatherer       prometheus.Gatherer
	listenAddr     string
	staticDir      string
	generalHandler func(http.Handler) http.Handler
	wg             sync.WaitGroup
}

// ArgsWebServer defines the web server arguments
type ArgsWebServer struct {
	ListenAddress  string
	StaticDir      string
	Chart          ChartProvider
	Readouts       ReadoutProvider
	Status         StatusProvider
	Gatherer       prometheus.Gatherer
	GeneralHandler func(http.Handler) http.Handler
}

// NewServer initializes the Gin engine and mounts all routes
func NewServer(args ArgsWebServer) (*server, error) {
	if check.IfNil(args.Chart) {
		return nil, errors.New("nil chart provider")
	}
	if check.IfNil(args.Readouts) {
		return nil, errors.New("nil readout provider")
	}
	if check.IfNil(args.Status) {
		return nil, errors.New("nil status provider")
	}
	if args.Gatherer == nil {
		return nil, errors.New("nil metrics gatherer")
	}
	if args.GeneralHandler == nil {
		return nil, errors.New("nil http handler")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(gin.Recovery())

	s := &server{
		router:         router,
		chart:          args.Chart,
		readouts:       args.Readouts,
		status:         args.Status,
		gatherer:       args.Gatherer,
		listenAddr:     args.ListenAddress,
		staticDir:      args.StaticDir,
		generalHandler: args.GeneralHandler,
	}

	s.setupRoutes()
	return s, nil
}

func (s *server) setupRoutes() {
	api := s.router.Group("/api")
	{
		api.GET("/readouts", s.handleGetReadouts)
		api.GET("/window", s.handleGetWindow)
		api.GET("/session", s.handleGetSession)
		api.GET("/hover", s.handleGetHover)
	}

	s.router.GET("/chart.png", s.handleGetChartPNG)
	s.router.GET("/chart.svg", s.handleGetChartSVG)
	s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))

	if s.staticDir != "" {
		log.Info("serving static files", "dir", s.staticDir)
		s.router.StaticFile("/favicon.ico", path.Join(s.staticDir, "favicon.ico"))

		s.router.NoRoute(func(c *gin.Context) {
			if strings.HasPrefix(c.Request.URL.Path, "/api") {
				c.JSON(http.StatusNotFound, gin.H{"error": "api route not found"})
				return
			}
			c.File(path.Join(s.staticDir, "index.html"))
		})
	}
}

// Start listens and serves connections
func (s *server) Start() {
	handler := s.generalHandler(s.router)

	s.httpServer = &http.Server{
		Addr:              s.listenAddr,
		Handler:           handler,
		ReadHeaderTimeout: shutdownTimeout,
	}

	ln, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		log.Error("failed to listen", "error", err)
		return
	}
	s.listenAddr = ln.Addr().String()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		log.Info("starting HTTP server", "address", s.listenAddr)

		err := s.httpServer.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "error", err)
		}
	}()
}

// Address returns the actual listen address
func (s *server) Address() string {
	return s.listenAddr
}

// Close gracefully stops the server
func (s *server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return err
		}
	}
	s.wg.Wait()

	return nil
}

func (s *server) handleGetReadouts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"readouts": s.readouts.Regions()})
}

func (s *server) handleGetWindow(c *gin.Context) {
	frame, hasFrame := s.chart.Frame()
	if !hasFrame {
		c.JSON(http.StatusNotFound, gin.H{"error": "nothing rendered yet"})
		return
	}

	c.JSON(http.StatusOK, frame)
}

func (s *server) handleGetSession(c *gin.Context) {
	c.JSON(http.StatusOK, s.status.Status())
}

func (s *server) handleGetHover(c *gin.Context) {
	pixelX, err := strconv.Atoi(c.Query("x"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid x coordinate"})
		return
	}

	hover, found := s.chart.HoverAt(pixelX)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "nothing rendered yet"})
		return
	}

	c.JSON(http.StatusOK, hover)
}

func (s *server) handleGetChartPNG(c *gin.Context) {
	image := s.chart.PNG()
	if len(image) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", image)
}

func (s *server) handleGetChartSVG(c *gin.Context) {
	image, err := s.chart.SVG()
	if err != nil {
		log.Warn("failed to render the SVG chart", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if len(image) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/svg+xml", image)
}
