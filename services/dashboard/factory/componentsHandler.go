package factory

import (
	"context"
	"time"

	"github.com/iulianpascalau/live-dashboard/commonGo"
	"github.com/iulianpascalau/live-dashboard/services/dashboard/api"
	"github.com/iulianpascalau/live-dashboard/services/dashboard/common"
	"github.com/iulianpascalau/live-dashboard/services/dashboard/config"
	"github.com/iulianpascalau/live-dashboard/services/dashboard/ingestion"
	"github.com/iulianpascalau/live-dashboard/services/dashboard/metrics"
	"github.com/iulianpascalau/live-dashboard/services/dashboard/readout"
	"github.com/iulianpascalau/live-dashboard/services/dashboard/render"
	"github.com/iulianpascalau/live-dashboard/services/dashboard/session"
	"github.com/iulianpascalau/live-dashboard/services/dashboard/transport"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("factory")

type componentsHandler struct {
	staleAfter time.Duration
	renderer   api.ChartProvider
	readouts   api.ReadoutProvider
	session    Session
	stream     Stream
	server     Server
	cancel     context.CancelFunc
}

// NewComponentsHandler creates a new components handler
func NewComponentsHandler(cfg config.Config, authToken string) (*componentsHandler, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, err
	}
	policy, err := common.ParseGapPolicy(cfg.GapFillPolicy)
	if err != nil {
		return nil, err
	}

	clock := common.RealClock{}
	observer := metrics.NewPromObserver(cfg.Name)

	renderer, err := render.NewChartRenderer(render.ArgsChartRenderer{
		Title:         cfg.Chart.Title,
		Width:         cfg.Chart.Width,
		Height:        cfg.Chart.Height,
		BeginAtZero:   cfg.Chart.BeginAtZero,
		AnnotateEvery: cfg.Chart.AnnotateEvery,
		ShowXAxis:     cfg.Chart.ShowXAxis,
	})
	if err != nil {
		return nil, err
	}

	readouts, err := readout.NewReadoutBoard(cfg.Readouts, clock)
	if err != nil {
		return nil, err
	}

	controller, err := ingestion.NewIngestionController(ingestion.ArgsIngestionController{
		Capacity:    cfg.WindowCapacity,
		Schema:      cfg.Metrics,
		GapPolicy:   policy,
		LabelFormat: cfg.LabelFormat,
		Renderer:    renderer,
		Readouts:    readouts,
		Observer:    observer,
		Clock:       clock,
	})
	if err != nil {
		return nil, err
	}

	dashboardSession, err := session.NewSession(session.ArgsSession{
		Name:       cfg.Name,
		Controller: controller,
		Observer:   observer,
		InboxSize:  cfg.InboxSize,
		Clock:      clock,
	})
	if err != nil {
		return nil, err
	}

	stream, err := transport.NewWebsocketStream(transport.ArgsWebsocketStream{
		URL:              cfg.StreamURL,
		HandshakeTimeout: time.Second * time.Duration(cfg.HandshakeTimeoutInSeconds),
		AuthToken:        authToken,
		Sink:             dashboardSession,
	})
	if err != nil {
		return nil, err
	}

	server, err := api.NewServer(api.ArgsWebServer{
		ListenAddress:  cfg.Web.ListenAddress,
		StaticDir:      cfg.Web.StaticDir,
		Chart:          renderer,
		Readouts:       readouts,
		Status:         dashboardSession,
		Gatherer:       observer.Gatherer(),
		GeneralHandler: api.CORSMiddleware,
	})
	if err != nil {
		return nil, err
	}

	return &componentsHandler{
		staleAfter: time.Second * time.Duration(cfg.StaleAfterSeconds),
		renderer:   renderer,
		readouts:   readouts,
		session:    dashboardSession,
		stream:     stream,
		server:     server,
	}, nil
}

// GetServer returns the server component
func (ch *componentsHandler) GetServer() Server {
	return ch.server
}

// GetSession returns the session component
func (ch *componentsHandler) GetSession() Session {
	return ch.session
}

// GetStream returns the push channel reader
func (ch *componentsHandler) GetStream() Stream {
	return ch.stream
}

// GetRenderer returns the chart renderer
func (ch *componentsHandler) GetRenderer() api.ChartProvider {
	return ch.renderer
}

// GetReadouts returns the readout board
func (ch *componentsHandler) GetReadouts() api.ReadoutProvider {
	return ch.readouts
}

// Start starts the inner components. A failed dial leaves the session in the channel lost state,
// the HTTP surface keeps serving it.
func (ch *componentsHandler) Start() {
	ch.server.Start()
	ch.session.Start()

	ctx, cancel := context.WithCancel(context.Background())
	ch.cancel = cancel

	err := ch.stream.Start(ctx)
	if err != nil {
		log.Error("telemetry stream unavailable", "error", err)
	}

	commonGo.CronJobStarter(ctx, ch.checkLiveness, ch.staleAfter)
}

func (ch *componentsHandler) checkLiveness(_ context.Context) {
	if ch.session.Stale(ch.staleAfter) {
		log.Warn("connected telemetry stream delivered nothing recently", "threshold", ch.staleAfter)
	}
}

// Close closes the inner components
func (ch *componentsHandler) Close() {
	if ch.cancel != nil {
		ch.cancel()
	}

	// the session goes first so a read loop blocked on a full inbox is released
	_ = ch.session.Close()
	_ = ch.stream.Close()
	_ = ch.server.Close()
}
