package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/iulianpascalau/live-dashboard/commonGo"
	"github.com/iulianpascalau/live-dashboard/services/dashboard/config"
	"github.com/iulianpascalau/live-dashboard/services/dashboard/factory"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/urfave/cli"
)

const (
	defaultLogsPath      = "logs"
	logFilePrefix        = "dashboard"
	logFileLifeSpanInSec = 86400 // 24h
	logFileLifeSpanInMB  = 1024  // 1GB
	configFile           = "config.toml"
	envFile              = ".env"
	envStreamAuthToken   = "STREAM_AUTH_TOKEN"
)

// appVersion should be populated at build time using ldflags
// Usage examples:
// Linux/macOS:
//
//	go build -v -ldflags="-X main.appVersion=$(git describe --all | cut -c7-32)
var appVersion = "undefined"
var fileLogging commonGo.FileLoggingHandler

var (
	dashboardHelpTemplate = `NAME:
   {{.Name}} - {{.Usage}}
USAGE:
   {{.HelpName}} {{if .VisibleFlags}}[global options]{{end}}
   {{if len .Authors}}
AUTHOR:
   {{range .Authors}}{{ . }}{{end}}
   {{end}}{{if .Commands}}
GLOBAL OPTIONS:
   {{range .VisibleFlags}}{{.}}
   {{end}}
VERSION:
   {{.Version}}
   {{end}}
`

	log = logger.GetOrCreate("dashboard")

	// logLevel defines the logger level
	logLevel = cli.StringFlag{
		Name: "log-level",
		Usage: "This flag specifies the logger `level(s)`. It can contain multiple comma-separated value. For example" +
			", if set to *:INFO the logs for all packages will have the INFO level. However, if set to *:INFO,ingestion:DEBUG" +
			" the logs for all packages will have the INFO level, excepting the ingestion package which will receive a DEBUG" +
			" log level.",
		Value: "*:" + logger.LogInfo.String(),
	}
	// logFile is used when the log output needs to be logged in a file
	logSaveFile = cli.BoolFlag{
		Name:  "log-save",
		Usage: "Boolean option for enabling log saving. If set, it will automatically save all the logs into a file.",
	}
	// workingDirectory defines a flag for the path for the working directory.
	workingDirectory = cli.StringFlag{
		Name:  "working-directory",
		Usage: "This flag specifies the `directory` holding the config.toml and .env files and where the logs are stored.",
		Value: "",
	}
	// streamURL overrides the StreamURL config value
	streamURL = cli.StringFlag{
		Name:  "stream-url",
		Usage: "This flag overrides the websocket `URL` of the telemetry push channel defined in the config file.",
		Value: "",
	}

	envFileContents = map[string]string{
		envStreamAuthToken: "",
	}
)

func main() {
	app := cli.NewApp()
	cli.AppHelpTemplate = dashboardHelpTemplate
	app.Name = "Live telemetry dashboard"
	app.Version = fmt.Sprintf("%s/%s/%s-%s", appVersion, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	app.Usage = "This is the entry point for starting a dashboard that charts the telemetry pushed by a live server"
	app.Flags = []cli.Flag{
		logLevel,
		logSaveFile,
		workingDirectory,
		streamURL,
	}
	app.Authors = []cli.Author{
		{
			Name:  "Iulian Pascalau",
			Email: "iulian.pascalau@gmail.com",
		},
	}

	app.Action = run

	defer func() {
		if fileLogging != nil {
			_ = fileLogging.Close()
		}
	}()

	err := app.Run(os.Args)
	if err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	saveLogFile := ctx.GlobalBool(logSaveFile.Name)
	workingDir := ctx.GlobalString(workingDirectory.Name)

	err := logger.SetLogLevel(ctx.GlobalString(logLevel.Name))
	if err != nil {
		return err
	}

	fileLogging, err = commonGo.AttachFileLogger(log, defaultLogsPath, logFilePrefix, saveLogFile, workingDir)
	if err != nil {
		return err
	}

	if !check.IfNil(fileLogging) {
		timeLogLifeSpan := time.Second * time.Duration(logFileLifeSpanInSec)
		sizeLogLifeSpanInMB := uint64(logFileLifeSpanInMB)
		err = fileLogging.ChangeFileLifeSpan(timeLogLifeSpan, sizeLogLifeSpanInMB)
		if err != nil {
			return err
		}
	}

	log.Info("Starting dashboard", "version", appVersion, "pid", os.Getpid())

	err = commonGo.ReadOptionalEnvFile(filepath.Join(workingDir, envFile), envFileContents)
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfig(filepath.Join(workingDir, configFile))
	if err != nil {
		return err
	}

	overriddenURL := ctx.GlobalString(streamURL.Name)
	if len(overriddenURL) > 0 {
		cfg.StreamURL = overriddenURL
	}

	components, err := factory.NewComponentsHandler(*cfg, envFileContents[envStreamAuthToken])
	if err != nil {
		return err
	}

	components.Start()

	log.Info("Dashboard started", "stream", cfg.StreamURL, "address", components.GetServer().Address())

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	<-sigs

	log.Info("Application closing, calling Close on all subcomponents...")
	components.Close()

	return nil
}
