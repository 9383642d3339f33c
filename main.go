package main

import (
	"context"
	"net"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/mager/slipmat/config"
	"github.com/mager/slipmat/handler/health"
	"github.com/mager/slipmat/handler/sheet"
	"github.com/mager/slipmat/logger"
	"github.com/mager/slipmat/reccobeats"
	"github.com/mager/slipmat/resolve"
	"github.com/mager/slipmat/spotify"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Route is an http.Handler that knows the mux pattern
// under which it will be registered.
type Route interface {
	http.Handler

	// Pattern reports the path at which this is registered.
	Pattern() string
}

//	@title			Slipmat
//	@version		1.0
//	@description	Resolves pasted track listings against Spotify and enriches them with BPM and key

// @host		localhost:8080
// @BasePath	/
func main() {
	fx.New(
		fx.Provide(NewHTTPServer,
			config.Options,
			logger.Options,
			spotify.Options,
			reccobeats.Options,
		),
		fx.Invoke(func(*http.Server) {}),
	).Run()
}

func NewHTTPServer(
	lc fx.Lifecycle,
	log *zap.SugaredLogger,
	cfg config.Config,
	spotifyClient *spotify.SpotifyClient,
	features *reccobeats.Client,
) *http.Server {
	router := mux.NewRouter()

	srv := &http.Server{Addr: cfg.ListenAddr, Handler: jsonMiddleware(router)}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Infof("Starting HTTP server at %s", srv.Addr)
			go srv.Serve(ln)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})

	// Resolution engine, wired onto the two collaborator services
	catalog := spotify.NewCatalog(log, spotifyClient)
	resolver := resolve.NewResolver(log, catalog)
	enricher := resolve.NewEnricher(log, features, resolve.DefaultConsensusPolicy())
	pipeline := resolve.NewPipeline(log, catalog, resolver, enricher)

	// Define handlers
	healthHandler := health.NewHealthHandler(log, spotifyClient)
	router.Handle(healthHandler.Pattern(), healthHandler).Methods(http.MethodGet)

	processHandler := sheet.NewProcessHandler(log, pipeline)
	router.Handle(processHandler.Pattern(), processHandler).Methods(http.MethodPost)

	candidatesHandler := sheet.NewCandidatesHandler(log, resolver, enricher)
	router.Handle(candidatesHandler.Pattern(), candidatesHandler).Methods(http.MethodPost)

	refreshHandler := sheet.NewRefreshHandler(log, catalog, resolver, enricher)
	router.Handle(refreshHandler.Pattern(), refreshHandler).Methods(http.MethodPost)

	return srv
}

func jsonMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}
