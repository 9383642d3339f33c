package spotify

import (
	"context"
	"net/http"
	"time"

	"github.com/mager/slipmat/config"
	spot "github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// requestTimeout bounds every Spotify API call; a hung upstream must not
// pin a request until the client disconnects.
const requestTimeout = 10 * time.Second

type SpotifyClient struct {
	Client *spot.Client
	ID     string
	Secret string
}

// ProvideSpotify builds an app-level (client credentials) Spotify client.
// Nothing in this service acts on behalf of a user, so no user scopes.
func ProvideSpotify(cfg config.Config, log *zap.SugaredLogger) *SpotifyClient {
	var c SpotifyClient
	c.ID = cfg.SpotifyID
	c.Secret = cfg.SpotifySecret

	log.Info("setting up spotify client")

	ctx := context.Background()
	creds := &clientcredentials.Config{
		ClientID:     cfg.SpotifyID,
		ClientSecret: cfg.SpotifySecret,
		TokenURL:     spotifyauth.TokenURL,
	}
	token, err := creds.Token(ctx)
	if err != nil {
		log.Fatalw("spotify auth failed", "error", err)
	}

	c.Client = spot.New(apiClient(ctx, token))

	return &c
}

// apiClient wraps the token-refreshing oauth2 client with the fixed
// per-request timeout.
func apiClient(ctx context.Context, token *oauth2.Token) *http.Client {
	httpClient := spotifyauth.New().Client(ctx, token)
	httpClient.Timeout = requestTimeout
	return httpClient
}

var Options = ProvideSpotify
