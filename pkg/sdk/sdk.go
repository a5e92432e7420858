package sdk

import (
	"context"

	"github.com/fleakr/fleakr-go/pkg/api"
	"github.com/fleakr/fleakr-go/pkg/config"
	"github.com/fleakr/fleakr-go/pkg/model"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Flickr is the public interface of the client. Every method takes optional
// per-call options that are sent along with the request; credentials given
// there ("auth_token") override the configured ones for the returned
// objects and their follow-up calls.
type Flickr interface {
	// SetsByUser lists the sets of a user. An empty userID lists the sets of
	// the authenticated user.
	SetsByUser(ctx context.Context, userID string, opts api.Options) ([]*model.Set, error)

	// Set fetches one set by id.
	Set(ctx context.Context, id string, opts api.Options) (*model.Set, error)

	// CreateSet creates a set with primaryPhotoID as its cover.
	CreateSet(ctx context.Context, title, primaryPhotoID string, opts api.Options) (*model.Set, error)

	// User fetches a user by id.
	User(ctx context.Context, id string, opts api.Options) (*model.User, error)

	// UserByUsername resolves a screen name to a user.
	UserByUsername(ctx context.Context, username string, opts api.Options) (*model.User, error)

	// UserByEmail resolves an email address to a user.
	UserByEmail(ctx context.Context, email string, opts api.Options) (*model.User, error)

	// Photo fetches one photo by id.
	Photo(ctx context.Context, id string, opts api.Options) (*model.Photo, error)

	// Upload sends a photo and returns it as stored by the service.
	Upload(ctx context.Context, source api.Source, opts api.Options) (*model.Photo, error)

	// Caller exposes the underlying transport for raw method calls.
	Caller() api.Caller

	// Close releases resources associated with the SDK instance.
	Close()
}

var logLevel = zap.NewAtomicLevelAt(zap.InfoLevel)

// init configures a default global zap logger for the SDK. Applications may
// replace it with zap.ReplaceGlobals(...) if they need custom logging.
func init() {
	c := zap.Config{
		Level:            logLevel,
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := c.Build()
	if err != nil {
		panic(err)
	}
	zap.ReplaceGlobals(logger)
}

// transport is what Core needs from the API client.
type transport interface {
	api.Caller
	api.Uploader
	Close()
}

// Core is the concrete SDK implementation.
type Core struct {
	*config.Config
	client transport
}

// NewSDK validates the configuration, applies timeout defaults and builds
// the HTTP client. Debug raises the default logger to debug level.
func NewSDK(cfg *config.Config) (Flickr, error) {
	if err := cfg.Validate(); err != nil {
		zap.L().Error("Invalid config", zap.Error(err))
		return nil, err
	}
	cfg.Timeouts = cfg.Timeouts.WithDefaults()

	if cfg.Debug {
		logLevel.SetLevel(zapcore.DebugLevel)
		zap.L().Debug("sdk configured",
			zap.String("endpoint", cfg.Endpoint),
			zap.String("upload_endpoint", cfg.UploadEndpoint),
			zap.Bool("authenticated", cfg.AuthToken != ""))
	}

	return &Core{Config: cfg, client: api.NewClient(cfg)}, nil
}

func (c *Core) SetsByUser(ctx context.Context, userID string, opts api.Options) ([]*model.Set, error) {
	return model.FindSetsByUserID(ctx, c.client, userID, opts)
}

func (c *Core) Set(ctx context.Context, id string, opts api.Options) (*model.Set, error) {
	return model.FindSetByID(ctx, c.client, id, opts)
}

func (c *Core) CreateSet(ctx context.Context, title, primaryPhotoID string, opts api.Options) (*model.Set, error) {
	return model.CreateSet(ctx, c.client, title, primaryPhotoID, opts)
}

func (c *Core) User(ctx context.Context, id string, opts api.Options) (*model.User, error) {
	return model.FindUserByID(ctx, c.client, id, opts)
}

func (c *Core) UserByUsername(ctx context.Context, username string, opts api.Options) (*model.User, error) {
	return model.FindUserByUsername(ctx, c.client, username, opts)
}

func (c *Core) UserByEmail(ctx context.Context, email string, opts api.Options) (*model.User, error) {
	return model.FindUserByEmail(ctx, c.client, email, opts)
}

func (c *Core) Photo(ctx context.Context, id string, opts api.Options) (*model.Photo, error) {
	return model.FindPhotoByID(ctx, c.client, id, opts)
}

func (c *Core) Upload(ctx context.Context, source api.Source, opts api.Options) (*model.Photo, error) {
	return model.UploadPhoto(ctx, c.client, c.client, source, opts)
}

// Caller returns the API client.
func (c *Core) Caller() api.Caller {
	return c.client
}

// Close releases idle HTTP connections.
func (c *Core) Close() {
	c.client.Close()
}
