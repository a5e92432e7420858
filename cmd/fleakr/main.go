// fleakr is a command-line client for the photo service. It prints the
// requested objects as JSON.
//
//	fleakr [--config FILE] [--api-key KEY] [--debug] <command> [flags]
//
// Commands:
//
//	sets    --user ID         list a user's sets (yours when ID is empty)
//	set     --id ID           show one set with its photos
//	user    --username NAME   show a user's profile
//	upload  [--title T] [--tags a,b] FILE...
//
// FLICKR_API_KEY and FLICKR_AUTH_TOKEN override the configuration file.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/fleakr/fleakr-go/pkg/api"
	"github.com/fleakr/fleakr-go/pkg/config"
	"github.com/fleakr/fleakr-go/pkg/sdk"
	"github.com/goccy/go-json"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type command func(ctx context.Context, f sdk.Flickr, args []string, out io.Writer) error

var commands = map[string]command{
	"sets":   runSets,
	"set":    runSet,
	"user":   runUser,
	"upload": runUpload,
}

func run(ctx context.Context, args []string, out io.Writer) error {
	var (
		configPath string
		apiKey     string
		endpoint   string
		uploadURL  string
		debug      bool
	)
	flagSet := pflag.NewFlagSet("fleakr", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "YAML configuration file")
	flagSet.StringVar(&apiKey, "api-key", "", "API key (overrides the configuration)")
	flagSet.StringVar(&endpoint, "endpoint", "", "REST endpoint")
	flagSet.BoolVar(&debug, "debug", false, "log every API call")
	flagSet.StringVar(&uploadURL, "upload-endpoint", "", "upload endpoint")
	_ = flagSet.MarkHidden("endpoint")
	_ = flagSet.MarkHidden("upload-endpoint")
	flagSet.SetInterspersed(false)

	if err := flagSet.Parse(args); err != nil {
		return err
	}
	rest := flagSet.Args()
	if len(rest) == 0 {
		flagSet.Usage()
		return errors.New("missing command")
	}
	cmd, ok := commands[rest[0]]
	if !ok {
		return fmt.Errorf("unknown command %q", rest[0])
	}

	cfg, err := config.Load(configPath, func(cfg *config.Config) {
		if apiKey != "" {
			cfg.APIKey = apiKey
		}
		if endpoint != "" {
			cfg.Endpoint = endpoint
		}
		if uploadURL != "" {
			cfg.UploadEndpoint = uploadURL
		}
		cfg.Debug = cfg.Debug || debug
	})
	if err != nil {
		return err
	}

	flickr, err := sdk.NewSDK(cfg)
	if err != nil {
		return err
	}
	defer flickr.Close()

	zap.L().Debug("running command", zap.String("command", rest[0]))
	return cmd(ctx, flickr, rest[1:], out)
}

func runSets(ctx context.Context, f sdk.Flickr, args []string, out io.Writer) error {
	var userID string
	flagSet := pflag.NewFlagSet("sets", pflag.ContinueOnError)
	flagSet.StringVar(&userID, "user", "", "user id")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	sets, err := f.SetsByUser(ctx, userID, nil)
	if err != nil {
		return err
	}
	return printJSON(out, sets)
}

func runSet(ctx context.Context, f sdk.Flickr, args []string, out io.Writer) error {
	var id string
	flagSet := pflag.NewFlagSet("set", pflag.ContinueOnError)
	flagSet.StringVar(&id, "id", "", "set id")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if id == "" {
		return errors.New("set: --id is required")
	}
	set, err := f.Set(ctx, id, nil)
	if err != nil {
		return err
	}
	photos, err := set.Photos(ctx, nil)
	if err != nil {
		return err
	}
	url, err := set.URL(ctx)
	if err != nil {
		return err
	}
	return printJSON(out, map[string]any{
		"set":    set,
		"url":    url,
		"photos": photos,
	})
}

func runUser(ctx context.Context, f sdk.Flickr, args []string, out io.Writer) error {
	var username string
	flagSet := pflag.NewFlagSet("user", pflag.ContinueOnError)
	flagSet.StringVar(&username, "username", "", "screen name")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if username == "" {
		return errors.New("user: --username is required")
	}
	user, err := f.UserByUsername(ctx, username, nil)
	if err != nil {
		return err
	}
	// Reading one profile field loads them all.
	if _, err := user.Name(ctx); err != nil {
		return err
	}
	return printJSON(out, user)
}

func runUpload(ctx context.Context, f sdk.Flickr, args []string, out io.Writer) error {
	var (
		title  string
		tags   []string
		public bool
	)
	flagSet := pflag.NewFlagSet("upload", pflag.ContinueOnError)
	flagSet.StringVar(&title, "title", "", "photo title")
	flagSet.StringSliceVar(&tags, "tags", nil, "comma separated tags")
	flagSet.BoolVar(&public, "public", true, "make the photo public")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	files := flagSet.Args()
	if len(files) == 0 {
		return errors.New("upload: no files given")
	}

	opts := api.Options{"is_public": public}
	if title != "" {
		opts["title"] = title
	}
	if len(tags) > 0 {
		opts["tags"] = tags
	}

	var uploaded []any
	for _, file := range files {
		photo, err := f.Upload(ctx, api.FilePath(file), opts)
		if err != nil {
			return fmt.Errorf("upload %s: %w", file, err)
		}
		uploaded = append(uploaded, photo)
	}
	return printJSON(out, uploaded)
}

func printJSON(out io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "%s\n", data)
	return err
}
