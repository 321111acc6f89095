// Command zap2xml fetches TV listings from the zap2it JSON grid and
// writes them out as a single XMLTV document, feeding guide data into
// consumers like Tvheadend. Responses are cached per time window, so an
// aborted run resumes where it left off.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/scipunch/zap2xml/cache"
	"github.com/scipunch/zap2xml/config"
	"github.com/scipunch/zap2xml/fetcher"
	"github.com/scipunch/zap2xml/guide"
	"github.com/scipunch/zap2xml/schedule"
	"github.com/scipunch/zap2xml/xmltv"
)

func main() {
	def := config.Default()

	var (
		cfgPath    = flag.String("config", config.DefaultPath(), "path to a TOML config")
		clean      = flag.Bool("clean", false, "remove the postal code's cached grid responses and exit")
		aid        = flag.String("aid", def.AID, "raw zap2it input parameter (affiliate id)")
		country    = flag.String("country", def.Country, "country identifying the listings to fetch")
		delay      = flag.Int("delay", def.Delay, "delay, in seconds, between server fetches")
		device     = flag.String("device", def.Device, "raw zap2it input parameter")
		headendID  = flag.String("headend-id", def.HeadendID, "raw zap2it input parameter")
		isOverride = flag.Bool("is-override", def.IsOverride, "raw zap2it input parameter")
		language   = flag.String("language", def.Language, "raw zap2it input parameter (language)")
		pref       = flag.String("pref", def.Pref, "raw zap2it input parameter (preferences)")
		timespan   = flag.Int("timespan", def.Timespan, "hours of data per fetch")
		timezone   = flag.String("timezone", def.Timezone, "raw zap2it input parameter (time zone)")
		userID     = flag.String("user-id", def.UserID, "raw zap2it input parameter")
		zip        = flag.String("zip", def.PostalCode, "the zip/postal code identifying the listings to fetch")
		cacheDir   = flag.String("cache-dir", def.CacheDir, "base directory for cached grid responses")
		output     = flag.String("output", def.OutputFile, "path of the generated XMLTV file")
	)
	flag.Parse()

	logger := newLogger()
	defer logger.Sync()
	log := logger.Sugar()

	// Read config and create if default is missing
	conf, err := config.Read(*cfgPath)
	if errors.Is(err, os.ErrNotExist) && *cfgPath == config.DefaultPath() {
		if err := config.Write(*cfgPath, conf); err != nil {
			log.Fatalf("failed to write default config with %s", err)
		}
	} else if err != nil {
		log.Fatalf("failed to read config with %s", err)
	}

	// Flags given on the command line win over file values.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "aid":
			conf.AID = *aid
		case "country":
			conf.Country = *country
		case "delay":
			conf.Delay = *delay
		case "device":
			conf.Device = *device
		case "headend-id":
			conf.HeadendID = *headendID
		case "is-override":
			conf.IsOverride = *isOverride
		case "language":
			conf.Language = *language
		case "pref":
			conf.Pref = *pref
		case "timespan":
			conf.Timespan = *timespan
		case "timezone":
			conf.Timezone = *timezone
		case "user-id":
			conf.UserID = *userID
		case "zip":
			conf.PostalCode = *zip
		case "cache-dir":
			conf.CacheDir = *cacheDir
		case "output":
			conf.OutputFile = *output
		}
	})

	if err := conf.Validate(); err != nil {
		log.Fatalf("invalid configuration: %s", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fs := afero.NewOsFs()
	store, err := cache.New(fs, conf.CacheDir, conf.PostalCode, time.Duration(conf.Delay)*time.Second, log)
	if err != nil {
		log.Fatalf("failed to initialize cache: %s", err)
	}

	// Handle -clean flag
	if *clean {
		if err := store.Clear(); err != nil {
			log.Fatalf("failed to clear cache: %s", err)
		}
		log.Infow("cache cleared successfully", "dir", store.Dir())
		return
	}

	log.Infow("processing listings", "postal_code", conf.PostalCode)

	now := time.Now()
	buckets := schedule.Buckets(now, conf.Timespan)
	if err := store.EvictStale(schedule.First(now, conf.Timespan)); err != nil {
		log.Fatalf("failed to evict stale cache entries: %s", err)
	}

	// Fetch, decode and accumulate one grid per time window, oldest first.
	client := fetcher.New(conf, log)
	grids := make([]fetcher.Grid, 0, len(buckets))
	for _, bucket := range buckets {
		raw, err := store.GetOrFetch(ctx, strconv.FormatInt(bucket, 10), func(ctx context.Context) ([]byte, error) {
			return client.FetchGrid(ctx, bucket)
		})
		if err != nil {
			log.Fatalf("failed to load grid for bucket %d with %s", bucket, err)
		}

		grid, err := fetcher.DecodeGrid(raw)
		if err != nil {
			log.Fatalf("failed to decode grid for bucket %d with %s", bucket, err)
		}
		grids = append(grids, grid)
	}
	log.Infow("fetched grids", "amount", len(grids))

	tv, err := guide.Aggregate(grids)
	if err != nil {
		log.Fatalf("failed to build guide with %s", err)
	}

	if err := xmltv.Write(fs, conf.OutputFile, tv); err != nil {
		log.Fatalf("failed to write output with %s", err)
	}
	log.Infow("XMLTV file generated",
		"path", conf.OutputFile,
		"channels", len(tv.Channels),
		"programmes", len(tv.Programmes))
}

func newLogger() *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if os.Getenv("DEBUG") != "" {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, _ := cfg.Build()
	return logger
}
