// Command mealscan estimates the macronutrients of a meal from a photo or a
// text description.
//
// Usage:
//
//	mealscan -image lunch.jpg
//	mealscan -text "two eggs and toast" -user u1 -target-calories 2200
//	mealscan -watch ./inbox -save
//	mealscan -history 10 -user u1
//	mealscan -show 42
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/leofalp/mealscan/core/extract"
	"github.com/leofalp/mealscan/core/extract/middleware"
	"github.com/leofalp/mealscan/internal/config"
	"github.com/leofalp/mealscan/internal/utils"
	"github.com/leofalp/mealscan/internal/watch"
	"github.com/leofalp/mealscan/nutrition"
	"github.com/leofalp/mealscan/providers/ai/gemini"
	"github.com/leofalp/mealscan/providers/observability"
	slogobs "github.com/leofalp/mealscan/providers/observability/slog"
	"github.com/leofalp/mealscan/providers/store/pgstore"
)

type flags struct {
	image    string
	text     string
	food     string
	quantity string
	watchDir string
	save     bool
	verbose  bool
	history  int
	show     int64

	userID   string
	userInfo string
	target   nutrition.MacroSet
	consumed nutrition.MacroSet
}

func parseFlags() flags {
	var f flags
	flag.StringVar(&f.image, "image", "", "path of a meal photo to analyse")
	flag.StringVar(&f.text, "text", "", "free-text meal description to analyse")
	flag.StringVar(&f.food, "food", "", "food name hint")
	flag.StringVar(&f.quantity, "quantity", "", "quantity hint, e.g. \"200g\"")
	flag.StringVar(&f.watchDir, "watch", "", "analyse every photo dropped into this directory")
	flag.BoolVar(&f.save, "save", false, "store results (requires DATABASE_URL)")
	flag.BoolVar(&f.verbose, "verbose", false, "log prompts and model answers")
	flag.IntVar(&f.history, "history", 0, "list the user's N most recent stored analyses (requires -user)")
	flag.Int64Var(&f.show, "show", 0, "print the stored analysis with this id")
	flag.StringVar(&f.userID, "user", "", "user id for stored results and consumed totals")
	flag.StringVar(&f.userInfo, "user-info", "", "free-text user profile; enables suggestions")
	flag.Float64Var(&f.target.Calories, "target-calories", 0, "daily calorie target; enables suggestions")
	flag.Float64Var(&f.target.Protein, "target-protein", 0, "daily protein target (g)")
	flag.Float64Var(&f.target.Carbs, "target-carbs", 0, "daily carbs target (g)")
	flag.Float64Var(&f.target.Fat, "target-fat", 0, "daily fat target (g)")
	flag.Float64Var(&f.consumed.Calories, "consumed-calories", 0, "calories already eaten today")
	flag.Float64Var(&f.consumed.Protein, "consumed-protein", 0, "protein already eaten today (g)")
	flag.Float64Var(&f.consumed.Carbs, "consumed-carbs", 0, "carbs already eaten today (g)")
	flag.Float64Var(&f.consumed.Fat, "consumed-fat", 0, "fat already eaten today (g)")
	flag.Parse()
	return f
}

// analysisContext returns nil unless the user asked for a suggestion.
func (f flags) analysisContext() *nutrition.AnalysisContext {
	if f.userInfo == "" && f.target.IsZero() {
		return nil
	}
	return &nutrition.AnalysisContext{
		UserInfo:       f.userInfo,
		TotalMacros:    f.target,
		ConsumedMacros: f.consumed,
	}
}

func main() {
	f := parseFlags()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, f); err != nil {
		slog.Error("mealscan failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, f flags) error {
	modes := 0
	for _, set := range []bool{f.image != "", f.text != "", f.watchDir != "", f.history > 0, f.show > 0} {
		if set {
			modes++
		}
	}
	if modes != 1 {
		flag.Usage()
		return errors.New("exactly one of -image, -text, -watch, -history or -show is required")
	}
	if f.history > 0 && f.userID == "" {
		return errors.New("-history requires -user")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	observer := slogobs.New(logger)
	ctx = observability.ContextWithObserver(ctx, observer)

	provider := gemini.New()
	provider.WithAPIKey(cfg.APIKey)
	if cfg.BaseURL != "" {
		provider.WithBaseURL(cfg.BaseURL)
	}
	if cfg.Model != "" {
		provider.WithModel(cfg.Model)
	}

	logLevel := middleware.LogLevelStandard
	if f.verbose {
		logLevel = middleware.LogLevelVerbose
	}
	invoker := middleware.Chain(
		extract.ProviderInvoker(provider, cfg.Model),
		middleware.Logging(logger, logLevel),
		middleware.Retry(middleware.RetryConfig{}),
		middleware.Timeout(cfg.ModelTimeout),
	)

	a := &analyzer{
		invoker: invoker,
		pipeline: extract.New(invoker,
			extract.WithMaxParseRetries(cfg.ParseRetries),
			extract.WithMaxRegenRetries(cfg.RegenRetries),
			extract.WithBackoff(cfg.Backoff),
			extract.WithObserver(observer),
		),
		observer: observer,
	}

	readsStore := f.history > 0 || f.show > 0
	if f.save || readsStore || (cfg.DatabaseURL != "" && f.userID != "") {
		if cfg.DatabaseURL == "" {
			return errors.New("-save, -history and -show require DATABASE_URL")
		}
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer pool.Close()

		store := pgstore.New(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			return err
		}
		a.store = store
		a.save = f.save

		switch {
		case f.history > 0:
			return printHistory(ctx, os.Stdout, store, f.userID, f.history)
		case f.show > 0:
			return printAnalysis(ctx, os.Stdout, store, f.show)
		}
	}

	base := mealInput{
		FoodName: f.food,
		Quantity: f.quantity,
		UserID:   f.userID,
	}

	switch {
	case f.text != "":
		in := base
		in.Source = f.text
		in.Description = f.text
		in.Context = f.analysisContext()
		return analyzeAndPrint(ctx, a, in)
	case f.image != "":
		image, err := loadImage(f.image)
		if err != nil {
			return err
		}
		in := base
		in.Source = f.image
		in.Image = image
		in.Context = f.analysisContext()
		return analyzeAndPrint(ctx, a, in)
	default:
		defer observer.LogSummary(context.WithoutCancel(ctx))
		return watchInbox(ctx, a, f, base)
	}
}

func analyzeAndPrint(ctx context.Context, a *analyzer, in mealInput) error {
	outcome, err := a.analyze(ctx, in)
	fmt.Println(utils.JSONToString(outcome.Analysis, true))
	if outcome.Err != nil {
		observability.Resolve(ctx, a.observer).Warn(ctx, "Returned fallback analysis", observability.Error(outcome.Err))
	}
	return err
}

// settleDelay lets a copy finish before the photo is read.
const settleDelay = 500 * time.Millisecond

func watchInbox(ctx context.Context, a *analyzer, f flags, base mealInput) error {
	w, err := watch.New(nil)
	if err != nil {
		return err
	}
	defer w.Close()

	paths, err := w.Watch(ctx, f.watchDir)
	if err != nil {
		return fmt.Errorf("watch %s: %w", f.watchDir, err)
	}
	observer := observability.Resolve(ctx, a.observer)
	observer.Info(ctx, "Watching inbox", observability.String("dir", f.watchDir))

	for path := range paths {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(settleDelay):
		}

		image, err := loadImage(path)
		if err != nil {
			observer.Warn(ctx, "Skipping file", observability.String("path", path), observability.Error(err))
			continue
		}

		in := base
		in.Source = path
		in.Image = image
		in.Context = f.analysisContext()
		if err := analyzeAndPrint(ctx, a, in); err != nil {
			observer.Error(ctx, "Analysis not saved", observability.String("path", path), observability.Error(err))
		}
	}
	return nil
}
