package main

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/leofalp/mealscan/core/extract"
	"github.com/leofalp/mealscan/core/prompt"
	"github.com/leofalp/mealscan/nutrition"
	"github.com/leofalp/mealscan/providers/ai"
	"github.com/leofalp/mealscan/providers/observability"
	"github.com/leofalp/mealscan/providers/store/pgstore"
)

// mealStore is the subset of *pgstore.Store the analyzer needs.
type mealStore interface {
	SaveAnalysis(ctx context.Context, rec pgstore.Record) (pgstore.Record, error)
	ConsumedSince(ctx context.Context, userID string, since time.Time) (nutrition.MacroSet, error)
}

type mealInput struct {
	// Source is the image path or the meal description, as stored.
	Source      string
	Description string
	Image       *ai.ImageData

	FoodName string
	Quantity string
	UserID   string
	Context  *nutrition.AnalysisContext
}

func (in mealInput) mode() nutrition.Mode {
	if in.Image != nil {
		return nutrition.ModeImage
	}
	return nutrition.ModeText
}

type analyzer struct {
	invoker  extract.Invoker
	pipeline *extract.Pipeline
	// observer falls back to the one in the call context, then to a no-op.
	observer observability.Provider

	// store is nil without a database. save controls whether outcomes are
	// written; consumed totals are read whenever store is set.
	store mealStore
	save  bool
	now   func() time.Time
}

// analyze asks the model once, hands the answer to the pipeline and stores
// the outcome. A failed first call still goes through the pipeline, which
// regenerates.
func (a *analyzer) analyze(ctx context.Context, in mealInput) (extract.Outcome, error) {
	mode := in.mode()
	observer := observability.Resolve(ctx, a.observer)

	if in.Context != nil && a.store != nil && in.UserID != "" && in.Context.ConsumedMacros.IsZero() {
		consumed, err := a.store.ConsumedSince(ctx, in.UserID, startOfDay(a.clock()))
		if err != nil {
			observer.Warn(ctx, "Could not load consumed macros",
				observability.String(observability.AttrStoreUserID, in.UserID),
				observability.Error(err),
			)
		} else {
			in.Context.ConsumedMacros = consumed
		}
	}

	text := prompt.Build(prompt.Input{
		Mode:        mode,
		Description: in.Description,
		FoodName:    in.FoodName,
		Quantity:    in.Quantity,
		Context:     in.Context,
	})

	raw, err := a.invoker.Invoke(ctx, text, in.Image)
	if err != nil {
		observer.Warn(ctx, "Initial model call failed", observability.Error(err))
	}

	outcome := a.pipeline.Run(ctx, extract.Request{
		RawText:  raw,
		Prompt:   text,
		Image:    in.Image,
		Mode:     mode,
		FoodName: in.FoodName,
		Quantity: in.Quantity,
		Context:  in.Context,
	})

	if a.store == nil || !a.save {
		return outcome, nil
	}

	saved, err := a.store.SaveAnalysis(ctx, pgstore.Record{
		UserID:    in.UserID,
		Mode:      mode,
		Source:    in.Source,
		Analysis:  outcome.Analysis,
		Succeeded: outcome.Succeeded(),
		Attempts:  outcome.Attempts,
	})
	if err != nil {
		return outcome, err
	}
	observer.Info(ctx, "Analysis saved", observability.Int64(observability.AttrStoreAnalysisID, saved.ID))
	return outcome, nil
}

func (a *analyzer) clock() time.Time {
	if a.now != nil {
		return a.now()
	}
	return time.Now()
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// loadImage reads a photo from disk, inferring its MIME type from the
// extension.
func loadImage(path string) (*ai.ImageData, error) {
	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, fmt.Errorf("%s: not a recognised image type", path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%s: file is empty", path)
	}
	return ai.NewImageData(mimeType, raw), nil
}
