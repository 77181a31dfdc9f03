package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/leofalp/mealscan/internal/utils"
	"github.com/leofalp/mealscan/providers/store/pgstore"
)

type historyStore interface {
	ListAnalyses(ctx context.Context, userID string, limit int) ([]pgstore.Record, error)
	GetAnalysis(ctx context.Context, id int64) (pgstore.Record, error)
}

// printHistory writes one line per stored analysis, newest first.
func printHistory(ctx context.Context, w io.Writer, store historyStore, userID string, limit int) error {
	records, err := store.ListAnalyses(ctx, userID, limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		_, err := fmt.Fprintf(w, "no stored analyses for %s\n", userID)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tWHEN\tMODE\tSTATUS\tKCAL\tSOURCE")
	for _, rec := range records {
		status := "ok"
		if !rec.Succeeded {
			status = "fallback"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%.0f\t%s\n",
			rec.ID,
			rec.CreatedAt.Local().Format(time.DateTime),
			rec.Mode,
			status,
			rec.Analysis.TotalMacros.Calories,
			utils.TruncateString(rec.Source, 40),
		)
	}
	return tw.Flush()
}

// printAnalysis writes a stored analysis as indented JSON.
func printAnalysis(ctx context.Context, w io.Writer, store historyStore, id int64) error {
	rec, err := store.GetAnalysis(ctx, id)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, utils.JSONToString(rec.Analysis, true))
	return err
}
