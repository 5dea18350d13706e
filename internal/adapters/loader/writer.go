package loader

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/okian/medals/internal/domain/model"
)

// Header is the canonical column order written by Write.
var Header = []string{"Nation", "Year", "Gold", "Silver", "Bronze", "Total", "Rank"}

// Write emits records as the canonical CSV understood by Parse.
func Write(ctx context.Context, w io.Writer, records []model.MedalRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	for _, r := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		row := []string{
			r.Nation,
			strconv.Itoa(r.Year),
			strconv.Itoa(r.Gold),
			strconv.Itoa(r.Silver),
			strconv.Itoa(r.Bronze),
			strconv.Itoa(r.Total),
			strconv.Itoa(r.Rank),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("%w: %w", ErrWrite, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}
