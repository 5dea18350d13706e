package vectorstore

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/okian/medals/internal/domain/dedupe"
	"github.com/okian/medals/internal/domain/model"
)

// recordNamespace seeds the deterministic ids of medal sentences.
var recordNamespace = uuid.MustParse("7f0d8f9e-3b1c-5a57-9a53-6f6c796d7069")

// Metadata keys set by IndexRecords.
const (
	MetaNation = "nation"
	MetaYear   = "year"
	MetaGold   = "gold"
)

// RecordID is the stable document id of a medal table row.
func RecordID(r model.MedalRecord) string {
	return uuid.NewSHA1(recordNamespace, []byte(dedupe.RecordKey(r.Nation, r.Year))).String()
}

// RecordText renders a row as the Spanish sentence that gets indexed.
func RecordText(r model.MedalRecord) string {
	return fmt.Sprintf("El país %s en los Juegos Olímpicos de %d ganó %d medallas de oro, %d de plata, y %d de bronce, sumando un total de %d medallas. Quedó en el puesto %d del medallero.",
		r.Nation, r.Year, r.Gold, r.Silver, r.Bronze, r.Total, r.Rank)
}

// IndexRecords upserts one sentence per record. Re-indexing the same rows
// replaces them in place.
func IndexRecords(ctx context.Context, s Store, records []model.MedalRecord) error {
	docs := make([]string, len(records))
	ids := make([]string, len(records))
	md := make([]map[string]string, len(records))
	for i, r := range records {
		docs[i] = RecordText(r)
		ids[i] = RecordID(r)
		md[i] = map[string]string{
			MetaNation: r.Nation,
			MetaYear:   strconv.Itoa(r.Year),
			MetaGold:   strconv.Itoa(r.Gold),
		}
	}
	return s.Upsert(ctx, docs, ids, md)
}
