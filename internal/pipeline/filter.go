package pipeline

import (
	"github.com/ticketstory/story-server/internal/config"
	"github.com/ticketstory/story-server/internal/ingest"
)

// FilterCategories keeps only rows whose service category appears in the
// mapping and derives the product column for each kept row. Unknown codes are
// expected noise, so dropped rows are counted rather than errored; the rows
// themselves are never altered beyond the added product column.
func FilterCategories(rows []ingest.Row, mapping map[string]string) (kept []ingest.Row, discarded int) {
	kept = make([]ingest.Row, 0, len(rows))
	for _, row := range rows {
		product, ok := mapping[row.Get(config.ColServiceCategory)]
		if !ok {
			discarded++
			continue
		}

		out := make(ingest.Row, len(row)+1)
		for k, v := range row {
			out[k] = v
		}
		out[config.ColProduct] = product
		kept = append(kept, out)
	}
	return kept, discarded
}
