package ingest

import (
	"context"

	"github.com/lumenlearn/objecthub/internal/domain"
)

type Result[T any] struct {
	Result T
	Err    error
}

type Collector[T any] interface {
	Collect(ctx context.Context) (<-chan Result[T], error)
}

const collectWorkers = 4

// RecordCollector reads dataset rows and maps them into working
// records, streaming the results as they are produced.
type RecordCollector struct {
	reader *CSVReader
	mapper *RecordMapper
}

func NewRecordCollector(reader *CSVReader, mapper *RecordMapper) *RecordCollector {
	return &RecordCollector{
		reader: reader,
		mapper: mapper,
	}
}

func (c *RecordCollector) Collect(ctx context.Context) (<-chan Result[domain.WorkingRecord], error) {
	rows, err := c.reader.ReadParallel(ctx, collectWorkers)
	if err != nil {
		return nil, err
	}

	out := make(chan Result[domain.WorkingRecord])
	go func() {
		defer close(out)
		for row := range rows {
			if row.Err != nil {
				select {
				case out <- Result[domain.WorkingRecord]{Err: row.Err}:
				case <-ctx.Done():
					return
				}
				continue
			}

			rec, err := c.mapper.Map(row.Row)
			select {
			case out <- Result[domain.WorkingRecord]{Result: rec, Err: err}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}
