package businessflow

import (
	"context"
	"log"

	gocache "github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/wildlifemlxy/shb-survey-sub004/app/services"
	"github.com/wildlifemlxy/shb-survey-sub004/models"
	"github.com/wildlifemlxy/shb-survey-sub004/repository"
)

var (
	ingestionRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "survey_ingestion_runs_total",
			Help: "Ingestion runs partitioned by result",
		},
		[]string{"result"},
	)

	surveysIngested = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "surveys_ingested",
			Help: "Surveys retained by the last successful ingestion run, per category",
		},
		[]string{"category"},
	)
)

const workbookCacheKey = "workbook:rows"

// IngestionFlow pulls the remote spreadsheet, extracts survey records, and
// replaces the repository contents wholesale.
type IngestionFlow interface {
	RunIngestion(ctx context.Context) (map[models.SurveyCategory]int, error)
}

type IngestionFlowImpl struct {
	fetcher   services.SheetFetcher
	extractor *services.SurveyExtractor
	repo      repository.SurveyRepository
	cache     *gocache.Cache
	logger    *log.Logger
}

// NewIngestionFlow creates the ingestion use case. cache, when non-nil, holds
// the fetched grid for a short TTL so repeated manual refresh triggers do not
// hammer the spreadsheet host.
func NewIngestionFlow(
	fetcher services.SheetFetcher,
	extractor *services.SurveyExtractor,
	repo repository.SurveyRepository,
	cache *gocache.Cache,
	logger *log.Logger,
) IngestionFlow {
	if logger == nil {
		logger = log.Default()
	}
	return &IngestionFlowImpl{
		fetcher:   fetcher,
		extractor: extractor,
		repo:      repo,
		cache:     cache,
		logger:    logger,
	}
}

// RunIngestion executes one full fetch → extract → replace cycle and returns
// the number of extracted surveys per category. A fetch failure aborts the run
// and leaves the previous repository state untouched; a persist failure is
// logged but the in-memory state stays authoritative.
func (f *IngestionFlowImpl) RunIngestion(ctx context.Context) (map[models.SurveyCategory]int, error) {
	rows, err := f.fetchRows(ctx)
	if err != nil {
		ingestionRunsTotal.WithLabelValues("fetch_error").Inc()
		return nil, NewBusinessError("FETCH_FAILED", "failed to fetch spreadsheet", err)
	}

	extracted := f.extractor.Extract(rows)

	counts := make(map[models.SurveyCategory]int, len(extracted))
	for _, category := range models.Categories() {
		records := extracted[category]
		counts[category] = len(records)
		if err := f.repo.ReplaceAll(category, records); err != nil {
			// In-memory state is already updated; only the disk write failed.
			f.logger.Printf("ingestion: persist failed for category=%s: %v", category, err)
		}
		surveysIngested.WithLabelValues(category.String()).Set(float64(len(records)))
	}

	ingestionRunsTotal.WithLabelValues("success").Inc()
	f.logger.Printf("ingestion: run complete wwfLed=%d volunteerLed=%d",
		counts[models.CategoryWWFLed], counts[models.CategoryVolunteerLed])
	return counts, nil
}

func (f *IngestionFlowImpl) fetchRows(ctx context.Context) ([][]string, error) {
	if f.cache != nil {
		if cached, ok := f.cache.Get(workbookCacheKey); ok {
			if rows, ok := cached.([][]string); ok {
				return rows, nil
			}
		}
	}

	rows, err := f.fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	if f.cache != nil {
		f.cache.Set(workbookCacheKey, rows, gocache.DefaultExpiration)
	}
	return rows, nil
}
