package audit

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/cockroachdb/errors"
	"github.com/nebulanet/panel/common/errs"
	"github.com/nebulanet/panel/modules/subscription/datagateway"
	"github.com/nebulanet/panel/pkg/logger"
	"github.com/nebulanet/panel/pkg/logger/slogx"
	"golang.org/x/sync/errgroup"
)

const (
	defaultInterval  = 5 * time.Minute
	defaultBatchSize = 1000

	streamPurchases = "purchase_records"
	streamPayments  = "payment_transactions"
)

type Config struct {
	Disabled  bool          `mapstructure:"disabled"`
	Region    string        `mapstructure:"region"`
	Bucket    string        `mapstructure:"bucket"`
	Prefix    string        `mapstructure:"prefix"`
	Interval  time.Duration `mapstructure:"interval"`
	BatchSize int32         `mapstructure:"batch_size"`
}

// Exporter tail-follows the append-only audit streams and uploads new rows as
// parquet objects for the reporting surface. Offsets are persisted per stream
// so a restart resumes where the previous run stopped.
type Exporter struct {
	subscriptionDg datagateway.SubscriptionDataGateway
	uploader       *manager.Uploader
	config         Config

	quitOnce sync.Once
	quit     chan struct{}
	done     chan struct{}
}

func New(ctx context.Context, subscriptionDg datagateway.SubscriptionDataGateway, config Config) (*Exporter, error) {
	if config.Bucket == "" {
		return nil, errors.New("audit_export.bucket config is required if audit export is enabled")
	}
	if config.Interval <= 0 {
		config.Interval = defaultInterval
	}
	if config.BatchSize <= 0 {
		config.BatchSize = defaultBatchSize
	}

	sdkConfig, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "can't load aws user config")
	}
	s3Client := s3.NewFromConfig(sdkConfig, func(o *s3.Options) {
		if config.Region != "" {
			o.Region = config.Region
		}
	})

	return &Exporter{
		subscriptionDg: subscriptionDg,
		uploader:       manager.NewUploader(s3Client),
		config:         config,

		quit: make(chan struct{}),
		done: make(chan struct{}),
	}, nil
}

func (e *Exporter) ShutdownWithTimeout(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return e.shutdownWithContext(ctx)
}

func (e *Exporter) shutdownWithContext(ctx context.Context) (err error) {
	e.quitOnce.Do(func() {
		close(e.quit)
		select {
		case <-e.done:
		case <-ctx.Done():
			err = errors.Wrap(errs.Timeout, "audit exporter shutdown timeout")
		}
	})
	return
}

func (e *Exporter) Run(ctx context.Context) error {
	defer close(e.done)

	ctx = logger.WithContext(ctx, slog.String("package", "audit"))

	ticker := time.NewTicker(e.config.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-e.quit:
			logger.InfoContext(ctx, "Got quit signal, stopping audit exporter")
			return nil
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := e.exportOnce(ctx); err != nil {
				logger.ErrorContext(ctx, "Audit export round failed", slogx.Error(err))
			}
		}
	}
}

// exportOnce exports both streams in parallel. Each stream commits its own
// offset, so a failure in one does not hold back the other.
func (e *Exporter) exportOnce(ctx context.Context) error {
	eg, egctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return errors.Wrap(e.exportPurchaseRecords(egctx), "failed to export purchase records")
	})
	eg.Go(func() error {
		return errors.Wrap(e.exportPaymentTransactions(egctx), "failed to export payment transactions")
	})
	return errors.WithStack(eg.Wait())
}

func (e *Exporter) exportPurchaseRecords(ctx context.Context) error {
	afterID, err := e.subscriptionDg.GetExportOffset(ctx, streamPurchases)
	if err != nil {
		return errors.Wrap(err, "failed to get export offset")
	}
	records, err := e.subscriptionDg.ListPurchaseRecordsAfter(ctx, afterID, e.config.BatchSize)
	if err != nil {
		return errors.Wrap(err, "failed to list purchase records")
	}
	if len(records) == 0 {
		return nil
	}

	data, err := encodePurchaseRecords(records)
	if err != nil {
		return errors.Wrap(err, "failed to encode purchase records")
	}
	lastID := records[len(records)-1].ID
	if err := e.upload(ctx, streamPurchases, afterID, lastID, data); err != nil {
		return errors.Wrap(err, "failed to upload batch")
	}
	if err := e.subscriptionDg.SetExportOffset(ctx, streamPurchases, lastID); err != nil {
		return errors.Wrap(err, "failed to set export offset")
	}
	logger.InfoContext(ctx, "Exported purchase records",
		slogx.Int("count", len(records)),
		slogx.Int64("lastId", lastID),
	)
	return nil
}

func (e *Exporter) exportPaymentTransactions(ctx context.Context) error {
	afterID, err := e.subscriptionDg.GetExportOffset(ctx, streamPayments)
	if err != nil {
		return errors.Wrap(err, "failed to get export offset")
	}
	txs, err := e.subscriptionDg.ListPaymentTransactionsAfter(ctx, afterID, e.config.BatchSize)
	if err != nil {
		return errors.Wrap(err, "failed to list payment transactions")
	}
	if len(txs) == 0 {
		return nil
	}

	data, err := encodePaymentTransactions(txs)
	if err != nil {
		return errors.Wrap(err, "failed to encode payment transactions")
	}
	lastID := txs[len(txs)-1].ID
	if err := e.upload(ctx, streamPayments, afterID, lastID, data); err != nil {
		return errors.Wrap(err, "failed to upload batch")
	}
	if err := e.subscriptionDg.SetExportOffset(ctx, streamPayments, lastID); err != nil {
		return errors.Wrap(err, "failed to set export offset")
	}
	logger.InfoContext(ctx, "Exported payment transactions",
		slogx.Int("count", len(txs)),
		slogx.Int64("lastId", lastID),
	)
	return nil
}

func (e *Exporter) upload(ctx context.Context, stream string, afterID, lastID int64, data []byte) error {
	key := fmt.Sprintf("%s%s/%020d-%020d.parquet", e.config.Prefix, stream, afterID+1, lastID)
	_, err := e.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(e.config.Bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return errors.Wrapf(err, "failed to upload s3 object %q", key)
	}
	return nil
}
