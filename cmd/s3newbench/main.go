package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/bcncpp/s3newbench/bench"
	"github.com/bcncpp/s3newbench/objstore/objaws"
	"github.com/bcncpp/s3newbench/telemetry"
)

func main() {
	var (
		endpointURL = flag.String("endpoint-url", "", "Endpoint URL for S3 object storage")
		accessKey   = flag.String("access-key", "", "Access key for S3 object storage")
		secretKey   = flag.String("secret-key", "", "Secret key for S3 object storage")
		region      = flag.String("region", "us-east-1", "Region for S3 object storage")
		bucketName  = flag.String("bucket-name", "", "S3 bucket name")
		objectSize  = flag.String("object-size", "", "S3 object size (e.g. 10MB)")
		elasticURL  = flag.String("elastic-url", "", "Elasticsearch cluster URL")
		numObjects  = flag.Int("num-objects", 0, "Number of objects to put/get")
		workload    = flag.String("workload", "", "Workload running on S3 - read/write")
		maxLatency  = flag.Float64("max-latency", 0, "Max acceptable latency per object operation in ms (0 disables)")
		prefix      = flag.String("prefix", "", "A prefix (directory) located in the bucket")
		cleanup     = flag.Bool("cleanup", false, "Cleanup all the objects written by this run")
		concurrency = flag.Int("concurrency", 1, "Number of concurrent workers")
		rateLimit   = flag.Int("rate-limit", 0, "Max operations per second (0 means no limit)")
		opTimeout   = flag.Duration("op-timeout", time.Minute, "Timeout applied to each storage operation")
		debug       = flag.Bool("debug", false, "Enable debug logging")
	)

	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := run(context.Background(), runOptions{
		endpointURL: *endpointURL,
		accessKey:   *accessKey,
		secretKey:   *secretKey,
		region:      *region,
		bucketName:  *bucketName,
		objectSize:  *objectSize,
		elasticURL:  *elasticURL,
		numObjects:  *numObjects,
		workload:    *workload,
		maxLatency:  *maxLatency,
		prefix:      *prefix,
		cleanup:     *cleanup,
		concurrency: *concurrency,
		rateLimit:   *rateLimit,
		opTimeout:   *opTimeout,
		logger:      logger,
	}); err != nil {
		logger.Error("benchmark failed", "error", err)
		os.Exit(1)
	}
}

type runOptions struct {
	endpointURL, accessKey, secretKey, region     string
	bucketName, objectSize, elasticURL, workload  string
	prefix                                        string
	numObjects, concurrency, rateLimit            int
	maxLatency                                    float64
	cleanup                                       bool
	opTimeout                                     time.Duration
	logger                                        *slog.Logger
}

func run(ctx context.Context, opts runOptions) error {
	size, err := bench.ParseSizeSpec(opts.objectSize)
	if err != nil {
		return err
	}

	mode, err := bench.ParseMode(opts.workload)
	if err != nil {
		return err
	}

	cfg, err := config.LoadDefaultConfig(
		ctx,
		config.WithRegion(opts.region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(opts.accessKey, opts.secretKey, "")),
	)
	if err != nil {
		return fmt.Errorf("failed to load AWS config: %w", err)
	}

	serviceAPI := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.endpointURL != "" {
			o.BaseEndpoint = aws.String(opts.endpointURL)
		}

		// Path style addressing is required by most S3 compatible stores
		o.UsePathStyle = true
	})

	client := objaws.NewClient(objaws.ClientOptions{ServiceAPI: serviceAPI, Logger: opts.logger})
	defer client.Close()

	indexer, err := telemetry.NewElasticClient(telemetry.ElasticClientOptions{URL: opts.elasticURL})
	if err != nil {
		return err
	}

	sink := telemetry.NewSink(telemetry.SinkOptions{
		Indexer:     indexer,
		Dispatchers: opts.concurrency,
		Logger:      opts.logger,
	})

	executor, err := bench.NewWorkloadExecutor(bench.ExecutorOptions{
		Client: client,
		Sink:   sink,
		Spec: bench.WorkloadSpec{
			Bucket:       opts.bucketName,
			Prefix:       opts.prefix,
			Size:         size,
			ObjectCount:  opts.numObjects,
			Mode:         mode,
			MaxLatencyMS: opts.maxLatency,
			Concurrency:  opts.concurrency,
			Cleanup:      opts.cleanup,
			RateLimit:    opts.rateLimit,
			OpTimeout:    opts.opTimeout,
		},
		Logger: opts.logger,
	})
	if err != nil {
		return err
	}

	summary, err := executor.Run(ctx)
	if summary != nil {
		opts.logger.Info("run complete",
			"state", summary.State,
			"attempted", summary.Attempted,
			"succeeded", summary.Succeeded,
			"failed", summary.Failed,
			"telemetry_dropped", summary.TelemetryDropped,
			"cleanup_attempted", summary.CleanupAttempted,
			"cleanup_failed", summary.CleanupFailed,
			"empty_workload", summary.EmptyWorkload,
		)
	}

	return err
}
