package bagtensor

import (
	"log/slog"

	"github.com/hupe1980/bagtensor/codec"
	"github.com/hupe1980/bagtensor/resource"
	"github.com/hupe1980/bagtensor/split"
	"github.com/hupe1980/bagtensor/tokenize"
)

// DefaultThreshold is the default minimum word frequency. Words must occur
// strictly more often to enter the vocabulary.
const DefaultThreshold = 10

type options struct {
	shards           int
	threshold        int64
	testFraction     float64
	testCount        int
	useTestCount     bool
	seed             uint64
	seeded           bool
	threads          int
	tokenizer        tokenize.Tokenizer
	codec            codec.Codec
	metricsCollector MetricsCollector
	logger           *Logger
	resource         *resource.Controller
	verify           bool
}

// Option configures a Pipeline.
type Option func(*options)

// WithShards sets k, the number of shards per mode.
func WithShards(k int) Option {
	return func(o *options) {
		o.shards = k
	}
}

// WithThreshold sets the minimum word frequency. A negative threshold keeps
// every word.
func WithThreshold(n int64) Option {
	return func(o *options) {
		o.threshold = n
	}
}

// WithTestFraction sets the fraction of reviews sampled into the test set.
func WithTestFraction(f float64) Option {
	return func(o *options) {
		o.testFraction = f
		o.useTestCount = false
	}
}

// WithTestCount samples an absolute number of reviews into the test set.
// It overrides WithTestFraction.
func WithTestCount(n int) Option {
	return func(o *options) {
		o.testCount = n
		o.useTestCount = true
	}
}

// WithSeed makes the train/test split reproducible. Without it a random
// seed is drawn and recorded in the manifest.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = seed
		o.seeded = true
	}
}

// WithThreads sets the worker count of the default tokenizer.
func WithThreads(n int) Option {
	return func(o *options) {
		o.threads = n
	}
}

// WithTokenizer replaces the default tokenizer.
func WithTokenizer(t tokenize.Tokenizer) Option {
	return func(o *options) {
		o.tokenizer = t
	}
}

// WithCodec configures the codec used for meta.txt and manifest.json.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithMetricsCollector configures a metrics collector for monitoring runs.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &bagtensor.BasicMetricsCollector{}
//	p, _ := bagtensor.New(bagtensor.WithMetricsCollector(metrics))
//	// ... run ...
//	stats := metrics.GetStats()
//	fmt.Printf("Shards: %d, bytes: %d\n", stats.ShardCount, stats.ShardBytes)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := bagtensor.NewJSONLogger(slog.LevelInfo)
//	p, _ := bagtensor.New(bagtensor.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithResourceController enforces a memory budget and output throttling.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.resource = rc
	}
}

// WithVerify re-reads every written shard and checks it against the manifest.
func WithVerify(v bool) Option {
	return func(o *options) {
		o.verify = v
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		shards:           1,
		threshold:        DefaultThreshold,
		testFraction:     split.DefaultFraction,
		threads:          tokenize.DefaultThreads,
		codec:            codec.Default,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	return o
}
