package async

// loopOptions holds the resolved configuration for a Loop. Grounded on
// the teacher's loopOptions/LoopOption/resolveLoopOptions pattern
// (options.go), kept in the same shape.
type loopOptions struct {
	sleeper             Sleeper
	logger              Logger
	taskSetErrorHandler ErrorHandler
	strictClose         bool
}

// LoopOption configures a [Loop] at construction time.
type LoopOption interface {
	applyLoop(*loopOptions) error
}

type loopOptionFunc func(*loopOptions) error

func (f loopOptionFunc) applyLoop(o *loopOptions) error { return f(o) }

// WithSleeper overrides the default platform Sleeper used to block the
// loop's home goroutine when its queue is empty. Most callers should not
// need this; it exists chiefly so tests can inject a deterministic
// Sleeper.
func WithSleeper(s Sleeper) LoopOption {
	return loopOptionFunc(func(o *loopOptions) error {
		o.sleeper = s
		return nil
	})
}

// WithLogger sets the [Logger] used for uncaught daemon rejections and
// leaked-queue diagnostics on [Loop.Close].
func WithLogger(l Logger) LoopOption {
	return loopOptionFunc(func(o *loopOptions) error {
		o.logger = l
		return nil
	})
}

// WithTaskSetErrorHandler overrides the default logging [ErrorHandler]
// used by the loop's daemon task set (see [Daemonize]).
func WithTaskSetErrorHandler(h ErrorHandler) LoopOption {
	return loopOptionFunc(func(o *loopOptions) error {
		o.taskSetErrorHandler = h
		return nil
	})
}

// WithStrictClose makes [Loop.Close] panic with an [InvariantViolation]
// when the queue is still non-empty, instead of just logging the leak
// and discarding the stranded events. Useful in tests that want a
// leaked promise graph to fail loudly.
func WithStrictClose() LoopOption {
	return loopOptionFunc(func(o *loopOptions) error {
		o.strictClose = true
		return nil
	})
}

// resolveLoopOptions applies opts over the package defaults.
func resolveLoopOptions(opts []LoopOption) (*loopOptions, error) {
	cfg := &loopOptions{
		sleeper: newDefaultSleeper(),
		logger:  NewDefaultLogger(LevelWarn),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applyLoop(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
