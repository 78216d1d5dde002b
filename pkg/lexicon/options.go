// Package lexicon covers the two word-study providers: the semantic term
// vocabulary and the Strong's concordance.
package lexicon

import "go.uber.org/zap"

type settings struct {
	logger *zap.Logger
}

type Option func(*settings)

func WithLogger(logger *zap.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

func applyOptions(opts []Option) settings {
	s := settings{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}
