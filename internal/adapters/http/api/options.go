package api

import "github.com/pendulolabs/pendulo/pkg/logger"

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithCacheMaxAge sets the s-maxage lifetime, in seconds, advertised on
// successful artifact responses.
func WithCacheMaxAge(secs int) Option {
	return func(s *Server) {
		if secs > 0 {
			s.cacheMaxAgeSecs = secs
		}
	}
}

// WithLogger sets the server logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}
