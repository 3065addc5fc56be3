package tsdbjson

// PutOption configures a Store.Put call.
type PutOption func(*PutConfig)

// PutConfig holds configuration for writing an object.
type PutConfig struct {
	// ContentType is a MIME type hint for the content.
	// Some stores (S3, HTTP) use this for Content-Type headers.
	ContentType string

	// Metadata is store-specific metadata.
	// For S3, these become object metadata.
	// For file stores, this is ignored.
	Metadata map[string]string
}

// WithContentType sets the content type hint.
func WithContentType(contentType string) PutOption {
	return func(c *PutConfig) {
		c.ContentType = contentType
	}
}

// WithMetadata sets store-specific metadata.
func WithMetadata(metadata map[string]string) PutOption {
	return func(c *PutConfig) {
		c.Metadata = metadata
	}
}

// ApplyPutOptions applies options to a PutConfig.
func ApplyPutOptions(opts ...PutOption) *PutConfig {
	config := &PutConfig{}
	for _, opt := range opts {
		opt(config)
	}
	return config
}
