// Package validation holds the upload checks run before a transcription
// request reaches the backend, plus struct-tag and programmatic validation
// used for configuration.
//
// # Upload checks
//
//	rules := validation.UploadRules{MaxBytes: 25 << 20, APIKey: key}
//	if appErr := rules.Check(apiKey, &validation.File{SizeBytes: n, ContentType: ct}); appErr != nil {
//	    // respond with appErr
//	}
//
// # Struct tags
//
//	type RuntimeConfig struct {
//	    BaseURL string `mapstructure:"baseurl" validate:"required,url"`
//	}
//	err := validation.Validate(cfg)
package validation
