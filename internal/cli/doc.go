// Package cli implements the nfmailer command tree.
//
//	nfmailer serve        HTTP control API, optional inbox watcher
//	nfmailer send         headless batch run over a directory or S3 prefix
//	nfmailer test-email   send the probe message through the configured provider
//
// Settings come from the environment (see internal/config); flags override
// them.
package cli
