// Package server exposes the dispatch engine over HTTP for a browser UI.
//
// Routes:
//
//	GET  /api/state               run snapshot, draft, folders, statistics
//	POST /api/folders             multipart upload, one field per customer folder
//	PUT  /api/draft               global email, subject and body
//	GET  /api/overrides           all recipient overrides
//	PUT  /api/overrides/{folder}  set one override
//	POST /api/start|pause|resume|reset
//	POST /api/send-email          raw transport boundary
//	POST /api/test-email          probe message to the sender account
//	GET  /health/live, /health/ready
//
// Errors are JSON objects {"error": "...", "code": "..."}.
package server
