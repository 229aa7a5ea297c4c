// Package httpapi exposes a mailer.Sender over HTTP and consumes one.
//
// Handler accepts a JSON message:
//
//	POST /api/send-email
//	{"to": "...", "subject": "...", "text": "...", "html": "...",
//	 "attachments": [{"filename": "nf.pdf", "content": "<base64>", "encoding": "base64"}]}
//
// and answers 200 {"success": true, "messageId": "..."} or
// 500 {"success": false, "error": "..."}.
//
// Client is a mailer.Sender that posts messages to such an endpoint, so a
// dispatcher can run apart from the process holding mail credentials.
package httpapi
