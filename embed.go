package tenantd

import "embed"

// EmailFS holds the embedded email templates.
//
//go:embed templates/emails
var EmailFS embed.FS
