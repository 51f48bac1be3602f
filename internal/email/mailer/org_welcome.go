// internal/email/mailer/org_welcome.go
package mailer

import "github.com/opsarc/tenantd/internal/email"

// WelcomeTemplateData contains data for the organization welcome template
type WelcomeTemplateData struct {
	OrganizationName string
}

// SendOrgWelcomeEmail notifies the admin that their organization workspace
// is provisioned
func SendOrgWelcomeEmail(s *email.Service, to, organizationName string) error {
	templateData := WelcomeTemplateData{
		OrganizationName: organizationName,
	}

	fromName := "Tenantd"

	emailData := email.EmailData{
		To:           to,
		FromName:     fromName,
		Subject:      "Your organization " + organizationName + " is ready",
		TemplateName: "org_welcome",
		TemplateData: templateData,
	}

	return s.SendEmail(emailData)
}
