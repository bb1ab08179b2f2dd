package admin

import (
	"mindnest/models"
)

// GetLegalSections returns all policy documents.
func (a *DefaultAdminService) GetLegalSections() []models.LegalSection {
	return []models.LegalSection{
		{
			ID:       "terms",
			Title:    "Terms of Service",
			Summary:  "These terms govern your use of MindNest.",
			Content:  generateTermsOfService(),
			Audience: models.AudienceAll,
			Version:  "v1.2",
			Updated:  a.policiesUpdated,
		},
		{
			ID:       "privacy",
			Title:    "Privacy Policy",
			Summary:  "How MindNest collects, stores and protects personal and health data.",
			Content:  generatePrivacyPolicy(),
			Audience: models.AudienceAll,
			Version:  "v1.2",
			Updated:  a.policiesUpdated,
		},
		{
			ID:       "refunds",
			Title:    "Payment, Cancellation & Refund Policy",
			Summary:  "How session payments, rescheduling and refunds work.",
			Content:  generateRefundPolicy(),
			Audience: models.AudiencePatient,
			Version:  "v1.1",
			Updated:  a.policiesUpdated,
		},
		{
			ID:       "practice",
			Title:    "Practitioner Code of Practice",
			Summary:  "Professional standards every listed psychologist agrees to.",
			Content:  generatePracticeCode(),
			Audience: models.AudiencePsychologist,
			Version:  "v1.0",
			Updated:  a.policiesUpdated,
		},
	}
}

// GetLegalSectionsFor returns documents relevant to the given audience.
func (a *DefaultAdminService) GetLegalSectionsFor(audience string) []models.LegalSection {
	all := a.GetLegalSections()
	if audience == "" || audience == models.AudienceAll {
		return all
	}
	filtered := []models.LegalSection{}
	for _, section := range all {
		if section.Audience == models.AudienceAll || section.Audience == audience {
			filtered = append(filtered, section)
		}
	}
	return filtered
}

func (a *DefaultAdminService) GetLegalSection(id string) (*models.LegalSection, error) {
	for _, section := range a.GetLegalSections() {
		if section.ID == id {
			s := section
			return &s, nil
		}
	}
	return nil, ErrPolicyNotFound
}

func generateTermsOfService() string {
	return `By booking a session on MindNest you agree to these Terms of Service.

1. Eligibility: You must be 18+ or book with a guardian's consent.
2. Nature of service: MindNest connects you with independent licensed psychologists. It is not an emergency service.
3. Emergencies: If you are in crisis, contact your local emergency number immediately.
4. Sessions: Sessions are held over video. The meeting link is sent once the session is scheduled.
5. Conduct: Abuse towards practitioners or staff ends access to the platform.`
}

func generatePrivacyPolicy() string {
	return `MindNest handles your information with the confidentiality therapy requires.

1. Data we collect: name, email, booking times and payment references.
2. Session content: we do not record or store what is said in sessions.
3. Payments: card details are handled by our payment processor and never reach our servers.
4. Calendar: your email is shared with your psychologist's calendar invite only.
5. Your rights: you can request a copy or deletion of your data at any time.`
}

func generateRefundPolicy() string {
	return `1. Sessions are paid in full when booked.
2. Reschedule free of charge up to 24 hours before the session.
3. Cancellations within 24 hours are not refunded except in emergencies.
4. If we fail to schedule your session after payment, our team will reschedule it or refund you in full.
5. Refunds reach the original payment method within 5-7 working days.`
}

func generatePracticeCode() string {
	return `Psychologists listed on MindNest agree to:

- Hold a valid license and keep it current.
- Keep all session content confidential within the limits of the law.
- Join scheduled sessions on time using the provided meeting link.
- Refer clients to emergency services when there is risk of harm.`
}
