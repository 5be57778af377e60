package handlers

import (
	"html"

	"github.com/gofiber/fiber/v2"
)

const legalStyle = `<style>body{font-family:-apple-system,BlinkMacSystemFont,sans-serif;max-width:800px;margin:0 auto;padding:20px;color:#333}h1{color:#1a1a1a}h2{color:#444;margin-top:30px}</style>`

type LegalHandler struct {
	appName string
}

func NewLegalHandler(appName string) *LegalHandler {
	if appName == "" {
		appName = "BookNest"
	}
	return &LegalHandler{appName: html.EscapeString(appName)}
}

func (h *LegalHandler) PrivacyPolicy(c *fiber.Ctx) error {
	return c.Type("html").SendString(`<!DOCTYPE html>
<html><head><title>Privacy Policy - ` + h.appName + `</title>
<meta name="viewport" content="width=device-width, initial-scale=1">
` + legalStyle + `
</head><body>
<h1>Privacy Policy</h1>
<h2>Information We Collect</h2>
<p>We store your email address and the profile you fill in: name, phone, city, area, pincode, address and photo. Posts, applications and chat messages you create are stored with your account.</p>
<h2>Who Sees It</h2>
<p>Other members see your name and location on your posts. Your contact details are shared with an applicant only when you accept their request.</p>
<h2>Data Storage</h2>
<p>Your data and uploaded images are stored on our servers. We do not sell your personal information to third parties.</p>
<h2>Contact</h2>
<p>For questions about this policy, contact the ` + h.appName + ` team.</p>
</body></html>`)
}

func (h *LegalHandler) TermsOfService(c *fiber.Ctx) error {
	return c.Type("html").SendString(`<!DOCTYPE html>
<html><head><title>Terms of Service - ` + h.appName + `</title>
<meta name="viewport" content="width=device-width, initial-scale=1">
` + legalStyle + `
</head><body>
<h1>Terms of Service</h1>
<h2>Acceptance</h2>
<p>By using ` + h.appName + `, you agree to these terms.</p>
<h2>Exchanges</h2>
<p>Books are exchanged directly between members. ` + h.appName + ` is not a party to any exchange and does not verify the condition of listed books.</p>
<h2>User Conduct</h2>
<p>Do not post offensive, illegal or misleading listings or messages.</p>
<h2>Termination</h2>
<p>We may suspend accounts that violate these terms.</p>
</body></html>`)
}
