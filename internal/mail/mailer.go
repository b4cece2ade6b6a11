// Package mail delivers transactional email (OTP codes for password resets).
package mail

import (
	"context"
	"fmt"
)

// Mailer is the narrow sending interface the services depend on.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// OTPEmailBody renders the password-reset message. Kept here so the user and
// admin flows send an identical template.
func OTPEmailBody(code string, validMinutes int) string {
	return fmt.Sprintf(`
	<html>
	<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px;">
		<div style="max-width: 500px; margin: auto; background-color: #ffffff; border-radius: 8px; padding: 30px;">
			<h2 style="color: #1a1a4d;">Password Reset Code</h2>
			<p>Use the following code to reset your Clinigoal password:</p>
			<p style="font-size: 28px; font-weight: bold; letter-spacing: 6px; color: #1a1a4d;">%s</p>
			<p>The code expires in %d minutes. If you did not request a reset, ignore this email.</p>
		</div>
	</body>
	</html>`, code, validMinutes)
}
