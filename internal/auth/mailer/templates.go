package mailer

import "fmt"

const (
	VerificationSubject  = "Verify your email"
	PasswordResetSubject = "Password reset request"
)

// VerificationEmail renders the verify-email message pointing at the
// frontend verification page.
func VerificationEmail(firstName, clientURL, token string) string {
	verifyURL := fmt.Sprintf("%s/verify-email.html?token=%s", clientURL, token)

	return fmt.Sprintf(`<div style="font-family:Arial,sans-serif;background:#f4f6f8;padding:30px;">
  <div style="max-width:500px;margin:auto;background:#fff;padding:25px;border-radius:10px;">
    <h2>Welcome, %s</h2>
    <p>Thank you for signing up. Please verify your email address by clicking the button below:</p>
    <div style="text-align:center;margin:30px 0;">
      <a href="%s" style="background:#4f46e5;color:#fff;padding:12px 25px;text-decoration:none;border-radius:5px;">Verify Email</a>
    </div>
    <p style="font-size:13px;color:#888;">This link will expire in 24 hours. If you did not create this account, please ignore this email.</p>
  </div>
</div>`, firstName, verifyURL)
}

// PasswordResetEmail renders the reset-password message.
func PasswordResetEmail(clientURL, token string) string {
	resetURL := fmt.Sprintf("%s/reset-password.html?token=%s", clientURL, token)

	return fmt.Sprintf(`<div style="font-family:Arial,sans-serif;background:#f4f6f8;padding:30px;">
  <div style="max-width:500px;margin:auto;background:#fff;padding:25px;border-radius:10px;">
    <h2>Reset Your Password</h2>
    <p>Click the button below to reset your password. This link expires in 1 hour.</p>
    <div style="text-align:center;margin:30px 0;">
      <a href="%s" style="background:#4f46e5;color:#fff;padding:12px 25px;text-decoration:none;border-radius:5px;">Reset Password</a>
    </div>
  </div>
</div>`, resetURL)
}
