package services

import (
	"fmt"
	"strings"
)

// Email bodies for the contact intake pipeline. The acknowledgment goes to
// the submitter, the notification to the site owner; both are independent
// best-effort sends.

// AutoReplySubject is the subject line of the acknowledgment email.
const AutoReplySubject = "Thank you for contacting me"

// AutoReplyBody renders the acknowledgment sent back to the submitter.
func AutoReplyBody(name string) string {
	return fmt.Sprintf(`
        <div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
          <h2 style="color: #DC2626;">Thank you for contacting me</h2>
          <p>Hello %s,</p>
          <p>Thank you for reaching out to me. I have received your message and will get back to you as soon as I'm available.</p>
          <p>I typically respond within 24-48 hours during weekdays.</p>
          <p>Best regards,<br>Ananta Sharma</p>
        </div>
      `, htmlEscape(name))
}

// NotificationSubject renders the subject of the owner alert.
func NotificationSubject(name string) string {
	return fmt.Sprintf("New Contact Form Submission from %s", name)
}

// NotificationBody renders the owner alert carrying the full submission.
func NotificationBody(name, email, message string) string {
	return fmt.Sprintf(`
        <div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
          <h2 style="color: #DC2626;">New Contact Form Submission</h2>
          <p><strong>Name:</strong> %s</p>
          <p><strong>Email:</strong> %s</p>
          <p><strong>Message:</strong></p>
          <div style="background-color: #f5f5f5; padding: 15px; border-radius: 5px;">
            %s
          </div>
        </div>
      `, htmlEscape(name), htmlEscape(email), strings.ReplaceAll(htmlEscape(message), "\n", "<br>"))
}

func htmlEscape(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
	)
	return replacer.Replace(s)
}
