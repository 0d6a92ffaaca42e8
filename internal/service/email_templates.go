package service

import "fmt"

func magicLinkEmailTemplate(magicURL, appName string) (string, string) {
	subject := fmt.Sprintf("Sign in to %s", appName)
	body := fmt.Sprintf(`Click this link to sign in to your account:
%s

This link expires in 10 minutes and can only be used once.

If you didn't request this, ignore this email.

Best,
The %s Team`, magicURL, appName)

	return subject, body
}

func noticeEmailTemplate(name, title, dashboardURL, appName string) (string, string) {
	subject := fmt.Sprintf("New notice from %s: %s", appName, title)
	body := fmt.Sprintf(`Hi %s,

Your consultant left you a new notice: "%s"

Read it on your dashboard: %s

Best,
The %s Team`, name, title, dashboardURL, appName)

	return subject, body
}
