package mail

import "fmt"

// VerificationMessage builds the email carrying a one-time verification code.
// The same template serves registration activation, password reset, and email
// change; codes expire ten minutes after issuance.
func VerificationMessage(appName, to, code string) Message {
	subject := fmt.Sprintf("[%s] Your verification code", appName)
	body := fmt.Sprintf(
		"Hello!\n\nYour verification code is: %s\n\nThe code is valid for 10 minutes. Do not share it with anyone.\n\nIf you did not request this, you can safely ignore this message.\n\n%s Team\n",
		code, appName,
	)

	return Message{
		To:      []string{to},
		Subject: subject,
		Body:    body,
	}
}
