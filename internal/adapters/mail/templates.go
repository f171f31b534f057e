package mail

import (
	"bytes"
	"html/template"

	customErrors "github.com/oleksiikond/contactdeck/internal/domain/auth/errors"
)

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`<html>
<body>
<p>Hello {{.Username}},</p>
<p>Thank you for registering. Please confirm your email address by opening the link below:</p>
<p><a href="{{.Host}}api/v1/auth/confirmed_email/{{.Token}}">Confirm email</a></p>
<p>The link is valid for 7 days. If you did not register, ignore this message.</p>
</body>
</html>`))

var resetTmpl = template.Must(template.New("reset").Parse(`<html>
<body>
<p>Hello {{.Username}},</p>
<p>A password reset was requested for your account. Open the link below to choose a new password:</p>
<p><a href="{{.Host}}api/v1/users/reset_password/{{.Token}}">Reset password</a></p>
<p>The link is valid for 7 days. If you did not request a reset, ignore this message.</p>
</body>
</html>`))

type templateData struct {
	Username string
	Host     string
	Token    string
}

func renderConfirmation(username, host, token string) (string, error) {
	return render(confirmationTmpl, username, host, token)
}

func renderReset(username, host, token string) (string, error) {
	return render(resetTmpl, username, host, token)
}

func render(t *template.Template, username, host, token string) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, templateData{Username: username, Host: host, Token: token}); err != nil {
		return "", customErrors.WrapInternal(err, "render email template")
	}
	return buf.String(), nil
}
