package mailer

import "fmt"

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
type EmailJob struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text,omitempty"`
	HTML    string `json:"html,omitempty"`
}

// NewVerificationJob builds the registration verification email. The link
// embeds a single-use token with a short expiry.
func NewVerificationJob(to, name, verifyLink string) EmailJob {
	text := fmt.Sprintf(
		"%s 様\n\n会員登録ありがとうございます。\n以下のリンクをクリックして、メールアドレスの確認を完了してください。\n\n%s\n\nこのリンクの有効期限は1時間です。\n心当たりのない場合は、このメールを破棄してください。\n",
		name, verifyLink)
	html := fmt.Sprintf(
		`<p>%s 様</p><p>会員登録ありがとうございます。<br>以下のリンクをクリックして、メールアドレスの確認を完了してください。</p><p><a href="%s">メールアドレスを確認する</a></p><p>このリンクの有効期限は1時間です。<br>心当たりのない場合は、このメールを破棄してください。</p>`,
		name, verifyLink)
	return EmailJob{
		To:      to,
		Subject: "【会員登録】メールアドレスの確認",
		Text:    text,
		HTML:    html,
	}
}
