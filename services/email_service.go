package services

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/kmalikov/competition-system/config"
	"github.com/kmalikov/competition-system/models"
)

// Шаблоны писем встроены в бинарник, чтобы не зависеть от рабочей директории.
const (
	welcomeEmailTemplate = `<html><body>
<h2>Добро пожаловать в Competition System!</h2>
<p>Здравствуйте, {{.Email}}!</p>
<p>Для подтверждения почты перейдите по ссылке: <a href="{{.ConfirmationLink}}">подтвердить email</a>.</p>
</body></html>`

	enrollmentApprovedTemplate = `<html><body>
<h2>Заявка одобрена</h2>
<p>Ваша заявка на участие в соревновании «{{.CompetitionName}}» одобрена организатором.</p>
<p>Следите за обновлениями — скоро будет жеребьёвка команд.</p>
</body></html>`

	teamsAssignedTemplate = `<html><body>
<h2>Команды сформированы</h2>
<p>В соревновании #{{.CompetitionID}} завершена жеребьёвка.</p>
<p>Вы играете за команду <b>{{.Team}}</b>. Удачи на поле!</p>
</body></html>`
)

type EmailService struct {
	cfg *config.Config
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{cfg: cfg}
}

func (s *EmailService) SendEmail(to []string, subject string, body string) error {
	auth := smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPass, s.cfg.SMTPHost)

	msg := []byte("To: " + to[0] + "\r\n" +
		"From: " + s.cfg.SMTPFrom + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\r\n" +
		"\r\n" +
		body + "\r\n")

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)

	tlsconfig := &tls.Config{
		InsecureSkipVerify: true,
		ServerName:         s.cfg.SMTPHost,
	}

	var client *smtp.Client
	if s.cfg.SMTPPort == 465 {
		// Прямое TLS-соединение (обычно порт 465)
		conn, err := tls.Dial("tcp", addr, tlsconfig)
		if err != nil {
			return fmt.Errorf("ошибка TLS соединения: %w", err)
		}
		defer conn.Close()
		client, err = smtp.NewClient(conn, s.cfg.SMTPHost)
		if err != nil {
			return fmt.Errorf("ошибка создания SMTP клиента: %w", err)
		}
	} else {
		// STARTTLS (обычно порт 587)
		c, err := smtp.Dial(addr)
		if err != nil {
			return fmt.Errorf("ошибка соединения SMTP: %w", err)
		}
		client = c
		if err = client.StartTLS(tlsconfig); err != nil {
			client.Close()
			return fmt.Errorf("ошибка команды STARTTLS: %w", err)
		}
	}
	defer client.Quit()

	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("ошибка аутентификации SMTP: %w", err)
	}

	if err := client.Mail(s.cfg.SMTPFrom); err != nil {
		return fmt.Errorf("ошибка MAIL FROM: %w", err)
	}
	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			return fmt.Errorf("ошибка RCPT TO: %w", err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("ошибка команды DATA: %w", err)
	}

	_, err = w.Write(msg)
	if err != nil {
		return fmt.Errorf("ошибка записи сообщения: %w", err)
	}

	err = w.Close()
	if err != nil {
		return fmt.Errorf("ошибка закрытия DATA: %w", err)
	}

	return nil
}

func (s *EmailService) GenerateEmailBody(tmpl string, data interface{}) (string, error) {
	t, err := template.New("email").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("ошибка парсинга шаблона: %w", err)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		return "", fmt.Errorf("ошибка выполнения шаблона: %w", err)
	}

	return body.String(), nil
}

func (s *EmailService) SendWelcomeEmail(userEmail string, confirmationToken string) error {
	subject := "Добро пожаловать в Competition System!"
	templateData := struct {
		Email            string
		ConfirmationLink string
	}{
		Email:            userEmail,
		ConfirmationLink: fmt.Sprintf("%s/confirm-email?token=%s", s.cfg.PublicURL, confirmationToken),
	}

	htmlBody, err := s.GenerateEmailBody(welcomeEmailTemplate, templateData)
	if err != nil {
		return fmt.Errorf("ошибка генерации тела приветственного письма: %w", err)
	}

	return s.SendEmail([]string{userEmail}, subject, htmlBody)
}

func (s *EmailService) SendEnrollmentApprovedEmail(userEmail, competitionName string) error {
	subject := fmt.Sprintf("Заявка на '%s' одобрена", competitionName)
	data := struct {
		CompetitionName string
	}{
		CompetitionName: competitionName,
	}
	htmlBody, err := s.GenerateEmailBody(enrollmentApprovedTemplate, data)
	if err != nil {
		return fmt.Errorf("ошибка генерации письма об одобрении заявки: %w", err)
	}
	return s.SendEmail([]string{userEmail}, subject, htmlBody)
}

func (s *EmailService) SendTeamsAssignedEmail(userEmail string, competitionID int, team models.TeamSide) error {
	subject := "Жеребьёвка команд завершена"
	data := struct {
		CompetitionID int
		Team          models.TeamSide
	}{
		CompetitionID: competitionID,
		Team:          team,
	}
	htmlBody, err := s.GenerateEmailBody(teamsAssignedTemplate, data)
	if err != nil {
		return fmt.Errorf("ошибка генерации письма о жеребьёвке: %w", err)
	}
	return s.SendEmail([]string{userEmail}, subject, htmlBody)
}

func (s *EmailService) SendSystemNotificationEmail(emails []string, subject, message string) error {
	for _, email := range emails {
		if err := s.SendEmail([]string{email}, subject, message); err != nil {
			return fmt.Errorf("ошибка отправки системного уведомления %s: %w", email, err)
		}
	}
	return nil
}
